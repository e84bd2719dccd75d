package image

import "errors"

var (
	ErrPlan              = errors.New("invalid layer plan")
	ErrAssembly          = errors.New("image build failed")
	ErrMissingCopySource = errors.New("copy source missing")
	ErrPackageInstall    = errors.New("package install failed")
	ErrBaseImagePull     = errors.New("base image pull failed")
)
