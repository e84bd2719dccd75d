package builder

import "errors"

var (
	ErrToolchainMissing  = errors.New("cross toolchain not found")
	ErrDependencyInstall = errors.New("target support install failed")
	ErrCompilation       = errors.New("compilation failed")
)
