package internal

import (
	"fmt"
	"runtime"
	"strings"
)

const (

	// String to indicate an undefined variable
	defaultUndefined = "(undefined)"

	// String to indicate a local (non-pipeline) build
	defaultLocalBuild = "(local)"

	// Main branch name, elided from version strings
	mainBranch = "main"
)

// Returns the value trimmed and lowercased, or "(undefined)" when empty.
func orUndefined(v string) string {
	v = strings.ToLower(strings.TrimSpace(v))
	if v == "" {
		return defaultUndefined
	}
	return v
}

// Returns the current version, without any "v" prefix.
func Version() string {
	return strings.TrimPrefix(orUndefined(version), "v")
}

// Returns the development stage, normally the git branch the build was
// cut from.
func Stage() string {
	return orUndefined(stage)
}

// Returns the git commit hash.
func GitCommit() string {
	c := strings.TrimSpace(gitCommit)
	if c == "" {
		return defaultUndefined
	}
	return c
}

// Returns true if this is a local (non-pipeline) build.
//
// Pipeline builds set the version, commit, and stage via linker flags; a
// build missing any of them is treated as local.
func IsLocal() bool {
	return strings.TrimSpace(version) == "" ||
		strings.TrimSpace(gitCommit) == "" ||
		strings.TrimSpace(stage) == ""
}

// Returns a detailed version string.
//
// Local builds report "(local)". Pipeline builds report
// "<version>[+<stage>] <git-commit> [<arch>]", with the stage elided on
// the main branch.
func VersionString() string {
	if IsLocal() {
		return defaultLocalBuild
	}

	v := Version()
	if s := Stage(); s != mainBranch {
		v += "+" + s
	}

	return fmt.Sprintf("%s %s [%s]", v, GitCommit(), runtime.GOARCH)
}
