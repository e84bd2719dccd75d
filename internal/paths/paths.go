package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

const (

	// Name used for directory and file naming.
	toolName = "forge"

	// Default permission mode for directories.
	DefaultDirMode os.FileMode = 0755

	// Default permission mode for files.
	DefaultFileMode os.FileMode = 0644
)

// Path to the directory for build state.
//
//	Linux:   ~/.local/state/forge
//	macOS:   ~/Library/Application Support/forge
func State() string {
	return filepath.Join(xdg.StateHome, toolName)
}

// Path to the directory where rendered build files are written.
//
//	Linux:   ~/.local/state/forge/buildfiles
func BuildFiles() string {
	return filepath.Join(State(), "buildfiles")
}

// Path to the directory where build provenance records are written.
//
//	Linux:   ~/.local/state/forge/builds
func Builds() string {
	return filepath.Join(State(), "builds")
}
