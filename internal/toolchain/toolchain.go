package toolchain

import (
	"sort"
	"strings"

	"github.com/keyshard/forge/internal/platform"
)

// Cargo and cc-rs environment keys for the fixed deployment target. Cargo
// reads the linker override from the CARGO_TARGET_* key; the cc/cxx/ar
// keys are read by build scripts compiling C and C++ dependencies.
const (
	envLinker    = "CARGO_TARGET_X86_64_UNKNOWN_LINUX_GNU_LINKER"
	envCC        = "CC_x86_64_unknown_linux_gnu"
	envCXX       = "CXX_x86_64_unknown_linux_gnu"
	envAR        = "AR_x86_64_unknown_linux_gnu"
	envRustFlags = "RUSTFLAGS"
)

// Environment bindings for one build invocation.
//
// Vars holds toolchain executable overrides; RustFlags holds the ordered
// link-search-path flags joined into RUSTFLAGS at render time. A zero
// Bindings means the native toolchain is used unmodified.
type Bindings struct {
	Vars      map[string]string
	RustFlags []string
}

// Derives environment bindings from a toolchain profile.
//
// Native profiles produce zero bindings. Cross profiles bind the linker,
// C compiler, C++ compiler, and archiver to the profile's executables and
// carry the profile's link flags in order. Deriving twice from the same
// profile yields equal bindings; nothing accumulates between calls.
func Configure(p platform.Profile) Bindings {
	exes := p.Bindings()
	if len(exes) == 0 {
		return Bindings{}
	}

	vars := make(map[string]string, len(exes))
	if exe, ok := exes[platform.RoleLinker]; ok {
		vars[envLinker] = exe
	}
	if exe, ok := exes[platform.RoleCC]; ok {
		vars[envCC] = exe
	}
	if exe, ok := exes[platform.RoleCXX]; ok {
		vars[envCXX] = exe
	}
	if exe, ok := exes[platform.RoleArchiver]; ok {
		vars[envAR] = exe
	}

	return Bindings{
		Vars:      vars,
		RustFlags: p.LinkFlags(),
	}
}

// Whether any toolchain override is set.
func (b Bindings) Empty() bool {
	return len(b.Vars) == 0 && len(b.RustFlags) == 0
}

// Renders the bindings as "KEY=VALUE" pairs suitable for appending to a
// child process environment. Keys are sorted so output is deterministic.
func (b Bindings) Environ() []string {
	env := make([]string, 0, len(b.Vars)+1)
	for k, v := range b.Vars {
		env = append(env, k+"="+v)
	}
	sort.Strings(env)

	if len(b.RustFlags) > 0 {
		env = append(env, envRustFlags+"="+strings.Join(b.RustFlags, " "))
	}
	return env
}

// Executables the builder must be able to resolve before compiling.
// Sorted for deterministic error reporting.
func (b Bindings) Executables() []string {
	seen := make(map[string]bool, len(b.Vars))
	for _, exe := range b.Vars {
		seen[exe] = true
	}

	exes := make([]string, 0, len(seen))
	for exe := range seen {
		exes = append(exes, exe)
	}
	sort.Strings(exes)
	return exes
}
