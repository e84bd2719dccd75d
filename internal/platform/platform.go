package platform

import (
	goruntime "runtime"

	"github.com/containerd/platforms"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
)

const (

	// Rust target triple every release binary is compiled for, regardless
	// of the build host.
	TargetTriple = "x86_64-unknown-linux-gnu"

	// OCI platform the runtime image is built for. Must agree with
	// [TargetTriple].
	TargetPlatform = "linux/amd64"

	// Executable name prefix of the cross toolchain for [TargetTriple].
	crossPrefix = "x86_64-unknown-linux-gnu-"
)

// Host operating system as seen by the detector.
type HostOS string

const (
	Linux  HostOS = "linux"
	Darwin HostOS = "darwin"
	Other  HostOS = "other"
)

// Role of an executable within the toolchain.
type Role string

const (
	RoleLinker   Role = "linker"
	RoleCC       Role = "cc"
	RoleCXX      Role = "cxx"
	RoleArchiver Role = "ar"
)

// Describes how the compiler is driven on a given host.
//
// Exactly two implementations exist: NativeProfile and CrossCompileProfile.
// Both target [TargetTriple]; only the toolchain bindings differ.
type Profile interface {

	// Host operating system the profile was resolved for.
	Host() HostOS

	// Target triple the release binary is compiled for. Always
	// [TargetTriple]; the host never changes the target.
	Target() string

	// Toolchain executables by role. Empty for native profiles.
	Bindings() map[Role]string

	// Additional link-search-path flags, in order. Empty for native
	// profiles.
	LinkFlags() []string
}

// Profile for a host whose native toolchain already targets [TargetTriple].
type NativeProfile struct {
	host HostOS
}

func (p NativeProfile) Host() HostOS              { return p.host }
func (p NativeProfile) Target() string            { return TargetTriple }
func (p NativeProfile) Bindings() map[Role]string { return nil }
func (p NativeProfile) LinkFlags() []string       { return nil }

// Profile for a host that must drive a cross toolchain to reach
// [TargetTriple].
type CrossCompileProfile struct {
	host      HostOS
	bindings  map[Role]string
	linkFlags []string
}

func (p CrossCompileProfile) Host() HostOS   { return p.host }
func (p CrossCompileProfile) Target() string { return TargetTriple }

// Returns a copy of the toolchain bindings. Callers may not mutate the
// profile through the returned map.
func (p CrossCompileProfile) Bindings() map[Role]string {
	out := make(map[Role]string, len(p.bindings))
	for role, exe := range p.bindings {
		out[role] = exe
	}
	return out
}

func (p CrossCompileProfile) LinkFlags() []string {
	return append([]string(nil), p.linkFlags...)
}

// Resolves the toolchain profile for the current host.
func Detect() Profile {
	return ProfileForHost(goruntime.GOOS)
}

// Resolves the toolchain profile for an explicit host OS identifier.
//
// A Darwin host gets the cross profile. Linux matches the deployment
// target and uses its toolchain as-is. Every other value falls back to
// the native profile; no error is reported for unknown hosts.
func ProfileForHost(hostOS string) Profile {
	switch hostOS {
	case "darwin":
		return CrossCompileProfile{
			host: Darwin,
			bindings: map[Role]string{
				RoleLinker:   crossPrefix + "gcc",
				RoleCC:       crossPrefix + "gcc",
				RoleCXX:      crossPrefix + "g++",
				RoleArchiver: crossPrefix + "ar",
			},
			linkFlags: []string{"-L/usr/local/opt/" + TargetTriple + "/lib"},
		}
	case "linux":
		return NativeProfile{host: Linux}
	default:
		return NativeProfile{host: Other}
	}
}

// Returns the deployment target as an OCI platform spec, normalized the
// same way the container runtime normalizes it.
func OCITarget() ocispec.Platform {
	p, err := platforms.Parse(TargetPlatform)
	if err != nil {
		// TargetPlatform is a constant; Parse can only fail if it is
		// edited into an invalid value.
		panic(err)
	}
	return platforms.Normalize(p)
}

// Returns the build host as an OCI platform spec.
func OCIHost() ocispec.Platform {
	return platforms.DefaultSpec()
}
