// Parses flags and configures logging for the forge CLI.
//
// The CLI accepts the following global flags:
//
//	-q, --quiet     Suppress informational output.
//	-v, --verbose   Enable verbose output.
//	-d, --debug     Enable debug output.
//
// Flags override build-time defaults set via linker flags. After parsing,
// the global logger is reconfigured to reflect the final level before the
// selected command runs. The release command itself takes no required
// flags; its inputs come from FORGE_* environment variables, matching the
// pipeline's environment-driven invocation contract.
package cli
