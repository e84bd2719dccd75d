// Provides platform-appropriate paths for forge state.
//
// All paths follow XDG conventions on Linux and platform-native conventions
// on macOS. The tool name "forge" is used as the subdirectory under each
// base path.
package paths
