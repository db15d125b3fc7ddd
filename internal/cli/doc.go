// Package cli implements the renderscreenshot command-line tool.
//
// Configuration is resolved in increasing precedence from built-in defaults,
// the YAML config file, a .env file in the working directory, environment
// variables and command-line flags. When no other source provides an API
// key, the OS keyring is consulted.
package cli
