// Package version provides the semantic version of the naldo server.
package version

// Version is the current version of the server.
var Version = "0.3.1"

// DevVersion is the logical version used in dev mode.
var DevVersion = "0.0.0"

func GetCurrentVersion(mode string) string {
	if mode == "dev" {
		return DevVersion
	}
	return Version
}
