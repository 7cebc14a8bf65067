// Package utils provides bespoke, one off utils that don't make sense to be
// their own package
package utils

import "fmt"

// Build metadata, set with -ldflags "-X".
var (
	Version   = "dev"
	Sha       = "HEAD"
	Buildtime = "dev"
)

// UserAgent identifies this build to the graphchat server.
func UserAgent() string {
	return fmt.Sprintf("graphchat/%s (%s)", Version, Sha)
}

// VersionInfo is the multi-line build summary printed by "graphchat version".
func VersionInfo() string {
	return fmt.Sprintf("Version: %s\nSha: %s\nBuilt at: %s\n", Version, Sha, Buildtime)
}
