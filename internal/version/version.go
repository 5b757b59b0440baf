// Package version carries build-time version metadata.
package version

// Version contains the application version. Set via build-time ldflags:
// go build -ldflags "-X git.home.luguber.info/inful/mailposture/internal/version.Version=v1.2.0".
var Version = "unknown"

// BuildInfo contains additional build metadata.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)
