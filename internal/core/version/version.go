// Package version holds build metadata injected via ldflags.
package version

// Version is overridden at build time:
//
//	go build -ldflags "-X github.com/dianajengpr/copywritingassistant/internal/core/version.Version=1.2.3"
var Version = "0.1.0"

// Commit is the git revision the binary was built from.
var Commit = "dev"
