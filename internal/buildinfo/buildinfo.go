// Package buildinfo holds version information injected at build time via ldflags:
//
//	-X github.com/indicator-tide/indicator-tide/internal/buildinfo.Version=1.2.3
package buildinfo

import (
	"fmt"
	"runtime"
)

var (
	Version    = "dev"
	CommitHash = "unknown"
	BuildDate  = "unknown"
)

// Platform returns "os/arch".
func Platform() string {
	return fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)
}
