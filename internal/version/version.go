// Package version reports the folio build.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Version is set at link time with -ldflags "-X .../internal/version.Version=v1.2.3".
var Version = "dev"

// String describes the binary: version, VCS revision when known, Go version
// and platform.
func String() string {
	return format(Version, revision(), runtime.Version(), runtime.GOOS+"/"+runtime.GOARCH)
}

func format(version, rev, goVersion, platform string) string {
	if rev != "" {
		version += " (" + rev + ")"
	}
	return fmt.Sprintf("folio %s %s %s", version, goVersion, platform)
}

func revision() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	var rev string
	var dirty bool
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			rev = s.Value
		case "vcs.modified":
			dirty = s.Value == "true"
		}
	}
	if len(rev) > 12 {
		rev = rev[:12]
	}
	if rev != "" && dirty {
		rev += "-dirty"
	}
	return rev
}
