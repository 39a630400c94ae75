// Package version reports the build identity of the quotedesk binary.
package version

import (
	"fmt"
	"runtime/debug"
)

// Set at build time via ldflags, e.g.
//
//	-X github.com/example/quotedesk/internal/version.Version=v0.3.0
var (
	Version   = "dev"
	Commit    = ""
	BuildTime = ""
)

// String returns the version line shown by `quotedesk --version`. Commit and
// build time fall back to the VCS stamp Go embeds in module builds.
func String() string {
	commit, built := Commit, BuildTime
	if commit == "" || built == "" {
		vcsCommit, vcsTime := vcsStamp()
		if commit == "" {
			commit = vcsCommit
		}
		if built == "" {
			built = vcsTime
		}
	}
	return format(Version, commit, built)
}

func format(version, commit, built string) string {
	if commit == "" {
		commit = "unknown"
	}
	if len(commit) > 7 {
		commit = commit[:7]
	}
	if built == "" {
		built = "unknown"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, built)
}

func vcsStamp() (revision, at string) {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "", ""
	}
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			revision = s.Value
		case "vcs.time":
			at = s.Value
		}
	}
	return revision, at
}
