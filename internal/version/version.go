// Package version exposes build metadata for the blackjack library and CLI.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

const unknownValue = "unknown"

// Build-time variables set by ldflags.
var (
	Version   = "dev"
	BuildDate = unknownValue
	GitCommit = unknownValue
	GoVersion = runtime.Version()
)

// BuildInfo carries build metadata.
type BuildInfo struct {
	Version   string `json:"version"`
	BuildDate string `json:"build_date"`
	GitCommit string `json:"git_commit"`
	GoVersion string `json:"go_version"`
	Dirty     bool   `json:"dirty"`
}

// Info returns build metadata, filling in what debug.ReadBuildInfo knows
// when ldflags were not set.
func Info() BuildInfo {
	info := BuildInfo{
		Version:   Version,
		BuildDate: BuildDate,
		GitCommit: GitCommit,
		GoVersion: GoVersion,
	}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	for _, setting := range bi.Settings {
		switch setting.Key {
		case "vcs.revision":
			if info.GitCommit == unknownValue {
				info.GitCommit = setting.Value
			}
		case "vcs.time":
			if info.BuildDate == unknownValue {
				info.BuildDate = setting.Value
			}
		case "vcs.modified":
			info.Dirty = setting.Value == "true"
		}
	}
	if info.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}
	return info
}

// Short returns a one-line version string.
func Short() string {
	info := Info()
	commit := info.GitCommit
	if len(commit) > 7 {
		commit = commit[:7]
	}
	s := fmt.Sprintf("blackjack %s (%s, %s)", info.Version, commit, info.GoVersion)
	if info.Dirty {
		s += " dirty"
	}
	return s
}
