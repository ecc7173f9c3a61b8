// Package version reports the build of the running binary.
package version

import (
	"runtime"
	"runtime/debug"
	"strings"
)

// Stamped by the release build through -ldflags "-X".
var (
	Version = "dev"
	Commit  = ""
	Date    = ""
)

// Info describes the running binary
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit,omitempty"`
	Date      string `json:"date,omitempty"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// Get returns the stamped build, filling an unstamped commit and date from the
// VCS settings the Go toolchain embeds.
func Get() Info {
	info := Info{
		Version:   Version,
		Commit:    Commit,
		Date:      Date,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, s := range bi.Settings {
			switch {
			case s.Key == "vcs.revision" && info.Commit == "":
				info.Commit = s.Value
			case s.Key == "vcs.time" && info.Date == "":
				info.Date = s.Value
			}
		}
	}
	if len(info.Commit) > 12 {
		info.Commit = info.Commit[:12]
	}
	return info
}

// String renders e.g. "repocontext v1.2.0 (a1b2c3d, 2025-12-22) go1.24.1 linux/amd64"
func (i Info) String() string {
	var b strings.Builder
	b.WriteString("repocontext " + i.Version)
	if meta := strings.Join(nonEmpty(i.Commit, i.Date), ", "); meta != "" {
		b.WriteString(" (" + meta + ")")
	}
	b.WriteString(" " + i.GoVersion + " " + i.Platform)
	return b.String()
}

func nonEmpty(values ...string) []string {
	out := values[:0]
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

// Full returns the one-line description printed by the version command
func Full() string {
	return Get().String()
}

// UserAgent is the default User-Agent for outgoing requests
func UserAgent() string {
	return "repocontext/" + Version
}
