package main

import (
	"runtime/debug"
)

// set with -ldflags "-X main.buildVersion=..."
var buildVersion string

func appVersion() string {
	info, _ := debug.ReadBuildInfo()
	return versionOf(info, buildVersion)
}

// versionOf prefers the module version recorded by go install, then the
// ldflags value, then the vcs revision of a local build.
func versionOf(info *debug.BuildInfo, injected string) string {
	if info != nil && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	if injected != "" {
		return injected
	}
	if info != nil {
		rev, dirty := "", false
		for _, s := range info.Settings {
			switch s.Key {
			case "vcs.revision":
				rev = s.Value
			case "vcs.modified":
				dirty = s.Value == "true"
			}
		}
		if rev != "" {
			if len(rev) > 12 {
				rev = rev[:12]
			}
			if dirty {
				rev += "-dirty"
			}
			return "devel-" + rev
		}
	}
	return "#UNAVAILABLE"
}
