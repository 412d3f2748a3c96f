package main

import (
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVersionOf(t *testing.T) {
	installed := &debug.BuildInfo{Main: debug.Module{Version: "v1.2.0"}}
	assert.Equal(t, "v1.2.0", versionOf(installed, "v0.9.0"))

	local := &debug.BuildInfo{
		Main: debug.Module{Version: "(devel)"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "0123456789abcdef0123"},
			{Key: "vcs.modified", Value: "true"},
		},
	}
	assert.Equal(t, "v0.9.0", versionOf(local, "v0.9.0"))
	assert.Equal(t, "devel-0123456789ab-dirty", versionOf(local, ""))

	assert.Equal(t, "#UNAVAILABLE", versionOf(&debug.BuildInfo{Main: debug.Module{Version: "(devel)"}}, ""))
	assert.Equal(t, "#UNAVAILABLE", versionOf(nil, ""))
}
