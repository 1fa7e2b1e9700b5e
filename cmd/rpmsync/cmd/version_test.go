package cmd

import (
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCurrentBuild(t *testing.T) {
	stamped := func() (*debug.BuildInfo, bool) {
		return &debug.BuildInfo{
			Main: debug.Module{Version: "v0.3.0"},
			Settings: []debug.BuildSetting{
				{Key: "vcs.revision", Value: "3f5f724cb5b1"},
				{Key: "vcs.time", Value: "2019-05-14T00:00:00Z"},
				{Key: "vcs.modified", Value: "true"},
			},
		}, true
	}

	b := currentBuild(stamped)
	assert.Equal(t, "v0.3.0", b.Version)
	assert.Equal(t, "3f5f724cb5b1", b.Commit)
	assert.Equal(t, "dirty", b.Modified)
	assert.Equal(t, "2019-05-14T00:00:00Z", b.BuildDate)
	assert.Contains(t, b.text(), "Commit: 3f5f724cb5b1 (dirty)\n")

	// linker flags win
	GitCommit, Version = "abcdef", "v1.0.0"
	defer func() { GitCommit, Version = "", "" }()
	b = currentBuild(stamped)
	assert.Equal(t, "v1.0.0", b.Version)
	assert.Equal(t, "abcdef", b.Commit)

	GitCommit, Version = "", ""
	b = currentBuild(func() (*debug.BuildInfo, bool) {
		return &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}}, true
	})
	assert.Equal(t, devVersion, b.Version)
	assert.Empty(t, b.Commit)
	assert.NotContains(t, b.text(), "Commit:")

	b = currentBuild(func() (*debug.BuildInfo, bool) { return nil, false })
	assert.Equal(t, devVersion, b.Version)
}
