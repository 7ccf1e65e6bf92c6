package version

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInfoString(t *testing.T) {
	i := Info{
		Version:   "1.2.3",
		GitCommit: "abcdefg",
		BuildTime: "2026-10-18T15:04:05Z",
		GoVersion: "go1.24.2",
		Platform:  "linux/amd64",
	}
	assert.Equal(t, "androidsnap version 1.2.3 (commit: abcdefg) built at 2026-10-18T15:04:05Z with go1.24.2 on linux/amd64", i.String())
}

func TestGet(t *testing.T) {
	info := Get()
	assert.Equal(t, Version, info.Version)
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.Equal(t, runtime.GOOS+"/"+runtime.GOARCH, info.Platform)
}
