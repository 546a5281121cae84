package cmd

import (
	"bytes"
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCmd_Output(t *testing.T) {
	cmd := newVersionCmd()

	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{})

	require.NoError(t, cmd.Execute())

	output := out.String()
	if output == "version: unknown\n" {
		return
	}

	assert.Contains(t, output, "suitesync")
	assert.Contains(t, output, "go")
}

func TestPrintBuildInfo(t *testing.T) {
	cmd := newVersionCmd()
	out := &bytes.Buffer{}
	cmd.SetOut(out)

	printBuildInfo(cmd, &debug.BuildInfo{
		GoVersion: "go1.25.1",
		Main:      debug.Module{Version: "v0.3.0"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "4f2a9c1"},
			{Key: "vcs.modified", Value: "false"},
			{Key: "GOOS", Value: "linux"},
		},
	})

	output := out.String()
	assert.Contains(t, output, "v0.3.0")
	assert.Contains(t, output, "go1.25.1")
	assert.Contains(t, output, "vcs.revision")
	assert.Contains(t, output, "4f2a9c1")
	assert.NotContains(t, output, "GOOS")
}

func TestPrintBuildInfo_DevelBuild(t *testing.T) {
	cmd := newVersionCmd()
	out := &bytes.Buffer{}
	cmd.SetOut(out)

	printBuildInfo(cmd, &debug.BuildInfo{GoVersion: "go1.25.1"})

	assert.Contains(t, out.String(), "(devel)")
}
