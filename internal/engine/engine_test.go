package engine

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleOutput = `{
  "engine": "c",
  "durationMs": 1.5,
  "count": 2,
  "commit": "abc123",
  "buildFlags": "-O2",
  "colors": [
    {"oklab": {"l": 0.5, "a": 0.1, "b": -0.1}, "rgb": {"r": 0.6, "g": 0.4, "b": 0.5}},
    {"oklab": {"l": 0.7, "a": 0.0, "b": 0.0}, "rgb": {"r": 0.65, "g": 0.65, "b": 0.65}}
  ]
}`

func TestParse(t *testing.T) {
	t.Parallel()
	out, err := Parse([]byte(sampleOutput))
	require.NoError(t, err)

	assert.Equal(t, "c", out.Engine)
	assert.Equal(t, 2, out.Count)
	assert.Equal(t, 2, out.Len())
	assert.Equal(t, "abc123", out.Commit)
	assert.Equal(t, "-O2", out.BuildFlags)
	assert.Empty(t, out.Platform)
	assert.InDelta(t, 0.5, out.Colors[0].OKLab.L, 1e-12)
	assert.InDelta(t, 0.65, out.Colors[1].SRGB.G, 1e-12)
}

func TestParse_Invalid(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		data string
	}{
		{"not json", "hello"},
		{"missing colors", `{"engine":"c","durationMs":1,"count":0}`},
		{"empty colors", `{"engine":"c","durationMs":1,"count":0,"colors":[]}`},
		{"color without rgb", `{"engine":"c","durationMs":1,"count":1,"colors":[{"oklab":{"l":0,"a":0,"b":0}}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestOutput_LenNil(t *testing.T) {
	var out *Output
	assert.Equal(t, 0, out.Len())
}

func TestNewCommand(t *testing.T) {
	t.Parallel()
	c, err := NewCommand("alternate", "node dist/runner.js", "corpus.json")
	require.NoError(t, err)

	assert.Equal(t, "alternate", c.Name())
	assert.Equal(t, "node", c.Binary())
	assert.Equal(t,
		[]string{"dist/runner.js", "--corpus", "corpus.json", "--case-id", "warm-3"},
		c.buildArgs("warm-3"))

	_, err = NewCommand("canonical", "   ", "corpus.json")
	assert.Error(t, err)
}

func writeScript(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts not supported on Windows")
	}
	path := filepath.Join(t.TempDir(), "engine.sh")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755))
	return path
}

func TestCommand_Run(t *testing.T) {
	script := writeScript(t, "cat <<'JSON'\n"+sampleOutput+"\nJSON\n")

	c, err := NewCommand("canonical", script, "corpus.json")
	require.NoError(t, err)

	out, err := c.Run(context.Background(), "warm-3")
	require.NoError(t, err)
	assert.Equal(t, 2, out.Len())
}

func TestCommand_RunPassesArguments(t *testing.T) {
	script := writeScript(t, `if [ "$1" != "--corpus" ] || [ "$2" != "c.json" ] || [ "$3" != "--case-id" ] || [ "$4" != "x" ]; then
  echo "bad args: $*" >&2
  exit 3
fi
echo '{"engine":"t","durationMs":0,"count":1,"colors":[{"oklab":{"l":0,"a":0,"b":0},"rgb":{"r":0,"g":0,"b":0}}]}'
`)
	c, err := NewCommand("canonical", script, "c.json")
	require.NoError(t, err)

	out, err := c.Run(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, "t", out.Engine)
}

func TestCommand_RunFailure(t *testing.T) {
	script := writeScript(t, "echo 'boom' >&2\nexit 2\n")

	c, err := NewCommand("alternate", script, "corpus.json")
	require.NoError(t, err)

	_, err = c.Run(context.Background(), "warm-3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestCommand_RunBadOutput(t *testing.T) {
	script := writeScript(t, "echo 'not json'\n")

	c, err := NewCommand("alternate", script, "corpus.json")
	require.NoError(t, err)

	_, err = c.Run(context.Background(), "warm-3")
	assert.Error(t, err)
}

func TestCommand_LookPath(t *testing.T) {
	c, err := NewCommand("alternate", "definitely-not-a-real-engine-binary", "corpus.json")
	require.NoError(t, err)
	assert.Error(t, c.LookPath())
}
