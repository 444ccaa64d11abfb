// Copyright © 2024 The ELPS authors

package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/luthersystems/gleamconsole/dom"
	"github.com/luthersystems/gleamconsole/format"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runRender runs the render command with args and returns its output.
func runRender(t *testing.T, stdin string, args []string, opts ...Option) (string, error) {
	t.Helper()
	opts = append([]Option{WithLogger(hclog.NewNullLogger())}, opts...)
	cmd := RenderCommand(opts...)
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.Execute()
	return stdout.String(), err
}

func TestRenderCommand_DefaultFlags(t *testing.T) {
	cmd := RenderCommand()
	assert.Equal(t, "render [flags] [files...]", cmd.Use)

	for _, name := range []string{"expression", "input", "html", "expand", "exclude", "wrap"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), "missing flag: %s", name)
	}
}

func TestRenderCommand_Expressions(t *testing.T) {
	out, err := runRender(t, "", []string{"-e", `1 "a"`, `#(1, 2)`})
	require.NoError(t, err)
	assert.Equal(t, "1\na\n⏵ #(1, 2)\n", out)
}

func TestRenderCommand_Expand(t *testing.T) {
	out, err := runRender(t, "", []string{"--expand", "1", "-e", `#(1, 2)`})
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "⏷ #(1, 2)", lines[0])
	assert.Contains(t, lines[1], "0: 1")
	assert.Contains(t, lines[2], "1: 2")
}

func TestRenderCommand_Files(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.gleam"), []byte(`Ok(1)`), 0o600))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "skip"), 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "skip", "b.gleam"), []byte(`2`), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "c.json"), []byte(`{"a": 1, "b": "x"}`), 0o600))

	out, err := runRender(t, "", []string{"--exclude", "skip", dir + "/..."})
	require.NoError(t, err)
	assert.Equal(t, "⏵ Ok(1)\n⏵ { a: 1, b: \"x\" }\n", out)

	_, err = runRender(t, "", []string{filepath.Join(dir, "missing.gleam")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read values")
}

func TestRenderCommand_Stdin(t *testing.T) {
	out, err := runRender(t, "[1, 2] Nil", nil)
	require.NoError(t, err)
	assert.Equal(t, "⏵ [1, 2]\nNil\n", out)

	out, err = runRender(t, `{"a": 1}`, []string{"--input", "json"})
	require.NoError(t, err)
	assert.Equal(t, "⏵ { a: 1 }\n", out)

	_, err = runRender(t, "1", []string{"--input", "xml"})
	assert.EqualError(t, err, `unknown input format "xml"`)
}

func TestRenderCommand_HTML(t *testing.T) {
	out, err := runRender(t, "", []string{"--html", "-e", `"hi"`})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, `<div class="log-container">`), out)
	assert.Contains(t, out, `data-log-level="log"`)
	assert.Contains(t, out, "hi")
}

func TestRenderCommand_WithRule(t *testing.T) {
	rule := format.Rule{
		Name:   "answer",
		Match:  func(_ *format.Formatter, v any) bool { return v == int64(42) },
		Format: func(*format.Formatter, any, format.Context) *dom.Node { return dom.Text("the answer") },
	}
	out, err := runRender(t, "", []string{"-e", "42 41"}, WithRule(rule))
	require.NoError(t, err)
	assert.Equal(t, "the answer\n41\n", out)
}
