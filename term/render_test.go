// Copyright © 2024 The ELPS authors

package term_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/luthersystems/gleamconsole/console"
	"github.com/luthersystems/gleamconsole/consoletest"
	"github.com/luthersystems/gleamconsole/dom"
	"github.com/luthersystems/gleamconsole/term"
	"github.com/luthersystems/gleamconsole/tree"
	"github.com/luthersystems/gleamconsole/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newConsole() *console.Logger {
	return console.New(dom.Div(), console.WithTable(&console.Table{}))
}

func TestRenderItemsAndGroups(t *testing.T) {
	l := newConsole()
	l.Log("hello", 1)
	l.Group("g")
	l.Warn(true)
	l.GroupEnd()
	l.GroupCollapsed("c")
	l.Log("hidden")
	l.GroupEnd()
	l.Log(value.Tuple{1, "a"})

	var buf bytes.Buffer
	require.NoError(t, term.New().Render(&buf, l.Root()))
	assert.Equal(t, "hello 1\n⏷ g\n  True\n⏵ c\n⏵ #(1, \"a\")\n", buf.String())
}

func TestRenderExpanded(t *testing.T) {
	l := newConsole()
	l.Log("pair:", value.Tuple{1, value.Tuple{2}})
	item := consoletest.Items(l.Root())[0]
	outer := tree.Of(item.Children[len(item.Children)-1])
	require.NotNil(t, outer)
	outer.Expand()

	out := term.New().String(l.Root())
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "pair: ⏷ #(1, #(…1 items))", lines[0])
	assert.Contains(t, lines[1], "0: 1")
	assert.Contains(t, lines[2], "⏵ 1: #(2)")
	assert.True(t, strings.HasPrefix(lines[2], "└"))

	inner := tree.Of(outer.Body().FindClass("expand")[0])
	require.NotNil(t, inner)
	inner.Expand()
	out = term.New().String(l.Root())
	assert.Contains(t, out, "⏷ 1: #(2)")
	assert.Contains(t, out, "0: 2")
	assert.Len(t, strings.Split(strings.TrimSuffix(out, "\n"), "\n"), 4)
}

func TestRenderWidth(t *testing.T) {
	l := newConsole()
	l.Log("abcdefghijklmnopqrstuvwxyz")
	l.Group("g")
	l.Log("abcdefghij")

	out := term.New(term.WithWidth(8)).String(l.Root())
	assert.Equal(t, "abcdefg…\n⏷ g\n  abcde…\n", out)

	out = term.New(term.WithWidth(10), term.WithWrap(true)).String(newLogged("one two three four"))
	assert.Equal(t, "one two\nthree four\n", out)
}

func newLogged(args ...any) *dom.Node {
	l := newConsole()
	l.Log(args...)
	return l.Root()
}

func TestRenderColor(t *testing.T) {
	root := newLogged(`x`, 1)
	plain := term.New(term.WithColor(false)).String(root)
	colored := term.New(term.WithColor(true)).String(root)
	assert.Equal(t, "x 1\n", plain)
	assert.Contains(t, colored, "\x1b[")
	assert.NotEqual(t, plain, colored)
}

func TestRenderPromiseButton(t *testing.T) {
	root := newLogged(value.NewPromise())
	assert.Equal(t, "⏵ Promise [await]\n", term.New().String(root))
}

func TestColorMode(t *testing.T) {
	for _, s := range []string{"auto", "always", "never"} {
		m, err := term.ParseColorMode(s)
		require.NoError(t, err)
		assert.Equal(t, s, m.String())
	}
	_, err := term.ParseColorMode("sometimes")
	assert.Error(t, err)

	var buf bytes.Buffer
	assert.True(t, term.ColorAlways.Enabled(&buf))
	assert.False(t, term.ColorNever.Enabled(&buf))
	assert.False(t, term.ColorAuto.Enabled(&buf))
}

func TestInlineWithoutArrows(t *testing.T) {
	l := newConsole()
	l.Log("list", value.ListOf(1, 2))
	item := consoletest.Items(l.Root())[0]
	assert.Equal(t, "list ⏵ [1, 2]", term.New().Inline(item))
	assert.Equal(t, "list [1, 2]", term.New(term.WithArrows(false)).Inline(item))
}
