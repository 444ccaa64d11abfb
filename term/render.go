// Copyright © 2024 The ELPS authors

// Package term renders a console document tree as terminal text.
//
// Each log item becomes one line.  Expanded values are drawn as trees
// below their item, groups indent their contents and collapsed groups
// show only their header.  Lines are cut, or wrapped, to the configured
// width.
package term

import (
	"io"
	"strings"

	"github.com/luthersystems/gleamconsole/dom"
	"github.com/luthersystems/gleamconsole/tree"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"
	"github.com/xlab/treeprint"
)

const levelAttr = "data-log-level"

// Renderer writes console document trees to terminals.
type Renderer struct {
	colors palette
	width  int
	wrap   bool
	indent uint
	arrows bool
}

type config struct {
	color  bool
	width  int
	wrap   bool
	indent uint
	arrows bool
}

// Option configures a Renderer.
type Option func(*config)

// WithColor turns ANSI colors on or off.  Colors are off by default.
func WithColor(on bool) Option {
	return func(c *config) {
		c.color = on
	}
}

// WithWidth limits lines to width cells.  Zero means unlimited.
func WithWidth(width int) Option {
	return func(c *config) {
		c.width = width
	}
}

// WithWrap wraps long lines at word boundaries instead of cutting them.
func WithWrap(on bool) Option {
	return func(c *config) {
		c.wrap = on
	}
}

// WithIndent sets the indentation of group contents.
func WithIndent(n uint) Option {
	return func(c *config) {
		c.indent = n
	}
}

// WithArrows shows or hides the toggle arrows of expandable values and
// groups.  They are shown by default.
func WithArrows(on bool) Option {
	return func(c *config) {
		c.arrows = on
	}
}

// New returns a Renderer.
func New(opts ...Option) *Renderer {
	c := &config{indent: 2, arrows: true}
	for _, opt := range opts {
		opt(c)
	}
	return &Renderer{
		colors: newPalette(c.color),
		width:  c.width,
		wrap:   c.wrap,
		indent: c.indent,
		arrows: c.arrows,
	}
}

// Render writes the console rooted at root to w.
func (r *Renderer) Render(w io.Writer, root *dom.Node) error {
	_, err := io.WriteString(w, r.String(root))
	return err
}

// Inline returns the text of n on one line, leaving out the bodies of
// expanded values.
func (r *Renderer) Inline(n *dom.Node) string {
	level, _ := n.Attr(levelAttr)
	return r.inline(n, level, nil)
}

// String returns the text of the console rooted at root.
func (r *Renderer) String(root *dom.Node) string {
	var b strings.Builder
	r.container(&b, root, r.width)
	return b.String()
}

func (r *Renderer) container(b *strings.Builder, n *dom.Node, width int) {
	for _, c := range n.Children {
		switch {
		case c.HasClass("console-group"):
			if c.HasClass("closed") {
				continue
			}
			inner := width
			if inner > 0 {
				inner -= int(r.indent)
				if inner < 1 {
					inner = 1
				}
			}
			var sub strings.Builder
			r.container(&sub, c, inner)
			b.WriteString(indent.String(sub.String(), r.indent))
		case c.HasClass("group-header"):
			r.lines(b, r.inline(c, "", nil), width)
		default:
			r.item(b, c, width)
		}
	}
}

// item writes one log entry and the trees of its expanded values.
func (r *Renderer) item(b *strings.Builder, it *dom.Node, width int) {
	level, _ := it.Attr(levelAttr)
	var open []*tree.Node
	line := r.inline(it, level, &open)
	if len(open) == 0 {
		r.lines(b, line, width)
		return
	}
	t := treeprint.NewWithRoot(line)
	if len(open) == 1 {
		r.branch(t, open[0])
	} else {
		for _, n := range open {
			r.branch(t.AddBranch(r.inline(n.Elem, level, nil)), n)
		}
	}
	r.lines(b, strings.TrimSuffix(t.String(), "\n"), width)
}

// branch adds the rows of an expanded node to t.
func (r *Renderer) branch(t treeprint.Tree, n *tree.Node) {
	for _, c := range n.Body().Children {
		rows := []*dom.Node{c}
		if c.HasClass("object") {
			rows = c.Children
		}
		for _, row := range rows {
			if row.Kind == dom.TextNode {
				for _, l := range strings.Split(row.Data, "\n") {
					t.AddNode(l)
				}
				continue
			}
			sub, ok := row.Ctrl.(*tree.Node)
			if !ok || !sub.Expanded() {
				t.AddNode(r.inline(row, "", nil))
				continue
			}
			r.branch(t.AddBranch(r.inline(row, "", nil)), sub)
		}
	}
}

// inline renders the visible text of n on one line.  The bodies of
// expanded nodes are left out; if open is non-nil those nodes are
// appended to it.
func (r *Renderer) inline(n *dom.Node, class string, open *[]*tree.Node) string {
	var b strings.Builder
	r.writeInline(&b, n, class, open)
	return b.String()
}

func (r *Renderer) writeInline(b *strings.Builder, n *dom.Node, class string, open *[]*tree.Node) {
	if n.Kind == dom.TextNode {
		b.WriteString(r.colors.paint(class, n.Data))
		return
	}
	if n.Hidden() {
		return
	}
	switch {
	case tree.IsArrow(n):
		if r.arrows {
			b.WriteString(r.colors.paint("arrow", n.TextContent()) + " ")
		}
		return
	case n.Tag == "button":
		b.WriteString(r.colors.paint("button", "["+n.TextContent()+"]"))
		return
	}
	var body *dom.Node
	if node, ok := n.Ctrl.(*tree.Node); ok && node.Expanded() {
		body = node.Body()
		if open != nil {
			*open = append(*open, node)
		}
	}
	for _, c := range n.Classes() {
		if _, ok := r.colors[c]; ok {
			class = c
		}
	}
	for _, c := range n.Children {
		if c == body {
			continue
		}
		r.writeInline(b, c, class, open)
	}
}

// lines writes text fitted to width, one line at a time.
func (r *Renderer) lines(b *strings.Builder, text string, width int) {
	for _, l := range strings.Split(text, "\n") {
		b.WriteString(r.fit(l, width))
		b.WriteByte('\n')
	}
}

func (r *Renderer) fit(line string, width int) string {
	if width <= 0 {
		return line
	}
	if r.wrap {
		return wordwrap.String(line, width)
	}
	return truncate.StringWithTail(line, uint(width), "…")
}
