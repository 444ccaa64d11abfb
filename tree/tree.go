// Copyright © 2024 The ELPS authors

// Package tree implements expandable console nodes.  A node shows a closed
// summary of a value right away and builds its open view the first time
// it is expanded.  The open view is kept from then on; later toggles only
// show or hide it.
package tree

import (
	"github.com/luthersystems/gleamconsole/dom"
)

// Arrow glyphs of the toggle button.
const (
	ArrowClosed = "⏵"
	ArrowOpen   = "⏷"
)

// State is the expansion state of a Node.
type State uint8

// A Node starts Unbuilt.  The first expansion builds the open view and
// moves it to Open, after which it alternates between Closed and Open.
const (
	Unbuilt State = iota
	Open
	Closed
)

func (s State) String() string {
	switch s {
	case Unbuilt:
		return "unbuilt"
	case Open:
		return "open"
	case Closed:
		return "closed"
	default:
		return "invalid"
	}
}

// Node is an expandable view of a value.
type Node struct {
	// Value is the value the node displays.
	Value any
	// Elem is the rendered element to insert into the document.
	Elem *dom.Node

	arrow *dom.Node
	title *dom.Node
	body  *dom.Node
	build func() *dom.Node
	state State
}

// New returns a node showing closed and deferring build until the node is
// first expanded.
func New(v any, closed *dom.Node, build func() *dom.Node) *Node {
	n := &Node{
		Value: v,
		build: build,
		title: dom.Div(closed),
		body:  dom.Div(),
	}
	n.body.SetHidden(true)
	n.arrow = Arrow(true, n.toggled)
	n.Elem = dom.Elem("div", "expand", n.arrow, n.title, n.body)
	n.Elem.Ctrl = n
	return n
}

// Of returns the Node rendered as elem, or nil if elem is not an
// expandable node.
func Of(elem *dom.Node) *Node {
	if elem == nil {
		return nil
	}
	n, _ := elem.Ctrl.(*Node)
	return n
}

// State returns the current state of n.
func (n *Node) State() State {
	return n.state
}

// Expanded reports whether the open view of n is showing.
func (n *Node) Expanded() bool {
	return n.state == Open
}

// Title returns the element holding the closed summary.
func (n *Node) Title() *dom.Node {
	return n.title
}

// Body returns the element holding the open view.  It is empty until the
// node is first expanded.
func (n *Node) Body() *dom.Node {
	return n.body
}

// Toggle expands a collapsed node or collapses an expanded one, exactly as
// clicking its arrow does.
func (n *Node) Toggle() {
	n.arrow.Click()
}

// Expand opens n if it is not already open.
func (n *Node) Expand() {
	if n.state != Open {
		n.Toggle()
	}
}

// Collapse closes n if it is open.
func (n *Node) Collapse() {
	if n.state == Open {
		n.Toggle()
	}
}

func (n *Node) toggled(closed bool) {
	if closed {
		n.body.SetHidden(true)
		n.state = Closed
		return
	}
	if n.state == Unbuilt {
		if n.build != nil {
			n.body.Append(n.build())
		}
		n.build = nil
	}
	n.body.SetHidden(false)
	n.state = Open
}

// Arrow returns a toggle button showing the closed or open arrow.  Each
// click flips the state, updates the glyph, and calls onToggle with the new
// state.
func Arrow(closed bool, onToggle func(closed bool)) *dom.Node {
	b := dom.Elem("button", "arrow-button", dom.Text(arrowGlyph(closed)))
	b.OnClick(func(el *dom.Node) {
		closed = !closed
		el.SetText(arrowGlyph(closed))
		if onToggle != nil {
			onToggle(closed)
		}
	})
	return b
}

// IsArrow reports whether el is a toggle button made by Arrow.
func IsArrow(el *dom.Node) bool {
	return el != nil && el.Tag == "button" && el.HasClass("arrow-button")
}

// ArrowClosedState reports whether an arrow button shows the closed glyph.
func ArrowClosedState(el *dom.Node) bool {
	return el.TextContent() == ArrowClosed
}

func arrowGlyph(closed bool) string {
	if closed {
		return ArrowClosed
	}
	return ArrowOpen
}

// Visible returns the expandable nodes under root that a reader can see,
// in document order.  The contents of collapsed nodes and of elements
// hidden with the "closed" class are skipped.
func Visible(root *dom.Node) []*Node {
	var nodes []*Node
	root.Walk(func(el *dom.Node) bool {
		if el != root && (el.Hidden() || el.HasClass("closed")) {
			return false
		}
		if n := Of(el); n != nil {
			nodes = append(nodes, n)
		}
		return true
	})
	return nodes
}
