// Copyright © 2024 The ELPS authors

package tree

import (
	"testing"

	"github.com/luthersystems/gleamconsole/dom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNodeBuildsOnce(t *testing.T) {
	builds := 0
	n := New("v", dom.Text("summary"), func() *dom.Node {
		builds++
		return dom.Text("details")
	})
	assert.Equal(t, Unbuilt, n.State())
	assert.Equal(t, ArrowClosed+"summary", n.Elem.TextContent())
	assert.True(t, n.Body().Hidden())

	n.Toggle()
	assert.Equal(t, Open, n.State())
	assert.Equal(t, 1, builds)
	assert.False(t, n.Body().Hidden())
	assert.Equal(t, ArrowOpen+"summarydetails", n.Elem.TextContent())

	n.Toggle()
	assert.Equal(t, Closed, n.State())
	assert.True(t, n.Body().Hidden())

	n.Expand()
	n.Expand()
	assert.Equal(t, Open, n.State())
	assert.Equal(t, 1, builds)
	assert.Len(t, n.Body().Children, 1)

	n.Collapse()
	n.Collapse()
	assert.Equal(t, Closed, n.State())
}

func TestToggleLeavesSiblingsAlone(t *testing.T) {
	root := dom.Div()
	a := New(1, dom.Text("a"), func() *dom.Node { return dom.Text("A") })
	b := New(2, dom.Text("b"), func() *dom.Node { return dom.Text("B") })
	root.Append(a.Elem, b.Elem)

	a.Expand()
	assert.Equal(t, Unbuilt, b.State())
	assert.Empty(t, b.Body().Children)
	assert.Equal(t, []*dom.Node{a.Elem, b.Elem}, root.Children)
}

func TestOf(t *testing.T) {
	n := New(nil, dom.Text("x"), nil)
	assert.Same(t, n, Of(n.Elem))
	assert.Nil(t, Of(dom.Div()))
	assert.Nil(t, Of(nil))

	n.Expand()
	assert.Equal(t, Open, n.State())
	assert.Empty(t, n.Body().Children)
}

func TestArrow(t *testing.T) {
	var states []bool
	b := Arrow(false, func(closed bool) { states = append(states, closed) })
	require.True(t, IsArrow(b))
	assert.False(t, ArrowClosedState(b))

	b.Click()
	assert.True(t, ArrowClosedState(b))
	b.Click()
	assert.Equal(t, []bool{true, false}, states)
	assert.Equal(t, ArrowOpen, b.TextContent())
}

func TestVisible(t *testing.T) {
	root := dom.Div()
	var inner *Node
	outer := New("outer", dom.Text("o"), func() *dom.Node {
		inner = New("inner", dom.Text("i"), nil)
		return inner.Elem
	})
	group := dom.Elem("div", "console-group closed")
	hiddenNode := New("hidden", dom.Text("h"), nil)
	group.Append(hiddenNode.Elem)
	root.Append(outer.Elem, group)

	assert.Equal(t, []*Node{outer}, Visible(root))

	outer.Expand()
	assert.Equal(t, []*Node{outer, inner}, Visible(root))

	outer.Collapse()
	assert.Equal(t, []*Node{outer}, Visible(root))

	group.RemoveClass("closed")
	assert.Equal(t, []*Node{outer, hiddenNode}, Visible(root))
}
