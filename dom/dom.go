// Copyright © 2024 The ELPS authors

// Package dom is a small mutable document tree.  The console renders
// values into it and front ends (HTML, terminal, DAP) read it back.  Nodes
// carry click handlers so that interactive controls such as expand arrows
// work the same way in every front end.
package dom

import (
	"strings"
)

// Kind is the type of a Node.
type Kind uint8

// Node kinds.  A fragment only groups nodes while they are being built:
// appending a fragment moves its children into the new parent.
const (
	TextNode Kind = iota
	ElementNode
	FragmentNode
)

func (k Kind) String() string {
	switch k {
	case TextNode:
		return "text"
	case ElementNode:
		return "element"
	case FragmentNode:
		return "fragment"
	default:
		return "invalid"
	}
}

// Attr is an element attribute.
type Attr struct {
	Key string
	Val string
}

// Node is a text node, an element, or a fragment.
type Node struct {
	Kind Kind
	// Tag is the element name of element nodes.
	Tag string
	// Data is the text of text nodes.
	Data     string
	Attrs    []Attr
	Parent   *Node
	Children []*Node

	click func(n *Node)
	// Ctrl is an arbitrary controller attached by the package that built
	// the node (for example an expandable tree node).
	Ctrl any
}

// Text returns a text node.
func Text(s string) *Node {
	return &Node{Kind: TextNode, Data: s}
}

// Elem returns an element with an optional class and children.
func Elem(tag, class string, children ...*Node) *Node {
	n := &Node{Kind: ElementNode, Tag: tag}
	if class != "" {
		n.SetAttr("class", class)
	}
	n.Append(children...)
	return n
}

// Div returns a div element holding children.
func Div(children ...*Node) *Node {
	return Elem("div", "", children...)
}

// Frag returns a fragment holding children.
func Frag(children ...*Node) *Node {
	n := &Node{Kind: FragmentNode}
	n.Append(children...)
	return n
}

// Styled returns an <i> element of the given style class.  The console
// uses style classes such as "str", "num" and "tag" to color output.
func Styled(class string, children ...*Node) *Node {
	return Elem("i", class, children...)
}

// StyledText returns an <i> element of the given class holding text s.
func StyledText(class, s string) *Node {
	return Styled(class, Text(s))
}

// Button returns a button element labelled text that calls onClick when
// clicked.
func Button(class, text string, onClick func(*Node)) *Node {
	b := Elem("button", class, Text(text))
	b.OnClick(onClick)
	return b
}

// Append adds children to n.  Nil children are skipped, fragments are
// flattened, and children already attached elsewhere are moved.
func (n *Node) Append(children ...*Node) {
	for _, c := range children {
		if c == nil {
			continue
		}
		if c.Kind == FragmentNode {
			moved := c.Children
			c.Children = nil
			for _, m := range moved {
				m.Parent = nil
			}
			n.Append(moved...)
			continue
		}
		c.Remove()
		c.Parent = n
		n.Children = append(n.Children, c)
	}
}

// AppendText adds a text node to n.
func (n *Node) AppendText(s string) {
	n.Append(Text(s))
}

// Index returns the position of n among its parent's children, or -1.
func (n *Node) Index() int {
	if n.Parent == nil {
		return -1
	}
	for i, c := range n.Parent.Children {
		if c == n {
			return i
		}
	}
	return -1
}

// Remove detaches n from its parent.
func (n *Node) Remove() {
	i := n.Index()
	if i < 0 {
		n.Parent = nil
		return
	}
	p := n.Parent
	p.Children = append(p.Children[:i:i], p.Children[i+1:]...)
	n.Parent = nil
}

// ReplaceWith puts nodes in n's place and detaches n.  A detached n is
// left unchanged.
func (n *Node) ReplaceWith(nodes ...*Node) {
	p := n.Parent
	i := n.Index()
	if p == nil || i < 0 {
		return
	}
	holder := Frag(nodes...)
	inserted := holder.Children
	holder.Children = nil
	for _, c := range inserted {
		c.Parent = p
	}
	rest := append([]*Node(nil), p.Children[i+1:]...)
	p.Children = append(append(p.Children[:i:i], inserted...), rest...)
	n.Parent = nil
}

// Empty removes all children of n.
func (n *Node) Empty() {
	for _, c := range n.Children {
		c.Parent = nil
	}
	n.Children = nil
}

// SetText replaces the children of n with a single text node.
func (n *Node) SetText(s string) {
	if n.Kind == TextNode {
		n.Data = s
		return
	}
	n.Empty()
	n.AppendText(s)
}

// TextContent returns the concatenated text of n and its descendants.
func (n *Node) TextContent() string {
	var b strings.Builder
	n.Walk(func(c *Node) bool {
		if c.Kind == TextNode {
			b.WriteString(c.Data)
		}
		return true
	})
	return b.String()
}

// Attr returns the value of attribute key.
func (n *Node) Attr(key string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// SetAttr sets attribute key to val.
func (n *Node) SetAttr(key, val string) {
	for i := range n.Attrs {
		if n.Attrs[i].Key == key {
			n.Attrs[i].Val = val
			return
		}
	}
	n.Attrs = append(n.Attrs, Attr{Key: key, Val: val})
}

// RemoveAttr deletes attribute key.
func (n *Node) RemoveAttr(key string) {
	for i := range n.Attrs {
		if n.Attrs[i].Key == key {
			n.Attrs = append(n.Attrs[:i:i], n.Attrs[i+1:]...)
			return
		}
	}
}

// Classes returns the class list of n.
func (n *Node) Classes() []string {
	v, _ := n.Attr("class")
	return strings.Fields(v)
}

// HasClass reports whether n has class c.
func (n *Node) HasClass(c string) bool {
	for _, x := range n.Classes() {
		if x == c {
			return true
		}
	}
	return false
}

// AddClass adds class c to n.
func (n *Node) AddClass(c string) {
	if n.HasClass(c) {
		return
	}
	n.SetAttr("class", strings.Join(append(n.Classes(), c), " "))
}

// RemoveClass removes class c from n.
func (n *Node) RemoveClass(c string) {
	classes := n.Classes()
	kept := classes[:0]
	for _, x := range classes {
		if x != c {
			kept = append(kept, x)
		}
	}
	if len(kept) == 0 {
		n.RemoveAttr("class")
		return
	}
	n.SetAttr("class", strings.Join(kept, " "))
}

// SetHidden shows or hides n.
func (n *Node) SetHidden(hidden bool) {
	if hidden {
		n.SetAttr("style", "display: none")
	} else {
		n.SetAttr("style", "display: block")
	}
}

// Hidden reports whether n was hidden with SetHidden.
func (n *Node) Hidden() bool {
	v, _ := n.Attr("style")
	return v == "display: none"
}

// OnClick sets the click handler of n.
func (n *Node) OnClick(fn func(*Node)) {
	n.click = fn
}

// Clickable reports whether n has a click handler.
func (n *Node) Clickable() bool {
	return n.click != nil
}

// Click runs the click handler of n, if any, and reports whether one ran.
func (n *Node) Click() bool {
	if n.click == nil {
		return false
	}
	n.click(n)
	return true
}

// Walk calls fn for n and its descendants in document order.  Returning
// false from fn skips the descendants of that node.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// FindAll returns the descendants of n (n included) matching pred.
func (n *Node) FindAll(pred func(*Node) bool) []*Node {
	var found []*Node
	n.Walk(func(c *Node) bool {
		if pred(c) {
			found = append(found, c)
		}
		return true
	})
	return found
}

// FindClass returns the elements under n having class c.
func (n *Node) FindClass(c string) []*Node {
	return n.FindAll(func(x *Node) bool {
		return x.Kind == ElementNode && x.HasClass(c)
	})
}

// First returns the first element under n having class c, or nil.
func (n *Node) First(c string) *Node {
	found := n.FindClass(c)
	if len(found) == 0 {
		return nil
	}
	return found[0]
}
