// Copyright © 2024 The ELPS authors

package dom

import (
	"bytes"
	"io"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ToHTML converts n to an html.Node tree.  A fragment becomes a document
// node holding the fragment's children.
func ToHTML(n *Node) *html.Node {
	switch n.Kind {
	case TextNode:
		return &html.Node{Type: html.TextNode, Data: n.Data}
	case FragmentNode:
		doc := &html.Node{Type: html.DocumentNode}
		for _, c := range n.Children {
			doc.AppendChild(ToHTML(c))
		}
		return doc
	}
	el := &html.Node{
		Type:     html.ElementNode,
		Data:     n.Tag,
		DataAtom: atom.Lookup([]byte(n.Tag)),
	}
	for _, a := range n.Attrs {
		el.Attr = append(el.Attr, html.Attribute{Key: a.Key, Val: a.Val})
	}
	for _, c := range n.Children {
		el.AppendChild(ToHTML(c))
	}
	return el
}

// FromHTML converts an html.Node tree to a Node tree.  Comments and
// doctypes are dropped; documents become fragments.
func FromHTML(h *html.Node) *Node {
	switch h.Type {
	case html.TextNode:
		return Text(h.Data)
	case html.ElementNode:
		n := &Node{Kind: ElementNode, Tag: h.Data}
		for _, a := range h.Attr {
			n.Attrs = append(n.Attrs, Attr{Key: a.Key, Val: a.Val})
		}
		for c := h.FirstChild; c != nil; c = c.NextSibling {
			n.Append(FromHTML(c))
		}
		return n
	case html.DocumentNode:
		n := &Node{Kind: FragmentNode}
		for c := h.FirstChild; c != nil; c = c.NextSibling {
			if child := FromHTML(c); child != nil {
				n.Children = append(n.Children, child)
			}
		}
		return n
	}
	return nil
}

// RenderHTML writes the HTML serialisation of n to w.
func RenderHTML(w io.Writer, n *Node) error {
	return html.Render(w, ToHTML(n))
}

// HTML returns the HTML serialisation of n.
func HTML(n *Node) string {
	var buf bytes.Buffer
	if err := RenderHTML(&buf, n); err != nil {
		return ""
	}
	return buf.String()
}
