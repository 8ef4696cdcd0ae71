// Package ui holds the renderable element tree produced by the sandbox and the
// fallback templates, and turns it into sanitised HTML.
package ui

import "strings"

const FragmentTag = "#fragment"

type Attr struct {
	Key string
	Val string
}

// Node is either a text node (Tag == "") or an element. Attribute order is preserved.
type Node struct {
	Tag      string  `json:"tag,omitempty"`
	Text     string  `json:"text,omitempty"`
	Attrs    []Attr  `json:"attrs,omitempty"`
	Children []*Node `json:"children,omitempty"`
}

func El(tag string, attrs []Attr, children ...*Node) *Node {
	return &Node{Tag: tag, Attrs: attrs, Children: children}
}

func Text(s string) *Node {
	return &Node{Text: s}
}

func Fragment(children ...*Node) *Node {
	return &Node{Tag: FragmentTag, Children: children}
}

// A builds an attribute list from key/value pairs. A trailing odd key is ignored.
func A(kv ...string) []Attr {
	attrs := make([]Attr, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		attrs = append(attrs, Attr{Key: kv[i], Val: kv[i+1]})
	}
	return attrs
}

// Class is shorthand for a single class attribute.
func Class(class string) []Attr {
	return []Attr{{Key: "class", Val: class}}
}

func (n *Node) IsText() bool {
	return n.Tag == ""
}

func (n *Node) Attr(key string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// SetAttr replaces an existing attribute in place or appends it.
func (n *Node) SetAttr(key, val string) {
	for i := range n.Attrs {
		if n.Attrs[i].Key == key {
			n.Attrs[i].Val = val
			return
		}
	}
	n.Attrs = append(n.Attrs, Attr{Key: key, Val: val})
}

// TextContent concatenates all descendant text.
func (n *Node) TextContent() string {
	var b strings.Builder
	n.Walk(func(c *Node) bool {
		if c.IsText() {
			b.WriteString(c.Text)
		}
		return true
	})
	return b.String()
}

// Walk visits n and its descendants depth first. Returning false skips the children.
func (n *Node) Walk(fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Find returns the first node in document order matching pred.
func (n *Node) Find(pred func(*Node) bool) *Node {
	var found *Node
	n.Walk(func(c *Node) bool {
		if found != nil {
			return false
		}
		if pred(c) {
			found = c
			return false
		}
		return true
	})
	return found
}

// FindTag is Find by element name.
func (n *Node) FindTag(tag string) *Node {
	return n.Find(func(c *Node) bool { return c.Tag == tag })
}

func (n *Node) Count(pred func(*Node) bool) int {
	count := 0
	n.Walk(func(c *Node) bool {
		if pred(c) {
			count++
		}
		return true
	})
	return count
}
