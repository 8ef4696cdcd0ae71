package ui

import (
	"bytes"
	"fmt"
	"regexp"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true, "hr": true,
	"img": true, "input": true, "link": true, "meta": true, "source": true,
	"track": true, "wbr": true,
}

var policy = newPolicy()

// classRe admits utility class syntax such as md:p-8, w-1/2 and bg-[#fff].
var classRe = regexp.MustCompile(`^[\w\s:/.\[\]#%()!,-]*$`)

func newPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").Matching(classRe).Globally()
	p.AllowAttrs("style").Globally()
	p.AllowElements("section", "header", "footer", "nav", "main", "article", "aside", "button", "svg", "path")
	p.AllowAttrs("type", "disabled").OnElements("button")
	p.AllowAttrs("placeholder", "type", "value", "name").OnElements("input")
	p.AllowAttrs("viewBox", "fill", "stroke", "xmlns").OnElements("svg")
	p.AllowAttrs("d", "fill", "stroke", "stroke-width", "stroke-linecap", "stroke-linejoin").OnElements("path")
	return p
}

// RenderHTML serialises the tree without sanitising it.
func RenderHTML(root *Node) (string, error) {
	if root == nil {
		return "", nil
	}
	var buf bytes.Buffer
	for _, n := range toHTML(root) {
		if err := html.Render(&buf, n); err != nil {
			return "", fmt.Errorf("render %s: %w", root.Tag, err)
		}
	}
	return buf.String(), nil
}

// SafeHTML renders the tree and strips anything a preview must not execute.
func SafeHTML(root *Node) (string, error) {
	raw, err := RenderHTML(root)
	if err != nil {
		return "", err
	}
	return Sanitize(raw), nil
}

func Sanitize(raw string) string {
	return policy.Sanitize(raw)
}

// toHTML returns a slice because fragments contribute their children directly.
func toHTML(n *Node) []*html.Node {
	if n.IsText() {
		return []*html.Node{{Type: html.TextNode, Data: n.Text}}
	}

	var children []*html.Node
	if !voidElements[n.Tag] {
		for _, c := range n.Children {
			children = append(children, toHTML(c)...)
		}
	}
	if n.Tag == FragmentTag {
		return children
	}

	el := &html.Node{
		Type:     html.ElementNode,
		Data:     n.Tag,
		DataAtom: atom.Lookup([]byte(n.Tag)),
	}
	for _, a := range n.Attrs {
		el.Attr = append(el.Attr, html.Attribute{Key: a.Key, Val: a.Val})
	}
	for _, c := range children {
		el.AppendChild(c)
	}
	return []*html.Node{el}
}
