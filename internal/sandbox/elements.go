package sandbox

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"genesis-backend/internal/ui"

	"github.com/dop251/goja"
)

var unitless = map[string]bool{
	"opacity": true, "zIndex": true, "fontWeight": true, "lineHeight": true, "flex": true,
	"flexGrow": true, "flexShrink": true, "order": true, "zoom": true,
}

// expand converts a rendered value into nodes. Function elements are called here,
// from Go, so no script ever runs nested inside a native call.
func (c *Component) expand(v goja.Value, depth int) ([]*ui.Node, error) {
	if depth > maxDepth {
		return nil, fmt.Errorf("element tree deeper than %d", maxDepth)
	}
	if nullish(v) {
		return nil, nil
	}

	if obj, ok := v.(*goja.Object); ok && obj.ClassName() == "Array" {
		var nodes []*ui.Node
		length := obj.Get("length").ToInteger()
		for i := int64(0); i < length; i++ {
			children, err := c.expand(obj.Get(strconv.FormatInt(i, 10)), depth+1)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, children...)
		}
		return nodes, nil
	}

	switch x := v.Export().(type) {
	case *element:
		return c.expandElement(x, depth)
	case string:
		return []*ui.Node{ui.Text(x)}, nil
	case int64:
		return []*ui.Node{ui.Text(strconv.FormatInt(x, 10))}, nil
	case float64:
		return []*ui.Node{ui.Text(strconv.FormatFloat(x, 'f', -1, 64))}, nil
	}
	// booleans and plain objects render nothing
	return nil, nil
}

func (c *Component) expandElement(el *element, depth int) ([]*ui.Node, error) {
	if fn, ok := goja.AssertFunction(el.Type); ok {
		props := c.vm.NewObject()
		if el.Props != nil {
			for _, k := range el.Props.Keys() {
				if err := props.Set(k, el.Props.Get(k)); err != nil {
					return nil, err
				}
			}
		}
		switch len(el.Children) {
		case 0:
		case 1:
			_ = props.Set("children", el.Children[0])
		default:
			items := make([]interface{}, len(el.Children))
			for i, ch := range el.Children {
				items[i] = ch
			}
			_ = props.Set("children", c.vm.NewArray(items...))
		}

		out, err := fn(goja.Undefined(), props)
		if err != nil {
			return nil, err
		}
		return c.expand(out, depth+1)
	}

	tag, ok := el.Type.Export().(string)
	if !ok || tag == "" {
		return nil, fmt.Errorf("element type is invalid: got %s", kindOf(el.Type))
	}

	node := &ui.Node{Tag: tag}
	children := el.Children
	if el.Props != nil {
		node.Attrs = attrs(el.Props)
		if len(children) == 0 {
			if ch := el.Props.Get("children"); !nullish(ch) {
				children = []goja.Value{ch}
			}
		}
	}
	for _, ch := range children {
		nodes, err := c.expand(ch, depth+1)
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, nodes...)
	}
	return []*ui.Node{node}, nil
}

// attrs maps element props to HTML attributes in declaration order. Event
// handlers and React-only props are dropped.
func attrs(props *goja.Object) []ui.Attr {
	var out []ui.Attr
	for _, k := range props.Keys() {
		v := props.Get(k)
		if nullish(v) || skipProp(k) {
			continue
		}
		if _, isFn := goja.AssertFunction(v); isFn {
			continue
		}

		name := attrName(k)
		if b, ok := v.Export().(bool); ok {
			if b {
				out = append(out, ui.Attr{Key: name, Val: ""})
			}
			continue
		}
		if obj, ok := v.(*goja.Object); ok && k == "style" && obj.ClassName() == "Object" {
			if css := styleString(obj); css != "" {
				out = append(out, ui.Attr{Key: "style", Val: css})
			}
			continue
		}
		out = append(out, ui.Attr{Key: name, Val: v.String()})
	}
	return out
}

func skipProp(k string) bool {
	switch k {
	case "children", "key", "ref", "dangerouslySetInnerHTML", "__self", "__source":
		return true
	}
	return len(k) > 2 && strings.HasPrefix(k, "on") && unicode.IsUpper(rune(k[2]))
}

func attrName(k string) string {
	switch k {
	case "className":
		return "class"
	case "htmlFor":
		return "for"
	}
	return k
}

func styleString(style *goja.Object) string {
	var parts []string
	for _, k := range style.Keys() {
		v := style.Get(k)
		if nullish(v) {
			continue
		}
		val := v.String()
		switch v.Export().(type) {
		case int64, float64:
			if !unitless[k] && val != "0" {
				val += "px"
			}
		}
		parts = append(parts, kebab(k)+": "+val)
	}
	return strings.Join(parts, "; ")
}

func kebab(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
