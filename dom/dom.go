// Package dom 提供与具体后端无关的节点构建接口
//
// 组件和导出器只通过 DOM 创建节点；真正的节点类型由 Engine 决定：
// 字符串拼接引擎（string、string_compat）或真实的树（etree、html）。
//
// 示例：
//
//	d := dom.New(dom.NewStringEngine())
//	link := d.CreateElement(dom.Tag("a"), dom.Props{"href": "/"}, "home")
//	fmt.Println(d.Render(link)) // <a href="/">home</a>
package dom

import (
	"github.com/microcosm-cc/bluemonday"
)

// Node is an engine-specific node. Callers treat it as opaque; strings passed as
// children are converted to text nodes by the DOM.
type Node interface{}

// Props are the properties handed to an element: HTML attributes for raw tags,
// arbitrary values for components.
type Props map[string]any

// Clone returns a shallow copy of p.
func (p Props) Clone() Props {
	out := make(Props, len(p)+4)
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Element is what a descriptor renders: a raw Tag or a Component.
// A nil Element or an empty Tag creates a fragment.
type Element interface {
	isElement()
}

// Tag is a raw HTML tag name.
type Tag string

func (Tag) isElement() {}

// Component renders props into a node. Children arrive in props["children"]:
// a single Node when there is one child, a []Node when there are several.
type Component func(d *DOM, props Props) Node

func (Component) isElement() {}

// RenderChildren is a component that renders only its children.
func RenderChildren(d *DOM, props Props) Node {
	return props["children"]
}

// Option configures a DOM.
type Option func(*DOM)

// WithSanitizer sanitizes markup passed to ParseHTML with the given policy.
func WithSanitizer(policy *bluemonday.Policy) Option {
	return func(d *DOM) {
		d.policy = policy
	}
}

// DOM 是节点构建的入口，持有一个 Engine
//
// DOM 本身没有可变状态，可以被多个并发渲染共享。
type DOM struct {
	engine Engine
	policy *bluemonday.Policy
}

// New creates a DOM backed by engine.
func New(engine Engine, opts ...Option) *DOM {
	d := &DOM{engine: engine}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Engine returns the underlying engine.
func (d *DOM) Engine() Engine {
	return d.engine
}

// CreateElement 创建一个元素
//
// 规则：
//   - el 为空时创建 fragment，子节点不会丢失
//   - Component 收到完整的 props（包括 block、entity 等结构性字段）
//   - Tag 会去掉结构性字段，并把 style map、bool 等转换为属性字符串
//   - 组件返回空值时退化为包含子节点的 fragment
func (d *DOM) CreateElement(el Element, props Props, children ...Node) Node {
	kids := d.flatten(children, nil)

	switch e := el.(type) {
	case Component:
		if e == nil {
			return d.Fragment(kids...)
		}
		p := props.Clone()
		delete(p, "children")
		switch len(kids) {
		case 0:
		case 1:
			p["children"] = kids[0]
		default:
			p["children"] = kids
		}
		rendered := d.flatten([]Node{e(d, p)}, nil)
		switch len(rendered) {
		case 0:
			return d.Fragment(kids...)
		case 1:
			return rendered[0]
		default:
			return d.Fragment(rendered...)
		}
	case Tag:
		if e == "" {
			return d.Fragment(kids...)
		}
		node := d.engine.CreateTag(string(e), Attributes(props))
		if IsVoid(string(e)) {
			return node
		}
		for _, kid := range kids {
			d.engine.AppendChild(node, kid)
		}
		return node
	default:
		return d.Fragment(kids...)
	}
}

// Fragment creates a fragment holding children.
func (d *DOM) Fragment(children ...Node) Node {
	frag := d.engine.Fragment()
	for _, kid := range d.flatten(children, nil) {
		d.engine.AppendChild(frag, kid)
	}
	return frag
}

// Text creates a text node.
func (d *DOM) Text(text string) Node {
	return d.engine.Text(text)
}

// AppendChild appends child to parent. Empty text is skipped and a node that
// is already a child of parent is not appended twice.
func (d *DOM) AppendChild(parent Node, child Node) {
	for _, kid := range d.flatten([]Node{child}, nil) {
		d.engine.AppendChild(parent, kid)
	}
}

// ParseHTML wraps pre-escaped markup into a node. Markup is sanitized first
// when the DOM has a sanitizer.
func (d *DOM) ParseHTML(markup string) Node {
	if d.policy != nil {
		markup = d.policy.Sanitize(markup)
	}
	return d.engine.RawHTML(markup)
}

// Render serializes node.
func (d *DOM) Render(node Node) string {
	if node == nil {
		return ""
	}
	if s, ok := node.(string); ok {
		return d.engine.Render(d.engine.Text(s))
	}
	return d.engine.Render(node)
}

// RenderDebug serializes node keeping engine internals such as fragment markers.
func (d *DOM) RenderDebug(node Node) string {
	if node == nil {
		return ""
	}
	if s, ok := node.(string); ok {
		return d.engine.RenderDebug(d.engine.Text(s))
	}
	return d.engine.RenderDebug(node)
}

// flatten converts children into engine nodes: strings become text nodes,
// slices are expanded, nil and "" are dropped.
func (d *DOM) flatten(children []Node, out []Node) []Node {
	for _, child := range children {
		switch c := child.(type) {
		case nil:
		case string:
			if c != "" {
				out = append(out, d.engine.Text(c))
			}
		case []Node:
			out = d.flatten(c, out)
		case []any:
			for _, item := range c {
				out = d.flatten([]Node{item}, out)
			}
		case []string:
			for _, item := range c {
				out = d.flatten([]Node{item}, out)
			}
		default:
			out = append(out, c)
		}
	}
	return out
}
