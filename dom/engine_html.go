package dom

import (
	"bytes"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// HTMLEngine builds a tree of golang.org/x/net/html nodes and renders it with html.Render.
type HTMLEngine struct{}

// NewHTMLEngine creates an x/net/html engine.
func NewHTMLEngine() *HTMLEngine {
	return &HTMLEngine{}
}

// Name implements Engine.
func (e *HTMLEngine) Name() string {
	return EngineHTML
}

// CreateTag implements Engine.
func (e *HTMLEngine) CreateTag(tag string, attrs []Attr) Node {
	n := &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}
	for _, a := range attrs {
		n.Attr = append(n.Attr, html.Attribute{Key: a.Key, Val: a.Val})
	}
	return n
}

// Fragment implements Engine.
func (e *HTMLEngine) Fragment() Node {
	return &html.Node{Type: html.ElementNode, Data: fragmentTag}
}

// Text implements Engine.
func (e *HTMLEngine) Text(text string) Node {
	return &html.Node{Type: html.TextNode, Data: text}
}

// RawHTML implements Engine.
func (e *HTMLEngine) RawHTML(markup string) Node {
	return &html.Node{Type: html.RawNode, Data: markup}
}

// AppendChild implements Engine.
func (e *HTMLEngine) AppendChild(parent Node, child Node) {
	p, ok := parent.(*html.Node)
	if !ok || p == nil || p.Type != html.ElementNode || IsVoid(p.Data) {
		return
	}
	c, ok := child.(*html.Node)
	if !ok || c == nil {
		return
	}
	if c.Type == html.TextNode && c.Data == "" {
		return
	}
	if c.Parent == p {
		return
	}
	if c.Parent != nil {
		if c.Type == html.TextNode {
			c = &html.Node{Type: html.TextNode, Data: c.Data}
		} else {
			c.Parent.RemoveChild(c)
		}
	}
	p.AppendChild(c)
}

// Render implements Engine.
func (e *HTMLEngine) Render(node Node) string {
	n, ok := node.(*html.Node)
	if !ok || n == nil {
		return ""
	}
	var buf bytes.Buffer
	e.render(&buf, n, false)
	return buf.String()
}

// RenderDebug implements Engine.
func (e *HTMLEngine) RenderDebug(node Node) string {
	n, ok := node.(*html.Node)
	if !ok || n == nil {
		return ""
	}
	var buf bytes.Buffer
	e.render(&buf, n, true)
	return buf.String()
}

// render unwraps fragments and hands every other node to html.Render.
func (e *HTMLEngine) render(buf *bytes.Buffer, n *html.Node, debug bool) {
	if n.Type == html.ElementNode && n.Data == fragmentTag {
		if debug {
			buf.WriteString("<fragment>")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			e.render(buf, c, debug)
		}
		if debug {
			buf.WriteString("</fragment>")
		}
		return
	}
	if !debug && n.Type == html.ElementNode && hasFragment(n) {
		// html.Render 不认识 fragment，先展开成普通子节点再渲染
		n = unwrapHTMLFragments(n)
	}
	_ = html.Render(buf, n)
}

func hasFragment(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && (c.Data == fragmentTag || hasFragment(c)) {
			return true
		}
	}
	return false
}

// unwrapHTMLFragments returns a detached copy of n with fragment children spliced in place.
func unwrapHTMLFragments(n *html.Node) *html.Node {
	out := &html.Node{
		Type:      n.Type,
		Data:      n.Data,
		DataAtom:  n.DataAtom,
		Namespace: n.Namespace,
		Attr:      append([]html.Attribute(nil), n.Attr...),
	}
	var splice func(dst, src *html.Node)
	splice = func(dst, src *html.Node) {
		for c := src.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && c.Data == fragmentTag {
				splice(dst, c)
				continue
			}
			if c.Type == html.ElementNode {
				dst.AppendChild(unwrapHTMLFragments(c))
				continue
			}
			dst.AppendChild(&html.Node{Type: c.Type, Data: c.Data})
		}
	}
	splice(out, n)
	return out
}
