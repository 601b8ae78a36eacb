package dom

import "strings"

type eltKind int

const (
	kindTag eltKind = iota
	kindFragment
	kindText
	kindRaw
)

// elt is the node type of the string engines.
type elt struct {
	kind     eltKind
	tag      string
	attrs    []Attr
	text     string
	children []*elt
}

var (
	attrEscaper       = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;", "'", "&#x27;")
	textEscaper       = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	compatTextEscaper = attrEscaper
)

// StringEngine builds a lightweight tree and serializes it by concatenation.
//
// Attributes are written in the order CreateTag receives them; the DOM facade
// hands them over sorted by key, so both string modes agree on attribute order
// and differ only in how text is escaped.
type StringEngine struct {
	name       string
	textEscape *strings.Replacer
}

// NewStringEngine creates the default string engine: text escapes &<> only.
func NewStringEngine() *StringEngine {
	return &StringEngine{name: EngineString, textEscape: textEscaper}
}

// NewStringCompatEngine creates the compatibility string engine: quotes in text
// are escaped as well.
func NewStringCompatEngine() *StringEngine {
	return &StringEngine{name: EngineStringCompat, textEscape: compatTextEscaper}
}

// Name implements Engine.
func (e *StringEngine) Name() string {
	return e.name
}

// CreateTag implements Engine.
func (e *StringEngine) CreateTag(tag string, attrs []Attr) Node {
	return &elt{kind: kindTag, tag: tag, attrs: attrs}
}

// Fragment implements Engine.
func (e *StringEngine) Fragment() Node {
	return &elt{kind: kindFragment}
}

// Text implements Engine.
func (e *StringEngine) Text(text string) Node {
	return &elt{kind: kindText, text: text}
}

// RawHTML implements Engine.
func (e *StringEngine) RawHTML(markup string) Node {
	return &elt{kind: kindRaw, text: markup}
}

// AppendChild implements Engine.
func (e *StringEngine) AppendChild(parent Node, child Node) {
	p, ok := parent.(*elt)
	if !ok || p.kind == kindText || p.kind == kindRaw {
		return
	}
	c, ok := child.(*elt)
	if !ok || c == nil {
		return
	}
	if c.kind == kindText {
		if c.text == "" {
			return
		}
	} else {
		// 同一个元素引用不重复插入（wrapper 会多次返回同一个父节点）
		for _, existing := range p.children {
			if existing == c {
				return
			}
		}
	}
	p.children = append(p.children, c)
}

// Render implements Engine.
func (e *StringEngine) Render(node Node) string {
	var sb strings.Builder
	if n, ok := node.(*elt); ok {
		e.render(&sb, n, false)
	}
	return sb.String()
}

// RenderDebug implements Engine.
func (e *StringEngine) RenderDebug(node Node) string {
	var sb strings.Builder
	if n, ok := node.(*elt); ok {
		e.render(&sb, n, true)
	}
	return sb.String()
}

func (e *StringEngine) render(sb *strings.Builder, n *elt, debug bool) {
	switch n.kind {
	case kindText:
		sb.WriteString(e.textEscape.Replace(n.text))
		return
	case kindRaw:
		sb.WriteString(n.text)
		return
	case kindFragment:
		if !debug {
			e.renderChildren(sb, n, debug)
			return
		}
		sb.WriteString("<fragment>")
		e.renderChildren(sb, n, debug)
		sb.WriteString("</fragment>")
		return
	}

	sb.WriteByte('<')
	sb.WriteString(n.tag)
	for _, a := range n.attrs {
		sb.WriteByte(' ')
		sb.WriteString(a.Key)
		sb.WriteString(`="`)
		sb.WriteString(attrEscaper.Replace(a.Val))
		sb.WriteByte('"')
	}
	if IsVoid(n.tag) {
		sb.WriteString("/>")
		return
	}
	sb.WriteByte('>')
	e.renderChildren(sb, n, debug)
	sb.WriteString("</")
	sb.WriteString(n.tag)
	sb.WriteByte('>')
}

func (e *StringEngine) renderChildren(sb *strings.Builder, n *elt, debug bool) {
	for _, c := range n.children {
		e.render(sb, c, debug)
	}
}
