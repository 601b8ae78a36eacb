package dom

import (
	"html"
	"regexp"

	"github.com/beevik/etree"
)

const (
	fragmentTag = "fragment"
	rawTag      = "escaped_html"
)

var rawMarkupRe = regexp.MustCompile(`(?s)<escaped_html>(.*?)</escaped_html>|<escaped_html/>`)

// EtreeEngine builds a real element tree with github.com/beevik/etree.
//
// Fragments are <fragment> elements unwrapped in the tree on render. Raw markup
// is stored as the text of an <escaped_html> marker and restored verbatim on render.
type EtreeEngine struct{}

// NewEtreeEngine creates an etree engine.
func NewEtreeEngine() *EtreeEngine {
	return &EtreeEngine{}
}

// Name implements Engine.
func (e *EtreeEngine) Name() string {
	return EngineEtree
}

// CreateTag implements Engine.
func (e *EtreeEngine) CreateTag(tag string, attrs []Attr) Node {
	el := etree.NewElement(tag)
	for _, a := range attrs {
		el.CreateAttr(a.Key, a.Val)
	}
	return el
}

// Fragment implements Engine.
func (e *EtreeEngine) Fragment() Node {
	return etree.NewElement(fragmentTag)
}

// Text implements Engine.
func (e *EtreeEngine) Text(text string) Node {
	return etree.NewText(text)
}

// RawHTML implements Engine.
func (e *EtreeEngine) RawHTML(markup string) Node {
	el := etree.NewElement(rawTag)
	el.SetText(markup)
	return el
}

// AppendChild implements Engine.
func (e *EtreeEngine) AppendChild(parent Node, child Node) {
	p, ok := parent.(*etree.Element)
	if !ok || p == nil || p.Tag == rawTag {
		return
	}
	switch c := child.(type) {
	case *etree.CharData:
		if c == nil || c.Data == "" {
			return
		}
		if c.Parent() != nil {
			c = etree.NewText(c.Data)
		}
		p.AddChild(c)
	case *etree.Element:
		if c == nil || c.Parent() == p {
			return
		}
		p.AddChild(c)
	}
}

// Render implements Engine.
func (e *EtreeEngine) Render(node Node) string {
	return e.serialize(node, false)
}

// RenderDebug implements Engine.
func (e *EtreeEngine) RenderDebug(node Node) string {
	return e.serialize(node, true)
}

// serialize 在树上展开 fragment（debug 时保留），再恢复原始 markup
func (e *EtreeEngine) serialize(node Node, debug bool) string {
	var root *etree.Element
	switch n := node.(type) {
	case *etree.Element:
		root = n.Copy()
	case *etree.CharData:
		root = etree.NewElement(fragmentTag)
		root.AddChild(etree.NewText(n.Data))
	default:
		return ""
	}

	doc := etree.NewDocument()
	doc.WriteSettings = etree.WriteSettings{CanonicalText: true}
	if debug {
		prepareHTML(root)
		doc.AddChild(root)
	} else {
		unwrapFragments(root)
		prepareHTML(root)
		if root.Tag == fragmentTag {
			for _, c := range append([]etree.Token(nil), root.Child...) {
				doc.AddChild(c)
			}
		} else {
			doc.AddChild(root)
		}
	}

	out, err := doc.WriteToString()
	if err != nil {
		return ""
	}
	return rawMarkupRe.ReplaceAllStringFunc(out, func(m string) string {
		sub := rawMarkupRe.FindStringSubmatch(m)
		return html.UnescapeString(sub[1])
	})
}

// unwrapFragments splices the children of every fragment below el into its parent.
func unwrapFragments(el *etree.Element) {
	kids := append([]etree.Token(nil), el.Child...)
	for len(el.Child) > 0 {
		el.RemoveChildAt(0)
	}
	for _, c := range kids {
		child, ok := c.(*etree.Element)
		if !ok {
			el.AddChild(c)
			continue
		}
		unwrapFragments(child)
		if child.Tag != fragmentTag {
			el.AddChild(child)
			continue
		}
		for _, gc := range append([]etree.Token(nil), child.Child...) {
			el.AddChild(gc)
		}
	}
}

// prepareHTML adjusts an XML tree so it serializes as HTML: void elements lose
// their children, other empty elements get an explicit closing tag.
func prepareHTML(el *etree.Element) {
	if IsVoid(el.Tag) {
		for len(el.Child) > 0 {
			el.RemoveChild(el.Child[0])
		}
		return
	}
	if len(el.Child) == 0 && el.Tag != fragmentTag && el.Tag != rawTag {
		el.AddChild(etree.NewText(""))
		return
	}
	for _, c := range el.ChildElements() {
		prepareHTML(c)
	}
}
