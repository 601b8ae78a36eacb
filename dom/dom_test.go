package dom

import (
	"testing"

	"github.com/microcosm-cc/bluemonday"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allEngines() []Engine {
	return []Engine{NewStringEngine(), NewStringCompatEngine(), NewEtreeEngine(), NewHTMLEngine()}
}

// TestCreateElement_AllEngines 所有引擎共享同一套构建规则
func TestCreateElement_AllEngines(t *testing.T) {
	tests := []struct {
		name  string
		build func(d *DOM) Node
		want  string
	}{
		{
			name:  "text child",
			build: func(d *DOM) Node { return d.CreateElement(Tag("p"), nil, "a & b") },
			want:  "<p>a &amp; b</p>",
		},
		{
			name:  "empty element keeps closing tag",
			build: func(d *DOM) Node { return d.CreateElement(Tag("p"), nil) },
			want:  "<p></p>",
		},
		{
			name:  "void element",
			build: func(d *DOM) Node { return d.CreateElement(Tag("br"), nil) },
			want:  "<br/>",
		},
		{
			name:  "void element drops children",
			build: func(d *DOM) Node { return d.CreateElement(Tag("img"), Props{"src": "a.png"}, "ignored") },
			want:  `<img src="a.png"/>`,
		},
		{
			name: "nested",
			build: func(d *DOM) Node {
				return d.CreateElement(Tag("ul"), nil, d.CreateElement(Tag("li"), nil, "x"))
			},
			want: "<ul><li>x</li></ul>",
		},
		{
			name:  "fragment element",
			build: func(d *DOM) Node { return d.CreateElement(nil, nil, "a", d.CreateElement(Tag("b"), nil, "c")) },
			want:  "a<b>c</b>",
		},
		{
			name:  "empty tag is a fragment",
			build: func(d *DOM) Node { return d.CreateElement(Tag(""), nil, "x") },
			want:  "x",
		},
		{
			name: "fragment inside element",
			build: func(d *DOM) Node {
				return d.CreateElement(Tag("p"), nil, d.Fragment("a", d.Fragment("b")), "c")
			},
			want: "<p>abc</p>",
		},
		{
			name: "attributes",
			build: func(d *DOM) Node {
				return d.CreateElement(Tag("div"), Props{
					"class":   "x",
					"data-ok": true,
					"hidden":  nil,
					"block":   map[string]any{"type": "unstyled"},
					"style":   map[string]any{"textAlign": "left", "color": "red"},
				})
			},
			want: `<div class="x" data-ok="true" style="color: red;text-align: left;"></div>`,
		},
		{
			name: "raw markup",
			build: func(d *DOM) Node {
				return d.CreateElement(Tag("div"), nil, d.ParseHTML("<b>x</b> &amp; y"))
			},
			want: "<div><b>x</b> &amp; y</div>",
		},
	}

	for _, engine := range allEngines() {
		for _, tt := range tests {
			t.Run(engine.Name()+"/"+tt.name, func(t *testing.T) {
				d := New(engine)
				assert.Equal(t, tt.want, d.Render(tt.build(d)))
			})
		}
	}
}

func TestAppendChild_NoDuplicateReference(t *testing.T) {
	for _, engine := range allEngines() {
		t.Run(engine.Name(), func(t *testing.T) {
			d := New(engine)
			root := d.Fragment()
			ul := d.CreateElement(Tag("ul"), nil, d.CreateElement(Tag("li"), nil, "x"))
			d.AppendChild(root, ul)
			d.AppendChild(root, ul)
			d.AppendChild(root, "")
			assert.Equal(t, "<ul><li>x</li></ul>", d.Render(root))
		})
	}
}

func TestAppendChild_TextMayRepeat(t *testing.T) {
	for _, engine := range allEngines() {
		t.Run(engine.Name(), func(t *testing.T) {
			d := New(engine)
			p := d.CreateElement(Tag("p"), nil)
			d.AppendChild(p, "a")
			d.AppendChild(p, "a")
			assert.Equal(t, "<p>aa</p>", d.Render(p))
		})
	}
}

func TestComponent_Children(t *testing.T) {
	var got any
	capture := Component(func(d *DOM, props Props) Node {
		got = props["children"]
		return d.CreateElement(Tag("span"), props, props["children"])
	})

	d := New(NewStringEngine())

	out := d.Render(d.CreateElement(capture, Props{"children": "ignored", "title": "t"}, "one"))
	assert.Equal(t, `<span title="t">one</span>`, out)
	_, single := got.([]Node)
	assert.False(t, single, "a single child is unwrapped")

	out = d.Render(d.CreateElement(capture, nil, "one", "two"))
	assert.Equal(t, "<span>onetwo</span>", out)
	kids, ok := got.([]Node)
	require.True(t, ok)
	assert.Len(t, kids, 2)
}

func TestComponent_ReceivesStructuralProps(t *testing.T) {
	var block any
	c := Component(func(d *DOM, props Props) Node {
		block = props["block"]
		return nil
	})
	d := New(NewStringEngine())
	out := d.Render(d.CreateElement(c, Props{"block": "meta"}, "kept"))
	assert.Equal(t, "meta", block)
	// 组件返回 nil 时退化为 fragment，子节点不会丢失
	assert.Equal(t, "kept", out)
}

func TestComponent_ReturnsString(t *testing.T) {
	c := Component(func(d *DOM, props Props) Node { return "<literal>" })
	d := New(NewStringEngine())
	assert.Equal(t, "&lt;literal&gt;", d.Render(d.CreateElement(c, nil)))
}

func TestRenderChildren(t *testing.T) {
	d := New(NewStringEngine())
	out := d.Render(d.CreateElement(Component(RenderChildren), nil, "a", d.CreateElement(Tag("hr"), nil)))
	assert.Equal(t, "a<hr/>", out)
}

func TestRenderDebug_KeepsFragments(t *testing.T) {
	for _, engine := range allEngines() {
		t.Run(engine.Name(), func(t *testing.T) {
			d := New(engine)
			out := d.RenderDebug(d.Fragment(d.CreateElement(Tag("p"), nil, "x")))
			assert.Equal(t, "<fragment><p>x</p></fragment>", out)
		})
	}
}

func TestStringEngines_Escaping(t *testing.T) {
	build := func(d *DOM) Node {
		return d.CreateElement(Tag("a"), Props{"title": `say "hi" & 'bye'`}, `"quoted" <tag>`)
	}

	d := New(NewStringEngine())
	assert.Equal(t,
		`<a title="say &quot;hi&quot; &amp; &#x27;bye&#x27;">"quoted" &lt;tag&gt;</a>`,
		d.Render(build(d)))

	d = New(NewStringCompatEngine())
	assert.Equal(t,
		`<a title="say &quot;hi&quot; &amp; &#x27;bye&#x27;">&quot;quoted&quot; &lt;tag&gt;</a>`,
		d.Render(build(d)))
}

// TestAttributeOrder 引擎按收到的顺序输出属性，facade 先按 key 排序
func TestAttributeOrder(t *testing.T) {
	for _, e := range []*StringEngine{NewStringEngine(), NewStringCompatEngine()} {
		n := e.CreateTag("a", []Attr{{"title", "t"}, {"href", "/"}})
		assert.Equal(t, `<a title="t" href="/"></a>`, e.Render(n), e.Name())
	}

	for _, e := range allEngines() {
		d := New(e)
		n := d.CreateElement(Tag("a"), Props{"title": "t", "href": "/"})
		assert.Equal(t, `<a href="/" title="t"></a>`, d.Render(n), e.Name())
	}
}

func TestHTMLEngine_MovesReparentedNodes(t *testing.T) {
	d := New(NewHTMLEngine())
	li := d.CreateElement(Tag("li"), nil, "x")
	first := d.CreateElement(Tag("ul"), nil, li)
	second := d.CreateElement(Tag("ol"), nil)
	d.AppendChild(second, li)
	assert.Equal(t, "<ul></ul>", d.Render(first))
	assert.Equal(t, "<ol><li>x</li></ol>", d.Render(second))
}

func TestParseHTML_Sanitizer(t *testing.T) {
	d := New(NewStringEngine(), WithSanitizer(bluemonday.UGCPolicy()))
	out := d.Render(d.ParseHTML(`<b>bold</b><script>alert(1)</script>`))
	assert.Equal(t, "<b>bold</b>", out)
}

// TestParseHTML_KeepsFragmentMarkup 原始 markup 中的 <fragment> 不会被当作引擎标记去掉
func TestParseHTML_KeepsFragmentMarkup(t *testing.T) {
	for _, engine := range allEngines() {
		t.Run(engine.Name(), func(t *testing.T) {
			d := New(engine)
			p := d.CreateElement(Tag("p"), nil, d.ParseHTML("<fragment>x</fragment>"), "y")
			assert.Equal(t, "<fragment>x</fragment>y", d.Render(d.Fragment(d.ParseHTML("<fragment>x</fragment>"), "y")))
			assert.Equal(t, "<p><fragment>x</fragment>y</p>", d.Render(p))
		})
	}
}

func TestRender_NestedFragments(t *testing.T) {
	for _, engine := range allEngines() {
		t.Run(engine.Name(), func(t *testing.T) {
			d := New(engine)
			inner := d.Fragment("a", d.Fragment(d.CreateElement(Tag("em"), nil, "b")), d.Fragment())
			out := d.Render(d.Fragment(d.CreateElement(Tag("p"), nil, inner), d.CreateElement(Tag("p"), nil)))
			assert.Equal(t, "<p>a<em>b</em></p><p></p>", out)
		})
	}
}

func TestRender_Nil(t *testing.T) {
	d := New(NewStringEngine())
	assert.Equal(t, "", d.Render(nil))
	assert.Equal(t, "a&amp;b", d.Render("a&b"))
}

func TestEngineByName(t *testing.T) {
	for _, name := range EngineNames() {
		e, err := EngineByName(name)
		require.NoError(t, err)
		assert.Equal(t, name, e.Name())
	}

	e, err := EngineByName("")
	require.NoError(t, err)
	assert.Equal(t, EngineString, e.Name())

	_, err = EngineByName("lxml")
	assert.Error(t, err)
}

func TestCamelToDash(t *testing.T) {
	tests := map[string]string{
		"textAlign":       "text-align",
		"borderTopWidth":  "border-top-width",
		"WebkitTransform": "webkit-transform",
		"msTransform":     "ms-transform",
		"color":           "color",
	}
	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, CamelToDash(in))
		})
	}
}

func TestAttributes(t *testing.T) {
	attrs := Attributes(Props{
		"children":           "x",
		"entity":             1,
		"inline_style_range": 2,
		"width":              300,
		"checked":            false,
		"style":              map[string]string{"marginLeft": "2px"},
	})
	assert.Equal(t, []Attr{
		{Key: "checked", Val: "false"},
		{Key: "style", Val: "margin-left: 2px;"},
		{Key: "width", Val: "300"},
	}, attrs)
	assert.Nil(t, Attributes(nil))
}
