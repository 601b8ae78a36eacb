package markdown

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riverfjs/draftexport"
	"github.com/riverfjs/draftexport/dom"
)

func parse(t *testing.T, src string, opts ...Option) draftexport.ContentState {
	t.Helper()
	content, err := ParseString(src, opts...)
	require.NoError(t, err)
	return content
}

// blockTypes 返回每个 block 的 type@depth
func blockTypes(content draftexport.ContentState) []string {
	out := make([]string, 0, len(content.Blocks))
	for _, b := range content.Blocks {
		out = append(out, fmt.Sprintf("%s@%d", b.Type, b.Depth))
	}
	return out
}

func TestParse_Blocks(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		types []string
		texts []string
	}{
		{
			name:  "paragraphs",
			src:   "one\n\ntwo",
			types: []string{"unstyled@0", "unstyled@0"},
			texts: []string{"one", "two"},
		},
		{
			name:  "soft break",
			src:   "a\nb",
			types: []string{"unstyled@0"},
			texts: []string{"a b"},
		},
		{
			name:  "headings",
			src:   "# One\n\n### Three",
			types: []string{"header-one@0", "header-three@0"},
			texts: []string{"One", "Three"},
		},
		{
			name:  "nested list",
			src:   "- a\n- b\n  - c\n",
			types: []string{"unordered-list-item@0", "unordered-list-item@0", "unordered-list-item@1"},
			texts: []string{"a", "b", "c"},
		},
		{
			name:  "ordered list",
			src:   "1. x\n2. y\n",
			types: []string{"ordered-list-item@0", "ordered-list-item@0"},
			texts: []string{"x", "y"},
		},
		{
			name:  "blockquote",
			src:   "> quote",
			types: []string{"blockquote@0"},
			texts: []string{"quote"},
		},
		{
			name:  "code block",
			src:   "```go\nfmt.Println()\n```\n",
			types: []string{"code-block@0"},
			texts: []string{"fmt.Println()"},
		},
		{
			name:  "thematic break",
			src:   "---\n",
			types: []string{"atomic@0"},
			texts: []string{" "},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content := parse(t, tt.src)
			assert.Equal(t, tt.types, blockTypes(content))
			texts := make([]string, 0, len(content.Blocks))
			for _, b := range content.Blocks {
				texts = append(texts, b.Text)
			}
			assert.Equal(t, tt.texts, texts)
		})
	}
}

func TestParse_Styles(t *testing.T) {
	tests := []struct {
		name string
		src  string
		text string
		want []draftexport.InlineStyleRange
	}{
		{
			name: "bold",
			src:  "Hello **world**",
			text: "Hello world",
			want: []draftexport.InlineStyleRange{{Offset: 6, Length: 5, Style: draftexport.StyleBold}},
		},
		{
			name: "italic",
			src:  "*a* b",
			text: "a b",
			want: []draftexport.InlineStyleRange{{Offset: 0, Length: 1, Style: draftexport.StyleItalic}},
		},
		{
			name: "strikethrough",
			src:  "~~del~~",
			text: "del",
			want: []draftexport.InlineStyleRange{{Offset: 0, Length: 3, Style: draftexport.StyleStrikethrough}},
		},
		{
			name: "code span",
			src:  "run `go test`",
			text: "run go test",
			want: []draftexport.InlineStyleRange{{Offset: 4, Length: 7, Style: draftexport.StyleCode}},
		},
		{
			name: "nested",
			src:  "**a *b***",
			text: "a b",
			want: []draftexport.InlineStyleRange{
				{Offset: 2, Length: 1, Style: draftexport.StyleItalic},
				{Offset: 0, Length: 3, Style: draftexport.StyleBold},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content := parse(t, tt.src)
			require.Len(t, content.Blocks, 1)
			assert.Equal(t, tt.text, content.Blocks[0].Text)
			assert.Equal(t, tt.want, content.Blocks[0].InlineStyleRanges)
		})
	}
}

func TestParse_Link(t *testing.T) {
	content := parse(t, `see [go](https://go.dev "Go")`)
	require.Len(t, content.Blocks, 1)
	block := content.Blocks[0]
	assert.Equal(t, "see go", block.Text)
	require.Len(t, block.EntityRanges, 1)
	r := block.EntityRanges[0]
	assert.Equal(t, 4, r.Offset)
	assert.Equal(t, 2, r.Length)

	entity := content.EntityMap[string(r.Key)]
	assert.Equal(t, draftexport.EntityLink, entity.Type)
	assert.Equal(t, "MUTABLE", entity.Mutability)
	assert.Equal(t, map[string]any{"url": "https://go.dev", "title": "Go"}, entity.Data)
}

func TestParse_Image(t *testing.T) {
	content := parse(t, "![logo](a.png)")
	require.Len(t, content.Blocks, 1)
	block := content.Blocks[0]
	assert.Equal(t, "logo", block.Text)
	require.Len(t, block.EntityRanges, 1)

	entity := content.EntityMap[string(block.EntityRanges[0].Key)]
	assert.Equal(t, draftexport.EntityImage, entity.Type)
	assert.Equal(t, "a.png", entity.Data["src"])
	assert.Equal(t, "logo", entity.Data["alt"])
}

// TestParse_NoNestedEntities 链接中的图片不会产生嵌套实体
func TestParse_NoNestedEntities(t *testing.T) {
	content := parse(t, "[![logo](a.png)](https://x.io)")
	require.Len(t, content.Blocks, 1)
	require.Len(t, content.Blocks[0].EntityRanges, 1)
	assert.Len(t, content.EntityMap, 1)
}

func TestParse_ThematicBreakEntity(t *testing.T) {
	content := parse(t, "---\n")
	require.Len(t, content.Blocks, 1)
	block := content.Blocks[0]
	require.Len(t, block.EntityRanges, 1)
	assert.Equal(t, draftexport.EntityRange{Offset: 0, Length: 1, Key: "0"}, block.EntityRanges[0])
	assert.Equal(t, draftexport.EntityHorizontalRule, content.EntityMap["0"].Type)
}

func TestParse_CodeLanguage(t *testing.T) {
	content := parse(t, "```python\nprint(1)\n```\n")
	require.Len(t, content.Blocks, 1)
	assert.Equal(t, map[string]any{"language": "python"}, content.Blocks[0].Data)
}

func TestParse_TaskList(t *testing.T) {
	content := parse(t, "- [x] done\n- [ ] todo\n")
	require.Len(t, content.Blocks, 2)
	assert.Equal(t, true, content.Blocks[0].Data["checked"])
	assert.Equal(t, false, content.Blocks[1].Data["checked"])
	assert.True(t, strings.Contains(content.Blocks[0].Text, "done"))
}

func TestParse_OffsetUnits(t *testing.T) {
	src := "📌 **a**"

	content := parse(t, src)
	assert.Equal(t, 2, content.Blocks[0].InlineStyleRanges[0].Offset)

	content = parse(t, src, WithOffsetUnit(draftexport.UTF16))
	assert.Equal(t, 3, content.Blocks[0].InlineStyleRanges[0].Offset)
}

func TestParse_Empty(t *testing.T) {
	content := parse(t, "")
	assert.Empty(t, content.Blocks)
	assert.Empty(t, content.EntityMap)
}

// TestParse_RoundTrip 解析结果可以直接交给 Exporter 渲染
func TestParse_RoundTrip(t *testing.T) {
	hr := func(d *dom.DOM, props dom.Props) dom.Node {
		return d.CreateElement(dom.Tag("hr"), nil)
	}
	link := func(d *dom.DOM, props dom.Props) dom.Node {
		return d.CreateElement(dom.Tag("a"), dom.Props{"href": props["url"]}, props["children"])
	}
	exporter, err := draftexport.New(draftexport.WithEntityDecorators(map[string]any{
		draftexport.EntityHorizontalRule: hr,
		draftexport.EntityLink:           link,
	}))
	require.NoError(t, err)

	src := "# Title\n\nHello **world**, see [go](/go).\n\n---\n\n- a\n  - b\n- c\n"
	got, err := exporter.Render(parse(t, src))
	require.NoError(t, err)
	assert.Equal(t,
		`<h1>Title</h1><p>Hello <strong>world</strong>, see <a href="/go">go</a>.</p><hr/>`+
			`<ul><li>a<ul><li>b</li></ul></li><li>c</li></ul>`,
		got)
}
