// Package markdown 将 Markdown 解析为 Draft.js raw content state
//
// 解析基于 goldmark 的 AST，输出可以直接交给 draftexport.Exporter 渲染：
//
//	content, err := markdown.Parse([]byte("Hello **world**"))
//	if err != nil {
//	    return err
//	}
//	html, err := exporter.Render(content)
//
// 映射规则：
//   - 段落 → unstyled，标题 → header-one..header-six
//   - 列表项 → unordered-list-item / ordered-list-item，嵌套层级写入 depth
//   - 引用 → blockquote，代码块 → code-block（data.language）
//   - 分隔线 → atomic block + HORIZONTAL_RULE 实体
//   - 强调 → ITALIC / BOLD，删除线 → STRIKETHROUGH，行内代码 → CODE
//   - 链接 → LINK 实体（url、title），图片 → IMAGE 实体（src、alt、title）
//   - 表格的每一行 → unstyled，单元格以 " | " 分隔，表头加粗
package markdown

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"

	"github.com/riverfjs/draftexport"
	"github.com/riverfjs/draftexport/internal/util"
)

// StandardExtensions goldmark 扩展配置
var StandardExtensions = []goldmark.Extender{
	extension.GFM, // GitHub Flavored Markdown (tables, strikethrough, linkify, tasklists)
}

type options struct {
	unit       util.Unit
	extensions []goldmark.Extender
}

// Option configures Parse.
type Option func(*options)

// WithOffsetUnit sets how range offsets are counted. It must match the
// exporter's unit; the default is code points.
func WithOffsetUnit(unit draftexport.OffsetUnit) Option {
	return func(o *options) {
		o.unit = unit
	}
}

// WithExtensions replaces the goldmark extensions.
func WithExtensions(extensions ...goldmark.Extender) Option {
	return func(o *options) {
		o.extensions = extensions
	}
}

// Parse 解析 Markdown 并遍历 AST 生成 content state
func Parse(source []byte, opts ...Option) (draftexport.ContentState, error) {
	o := &options{unit: util.CodePoints, extensions: StandardExtensions}
	for _, opt := range opts {
		opt(o)
	}

	md := goldmark.New(goldmark.WithExtensions(o.extensions...))
	node := md.Parser().Parse(text.NewReader(source))

	w := newWalker(source, o.unit)
	if err := ast.Walk(node, w.Walk); err != nil {
		return draftexport.ContentState{}, err
	}
	return w.Result(), nil
}

// ParseString is Parse for a string source.
func ParseString(source string, opts ...Option) (draftexport.ContentState, error) {
	return Parse([]byte(source), opts...)
}
