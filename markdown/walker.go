package markdown

import (
	"fmt"
	"strings"

	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"
	gutil "github.com/yuin/goldmark/util"

	"github.com/riverfjs/draftexport"
	"github.com/riverfjs/draftexport/internal/buffer"
	"github.com/riverfjs/draftexport/internal/util"
)

var headingTypes = map[int]string{
	1: draftexport.BlockHeaderOne,
	2: draftexport.BlockHeaderTwo,
	3: draftexport.BlockHeaderThree,
	4: draftexport.BlockHeaderFour,
	5: draftexport.BlockHeaderFive,
	6: draftexport.BlockHeaderSix,
}

type blockBuilder struct {
	block draftexport.Block
	buf   *buffer.TextBuffer
}

type styleScope struct {
	style string
	start int
}

// entityScope 为 nil 表示被外层实体吞掉的内层实体
type entityScope struct {
	key   draftexport.EntityKey
	start int
}

type listScope struct {
	ordered bool
}

// walker 遍历 goldmark AST 并生成 blocks + entityMap
type walker struct {
	source []byte
	unit   util.Unit

	blocks    []draftexport.Block
	entityMap draftexport.EntityMap
	cur       *blockBuilder

	styleStack  []styleScope
	entityStack []*entityScope
	listStack   []listScope
	quoteDepth  int
}

func newWalker(source []byte, unit util.Unit) *walker {
	return &walker{
		source:    source,
		unit:      unit,
		blocks:    make([]draftexport.Block, 0),
		entityMap: make(draftexport.EntityMap),
	}
}

// Walk 处理一个 AST 节点
func (w *walker) Walk(node ast.Node, entering bool) (ast.WalkStatus, error) {
	switch n := node.(type) {
	// --- Document ---
	case *ast.Document:
		if !entering {
			w.endBlock()
		}

	// --- Inline elements ---
	case *ast.Text:
		if entering {
			w.onText(n)
		}

	case *ast.String:
		if entering {
			w.write(string(n.Value))
		}

	case *ast.CodeSpan:
		if entering {
			w.onInlineCode(n)
			return ast.WalkSkipChildren, nil
		}

	case *ast.Emphasis:
		style := draftexport.StyleItalic
		if n.Level == 2 {
			style = draftexport.StyleBold
		}
		if entering {
			w.pushStyle(style)
		} else {
			w.popStyle(style)
		}

	case *east.Strikethrough:
		if entering {
			w.pushStyle(draftexport.StyleStrikethrough)
		} else {
			w.popStyle(draftexport.StyleStrikethrough)
		}

	// --- Links & Images ---
	case *ast.Link:
		if entering {
			data := map[string]any{"url": string(n.Destination)}
			if len(n.Title) > 0 {
				data["title"] = string(n.Title)
			}
			w.pushEntity(draftexport.EntityLink, "MUTABLE", data)
		} else {
			w.popEntity()
		}

	case *ast.Image:
		if entering {
			w.onStartImage(n)
		} else {
			// 图片没有 alt 文本时写入一个占位字符，实体范围不能为空
			if top := len(w.entityStack) - 1; top >= 0 && w.entityStack[top] != nil && w.offset() == w.entityStack[top].start {
				w.write(" ")
			}
			w.popEntity()
		}

	case *ast.AutoLink:
		if entering {
			w.pushEntity(draftexport.EntityLink, "MUTABLE", map[string]any{"url": string(n.URL(w.source))})
			w.write(string(n.Label(w.source)))
			w.popEntity()
			return ast.WalkSkipChildren, nil
		}

	case *ast.RawHTML, *ast.HTMLBlock:
		return ast.WalkSkipChildren, nil

	// --- Block elements ---
	case *ast.Paragraph, *ast.TextBlock:
		if entering {
			typ, depth := w.textBlockType()
			w.startBlock(typ, depth)
		} else {
			w.endBlock()
		}

	case *ast.Heading:
		if entering {
			typ, ok := headingTypes[n.Level]
			if !ok {
				typ = draftexport.BlockHeaderSix
			}
			w.startBlock(typ, 0)
		} else {
			w.endBlock()
		}

	case *ast.Blockquote:
		if entering {
			w.quoteDepth++
		} else {
			w.quoteDepth--
		}

	case *ast.List:
		if entering {
			w.listStack = append(w.listStack, listScope{ordered: n.IsOrdered()})
		} else if len(w.listStack) > 0 {
			w.listStack = w.listStack[:len(w.listStack)-1]
		}

	case *ast.ListItem:
		if entering {
			w.onStartItem(n)
		}

	case *east.TaskCheckBox:
		if entering && w.cur != nil {
			w.cur.block.Data = map[string]any{"checked": n.IsChecked}
		}

	case *ast.FencedCodeBlock, *ast.CodeBlock:
		if entering {
			w.onCodeBlock(n)
			return ast.WalkSkipChildren, nil
		}

	case *ast.ThematicBreak:
		if entering {
			w.onRule()
		}

	// --- Table ---
	case *east.TableHeader:
		if entering {
			w.startBlock(draftexport.BlockUnstyled, 0)
			w.pushStyle(draftexport.StyleBold)
		} else {
			w.popStyle(draftexport.StyleBold)
			w.endBlock()
		}

	case *east.TableRow:
		if entering {
			w.startBlock(draftexport.BlockUnstyled, 0)
		} else {
			w.endBlock()
		}

	case *east.TableCell:
		if entering && n.PreviousSibling() != nil {
			w.write(" | ")
		}
	}

	return ast.WalkContinue, nil
}

// Result 返回解析结果
func (w *walker) Result() draftexport.ContentState {
	return draftexport.ContentState{Blocks: w.blocks, EntityMap: w.entityMap}
}

// --- Blocks ---

// textBlockType 根据所在的容器决定段落的 block 类型
func (w *walker) textBlockType() (string, int) {
	if n := len(w.listStack); n > 0 {
		if w.listStack[n-1].ordered {
			return draftexport.BlockOrderedListItem, n - 1
		}
		return draftexport.BlockUnorderedListItem, n - 1
	}
	if w.quoteDepth > 0 {
		return draftexport.BlockBlockquote, 0
	}
	return draftexport.BlockUnstyled, 0
}

func (w *walker) startBlock(typ string, depth int) {
	w.endBlock()
	w.cur = &blockBuilder{
		block: draftexport.Block{
			Type:              typ,
			Depth:             depth,
			InlineStyleRanges: make([]draftexport.InlineStyleRange, 0),
			EntityRanges:      make([]draftexport.EntityRange, 0),
		},
		buf: buffer.New(w.unit),
	}
}

func (w *walker) endBlock() {
	if w.cur == nil {
		return
	}
	b := w.cur.block
	b.Key = fmt.Sprintf("md%d", len(w.blocks))
	b.Text = w.cur.buf.String()
	w.blocks = append(w.blocks, b)
	w.cur = nil
	w.styleStack = w.styleStack[:0]
	w.entityStack = w.entityStack[:0]
}

// onStartItem 列表项的第一个子节点不是文本时，先输出一个空的列表项
func (w *walker) onStartItem(n *ast.ListItem) {
	switch n.FirstChild().(type) {
	case *ast.Paragraph, *ast.TextBlock:
		return
	}
	typ, depth := w.textBlockType()
	w.startBlock(typ, depth)
	w.endBlock()
}

func (w *walker) onCodeBlock(n ast.Node) {
	var sb strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		sb.Write(line.Value(w.source))
	}
	code := strings.TrimSuffix(sb.String(), "\n")

	w.startBlock(draftexport.BlockCodeBlock, 0)
	if fenced, ok := n.(*ast.FencedCodeBlock); ok {
		if lang := strings.TrimSpace(string(fenced.Language(w.source))); lang != "" {
			w.cur.block.Data = map[string]any{"language": lang}
		}
	}
	w.write(code)
	w.endBlock()
}

func (w *walker) onRule() {
	w.startBlock(draftexport.BlockAtomic, 0)
	w.pushEntity(draftexport.EntityHorizontalRule, "IMMUTABLE", map[string]any{})
	w.write(" ")
	w.popEntity()
	w.endBlock()
}

// --- Text handling ---

func (w *walker) onText(n *ast.Text) {
	value := n.Segment.Value(w.source)
	if !n.IsRaw() {
		value = gutil.UnescapePunctuations(value)
		value = gutil.ResolveNumericReferences(value)
		value = gutil.ResolveEntityNames(value)
	}
	w.write(string(value))
	switch {
	case n.HardLineBreak():
		w.write("\n")
	case n.SoftLineBreak():
		w.write(" ")
	}
}

func (w *walker) onInlineCode(n *ast.CodeSpan) {
	var sb strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			sb.Write(t.Segment.Value(w.source))
		case *ast.String:
			sb.Write(t.Value)
		}
	}
	w.pushStyle(draftexport.StyleCode)
	w.write(sb.String())
	w.popStyle(draftexport.StyleCode)
}

func (w *walker) onStartImage(n *ast.Image) {
	data := map[string]any{
		"src": string(n.Destination),
		"alt": plainText(n, w.source),
	}
	if len(n.Title) > 0 {
		data["title"] = string(n.Title)
	}
	w.pushEntity(draftexport.EntityImage, "IMMUTABLE", data)
}

func (w *walker) write(text string) {
	if w.cur == nil {
		typ, depth := w.textBlockType()
		w.startBlock(typ, depth)
	}
	w.cur.buf.Write(text)
}

func (w *walker) offset() int {
	if w.cur == nil {
		return 0
	}
	return w.cur.buf.Offset()
}

// --- Range helpers ---

func (w *walker) pushStyle(style string) {
	w.styleStack = append(w.styleStack, styleScope{style: style, start: w.offset()})
}

func (w *walker) popStyle(style string) {
	// Find the matching scope (search from top)
	for i := len(w.styleStack) - 1; i >= 0; i-- {
		if w.styleStack[i].style != style {
			continue
		}
		scope := w.styleStack[i]
		w.styleStack = append(w.styleStack[:i], w.styleStack[i+1:]...)
		if length := w.offset() - scope.start; length > 0 && w.cur != nil {
			w.cur.block.InlineStyleRanges = append(w.cur.block.InlineStyleRanges, draftexport.InlineStyleRange{
				Offset: scope.start,
				Length: length,
				Style:  style,
			})
		}
		return
	}
}

// pushEntity 打开一个实体；实体不能嵌套，外层已有实体时内层被忽略
func (w *walker) pushEntity(typ, mutability string, data map[string]any) {
	if w.topEntity() != nil {
		w.entityStack = append(w.entityStack, nil)
		return
	}
	key := draftexport.EntityKeyOf(len(w.entityMap))
	w.entityMap[string(key)] = draftexport.Entity{Type: typ, Mutability: mutability, Data: data}
	w.entityStack = append(w.entityStack, &entityScope{key: key, start: w.offset()})
}

func (w *walker) popEntity() {
	if len(w.entityStack) == 0 {
		return
	}
	scope := w.entityStack[len(w.entityStack)-1]
	w.entityStack = w.entityStack[:len(w.entityStack)-1]
	if scope == nil {
		return
	}
	if length := w.offset() - scope.start; length > 0 && w.cur != nil {
		w.cur.block.EntityRanges = append(w.cur.block.EntityRanges, draftexport.EntityRange{
			Offset: scope.start,
			Length: length,
			Key:    scope.key,
		})
	}
}

// topEntity returns the innermost open entity, ignoring suppressed ones.
func (w *walker) topEntity() *entityScope {
	for i := len(w.entityStack) - 1; i >= 0; i-- {
		if w.entityStack[i] != nil {
			return w.entityStack[i]
		}
	}
	return nil
}

// --- Utilities ---

func plainText(n ast.Node, source []byte) string {
	var sb strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			sb.Write(t.Segment.Value(source))
		case *ast.String:
			sb.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return sb.String()
}
