// Package decorator applies regex based composite decorators to plain text.
package decorator

import (
	"regexp"
	"sort"
	"strings"

	"github.com/riverfjs/draftexport/dom"
	"github.com/riverfjs/draftexport/internal/types"
)

// LineBreakPattern 是换行装饰器使用的正则
const LineBreakPattern = `\n`

// Decorator 把 Pattern 的每个匹配渲染为 Component
type Decorator struct {
	Pattern   *regexp.Regexp
	Component dom.Element
}

// Match 是一个被接受的匹配，Start/End 是文本中的字节偏移
type Match struct {
	Start     int
	End       int
	Groups    []string
	Decorator *Decorator
}

// ShouldRender reports whether decorators can change text at all.
// A lone line-break decorator is skipped for text without a newline.
func ShouldRender(decorators []Decorator, text string) bool {
	if len(decorators) == 0 || text == "" {
		return false
	}
	if len(decorators) == 1 && decorators[0].Pattern != nil && decorators[0].Pattern.String() == LineBreakPattern {
		return strings.Contains(text, "\n")
	}
	return true
}

// Matches 收集互不重叠的匹配
//
// 装饰器按顺序处理，每个装饰器内部从左到右；与已接受的匹配有重叠的被丢弃。
// 空匹配没有可装饰的文本，直接忽略。结果按起始位置排序。
func Matches(decorators []Decorator, text string) []Match {
	occupied := make([]bool, len(text))
	var matches []Match

	for i := range decorators {
		dec := &decorators[i]
		if dec.Pattern == nil {
			continue
		}
		for _, loc := range dec.Pattern.FindAllStringSubmatchIndex(text, -1) {
			begin, end := loc[0], loc[1]
			if begin == end || overlaps(occupied, begin, end) {
				continue
			}
			for j := begin; j < end; j++ {
				occupied[j] = true
			}
			matches = append(matches, Match{
				Start:     begin,
				End:       end,
				Groups:    submatches(text, loc),
				Decorator: dec,
			})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool { return matches[i].Start < matches[j].Start })
	return matches
}

// Render 把 text 中的匹配替换为装饰器节点
//
// 组件收到 match（各分组文本）、match_index（[start, end] 字节位置）、block、blocks。
// 只有一个结果时直接返回，否则返回 fragment。
func Render(d *dom.DOM, decorators []Decorator, text string, block *types.Block, blocks []types.Block) dom.Node {
	var out []dom.Node
	pointer := 0
	for _, m := range Matches(decorators, text) {
		if pointer < m.Start {
			out = append(out, text[pointer:m.Start])
		}
		props := dom.Props{
			"match":       m.Groups,
			"match_index": []int{m.Start, m.End},
			"block":       block,
			"blocks":      blocks,
		}
		out = append(out, d.CreateElement(m.Decorator.Component, props, text[m.Start:m.End]))
		pointer = m.End
	}
	if pointer < len(text) {
		out = append(out, text[pointer:])
	}

	if len(out) == 1 {
		return out[0]
	}
	return d.Fragment(out...)
}

// BR renders a line break, usable as the component of a LineBreakPattern decorator.
func BR(d *dom.DOM, props dom.Props) dom.Node {
	return d.CreateElement(dom.Tag("br"), nil)
}

// LineBreak returns the standard line-break decorator.
func LineBreak() Decorator {
	return Decorator{Pattern: regexp.MustCompile(LineBreakPattern), Component: dom.Component(BR)}
}

func overlaps(occupied []bool, begin, end int) bool {
	for i := begin; i < end; i++ {
		if occupied[i] {
			return true
		}
	}
	return false
}

func submatches(text string, loc []int) []string {
	groups := make([]string, len(loc)/2)
	for i := range groups {
		if loc[2*i] >= 0 {
			groups[i] = text[loc[2*i]:loc[2*i+1]]
		}
	}
	return groups
}
