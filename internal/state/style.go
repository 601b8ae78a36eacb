package state

import (
	"sort"

	"github.com/riverfjs/draftexport/dom"
	"github.com/riverfjs/draftexport/internal/command"
	"github.com/riverfjs/draftexport/internal/options"
	"github.com/riverfjs/draftexport/internal/types"
)

// StyleState 记录当前生效的内联样式
type StyleState struct {
	dom    *dom.DOM
	styles options.Map
	active []string
}

// NewStyleState creates an empty style state for one block.
func NewStyleState(d *dom.DOM, styles options.Map) *StyleState {
	return &StyleState{dom: d, styles: styles}
}

// Apply 处理样式命令
//
// stop 只移除第一次出现的同名样式，重复的 range 会保留后面的副本。
func (s *StyleState) Apply(c command.Command) {
	switch c.Name {
	case command.StartInlineStyle:
		s.active = append(s.active, c.Data)
	case command.StopInlineStyle:
		for i, style := range s.active {
			if style == c.Data {
				s.active = append(s.active[:i], s.active[i+1:]...)
				break
			}
		}
	}
}

// IsEmpty reports whether no style is active.
func (s *StyleState) IsEmpty() bool {
	return len(s.active) == 0
}

// Active returns a copy of the active styles in application order.
func (s *StyleState) Active() []string {
	return append([]string(nil), s.active...)
}

// Render wraps node in one element per active style. Styles are applied in
// descending name order, the first one ends up innermost.
func (s *StyleState) Render(node dom.Node, block *types.Block, blocks []types.Block) (dom.Node, error) {
	if len(s.active) == 0 {
		return node, nil
	}
	sorted := s.Active()
	sort.Sort(sort.Reverse(sort.StringSlice(sorted)))

	for _, style := range sorted {
		desc, err := s.styles.Get(style)
		if err != nil {
			return nil, err
		}
		props := desc.Props.Clone()
		props["block"] = block
		props["blocks"] = blocks
		props["inline_style_range"] = types.StyleContext{Style: style}
		node = s.dom.CreateElement(desc.Element, props, node)
	}
	return node, nil
}
