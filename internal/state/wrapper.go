package state

import (
	"reflect"

	"github.com/riverfjs/draftexport/dom"
	"github.com/riverfjs/draftexport/internal/options"
	"github.com/riverfjs/draftexport/internal/types"
)

type wrapper struct {
	depth     int
	tag       string
	props     dom.Props
	elt       dom.Node
	lastChild dom.Node
}

// isDifferent 判断新的 block 是否需要另起一个 wrapper
func (w *wrapper) isDifferent(depth int, tag string, props dom.Props) bool {
	return depth > w.depth || tag != w.tag || !sameProps(props, w.props)
}

func sameProps(a, b dom.Props) bool {
	if len(a) == 0 && len(b) == 0 {
		return true
	}
	return reflect.DeepEqual(a, b)
}

// WrapperState 在整个文档范围内维护 wrapper 栈
//
// stack[i] 是深度 i 的 wrapper。一个 block 没有 wrapper 时栈被清空；
// 深度增加时逐级补齐，必要时在中间插入一个不含文本的元素承载下一级 wrapper。
type WrapperState struct {
	dom    *dom.DOM
	blocks options.Map
	all    []types.Block
	stack  []*wrapper
}

// NewWrapperState creates an empty wrapper stack for a document.
func NewWrapperState(d *dom.DOM, blocks options.Map, all []types.Block) *WrapperState {
	return &WrapperState{dom: d, blocks: blocks, all: all}
}

// Len returns the stack size.
func (s *WrapperState) Len() int {
	return len(s.stack)
}

// Root returns the outermost wrapper element, nil when the stack is empty.
func (s *WrapperState) Root() dom.Node {
	if len(s.stack) == 0 {
		return nil
	}
	return s.stack[0].elt
}

// ElementFor 创建 block 的元素并返回应当挂到文档上的节点
//
// 没有 wrapper 的 block 返回元素本身；有 wrapper 的 block 被放进对应深度的
// wrapper，返回该 wrapper。
func (s *WrapperState) ElementFor(block *types.Block, content dom.Node) (dom.Node, error) {
	desc, err := s.blocks.Get(block.BlockType())
	if err != nil {
		return nil, err
	}
	depth := block.Depth
	if depth < 0 {
		depth = 0
	}

	props := desc.Props.Clone()
	props["block"] = block
	props["blocks"] = s.all
	elt := s.dom.CreateElement(desc.Element, props, content)

	if desc.Wrapper == "" {
		s.stack = s.stack[:0]
		return elt, nil
	}

	parent := s.wrapperFor(desc, depth)
	s.dom.AppendChild(parent, elt)
	s.stack[depth].lastChild = elt
	return parent, nil
}

func (s *WrapperState) head() *wrapper {
	if len(s.stack) == 0 {
		return &wrapper{depth: -1}
	}
	return s.stack[len(s.stack)-1]
}

func (s *WrapperState) wrapperFor(desc options.Descriptor, depth int) dom.Node {
	head := s.head()
	if head.isDifferent(depth, desc.Wrapper, desc.WrapperProps) {
		s.updateStack(desc, depth)
	} else if depth < head.depth {
		s.stack = s.stack[:depth+1]
	}
	return s.stack[depth].elt
}

// updateStack 截断到 depth，然后从当前长度逐级补齐到 depth
func (s *WrapperState) updateStack(desc options.Descriptor, depth int) {
	if depth < len(s.stack) {
		s.stack = s.stack[:depth]
	}
	for level := len(s.stack); level <= depth; level++ {
		w := &wrapper{
			depth: level,
			tag:   desc.Wrapper,
			props: desc.WrapperProps,
			elt:   s.dom.CreateElement(dom.Tag(desc.Wrapper), desc.WrapperProps),
		}
		if len(s.stack) > 0 {
			head := s.head()
			parent := head.lastChild
			if parent == nil {
				props := desc.Props.Clone()
				props["block"] = &types.Block{Type: desc.Type, Depth: depth, Data: map[string]any{}}
				props["blocks"] = s.all
				parent = s.dom.CreateElement(desc.Element, props)
				s.dom.AppendChild(head.elt, parent)
				head.lastChild = parent
			}
			s.dom.AppendChild(parent, w.elt)
		}
		s.stack = append(s.stack, w)
	}
}
