// Package state holds the per-block and per-document state machines of the exporter.
package state

import (
	"github.com/riverfjs/draftexport/dom"
	"github.com/riverfjs/draftexport/internal/command"
	"github.com/riverfjs/draftexport/internal/options"
	"github.com/riverfjs/draftexport/internal/types"
)

// EntityState 通过栈匹配 start_entity / stop_entity，并在实体闭合时输出实体元素
type EntityState struct {
	dom        *dom.DOM
	decorators options.Map
	entityMap  types.EntityMap

	stack     []types.EntityKey
	completed *types.EntityKey
	elements  []dom.Node
}

// NewEntityState creates an empty entity state for one block.
func NewEntityState(d *dom.DOM, decorators options.Map, entityMap types.EntityMap) *EntityState {
	return &EntityState{
		dom:        d,
		decorators: decorators,
		entityMap:  entityMap,
	}
}

// Apply updates the stack with an entity command; other commands are ignored.
func (s *EntityState) Apply(c command.Command) error {
	switch c.Name {
	case command.StartEntity:
		s.stack = append(s.stack, types.EntityKey(c.Data))
	case command.StopEntity:
		key := types.EntityKey(c.Data)
		if len(s.stack) == 0 {
			return &types.EntityMismatchError{Got: key}
		}
		expected := s.stack[len(s.stack)-1]
		if expected != key {
			return &types.EntityMismatchError{Expected: expected, Got: key}
		}
		s.stack = s.stack[:len(s.stack)-1]
		if len(s.stack) == 0 {
			s.completed = &key
		}
	}
	return nil
}

// HasEntity reports whether an entity is currently open.
func (s *EntityState) HasEntity() bool {
	return len(s.stack) > 0
}

// Depth returns the number of open entities.
func (s *EntityState) Depth() int {
	return len(s.stack)
}

// Render 处理当前 slice 的节点
//
//   - 刚闭合的实体：输出实体元素，子节点为缓冲的所有节点；
//     如果紧接着又打开了另一个实体，当前节点进入新的缓冲
//   - 仍有实体打开：缓冲节点，返回 nil
//   - 没有实体：原样返回
func (s *EntityState) Render(styled dom.Node, block *types.Block, blocks []types.Block) (dom.Node, error) {
	if s.completed != nil {
		key := *s.completed
		entity, ok := s.entityMap[string(key)]
		if !ok {
			return nil, &types.EntityLookupError{Key: key}
		}
		desc, err := s.decorators.Get(entity.Type)
		if err != nil {
			return nil, err
		}

		props := desc.Props.Clone()
		for k, v := range entity.Data {
			props[k] = v
		}
		props["entity"] = types.EntityContext{
			Key:        key,
			Type:       entity.Type,
			Mutability: entity.Mutability,
			Data:       entity.Data,
			Block:      block,
			Blocks:     blocks,
		}

		var children dom.Node
		if len(s.elements) == 1 {
			children = s.elements[0]
		} else {
			children = s.dom.Fragment(s.elements...)
		}

		s.completed = nil
		s.elements = nil
		if s.HasEntity() {
			s.elements = append(s.elements, styled)
		}
		return s.dom.CreateElement(desc.Element, props, children), nil
	}

	if s.HasEntity() {
		s.elements = append(s.elements, styled)
		return nil, nil
	}
	return styled, nil
}
