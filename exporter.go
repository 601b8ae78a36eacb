package draftexport

import (
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/riverfjs/draftexport/dom"
	"github.com/riverfjs/draftexport/internal/command"
	"github.com/riverfjs/draftexport/internal/decorator"
	"github.com/riverfjs/draftexport/internal/options"
	"github.com/riverfjs/draftexport/internal/state"
	"github.com/riverfjs/draftexport/internal/types"
	"github.com/riverfjs/draftexport/internal/util"
)

// Exporter 把 content state 渲染为 HTML
//
// Exporter 创建后不可变，每次渲染的状态（wrapper 栈、实体栈、样式栈）
// 都在单次调用内创建，因此可以被多个 goroutine 同时使用。
type Exporter struct {
	dom        *dom.DOM
	blocks     options.Map
	styles     options.Map
	entities   options.Map
	decorators []Decorator
	unit       util.Unit
	logger     *zap.Logger
}

// New 创建 Exporter
//
// 配置中的所有问题（无法识别的描述符、未知引擎）合并为一个错误返回。
// 缺少的 block / style / entity 类型只在渲染时报错。
func New(opts ...Option) (*Exporter, error) {
	o := applyOptions(opts...)
	cfg := o.resolved()

	maps, err := cfg.normalize()
	engine := o.EngineImpl
	if engine == nil {
		var engineErr error
		if engine, engineErr = dom.EngineByName(cfg.Engine); engineErr != nil {
			err = multierr.Append(err, engineErr)
		}
	}
	if err != nil {
		return nil, err
	}

	var domOpts []dom.Option
	if o.RawHTMLPolicy != nil {
		domOpts = append(domOpts, dom.WithSanitizer(o.RawHTMLPolicy))
	}

	e := &Exporter{
		dom:        dom.New(engine, domOpts...),
		blocks:     maps.blocks,
		styles:     maps.styles,
		entities:   maps.entities,
		decorators: cfg.CompositeDecorators,
		unit:       o.OffsetUnit,
		logger:     o.Logger,
	}
	e.logger.Debug("exporter configured",
		zap.String("engine", engine.Name()),
		zap.Strings("blocks", maps.blocks.Types()),
		zap.Strings("styles", maps.styles.Types()),
		zap.Strings("entities", maps.entities.Types()),
		zap.Int("decorators", len(e.decorators)),
		zap.Stringer("offset_unit", e.unit),
	)
	return e, nil
}

// DOM returns the DOM used by the exporter.
func (e *Exporter) DOM() *dom.DOM {
	return e.dom
}

// Render 渲染 content 并返回 HTML；出错时不返回任何部分输出
func (e *Exporter) Render(content ContentState) (string, error) {
	node, err := e.RenderNode(content)
	if err != nil {
		return "", err
	}
	return e.dom.Render(node), nil
}

// RenderDebug renders content keeping engine markers such as <fragment>.
func (e *Exporter) RenderDebug(content ContentState) (string, error) {
	node, err := e.RenderNode(content)
	if err != nil {
		return "", err
	}
	return e.dom.RenderDebug(node), nil
}

// RenderJSON decodes a raw Draft.js content state and renders it.
func (e *Exporter) RenderJSON(data []byte) (string, error) {
	content, err := types.ParseContentState(data)
	if err != nil {
		return "", fmt.Errorf("decode content state: %w", err)
	}
	return e.Render(content)
}

// RenderNode 渲染 content 并返回文档节点（一个 fragment）
func (e *Exporter) RenderNode(content ContentState) (dom.Node, error) {
	r := &renderer{
		Exporter:  e,
		blocks:    content.Blocks,
		entityMap: content.EntityMap,
		wrappers:  state.NewWrapperState(e.dom, e.blocks, content.Blocks),
	}
	e.logger.Debug("rendering content state",
		zap.Int("blocks", len(content.Blocks)),
		zap.Int("entities", len(content.EntityMap)),
	)
	return r.document()
}

// renderer 持有单次渲染的状态
type renderer struct {
	*Exporter
	blocks    []types.Block
	entityMap types.EntityMap
	wrappers  *state.WrapperState
}

// document 依次渲染每个 block 并挂载到文档
//
// 深度为 0 或没有 wrapper 的 block 把返回的父节点挂到文档上；更深的 block
// 挂载当前最外层的 wrapper。同一个节点重复挂载不会产生副本。
func (r *renderer) document() (dom.Node, error) {
	doc := r.dom.Fragment()
	maxDepth := 0
	for i := range r.blocks {
		block := &r.blocks[i]
		if !r.Exporter.blocks.Has(block.BlockType()) {
			r.logger.Debug("block type uses fallback", zap.Int("block", i), zap.String("type", block.BlockType()))
		}

		content, err := r.block(block)
		if err != nil {
			return nil, fmt.Errorf("block %d (%s): %w", i, block.BlockType(), err)
		}
		parent, err := r.wrappers.ElementFor(block, content)
		if err != nil {
			return nil, fmt.Errorf("block %d (%s): %w", i, block.BlockType(), err)
		}

		if block.Depth > maxDepth {
			maxDepth = block.Depth
		}
		if block.Depth <= 0 || r.wrappers.Len() == 0 {
			r.dom.AppendChild(doc, parent)
		} else {
			r.dom.AppendChild(doc, r.wrappers.Root())
		}
	}

	if maxDepth > 0 && r.wrappers.Len() > 0 {
		r.dom.AppendChild(doc, r.wrappers.Root())
	}
	return doc, nil
}

// block 渲染一个 block 的内容（不含 block 元素本身）
func (r *renderer) block(block *types.Block) (dom.Node, error) {
	if len(block.InlineStyleRanges) == 0 && len(block.EntityRanges) == 0 {
		return r.decorate(block.Text, block), nil
	}
	r.checkRanges(block)

	entities := state.NewEntityState(r.dom, r.entities, r.entityMap)
	styles := state.NewStyleState(r.dom, r.styles)
	content := r.dom.Fragment()

	for _, group := range command.Groups(block, r.unit) {
		for _, c := range group.Commands {
			if err := entities.Apply(c); err != nil {
				return nil, err
			}
			styles.Apply(c)
		}

		// 实体内部不应用装饰器
		var decorated dom.Node = group.Text
		if !entities.HasEntity() {
			decorated = r.decorate(group.Text, block)
		}

		styled, err := styles.Render(decorated, block, r.blocks)
		if err != nil {
			return nil, err
		}
		entityNode, err := entities.Render(styled, block, r.blocks)
		if err != nil {
			return nil, err
		}
		if entityNode == nil {
			continue
		}
		r.dom.AppendChild(content, entityNode)
		// 实体刚闭合时，当前 slice 不属于该实体，需要单独挂载
		if styled != entityNode && !entities.HasEntity() {
			r.dom.AppendChild(content, styled)
		}
	}
	return content, nil
}

func (r *renderer) decorate(text string, block *types.Block) dom.Node {
	if !decorator.ShouldRender(r.decorators, text) {
		return text
	}
	return decorator.Render(r.dom, r.decorators, text, block, r.blocks)
}

// checkRanges logs ranges reaching outside the block text. They are clamped.
func (r *renderer) checkRanges(block *types.Block) {
	length := util.Len(block.Text, r.unit)
	outside := func(offset, n int) bool {
		return offset < 0 || n < 0 || offset+n > length
	}
	for _, rng := range block.InlineStyleRanges {
		if outside(rng.Offset, rng.Length) {
			r.logger.Warn("inline style range outside block text",
				zap.String("block", block.Key),
				zap.String("style", rng.Style),
				zap.Int("offset", rng.Offset),
				zap.Int("length", rng.Length),
				zap.Int("text_length", length),
			)
		}
	}
	for _, rng := range block.EntityRanges {
		if outside(rng.Offset, rng.Length) {
			r.logger.Warn("entity range outside block text",
				zap.String("block", block.Key),
				zap.String("entity", string(rng.Key)),
				zap.Int("offset", rng.Offset),
				zap.Int("length", rng.Length),
				zap.Int("text_length", length),
			)
		}
	}
}
