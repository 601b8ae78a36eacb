package draftexport

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"regexp"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/riverfjs/draftexport/dom"
)

// ComponentRegistry 把 YAML 配置中的组件名映射到组件
//
// "render_children" 和 "br" 总是可用。
type ComponentRegistry map[string]dom.Component

func (r ComponentRegistry) lookup(name string) (dom.Component, bool) {
	if c, ok := r[name]; ok {
		return c, true
	}
	switch name {
	case "render_children":
		return dom.RenderChildren, true
	case "br":
		return BR, true
	}
	return nil, false
}

// fileConfig 是 YAML 配置文件的结构
//
//	engine: html
//	extend: true
//	block_map:
//	  unstyled: p
//	  unordered-list-item: {element: li, wrapper: ul, wrapper_props: {class: list}}
//	  atomic: {component: render_children}
//	entity_decorators:
//	  LINK: {component: link}
//	  FALLBACK: span
//	composite_decorators:
//	  - pattern: '\n'
//	    component: br
type fileConfig struct {
	Engine              string          `yaml:"engine"`
	Extend              *bool           `yaml:"extend"`
	BlockMap            map[string]any  `yaml:"block_map"`
	StyleMap            map[string]any  `yaml:"style_map"`
	EntityDecorators    map[string]any  `yaml:"entity_decorators"`
	CompositeDecorators []fileDecorator `yaml:"composite_decorators"`
}

type fileDecorator struct {
	Pattern   string `yaml:"pattern"`
	Component string `yaml:"component"`
	Element   string `yaml:"element"`
}

// LoadConfig reads a YAML configuration from r.
func LoadConfig(r io.Reader, components ComponentRegistry) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return ParseConfig(data, components)
}

// ParseConfig 解析 YAML 配置
//
// 默认在 DefaultConfig 之上合并（extend: true）；extend: false 时只使用文件中的内容。
// 组件通过 {component: name} 引用 components 中注册的组件。
func ParseConfig(data []byte, components ComponentRegistry) (*Config, error) {
	var fc fileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg := DefaultConfig()
	if fc.Extend != nil && !*fc.Extend {
		cfg = &Config{
			BlockMap:         map[string]any{},
			StyleMap:         map[string]any{},
			EntityDecorators: map[string]any{},
		}
	}
	if fc.Engine != "" {
		cfg.Engine = fc.Engine
	}

	var errs error
	resolveInto := func(dst map[string]any, src map[string]any) {
		for key, v := range src {
			resolved, err := resolveComponent(v, components)
			if err != nil {
				errs = multierr.Append(errs, fmt.Errorf("%s: %w", key, err))
				continue
			}
			dst[key] = resolved
		}
	}
	resolveInto(cfg.BlockMap, fc.BlockMap)
	resolveInto(cfg.StyleMap, fc.StyleMap)
	resolveInto(cfg.EntityDecorators, fc.EntityDecorators)

	for _, d := range fc.CompositeDecorators {
		decorator, err := d.decorator(components)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		cfg.CompositeDecorators = append(cfg.CompositeDecorators, decorator)
	}

	errs = multierr.Append(errs, cfg.Validate())
	if errs != nil {
		return nil, errs
	}
	return cfg, nil
}

// resolveComponent replaces {component: name} with the registered component.
func resolveComponent(v any, components ComponentRegistry) (any, error) {
	raw, ok := v.(map[string]any)
	if !ok {
		return v, nil
	}
	name, ok := raw["component"]
	if !ok {
		return raw, nil
	}
	s, _ := name.(string)
	comp, ok := components.lookup(s)
	if !ok {
		return nil, &ConfigError{Kind: "component", Type: fmt.Sprint(name), Reason: "is not registered"}
	}
	out := make(map[string]any, len(raw))
	for k, val := range raw {
		if k != "component" {
			out[k] = val
		}
	}
	out["element"] = comp
	return out, nil
}

func (d fileDecorator) decorator(components ComponentRegistry) (Decorator, error) {
	re, err := regexp.Compile(d.Pattern)
	if err != nil {
		return Decorator{}, &ConfigError{Kind: "decorator", Type: d.Pattern, Reason: err.Error()}
	}
	switch {
	case d.Component != "":
		comp, ok := components.lookup(d.Component)
		if !ok {
			return Decorator{}, &ConfigError{Kind: "component", Type: d.Component, Reason: "is not registered"}
		}
		return Decorator{Pattern: re, Component: comp}, nil
	case d.Element != "":
		return Decorator{Pattern: re, Component: dom.Tag(d.Element)}, nil
	default:
		return Decorator{}, &ConfigError{Kind: "decorator", Type: d.Pattern, Reason: "needs a component or an element"}
	}
}
