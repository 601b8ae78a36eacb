// Package options resolves block, style and entity types to render descriptors.
package options

import (
	"fmt"
	"sort"

	"go.uber.org/multierr"

	"github.com/riverfjs/draftexport/dom"
	"github.com/riverfjs/draftexport/internal/types"
)

// Kind 是描述符所属的类别
type Kind string

const (
	KindBlock  Kind = "block"
	KindStyle  Kind = "style"
	KindEntity Kind = "entity"
)

// Fallback returns the fallback key of the category.
func (k Kind) Fallback() string {
	if k == KindBlock {
		return "fallback"
	}
	return "FALLBACK"
}

// Descriptor 描述某个类型如何渲染
type Descriptor struct {
	Type         string
	Element      dom.Element
	Props        dom.Props
	Wrapper      string
	WrapperProps dom.Props
}

// Map is a resolved type → descriptor mapping for one category.
type Map struct {
	kind  Kind
	items map[string]Descriptor
}

// New builds a Map from already-normalized descriptors.
func New(kind Kind, items map[string]Descriptor) Map {
	m := Map{kind: kind, items: make(map[string]Descriptor, len(items))}
	for k, d := range items {
		d.Type = k
		m.items[k] = d
	}
	return m
}

// Normalize coerces every raw value of a configuration map into a Descriptor.
//
// Accepted values: a tag name string, dom.Tag, dom.Component, a component
// func, Descriptor, *Descriptor and map[string]any with element / props /
// wrapper / wrapper_props keys.
func Normalize(kind Kind, raw map[string]any) (Map, error) {
	m := Map{kind: kind, items: make(map[string]Descriptor, len(raw))}
	var errs error
	for _, key := range sortedKeys(raw) {
		d, err := coerce(kind, key, raw[key])
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		m.items[key] = d
	}
	if errs != nil {
		return Map{}, errs
	}
	return m, nil
}

// Kind returns the map category.
func (m Map) Kind() Kind {
	return m.kind
}

// Len returns the number of configured types.
func (m Map) Len() int {
	return len(m.items)
}

// Has reports whether typ has its own descriptor.
func (m Map) Has(typ string) bool {
	_, ok := m.items[typ]
	return ok
}

// Get 返回 typ 的描述符；不存在时使用 fallback，两者都不存在时返回 ConfigError
func (m Map) Get(typ string) (Descriptor, error) {
	if d, ok := m.items[typ]; ok {
		return d, nil
	}
	d, ok := m.items[m.kind.Fallback()]
	if !ok {
		return Descriptor{}, &types.ConfigError{Kind: string(m.kind), Type: typ}
	}
	d.Type = typ
	return d, nil
}

// Validate reports a missing fallback key.
func (m Map) Validate() error {
	if m.Has(m.kind.Fallback()) {
		return nil
	}
	return &types.ConfigError{Kind: string(m.kind), Type: m.kind.Fallback(), Reason: "fallback is not configured"}
}

// Types returns the configured type names, sorted.
func (m Map) Types() []string {
	keys := make([]string, 0, len(m.items))
	for k := range m.items {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func coerce(kind Kind, key string, v any) (Descriptor, error) {
	switch t := v.(type) {
	case Descriptor:
		if t.Element == nil {
			return Descriptor{}, missingElement(kind, key)
		}
		t.Type = key
		return t, nil
	case *Descriptor:
		if t == nil || t.Element == nil {
			return Descriptor{}, missingElement(kind, key)
		}
		d := *t
		d.Type = key
		return d, nil
	case string:
		return Descriptor{Type: key, Element: dom.Tag(t)}, nil
	case dom.Tag:
		return Descriptor{Type: key, Element: t}, nil
	case dom.Component:
		return Descriptor{Type: key, Element: t}, nil
	case func(*dom.DOM, dom.Props) dom.Node:
		return Descriptor{Type: key, Element: dom.Component(t)}, nil
	case map[string]any:
		return fromMap(kind, key, t)
	case dom.Props:
		return fromMap(kind, key, t)
	default:
		return Descriptor{}, &types.ConfigError{Kind: string(kind), Type: key, Reason: fmt.Sprintf("unsupported descriptor %T", v)}
	}
}

func fromMap(kind Kind, key string, raw map[string]any) (Descriptor, error) {
	el, ok := raw["element"]
	if !ok || el == nil {
		return Descriptor{}, missingElement(kind, key)
	}
	d, err := coerce(kind, key, el)
	if err != nil {
		return Descriptor{}, err
	}
	if d.Props, err = toProps(kind, key, "props", raw["props"]); err != nil {
		return Descriptor{}, err
	}
	if w, ok := raw["wrapper"]; ok && w != nil {
		s, ok := w.(string)
		if !ok {
			if tag, isTag := w.(dom.Tag); isTag {
				s = string(tag)
			} else {
				return Descriptor{}, &types.ConfigError{Kind: string(kind), Type: key, Reason: "wrapper must be a tag name"}
			}
		}
		d.Wrapper = s
	}
	if d.WrapperProps, err = toProps(kind, key, "wrapper_props", raw["wrapper_props"]); err != nil {
		return Descriptor{}, err
	}
	return d, nil
}

func toProps(kind Kind, key, field string, v any) (dom.Props, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case dom.Props:
		return t, nil
	case map[string]any:
		return dom.Props(t), nil
	case map[string]string:
		p := make(dom.Props, len(t))
		for k, val := range t {
			p[k] = val
		}
		return p, nil
	default:
		return nil, &types.ConfigError{Kind: string(kind), Type: key, Reason: field + " must be a mapping"}
	}
}

func missingElement(kind Kind, key string) error {
	return &types.ConfigError{Kind: string(kind), Type: key, Reason: "does not define an element"}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
