package dom

import (
	"sort"

	"github.com/riverfjs/draftexport/internal/types"
)

// Engine names accepted by EngineByName.
const (
	EngineString       = "string"
	EngineStringCompat = "string_compat"
	EngineEtree        = "etree"
	EngineHTML         = "html"
)

// Engine builds and serializes nodes of one concrete tree representation.
//
// Engines must be stateless: one engine value is shared by every render of an exporter.
type Engine interface {
	// Name returns the engine name.
	Name() string
	// CreateTag creates an element with the given attributes.
	CreateTag(tag string, attrs []Attr) Node
	// Fragment creates a container that renders only its children.
	Fragment() Node
	// Text creates a text node.
	Text(text string) Node
	// RawHTML creates a node rendering markup verbatim.
	RawHTML(markup string) Node
	// AppendChild appends child to parent; empty text and duplicate references are ignored.
	AppendChild(parent Node, child Node)
	// Render serializes node.
	Render(node Node) string
	// RenderDebug serializes node keeping fragment markers.
	RenderDebug(node Node) string
}

var engines = map[string]func() Engine{
	EngineString:       func() Engine { return NewStringEngine() },
	EngineStringCompat: func() Engine { return NewStringCompatEngine() },
	EngineEtree:        func() Engine { return NewEtreeEngine() },
	EngineHTML:         func() Engine { return NewHTMLEngine() },
}

// EngineByName returns a new engine for name. An empty name selects the string engine.
func EngineByName(name string) (Engine, error) {
	if name == "" {
		name = EngineString
	}
	factory, ok := engines[name]
	if !ok {
		return nil, &types.ConfigError{Kind: "engine", Type: name, Reason: "unknown engine"}
	}
	return factory(), nil
}

// EngineNames lists the built-in engine names.
func EngineNames() []string {
	names := make([]string, 0, len(engines))
	for name := range engines {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
