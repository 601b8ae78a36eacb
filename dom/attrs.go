package dom

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Attr is a serialized HTML attribute.
type Attr struct {
	Key string
	Val string
}

// structuralProps are never rendered as attributes of a raw tag.
var structuralProps = map[string]bool{
	"children":           true,
	"block":              true,
	"blocks":             true,
	"entity":             true,
	"entity_range":       true,
	"inline_style_range": true,
	"match":              true,
	"match_index":        true,
}

var voidElements = map[string]bool{
	"area":   true,
	"base":   true,
	"br":     true,
	"col":    true,
	"embed":  true,
	"hr":     true,
	"img":    true,
	"input":  true,
	"link":   true,
	"meta":   true,
	"param":  true,
	"source": true,
	"track":  true,
	"wbr":    true,
}

// IsVoid reports whether tag is a void element (rendered without children or closing tag).
func IsVoid(tag string) bool {
	return voidElements[tag]
}

// Attributes converts props into attributes for a raw tag.
//
// Structural props are dropped, nil values omitted, booleans become
// "true"/"false" and a style map becomes a CSS declaration string.
// Go maps are unordered, so attributes come out sorted by key.
func Attributes(props Props) []Attr {
	if len(props) == 0 {
		return nil
	}
	keys := make([]string, 0, len(props))
	for k := range props {
		if structuralProps[k] || props[k] == nil {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	attrs := make([]Attr, 0, len(keys))
	for _, k := range keys {
		var val string
		if k == "style" {
			val = styleValue(props[k])
		} else {
			val = attrValue(props[k])
		}
		attrs = append(attrs, Attr{Key: k, Val: val})
	}
	return attrs
}

func attrValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		if t {
			return "true"
		}
		return "false"
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}

func styleValue(v any) string {
	switch t := v.(type) {
	case map[string]any:
		m := make(map[string]string, len(t))
		for k, val := range t {
			if val == nil {
				continue
			}
			m[k] = attrValue(val)
		}
		return CSS(m)
	case map[string]string:
		return CSS(t)
	case Props:
		return styleValue(map[string]any(t))
	default:
		return attrValue(v)
	}
}

// CSS serializes style declarations as "prop: value;" pairs, sorted by
// property, converting camelCase names to kebab-case.
func CSS(rules map[string]string) string {
	keys := make([]string, 0, len(rules))
	for k := range rules {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&sb, "%s: %s;", CamelToDash(k), rules[k])
	}
	return sb.String()
}

var (
	firstCapRe = regexp.MustCompile(`(.)([A-Z][a-z]+)`)
	allCapRe   = regexp.MustCompile(`([a-z0-9])([A-Z])`)
)

// CamelToDash converts a camelCase CSS property name to kebab-case.
func CamelToDash(name string) string {
	s := firstCapRe.ReplaceAllString(name, "${1}-${2}")
	s = allCapRe.ReplaceAllString(s, "${1}-${2}")
	return strings.ReplaceAll(strings.ToLower(s), "--", "-")
}
