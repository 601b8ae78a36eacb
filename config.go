package draftexport

import (
	"strconv"
	"sync"

	"go.uber.org/multierr"

	"github.com/riverfjs/draftexport/dom"
	"github.com/riverfjs/draftexport/internal/options"
)

// Block types.
const (
	BlockUnstyled          = "unstyled"
	BlockHeaderOne         = "header-one"
	BlockHeaderTwo         = "header-two"
	BlockHeaderThree       = "header-three"
	BlockHeaderFour        = "header-four"
	BlockHeaderFive        = "header-five"
	BlockHeaderSix         = "header-six"
	BlockUnorderedListItem = "unordered-list-item"
	BlockOrderedListItem   = "ordered-list-item"
	BlockBlockquote        = "blockquote"
	BlockCodeBlock         = "code-block"
	BlockAtomic            = "atomic"
	// BlockFallback 是 block map 的 fallback 键
	BlockFallback = "fallback"
)

// Inline styles.
const (
	StyleBold          = "BOLD"
	StyleCode          = "CODE"
	StyleItalic        = "ITALIC"
	StyleUnderline     = "UNDERLINE"
	StyleStrikethrough = "STRIKETHROUGH"
	StyleSuperscript   = "SUPERSCRIPT"
	StyleSubscript     = "SUBSCRIPT"
	StyleMark          = "MARK"
	StyleQuotation     = "QUOTATION"
	StyleSmall         = "SMALL"
	StyleSample        = "SAMPLE"
	StyleInsert        = "INSERT"
	StyleDelete        = "DELETE"
	StyleKeyboard      = "KEYBOARD"
	// StyleFallback 是 style map 的 fallback 键
	StyleFallback = "FALLBACK"
)

// Entity types.
const (
	EntityLink           = "LINK"
	EntityImage          = "IMAGE"
	EntityHorizontalRule = "HORIZONTAL_RULE"
	EntityEmbed          = "EMBED"
	EntityDocument       = "DOCUMENT"
	// EntityFallback 是 entity decorators 的 fallback 键
	EntityFallback = "FALLBACK"
)

// Config 描述每种 block、样式和实体如何渲染
//
// map 的值可以是标签名、dom.Tag、dom.Component、组件函数、Descriptor，
// 或者带 element / props / wrapper / wrapper_props 键的 map。
type Config struct {
	BlockMap            map[string]any
	StyleMap            map[string]any
	EntityDecorators    map[string]any
	CompositeDecorators []Decorator
	// Engine 是内置引擎的名称，空字符串表示 string
	Engine string
}

var (
	defaultConfig     *Config
	defaultConfigOnce sync.Once
)

// DefaultConfig returns a fresh copy of the default configuration.
func DefaultConfig() *Config {
	defaultConfigOnce.Do(func() {
		defaultConfig = &Config{
			BlockMap:         DefaultBlockMap(),
			StyleMap:         DefaultStyleMap(),
			EntityDecorators: map[string]any{},
			Engine:           dom.EngineString,
		}
	})
	return defaultConfig.Clone()
}

// DefaultBlockMap returns the default block map. It has no fallback.
func DefaultBlockMap() map[string]any {
	return map[string]any{
		BlockUnstyled:          "p",
		BlockHeaderOne:         "h1",
		BlockHeaderTwo:         "h2",
		BlockHeaderThree:       "h3",
		BlockHeaderFour:        "h4",
		BlockHeaderFive:        "h5",
		BlockHeaderSix:         "h6",
		BlockUnorderedListItem: Descriptor{Element: dom.Tag("li"), Wrapper: "ul"},
		BlockOrderedListItem:   Descriptor{Element: dom.Tag("li"), Wrapper: "ol"},
		BlockBlockquote:        "blockquote",
		BlockCodeBlock:         "pre",
		BlockAtomic:            dom.Component(dom.RenderChildren),
	}
}

// DefaultStyleMap returns the default style map.
func DefaultStyleMap() map[string]any {
	return map[string]any{
		StyleBold:          "strong",
		StyleCode:          "code",
		StyleItalic:        "em",
		StyleUnderline:     "u",
		StyleStrikethrough: "s",
		StyleSuperscript:   "sup",
		StyleSubscript:     "sub",
		StyleMark:          "mark",
		StyleQuotation:     "q",
		StyleSmall:         "small",
		StyleSample:        "samp",
		StyleInsert:        "ins",
		StyleDelete:        "del",
		StyleKeyboard:      "kbd",
	}
}

// Merge returns a new map with overrides applied on top of base.
//
//	blockMap := draftexport.Merge(draftexport.DefaultBlockMap(), map[string]any{
//	    draftexport.BlockFallback: "div",
//	})
func Merge(base, overrides map[string]any) map[string]any {
	out := make(map[string]any, len(base)+len(overrides))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range overrides {
		out[k] = v
	}
	return out
}

// Clone returns a copy of c; the maps are copied, their values shared.
func (c *Config) Clone() *Config {
	if c == nil {
		return DefaultConfig()
	}
	return &Config{
		BlockMap:            Merge(c.BlockMap, nil),
		StyleMap:            Merge(c.StyleMap, nil),
		EntityDecorators:    Merge(c.EntityDecorators, nil),
		CompositeDecorators: append([]Decorator(nil), c.CompositeDecorators...),
		Engine:              c.Engine,
	}
}

// Validate 检查配置是否能被 Exporter 使用，所有问题合并返回
func (c *Config) Validate() error {
	_, err := c.normalize()
	if c.Engine != "" {
		if _, engineErr := dom.EngineByName(c.Engine); engineErr != nil {
			err = multierr.Append(err, engineErr)
		}
	}
	for i, d := range c.CompositeDecorators {
		if d.Pattern == nil || d.Component == nil {
			err = multierr.Append(err, &ConfigError{
				Kind:   "decorator",
				Type:   strconv.Itoa(i),
				Reason: "needs a pattern and a component",
			})
		}
	}
	return err
}

// ValidateFallbacks reports every map without a fallback key. Types missing
// from such a map fail at render time.
func (c *Config) ValidateFallbacks() error {
	maps, err := c.normalize()
	if err != nil {
		return err
	}
	return multierr.Combine(maps.blocks.Validate(), maps.styles.Validate(), maps.entities.Validate())
}

type normalizedMaps struct {
	blocks   options.Map
	styles   options.Map
	entities options.Map
}

func (c *Config) normalize() (normalizedMaps, error) {
	var (
		maps normalizedMaps
		errs error
		err  error
	)
	maps.blocks, err = options.Normalize(options.KindBlock, c.BlockMap)
	errs = multierr.Append(errs, err)
	maps.styles, err = options.Normalize(options.KindStyle, c.StyleMap)
	errs = multierr.Append(errs, err)
	maps.entities, err = options.Normalize(options.KindEntity, c.EntityDecorators)
	errs = multierr.Append(errs, err)
	return maps, errs
}
