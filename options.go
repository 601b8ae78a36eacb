package draftexport

import (
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"

	"github.com/riverfjs/draftexport/dom"
)

// ExportOptions holds options for creating an Exporter.
type ExportOptions struct {
	Config *Config

	// 非 nil 时覆盖 Config 中对应的字段
	BlockMap            map[string]any
	StyleMap            map[string]any
	EntityDecorators    map[string]any
	CompositeDecorators []Decorator
	Engine              string

	EngineImpl    dom.Engine
	OffsetUnit    OffsetUnit
	RawHTMLPolicy *bluemonday.Policy
	Logger        *zap.Logger
}

// Option is a function that configures ExportOptions.
type Option func(*ExportOptions)

// WithConfig sets the base configuration.
func WithConfig(config *Config) Option {
	return func(opts *ExportOptions) {
		opts.Config = config
	}
}

// WithBlockMap replaces the block map of the configuration.
func WithBlockMap(blockMap map[string]any) Option {
	return func(opts *ExportOptions) {
		opts.BlockMap = blockMap
	}
}

// WithStyleMap replaces the style map of the configuration.
func WithStyleMap(styleMap map[string]any) Option {
	return func(opts *ExportOptions) {
		opts.StyleMap = styleMap
	}
}

// WithEntityDecorators replaces the entity decorators of the configuration.
func WithEntityDecorators(decorators map[string]any) Option {
	return func(opts *ExportOptions) {
		opts.EntityDecorators = decorators
	}
}

// WithCompositeDecorators replaces the composite decorators of the configuration.
func WithCompositeDecorators(decorators ...Decorator) Option {
	return func(opts *ExportOptions) {
		opts.CompositeDecorators = append([]Decorator{}, decorators...)
	}
}

// WithEngine selects a built-in engine by name (string, string_compat, etree, html).
func WithEngine(name string) Option {
	return func(opts *ExportOptions) {
		opts.Engine = name
	}
}

// WithEngineImpl sets a custom engine, taking precedence over WithEngine.
func WithEngineImpl(engine dom.Engine) Option {
	return func(opts *ExportOptions) {
		opts.EngineImpl = engine
	}
}

// WithOffsetUnit sets how range offsets are counted.
func WithOffsetUnit(unit OffsetUnit) Option {
	return func(opts *ExportOptions) {
		opts.OffsetUnit = unit
	}
}

// WithRawHTMLPolicy sanitizes markup passed to DOM.ParseHTML by components.
func WithRawHTMLPolicy(policy *bluemonday.Policy) Option {
	return func(opts *ExportOptions) {
		opts.RawHTMLPolicy = policy
	}
}

// WithLogger sets the logger of the exporter.
func WithLogger(logger *zap.Logger) Option {
	return func(opts *ExportOptions) {
		opts.Logger = logger
	}
}

// defaultExportOptions returns the default options.
func defaultExportOptions() *ExportOptions {
	return &ExportOptions{
		OffsetUnit: CodePoints,
	}
}

// applyOptions applies the given options to the default options.
func applyOptions(opts ...Option) *ExportOptions {
	options := defaultExportOptions()
	for _, opt := range opts {
		opt(options)
	}
	if options.Config == nil {
		options.Config = DefaultConfig()
	}
	if options.Logger == nil {
		options.Logger = Logger
	}
	return options
}

// resolved merges the option overrides into a copy of the base config.
func (o *ExportOptions) resolved() *Config {
	cfg := o.Config.Clone()
	if o.BlockMap != nil {
		cfg.BlockMap = o.BlockMap
	}
	if o.StyleMap != nil {
		cfg.StyleMap = o.StyleMap
	}
	if o.EntityDecorators != nil {
		cfg.EntityDecorators = o.EntityDecorators
	}
	if o.CompositeDecorators != nil {
		cfg.CompositeDecorators = o.CompositeDecorators
	}
	if o.Engine != "" {
		cfg.Engine = o.Engine
	}
	return cfg
}
