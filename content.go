package draftexport

import (
	"github.com/riverfjs/draftexport/internal/decorator"
	"github.com/riverfjs/draftexport/internal/options"
	"github.com/riverfjs/draftexport/internal/types"
	"github.com/riverfjs/draftexport/internal/util"
)

// 导出类型别名
type (
	ContentState     = types.ContentState
	Block            = types.Block
	InlineStyleRange = types.InlineStyleRange
	EntityRange      = types.EntityRange
	EntityKey        = types.EntityKey
	Entity           = types.Entity
	EntityMap        = types.EntityMap
	EntityContext    = types.EntityContext
	StyleContext     = types.StyleContext
	Descriptor       = options.Descriptor
	Decorator        = decorator.Decorator
	OffsetUnit       = util.Unit
)

const (
	// CodePoints counts offsets in Unicode code points.
	CodePoints = util.CodePoints
	// UTF16 counts offsets in UTF-16 code units, as Draft.js does in the browser.
	UTF16 = util.UTF16
)

// LineBreakPattern is the pattern of the line-break decorator.
const LineBreakPattern = decorator.LineBreakPattern

// ParseContentState decodes a raw Draft.js content state.
func ParseContentState(data []byte) (ContentState, error) {
	return types.ParseContentState(data)
}

// EntityKeyOf converts an integer entity key to its string form.
func EntityKeyOf(n int) EntityKey {
	return types.EntityKeyOf(n)
}

// LineBreak returns a decorator rendering every "\n" as <br/>.
func LineBreak() Decorator {
	return decorator.LineBreak()
}

// BR is the component of the line-break decorator.
var BR = decorator.BR
