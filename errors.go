package draftexport

import "github.com/riverfjs/draftexport/internal/types"

// 错误类型别名，使用 errors.As 匹配
type (
	// ConfigError: a type has no descriptor and no fallback, or a config value is invalid.
	ConfigError = types.ConfigError
	// EntityMismatchError: entity ranges are not properly nested.
	EntityMismatchError = types.EntityMismatchError
	// EntityLookupError: an entity range references a key missing from the entityMap.
	EntityLookupError = types.EntityLookupError
)
