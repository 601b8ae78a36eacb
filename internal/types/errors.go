package types

import "fmt"

// ConfigError 表示某个类型既没有配置也没有 fallback
type ConfigError struct {
	Kind   string // "block", "style" or "entity"
	Type   string
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s %q: %s", e.Kind, e.Type, e.Reason)
	}
	return fmt.Sprintf("%s %q is not in the config and has no fallback", e.Kind, e.Type)
}

// EntityMismatchError is returned when a stop_entity command does not close
// the entity on top of the stack.
type EntityMismatchError struct {
	Expected EntityKey
	Got      EntityKey
}

func (e *EntityMismatchError) Error() string {
	if e.Expected == "" {
		return fmt.Sprintf("entity %q stopped but no entity is open", e.Got)
	}
	return fmt.Sprintf("expected entity %q to stop, got %q", e.Expected, e.Got)
}

// EntityLookupError is returned for an entity range whose key is absent from the entityMap.
type EntityLookupError struct {
	Key EntityKey
}

func (e *EntityLookupError) Error() string {
	return fmt.Sprintf("entity %q does not exist in the entityMap", e.Key)
}
