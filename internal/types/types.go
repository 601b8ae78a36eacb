package types

import (
	"encoding/json"
	"strconv"
	"strings"
)

// DefaultBlockType 是未声明 type 的 block 使用的类型
const DefaultBlockType = "unstyled"

// InlineStyleRange 表示 block 文本上的一段内联样式
type InlineStyleRange struct {
	Offset int    `json:"offset" yaml:"offset"`
	Length int    `json:"length" yaml:"length"`
	Style  string `json:"style" yaml:"style"`
}

// EntityKey is the entityMap key referenced by an entity range.
// Raw content states use numbers or strings interchangeably, both decode to the string form.
type EntityKey string

// UnmarshalJSON accepts numeric and string keys.
func (k *EntityKey) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		*k = ""
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*k = EntityKey(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*k = EntityKey(n.String())
	return nil
}

// EntityKeyOf converts an integer key to its string form.
func EntityKeyOf(n int) EntityKey {
	return EntityKey(strconv.Itoa(n))
}

// EntityRange 表示 block 文本上的一段实体引用
type EntityRange struct {
	Offset int       `json:"offset" yaml:"offset"`
	Length int       `json:"length" yaml:"length"`
	Key    EntityKey `json:"key" yaml:"key"`
}

// Block 是文档中的一个文本块
type Block struct {
	Key               string             `json:"key,omitempty"`
	Text              string             `json:"text"`
	Type              string             `json:"type"`
	Depth             int                `json:"depth"`
	InlineStyleRanges []InlineStyleRange `json:"inlineStyleRanges"`
	EntityRanges      []EntityRange      `json:"entityRanges"`
	Data              map[string]any     `json:"data,omitempty"`
}

// BlockType returns the block type, falling back to "unstyled".
func (b *Block) BlockType() string {
	if b.Type == "" {
		return DefaultBlockType
	}
	return b.Type
}

// Entity 是 entityMap 中的一个实体
type Entity struct {
	Type       string         `json:"type"`
	Mutability string         `json:"mutability,omitempty"`
	Data       map[string]any `json:"data"`
}

// EntityMap maps entity keys to their details.
type EntityMap map[string]Entity

// ContentState 是导出器的输入：blocks + entityMap
type ContentState struct {
	Blocks    []Block   `json:"blocks"`
	EntityMap EntityMap `json:"entityMap"`
}

// ParseContentState decodes a raw Draft.js content state.
func ParseContentState(data []byte) (ContentState, error) {
	var cs ContentState
	if err := json.Unmarshal(data, &cs); err != nil {
		return ContentState{}, err
	}
	return cs, nil
}

// EntityContext is handed to entity components as props["entity"].
type EntityContext struct {
	Key        EntityKey
	Type       string
	Mutability string
	Data       map[string]any
	Block      *Block
	Blocks     []Block
}

// StyleContext is handed to style components as props["inline_style_range"].
type StyleContext struct {
	Style string
}
