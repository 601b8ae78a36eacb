package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseContentState(t *testing.T) {
	raw := `{
		"blocks": [
			{"key":"a1","text":"hello","type":"header-two","depth":0,
			 "inlineStyleRanges":[{"offset":0,"length":5,"style":"BOLD"}],
			 "entityRanges":[{"offset":1,"length":2,"key":0}]},
			{"text":"x","entityRanges":[{"offset":0,"length":1,"key":"7"}]}
		],
		"entityMap": {"0":{"type":"LINK","mutability":"MUTABLE","data":{"url":"https://x.test"}}}
	}`

	cs, err := ParseContentState([]byte(raw))
	require.NoError(t, err)
	require.Len(t, cs.Blocks, 2)

	assert.Equal(t, "header-two", cs.Blocks[0].BlockType())
	assert.Equal(t, EntityKey("0"), cs.Blocks[0].EntityRanges[0].Key)
	assert.Equal(t, EntityKey("7"), cs.Blocks[1].EntityRanges[0].Key)
	assert.Equal(t, DefaultBlockType, cs.Blocks[1].BlockType())
	assert.Equal(t, "https://x.test", cs.EntityMap["0"].Data["url"])
}

func TestParseContentState_Empty(t *testing.T) {
	cs, err := ParseContentState([]byte(`{}`))
	require.NoError(t, err)
	assert.Empty(t, cs.Blocks)
	assert.Empty(t, cs.EntityMap)
}

func TestEntityKey_Invalid(t *testing.T) {
	var k EntityKey
	assert.Error(t, k.UnmarshalJSON([]byte(`{}`)))
}

func TestErrors_Messages(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"config", &ConfigError{Kind: "block", Type: "nope"}, `block "nope" is not in the config and has no fallback`},
		{"config reason", &ConfigError{Kind: "style", Type: "X", Reason: "does not define an element"}, `style "X": does not define an element`},
		{"mismatch", &EntityMismatchError{Expected: "1", Got: "2"}, `expected entity "1" to stop, got "2"`},
		{"mismatch empty", &EntityMismatchError{Got: "2"}, `entity "2" stopped but no entity is open`},
		{"lookup", &EntityLookupError{Key: "9"}, `entity "9" does not exist in the entityMap`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.EqualError(t, tt.err, tt.want)
		})
	}
}
