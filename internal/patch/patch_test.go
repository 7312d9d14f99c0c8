package patch

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestField_ZeroValueIsKeep(t *testing.T) {
	var f Field[string]

	assert.True(t, f.IsKeep())
	assert.False(t, f.IsClear())
	_, ok := f.Value()
	assert.False(t, ok)
}

func TestField_Constructors(t *testing.T) {
	assert.True(t, Keep[int]().IsKeep())
	assert.True(t, Clear[int]().IsClear())

	f := Set(42)
	value, ok := f.Value()
	assert.True(t, ok)
	assert.Equal(t, 42, value)
	assert.False(t, f.IsKeep())
	assert.False(t, f.IsClear())
}

func TestField_UnmarshalJSON(t *testing.T) {
	type payload struct {
		Label Field[string] `json:"label"`
	}

	t.Run("absent key stays Keep", func(t *testing.T) {
		var p payload
		require.NoError(t, json.Unmarshal([]byte(`{}`), &p))
		assert.True(t, p.Label.IsKeep())
	})

	t.Run("explicit null becomes Clear", func(t *testing.T) {
		var p payload
		require.NoError(t, json.Unmarshal([]byte(`{"label":null}`), &p))
		assert.True(t, p.Label.IsClear())
	})

	t.Run("value becomes Set", func(t *testing.T) {
		var p payload
		require.NoError(t, json.Unmarshal([]byte(`{"label":"bills"}`), &p))
		value, ok := p.Label.Value()
		assert.True(t, ok)
		assert.Equal(t, "bills", value)
	})

	t.Run("wrong type fails", func(t *testing.T) {
		var p payload
		assert.Error(t, json.Unmarshal([]byte(`{"label":7}`), &p))
	})
}
