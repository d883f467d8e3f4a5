package memory_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/petasbytes/memagent/memory"
)

func TestValue_YAMLKeepsOrder(t *testing.T) {
	doc := memory.NewDocument()
	require.NoError(t, doc.Apply(memory.Directive{Path: "core_memory.important_facts", Raw: "[Loves hiking]"}))

	out, err := yaml.Marshal(doc)
	require.NoError(t, err)
	want := `core_memory:
    user_name: Unknown
    relationship: New acquaintance
    personality_notes: ""
    important_facts:
        - Loves hiking
conversation_summary: ""
recent_topics: []
user_preferences: {}
interaction_count: 0
last_interaction: null
`
	assert.Equal(t, want, string(out))
}

func TestValue_StringRendering(t *testing.T) {
	assert.Equal(t, "a, b", memory.TextList("a", "b").String())
	assert.Equal(t, "true", memory.Bool(true).String())
	assert.Equal(t, "", memory.Null().String())
	assert.Equal(t, "7", memory.Int(7).String())

	m := memory.Map()
	m.Set("k", memory.Text("v"))
	assert.Equal(t, `{"k":"v"}`, m.String())
}

func TestValue_NilIsNull(t *testing.T) {
	var v *memory.Value
	assert.True(t, v.IsNull())
	assert.Equal(t, 0, v.Len())
	b, err := json.Marshal(struct {
		V *memory.Value `json:"v"`
	}{V: memory.Null()})
	require.NoError(t, err)
	assert.JSONEq(t, `{"v":null}`, string(b))
}

func TestValue_EqualIgnoresKeyOrder(t *testing.T) {
	a := memory.Map()
	a.Set("x", memory.Int(1))
	a.Set("y", memory.Int(2))
	b := memory.Map()
	b.Set("y", memory.Int(2))
	b.Set("x", memory.Int(1))
	assert.True(t, a.Equal(b))
	assert.Equal(t, []string{"x", "y"}, a.Keys())
}

func TestValue_SetOnNonMapPanics(t *testing.T) {
	assert.Panics(t, func() { memory.Text("x").Set("k", nil) })
	assert.Panics(t, func() { memory.Map().Append(nil) })
}
