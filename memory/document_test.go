package memory_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/petasbytes/memagent/memory"
)

func lookupText(t *testing.T, doc *memory.Document, path string) string {
	t.Helper()
	v, err := doc.Lookup(path)
	require.NoError(t, err)
	s, ok := v.Text()
	require.True(t, ok, "%s is %s, not text", path, v.Kind())
	return s
}

func TestNewDocument_Defaults(t *testing.T) {
	doc := memory.NewDocument()
	b, err := doc.MarshalJSON()
	require.NoError(t, err)

	js := string(b)
	assert.Equal(t, "Unknown", gjson.Get(js, "core_memory.user_name").String())
	assert.Equal(t, "New acquaintance", gjson.Get(js, "core_memory.relationship").String())
	assert.Equal(t, "", gjson.Get(js, "core_memory.personality_notes").String())
	assert.True(t, gjson.Get(js, "core_memory.important_facts").IsArray())
	assert.Equal(t, int64(0), gjson.Get(js, "interaction_count").Int())
	assert.Equal(t, gjson.Null, gjson.Get(js, "last_interaction").Type)
	assert.True(t, gjson.Get(js, "user_preferences").IsObject())

	keys := []string{}
	gjson.Parse(js).ForEach(func(k, _ gjson.Result) bool {
		keys = append(keys, k.String())
		return true
	})
	assert.Equal(t, []string{
		"core_memory", "conversation_summary", "recent_topics",
		"user_preferences", "interaction_count", "last_interaction",
	}, keys)
}

func TestApply_ReplaceAtPath(t *testing.T) {
	doc := memory.NewDocument()
	require.NoError(t, doc.Apply(memory.Directive{Path: "core_memory.user_name", Raw: "John"}))
	assert.Equal(t, "John", lookupText(t, doc, "core_memory.user_name"))
	assert.Equal(t, "New acquaintance", lookupText(t, doc, "core_memory.relationship"))
}

func TestApply_AppendImportantFacts(t *testing.T) {
	doc := memory.NewDocument()
	require.NoError(t, doc.Apply(memory.Directive{Path: "core_memory.important_facts", Raw: "[Loves hiking]"}))
	require.NoError(t, doc.Apply(memory.Directive{Path: "core_memory.important_facts", Raw: "[Loves hiking]"}))

	assert.Equal(t, []string{"Loves hiking", "Loves hiking"}, doc.View().CoreMemory.ImportantFacts)
}

func TestApply_BooleanCoercion(t *testing.T) {
	doc := memory.NewDocument()
	require.NoError(t, doc.Apply(memory.Directive{Path: "user_preferences.likes_coffee", Raw: "TRUE"}))

	v, err := doc.Lookup("user_preferences.likes_coffee")
	require.NoError(t, err)
	b, ok := v.Bool()
	require.True(t, ok)
	assert.True(t, b)
}

func TestApply_ReplaceIsIdempotent(t *testing.T) {
	once := memory.NewDocument()
	twice := memory.NewDocument()
	d := memory.Directive{Path: "conversation_summary", Raw: "Talked about travel"}

	require.NoError(t, once.Apply(d))
	require.NoError(t, twice.Apply(d))
	require.NoError(t, twice.Apply(d))

	assert.True(t, once.Equal(twice))
}

func TestApply_CreatesIntermediateMappings(t *testing.T) {
	doc := memory.NewDocument()
	require.NoError(t, doc.Apply(memory.Directive{Path: "pets.dog.name", Raw: "Rex"}))
	assert.Equal(t, "Rex", lookupText(t, doc, "pets.dog.name"))
}

func TestApply_IntermediateCollisionOverwrites(t *testing.T) {
	doc := memory.NewDocument()
	require.NoError(t, doc.Apply(memory.Directive{Path: "conversation_summary.topic", Raw: "books"}))

	v, err := doc.Lookup("conversation_summary")
	require.NoError(t, err)
	assert.Equal(t, memory.KindMap, v.Kind())
	assert.Equal(t, "books", lookupText(t, doc, "conversation_summary.topic"))
}

func TestApply_AppendReplacesNonList(t *testing.T) {
	doc := memory.NewDocument()
	require.NoError(t, doc.Apply(memory.Directive{Path: "core_memory.user_name", Raw: "[Johnny]"}))

	v, err := doc.Lookup("core_memory.user_name")
	require.NoError(t, err)
	require.Equal(t, memory.KindList, v.Kind())
	assert.Equal(t, "Johnny", v.String())
}

func TestApply_AppendCreatesMissingList(t *testing.T) {
	doc := memory.NewDocument()
	require.NoError(t, doc.Apply(memory.Directive{Path: "hobbies", Raw: "[chess]"}))
	v, err := doc.Lookup("hobbies")
	require.NoError(t, err)
	assert.Equal(t, 1, v.Len())
}

func TestApplyAll_SkipsInvalidPaths(t *testing.T) {
	doc := memory.NewDocument()
	rep := doc.ApplyAll([]memory.Directive{
		{Path: "core_memory..user_name", Raw: "X"},
		{Path: "  ", Raw: "Y"},
		{Path: "core_memory.user_name", Raw: "Ada"},
	})

	assert.Equal(t, 1, rep.Applied)
	require.Equal(t, 2, rep.Rejected())
	assert.True(t, errors.Is(rep.Errors[0], memory.ErrInvalidPath))
	assert.Equal(t, "Ada", lookupText(t, doc, "core_memory.user_name"))
}

func TestApplyAll_RejectsTurnOwnedKeys(t *testing.T) {
	doc := memory.NewDocument()
	doc.RecordInteraction(time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC))

	rep := doc.ApplyAll([]memory.Directive{
		{Path: "interaction_count", Raw: "3"},
		{Path: "interaction_count", Raw: "[x]"},
		{Path: " last_interaction ", Raw: "yesterday"},
		{Path: "interaction_count.total", Raw: "9"},
		{Path: "user_preferences.interaction_count", Raw: "fine"},
	})

	assert.Equal(t, 1, rep.Applied)
	require.Equal(t, 4, rep.Rejected())
	for _, de := range rep.Errors {
		assert.ErrorIs(t, de, memory.ErrInvalidPath)
	}
	assert.Equal(t, int64(1), doc.InteractionCount())
	assert.Equal(t, "2025-01-02T03:04:05Z", lookupText(t, doc, "last_interaction"))
	assert.Equal(t, "fine", lookupText(t, doc, "user_preferences.interaction_count"))
}

func TestApplyAll_LastWriteWins(t *testing.T) {
	doc := memory.NewDocument()
	rep := doc.ApplyAll([]memory.Directive{
		{Path: "core_memory.relationship", Raw: "Friend"},
		{Path: "core_memory.relationship", Raw: "Close friend"},
	})
	assert.Equal(t, 2, rep.Applied)
	assert.Equal(t, "Close friend", lookupText(t, doc, "core_memory.relationship"))
}

func TestNumbersStayText(t *testing.T) {
	doc := memory.NewDocument()
	require.NoError(t, doc.Apply(memory.Directive{Path: "user_preferences.age", Raw: "30"}))
	assert.Equal(t, "30", lookupText(t, doc, "user_preferences.age"))
}

func TestLookup_Missing(t *testing.T) {
	_, err := memory.NewDocument().Lookup("core_memory.nope")
	assert.ErrorIs(t, err, memory.ErrNotFound)
}

func TestRecordInteraction(t *testing.T) {
	doc := memory.NewDocument()
	now := time.Date(2025, 3, 1, 12, 30, 0, 0, time.UTC)

	doc.RecordInteraction(now)
	doc.RecordInteraction(now.Add(time.Minute))

	assert.Equal(t, int64(2), doc.InteractionCount())
	assert.Equal(t, "2025-03-01T12:31:00Z", doc.View().LastInteraction)
}

func TestClone_IsIndependent(t *testing.T) {
	doc := memory.NewDocument()
	snap := doc.Clone()
	require.NoError(t, doc.Apply(memory.Directive{Path: "core_memory.important_facts", Raw: "[x]"}))

	assert.Empty(t, snap.View().CoreMemory.ImportantFacts)
	assert.False(t, snap.Equal(doc))
}

func TestView_Projection(t *testing.T) {
	doc := memory.NewDocument()
	doc.ApplyAll([]memory.Directive{
		{Path: "recent_topics", Raw: "[a]"},
		{Path: "recent_topics", Raw: "[b]"},
		{Path: "user_preferences.tea", Raw: "false"},
		{Path: "user_preferences.color", Raw: "green"},
	})

	v := doc.View()
	assert.Equal(t, []string{"a", "b"}, v.RecentTopics)
	assert.Equal(t, map[string]any{"tea": false, "color": "green"}, v.UserPreferences)
	assert.Equal(t, "Unknown", v.CoreMemory.UserName)
	assert.Empty(t, v.LastInteraction)
}

func TestMarshalIndent_TwoSpaces(t *testing.T) {
	b, err := memory.NewDocument().MarshalIndent()
	require.NoError(t, err)
	assert.Contains(t, string(b), "\n  \"core_memory\": {\n    \"user_name\": \"Unknown\"")
}

func TestUnmarshal_RejectsNonObjectRoot(t *testing.T) {
	doc := &memory.Document{}
	assert.Error(t, doc.UnmarshalJSON([]byte(`[1,2]`)))
	assert.Error(t, doc.UnmarshalJSON([]byte(`{"a":1} {}`)))
}

func TestUnmarshal_PreservesUnknownKeysAndOrder(t *testing.T) {
	in := `{"zeta":{"b":1,"a":[true,null,"x"]},"alpha":2.5}`
	doc := &memory.Document{}
	require.NoError(t, doc.UnmarshalJSON([]byte(in)))

	out, err := doc.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, in, string(out))
}
