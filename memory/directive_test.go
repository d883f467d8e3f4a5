package memory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/petasbytes/memagent/memory"
)

func TestExtract_TwoDirectivesWithProse(t *testing.T) {
	in := "Nice to meet you, John! [MEMORY_UPDATE: core_memory.user_name=John] " +
		"Hiking sounds fun. [MEMORY_UPDATE: core_memory.important_facts=[Loves hiking]]\n"

	clean, dirs := memory.Extract(in)

	assert.Equal(t, "Nice to meet you, John!  Hiking sounds fun.", clean)
	assert.Equal(t, []memory.Directive{
		{Path: "core_memory.user_name", Raw: "John"},
		{Path: "core_memory.important_facts", Raw: "[Loves hiking]"},
	}, dirs)
}

func TestExtract_NoDirectives(t *testing.T) {
	clean, dirs := memory.Extract("  just talking  \n")
	assert.Equal(t, "just talking", clean)
	assert.Empty(t, dirs)
}

func TestExtract_MalformedPassThrough(t *testing.T) {
	cases := []string{
		"[MEMORY_UPDATE: core_memory.user_name John]",
		"[MEMORY_UPDATE: core_memory.user_name=John",
		"[memory_update: core_memory.user_name=John]",
		"[MEMORY_UPDATE core_memory.user_name=John]",
	}
	for _, in := range cases {
		t.Run(in, func(t *testing.T) {
			clean, dirs := memory.Extract(in)
			assert.Equal(t, in, clean)
			assert.Empty(t, dirs)
		})
	}
}

func TestExtract_WhitespaceAroundPartsIsTrimmed(t *testing.T) {
	clean, dirs := memory.Extract("[MEMORY_UPDATE:   user_preferences.color =  blue ]ok")
	assert.Equal(t, "ok", clean)
	assert.Equal(t, []memory.Directive{{Path: "user_preferences.color", Raw: "blue"}}, dirs)
}

func TestExtract_ValueStopsAtFirstBracket(t *testing.T) {
	_, dirs := memory.Extract("[MEMORY_UPDATE: a=x]y]")
	assert.Equal(t, []memory.Directive{{Path: "a", Raw: "x"}}, dirs)
}

func TestExtract_AdjacentDirectives(t *testing.T) {
	clean, dirs := memory.Extract("[MEMORY_UPDATE: a=1][MEMORY_UPDATE: b=2]")
	assert.Equal(t, "", clean)
	assert.Len(t, dirs, 2)
	assert.Equal(t, "a", dirs[0].Path)
	assert.Equal(t, "b", dirs[1].Path)
}
