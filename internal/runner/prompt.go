package runner

import (
	"fmt"
	"strings"

	"github.com/petasbytes/memagent/memory"
)

// recentTopicsShown caps how many recent topics reach the prompt.
const recentTopicsShown = 5

const memoryInstructions = `=== MEMORY INSTRUCTIONS ===
You have the ability to update your memory by including special commands in your response.
Use [MEMORY_UPDATE: key=value] to update memory. Examples:
- [MEMORY_UPDATE: core_memory.user_name=John]
- [MEMORY_UPDATE: core_memory.relationship=Close friend]
- [MEMORY_UPDATE: core_memory.important_facts=[Loves hiking]]
- [MEMORY_UPDATE: conversation_summary=Discussed travel plans and favorite destinations]

These commands will be hidden from the user. Update memory when you learn new information about the user.`

// MemoryContext renders the memory block of the system prompt.
func MemoryContext(v memory.View) string {
	var b strings.Builder
	b.WriteString("=== CURRENT MEMORY STATE ===\n")
	b.WriteString("Core Memory:\n")
	fmt.Fprintf(&b, "- User Name: %s\n", v.CoreMemory.UserName)
	fmt.Fprintf(&b, "- Relationship: %s\n", v.CoreMemory.Relationship)
	fmt.Fprintf(&b, "- Personality Notes: %s\n", v.CoreMemory.PersonalityNotes)
	fmt.Fprintf(&b, "- Important Facts: %s\n", joinOr(v.CoreMemory.ImportantFacts, "None yet"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "Conversation Summary: %s\n", orDefault(v.ConversationSummary, "No previous conversations"))

	topics := v.RecentTopics
	if len(topics) > recentTopicsShown {
		topics = topics[len(topics)-recentTopicsShown:]
	}
	fmt.Fprintf(&b, "Recent Topics: %s\n", joinOr(topics, "None"))
	fmt.Fprintf(&b, "Interaction Count: %d\n", v.InteractionCount)
	fmt.Fprintf(&b, "Last Interaction: %s\n", orDefault(v.LastInteraction, "First interaction"))
	b.WriteString("\n")
	b.WriteString(memoryInstructions)
	return b.String()
}

// SystemPrompt wraps MemoryContext with the agent persona.
func SystemPrompt(v memory.View) string {
	return "You are a friendly AI assistant with persistent memory across conversations.\n" +
		"You should remember information about the user and reference it naturally in conversation.\n" +
		"Be warm, helpful, and build a relationship over time.\n\n" +
		MemoryContext(v) + "\n\n" +
		"Remember to update your memory when you learn new things about the user!\n" +
		"The memory update commands will be automatically hidden from the user."
}

func joinOr(items []string, fallback string) string {
	if len(items) == 0 {
		return fallback
	}
	return strings.Join(items, ", ")
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
