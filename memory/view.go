package memory

// CoreMemory is the typed view of core_memory.
type CoreMemory struct {
	UserName         string   `json:"user_name" jsonschema_description:"What the user wants to be called."`
	Relationship     string   `json:"relationship" jsonschema_description:"How the agent relates to the user."`
	PersonalityNotes string   `json:"personality_notes" jsonschema_description:"Free-form notes on the user's personality."`
	ImportantFacts   []string `json:"important_facts" jsonschema_description:"Facts worth remembering; grows by appending."`
}

// View is a typed, read-only projection of the well-known document fields.
// Unknown keys added by directives are not represented.
type View struct {
	CoreMemory          CoreMemory     `json:"core_memory"`
	ConversationSummary string         `json:"conversation_summary" jsonschema_description:"Summary of past conversations, overwritten wholesale."`
	RecentTopics        []string       `json:"recent_topics" jsonschema_description:"Topics discussed recently, oldest first."`
	UserPreferences     map[string]any `json:"user_preferences" jsonschema_description:"Open mapping of preference name to text or boolean."`
	InteractionCount    int64          `json:"interaction_count" jsonschema_description:"Number of chat turns so far."`
	LastInteraction     string         `json:"last_interaction,omitempty" jsonschema:"format=date-time" jsonschema_description:"RFC 3339 time of the latest turn; absent before the first."`
}

// View projects the document. Fields holding an unexpected kind are read
// as their string rendering or left empty.
func (d *Document) View() View {
	var v View
	core, _ := d.root.Get(KeyCoreMemory)
	v.CoreMemory.UserName = textOf(core, KeyUserName)
	v.CoreMemory.Relationship = textOf(core, KeyRelationship)
	v.CoreMemory.PersonalityNotes = textOf(core, KeyPersonalityNotes)
	v.CoreMemory.ImportantFacts = textsOf(core, KeyImportantFacts)

	v.ConversationSummary = textOf(d.root, KeyConversationSummary)
	v.RecentTopics = textsOf(d.root, KeyRecentTopics)
	if prefs, ok := d.root.Get(KeyUserPreferences); ok && prefs.Kind() == KindMap {
		v.UserPreferences = prefs.Interface().(map[string]any)
	}
	v.InteractionCount = d.InteractionCount()
	v.LastInteraction = textOf(d.root, KeyLastInteraction)
	return v
}

func textOf(parent *Value, key string) string {
	v, ok := parent.Get(key)
	if !ok {
		return ""
	}
	return v.String()
}

func textsOf(parent *Value, key string) []string {
	v, ok := parent.Get(key)
	if !ok {
		return nil
	}
	if v.Kind() != KindList {
		if v.IsNull() {
			return nil
		}
		return []string{v.String()}
	}
	out := make([]string, 0, v.Len())
	for _, it := range v.Items() {
		out = append(out, it.String())
	}
	return out
}
