// Package memory holds the agent's persistent memory document and the
// directive protocol the model uses to edit it.
//
// A model reply may carry inline directives:
//
//	[MEMORY_UPDATE: core_memory.user_name=John]
//	[MEMORY_UPDATE: core_memory.important_facts=[Loves hiking]]
//
// Extract pulls them out of the reply text, Coerce types the value, and
// Document.ApplyAll writes them at their dotted paths. Stores persist the
// whole document after every turn.
package memory
