package memory

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Well-known top-level keys of the memory document.
const (
	KeyCoreMemory          = "core_memory"
	KeyConversationSummary = "conversation_summary"
	KeyRecentTopics        = "recent_topics"
	KeyUserPreferences     = "user_preferences"
	KeyInteractionCount    = "interaction_count"
	KeyLastInteraction     = "last_interaction"

	KeyUserName         = "user_name"
	KeyRelationship     = "relationship"
	KeyPersonalityNotes = "personality_notes"
	KeyImportantFacts   = "important_facts"
)

const (
	DefaultUserName     = "Unknown"
	DefaultRelationship = "New acquaintance"
)

// Document is the agent's persistent memory: a mapping at the root whose
// well-known fields are described by View. Directives may add arbitrary
// further keys. A Document is not safe for concurrent use.
type Document struct {
	root *Value
}

// NewDocument returns the default memory state.
func NewDocument() *Document {
	core := Map()
	core.Set(KeyUserName, Text(DefaultUserName))
	core.Set(KeyRelationship, Text(DefaultRelationship))
	core.Set(KeyPersonalityNotes, Text(""))
	core.Set(KeyImportantFacts, List())

	root := Map()
	root.Set(KeyCoreMemory, core)
	root.Set(KeyConversationSummary, Text(""))
	root.Set(KeyRecentTopics, List())
	root.Set(KeyUserPreferences, Map())
	root.Set(KeyInteractionCount, Int(0))
	root.Set(KeyLastInteraction, Null())
	return &Document{root: root}
}

// Root exposes the underlying tree. Callers must not retain it across turns.
func (d *Document) Root() *Value { return d.root }

// Lookup resolves a dotted path without modifying the document.
func (d *Document) Lookup(path string) (*Value, error) {
	segs, err := ParsePath(path)
	if err != nil {
		return nil, err
	}
	v, ok := lookup(d.root, segs)
	if !ok {
		return nil, fmt.Errorf("memory: %q: %w", path, ErrNotFound)
	}
	return v, nil
}

// Set replaces the value at path, creating intermediate mappings.
func (d *Document) Set(path string, v *Value) error {
	segs, err := ParsePath(path)
	if err != nil {
		return err
	}
	walk(d.root, segs).Set(segs[len(segs)-1], v)
	return nil
}

// Append adds v to the sequence at path. A missing or non-sequence target
// becomes a new sequence holding only v.
func (d *Document) Append(path string, v *Value) error {
	segs, err := ParsePath(path)
	if err != nil {
		return err
	}
	parent := walk(d.root, segs)
	leaf := segs[len(segs)-1]
	cur, ok := parent.Get(leaf)
	if !ok || cur.Kind() != KindList {
		parent.Set(leaf, List(v))
		return nil
	}
	cur.Append(v)
	return nil
}

// Apply coerces one directive and writes it. Paths rooted at
// interaction_count or last_interaction are rejected with ErrInvalidPath;
// only RecordInteraction writes those.
func (d *Document) Apply(dir Directive) error {
	segs, err := ParsePath(dir.Path)
	if err != nil {
		return err
	}
	if turnOwned(segs[0]) {
		return fmt.Errorf("%w: %s is updated once per turn", ErrInvalidPath, segs[0])
	}
	c := Coerce(dir.Raw)
	switch c.Op {
	case OpAppend:
		return d.Append(dir.Path, c.Value)
	default:
		return d.Set(dir.Path, c.Value)
	}
}

func turnOwned(key string) bool {
	return key == KeyInteractionCount || key == KeyLastInteraction
}

// DirectiveError pairs a rejected directive with the reason.
type DirectiveError struct {
	Directive Directive
	Err       error
}

func (e *DirectiveError) Error() string {
	return fmt.Sprintf("directive %q: %v", e.Directive.Path, e.Err)
}

func (e *DirectiveError) Unwrap() error { return e.Err }

// ApplyReport summarizes one ApplyAll call.
type ApplyReport struct {
	Applied int               `json:"applied"`
	Errors  []*DirectiveError `json:"-"`
}

// Rejected returns the number of directives that were skipped.
func (r ApplyReport) Rejected() int { return len(r.Errors) }

// ApplyAll applies directives in order. A rejected directive is recorded
// and skipped; the rest still apply.
func (d *Document) ApplyAll(dirs []Directive) ApplyReport {
	var rep ApplyReport
	for _, dir := range dirs {
		if err := d.Apply(dir); err != nil {
			rep.Errors = append(rep.Errors, &DirectiveError{Directive: dir, Err: err})
			continue
		}
		rep.Applied++
	}
	return rep
}

// InteractionCount returns interaction_count, or 0 when it is missing or
// not an integer.
func (d *Document) InteractionCount() int64 {
	v, _ := d.root.Get(KeyInteractionCount)
	n, _ := v.Int()
	return n
}

// RecordInteraction increments interaction_count and stamps
// last_interaction with now.
func (d *Document) RecordInteraction(now time.Time) {
	d.root.Set(KeyInteractionCount, Int(d.InteractionCount()+1))
	d.root.Set(KeyLastInteraction, Text(now.Format(time.RFC3339)))
}

func (d *Document) Clone() *Document { return &Document{root: d.root.Clone()} }

func (d *Document) Equal(o *Document) bool {
	if d == nil || o == nil {
		return d == o
	}
	return d.root.Equal(o.root)
}

func (d *Document) MarshalJSON() ([]byte, error) { return d.root.MarshalJSON() }

func (d *Document) UnmarshalJSON(data []byte) error {
	v := &Value{}
	if err := v.UnmarshalJSON(data); err != nil {
		return err
	}
	if v.Kind() != KindMap {
		return fmt.Errorf("memory: document root is %s, want map", v.Kind())
	}
	d.root = v
	return nil
}

func (d *Document) MarshalYAML() (any, error) { return d.root.MarshalYAML() }

// MarshalIndent renders the document the way stores persist it.
func (d *Document) MarshalIndent() ([]byte, error) {
	b, err := d.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, b, "", "  "); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}
