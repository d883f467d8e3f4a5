package memory

import "strings"

// Op is the write operation a directive value asks for.
type Op uint8

const (
	// OpReplace overwrites the leaf at the target path.
	OpReplace Op = iota
	// OpAppend adds one element to the sequence at the target path.
	OpAppend
)

func (o Op) String() string {
	if o == OpAppend {
		return "append"
	}
	return "replace"
}

// Coerced is a directive value after type coercion.
type Coerced struct {
	Op    Op
	Value *Value
}

// Coerce interprets a raw directive value:
//
//	true / false (any case)  -> boolean, replace
//	[inner]                  -> text "inner", append
//	anything else            -> text verbatim, replace
//
// The raw value is trimmed first. Numbers stay text.
func Coerce(raw string) Coerced {
	raw = strings.TrimSpace(raw)
	switch {
	case strings.EqualFold(raw, "true"):
		return Coerced{Op: OpReplace, Value: Bool(true)}
	case strings.EqualFold(raw, "false"):
		return Coerced{Op: OpReplace, Value: Bool(false)}
	case len(raw) >= 2 && raw[0] == '[' && raw[len(raw)-1] == ']':
		return Coerced{Op: OpAppend, Value: Text(raw[1 : len(raw)-1])}
	default:
		return Coerced{Op: OpReplace, Value: Text(raw)}
	}
}
