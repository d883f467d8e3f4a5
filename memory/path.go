package memory

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidPath reports a dotted path that is empty or has an empty segment.
var ErrInvalidPath = errors.New("memory: invalid path")

// ParsePath splits a dotted path such as "core_memory.user_name" into its
// segments. Surrounding whitespace is trimmed from the whole path only.
func ParsePath(path string) ([]string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidPath)
	}
	segs := strings.Split(path, ".")
	for i, s := range segs {
		if s == "" {
			return nil, fmt.Errorf("%w: empty segment %d in %q", ErrInvalidPath, i, path)
		}
	}
	return segs, nil
}

// walk returns the mapping that owns the final segment of segs, creating
// intermediate mappings as needed. A non-mapping value found on the way is
// replaced by an empty mapping.
func walk(root *Value, segs []string) *Value {
	node := root
	for _, seg := range segs[:len(segs)-1] {
		next, ok := node.Get(seg)
		if !ok || next.Kind() != KindMap {
			next = Map()
			node.Set(seg, next)
		}
		node = next
	}
	return node
}

// lookup resolves segs without creating anything.
func lookup(root *Value, segs []string) (*Value, bool) {
	node := root
	for _, seg := range segs {
		next, ok := node.Get(seg)
		if !ok {
			return nil, false
		}
		node = next
	}
	return node, true
}
