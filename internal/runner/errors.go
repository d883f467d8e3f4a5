package runner

import (
	"errors"
	"fmt"
)

// ErrEmptyMessage rejects a blank user message before any state changes.
var ErrEmptyMessage = errors.New("runner: empty message")

// PersistError reports that a turn completed but its memory could not be
// saved after one retry.
type PersistError struct {
	TurnID string
	Err    error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("persist memory for turn %s: %v", e.TurnID, e.Err)
}

func (e *PersistError) Unwrap() error { return e.Err }

// FailureReply is the text shown when the model call fails.
func FailureReply(err error) string {
	return fmt.Sprintf("Error: %v. Please check your API key.", err)
}
