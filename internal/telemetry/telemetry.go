// Package telemetry appends structured turn events to a JSONL file. Events
// carry counts, durations and ids only, never message or reply text.
package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// EventsFile is the file name events are appended to inside ArtifactsDir.
const EventsFile = "events.jsonl"

var (
	mu     sync.Mutex
	logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "telemetry"})
)

// SetLogger replaces the logger used to report failed writes. A nil logger
// is ignored.
func SetLogger(l *log.Logger) {
	if l == nil {
		return
	}
	mu.Lock()
	logger = l
	mu.Unlock()
}

// Emit appends one event when observation is enabled. The fields map is
// not modified; "event" and "time" are added to the written record.
// Failures are logged and otherwise ignored.
func Emit(name string, fields map[string]any) {
	if !ObserveEnabled() {
		return
	}
	line, err := encode(name, fields, time.Now())
	if err != nil {
		warn("encode event", "event", name, "error", err)
		return
	}
	path := filepath.Join(ArtifactsDir(), EventsFile)
	if err := appendLine(path, line); err != nil {
		warn("write event", "event", name, "path", path, "error", err)
	}
}

func encode(name string, fields map[string]any, at time.Time) ([]byte, error) {
	rec := make(map[string]any, len(fields)+2)
	for k, v := range fields {
		rec[k] = v
	}
	rec["event"] = name
	rec["time"] = at.UTC().Format(time.RFC3339Nano)
	b, err := json.Marshal(rec)
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}

func appendLine(path string, line []byte) error {
	mu.Lock()
	defer mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.Write(line); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func warn(msg string, kv ...any) {
	mu.Lock()
	l := logger
	mu.Unlock()
	l.Warn(msg, kv...)
}
