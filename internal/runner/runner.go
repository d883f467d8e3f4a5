package runner

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/petasbytes/memagent/internal/logging"
	"github.com/petasbytes/memagent/internal/metrics"
	"github.com/petasbytes/memagent/internal/provider"
	"github.com/petasbytes/memagent/internal/telemetry"
	"github.com/petasbytes/memagent/memory"
)

// Turn is the outcome of one Chat call.
type Turn struct {
	ID         string
	Reply      string
	Failed     bool
	Directives []memory.Directive
	Report     memory.ApplyReport
	// Snapshot is a deep copy of memory after the turn.
	Snapshot *memory.Document
}

// Runner owns the memory document and serializes turns against it.
type Runner struct {
	model  provider.Model
	store  memory.Store
	logger *log.Logger
	now    func() time.Time

	mu  sync.Mutex
	doc *memory.Document
}

type Option func(*Runner)

func WithLogger(l *log.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithClock replaces time.Now for last_interaction stamps.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) {
		if now != nil {
			r.now = now
		}
	}
}

// New loads memory from store, persisting defaults when none exist.
func New(ctx context.Context, model provider.Model, store memory.Store, opts ...Option) (*Runner, error) {
	r := &Runner{
		model:  model,
		store:  store,
		logger: logging.Discard(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	doc, err := memory.Load(ctx, store)
	if err != nil {
		return nil, err
	}
	r.doc = doc
	r.logger.Debug("memory loaded", "interactions", doc.InteractionCount())
	return r, nil
}

// Chat runs one turn. A model failure is reported in the reply text with
// Turn.Failed set, not as an error. A *PersistError is returned together
// with the turn when memory could not be saved.
func (r *Runner) Chat(ctx context.Context, message string) (*Turn, error) {
	if strings.TrimSpace(message) == "" {
		return nil, ErrEmptyMessage
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	ctx, turnID := telemetry.EnsureTurnID(ctx)
	logger := r.logger.With("turn", turnID)

	r.doc.RecordInteraction(r.now())
	telemetry.Emit("turn_started", map[string]any{
		"turn_id":           turnID,
		"model":             r.model.Name(),
		"interaction_count": r.doc.InteractionCount(),
	})

	system := SystemPrompt(r.doc.View())

	start := time.Now()
	raw, err := r.model.Complete(ctx, system, message)
	elapsed := time.Since(start)

	turn := &Turn{ID: turnID}
	modelEvent := map[string]any{
		"turn_id":     turnID,
		"model":       r.model.Name(),
		"duration_ms": elapsed.Milliseconds(),
		"error":       nil,
	}
	if err != nil {
		modelEvent["error"] = "model error"
		telemetry.Emit("model_call", modelEvent)
		logger.Error("model call failed", "error", err)

		turn.Failed = true
		turn.Reply = FailureReply(err)
		telemetry.EmitLocalFeatures(ctx, message, metrics.DirectiveFeatures{})
	} else {
		telemetry.Emit("model_call", modelEvent)

		clean, dirs := memory.Extract(raw)
		rep := r.doc.ApplyAll(dirs)
		for _, de := range rep.Errors {
			logger.Warn("directive rejected", "path", de.Directive.Path, "error", de.Err)
		}
		turn.Reply = clean
		turn.Directives = dirs
		turn.Report = rep

		f := metrics.CountDirectives(raw, clean, dirs, rep)
		telemetry.Emit("directives_applied", map[string]any{
			"turn_id":   turnID,
			"extracted": f.Extracted,
			"applied":   f.Applied,
			"rejected":  f.Rejected,
		})
		telemetry.EmitLocalFeatures(ctx, message, f)
		logger.Debug("turn complete", "directives", len(dirs), "applied", rep.Applied)
	}

	turn.Snapshot = r.doc.Clone()
	if err := r.persist(ctx, turnID, logger); err != nil {
		return turn, err
	}
	return turn, nil
}

// persist saves the document, retrying once.
func (r *Runner) persist(ctx context.Context, turnID string, logger *log.Logger) error {
	var err error
	for attempt := 1; attempt <= 2; attempt++ {
		if err = r.store.Save(ctx, r.doc); err == nil {
			telemetry.Emit("persist", map[string]any{
				"turn_id":  turnID,
				"attempts": attempt,
				"error":    nil,
			})
			return nil
		}
		logger.Warn("persist failed", "attempt", attempt, "error", err)
	}
	telemetry.Emit("persist", map[string]any{
		"turn_id":  turnID,
		"attempts": 2,
		"error":    "persist error",
	})
	return &PersistError{TurnID: turnID, Err: err}
}

// Memory returns a deep copy of the current document.
func (r *Runner) Memory() *memory.Document {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.doc.Clone()
}

// Reset deletes persisted memory and starts over from defaults.
func (r *Runner) Reset(ctx context.Context) (*memory.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, err := memory.Reset(ctx, r.store)
	if err != nil {
		return nil, fmt.Errorf("reset: %w", err)
	}
	r.doc = doc
	r.logger.Info("memory reset")
	return doc.Clone(), nil
}

// IsPersistError reports whether err carries a *PersistError.
func IsPersistError(err error) bool {
	var pe *PersistError
	return errors.As(err, &pe)
}
