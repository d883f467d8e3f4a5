package telemetry

import (
	"context"

	"github.com/petasbytes/memagent/internal/metrics"
)

// EmitLocalFeatures records size features of the user message and the
// directive counts of the reply. Raw text is never written.
func EmitLocalFeatures(ctx context.Context, user string, dirs metrics.DirectiveFeatures) {
	if !(CalibrationModeEnabled() && ObserveEnabled()) {
		return
	}
	turnID, _ := TurnIDFromContext(ctx)
	f := metrics.CountText(user)
	Emit("local_features", map[string]any{
		"turn_id":          turnID,
		"features_version": "2",
		"user": map[string]any{
			"bytes": f.Bytes,
			"runes": f.Runes,
			"words": f.Words,
			"lines": f.Lines,
		},
		"directives": map[string]any{
			"extracted":      dirs.Extracted,
			"applied":        dirs.Applied,
			"rejected":       dirs.Rejected,
			"appends":        dirs.Appends,
			"replaces":       dirs.Replaces,
			"stripped_bytes": dirs.StrippedBytes,
		},
	})
}
