package rewriter

import (
	"errors"
	"log/slog"
	"time"

	"github.com/alorle/hls-sorter/metrics"
	"github.com/alorle/hls-sorter/playlist"
)

// Rewriter parses a master playlist, sorts its sections and serializes it.
type Rewriter struct {
	plan   Plan
	logger *slog.Logger
}

// New creates a Rewriter that applies plan by default.
func New(plan Plan, logger *slog.Logger) *Rewriter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Rewriter{plan: plan, logger: logger}
}

// Plan returns the default plan.
func (r *Rewriter) Plan() Plan {
	return r.plan
}

// Rewrite applies the default plan to content.
func (r *Rewriter) Rewrite(content []byte) ([]byte, error) {
	return r.RewriteWith(content, r.plan)
}

// RewriteWith applies plan to content. Each call parses its own Master.
func (r *Rewriter) RewriteWith(content []byte, plan Plan) ([]byte, error) {
	start := time.Now()

	m, err := playlist.Parse(string(content))
	if err != nil {
		metrics.RecordRewrite("parse_error", time.Since(start))
		return nil, err
	}
	for _, kind := range playlist.Kinds() {
		metrics.ObserveSectionRecords(kind.String(), m.Len(kind))
	}

	if err := m.Apply(plan); err != nil {
		metrics.RecordRewrite("sort_error", time.Since(start))
		return nil, err
	}

	out := m.Serialize()
	metrics.RecordRewrite("ok", time.Since(start))
	r.logger.Debug("rewrote master playlist",
		"streams", m.Len(playlist.StreamSection),
		"audio", m.Len(playlist.AudioSection),
		"iframes", m.Len(playlist.IFrameSection),
		"plan", plan.String(),
		"duration", time.Since(start),
	)
	return []byte(out), nil
}

// IsInputError reports whether err was caused by the playlist content
// rather than by the plan.
func IsInputError(err error) bool {
	return errors.Is(err, playlist.ErrMissingHeader) ||
		errors.Is(err, playlist.ErrNoVariants) ||
		errors.Is(err, playlist.ErrMalformedAttribute) ||
		errors.Is(err, playlist.ErrMissingURI)
}

// IsPlanError reports whether err was caused by an invalid sort plan.
func IsPlanError(err error) bool {
	return errors.Is(err, playlist.ErrUnknownAttribute) ||
		errors.Is(err, playlist.ErrUnknownSection) ||
		errors.Is(err, playlist.ErrNoSortKeys)
}
