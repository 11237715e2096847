package session

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// DefaultEventDelay spaces out dispatches so a bulk run does not burst the
// ingestion boundary.
const DefaultEventDelay = 100 * time.Millisecond

// RunStats summarizes one bulk run.
type RunStats struct {
	TotalSessions    int               `json:"total_sessions"`
	TotalEvents      int               `json:"total_events"`
	SuccessfulEvents int               `json:"successful_events"`
	FailedEvents     int               `json:"failed_events"`
	Archetypes       map[Archetype]int `json:"archetypes"`
	Errors           []string          `json:"errors,omitempty"`
}

// Runner generates sessions and dispatches their events sequentially to the
// ingestion API. It is the only component in the simulation pipelines that
// performs I/O.
type Runner struct {
	sim        *Simulator
	client     *Client
	logger     *zap.Logger
	eventDelay time.Duration
}

// NewRunner creates a bulk session runner. eventDelay paces consecutive
// event dispatches; zero or a negative value disables pacing.
func NewRunner(sim *Simulator, client *Client, logger *zap.Logger, eventDelay time.Duration) *Runner {
	if eventDelay < 0 {
		eventDelay = 0
	}
	return &Runner{
		sim:        sim,
		client:     client,
		logger:     logger,
		eventDelay: eventDelay,
	}
}

// Run generates and dispatches count sessions drawn from the given archetype
// distribution (default weights when nil). Every dispatch failure is counted
// and recorded, never fatal. Cancellation is honored between sessions only,
// so a started session has all of its events attempted.
func (r *Runner) Run(ctx context.Context, count int, distribution map[Archetype]float64) (*RunStats, error) {
	stats := &RunStats{
		Archetypes: map[Archetype]int{
			ArchetypeBrowser:         0,
			ArchetypeResearcher:      0,
			ArchetypeHighIntentBuyer: 0,
		},
	}

	for i := 0; i < count; i++ {
		if err := ctx.Err(); err != nil {
			r.logger.Warn("run aborted between sessions",
				zap.Int("completed_sessions", stats.TotalSessions),
				zap.Error(err))
			return stats, err
		}

		archetype := r.sim.DrawArchetype(distribution)
		sess := r.sim.GenerateSession(archetype)

		stats.TotalSessions++
		stats.Archetypes[sess.Archetype]++
		stats.TotalEvents += len(sess.Events)

		r.dispatchSession(ctx, sess, stats)

		r.logger.Info("session dispatched",
			zap.String("session_id", sess.ID),
			zap.String("archetype", string(sess.Archetype)),
			zap.Int("events", len(sess.Events)))
	}

	return stats, nil
}

func (r *Runner) dispatchSession(ctx context.Context, sess *Session, stats *RunStats) {
	for i := range sess.Events {
		if err := r.client.TrackEvent(ctx, &sess.Events[i]); err != nil {
			stats.FailedEvents++
			stats.Errors = append(stats.Errors, err.Error())
			r.logger.Warn("event dispatch failed",
				zap.String("session_id", sess.ID),
				zap.Error(err))
		} else {
			stats.SuccessfulEvents++
		}

		if r.eventDelay > 0 {
			time.Sleep(r.eventDelay)
		}
	}
}
