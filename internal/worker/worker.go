// Package worker consumes roster change messages and refreshes the
// per-event attendance gauges.
package worker

import (
	"context"
	"log"

	"rollcall/internal/attendance"
	"rollcall/internal/metrics"
	"rollcall/internal/queue"
)

// StatsSource computes statistics for an event.
type StatsSource interface {
	Stats(ctx context.Context, eventID int64) (attendance.Stats, error)
}

// Run processes messages until the channel closes. Messages of other types
// and undecodable bodies are skipped.
func Run(ctx context.Context, msgs <-chan queue.Message, src StatsSource, rec *metrics.Recorder) {
	for msg := range msgs {
		eventID, err := queue.ParseChange(msg)
		if err != nil {
			log.Printf("skipping message %q: %v", msg.Type, err)
			continue
		}
		st, err := src.Stats(ctx, eventID)
		if err != nil {
			log.Printf("stats for event %d failed: %v", eventID, err)
			continue
		}
		rec.SetStats(eventID, st)
		log.Printf("event %d: %d attendees, %d present, %d late, %.1f%% present",
			eventID, st.Total, st.Present, st.Late, st.PercentPresent)
	}
}
