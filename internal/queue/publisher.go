package queue

import (
	"context"
	"log"
	"time"
)

// ChangePublisher returns a roster change listener that forwards the event
// ID to q. Publish failures are logged and dropped.
func ChangePublisher(q Queue) func(eventID int64) {
	return func(eventID int64) {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := q.Publish(ctx, ChangeMessage(eventID)); err != nil {
			log.Printf("queue publish for event %d failed: %v", eventID, err)
		}
	}
}
