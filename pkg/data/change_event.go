package data

import "time"

// ChangeEvent is one append-only log entry per recorded message. The expiry
// sweep consumes it exactly once to reverse the rolling-window contribution.
type ChangeEvent struct {
	ID         int64
	WordCounts []WordCount
	UserID     int64
	ChatID     int64
	OccurredAt time.Time
}
