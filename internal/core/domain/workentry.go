package domain

import "time"

// WorkEntry is a single externally reported work log for one project.
// Entries are consumed as opaque, already-verified input; this system never
// inspects the tracker's own semantics.
type WorkEntry struct {
	Name          string
	TotalSeconds  int64
	Heartbeats    int
	FirstActivity time.Time
	LastActivity  time.Time
}

// Eligible reports whether the entry falls inside the program window and
// shows proof of real activity. A zero-heartbeat entry is never credited.
func (e *WorkEntry) Eligible(beginDate time.Time) bool {
	return !e.LastActivity.Before(beginDate) && e.Heartbeats > 0
}
