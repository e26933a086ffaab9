package model

import "time"

type RateLimitEntry struct {
	Count         int64
	WindowResetAt time.Time
}

// Hit counts one request at now. An expired window is reset lazily and the
// next one ends at now+window.
func (e *RateLimitEntry) Hit(now time.Time, window time.Duration) int64 {
	if e.WindowResetAt.IsZero() || now.After(e.WindowResetAt) {
		e.Count = 0
		e.WindowResetAt = now.Add(window)
	}
	e.Count++
	return e.Count
}
