package model

import (
	"testing"
	"time"
)

func TestRateLimitEntry_Hit(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	window := time.Minute
	var entry RateLimitEntry

	if got := entry.Hit(start, window); got != 1 {
		t.Fatalf("first hit = %d, want 1", got)
	}
	if !entry.WindowResetAt.Equal(start.Add(window)) {
		t.Fatalf("WindowResetAt = %v, want %v", entry.WindowResetAt, start.Add(window))
	}
	if got := entry.Hit(start.Add(window), window); got != 2 {
		t.Errorf("hit at reset time = %d, want 2", got)
	}
	if got := entry.Hit(start.Add(window+time.Millisecond), window); got != 1 {
		t.Errorf("hit after reset time = %d, want 1", got)
	}
}
