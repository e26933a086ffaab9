package in_memory

import (
	"context"
	"sync"
	"time"

	"github.com/iamvkosarev/campus-assistant/internal/model"
)

// RateLimitStorage keeps per-key fixed-window counters in process memory.
// Expired entries are reset on their next hit and never swept.
type RateLimitStorage struct {
	mu      sync.Mutex
	entries map[string]*model.RateLimitEntry
}

func NewRateLimitStorage() *RateLimitStorage {
	return &RateLimitStorage{
		entries: make(map[string]*model.RateLimitEntry),
	}
}

func (r *RateLimitStorage) Hit(_ context.Context, key string, now time.Time, window time.Duration) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.entries[key]
	if !ok {
		entry = &model.RateLimitEntry{}
		r.entries[key] = entry
	}
	return entry.Hit(now, window), nil
}

func (r *RateLimitStorage) Entry(key string) (model.RateLimitEntry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.entries[key]
	if !ok {
		return model.RateLimitEntry{}, false
	}
	return *entry, true
}
