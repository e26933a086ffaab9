package usecase

import (
	"context"
	"log"
	"time"

	"github.com/iamvkosarev/campus-assistant/config"
)

type RateLimitStorage interface {
	Hit(ctx context.Context, key string, now time.Time, window time.Duration) (int64, error)
}

type RateLimiter interface {
	Allow(ctx context.Context, key string) bool
}

type RateLimitUsecaseDeps struct {
	Storage RateLimitStorage
	Clock   func() time.Time
}

// RateLimitUsecase is an advisory fixed-window limiter: every call counts,
// including rejected ones, and the limit-th call in a window is the last allowed.
type RateLimitUsecase struct {
	RateLimitUsecaseDeps
	cfg config.RateLimit
}

func NewRateLimitUsecase(deps RateLimitUsecaseDeps, cfg config.RateLimit) *RateLimitUsecase {
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	return &RateLimitUsecase{
		RateLimitUsecaseDeps: deps,
		cfg:                  cfg,
	}
}

func (r *RateLimitUsecase) Allow(ctx context.Context, key string) bool {
	count, err := r.Storage.Hit(ctx, key, r.Clock(), r.cfg.Window)
	if err != nil {
		log.Printf("failed to check rate limit for %s, allowing request: %v", key, err)
		return true
	}
	return count <= r.cfg.Limit
}
