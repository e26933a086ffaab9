package key_value

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// hitScript increments the counter and starts the window on the first hit,
// so read-increment-expire is atomic per key.
var hitScript = redis.NewScript(
	`
local count = redis.call("INCR", KEYS[1])
if count == 1 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return count
`,
)

// RateLimitStorage shares fixed-window counters between relay instances.
type RateLimitStorage struct {
	rdb redis.Scripter
}

func NewRateLimitStorage(rdb redis.Scripter) *RateLimitStorage {
	return &RateLimitStorage{
		rdb: rdb,
	}
}

// Hit ignores now: the window is driven by the key expiry on the redis side.
func (r *RateLimitStorage) Hit(ctx context.Context, key string, _ time.Time, window time.Duration) (int64, error) {
	count, err := hitScript.Run(ctx, r.rdb, []string{getRateLimitKey(key)}, window.Milliseconds()).Int64()
	if err != nil {
		return 0, fmt.Errorf("failed to hit rate limit %s: %w", key, err)
	}
	return count, nil
}

func getRateLimitKey(key string) string {
	return fmt.Sprintf("rate_limit_%s", key)
}
