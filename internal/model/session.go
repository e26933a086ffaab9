package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewSessionID mints an opaque identifier for one browsing session.
func NewSessionID(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	return fmt.Sprintf("session_%d_%s", now.UnixMilli(), suffix)
}
