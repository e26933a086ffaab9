package model

import (
	"strings"
	"testing"
	"time"
)

func TestNewSessionID(t *testing.T) {
	now := time.UnixMilli(1760000000000)
	first := NewSessionID(now)
	second := NewSessionID(now)

	if !strings.HasPrefix(first, "session_1760000000000_") {
		t.Errorf("session id = %s, want session_1760000000000_ prefix", first)
	}
	if len(first) != len("session_1760000000000_")+9 {
		t.Errorf("session id = %s has unexpected length", first)
	}
	if first == second {
		t.Error("session ids must differ")
	}
}
