package model

import "time"

// TimestampLayout renders UTC times the way browsers print Date.toISOString.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

type Message struct {
	Role      Role   `json:"role"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp,omitempty"`
}

func NewMessage(role Role, content string, now time.Time) Message {
	return Message{
		Role:      role,
		Content:   content,
		Timestamp: now.UTC().Format(TimestampLayout),
	}
}

// ConversationState is the widget-owned state of one browsing session.
// IsLoading is never persisted.
type ConversationState struct {
	IsOpen    bool      `json:"isOpen"`
	IsLoading bool      `json:"-"`
	Messages  []Message `json:"messages"`
	SessionID string    `json:"sessionId"`
}

// AppendMessage appends msg and drops the oldest messages so that at most
// maxMessages remain. It returns the number of dropped messages.
func (s *ConversationState) AppendMessage(msg Message, maxMessages int) int {
	s.Messages = append(s.Messages, msg)
	if maxMessages <= 0 || len(s.Messages) <= maxMessages {
		return 0
	}
	dropped := len(s.Messages) - maxMessages
	trimmed := make([]Message, maxMessages)
	copy(trimmed, s.Messages[dropped:])
	s.Messages = trimmed
	return dropped
}

// LastMessages returns a copy of the n most recent messages.
func (s ConversationState) LastMessages(n int) []Message {
	start := 0
	if n >= 0 && len(s.Messages) > n {
		start = len(s.Messages) - n
	}
	last := make([]Message, len(s.Messages)-start)
	copy(last, s.Messages[start:])
	return last
}

func (s ConversationState) HasUserMessage() bool {
	for _, msg := range s.Messages {
		if msg.Role == RoleUser {
			return true
		}
	}
	return false
}
