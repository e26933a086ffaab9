package widget

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"github.com/iamvkosarev/campus-assistant/internal/model"
)

type snapshot struct {
	IsOpen    bool            `json:"isOpen"`
	Messages  []model.Message `json:"messages"`
	SessionID string          `json:"sessionId"`
}

// persistLocked writes the snapshot. Storage failures only cost persistence.
func (w *Widget) persistLocked(ctx context.Context) {
	data, err := json.Marshal(
		snapshot{
			IsOpen:    w.state.IsOpen,
			Messages:  w.state.Messages,
			SessionID: w.state.SessionID,
		},
	)
	if err != nil {
		log.Printf("failed to marshal widget state: %v", err)
		return
	}
	if err := w.Storage.Set(ctx, w.cfg.StateKey, string(data)); err != nil {
		log.Printf("failed to save widget state: %v", err)
	}
}

// loadSnapshot never fails: a missing or unreadable snapshot yields a fresh
// session with an empty history.
func (w *Widget) loadSnapshot(ctx context.Context) model.ConversationState {
	fresh := model.ConversationState{
		Messages:  []model.Message{},
		SessionID: model.NewSessionID(w.Clock()),
	}

	raw, err := w.Storage.Get(ctx, w.cfg.StateKey)
	if err != nil {
		if !errors.Is(err, model.ErrSessionValueNotFound) {
			log.Printf("failed to load widget state: %v", err)
		}
		return fresh
	}

	var saved snapshot
	if err := json.Unmarshal([]byte(raw), &saved); err != nil {
		log.Printf("failed to unmarshal widget state: %v", err)
		return fresh
	}

	state := model.ConversationState{
		IsOpen:    saved.IsOpen,
		Messages:  []model.Message{},
		SessionID: saved.SessionID,
	}
	for _, msg := range saved.Messages {
		state.AppendMessage(msg, w.cfg.MaxMessages)
	}
	if state.SessionID == "" {
		state.SessionID = fresh.SessionID
	}
	return state
}
