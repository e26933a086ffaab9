package widget

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/iamvkosarev/campus-assistant/config"
	"github.com/iamvkosarev/campus-assistant/internal/model"
)

const (
	MessageSendFailedFormat = "Sorry, I encountered an error. Please try again or contact the Business & Finance office directly at %s."
	AnnouncementCleared     = "Conversation cleared"
)

var (
	ErrEmptyMessage    = errors.New("message is empty")
	ErrRequestInFlight = errors.New("request already in flight")
)

type Focus int8

const (
	FocusNone = Focus(iota)
	FocusInput
	FocusLauncher
)

type Transport interface {
	Send(ctx context.Context, req model.ChatRequest) (model.ChatResponse, error)
}

type SessionStorage interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

// Notice is an inline error shown beneath the message at index AfterMessage-1.
type Notice struct {
	Text         string
	AfterMessage int
}

type WidgetDeps struct {
	Storage   SessionStorage
	Transport Transport
	Clock     func() time.Time
}

// Widget is the chat panel of one browsing session. Every transition
// persists the conversation snapshot.
type Widget struct {
	WidgetDeps
	cfg          config.Widget
	contactPhone string

	mu                  sync.Mutex
	state               model.ConversationState
	quickPromptsVisible bool
	badgeVisible        bool
	focus               Focus
	notices             []Notice
	announcement        string
}

func New(deps WidgetDeps, cfg config.Widget, contactPhone string) *Widget {
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	if len(cfg.QuickPrompts) == 0 {
		cfg.QuickPrompts = config.DefaultQuickPrompts()
	}
	return &Widget{
		WidgetDeps:   deps,
		cfg:          cfg,
		contactPhone: contactPhone,
		state: model.ConversationState{
			Messages:  []model.Message{},
			SessionID: model.NewSessionID(deps.Clock()),
		},
		quickPromptsVisible: true,
	}
}

// Restore loads the persisted snapshot and rebuilds the panel from it.
func (w *Widget) Restore(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.state = w.loadSnapshot(ctx)
	w.notices = nil
	w.announcement = ""
	w.quickPromptsVisible = !w.state.HasUserMessage()
	if w.state.IsOpen {
		w.openLocked(ctx)
		return
	}
	w.badgeVisible = len(w.state.Messages) == 0
}

func (w *Widget) Open(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.announcement = ""
	w.openLocked(ctx)
}

func (w *Widget) Close(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.announcement = ""
	w.closeLocked(ctx)
}

// Toggle is the launcher activation.
func (w *Widget) Toggle(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.announcement = ""
	if w.state.IsOpen {
		w.closeLocked(ctx)
		return
	}
	w.openLocked(ctx)
}

// Cancel handles the cancel key. A closed panel ignores it.
func (w *Widget) Cancel(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.state.IsOpen {
		return
	}
	w.announcement = ""
	w.closeLocked(ctx)
}

// DismissOutside handles an activation outside the widget. Narrow viewports
// keep the panel open.
func (w *Widget) DismissOutside(ctx context.Context, viewportWidth int) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.state.IsOpen || viewportWidth <= w.narrowViewportWidth() {
		return
	}
	w.announcement = ""
	w.closeLocked(ctx)
}

func (w *Widget) CanSend(input string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	return strings.TrimSpace(input) != "" && !w.state.IsLoading
}

// BeginSend records the user message and marks the widget as loading.
// The returned request carries the most recent messages for context.
func (w *Widget) BeginSend(ctx context.Context, text string, page *model.PageContext) (model.ChatRequest, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return model.ChatRequest{}, ErrEmptyMessage
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state.IsLoading {
		return model.ChatRequest{}, ErrRequestInFlight
	}
	w.announcement = ""
	w.appendLocked(model.NewMessage(model.RoleUser, text, w.Clock()))
	w.quickPromptsVisible = false
	w.state.IsLoading = true
	w.persistLocked(ctx)

	return model.ChatRequest{
		Messages:    w.state.LastMessages(w.cfg.OutboundMessages),
		CurrentPage: page,
		SessionID:   w.state.SessionID,
	}, nil
}

func (w *Widget) Receive(ctx context.Context, resp model.ChatResponse) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.state.IsLoading = false
	if resp.SessionID != "" {
		w.state.SessionID = resp.SessionID
	}
	w.appendLocked(model.NewMessage(model.RoleAssistant, resp.Response, w.Clock()))
	w.persistLocked(ctx)
}

// Fail ends a send with a static notice. The user message stays in history.
func (w *Widget) Fail(ctx context.Context, err error) {
	log.Printf("failed to get chat response: %v", err)

	w.mu.Lock()
	defer w.mu.Unlock()

	w.state.IsLoading = false
	w.notices = append(
		w.notices, Notice{
			Text:         fmt.Sprintf(MessageSendFailedFormat, w.contactPhone),
			AfterMessage: len(w.state.Messages),
		},
	)
	w.persistLocked(ctx)
}

func (w *Widget) Send(ctx context.Context, text string, page *model.PageContext) error {
	req, err := w.BeginSend(ctx, text, page)
	if err != nil {
		return err
	}
	resp, err := w.Transport.Send(ctx, req)
	if err != nil {
		w.Fail(ctx, err)
		return fmt.Errorf("failed to send message: %w", err)
	}
	w.Receive(ctx, resp)
	return nil
}

// Clear starts a new conversation with a fresh session id.
func (w *Widget) Clear(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.state.Messages = []model.Message{}
	w.state.SessionID = model.NewSessionID(w.Clock())
	w.notices = nil
	w.quickPromptsVisible = true
	w.announcement = AnnouncementCleared
	w.persistLocked(ctx)
}

func (w *Widget) State() model.ConversationState {
	w.mu.Lock()
	defer w.mu.Unlock()

	state := w.state
	state.Messages = w.state.LastMessages(-1)
	return state
}

func (w *Widget) openLocked(ctx context.Context) {
	w.state.IsOpen = true
	w.badgeVisible = false
	w.focus = FocusInput
	w.persistLocked(ctx)
}

func (w *Widget) closeLocked(ctx context.Context) {
	w.state.IsOpen = false
	w.focus = FocusLauncher
	w.persistLocked(ctx)
}

func (w *Widget) appendLocked(msg model.Message) {
	dropped := w.state.AppendMessage(msg, w.cfg.MaxMessages)
	if dropped == 0 {
		return
	}
	notices := w.notices[:0]
	for _, notice := range w.notices {
		notice.AfterMessage -= dropped
		if notice.AfterMessage > 0 {
			notices = append(notices, notice)
		}
	}
	w.notices = notices
}

func (w *Widget) narrowViewportWidth() int {
	if w.cfg.NarrowViewportWidth > 0 {
		return w.cfg.NarrowViewportWidth
	}
	return 480
}
