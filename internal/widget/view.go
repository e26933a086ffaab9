package widget

import (
	"github.com/iamvkosarev/campus-assistant/config"
	"github.com/iamvkosarev/campus-assistant/internal/model"
)

const (
	WelcomeTitle = "Welcome to Wiley Assistant!"
	WelcomeText  = "I can help you with questions about Business & Finance services, forms, policies, and more."

	avatarAssistant = "W"
	avatarUser      = "Y"
)

type MessageView struct {
	Role    model.Role
	Avatar  string
	Content string
	HTML    string
}

// View is everything a front end needs to draw the widget.
type View struct {
	PanelOpen    bool
	BadgeVisible bool
	Focus        Focus
	Welcome      bool
	Messages     []MessageView
	Notices      []Notice
	Typing       bool
	QuickPrompts []config.QuickPrompt
	Announcement string
	SessionID    string
}

func (w *Widget) View() View {
	w.mu.Lock()
	defer w.mu.Unlock()

	view := View{
		PanelOpen:    w.state.IsOpen,
		BadgeVisible: w.badgeVisible,
		Focus:        w.focus,
		Welcome:      len(w.state.Messages) == 0,
		Messages:     make([]MessageView, 0, len(w.state.Messages)),
		Notices:      append([]Notice(nil), w.notices...),
		Typing:       w.state.IsLoading,
		Announcement: w.announcement,
		SessionID:    w.state.SessionID,
	}
	if w.quickPromptsVisible {
		view.QuickPrompts = append([]config.QuickPrompt(nil), w.cfg.QuickPrompts...)
	}
	for _, msg := range w.state.Messages {
		avatar := avatarAssistant
		if msg.Role == model.RoleUser {
			avatar = avatarUser
		}
		view.Messages = append(
			view.Messages, MessageView{
				Role:    msg.Role,
				Avatar:  avatar,
				Content: msg.Content,
				HTML:    FormatMessage(msg.Content),
			},
		)
	}
	return view
}
