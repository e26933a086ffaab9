package usecase

import (
	"errors"
	"strings"
	"testing"

	"github.com/iamvkosarev/campus-assistant/internal/model"
)

func TestValidateChatRequest_Rules(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		reason string
	}{
		{"not an object", `[1,2]`, ReasonInvalidBody},
		{"null body", `null`, ReasonInvalidBody},
		{"missing messages", `{"sessionId":"s"}`, ReasonMessagesRequired},
		{"messages not array", `{"messages":"hi"}`, ReasonMessagesRequired},
		{"missing role", `{"messages":[{"content":"hi"}]}`, ReasonInvalidMessage},
		{"empty content", `{"messages":[{"role":"user","content":""}]}`, ReasonInvalidMessage},
		{"numeric content", `{"messages":[{"role":"user","content":5}]}`, ReasonInvalidMessage},
		{"message not object", `{"messages":["hi"]}`, ReasonInvalidMessage},
		{
			"too long",
			`{"messages":[{"role":"user","content":"` + strings.Repeat("a", 2001) + `"}]}`,
			ReasonMessageTooLong,
		},
		{
			"first failure wins",
			`{"messages":[{"role":"user"},{"role":"user","content":"` + strings.Repeat("a", 2001) + `"}]}`,
			ReasonInvalidMessage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateChatRequest([]byte(tt.body))
			var validationErr *model.ValidationError
			if !errors.As(err, &validationErr) {
				t.Fatalf("err = %v, want ValidationError", err)
			}
			if validationErr.Reason != tt.reason {
				t.Errorf("Reason = %q, want %q", validationErr.Reason, tt.reason)
			}
		})
	}
}

func TestValidateChatRequest_InvalidJSON(t *testing.T) {
	for _, body := range []string{``, `{`, `{"messages": [}`} {
		if _, err := ValidateChatRequest([]byte(body)); !errors.Is(err, model.ErrInvalidJSON) {
			t.Errorf("body %q: err = %v, want ErrInvalidJSON", body, err)
		}
	}
}

func TestValidateChatRequest_LengthBoundary(t *testing.T) {
	body := `{"messages":[{"role":"user","content":"` + strings.Repeat("a", 2000) + `"}]}`
	req, err := ValidateChatRequest([]byte(body))
	if err != nil {
		t.Fatalf("2000 characters rejected: %v", err)
	}
	if len(req.Messages) != 1 || len(req.Messages[0].Content) != 2000 {
		t.Errorf("unexpected messages: %d", len(req.Messages))
	}
}

func TestValidateChatRequest_CountsUTF16Units(t *testing.T) {
	// Each emoji is two UTF-16 code units.
	accepted := `{"messages":[{"role":"user","content":"` + strings.Repeat("😀", 1000) + `"}]}`
	if _, err := ValidateChatRequest([]byte(accepted)); err != nil {
		t.Errorf("1000 emoji rejected: %v", err)
	}
	rejected := `{"messages":[{"role":"user","content":"` + strings.Repeat("😀", 1000) + `a"}]}`
	if _, err := ValidateChatRequest([]byte(rejected)); err == nil {
		t.Error("1000 emoji plus one character accepted")
	}
}

func TestValidateChatRequest_Fields(t *testing.T) {
	body := `{
		"messages": [
			{"role": "user", "content": "How do I pay my tuition bill?", "timestamp": "2026-10-18T10:00:00.000Z"},
			{"role": "system", "content": "ignored role"}
		],
		"currentPage": {"url": "/departments/student-accounts.html", "title": "Student Accounts"},
		"sessionId": "session_1_abc"
	}`
	req, err := ValidateChatRequest([]byte(body))
	if err != nil {
		t.Fatalf("ValidateChatRequest failed: %v", err)
	}
	if req.SessionID != "session_1_abc" {
		t.Errorf("SessionID = %s, want session_1_abc", req.SessionID)
	}
	if req.CurrentPage == nil || req.CurrentPage.Title != "Student Accounts" {
		t.Fatalf("CurrentPage = %+v, want Student Accounts", req.CurrentPage)
	}
	turns := req.Turns()
	if len(turns) != 2 {
		t.Fatalf("len(turns) = %d, want 2", len(turns))
	}
	if turns[0].Role != model.RoleUser || turns[1].Role != model.RoleAssistant {
		t.Errorf("roles = %s/%s, want user/assistant", turns[0].Role, turns[1].Role)
	}
}

func TestValidateChatRequest_OptionalFields(t *testing.T) {
	req, err := ValidateChatRequest([]byte(`{"messages":[],"currentPage":"home","sessionId":42}`))
	if err != nil {
		t.Fatalf("ValidateChatRequest failed: %v", err)
	}
	if req.CurrentPage != nil {
		t.Errorf("CurrentPage = %+v, want nil", req.CurrentPage)
	}
	if req.SessionID != "" {
		t.Errorf("SessionID = %q, want empty", req.SessionID)
	}
}
