package widget

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/iamvkosarev/campus-assistant/internal/model"
)

func TestHTTPTransport_Send(t *testing.T) {
	var got model.ChatRequest
	server := httptest.NewServer(
		http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost {
					t.Errorf("method = %s, want POST", r.Method)
				}
				if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
					t.Errorf("failed to decode request: %v", err)
				}
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`{"response":"Hello!","sessionId":"session_1_a"}`))
			},
		),
	)
	defer server.Close()

	transport := NewHTTPTransport(server.URL, 5*time.Second)
	req := model.ChatRequest{
		Messages:    []model.Message{{Role: model.RoleUser, Content: "Hi", Timestamp: "2026-10-18T09:00:00.000Z"}},
		CurrentPage: &model.PageContext{URL: "/", Title: "Home"},
		SessionID:   "session_0_b",
	}
	resp, err := transport.Send(context.Background(), req)
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if resp.Response != "Hello!" || resp.SessionID != "session_1_a" {
		t.Errorf("resp = %+v", resp)
	}
	if len(got.Messages) != 1 || got.Messages[0].Content != "Hi" || got.SessionID != "session_0_b" {
		t.Errorf("server got %+v", got)
	}
	if got.CurrentPage == nil || got.CurrentPage.Title != "Home" {
		t.Errorf("server got page %+v", got.CurrentPage)
	}
}

func TestHTTPTransport_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusInternalServerError, `{"error":"API key error"}`},
		{"rate limited", http.StatusTooManyRequests, `{"error":"Too many requests"}`},
		{"malformed", http.StatusOK, `{"response":`},
		{"missing response", http.StatusOK, `{"sessionId":"x"}`},
	}
	for _, tt := range tests {
		t.Run(
			tt.name, func(t *testing.T) {
				server := httptest.NewServer(
					http.HandlerFunc(
						func(w http.ResponseWriter, _ *http.Request) {
							w.WriteHeader(tt.status)
							_, _ = w.Write([]byte(tt.body))
						},
					),
				)
				defer server.Close()

				_, err := NewHTTPTransport(server.URL, 5*time.Second).Send(context.Background(), model.ChatRequest{})
				var transportErr *model.TransportError
				if !errors.As(err, &transportErr) {
					t.Fatalf("error = %v, want a TransportError", err)
				}
				if transportErr.StatusCode != tt.status {
					t.Errorf("StatusCode = %d, want %d", transportErr.StatusCode, tt.status)
				}
			},
		)
	}
}

func TestHTTPTransport_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := NewHTTPTransport(url, time.Second).Send(context.Background(), model.ChatRequest{})
	var transportErr *model.TransportError
	if !errors.As(err, &transportErr) || transportErr.StatusCode != 0 {
		t.Errorf("error = %v, want a TransportError without status", err)
	}
}
