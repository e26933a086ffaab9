package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/iamvkosarev/campus-assistant/config"
	"github.com/iamvkosarev/campus-assistant/internal/knowledge"
	"github.com/iamvkosarev/campus-assistant/internal/model"
	in_memory "github.com/iamvkosarev/campus-assistant/internal/storage/in-memory"
)

type fakeProvider struct {
	configured bool
	answer     string
	err        error

	calls  int
	system string
	turns  []model.Turn
}

func (p *fakeProvider) Configured() bool {
	return p.configured
}

func (p *fakeProvider) Complete(_ context.Context, system string, turns []model.Turn) (string, error) {
	p.calls++
	p.system = system
	p.turns = turns
	return p.answer, p.err
}

type allowAll struct{}

func (allowAll) Allow(context.Context, string) bool { return true }

func newTestRelay(t *testing.T, provider Provider, limiter RateLimiter) *RelayUsecase {
	t.Helper()
	kb, err := knowledge.Default()
	if err != nil {
		t.Fatalf("failed to load knowledge base: %v", err)
	}
	relay, err := NewRelayUsecase(
		RelayUsecaseDeps{
			Provider:  provider,
			Limiter:   limiter,
			Knowledge: kb,
			Clock:     func() time.Time { return time.UnixMilli(1760000000000) },
		},
	)
	if err != nil {
		t.Fatalf("NewRelayUsecase failed: %v", err)
	}
	return relay
}

const tuitionRequest = `{
	"messages": [{"role": "user", "content": "How do I pay my tuition bill?"}],
	"currentPage": {"url": "/index.html", "title": "Business & Finance"},
	"sessionId": "session_42_abcdefghi"
}`

func TestRelayUsecase_Success(t *testing.T) {
	provider := &fakeProvider{configured: true, answer: "Visit [Student Accounts](/departments/student-accounts.html)."}
	relay := newTestRelay(t, provider, allowAll{})

	resp, err := relay.Relay(context.Background(), "1.2.3.4", []byte(tuitionRequest))
	if err != nil {
		t.Fatalf("Relay failed: %v", err)
	}
	if resp.Response != provider.answer {
		t.Errorf("Response = %q, want %q", resp.Response, provider.answer)
	}
	if resp.SessionID != "session_42_abcdefghi" {
		t.Errorf("SessionID = %s, want echo of the request", resp.SessionID)
	}
	if !strings.HasSuffix(provider.system, "\n\nThe user is currently viewing: Business & Finance (/index.html)") {
		t.Errorf("system prompt does not end with page context: %q", provider.system[len(provider.system)-80:])
	}
	if len(provider.turns) != 1 || provider.turns[0].Content != "How do I pay my tuition bill?" {
		t.Errorf("turns = %+v", provider.turns)
	}
}

func TestRelayUsecase_MintsSessionAndFallsBack(t *testing.T) {
	provider := &fakeProvider{configured: true}
	relay := newTestRelay(t, provider, allowAll{})

	resp, err := relay.Relay(context.Background(), "k", []byte(`{"messages":[{"role":"user","content":"hi"}]}`))
	if err != nil {
		t.Fatalf("Relay failed: %v", err)
	}
	if !strings.HasPrefix(resp.SessionID, "session_1760000000000_") {
		t.Errorf("SessionID = %s, want minted id", resp.SessionID)
	}
	if !strings.Contains(resp.Response, "(903) 927-3300") {
		t.Errorf("Response = %q, want fallback with phone", resp.Response)
	}
	if provider.system != relay.SystemInstruction(nil) {
		t.Error("system prompt without page must not carry a page line")
	}
}

func TestRelayUsecase_OrderOfChecks(t *testing.T) {
	t.Run("rate limit before parsing", func(t *testing.T) {
		provider := &fakeProvider{configured: true}
		relay := newTestRelay(t, provider, denyAll{})
		_, err := relay.Relay(context.Background(), "k", []byte(`{`))
		if !errors.Is(err, model.ErrRateLimited) {
			t.Errorf("err = %v, want ErrRateLimited", err)
		}
	})
	t.Run("validation before configuration", func(t *testing.T) {
		provider := &fakeProvider{}
		relay := newTestRelay(t, provider, allowAll{})
		_, err := relay.Relay(context.Background(), "k", []byte(`{}`))
		var validationErr *model.ValidationError
		if !errors.As(err, &validationErr) {
			t.Errorf("err = %v, want ValidationError", err)
		}
	})
	t.Run("configuration before provider", func(t *testing.T) {
		provider := &fakeProvider{}
		relay := newTestRelay(t, provider, allowAll{})
		_, err := relay.Relay(context.Background(), "k", []byte(tuitionRequest))
		if !errors.Is(err, model.ErrProviderNotConfigured) {
			t.Errorf("err = %v, want ErrProviderNotConfigured", err)
		}
		if provider.calls != 0 {
			t.Errorf("provider called %d times, want 0", provider.calls)
		}
	})
}

type denyAll struct{}

func (denyAll) Allow(context.Context, string) bool { return false }

func TestRelayUsecase_ErrorToResponse(t *testing.T) {
	relay := newTestRelay(t, &fakeProvider{}, allowAll{})

	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"invalid json", model.ErrInvalidJSON, http.StatusBadRequest, MessageInvalidJSON},
		{"validation", model.NewValidationError(ReasonMessagesRequired), http.StatusBadRequest, ReasonMessagesRequired},
		{"rate limit", model.ErrRateLimited, http.StatusTooManyRequests, MessageTooManyRequests},
		{"not configured", model.ErrProviderNotConfigured, http.StatusInternalServerError, MessageServiceNotConfigured},
		{
			"provider auth",
			&model.ProviderError{Kind: model.ProviderErrorAuth, StatusCode: 401, Detail: "invalid x-api-key"},
			http.StatusInternalServerError, MessageAPIKeyError,
		},
		{
			"provider quota",
			&model.ProviderError{Kind: model.ProviderErrorQuota, StatusCode: 429},
			http.StatusTooManyRequests, MessageServiceBusy,
		},
		{
			"provider request",
			&model.ProviderError{Kind: model.ProviderErrorRequest, StatusCode: 400, Detail: "messages: field required"},
			http.StatusBadRequest, "Request error: messages: field required",
		},
		{
			"provider unknown",
			&model.ProviderError{Kind: model.ProviderErrorUnknown, StatusCode: 529, Detail: "Overloaded."},
			http.StatusInternalServerError, "Error: Overloaded. Please contact (903) 927-3300.",
		},
		{
			"provider unknown without detail",
			&model.ProviderError{Kind: model.ProviderErrorUnknown},
			http.StatusInternalServerError, "Error: Unknown error. Please contact (903) 927-3300.",
		},
		{
			"wrapped validation",
			errors.Join(errors.New("context"), model.NewValidationError(ReasonInvalidMessage)),
			http.StatusBadRequest, ReasonInvalidMessage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, message := relay.ErrorToResponse(tt.err)
			if status != tt.status {
				t.Errorf("status = %d, want %d", status, tt.status)
			}
			if message != tt.message {
				t.Errorf("message = %q, want %q", message, tt.message)
			}
		})
	}
}

func TestRelayUsecase_RateLimitScenario(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)}
	limiter := NewRateLimitUsecase(
		RateLimitUsecaseDeps{Storage: in_memory.NewRateLimitStorage(), Clock: clock.Now},
		config.RateLimit{Window: 60 * time.Second, Limit: 20},
	)
	provider := &fakeProvider{configured: true, answer: "ok"}
	relay := newTestRelay(t, provider, limiter)
	ctx := context.Background()

	for i := 1; i <= 20; i++ {
		if _, err := relay.Relay(ctx, "203.0.113.9", []byte(tuitionRequest)); err != nil {
			t.Fatalf("request %d failed: %v", i, err)
		}
	}
	if _, err := relay.Relay(ctx, "203.0.113.9", []byte(tuitionRequest)); !errors.Is(err, model.ErrRateLimited) {
		t.Fatalf("request 21: err = %v, want ErrRateLimited", err)
	}

	clock.now = clock.now.Add(61 * time.Second)
	if _, err := relay.Relay(ctx, "203.0.113.9", []byte(tuitionRequest)); err != nil {
		t.Errorf("request 22 after rollover failed: %v", err)
	}
}
