package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/iamvkosarev/campus-assistant/internal/knowledge"
	"github.com/iamvkosarev/campus-assistant/internal/model"
)

const (
	MessageInvalidJSON          = "Invalid JSON"
	MessageMethodNotAllowed     = "Method not allowed"
	MessageTooManyRequests      = "Too many requests. Please wait a moment and try again."
	MessageServiceNotConfigured = "Chat service not configured. Please contact support."
	MessageAPIKeyError          = "API key error: Please verify your provider API key is correct."
	MessageServiceBusy          = "Service is busy. Please try again in a moment."
	MessageRequestErrorFormat   = "Request error: %s"
	MessageUnknownErrorFormat   = "Error: %s. Please contact %s."
	MessageUnknownError         = "Error: Unknown error. Please contact %s."
	MessageNoResponseFormat     = "I apologize, but I was unable to generate a response. Please try again or contact the Business & Finance office at %s."

	messageInvalidRequest = "Invalid request format"
)

type Provider interface {
	Configured() bool
	Complete(ctx context.Context, system string, turns []model.Turn) (string, error)
}

type RelayUsecaseDeps struct {
	Provider  Provider
	Limiter   RateLimiter
	Knowledge knowledge.KnowledgeBase
	Clock     func() time.Time
}

// RelayUsecase validates widget requests and forwards them to the provider.
// It keeps no state besides what its rate limiter holds.
type RelayUsecase struct {
	RelayUsecaseDeps
	systemPrompt string
}

func NewRelayUsecase(deps RelayUsecaseDeps) (*RelayUsecase, error) {
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	systemPrompt, err := deps.Knowledge.SystemPrompt()
	if err != nil {
		return nil, fmt.Errorf("failed to build system prompt: %w", err)
	}
	return &RelayUsecase{
		RelayUsecaseDeps: deps,
		systemPrompt:     systemPrompt,
	}, nil
}

// Relay handles one POSTed chat request from the client identified by clientKey.
func (r *RelayUsecase) Relay(ctx context.Context, clientKey string, rawBody []byte) (model.ChatResponse, error) {
	if !r.Limiter.Allow(ctx, clientKey) {
		return model.ChatResponse{}, model.ErrRateLimited
	}

	req, err := ValidateChatRequest(rawBody)
	if err != nil {
		return model.ChatResponse{}, err
	}

	if !r.Provider.Configured() {
		log.Printf("provider API key is not configured, set OPENAI_API_KEY")
		return model.ChatResponse{}, model.ErrProviderNotConfigured
	}

	system := r.SystemInstruction(req.CurrentPage)
	answer, err := r.Provider.Complete(ctx, system, req.Turns())
	if err != nil {
		log.Printf("failed to complete chat for session %q: %v", req.SessionID, err)
		var providerErr *model.ProviderError
		if errors.As(err, &providerErr) {
			log.Printf("provider error details: kind=%s status=%d detail=%q", providerErr.Kind, providerErr.StatusCode, providerErr.Detail)
		}
		return model.ChatResponse{}, err
	}
	if answer == "" {
		answer = fmt.Sprintf(MessageNoResponseFormat, r.Knowledge.ContactPhone())
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = model.NewSessionID(r.Clock())
	}
	return model.ChatResponse{
		Response:  answer,
		SessionID: sessionID,
	}, nil
}

// SystemInstruction is the knowledge-base prompt plus the optional page line.
func (r *RelayUsecase) SystemInstruction(page *model.PageContext) string {
	if page == nil {
		return r.systemPrompt
	}
	return r.systemPrompt + knowledge.PageContext(page.Title, page.URL)
}

// ErrorToResponse converts any relay failure into the status and message
// returned to the caller. Details stay in the server log.
func (r *RelayUsecase) ErrorToResponse(err error) (int, string) {
	phone := r.Knowledge.ContactPhone()

	var validationErr *model.ValidationError
	var providerErr *model.ProviderError
	switch {
	case errors.Is(err, model.ErrInvalidJSON):
		return http.StatusBadRequest, MessageInvalidJSON
	case errors.As(err, &validationErr):
		return http.StatusBadRequest, validationErr.Reason
	case errors.Is(err, model.ErrRateLimited):
		return http.StatusTooManyRequests, MessageTooManyRequests
	case errors.Is(err, model.ErrProviderNotConfigured):
		return http.StatusInternalServerError, MessageServiceNotConfigured
	case errors.As(err, &providerErr):
		switch providerErr.Kind {
		case model.ProviderErrorAuth:
			return http.StatusInternalServerError, MessageAPIKeyError
		case model.ProviderErrorQuota:
			return http.StatusTooManyRequests, MessageServiceBusy
		case model.ProviderErrorRequest:
			detail := providerErr.Detail
			if detail == "" {
				detail = messageInvalidRequest
			}
			return http.StatusBadRequest, fmt.Sprintf(MessageRequestErrorFormat, detail)
		default:
			return http.StatusInternalServerError, unknownErrorMessage(providerErr.Detail, phone)
		}
	case err != nil:
		return http.StatusInternalServerError, unknownErrorMessage(err.Error(), phone)
	default:
		return http.StatusInternalServerError, fmt.Sprintf(MessageUnknownError, phone)
	}
}

func unknownErrorMessage(detail, phone string) string {
	detail = strings.TrimRight(strings.TrimSpace(detail), ".")
	if detail == "" {
		return fmt.Sprintf(MessageUnknownError, phone)
	}
	return fmt.Sprintf(MessageUnknownErrorFormat, detail, phone)
}
