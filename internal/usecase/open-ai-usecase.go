package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/iamvkosarev/campus-assistant/config"
	"github.com/iamvkosarev/campus-assistant/internal/model"
	openai_tools "github.com/iamvkosarev/campus-assistant/pkg/openai-tools"
	"github.com/sashabaranov/go-openai"
)

const (
	OpenAIRoleSystem    = "system"
	OpenAIRoleUser      = "user"
	OpenAIRoleAssistant = "assistant"
)

// OpenAIUsecase calls any OpenAI-compatible chat completion endpoint.
type OpenAIUsecase struct {
	cfg    config.OpenAI
	client *openai.Client
}

func NewOpenAIUsecase(cfg config.OpenAI) *OpenAIUsecase {
	clientConfig := openai.DefaultConfig(cfg.OpenAIAPIKey)
	if cfg.OpenAIBaseURL != "" {
		clientConfig.BaseURL = strings.TrimRight(cfg.OpenAIBaseURL, "/")
	}
	return &OpenAIUsecase{
		cfg:    cfg,
		client: openai.NewClientWithConfig(clientConfig),
	}
}

func (o *OpenAIUsecase) Configured() bool {
	return o.cfg.OpenAIAPIKey != ""
}

func (o *OpenAIUsecase) Complete(ctx context.Context, system string, turns []model.Turn) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(turns)+1)
	messages = append(
		messages, openai.ChatCompletionMessage{
			Role:    OpenAIRoleSystem,
			Content: system,
		},
	)
	for _, turn := range turns {
		messages = append(
			messages, openai.ChatCompletionMessage{
				Role:    parseRoleToOpenAIRole(turn.Role),
				Content: turn.Content,
			},
		)
	}

	if o.cfg.CountTokens {
		tokenCount, err := openai_tools.CountToken(messages, o.cfg.OpenAIModel)
		if err != nil {
			log.Printf("failed to count prompt tokens: %v", err)
		} else {
			log.Printf("sending %d messages, ~%d prompt tokens", len(messages), tokenCount)
		}
	}

	if o.cfg.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.cfg.RequestTimeout)
		defer cancel()
	}

	req := openai.ChatCompletionRequest{
		Model:     o.cfg.OpenAIModel,
		MaxTokens: o.cfg.MaxTokens,
		N:         1,
		Messages:  messages,
	}
	resp, err := o.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", classifyProviderError(err)
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

func parseRoleToOpenAIRole(role model.Role) string {
	if role == model.RoleUser {
		return OpenAIRoleUser
	}
	return OpenAIRoleAssistant
}

var (
	authErrorMarkers    = []string{"authentication", "invalid_api_key", "invalid x-api-key", "unauthorized"}
	quotaErrorMarkers   = []string{"rate_limit", "insufficient_quota"}
	requestErrorMarkers = []string{"invalid_request"}
)

// classifyProviderError maps a go-openai failure to a provider error kind.
// Categories are checked in the order auth, quota, request.
func classifyProviderError(err error) *model.ProviderError {
	providerErr := &model.ProviderError{
		Kind:   model.ProviderErrorUnknown,
		Detail: err.Error(),
		Err:    err,
	}
	var signals []string

	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		providerErr.StatusCode = apiErr.HTTPStatusCode
		providerErr.Detail = apiErr.Message
		signals = append(signals, apiErr.Type, fmt.Sprint(apiErr.Code), apiErr.Message)
	case errors.As(err, &reqErr):
		providerErr.StatusCode = reqErr.HTTPStatusCode
		signals = append(signals, reqErr.Error())
	default:
		signals = append(signals, err.Error())
	}
	text := strings.ToLower(strings.Join(signals, " "))

	switch status := providerErr.StatusCode; {
	case status == http.StatusUnauthorized || status == http.StatusForbidden || containsAny(text, authErrorMarkers):
		providerErr.Kind = model.ProviderErrorAuth
	case status == http.StatusTooManyRequests || containsAny(text, quotaErrorMarkers):
		providerErr.Kind = model.ProviderErrorQuota
	case status == http.StatusBadRequest || containsAny(text, requestErrorMarkers):
		providerErr.Kind = model.ProviderErrorRequest
	}
	return providerErr
}

func containsAny(s string, markers []string) bool {
	for _, marker := range markers {
		if strings.Contains(s, marker) {
			return true
		}
	}
	return false
}
