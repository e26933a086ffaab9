package widget

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/iamvkosarev/campus-assistant/internal/model"
	"github.com/tidwall/gjson"
)

var errMalformedResponse = errors.New("malformed relay response")

// HTTPTransport posts chat requests to the relay endpoint.
type HTTPTransport struct {
	endpoint string
	client   *http.Client
}

func NewHTTPTransport(endpoint string, timeout time.Duration) *HTTPTransport {
	return &HTTPTransport{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

func (t *HTTPTransport) Send(ctx context.Context, req model.ChatRequest) (model.ChatResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return model.ChatResponse{}, fmt.Errorf("failed to marshal chat request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(body))
	if err != nil {
		return model.ChatResponse{}, &model.TransportError{Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return model.ChatResponse{}, &model.TransportError{Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return model.ChatResponse{}, &model.TransportError{StatusCode: resp.StatusCode, Err: err}
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return model.ChatResponse{}, &model.TransportError{
			StatusCode: resp.StatusCode,
			Err:        errors.New(gjson.GetBytes(data, "error").String()),
		}
	}

	if !gjson.ValidBytes(data) {
		return model.ChatResponse{}, &model.TransportError{StatusCode: resp.StatusCode, Err: model.ErrInvalidJSON}
	}
	result := gjson.ParseBytes(data)
	answer := result.Get("response")
	if answer.Type != gjson.String {
		return model.ChatResponse{}, &model.TransportError{StatusCode: resp.StatusCode, Err: errMalformedResponse}
	}
	return model.ChatResponse{
		Response:  answer.String(),
		SessionID: result.Get("sessionId").String(),
	}, nil
}
