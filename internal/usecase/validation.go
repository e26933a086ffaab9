package usecase

import (
	"unicode/utf16"

	"github.com/iamvkosarev/campus-assistant/internal/model"
	"github.com/tidwall/gjson"
)

// MaxMessageLength is counted in UTF-16 code units, like browser string lengths.
const MaxMessageLength = 2000

const (
	ReasonInvalidBody      = "Invalid request body"
	ReasonMessagesRequired = "Messages array required"
	ReasonInvalidMessage   = "Invalid message format"
	ReasonMessageTooLong   = "Message too long (max 2000 characters)"
)

// ValidateChatRequest parses a relay request body. Rules are checked in order
// and the first broken one is reported.
func ValidateChatRequest(raw []byte) (model.ChatRequest, error) {
	if !gjson.ValidBytes(raw) {
		return model.ChatRequest{}, model.ErrInvalidJSON
	}
	body := gjson.ParseBytes(raw)
	if !body.IsObject() {
		return model.ChatRequest{}, model.NewValidationError(ReasonInvalidBody)
	}
	messages := body.Get("messages")
	if !messages.IsArray() {
		return model.ChatRequest{}, model.NewValidationError(ReasonMessagesRequired)
	}

	var req model.ChatRequest
	var validationErr error
	messages.ForEach(
		func(_, msg gjson.Result) bool {
			role := msg.Get("role")
			content := msg.Get("content")
			if !isNonEmptyString(role) || !isNonEmptyString(content) {
				validationErr = model.NewValidationError(ReasonInvalidMessage)
				return false
			}
			if utf16Len(content.Str) > MaxMessageLength {
				validationErr = model.NewValidationError(ReasonMessageTooLong)
				return false
			}
			req.Messages = append(
				req.Messages, model.Message{
					Role:      model.Role(role.Str),
					Content:   content.Str,
					Timestamp: stringField(msg.Get("timestamp")),
				},
			)
			return true
		},
	)
	if validationErr != nil {
		return model.ChatRequest{}, validationErr
	}

	if page := body.Get("currentPage"); page.IsObject() {
		req.CurrentPage = &model.PageContext{
			URL:   stringField(page.Get("url")),
			Title: stringField(page.Get("title")),
		}
	}
	req.SessionID = stringField(body.Get("sessionId"))
	return req, nil
}

func isNonEmptyString(r gjson.Result) bool {
	return r.Type == gjson.String && r.Str != ""
}

func stringField(r gjson.Result) string {
	if r.Type != gjson.String {
		return ""
	}
	return r.Str
}

func utf16Len(s string) int {
	return len(utf16.Encode([]rune(s)))
}
