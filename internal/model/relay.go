package model

// Turn is a single conversation entry forwarded to the provider.
type Turn struct {
	Role    Role
	Content string
}

type PageContext struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

type ChatRequest struct {
	Messages    []Message    `json:"messages"`
	CurrentPage *PageContext `json:"currentPage,omitempty"`
	SessionID   string       `json:"sessionId,omitempty"`
}

func (r ChatRequest) Turns() []Turn {
	turns := make([]Turn, 0, len(r.Messages))
	for _, msg := range r.Messages {
		turns = append(
			turns, Turn{
				Role:    ParseRole(string(msg.Role)),
				Content: msg.Content,
			},
		)
	}
	return turns
}

type ChatResponse struct {
	Response  string `json:"response"`
	SessionID string `json:"sessionId"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
