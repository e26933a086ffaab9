package handler

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/iamvkosarev/campus-assistant/internal/model"
	"github.com/iamvkosarev/campus-assistant/internal/usecase"
)

const unknownClient = "unknown"

type Relay interface {
	Relay(ctx context.Context, clientKey string, rawBody []byte) (model.ChatResponse, error)
	ErrorToResponse(err error) (int, string)
}

type RelayHandler struct {
	relay Relay
	path  string
}

func NewRelayHandler(relay Relay, path string) *RelayHandler {
	return &RelayHandler{
		relay: relay,
		path:  path,
	}
}

// Register mounts the relay endpoint. Every method reaches Handle so that
// preflight and method-not-allowed answers carry the same headers.
func (h *RelayHandler) Register(r gin.IRouter) {
	r.GET(
		"/health", func(c *gin.Context) {
			c.JSON(
				http.StatusOK, gin.H{
					"status":    "healthy",
					"timestamp": time.Now(),
				},
			)
		},
	)
	r.Any(h.path, h.Handle)
}

func (h *RelayHandler) Handle(c *gin.Context) {
	setCORSHeaders(c)

	switch c.Request.Method {
	case http.MethodOptions:
		c.Status(http.StatusNoContent)
		return
	case http.MethodPost:
	default:
		c.JSON(http.StatusMethodNotAllowed, model.ErrorResponse{Error: usecase.MessageMethodNotAllowed})
		return
	}

	body, err := c.GetRawData()
	if err != nil {
		log.Printf("failed to read request body: %v", err)
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: usecase.MessageInvalidJSON})
		return
	}

	resp, err := h.relay.Relay(c.Request.Context(), clientKey(c), body)
	if err != nil {
		status, message := h.relay.ErrorToResponse(err)
		c.JSON(status, model.ErrorResponse{Error: message})
		return
	}
	c.JSON(http.StatusOK, resp)
}

func setCORSHeaders(c *gin.Context) {
	c.Header("Access-Control-Allow-Origin", "*")
	c.Header("Access-Control-Allow-Headers", "Content-Type")
	c.Header("Access-Control-Allow-Methods", "POST, OPTIONS")
	c.Header("Content-Type", "application/json")
}

// clientKey trusts forwarding headers as-is. The value only feeds the
// advisory rate limit and is spoofable.
func clientKey(c *gin.Context) string {
	if ip := c.GetHeader("X-Forwarded-For"); ip != "" {
		return ip
	}
	if ip := c.GetHeader("Client-IP"); ip != "" {
		return ip
	}
	return unknownClient
}
