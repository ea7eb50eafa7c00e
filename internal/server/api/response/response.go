package response

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Response represents standard API response
type Response struct {
	Code      int       `json:"code"`            // HTTP status code
	Message   string    `json:"message"`         // Response message
	Data      any       `json:"data,omitempty"`  // Response data
	Error     string    `json:"error,omitempty"` // Error message if any
	RequestID string    `json:"request_id"`      // Request ID for tracking
	Timestamp time.Time `json:"timestamp"`       // Response timestamp
}

// Handler provides methods for standard API responses
type Handler struct {
	ctx    *gin.Context
	logger *zap.Logger
}

// New creates new response handler
func New(c *gin.Context, logger *zap.Logger) *Handler {
	return &Handler{
		ctx:    c,
		logger: logger,
	}
}

// Success sends success response
func (h *Handler) Success(data any) {
	h.ctx.JSON(http.StatusOK, Response{
		Code:      http.StatusOK,
		Message:   "success",
		Data:      data,
		RequestID: h.ctx.GetString("request_id"),
		Timestamp: time.Now(),
	})
}

// Accepted sends accepted response
func (h *Handler) Accepted(data any) {
	h.ctx.JSON(http.StatusAccepted, Response{
		Code:      http.StatusAccepted,
		Message:   "accepted",
		Data:      data,
		RequestID: h.ctx.GetString("request_id"),
		Timestamp: time.Now(),
	})
}

// Error sends an error response
func (h *Handler) Error(status int, err error) {
	h.ctx.JSON(status, Response{
		Code:      status,
		Message:   "error",
		Error:     err.Error(),
		RequestID: h.ctx.GetString("request_id"),
		Timestamp: time.Now(),
	})
}

// Conflict sends conflict error response
func (h *Handler) Conflict(err error) {
	h.Error(http.StatusConflict, err)
}

// InternalError sends an internal server error response
func (h *Handler) InternalError(err error) {
	h.Error(http.StatusInternalServerError, err)
}

// HTML sends an HTML document
func (h *Handler) HTML(status int, body []byte) {
	h.ctx.Data(status, "text/html; charset=utf-8", body)
}

// SSEvent defines SSE event structure. An event without a name is sent as
// a comment line and ignored by clients.
type SSEvent struct {
	Event string
	Data  string
}

// StreamSSE sends Server-Sent Events until events is closed or the client
// goes away
func (h *Handler) StreamSSE(events <-chan SSEvent) {
	h.ctx.Header("Content-Type", "text/event-stream")
	h.ctx.Header("Cache-Control", "no-cache")
	h.ctx.Header("Connection", "keep-alive")
	h.ctx.Header("X-Accel-Buffering", "no")
	h.ctx.Status(http.StatusOK)

	h.ctx.Stream(func(w io.Writer) bool {
		select {
		case event, ok := <-events:
			if !ok {
				return false
			}
			if err := writeEvent(w, event); err != nil {
				h.logger.Error("sse write error",
					zap.Error(err),
					zap.String("request_id", h.ctx.GetString("request_id")))
				return false
			}
			return true
		case <-h.ctx.Request.Context().Done():
			return false
		}
	})
}

func writeEvent(w io.Writer, event SSEvent) error {
	if event.Event == "" {
		_, err := fmt.Fprintf(w, ": %s\n\n", event.Data)
		return err
	}
	var b strings.Builder
	fmt.Fprintf(&b, "event: %s\n", event.Event)
	for _, line := range strings.Split(event.Data, "\n") {
		fmt.Fprintf(&b, "data: %s\n", line)
	}
	b.WriteString("\n")
	_, err := io.WriteString(w, b.String())
	return err
}
