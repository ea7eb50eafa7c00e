package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"ecoip/internal/server/api/response"
	v1 "ecoip/internal/server/api/v1"
	"ecoip/internal/status"
	"ecoip/internal/view"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// sectionEvent is the payload of a "status" SSE event
type sectionEvent struct {
	Branch status.Branch `json:"branch"`
	HTML   string        `json:"html"`
}

type pageHandler struct {
	source    v1.Source
	renderer  *view.Renderer
	heartbeat time.Duration
	logger    *zap.Logger
}

// page renders the landing page with the current status
func (h *pageHandler) page(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.renderer.WritePage(&buf, h.source.Status().Get()); err != nil {
		h.logger.Error("Failed to render page", zap.Error(err))
		response.New(c, h.logger).InternalError(err)
		return
	}
	response.New(c, h.logger).HTML(http.StatusOK, buf.Bytes())
}

// section renders only the status fragment
func (h *pageHandler) section(c *gin.Context) {
	out := h.renderer.Section(h.source.Status().Get())
	c.Header("X-Status-Branch", string(out.Branch))
	response.New(c, h.logger).HTML(http.StatusOK, []byte(out.HTML))
}

// events streams the rendered section on every status change and ends
// after the first terminal status
func (h *pageHandler) events(c *gin.Context) {
	ctx := c.Request.Context()
	changes := h.source.Status().Changes(ctx)
	events := make(chan response.SSEvent)

	go func() {
		defer close(events)

		heartbeat := h.heartbeat
		if heartbeat <= 0 {
			heartbeat = 15 * time.Second
		}
		ticker := time.NewTicker(heartbeat)
		defer ticker.Stop()

		for {
			var ev response.SSEvent
			var last bool
			select {
			case st, ok := <-changes:
				if !ok {
					return
				}
				ev = h.encode(st)
				last = st.Terminal()
			case <-ticker.C:
				ev = response.SSEvent{Data: "ping"}
			case <-ctx.Done():
				return
			}

			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
			if last {
				return
			}
		}
	}()

	response.New(c, h.logger).StreamSSE(events)
}

func (h *pageHandler) encode(st status.Status) response.SSEvent {
	out := h.renderer.Section(st)
	data, _ := json.Marshal(sectionEvent{Branch: out.Branch, HTML: string(out.HTML)})
	return response.SSEvent{Event: "status", Data: string(data)}
}
