package handlers

import (
	"bufio"
	"fmt"
	"time"

	"voxpense/internal/events"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

// keepaliveInterval also bounds how long a dead connection lingers: the next
// ping write fails and tears the subscription down.
const keepaliveInterval = 25 * time.Second

type EventsHandler struct {
	hub    *events.Hub
	logger *zap.Logger
}

func NewEventsHandler(hub *events.Hub, logger *zap.Logger) *EventsHandler {
	return &EventsHandler{
		hub:    hub,
		logger: logger,
	}
}

// Stream godoc
// @Summary Expense change feed
// @Description Server-Sent Events stream; the client refreshes its list on any event
// @Tags events
// @Produce text/event-stream
// @Security Bearer
// @Success 200 {string} string "event stream"
// @Failure 401 {object} map[string]string
// @Router /api/v1/events [get]
func (h *EventsHandler) Stream(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")

	ch, cancel := h.hub.Subscribe(userID)
	logger := h.logger
	uid := userID.String()

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer cancel()

		logger.Debug("SSE subscriber connected", zap.String("user_id", uid))

		ticker := time.NewTicker(keepaliveInterval)
		defer ticker.Stop()

		for {
			select {
			case event, ok := <-ch:
				if !ok {
					return
				}
				data, err := event.ToJSON()
				if err != nil {
					continue
				}
				if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, data); err != nil {
					return
				}
				if err := w.Flush(); err != nil {
					return
				}
			case <-ticker.C:
				if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
					return
				}
				if err := w.Flush(); err != nil {
					return
				}
			}
		}
	}))

	return nil
}
