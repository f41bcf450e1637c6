package http

import (
	"bufio"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"

	"github.com/grupoandino/almacen-api/internal/infrastructure/events"
)

// EventsHandler expone el feed de cambios por Server-Sent Events.
type EventsHandler struct {
	feed *events.Feed
}

// NewEventsHandler construye el handler.
func NewEventsHandler(feed *events.Feed) *EventsHandler {
	return &EventsHandler{feed: feed}
}

// Stream godoc
// @Summary      Feed de cambios (SSE)
// @Description  Entrega los eventos del motor (materiales, alertas, lotes,
//
//	asientos, documentos) como Server-Sent Events. Filtrar con
//	?topic=alerts. Un cliente lento pierde eventos, no bloquea.
//
// @Tags         events
// @Produce      text/event-stream
// @Param        topic  query  string  false  "materials, alerts, lots, ledger o documents"
// @Success      200  {string}  string
// @Router       /api/events [get]
func (h *EventsHandler) Stream(c *fiber.Ctx) error {
	topic := c.Query("topic")

	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")

	sub, cancel := h.feed.Subscribe()
	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer cancel()
		keepalive := time.NewTicker(15 * time.Second)
		defer keepalive.Stop()
		for {
			select {
			case e, ok := <-sub:
				if !ok {
					return
				}
				if topic != "" && e.Topic != topic {
					continue
				}
				data, err := json.Marshal(e)
				if err != nil {
					continue
				}
				fmt.Fprintf(w, "event: %s.%s\ndata: %s\n\n", e.Topic, e.Type, data)
				if err := w.Flush(); err != nil {
					return
				}
			case <-keepalive.C:
				fmt.Fprint(w, ": keepalive\n\n")
				if err := w.Flush(); err != nil {
					return
				}
			}
		}
	}))
	return nil
}
