package http

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"

	"github.com/jhoicas/anbar-api/internal/application/dto"
	"github.com/jhoicas/anbar-api/internal/domain/entity"
	"github.com/jhoicas/anbar-api/internal/infrastructure/persistence"
)

// keepAliveInterval comentario SSE periódico para detectar clientes desconectados.
const keepAliveInterval = 25 * time.Second

// ChangeSource fuente de avisos de cambio (persistence.Adapter).
type ChangeSource interface {
	Subscribe(ctx context.Context) (<-chan entity.Kind, error)
}

// EventsHandler reenvía por Server-Sent Events qué colección cambió. Los avisos son orientativos:
// el cliente debe recargar la colección al recibirlos.
type EventsHandler struct {
	source ChangeSource
	log    zerolog.Logger
}

// NewEventsHandler construye el handler.
func NewEventsHandler(source ChangeSource, log zerolog.Logger) *EventsHandler {
	return &EventsHandler{source: source, log: log.With().Str("component", "events").Logger()}
}

// Stream godoc
// @Summary      Avisos de cambio (text/event-stream)
// @Tags         events
// @Produce      text/event-stream
// @Success      200
// @Failure      501  {object}  dto.ErrorResponse
// @Router       /api/events [get]
func (h *EventsHandler) Stream(c *fiber.Ctx) error {
	ctx, cancel := context.WithCancel(context.Background())
	changes, err := h.source.Subscribe(ctx)
	if err != nil {
		cancel()
		if errors.Is(err, persistence.ErrNotifyUnsupported) {
			return c.Status(fiber.StatusNotImplemented).JSON(dto.ErrorResponse{Code: "EVENTS_UNSUPPORTED", Message: "el almacenamiento no emite avisos"})
		}
		return writeError(c, err)
	}

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer cancel()
		ticker := time.NewTicker(keepAliveInterval)
		defer ticker.Stop()

		fmt.Fprint(w, "retry: 3000\n\n")
		if w.Flush() != nil {
			return
		}
		for {
			select {
			case kind, ok := <-changes:
				if !ok {
					return
				}
				fmt.Fprintf(w, "event: change\ndata: {\"kind\":%q}\n\n", kind)
			case <-ticker.C:
				fmt.Fprint(w, ": ping\n\n")
			}
			if err := w.Flush(); err != nil {
				h.log.Debug().Err(err).Msg("cliente SSE desconectado")
				return
			}
		}
	}))
	return nil
}
