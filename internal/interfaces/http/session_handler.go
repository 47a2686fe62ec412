package http

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"

	"github.com/jhoicas/inventory-tracker/internal/application/dto"
	"github.com/jhoicas/inventory-tracker/internal/application/inventory"
	"github.com/jhoicas/inventory-tracker/internal/application/session"
	"github.com/jhoicas/inventory-tracker/internal/domain/entity"
	"github.com/jhoicas/inventory-tracker/internal/domain/repository"
	"github.com/jhoicas/inventory-tracker/pkg/logger"
)

const (
	heartbeatInterval = 15 * time.Second
	// streamStartTimeout plazo para que fasthttp invoque el writer del stream.
	streamStartTimeout = 30 * time.Second
)

// StreamObserver cuenta streams abiertos (métricas). Puede ser nil.
type StreamObserver interface {
	StreamOpened()
	StreamClosed()
}

// SessionHandler publica el estado de la sesión como Server-Sent Events.
type SessionHandler struct {
	provider repository.IdentityProvider
	views    *inventory.Views
	observer StreamObserver
	log      *logger.Logger
}

// NewSessionHandler construye el handler.
func NewSessionHandler(provider repository.IdentityProvider, views *inventory.Views, observer StreamObserver, log *logger.Logger) *SessionHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &SessionHandler{provider: provider, views: views, observer: observer, log: log}
}

// Events godoc
// @Summary      Stream de estado de sesión
// @Description  SSE: loading, luego signed_in/signed_out en cada cambio. El stream termina con signed_out.
// @Tags         session
// @Security     Bearer
// @Produce      text/event-stream
// @Success      200
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/session/events [get]
func (h *SessionHandler) Events(c *fiber.Ctx) error {
	sid := GetSessionID(c)
	gate := session.NewGate(h.provider, sid, h.log)

	// El stream sobrevive al handler: no puede depender del contexto de la petición.
	ctx, cancel := context.WithCancel(context.Background())
	states, stop, err := gate.Subscribe(ctx)
	if err != nil {
		cancel()
		h.log.Warn().Err(err).Str("session_id", sid).Msg("no se pudo suscribir al proveedor")
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Code: "PROVIDER_UNAVAILABLE", Message: "proveedor de identidad no disponible"})
	}

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	release := func() {
		stop()
		cancel()
	}
	started := make(chan struct{})
	go h.releaseIfNotStarted(sid, started, c.Context().Done(), streamStartTimeout, release)

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		close(started)
		defer release()
		if h.observer != nil {
			h.observer.StreamOpened()
			defer h.observer.StreamClosed()
		}
		h.stream(w, sid, states)
	}))
	return nil
}

// releaseIfNotStarted libera la suscripción si el writer no arranca a tiempo (la conexión se
// cerró antes de escribir la respuesta) o si el servidor se apaga antes.
func (h *SessionHandler) releaseIfNotStarted(sid string, started, serverDone <-chan struct{}, timeout time.Duration, release func()) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-started:
	case <-serverDone:
		release()
	case <-timer.C:
		h.log.Warn().Str("session_id", sid).Msg("stream SSE nunca iniciado, se libera la suscripción")
		release()
	}
}

func (h *SessionHandler) stream(w *bufio.Writer, sid string, states <-chan entity.SessionState) {
	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case st, ok := <-states:
			if !ok {
				return
			}
			if err := writeEvent(w, st); err != nil {
				h.log.Debug().Err(err).Str("session_id", sid).Msg("cliente SSE desconectado")
				return
			}
			if st.Status == entity.SessionSignedOut {
				h.views.Drop(sid)
				return
			}
		case <-ticker.C:
			if _, err := w.WriteString(": ping\n\n"); err != nil {
				return
			}
			if err := w.Flush(); err != nil {
				return
			}
		}
	}
}

func writeEvent(w *bufio.Writer, st entity.SessionState) error {
	data, err := json.Marshal(st)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: session\ndata: %s\n\n", data); err != nil {
		return err
	}
	return w.Flush()
}
