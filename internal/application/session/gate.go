// Package session implementa el Session Gate: mantiene la identidad actual de una sesión
// del proveedor y publica sus transiciones como un stream.
//
//	Uninitialized → Loading → {SignedOut, SignedIn(identity)}
//	SignedOut ↔ SignedIn cada vez que el proveedor informa un cambio.
//
// El gate no hace polling ni reintentos: todo cambio llega empujado por el proveedor.
package session

import (
	"context"
	"sync"

	"github.com/jhoicas/inventory-tracker/internal/domain"
	"github.com/jhoicas/inventory-tracker/internal/domain/entity"
	"github.com/jhoicas/inventory-tracker/internal/domain/repository"
	"github.com/jhoicas/inventory-tracker/pkg/logger"
)

const stateBuffer = 8

// Gate es dueño del estado de una sesión. Se pasa explícitamente a quien lo necesita.
type Gate struct {
	provider  repository.IdentityProvider
	sessionID string
	log       *logger.Logger

	mu     sync.Mutex
	state  entity.SessionState
	active *subscription
}

type subscription struct {
	out         chan entity.SessionState
	done        chan struct{}
	inflight    sync.WaitGroup
	closed      bool
	loaded      bool
	unsubscribe func()
}

// NewGate construye el gate para la sesión indicada.
func NewGate(provider repository.IdentityProvider, sessionID string, log *logger.Logger) *Gate {
	if log == nil {
		log = logger.Nop()
	}
	return &Gate{
		provider:  provider,
		sessionID: sessionID,
		log:       log,
		state:     entity.SessionState{Status: entity.SessionUninitialized},
	}
}

// Current devuelve el último estado conocido.
func (g *Gate) Current() entity.SessionState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Subscribe registra el único listener del gate en el proveedor y devuelve el stream de estados.
// El primer valor es siempre Loading. La función cancel (o cancelar ctx) desregistra el listener
// y cierra el canal; después se puede volver a suscribir.
func (g *Gate) Subscribe(ctx context.Context) (<-chan entity.SessionState, func(), error) {
	g.mu.Lock()
	if g.active != nil {
		g.mu.Unlock()
		return nil, nil, domain.ErrAlreadySubscribed
	}
	sub := &subscription{
		out:  make(chan entity.SessionState, stateBuffer),
		done: make(chan struct{}),
	}
	g.active = sub
	g.state = entity.SessionState{Status: entity.SessionLoading}
	sub.out <- g.state
	g.mu.Unlock()

	unsubscribe, err := g.provider.OnSessionChange(ctx, g.sessionID, func(identity *entity.Identity) {
		g.deliver(sub, identity)
	})
	if err != nil {
		g.mu.Lock()
		g.state = entity.SessionState{Status: entity.SessionUninitialized}
		g.mu.Unlock()
		g.stop(sub)
		return nil, nil, err
	}

	g.mu.Lock()
	if sub.closed {
		// cancelado mientras se registraba
		g.mu.Unlock()
		unsubscribe()
		return sub.out, func() {}, nil
	}
	sub.unsubscribe = unsubscribe
	g.mu.Unlock()

	go func() {
		select {
		case <-ctx.Done():
			g.stop(sub)
		case <-sub.done:
		}
	}()

	g.log.Debug().Str("session_id", g.sessionID).Msg("gate suscrito al proveedor")
	return sub.out, func() { g.stop(sub) }, nil
}

// SignOut pide al proveedor terminar la sesión. Si falla, el estado local no cambia;
// si funciona, el SignedOut llega luego por la suscripción.
func (g *Gate) SignOut(ctx context.Context) error {
	if err := g.provider.EndSession(ctx, g.sessionID); err != nil {
		g.log.Warn().Err(err).Str("session_id", g.sessionID).Msg("cierre de sesión fallido")
		return err
	}
	return nil
}

func (g *Gate) deliver(sub *subscription, identity *entity.Identity) {
	next := stateFor(identity)

	g.mu.Lock()
	if sub.closed {
		g.mu.Unlock()
		return
	}
	// Loading se abandona exactamente una vez; luego solo se emiten cambios reales.
	if sub.loaded && sameState(g.state, next) {
		g.mu.Unlock()
		return
	}
	sub.loaded = true
	g.state = next
	sub.inflight.Add(1)
	g.mu.Unlock()
	defer sub.inflight.Done()

	select {
	case sub.out <- next:
	case <-sub.done:
	}
}

func (g *Gate) stop(sub *subscription) {
	g.mu.Lock()
	if sub.closed {
		g.mu.Unlock()
		return
	}
	sub.closed = true
	close(sub.done)
	unsubscribe := sub.unsubscribe
	if g.active == sub {
		g.active = nil
	}
	g.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
	sub.inflight.Wait()
	close(sub.out)
	g.log.Debug().Str("session_id", g.sessionID).Msg("gate desuscrito")
}

func stateFor(identity *entity.Identity) entity.SessionState {
	if identity == nil {
		return entity.SessionState{Status: entity.SessionSignedOut}
	}
	id := *identity
	return entity.SessionState{Status: entity.SessionSignedIn, Identity: &id}
}

func sameState(a, b entity.SessionState) bool {
	if a.Status != b.Status {
		return false
	}
	if a.Identity == nil || b.Identity == nil {
		return a.Identity == b.Identity
	}
	return *a.Identity == *b.Identity
}
