package repository

import (
	"context"

	"github.com/jhoicas/inventory-tracker/internal/domain/entity"
)

// SessionListener recibe la identidad actual de la sesión, o nil si ya no hay sesión.
type SessionListener func(identity *entity.Identity)

// IdentityProvider puerto push del proveedor de identidad.
type IdentityProvider interface {
	// OnSessionChange registra un listener para la sesión indicada. El listener se invoca
	// al menos una vez con el estado actual y luego en cada cambio. La función devuelta
	// lo desregistra.
	OnSessionChange(ctx context.Context, sessionID string, fn SessionListener) (unsubscribe func(), err error)
	// EndSession termina la sesión; los listeners reciben nil después.
	EndSession(ctx context.Context, sessionID string) error
}

// SessionRepository persistencia de sesiones emitidas en el login.
type SessionRepository interface {
	Create(ctx context.Context, session *entity.Session) error
	// Get devuelve nil, nil si la sesión no existe o expiró.
	Get(ctx context.Context, sessionID string) (*entity.Session, error)
}
