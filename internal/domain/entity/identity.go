package entity

import "time"

// Identity es el principal autenticado. UID es la clave de partición del inventario.
type Identity struct {
	UID         string `json:"uid"`
	DisplayName string `json:"display_name"`
}

// Session es una sesión emitida por el proveedor de identidad.
type Session struct {
	ID        string    `json:"id"`
	Identity  Identity  `json:"identity"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SessionStatus estados del Session Gate.
type SessionStatus string

const (
	SessionUninitialized SessionStatus = "uninitialized"
	SessionLoading       SessionStatus = "loading"
	SessionSignedOut     SessionStatus = "signed_out"
	SessionSignedIn      SessionStatus = "signed_in"
)

// SessionState es el valor que publica el Session Gate. Identity solo es no-nil en SignedIn.
type SessionState struct {
	Status   SessionStatus `json:"status"`
	Identity *Identity     `json:"identity,omitempty"`
}

// SignedIn indica si el estado tiene identidad utilizable.
func (s SessionState) SignedIn() bool {
	return s.Status == SessionSignedIn && s.Identity != nil
}
