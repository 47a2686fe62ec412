package entity

import "time"

// User cuenta local del proveedor de identidad.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Status       string // active, inactive
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Identity proyecta el usuario como principal de inventario.
func (u *User) Identity() Identity {
	return Identity{UID: u.ID, DisplayName: u.Name}
}
