package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("usuario inactivo")
	ErrSessionNotFound    = errors.New("sesión inexistente o expirada")

	// ErrNoIdentity se devuelve cuando una operación de inventario se invoca sin identidad.
	// Es un error de programación: el llamador debe pasar por el Session Gate antes.
	ErrNoIdentity = errors.New("operación de inventario sin identidad")

	// ErrAlreadySubscribed: un Gate admite una sola suscripción activa al proveedor.
	ErrAlreadySubscribed = errors.New("el gate ya tiene una suscripción activa")
)
