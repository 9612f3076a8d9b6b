package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrUnknownMovement    = errors.New("tipo de movimiento desconocido")
	ErrValidation         = errors.New("movimiento no pasó la validación")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrStaleStock         = errors.New("el stock cambió desde la preparación")
	ErrInsufficientStock  = errors.New("stock insuficiente")
)
