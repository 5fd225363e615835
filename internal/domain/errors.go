package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")

	// ErrNoMovement indica que un producto no tiene ningún movimiento en el
	// ledger. El sistema anterior ignoraba el reabastecimiento en este caso sin
	// avisar; aquí la condición se reporta al caller y no se escribe nada.
	ErrNoMovement = errors.New("el producto no tiene movimientos de stock")

	// ErrEmptyQuery indica búsqueda con query vacío o solo espacios; el caller
	// debe redirigir al listado sin filtrar en vez de devolver todo el catálogo.
	ErrEmptyQuery = errors.New("consulta de búsqueda vacía")
)
