package entity

import "time"

// Tipos de movimiento de stock. Se conservan los literales del esquema
// heredado para no romper los datos existentes.
const (
	MovementTypeInitial = "Inicial"
	MovementTypeRestock = "Reabastecimiento"
)

// Umbrales por defecto cuando se fija stock por primera vez.
const (
	DefaultMinQty = 5
	DefaultMaxQty = 30
)

// StockMovement representa un asiento del ledger de stock. El ledger es
// append-only: los movimientos no se borran y solo SetStock sobreescribe
// cantidades sobre un asiento existente (compatibilidad con el esquema
// heredado). El stock actual de un producto es el CurrentQty del movimiento
// más reciente; a igualdad de MovedAt gana el ID mayor.
type StockMovement struct {
	ID         int64
	ProductID  int64
	InitialQty int // cantidad ingresada en este movimiento
	CurrentQty int // stock acumulado tras el movimiento
	MinQty     int
	MaxQty     int
	Type       string // Inicial | Reabastecimiento
	MovedAt    time.Time
	CreatedBy  string // UserID del principal autenticado
}
