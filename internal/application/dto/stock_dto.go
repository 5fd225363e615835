package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RestockRequest entrada para reabastecer un producto (suma sobre el stock
// actual). Quantity acepta cualquier entero; el ledger no valida cantidades.
type RestockRequest struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
	Quantity  int   `json:"quantity"`
}

// SetStockRequest entrada para fijar el stock de un producto en un valor absoluto.
type SetStockRequest struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
	Quantity  int   `json:"quantity"`
}

// MovementResponse salida de un movimiento del ledger.
type MovementResponse struct {
	ID         int64     `json:"id"`
	ProductID  int64     `json:"product_id"`
	InitialQty int       `json:"initial_qty"`
	CurrentQty int       `json:"current_qty"`
	MinQty     int       `json:"min_qty"`
	MaxQty     int       `json:"max_qty"`
	Type       string    `json:"type"`
	MovedAt    time.Time `json:"moved_at"`
}

// ProductView producto del catálogo con su foto ya resuelta a URL visible.
type ProductView struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Code     string          `json:"code"`
	Price    decimal.Decimal `json:"price"`
	PhotoURL string          `json:"photo_url"`
}

// StockOverviewResponse resultado de la reconciliación de stock: partición del
// catálogo en productos con y sin registro en el ledger, más el último
// movimiento conocido por producto (clave: product_id en texto, por JSON).
type StockOverviewResponse struct {
	WithStock    []ProductView               `json:"with_stock"`
	WithoutStock []ProductView               `json:"without_stock"`
	Movements    map[string]MovementResponse `json:"movements"`
}

// MovementListResponse historial de movimientos de un producto. Total es el
// conteo completo del ledger, no el tamaño de la página.
type MovementListResponse struct {
	ProductID int64              `json:"product_id"`
	Total     int                `json:"total"`
	Items     []MovementResponse `json:"items"`
}
