package stock

import (
	"context"

	"github.com/webgradu/stock-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando un
// repositorio de movimientos atado a esa tx. Las mutaciones del ledger hacen
// leer-luego-escribir; la transacción más el bloqueo de fila (FOR UPDATE)
// serializa mutaciones concurrentes sobre el mismo producto.
type TxRunner interface {
	Run(ctx context.Context, fn func(movRepo repository.StockMovementRepository) error) error
}
