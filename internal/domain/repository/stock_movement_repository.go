package repository

import "github.com/webgradu/stock-api/internal/domain/entity"

// StockMovementRepository define el puerto de persistencia del ledger de
// movimientos de stock (DIP).
//
// "Último movimiento" se resuelve por MovedAt descendente; a igualdad de
// MovedAt desempata el ID mayor, de forma determinista en todas las consultas.
type StockMovementRepository interface {
	Create(movement *entity.StockMovement) error

	// Latest devuelve el movimiento más reciente del producto, o nil si no hay.
	Latest(productID int64) (*entity.StockMovement, error)

	// LatestByProducts devuelve el movimiento más reciente por producto en una
	// sola consulta. Solo aparecen como claves los productos con al menos un
	// movimiento.
	LatestByProducts(productIDs []int64) (map[int64]*entity.StockMovement, error)

	// LatestForUpdate es Latest con bloqueo de fila (SELECT FOR UPDATE); usar
	// dentro de una transacción para serializar reabastecimientos concurrentes.
	LatestForUpdate(productID int64) (*entity.StockMovement, error)

	// FirstForUpdate devuelve el asiento más antiguo del producto con bloqueo
	// de fila, o nil si no hay. Es el registro que SetStock sobreescribe.
	FirstForUpdate(productID int64) (*entity.StockMovement, error)

	// UpdateQuantities sobreescribe initial_qty y current_qty de un asiento sin
	// tocar fecha ni tipo.
	UpdateQuantities(id int64, initialQty, currentQty int) error

	// ListByProduct devuelve el historial de movimientos (más reciente primero).
	ListByProduct(productID int64, limit, offset int) ([]*entity.StockMovement, error)

	CountByProduct(productID int64) (int, error)
}
