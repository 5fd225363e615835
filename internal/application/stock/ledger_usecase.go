package stock

import (
	"context"
	"time"

	"github.com/webgradu/stock-api/internal/application/dto"
	"github.com/webgradu/stock-api/internal/domain"
	"github.com/webgradu/stock-api/internal/domain/entity"
	"github.com/webgradu/stock-api/internal/domain/repository"
)

// LedgerUseCase registra mutaciones sobre el ledger de movimientos de stock.
// Cada operación corre en una transacción con bloqueo de fila para que dos
// peticiones concurrentes sobre el mismo producto no pierdan actualizaciones.
// El principal autenticado (userID) entra como argumento explícito y queda
// registrado en el movimiento; no hay estado de sesión ambiente.
type LedgerUseCase struct {
	txRunner    TxRunner
	productRepo repository.ProductRepository
}

// NewLedgerUseCase construye el caso de uso.
func NewLedgerUseCase(txRunner TxRunner, productRepo repository.ProductRepository) *LedgerUseCase {
	return &LedgerUseCase{txRunner: txRunner, productRepo: productRepo}
}

// Restock agrega un asiento de reabastecimiento: el nuevo CurrentQty es el del
// último movimiento más qty, con los umbrales copiados de ese movimiento.
// Si el producto no existe retorna ErrNotFound. Si el producto no tiene ningún
// movimiento retorna ErrNoMovement sin escribir nada. Acepta cualquier entero;
// no valida cantidades negativas.
func (uc *LedgerUseCase) Restock(ctx context.Context, userID string, productID int64, qty int) (*dto.MovementResponse, error) {
	if err := uc.checkProduct(productID); err != nil {
		return nil, err
	}

	var created *entity.StockMovement
	err := uc.txRunner.Run(ctx, func(movRepo repository.StockMovementRepository) error {
		last, err := movRepo.LatestForUpdate(productID)
		if err != nil {
			return err
		}
		if last == nil {
			return domain.ErrNoMovement
		}
		mov := &entity.StockMovement{
			ProductID:  productID,
			InitialQty: qty,
			CurrentQty: last.CurrentQty + qty,
			MinQty:     last.MinQty,
			MaxQty:     last.MaxQty,
			Type:       entity.MovementTypeRestock,
			MovedAt:    time.Now(),
			CreatedBy:  userID,
		}
		if err := movRepo.Create(mov); err != nil {
			return err
		}
		created = mov
		return nil
	})
	if err != nil {
		return nil, err
	}
	return movementToResponse(created), nil
}

// SetStock fija el stock de un producto en un valor absoluto. Si el producto
// no tiene asientos crea uno "Inicial" con umbrales por defecto; si ya tiene,
// sobreescribe initial/current del asiento más antiguo sin tocar su fecha ni
// tipo (compatibilidad con el esquema heredado). Idempotente para un mismo qty.
func (uc *LedgerUseCase) SetStock(ctx context.Context, userID string, productID int64, qty int) (*dto.MovementResponse, error) {
	if err := uc.checkProduct(productID); err != nil {
		return nil, err
	}

	var result *entity.StockMovement
	err := uc.txRunner.Run(ctx, func(movRepo repository.StockMovementRepository) error {
		existing, err := movRepo.FirstForUpdate(productID)
		if err != nil {
			return err
		}
		if existing == nil {
			mov := &entity.StockMovement{
				ProductID:  productID,
				InitialQty: qty,
				CurrentQty: qty,
				MinQty:     entity.DefaultMinQty,
				MaxQty:     entity.DefaultMaxQty,
				Type:       entity.MovementTypeInitial,
				MovedAt:    time.Now(),
				CreatedBy:  userID,
			}
			if err := movRepo.Create(mov); err != nil {
				return err
			}
			result = mov
			return nil
		}
		if err := movRepo.UpdateQuantities(existing.ID, qty, qty); err != nil {
			return err
		}
		existing.InitialQty = qty
		existing.CurrentQty = qty
		result = existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return movementToResponse(result), nil
}

func (uc *LedgerUseCase) checkProduct(productID int64) error {
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}
	return nil
}

func movementToResponse(m *entity.StockMovement) *dto.MovementResponse {
	if m == nil {
		return nil
	}
	return &dto.MovementResponse{
		ID:         m.ID,
		ProductID:  m.ProductID,
		InitialQty: m.InitialQty,
		CurrentQty: m.CurrentQty,
		MinQty:     m.MinQty,
		MaxQty:     m.MaxQty,
		Type:       m.Type,
		MovedAt:    m.MovedAt,
	}
}
