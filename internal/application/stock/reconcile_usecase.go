package stock

import (
	"context"
	"strconv"
	"strings"

	"github.com/webgradu/stock-api/internal/application/dto"
	"github.com/webgradu/stock-api/internal/application/media"
	"github.com/webgradu/stock-api/internal/domain"
	"github.com/webgradu/stock-api/internal/domain/entity"
	"github.com/webgradu/stock-api/internal/domain/repository"
)

// ReconcileUseCase clasifica el catálogo en productos con y sin registro de
// stock y adjunta el último movimiento conocido por producto. Una lectura del
// catálogo más una consulta batch al ledger, independiente del largo del
// historial de cada producto.
type ReconcileUseCase struct {
	productRepo repository.ProductRepository
	movRepo     repository.StockMovementRepository
	resolver    *media.Resolver
}

// NewReconcileUseCase construye el caso de uso.
func NewReconcileUseCase(
	productRepo repository.ProductRepository,
	movRepo repository.StockMovementRepository,
	resolver *media.Resolver,
) *ReconcileUseCase {
	return &ReconcileUseCase{productRepo: productRepo, movRepo: movRepo, resolver: resolver}
}

// Overview reconcilia el catálogo completo.
func (uc *ReconcileUseCase) Overview(ctx context.Context) (*dto.StockOverviewResponse, error) {
	products, err := uc.productRepo.List()
	if err != nil {
		return nil, err
	}
	return uc.reconcile(products)
}

// Search filtra el catálogo por nombre o código (substring, case-insensitive)
// y reconcilia solo los productos que coinciden. Un query vacío o de solo
// espacios retorna ErrEmptyQuery: el caller redirige al listado completo en
// vez de tratar el vacío como "coincide todo".
func (uc *ReconcileUseCase) Search(ctx context.Context, query string) (*dto.StockOverviewResponse, error) {
	if strings.TrimSpace(query) == "" {
		return nil, domain.ErrEmptyQuery
	}
	products, err := uc.productRepo.Search(query)
	if err != nil {
		return nil, err
	}
	return uc.reconcile(products)
}

// History devuelve el historial de movimientos de un producto, más reciente primero.
func (uc *ReconcileUseCase) History(ctx context.Context, productID int64, limit, offset int) (*dto.MovementListResponse, error) {
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	movs, err := uc.movRepo.ListByProduct(productID, limit, offset)
	if err != nil {
		return nil, err
	}
	total, err := uc.movRepo.CountByProduct(productID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovementResponse, 0, len(movs))
	for _, m := range movs {
		items = append(items, *movementToResponse(m))
	}
	return &dto.MovementListResponse{ProductID: productID, Total: total, Items: items}, nil
}

// reconcile hace la partición en una sola pasada preservando el orden del
// catálogo dentro de cada mitad.
func (uc *ReconcileUseCase) reconcile(products []*entity.Product) (*dto.StockOverviewResponse, error) {
	ids := make([]int64, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
	}
	latest, err := uc.movRepo.LatestByProducts(ids)
	if err != nil {
		return nil, err
	}

	out := &dto.StockOverviewResponse{
		WithStock:    []dto.ProductView{},
		WithoutStock: []dto.ProductView{},
		Movements:    make(map[string]dto.MovementResponse, len(latest)),
	}
	for _, p := range products {
		view := uc.productToView(p)
		if mov, ok := latest[p.ID]; ok {
			out.WithStock = append(out.WithStock, view)
			out.Movements[strconv.FormatInt(p.ID, 10)] = *movementToResponse(mov)
		} else {
			out.WithoutStock = append(out.WithoutStock, view)
		}
	}
	return out, nil
}

func (uc *ReconcileUseCase) productToView(p *entity.Product) dto.ProductView {
	return dto.ProductView{
		ID:       p.ID,
		Name:     p.Name,
		Code:     p.Code,
		Price:    p.Price,
		PhotoURL: uc.resolver.ResolveURL(p.PhotoRef),
	}
}
