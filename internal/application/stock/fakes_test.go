package stock_test

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/webgradu/stock-api/internal/domain/entity"
	"github.com/webgradu/stock-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes in-memory de los puertos. El fakeTxRunner serializa con un mutex, que
// es el mismo efecto que la transacción con FOR UPDATE tiene sobre mutaciones
// concurrentes del mismo producto.
// ──────────────────────────────────────────────────────────────────────────────

type fakeMovementRepo struct {
	mu        sync.Mutex
	movements []*entity.StockMovement
	nextID    int64
}

func newFakeMovementRepo() *fakeMovementRepo {
	return &fakeMovementRepo{nextID: 1}
}

func (r *fakeMovementRepo) add(m *entity.StockMovement) *entity.StockMovement {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *m
	cp.ID = r.nextID
	r.nextID++
	r.movements = append(r.movements, &cp)
	return &cp
}

func (r *fakeMovementRepo) Create(m *entity.StockMovement) error {
	created := r.add(m)
	m.ID = created.ID
	return nil
}

// latest aplica la regla de recencia: MovedAt mayor gana; a igualdad, ID mayor.
func (r *fakeMovementRepo) latest(productID int64) *entity.StockMovement {
	var best *entity.StockMovement
	for _, m := range r.movements {
		if m.ProductID != productID {
			continue
		}
		if best == nil || m.MovedAt.After(best.MovedAt) ||
			(m.MovedAt.Equal(best.MovedAt) && m.ID > best.ID) {
			best = m
		}
	}
	return best
}

func (r *fakeMovementRepo) Latest(productID int64) (*entity.StockMovement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m := r.latest(productID); m != nil {
		cp := *m
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeMovementRepo) LatestForUpdate(productID int64) (*entity.StockMovement, error) {
	return r.Latest(productID)
}

func (r *fakeMovementRepo) FirstForUpdate(productID int64) (*entity.StockMovement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.movements { // orden de inserción == id ascendente
		if m.ProductID == productID {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeMovementRepo) LatestByProducts(productIDs []int64) (map[int64]*entity.StockMovement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[int64]*entity.StockMovement)
	for _, id := range productIDs {
		if m := r.latest(id); m != nil {
			cp := *m
			out[id] = &cp
		}
	}
	return out, nil
}

func (r *fakeMovementRepo) UpdateQuantities(id int64, initialQty, currentQty int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.movements {
		if m.ID == id {
			m.InitialQty = initialQty
			m.CurrentQty = currentQty
			return nil
		}
	}
	return nil
}

func (r *fakeMovementRepo) ListByProduct(productID int64, limit, offset int) ([]*entity.StockMovement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var list []*entity.StockMovement
	for _, m := range r.movements {
		if m.ProductID == productID {
			cp := *m
			list = append(list, &cp)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].MovedAt.Equal(list[j].MovedAt) {
			return list[i].MovedAt.After(list[j].MovedAt)
		}
		return list[i].ID > list[j].ID
	})
	if offset >= len(list) {
		return nil, nil
	}
	list = list[offset:]
	if limit < len(list) {
		list = list[:limit]
	}
	return list, nil
}

func (r *fakeMovementRepo) CountByProduct(productID int64) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, m := range r.movements {
		if m.ProductID == productID {
			n++
		}
	}
	return n, nil
}

type fakeProductRepo struct {
	products []*entity.Product
}

func (r *fakeProductRepo) GetByID(id int64) (*entity.Product, error) {
	for _, p := range r.products {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, nil
}

func (r *fakeProductRepo) List() ([]*entity.Product, error) {
	return r.products, nil
}

func (r *fakeProductRepo) Search(query string) ([]*entity.Product, error) {
	q := strings.ToLower(query)
	var out []*entity.Product
	for _, p := range r.products {
		if strings.Contains(strings.ToLower(p.Name), q) || strings.Contains(strings.ToLower(p.Code), q) {
			out = append(out, p)
		}
	}
	return out, nil
}

// fakeTxRunner pasa siempre el mismo repo; el mutex garantiza que dos
// callbacks no se intercalen, como lo hace la tx real con FOR UPDATE.
type fakeTxRunner struct {
	mu   sync.Mutex
	repo *fakeMovementRepo
}

func (r *fakeTxRunner) Run(_ context.Context, fn func(movRepo repository.StockMovementRepository) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return fn(r.repo)
}
