package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webgradu/stock-api/internal/application/auth"
	"github.com/webgradu/stock-api/internal/application/dto"
	"github.com/webgradu/stock-api/internal/application/media"
	"github.com/webgradu/stock-api/internal/application/stock"
	"github.com/webgradu/stock-api/internal/domain/entity"
	"github.com/webgradu/stock-api/internal/domain/repository"
	apphttp "github.com/webgradu/stock-api/internal/interfaces/http"
	"github.com/webgradu/stock-api/pkg/validator"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes in-memory para montar la app completa sin Postgres.
// ──────────────────────────────────────────────────────────────────────────────

type memMovementRepo struct {
	mu        sync.Mutex
	movements []*entity.StockMovement
	nextID    int64
}

func newMemMovementRepo() *memMovementRepo {
	return &memMovementRepo{nextID: 1}
}

func (r *memMovementRepo) Create(m *entity.StockMovement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *m
	cp.ID = r.nextID
	r.nextID++
	r.movements = append(r.movements, &cp)
	m.ID = cp.ID
	return nil
}

func (r *memMovementRepo) latest(productID int64) *entity.StockMovement {
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

func (r *memMovementRepo) Latest(productID int64) (*entity.StockMovement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m := r.latest(productID); m != nil {
		cp := *m
		return &cp, nil
	}
	return nil, nil
}

func (r *memMovementRepo) LatestForUpdate(productID int64) (*entity.StockMovement, error) {
	return r.Latest(productID)
}

func (r *memMovementRepo) FirstForUpdate(productID int64) (*entity.StockMovement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.movements {
		if m.ProductID == productID {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memMovementRepo) LatestByProducts(productIDs []int64) (map[int64]*entity.StockMovement, error) {
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

func (r *memMovementRepo) UpdateQuantities(id int64, initialQty, currentQty int) error {
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

func (r *memMovementRepo) ListByProduct(productID int64, limit, offset int) ([]*entity.StockMovement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var list []*entity.StockMovement
	for _, m := range r.movements {
		if m.ProductID == productID {
			cp := *m
			list = append(list, &cp)
		}
	}
	if offset >= len(list) {
		return nil, nil
	}
	list = list[offset:]
	if limit < len(list) {
		list = list[:limit]
	}
	return list, nil
}

func (r *memMovementRepo) CountByProduct(productID int64) (int, error) {
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

type memProductRepo struct {
	products []*entity.Product
}

func (r *memProductRepo) GetByID(id int64) (*entity.Product, error) {
	for _, p := range r.products {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, nil
}

func (r *memProductRepo) List() ([]*entity.Product, error) {
	return r.products, nil
}

func (r *memProductRepo) Search(query string) ([]*entity.Product, error) {
	q := strings.ToLower(query)
	var out []*entity.Product
	for _, p := range r.products {
		if strings.Contains(strings.ToLower(p.Name), q) || strings.Contains(strings.ToLower(p.Code), q) {
			out = append(out, p)
		}
	}
	return out, nil
}

type memTxRunner struct {
	mu   sync.Mutex
	repo *memMovementRepo
}

func (r *memTxRunner) Run(_ context.Context, fn func(movRepo repository.StockMovementRepository) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return fn(r.repo)
}

type memImageHost struct{}

func (memImageHost) SecureURL(publicID string) (string, error) {
	return "https://img.test/" + publicID, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Montaje de la app
// ──────────────────────────────────────────────────────────────────────────────

type stockApp struct {
	app      *fiber.App
	products *memProductRepo
	movs     *memMovementRepo
}

func buildStockApp(t *testing.T) *stockApp {
	t.Helper()
	products := &memProductRepo{products: []*entity.Product{
		{ID: 1, Name: "Taladro", Code: "TAL-01", Price: decimal.NewFromInt(120), PhotoRef: "taladro"},
		{ID: 2, Name: "Martillo", Code: "MAR-01", Price: decimal.NewFromInt(35)},
	}}
	movs := newMemMovementRepo()
	txr := &memTxRunner{repo: movs}

	ledger := stock.NewLedgerUseCase(txr, products)
	reconcile := stock.NewReconcileUseCase(products, movs, media.NewResolver(memImageHost{}))
	authUC := auth.NewAuthUseCase(nil, auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer})

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		Ledger:    ledger,
		Reconcile: reconcile,
		AuthUC:    authUC,
		Validator: validator.New(),
		JWTSecret: testJWTSecret,
	})
	return &stockApp{app: app, products: products, movs: movs}
}

// seedMovement agrega un asiento existente para el producto indicado.
func (s *stockApp) seedMovement(t *testing.T, productID int64, currentQty int) {
	t.Helper()
	err := s.movs.Create(&entity.StockMovement{
		ProductID:  productID,
		InitialQty: currentQty,
		CurrentQty: currentQty,
		MinQty:     entity.DefaultMinQty,
		MaxQty:     entity.DefaultMaxQty,
		Type:       entity.MovementTypeInitial,
		MovedAt:    time.Now().Add(-time.Hour),
		CreatedBy:  testUserID,
	})
	require.NoError(t, err)
}

func (s *stockApp) do(t *testing.T, method, target, token, body string) *http.Response {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestStockOverview_ParticionaYResuelveImagenes(t *testing.T) {
	s := buildStockApp(t)
	s.seedMovement(t, 1, 20)

	resp := s.do(t, http.MethodGet, "/api/stock/", tokenForRole(t, "vendedor"), "")
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out dto.StockOverviewResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))

	require.Len(t, out.WithStock, 1)
	require.Len(t, out.WithoutStock, 1)
	assert.Equal(t, int64(1), out.WithStock[0].ID)
	assert.Equal(t, "https://img.test/taladro", out.WithStock[0].PhotoURL)
	assert.Equal(t, media.DefaultImagePath, out.WithoutStock[0].PhotoURL)
	assert.Equal(t, 20, out.Movements["1"].CurrentQty)
}

func TestStockSearch_QueryVacio_RedirigeAlListado(t *testing.T) {
	s := buildStockApp(t)

	resp := s.do(t, http.MethodGet, "/api/stock/search?query=%20%20", tokenForRole(t, "vendedor"), "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, apphttp.StockListPath, resp.Header.Get("Location"))
}

func TestStockSearch_ConQuery_Filtra(t *testing.T) {
	s := buildStockApp(t)
	s.seedMovement(t, 1, 20)

	resp := s.do(t, http.MethodGet, "/api/stock/search?query=tal", tokenForRole(t, "vendedor"), "")
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out dto.StockOverviewResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.Len(t, out.WithStock, 1)
	assert.Empty(t, out.WithoutStock)
}

func TestRestock_Exitoso_RedirigeYSuma(t *testing.T) {
	s := buildStockApp(t)
	s.seedMovement(t, 1, 20)

	resp := s.do(t, http.MethodPost, "/api/stock/restock", tokenForRole(t, "bodeguero"),
		`{"product_id":1,"quantity":15}`)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusSeeOther, resp.StatusCode,
		"la mutación debe redirigir al listado")
	assert.Equal(t, apphttp.StockListPath, resp.Header.Get("Location"))

	last, _ := s.movs.Latest(1)
	require.NotNil(t, last)
	assert.Equal(t, 35, last.CurrentQty)
	assert.Equal(t, entity.MovementTypeRestock, last.Type)
	assert.Equal(t, testUserID, last.CreatedBy, "el asiento debe registrar al principal del token")
}

func TestRestock_SinMovimientos_Retorna404(t *testing.T) {
	s := buildStockApp(t)

	resp := s.do(t, http.MethodPost, "/api/stock/restock", tokenForRole(t, "admin"),
		`{"product_id":1,"quantity":15}`)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var body dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "NO_MOVEMENT", body.Code)

	n, _ := s.movs.CountByProduct(1)
	assert.Zero(t, n, "no debe escribirse ningún asiento")
}

func TestSetStock_CreaAsiento_YRedirige(t *testing.T) {
	s := buildStockApp(t)

	resp := s.do(t, http.MethodPost, "/api/stock/", tokenForRole(t, "admin"),
		`{"product_id":2,"quantity":40}`)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)

	last, _ := s.movs.Latest(2)
	require.NotNil(t, last)
	assert.Equal(t, 40, last.CurrentQty)
	assert.Equal(t, entity.MovementTypeInitial, last.Type)
	assert.Equal(t, entity.DefaultMinQty, last.MinQty)
	assert.Equal(t, entity.DefaultMaxQty, last.MaxQty)
}

func TestMutaciones_RequierenToken(t *testing.T) {
	s := buildStockApp(t)

	resp := s.do(t, http.MethodPost, "/api/stock/restock", "",
		`{"product_id":1,"quantity":15}`)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestMutaciones_VendedorBloqueado(t *testing.T) {
	s := buildStockApp(t)
	s.seedMovement(t, 1, 20)

	resp := s.do(t, http.MethodPost, "/api/stock/restock", tokenForRole(t, "vendedor"),
		`{"product_id":1,"quantity":15}`)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode,
		"vendedor no puede mutar stock")

	n, _ := s.movs.CountByProduct(1)
	assert.Equal(t, 1, n, "solo debe existir el asiento sembrado")
}

func TestRestock_BodyInvalido_Retorna400(t *testing.T) {
	s := buildStockApp(t)

	resp := s.do(t, http.MethodPost, "/api/stock/restock", tokenForRole(t, "admin"),
		`{"product_id":0,"quantity":15}`)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHistory_ProductoInexistente_Retorna404(t *testing.T) {
	s := buildStockApp(t)

	resp := s.do(t, http.MethodGet, "/api/stock/99/movements", tokenForRole(t, "vendedor"), "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHistory_DevuelveMovimientos(t *testing.T) {
	s := buildStockApp(t)
	s.seedMovement(t, 1, 20)

	respOK := s.do(t, http.MethodPost, "/api/stock/restock", tokenForRole(t, "admin"),
		`{"product_id":1,"quantity":5}`)
	respOK.Body.Close()

	resp := s.do(t, http.MethodGet, "/api/stock/1/movements", tokenForRole(t, "vendedor"), "")
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out dto.MovementListResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, int64(1), out.ProductID)
	assert.Equal(t, 2, out.Total)
	assert.Len(t, out.Items, 2)
}
