package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/webgradu/stock-api/internal/application/dto"
	"github.com/webgradu/stock-api/internal/application/stock"
	"github.com/webgradu/stock-api/internal/domain"
	"github.com/webgradu/stock-api/pkg/validator"
)

// StockListPath ruta del listado de stock; las mutaciones y la búsqueda vacía
// redirigen aquí, como hacía la pantalla de gestión original.
const StockListPath = "/api/stock"

// StockHandler maneja las peticiones HTTP de stock (protegido).
type StockHandler struct {
	ledger    *stock.LedgerUseCase
	reconcile *stock.ReconcileUseCase
	v         *validator.Validator
}

// NewStockHandler construye el handler.
func NewStockHandler(ledger *stock.LedgerUseCase, reconcile *stock.ReconcileUseCase, v *validator.Validator) *StockHandler {
	return &StockHandler{ledger: ledger, reconcile: reconcile, v: v}
}

// Overview godoc
// @Summary      Listado de stock reconciliado
// @Description  Particiona el catálogo en productos con y sin registro de stock
//
//	y adjunta el último movimiento por producto.
//
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.StockOverviewResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/stock [get]
func (h *StockHandler) Overview(c *fiber.Ctx) error {
	out, err := h.reconcile.Overview(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// Search godoc
// @Summary      Buscar productos y reconciliar
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        query  query  string  true  "texto a buscar en nombre o código"
// @Success      200  {object}  dto.StockOverviewResponse
// @Success      303  "query vacío: redirige al listado completo"
// @Router       /api/stock/search [get]
func (h *StockHandler) Search(c *fiber.Ctx) error {
	out, err := h.reconcile.Search(c.Context(), c.Query("query"))
	if err != nil {
		if errors.Is(err, domain.ErrEmptyQuery) {
			return c.Redirect(StockListPath, fiber.StatusSeeOther)
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// History godoc
// @Summary      Historial de movimientos de un producto
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id      path   int  true   "ID del producto"
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200  {object}  dto.MovementListResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/{id}/movements [get]
func (h *StockHandler) History(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ID", Message: "id inválido"})
	}
	limit := c.QueryInt("limit", 20)
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}
	out, err := h.reconcile.History(c.Context(), int64(id), limit, offset)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// Restock godoc
// @Summary      Reabastecer un producto
// @Description  Agrega un asiento de reabastecimiento sumando sobre el último
//
//	movimiento. Si el producto no tiene movimientos responde 404 y
//	no escribe nada.
//
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Param        body  body  dto.RestockRequest  true  "product_id, quantity"
// @Success      303   "redirige al listado de stock"
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/stock/restock [post]
func (h *StockHandler) Restock(c *fiber.Ctx) error {
	var in dto.RestockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.v.Validate(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: validator.Message(err)})
	}
	if _, err := h.ledger.Restock(c.Context(), GetUserID(c), in.ProductID, in.Quantity); err != nil {
		return h.mutationError(c, err)
	}
	return c.Redirect(StockListPath, fiber.StatusSeeOther)
}

// SetStock godoc
// @Summary      Fijar stock absoluto de un producto
// @Description  Crea el asiento inicial (umbrales por defecto) o sobreescribe
//
//	las cantidades del asiento existente. Idempotente.
//
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Param        body  body  dto.SetStockRequest  true  "product_id, quantity"
// @Success      303   "redirige al listado de stock"
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/stock [post]
func (h *StockHandler) SetStock(c *fiber.Ctx) error {
	var in dto.SetStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.v.Validate(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: validator.Message(err)})
	}
	if _, err := h.ledger.SetStock(c.Context(), GetUserID(c), in.ProductID, in.Quantity); err != nil {
		return h.mutationError(c, err)
	}
	return c.Redirect(StockListPath, fiber.StatusSeeOther)
}

func (h *StockHandler) mutationError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto no encontrado"})
	case errors.Is(err, domain.ErrNoMovement):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NO_MOVEMENT", Message: "el producto no tiene movimientos de stock"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
