package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/webgradu/stock-api/internal/application/auth"
	"github.com/webgradu/stock-api/internal/application/stock"
	"github.com/webgradu/stock-api/internal/domain/entity"
	"github.com/webgradu/stock-api/pkg/validator"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Ledger    *stock.LedgerUseCase
	Reconcile *stock.ReconcileUseCase
	AuthUC    *auth.AuthUseCase
	Validator *validator.Validator
	JWTSecret string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC, deps.Validator)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Usuarios (protegido)
	protected.Put("/users/password", authHandler.ChangePassword)

	// Stock (protegido; mutaciones solo para admin y bodeguero)
	stockHandler := NewStockHandler(deps.Ledger, deps.Reconcile, deps.Validator)
	stockGroup := protected.Group("/stock")
	stockGroup.Get("/", stockHandler.Overview)
	stockGroup.Get("/search", stockHandler.Search)
	stockGroup.Get("/:id/movements", stockHandler.History)

	mutate := RequireRole(entity.RoleAdmin, entity.RoleBodeguero)
	stockGroup.Post("/", mutate, stockHandler.SetStock)
	stockGroup.Post("/restock", mutate, stockHandler.Restock)
}
