package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/cafeteria-pos/internal/application/analytics"
	"github.com/jhoicas/cafeteria-pos/internal/application/auth"
	"github.com/jhoicas/cafeteria-pos/internal/application/inventory"
	"github.com/jhoicas/cafeteria-pos/internal/application/order"
	"github.com/jhoicas/cafeteria-pos/internal/application/usecase"
	"github.com/jhoicas/cafeteria-pos/internal/domain/entity"
	"github.com/jhoicas/cafeteria-pos/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC        *auth.AuthUseCase
	ProductUC     *usecase.ProductUseCase
	Settlement    *order.SettlementUseCase
	OrderStatus   *order.StatusUseCase
	Receipts      *order.ReceiptUseCase
	Feasibility   *inventory.FeasibilityChecker
	Stock         *inventory.StockUseCase
	Replenishment *inventory.ReplenishmentUseCase
	Recipes       *inventory.RecipeUseCase
	Menu          *inventory.MenuUseCase
	Reports       *analytics.SalesReportUseCase
	JWTSecret     string
	Log           *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Log
	if log == nil {
		log = logger.NewNop()
	}
	api := app.Group("/api", withLogger(log.Component("http")))
	adminOnly := RequireRole(entity.RoleAdmin)

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	protected.Get("/me", authHandler.Me)

	employees := protected.Group("/employees", adminOnly)
	employees.Post("/", authHandler.CreateEmployee)
	employees.Get("/", authHandler.ListEmployees)

	// Órdenes
	orders := protected.Group("/orders")
	orderHandler := NewOrderHandler(deps.Settlement, deps.OrderStatus, deps.Feasibility, deps.Receipts)
	orders.Post("/", orderHandler.Place)
	orders.Post("/check", orderHandler.Check)
	orders.Get("/:id", orderHandler.GetByID)
	orders.Get("/:id/receipt", orderHandler.Receipt)
	orders.Patch("/:id/status", orderHandler.TransitionStatus)

	// Ingredientes
	ingredients := protected.Group("/ingredients")
	inventoryHandler := NewInventoryHandler(deps.Stock, deps.Replenishment)
	ingredients.Get("/", inventoryHandler.List)
	ingredients.Post("/", adminOnly, inventoryHandler.Create)
	ingredients.Get("/replenishment", adminOnly, inventoryHandler.GetReplenishmentList)
	ingredients.Get("/:id", inventoryHandler.GetByID)
	ingredients.Get("/:id/movements", inventoryHandler.ListMovements)
	ingredients.Get("/:id/reconciliation", inventoryHandler.Reconciliation)
	ingredients.Post("/:id/inventory", adminOnly, inventoryHandler.CorrectInventory)
	ingredients.Post("/:id/write-offs", inventoryHandler.WriteOff)
	ingredients.Post("/:id/supplies", adminOnly, inventoryHandler.ReceiveSupply)

	// Catálogo y recetas
	productHandler := NewProductHandler(deps.ProductUC)
	recipeHandler := NewRecipeHandler(deps.Recipes, deps.Menu)
	categories := protected.Group("/categories")
	categories.Get("/", productHandler.ListCategories)
	categories.Post("/", adminOnly, productHandler.CreateCategory)

	products := protected.Group("/products")
	products.Get("/", productHandler.List)
	products.Post("/", adminOnly, productHandler.Create)
	products.Get("/:id", productHandler.GetByID)
	products.Get("/:id/recipe", recipeHandler.GetRecipe)
	products.Put("/:id/recipe", adminOnly, recipeHandler.SetRecipe)

	protected.Get("/menu", recipeHandler.Menu)

	// Reportes
	reportHandler := NewReportHandler(deps.Reports)
	protected.Get("/reports/sales", adminOnly, reportHandler.Sales)
}
