package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/hubbi/inventario-core/internal/application/auth"
	appinv "github.com/hubbi/inventario-core/internal/application/inventory"
	"github.com/hubbi/inventario-core/internal/application/remission"
	"github.com/hubbi/inventario-core/internal/domain/entity"
	"github.com/hubbi/inventario-core/internal/domain/movement"
	"github.com/hubbi/inventario-core/internal/domain/repository"
	"github.com/hubbi/inventario-core/pkg/config"
	"github.com/hubbi/inventario-core/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Manager      *appinv.TransactionManager
	Engine       *movement.Engine
	Provider     appinv.DataProvider
	AlertsUC     *appinv.StockAlertsUseCase
	RemissionUC  *remission.UseCase
	AuthUC       *auth.AuthUseCase
	MovementRepo repository.MovementRepository
	Inventory    config.InventoryConfig
	JWTSecret    string
	Log          *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Movimientos de inventario (protegido)
	invGroup := protected.Group("/inventory")
	movementHandler := NewMovementHandler(
		deps.Manager,
		deps.Engine,
		deps.Provider,
		deps.AlertsUC,
		deps.MovementRepo,
		deps.Inventory,
		deps.Log,
	)
	invGroup.Get("/movement-types", movementHandler.ListTypes)
	invGroup.Post("/movements/validate", movementHandler.Validate)
	invGroup.Post("/movements/prepare", movementHandler.Prepare)
	invGroup.Post("/movements/batch", movementHandler.RegisterBatch)
	invGroup.Post("/movements", movementHandler.Register)
	invGroup.Get("/movements", movementHandler.ListMovements)
	invGroup.Get("/alerts", movementHandler.ListAlerts)

	// Aprobaciones pendientes: solo roles elevados pueden revisarlas.
	invGroup.Get("/movements/pending",
		RequireRole(entity.RoleAdmin, entity.RoleSupervisor),
		movementHandler.ListPendingApprovals,
	)

	// Remisiones (protegido)
	remissions := invGroup.Group("/remissions")
	remissionHandler := NewRemissionHandler(deps.RemissionUC)
	remissions.Post("/", remissionHandler.Create)
	remissions.Get("/:id", remissionHandler.Get)
	remissions.Get("/:id/pdf", remissionHandler.RenderPDF)
	remissions.Get("/:id/xml", remissionHandler.RenderXML)
}
