package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/hubbi/inventario-core/internal/application/auth"
	appinv "github.com/hubbi/inventario-core/internal/application/inventory"
	appremission "github.com/hubbi/inventario-core/internal/application/remission"
	"github.com/hubbi/inventario-core/internal/domain/movement"
	infrapdf "github.com/hubbi/inventario-core/internal/infrastructure/pdf"
	"github.com/hubbi/inventario-core/internal/infrastructure/postgres"
	infraxml "github.com/hubbi/inventario-core/internal/infrastructure/xml"
	httpRouter "github.com/hubbi/inventario-core/internal/interfaces/http"
	"github.com/hubbi/inventario-core/pkg/config"
	"github.com/hubbi/inventario-core/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("profile", cfg.Inventory.Profile).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	itemRepo := postgres.NewItemRepository(pool)
	stockRepo := postgres.NewStockRepository(pool)
	movementRepo := postgres.NewMovementRepository(pool)
	remissionRepo := postgres.NewRemissionRepository(pool)

	provider := postgres.NewStateProvider(pool)
	engine := movement.NewEngine()
	manager := appinv.NewTransactionManager(provider, engine)
	alertsUC := appinv.NewStockAlertsUseCase(stockRepo)

	pdfGenerator := infrapdf.NewMarotoRemissionGenerator()
	xmlExporter := infraxml.NewRemissionExporter()
	remissionUC := appremission.NewUseCase(remissionRepo, movementRepo, itemRepo, pdfGenerator, xmlExporter)

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Inventario Core API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Manager:      manager,
		Engine:       engine,
		Provider:     provider,
		AlertsUC:     alertsUC,
		RemissionUC:  remissionUC,
		AuthUC:       authUC,
		MovementRepo: movementRepo,
		Inventory:    cfg.Inventory,
		JWTSecret:    cfg.JWT.Secret,
		Log:          log,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
