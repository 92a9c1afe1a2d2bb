package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/cafeteria-pos/internal/application/analytics"
	"github.com/jhoicas/cafeteria-pos/internal/application/auth"
	"github.com/jhoicas/cafeteria-pos/internal/application/inventory"
	"github.com/jhoicas/cafeteria-pos/internal/application/order"
	"github.com/jhoicas/cafeteria-pos/internal/application/ports"
	"github.com/jhoicas/cafeteria-pos/internal/application/txretry"
	"github.com/jhoicas/cafeteria-pos/internal/application/usecase"
	"github.com/jhoicas/cafeteria-pos/internal/domain/repository"
	"github.com/jhoicas/cafeteria-pos/internal/infrastructure/memory"
	"github.com/jhoicas/cafeteria-pos/internal/infrastructure/pdf"
	"github.com/jhoicas/cafeteria-pos/internal/infrastructure/postgres"
	"github.com/jhoicas/cafeteria-pos/internal/infrastructure/rabbitmq"
	httpRouter "github.com/jhoicas/cafeteria-pos/internal/interfaces/http"
	"github.com/jhoicas/cafeteria-pos/pkg/config"
	"github.com/jhoicas/cafeteria-pos/pkg/logger"
)

const (
	swaggerFile = "./docs/swagger.json"
	devSecret   = "dev-secret-no-usar-en-produccion"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Warn().Msg("JWT_SECRET vacío, usando secreto de desarrollo")
		cfg.JWT.Secret = devSecret
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		baseRunner ports.TxRunner
		repos      repository.Repositories
	)
	switch cfg.Store.Driver {
	case config.StoreDriverMemory:
		store := memory.New()
		baseRunner, repos = store, store.Repositories()
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if cfg.DB.AutoMigrate {
			if err := postgres.Migrate(ctx, pool); err != nil {
				log.Fatal().Err(err).Msg("migraciones")
			}
			log.Info().Msg("esquema al día")
		}
		baseRunner, repos = postgres.NewTxRunner(pool), postgres.NewRepositories(pool)
	}

	txRunner := txretry.New(baseRunner, txretry.Config{
		MaxRetries:      cfg.Settlement.MaxRetries,
		InitialInterval: cfg.Settlement.InitialBackoff,
		MaxInterval:     cfg.Settlement.MaxBackoff,
	}, log)

	var publisher ports.EventPublisher = ports.NopPublisher{}
	if cfg.Broker.Enabled() {
		pub, err := rabbitmq.Connect(cfg.Broker, log.Component("rabbitmq"))
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a RabbitMQ")
		}
		defer pub.Close()
		publisher = pub
	}

	authUC := auth.NewAuthUseCase(repos.Employees, auth.JWTConfig{
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
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.HTTP.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,PATCH,OPTIONS",
	}))

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Cafetería POS API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	orderStatus := order.NewStatusUseCase(txRunner, repos, publisher, log)
	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:        authUC,
		ProductUC:     usecase.NewProductUseCase(repos.Products, repos.Categories),
		Settlement:    order.NewSettlementUseCase(txRunner, repos, publisher, log),
		OrderStatus:   orderStatus,
		Receipts:      order.NewReceiptUseCase(orderStatus, repos, pdf.NewMarotoReceiptRenderer(), cfg.App.Name),
		Feasibility:   inventory.NewFeasibilityChecker(repos),
		Stock:         inventory.NewStockUseCase(txRunner, repos, publisher, log),
		Replenishment: inventory.NewReplenishmentUseCase(repos.Ingredients),
		Recipes:       inventory.NewRecipeUseCase(txRunner, repos, log),
		Menu:          inventory.NewMenuUseCase(repos),
		Reports:       analytics.NewSalesReportUseCase(repos.Sales),
		JWTSecret:     cfg.JWT.Secret,
		Log:           log,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", cfg.HTTP.Addr()).Msg("servidor HTTP escuchando")
		return app.Listen(cfg.HTTP.Addr())
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("señal de apagado recibida, cerrando servidor...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return app.ShutdownWithContext(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("servidor HTTP finalizado con error")
	}
	log.Info().Msg("aplicación detenida")
}
