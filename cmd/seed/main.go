// seed carga el catálogo inicial (categorías, ingredientes con saldo inicial,
// empleados, productos con receta y órdenes de ejemplo) usando los casos de uso.
//
// Uso: go run ./cmd/seed [-file configs/catalog.yaml] [-migrate]
package main

import (
	"context"
	"flag"
	"os"

	"github.com/jhoicas/cafeteria-pos/internal/application/auth"
	"github.com/jhoicas/cafeteria-pos/internal/application/inventory"
	"github.com/jhoicas/cafeteria-pos/internal/application/order"
	"github.com/jhoicas/cafeteria-pos/internal/application/txretry"
	"github.com/jhoicas/cafeteria-pos/internal/application/usecase"
	"github.com/jhoicas/cafeteria-pos/internal/infrastructure/postgres"
	"github.com/jhoicas/cafeteria-pos/pkg/config"
	"github.com/jhoicas/cafeteria-pos/pkg/logger"
)

func main() {
	file := flag.String("file", "configs/catalog.yaml", "archivo YAML del catálogo")
	migrate := flag.Bool("migrate", false, "aplicar el esquema antes de cargar")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel}).Component("seed")

	f, err := os.Open(*file)
	if err != nil {
		log.Fatal().Err(err).Str("file", *file).Msg("abrir catálogo")
	}
	cat, err := loadCatalog(f)
	_ = f.Close()
	if err != nil {
		log.Fatal().Err(err).Msg("leer catálogo")
	}

	if cfg.Store.Driver == config.StoreDriverMemory {
		log.Fatal().Msg("el seed necesita STORE_DRIVER=postgres: en memoria los datos se pierden al salir")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()
	if *migrate || cfg.DB.AutoMigrate {
		if err := postgres.Migrate(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
	}

	repos := postgres.NewRepositories(pool)
	txRunner := txretry.New(postgres.NewTxRunner(pool), txretry.Config{
		MaxRetries:      cfg.Settlement.MaxRetries,
		InitialInterval: cfg.Settlement.InitialBackoff,
		MaxInterval:     cfg.Settlement.MaxBackoff,
	}, log)

	s := &seeder{
		products: usecase.NewProductUseCase(repos.Products, repos.Categories),
		stock:    inventory.NewStockUseCase(txRunner, repos, nil, log),
		recipes:  inventory.NewRecipeUseCase(txRunner, repos, log),
		auth: auth.NewAuthUseCase(repos.Employees, auth.JWTConfig{
			Secret: cfg.JWT.Secret, ExpMinutes: cfg.JWT.Expiration, Issuer: cfg.JWT.Issuer,
		}),
		settlement: order.NewSettlementUseCase(txRunner, repos, nil, log),
	}
	sum, err := s.apply(ctx, cat)
	if err != nil {
		log.Fatal().Err(err).Msg("cargar catálogo")
	}
	log.Info().
		Int("categories", sum.Categories).
		Int("ingredients", sum.Ingredients).
		Int("employees", sum.Employees).
		Int("products", sum.Products).
		Int("orders", sum.Orders).
		Msg("catálogo cargado")
}
