package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// migration versión de esquema aplicada una sola vez.
type migration struct {
	Version string
	Name    string
	Up      string
}

var migrations = []migration{
	{
		Version: "20260101000001",
		Name:    "create_employees",
		Up: `
CREATE TABLE IF NOT EXISTS employees (
    id            TEXT PRIMARY KEY,
    name          TEXT NOT NULL,
    phone         TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    role          TEXT NOT NULL CHECK (role IN ('Barista', 'Admin')),
    is_active     BOOLEAN NOT NULL DEFAULT TRUE,
    created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`,
	},
	{
		Version: "20260101000002",
		Name:    "create_catalog",
		Up: `
CREATE TABLE IF NOT EXISTS categories (
    id   TEXT PRIMARY KEY,
    name TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS products (
    id          TEXT PRIMARY KEY,
    category_id TEXT REFERENCES categories (id),
    name        TEXT NOT NULL,
    description TEXT,
    price       NUMERIC(12, 2) NOT NULL CHECK (price >= 0),
    is_active   BOOLEAN NOT NULL DEFAULT TRUE,
    created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_products_active ON products (is_active, name);`,
	},
	{
		Version: "20260101000003",
		Name:    "create_ingredients_and_recipes",
		Up: `
CREATE TABLE IF NOT EXISTS ingredients (
    id                TEXT PRIMARY KEY,
    name              TEXT NOT NULL,
    unit              TEXT NOT NULL,
    current_stock     NUMERIC(14, 4) NOT NULL CHECK (current_stock >= 0),
    warning_threshold NUMERIC(14, 4) NOT NULL DEFAULT 0 CHECK (warning_threshold >= 0),
    unit_cost         NUMERIC(14, 4) NOT NULL DEFAULT 0,
    created_at        TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at        TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS recipe_lines (
    product_id        TEXT NOT NULL REFERENCES products (id) ON DELETE CASCADE,
    ingredient_id     TEXT NOT NULL REFERENCES ingredients (id),
    quantity_required NUMERIC(14, 4) NOT NULL CHECK (quantity_required > 0),
    position          INT NOT NULL,
    UNIQUE (product_id, ingredient_id)
);`,
	},
	{
		Version: "20260101000004",
		Name:    "create_orders",
		Up: `
CREATE TABLE IF NOT EXISTS orders (
    id             TEXT PRIMARY KEY,
    employee_id    TEXT NOT NULL,
    total_amount   NUMERIC(12, 2) NOT NULL,
    payment_method TEXT NOT NULL,
    status         TEXT NOT NULL CHECK (status IN ('Paid', 'Completed', 'Cancelled')),
    created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    completed_at   TIMESTAMPTZ,
    updated_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS order_lines (
    line_no    BIGSERIAL,
    id         TEXT PRIMARY KEY,
    order_id   TEXT NOT NULL REFERENCES orders (id),
    product_id TEXT NOT NULL REFERENCES products (id),
    quantity   INT NOT NULL CHECK (quantity > 0),
    unit_price NUMERIC(12, 2) NOT NULL,
    subtotal   NUMERIC(12, 2) NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_order_lines_order ON order_lines (order_id, line_no);`,
	},
	{
		Version: "20260101000005",
		Name:    "create_stock_movements",
		Up: `
CREATE TABLE IF NOT EXISTS stock_movements (
    seq           BIGSERIAL,
    id            TEXT PRIMARY KEY,
    ingredient_id TEXT NOT NULL REFERENCES ingredients (id),
    kind          TEXT NOT NULL CHECK (kind IN ('supply', 'consumption', 'write_off', 'correction')),
    delta         NUMERIC(14, 4) NOT NULL,
    cost          NUMERIC(14, 4),
    reference     TEXT,
    reason        TEXT,
    created_by    TEXT,
    created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_stock_movements_ingredient ON stock_movements (ingredient_id, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_stock_movements_reference ON stock_movements (reference);`,
	},
	{
		Version: "20260101000006",
		Name:    "sales_report_indexes",
		Up: `
CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders (created_at);
CREATE INDEX IF NOT EXISTS idx_stock_movements_kind_created ON stock_movements (kind, created_at);`,
	},
}

// Migrate aplica en orden las versiones pendientes, cada una en su propia transacción.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS schema_migrations (
    version    TEXT PRIMARY KEY,
    name       TEXT NOT NULL,
    applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}
	for _, m := range migrations {
		if err := apply(ctx, pool, m); err != nil {
			return fmt.Errorf("migración %s (%s): %w", m.Version, m.Name, err)
		}
	}
	return nil
}

func apply(ctx context.Context, pool *pgxpool.Pool, m migration) error {
	tx, err := pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var applied bool
	if err := tx.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE version = $1)`, m.Version,
	).Scan(&applied); err != nil {
		return err
	}
	if applied {
		return nil
	}
	if _, err := tx.Exec(ctx, m.Up); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx,
		`INSERT INTO schema_migrations (version, name) VALUES ($1, $2)`, m.Version, m.Name,
	); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
