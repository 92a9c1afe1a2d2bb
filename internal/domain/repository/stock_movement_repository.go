package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/cafeteria-pos/internal/domain/entity"
)

// StockMovementRepository define el puerto del ledger de movimientos (solo inserción).
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	ListByIngredient(ctx context.Context, ingredientID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error)
	SumByIngredient(ctx context.Context, ingredientID string) (decimal.Decimal, error)
}
