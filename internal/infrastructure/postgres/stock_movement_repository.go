package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/cafeteria-pos/internal/domain/entity"
	"github.com/jhoicas/cafeteria-pos/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo libro de movimientos de inventario sobre PostgreSQL (usable con pool o tx).
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create persiste un movimiento. Los movimientos nunca se modifican.
func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (id, ingredient_id, kind, delta, cost, reference, reason, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.IngredientID, m.Kind, m.Delta, m.Cost,
		nullIfEmpty(m.Reference), nullIfEmpty(m.Reason), nullIfEmpty(m.CreatedBy), m.CreatedAt,
	)
	return mapError("insert stock movement", err)
}

// ListByIngredient lista movimientos de un ingrediente en un rango de fechas, más recientes primero.
// limit <= 0 devuelve todos.
func (r *StockMovementRepo) ListByIngredient(ctx context.Context, ingredientID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	query := `
		SELECT id, ingredient_id, kind, delta, cost, reference, reason, created_by, created_at
		FROM stock_movements WHERE ingredient_id = $1`
	args := []any{ingredientID}
	pos := 2
	if from != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", pos)
		args = append(args, *from)
		pos++
	}
	if to != nil {
		query += fmt.Sprintf(" AND created_at <= $%d", pos)
		args = append(args, *to)
		pos++
	}
	query += " ORDER BY created_at DESC, seq DESC"
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", pos)
		args = append(args, limit)
		pos++
	}
	if offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", pos)
		args = append(args, offset)
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError("list stock movements", err)
	}
	defer rows.Close()
	list := []*entity.StockMovement{}
	for rows.Next() {
		var (
			m                          entity.StockMovement
			reference, reason, creator *string
		)
		if err := rows.Scan(&m.ID, &m.IngredientID, &m.Kind, &m.Delta, &m.Cost,
			&reference, &reason, &creator, &m.CreatedAt); err != nil {
			return nil, mapError("scan stock movement", err)
		}
		m.Reference = stringOrEmpty(reference)
		m.Reason = stringOrEmpty(reason)
		m.CreatedBy = stringOrEmpty(creator)
		list = append(list, &m)
	}
	return list, mapError("list stock movements", rows.Err())
}

// SumByIngredient suma de deltas del libro; debe coincidir con current_stock.
func (r *StockMovementRepo) SumByIngredient(ctx context.Context, ingredientID string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.q.QueryRow(ctx,
		`SELECT COALESCE(SUM(delta), 0) FROM stock_movements WHERE ingredient_id = $1`, ingredientID,
	).Scan(&total)
	if err != nil {
		return decimal.Zero, mapError("sum stock movements", err)
	}
	return total, nil
}
