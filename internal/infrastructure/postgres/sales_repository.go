package postgres

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/cafeteria-pos/internal/domain/entity"
	"github.com/jhoicas/cafeteria-pos/internal/domain/repository"
)

var _ repository.SalesRepository = (*SalesRepo)(nil)

// SalesRepo consultas de reportes de ventas (solo lectura).
type SalesRepo struct {
	q Querier
}

// NewSalesRepository construye el adaptador.
func NewSalesRepository(q Querier) *SalesRepo {
	return &SalesRepo{q: q}
}

// Totals cantidad de órdenes e ingreso bruto del período.
func (r *SalesRepo) Totals(ctx context.Context, from, to time.Time) (entity.SalesTotals, error) {
	query := `
		SELECT COUNT(*), COALESCE(SUM(total_amount), 0)
		FROM orders
		WHERE status <> 'Cancelled' AND created_at >= $1 AND created_at < $2`
	var out entity.SalesTotals
	if err := r.q.QueryRow(ctx, query, from, to).Scan(&out.Orders, &out.Revenue); err != nil {
		return entity.SalesTotals{}, mapError("sales totals", err)
	}
	return out, nil
}

// TopProducts productos con mayor ingreso del período.
func (r *SalesRepo) TopProducts(ctx context.Context, from, to time.Time, limit int) ([]entity.ProductSales, error) {
	query := `
		SELECT l.product_id, p.name, SUM(l.quantity)::BIGINT, SUM(l.subtotal)
		FROM order_lines l
		JOIN orders o ON o.id = l.order_id
		JOIN products p ON p.id = l.product_id
		WHERE o.status <> 'Cancelled' AND o.created_at >= $1 AND o.created_at < $2
		GROUP BY l.product_id, p.name
		ORDER BY SUM(l.subtotal) DESC, l.product_id
		LIMIT $3`
	rows, err := r.q.Query(ctx, query, from, to, limit)
	if err != nil {
		return nil, mapError("top products", err)
	}
	defer rows.Close()
	list := []entity.ProductSales{}
	for rows.Next() {
		var ps entity.ProductSales
		if err := rows.Scan(&ps.ProductID, &ps.Name, &ps.Quantity, &ps.Revenue); err != nil {
			return nil, mapError("scan top product", err)
		}
		list = append(list, ps)
	}
	return list, mapError("top products", rows.Err())
}

// ConsumptionCost costo de los ingredientes consumidos por ventas en el período.
func (r *SalesRepo) ConsumptionCost(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(-m.delta * i.unit_cost), 0)
		FROM stock_movements m
		JOIN ingredients i ON i.id = m.ingredient_id
		WHERE m.kind = 'consumption' AND m.created_at >= $1 AND m.created_at < $2`
	var total decimal.Decimal
	if err := r.q.QueryRow(ctx, query, from, to).Scan(&total); err != nil {
		return decimal.Zero, mapError("consumption cost", err)
	}
	return total, nil
}
