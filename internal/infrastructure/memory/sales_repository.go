package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/cafeteria-pos/internal/domain/entity"
	"github.com/jhoicas/cafeteria-pos/internal/domain/repository"
)

var _ repository.SalesRepository = (*salesRepo)(nil)

// salesRepo lee solo datos confirmados.
type salesRepo struct{ s *Store }

func inRange(t, from, to time.Time) bool {
	return !t.Before(from) && t.Before(to)
}

func (r *salesRepo) Totals(_ context.Context, from, to time.Time) (entity.SalesTotals, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := entity.SalesTotals{Revenue: decimal.Zero}
	for _, o := range r.s.orders {
		if o.Status == entity.OrderStatusCancelled || !inRange(o.CreatedAt, from, to) {
			continue
		}
		out.Orders++
		out.Revenue = out.Revenue.Add(o.TotalAmount)
	}
	return out, nil
}

func (r *salesRepo) TopProducts(_ context.Context, from, to time.Time, limit int) ([]entity.ProductSales, error) {
	r.s.mu.RLock()
	byProduct := make(map[string]*entity.ProductSales)
	for _, o := range r.s.orders {
		if o.Status == entity.OrderStatusCancelled || !inRange(o.CreatedAt, from, to) {
			continue
		}
		for _, l := range r.s.orderLines[o.ID] {
			ps, ok := byProduct[l.ProductID]
			if !ok {
				ps = &entity.ProductSales{ProductID: l.ProductID, Revenue: decimal.Zero}
				if p := r.s.products[l.ProductID]; p != nil {
					ps.Name = p.Name
				}
				byProduct[l.ProductID] = ps
			}
			ps.Quantity += int64(l.Quantity)
			ps.Revenue = ps.Revenue.Add(l.Subtotal)
		}
	}
	r.s.mu.RUnlock()

	out := make([]entity.ProductSales, 0, len(byProduct))
	for _, ps := range byProduct {
		out = append(out, *ps)
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Revenue.Cmp(out[j].Revenue); c != 0 {
			return c > 0
		}
		return out[i].ProductID < out[j].ProductID
	})
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *salesRepo) ConsumptionCost(_ context.Context, from, to time.Time) (decimal.Decimal, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	total := decimal.Zero
	for _, m := range r.s.movements {
		if m.Kind != entity.MovementKindConsumption || !inRange(m.CreatedAt, from, to) {
			continue
		}
		ing := r.s.ingredients[m.IngredientID]
		if ing == nil {
			continue
		}
		total = total.Add(m.Delta.Neg().Mul(ing.UnitCost))
	}
	return total, nil
}
