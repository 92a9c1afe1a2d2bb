package memory

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/cafeteria-pos/internal/domain"
	"github.com/jhoicas/cafeteria-pos/internal/domain/entity"
	"github.com/jhoicas/cafeteria-pos/internal/domain/repository"
)

var (
	_ repository.IngredientRepository    = (*ingredientRepo)(nil)
	_ repository.ProductRepository       = (*productRepo)(nil)
	_ repository.CategoryRepository      = (*categoryRepo)(nil)
	_ repository.RecipeRepository        = (*recipeRepo)(nil)
	_ repository.OrderRepository         = (*orderRepo)(nil)
	_ repository.StockMovementRepository = (*movementRepo)(nil)
)

func negativeStockError(id string) error {
	return fmt.Errorf("%w: stock negativo en ingrediente %s", domain.ErrPersistence, id)
}

// --- ingredientes ---

type ingredientRepo struct{ t *tx }

func (r *ingredientRepo) get(id string) *entity.Ingredient {
	if ing, ok := r.t.ingredients[id]; ok {
		return ing
	}
	r.t.store.mu.RLock()
	defer r.t.store.mu.RUnlock()
	return r.t.store.ingredients[id]
}

func (r *ingredientRepo) Create(_ context.Context, ing *entity.Ingredient) error {
	if r.get(ing.ID) != nil {
		return domain.ErrDuplicate
	}
	if ing.CurrentStock.IsNegative() {
		return negativeStockError(ing.ID)
	}
	c := cloneIngredient(ing)
	return r.t.write("ingredients.create",
		func() { r.t.ingredients[c.ID] = c },
		func(s *Store) error {
			if _, ok := s.ingredients[c.ID]; ok {
				return domain.ErrDuplicate
			}
			s.ingredients[c.ID] = c
			return nil
		})
}

func (r *ingredientRepo) GetByID(_ context.Context, id string) (*entity.Ingredient, error) {
	return cloneIngredient(r.get(id)), nil
}

func (r *ingredientRepo) GetMany(_ context.Context, ids []string) (map[string]*entity.Ingredient, error) {
	out := make(map[string]*entity.Ingredient, len(ids))
	for _, id := range ids {
		if ing := r.get(id); ing != nil {
			out[id] = cloneIngredient(ing)
		}
	}
	return out, nil
}

func (r *ingredientRepo) List(_ context.Context) ([]*entity.Ingredient, error) {
	r.t.store.mu.RLock()
	ids := make([]string, 0, len(r.t.store.ingredients))
	for id := range r.t.store.ingredients {
		ids = append(ids, id)
	}
	r.t.store.mu.RUnlock()
	for id := range r.t.ingredients {
		if !slices.Contains(ids, id) {
			ids = append(ids, id)
		}
	}
	out := make([]*entity.Ingredient, 0, len(ids))
	for _, id := range ids {
		out = append(out, cloneIngredient(r.get(id)))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *ingredientRepo) LockForUpdate(ctx context.Context, ids []string) (map[string]*entity.Ingredient, error) {
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, "ingredient:"+id)
	}
	if err := r.t.lockRows(ctx, keys); err != nil {
		return nil, err
	}
	return r.GetMany(ctx, ids)
}

func (r *ingredientRepo) UpdateStock(_ context.Context, ing *entity.Ingredient) error {
	current := r.get(ing.ID)
	if current == nil {
		return domain.ErrNotFound
	}
	if ing.CurrentStock.IsNegative() {
		return negativeStockError(ing.ID)
	}
	c := cloneIngredient(current)
	c.CurrentStock = ing.CurrentStock
	c.UnitCost = ing.UnitCost
	c.UpdatedAt = ing.UpdatedAt
	return r.t.write("ingredients.update_stock",
		func() { r.t.ingredients[c.ID] = c },
		func(s *Store) error {
			s.ingredients[c.ID] = c
			return nil
		})
}

// --- productos y categorías ---

type productRepo struct{ t *tx }

func (r *productRepo) get(id string) *entity.Product {
	if p, ok := r.t.products[id]; ok {
		return p
	}
	r.t.store.mu.RLock()
	defer r.t.store.mu.RUnlock()
	return r.t.store.products[id]
}

func (r *productRepo) Create(_ context.Context, p *entity.Product) error {
	if r.get(p.ID) != nil {
		return domain.ErrDuplicate
	}
	c := cloneProduct(p)
	return r.t.write("products.create",
		func() { r.t.products[c.ID] = c },
		func(s *Store) error {
			s.products[c.ID] = c
			return nil
		})
}

func (r *productRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	return cloneProduct(r.get(id)), nil
}

func (r *productRepo) GetMany(_ context.Context, ids []string) (map[string]*entity.Product, error) {
	out := make(map[string]*entity.Product, len(ids))
	for _, id := range ids {
		if p := r.get(id); p != nil {
			out[id] = cloneProduct(p)
		}
	}
	return out, nil
}

func (r *productRepo) ListActive(_ context.Context) ([]*entity.Product, error) {
	r.t.store.mu.RLock()
	out := make([]*entity.Product, 0, len(r.t.store.products))
	for _, p := range r.t.store.products {
		if p.IsActive {
			out = append(out, cloneProduct(p))
		}
	}
	r.t.store.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

type categoryRepo struct{ t *tx }

func (r *categoryRepo) Create(_ context.Context, c *entity.Category) error {
	cp := *c
	return r.t.write("categories.create",
		func() { r.t.categories[cp.ID] = &cp },
		func(s *Store) error {
			if _, ok := s.categories[cp.ID]; ok {
				return domain.ErrDuplicate
			}
			s.categories[cp.ID] = &cp
			return nil
		})
}

func (r *categoryRepo) List(_ context.Context) ([]*entity.Category, error) {
	r.t.store.mu.RLock()
	out := make([]*entity.Category, 0, len(r.t.store.categories))
	for _, c := range r.t.store.categories {
		cp := *c
		out = append(out, &cp)
	}
	r.t.store.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// --- recetas ---

type recipeRepo struct{ t *tx }

func (r *recipeRepo) get(productID string) []entity.RecipeLine {
	if lines, ok := r.t.recipes[productID]; ok {
		return slices.Clone(lines)
	}
	r.t.store.mu.RLock()
	defer r.t.store.mu.RUnlock()
	return slices.Clone(r.t.store.recipes[productID])
}

func (r *recipeRepo) ListByProduct(_ context.Context, productID string) ([]entity.RecipeLine, error) {
	lines := r.get(productID)
	sort.SliceStable(lines, func(i, j int) bool { return lines[i].Position < lines[j].Position })
	if lines == nil {
		lines = []entity.RecipeLine{}
	}
	return lines, nil
}

func (r *recipeRepo) ListByProducts(ctx context.Context, productIDs []string) (map[string][]entity.RecipeLine, error) {
	out := make(map[string][]entity.RecipeLine, len(productIDs))
	for _, id := range productIDs {
		lines, _ := r.ListByProduct(ctx, id)
		if len(lines) > 0 {
			out[id] = lines
		}
	}
	return out, nil
}

func (r *recipeRepo) Replace(_ context.Context, productID string, lines []entity.RecipeLine) error {
	for _, l := range lines {
		if !l.QuantityRequired.IsPositive() {
			return fmt.Errorf("%w: cantidad de receta no positiva", domain.ErrPersistence)
		}
	}
	c := slices.Clone(lines)
	return r.t.write("recipes.replace",
		func() { r.t.recipes[productID] = c },
		func(s *Store) error {
			s.recipes[productID] = c
			return nil
		})
}

// --- órdenes ---

type orderRepo struct{ t *tx }

func (r *orderRepo) get(id string) *entity.Order {
	if o, ok := r.t.orders[id]; ok {
		return o
	}
	r.t.store.mu.RLock()
	defer r.t.store.mu.RUnlock()
	return r.t.store.orders[id]
}

func (r *orderRepo) Create(_ context.Context, o *entity.Order) error {
	if r.get(o.ID) != nil {
		return domain.ErrDuplicate
	}
	c := cloneOrder(o)
	return r.t.write("orders.create",
		func() { r.t.orders[c.ID] = c },
		func(s *Store) error {
			s.orders[c.ID] = c
			return nil
		})
}

func (r *orderRepo) CreateLine(_ context.Context, l *entity.OrderLine) error {
	if r.get(l.OrderID) == nil {
		return fmt.Errorf("%w: orden %s inexistente para la línea", domain.ErrPersistence, l.OrderID)
	}
	c := *l
	return r.t.write("orders.create_line",
		func() { r.t.orderLines = append(r.t.orderLines, &c) },
		func(s *Store) error {
			s.orderLines[c.OrderID] = append(s.orderLines[c.OrderID], &c)
			return nil
		})
}

func (r *orderRepo) GetByID(_ context.Context, id string) (*entity.Order, error) {
	return cloneOrder(r.get(id)), nil
}

func (r *orderRepo) GetForUpdate(ctx context.Context, id string) (*entity.Order, error) {
	if err := r.t.lockRows(ctx, []string{"order:" + id}); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *orderRepo) GetLines(_ context.Context, orderID string) ([]*entity.OrderLine, error) {
	r.t.store.mu.RLock()
	stored := r.t.store.orderLines[orderID]
	out := make([]*entity.OrderLine, 0, len(stored))
	for _, l := range stored {
		c := *l
		out = append(out, &c)
	}
	r.t.store.mu.RUnlock()
	for _, l := range r.t.orderLines {
		if l.OrderID == orderID {
			c := *l
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *orderRepo) UpdateStatus(_ context.Context, o *entity.Order) error {
	current := r.get(o.ID)
	if current == nil {
		return domain.ErrNotFound
	}
	c := cloneOrder(current)
	c.Status = o.Status
	c.CompletedAt = o.CompletedAt
	c.UpdatedAt = o.UpdatedAt
	return r.t.write("orders.update_status",
		func() { r.t.orders[c.ID] = c },
		func(s *Store) error {
			s.orders[c.ID] = c
			return nil
		})
}

// --- movimientos ---

type movementRepo struct{ t *tx }

func (r *movementRepo) Create(_ context.Context, m *entity.StockMovement) error {
	c := cloneMovement(m)
	return r.t.write("movements.create",
		func() { r.t.movements = append(r.t.movements, c) },
		func(s *Store) error {
			s.movements = append(s.movements, c)
			return nil
		})
}

func (r *movementRepo) all(ingredientID string) []*entity.StockMovement {
	r.t.store.mu.RLock()
	var out []*entity.StockMovement
	for _, m := range r.t.store.movements {
		if m.IngredientID == ingredientID {
			out = append(out, m)
		}
	}
	r.t.store.mu.RUnlock()
	for _, m := range r.t.movements {
		if m.IngredientID == ingredientID {
			out = append(out, m)
		}
	}
	return out
}

func (r *movementRepo) ListByIngredient(_ context.Context, ingredientID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	all := r.all(ingredientID)
	filtered := make([]*entity.StockMovement, 0, len(all))
	// Más reciente primero; a igual fecha, el último insertado primero.
	for i := len(all) - 1; i >= 0; i-- {
		m := all[i]
		if from != nil && m.CreatedAt.Before(*from) {
			continue
		}
		if to != nil && m.CreatedAt.After(*to) {
			continue
		}
		filtered = append(filtered, cloneMovement(m))
	}
	sort.SliceStable(filtered, func(i, j int) bool { return filtered[i].CreatedAt.After(filtered[j].CreatedAt) })
	if offset < 0 {
		offset = 0
	}
	if offset > len(filtered) {
		return []*entity.StockMovement{}, nil
	}
	filtered = filtered[offset:]
	if limit > 0 && limit < len(filtered) {
		filtered = filtered[:limit]
	}
	return filtered, nil
}

func (r *movementRepo) SumByIngredient(_ context.Context, ingredientID string) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, m := range r.all(ingredientID) {
		total = total.Add(m.Delta)
	}
	return total, nil
}

// --- copias ---

func cloneIngredient(i *entity.Ingredient) *entity.Ingredient {
	if i == nil {
		return nil
	}
	c := *i
	return &c
}

func cloneProduct(p *entity.Product) *entity.Product {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}

func cloneOrder(o *entity.Order) *entity.Order {
	if o == nil {
		return nil
	}
	c := *o
	c.Lines = nil
	if o.CompletedAt != nil {
		t := *o.CompletedAt
		c.CompletedAt = &t
	}
	return &c
}

func cloneMovement(m *entity.StockMovement) *entity.StockMovement {
	c := *m
	if m.Cost != nil {
		cost := *m.Cost
		c.Cost = &cost
	}
	return &c
}
