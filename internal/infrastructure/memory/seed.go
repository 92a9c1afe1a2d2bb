package memory

import (
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/cafeteria-pos/internal/domain/entity"
)

// SeedIngredient carga un ingrediente ya confirmado junto con el movimiento de
// saldo inicial, para que el ledger cuadre desde el alta.
func (s *Store) SeedIngredient(ing *entity.Ingredient) {
	now := time.Now()
	c := cloneIngredient(ing)
	if c.CreatedAt.IsZero() {
		c.CreatedAt, c.UpdatedAt = now, now
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ingredients[c.ID] = c
	if c.CurrentStock.IsPositive() {
		s.movements = append(s.movements, &entity.StockMovement{
			ID:           uuid.New().String(),
			IngredientID: c.ID,
			Kind:         entity.MovementKindSupply,
			Delta:        c.CurrentStock,
			Reason:       "saldo inicial",
			CreatedAt:    c.CreatedAt,
		})
	}
}

// SeedProduct carga un producto con su receta (en el orden recibido).
func (s *Store) SeedProduct(p *entity.Product, recipe ...entity.RecipeLine) {
	c := cloneProduct(p)
	lines := make([]entity.RecipeLine, 0, len(recipe))
	for i, l := range recipe {
		l.ProductID = c.ID
		l.Position = i + 1
		lines = append(lines, l)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[c.ID] = c
	if len(lines) > 0 {
		s.recipes[c.ID] = lines
	}
}
