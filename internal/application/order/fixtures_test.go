package order_test

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/cafeteria-pos/internal/application/order"
	"github.com/jhoicas/cafeteria-pos/internal/domain/entity"
	"github.com/jhoicas/cafeteria-pos/internal/infrastructure/memory"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// recordingPublisher guarda los eventos publicados.
type recordingPublisher struct {
	mu     sync.Mutex
	events map[string][]any
}

func newRecordingPublisher() *recordingPublisher {
	return &recordingPublisher{events: make(map[string][]any)}
}

func (p *recordingPublisher) Publish(_ context.Context, key string, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events[key] = append(p.events[key], event)
	return nil
}

func (p *recordingPublisher) count(key string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events[key])
}

type cafe struct {
	store      *memory.Store
	publisher  *recordingPublisher
	settlement *order.SettlementUseCase
	status     *order.StatusUseCase
}

// newCafe carga el catálogo mínimo: leche, café en grano, vasos; latte,
// espresso, agua embotellada (sin receta) y un producto inactivo.
func newCafe(t *testing.T) *cafe {
	t.Helper()
	return buildCafe()
}

func buildCafe() *cafe {
	s := memory.New()
	s.SeedIngredient(&entity.Ingredient{ID: "milk", Name: "Milk", Unit: "l", CurrentStock: dec("0.30"), WarningThreshold: dec("0.05")})
	s.SeedIngredient(&entity.Ingredient{ID: "beans", Name: "Coffee beans", Unit: "kg", CurrentStock: dec("1"), WarningThreshold: dec("0.1")})
	s.SeedIngredient(&entity.Ingredient{ID: "cup", Name: "Cup", Unit: "pcs", CurrentStock: dec("10"), WarningThreshold: dec("2")})

	s.SeedProduct(&entity.Product{ID: "latte", Name: "Latte", Price: dec("65"), IsActive: true},
		entity.RecipeLine{IngredientID: "milk", QuantityRequired: dec("0.25")},
		entity.RecipeLine{IngredientID: "beans", QuantityRequired: dec("0.018")},
		entity.RecipeLine{IngredientID: "cup", QuantityRequired: dec("1")},
	)
	s.SeedProduct(&entity.Product{ID: "espresso", Name: "Espresso", Price: dec("40"), IsActive: true},
		entity.RecipeLine{IngredientID: "beans", QuantityRequired: dec("0.009")},
		entity.RecipeLine{IngredientID: "cup", QuantityRequired: dec("1")},
	)
	s.SeedProduct(&entity.Product{ID: "water", Name: "Water", Price: dec("25"), IsActive: true})
	s.SeedProduct(&entity.Product{ID: "old-muffin", Name: "Muffin", Price: dec("30"), IsActive: false})

	pub := newRecordingPublisher()
	repos := s.Repositories()
	return &cafe{
		store:      s,
		publisher:  pub,
		settlement: order.NewSettlementUseCase(s, repos, pub, nil),
		status:     order.NewStatusUseCase(s, repos, pub, nil),
	}
}

func (c *cafe) stock(t *testing.T, id string) decimal.Decimal {
	t.Helper()
	ing, err := c.store.Repositories().Ingredients.GetByID(context.Background(), id)
	if err != nil || ing == nil {
		t.Fatalf("ingrediente %s: %v", id, err)
	}
	return ing.CurrentStock
}

func (c *cafe) snapshot(t *testing.T) map[string]decimal.Decimal {
	t.Helper()
	return map[string]decimal.Decimal{
		"milk":  c.stock(t, "milk"),
		"beans": c.stock(t, "beans"),
		"cup":   c.stock(t, "cup"),
	}
}
