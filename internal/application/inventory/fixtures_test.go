package inventory_test

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	appinventory "github.com/jhoicas/cafeteria-pos/internal/application/inventory"
	"github.com/jhoicas/cafeteria-pos/internal/domain/entity"
	"github.com/jhoicas/cafeteria-pos/internal/infrastructure/memory"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type recordingPublisher struct {
	mu   sync.Mutex
	keys []string
}

func (p *recordingPublisher) Publish(_ context.Context, key string, _ any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys = append(p.keys, key)
	return nil
}

type fixture struct {
	store     *memory.Store
	publisher *recordingPublisher
	stock     *appinventory.StockUseCase
	recipes   *appinventory.RecipeUseCase
	menu      *appinventory.MenuUseCase
	checker   *appinventory.FeasibilityChecker
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	s := memory.New()
	s.SeedIngredient(&entity.Ingredient{ID: "milk", Name: "Milk", Unit: "l", CurrentStock: dec("0.30"), WarningThreshold: dec("0.05"), UnitCost: dec("40")})
	s.SeedIngredient(&entity.Ingredient{ID: "beans", Name: "Coffee beans", Unit: "kg", CurrentStock: dec("1"), WarningThreshold: dec("0.1"), UnitCost: dec("900")})
	s.SeedIngredient(&entity.Ingredient{ID: "cup", Name: "Cup", Unit: "pcs", CurrentStock: dec("3"), WarningThreshold: dec("5"), UnitCost: dec("2")})
	s.SeedProduct(&entity.Product{ID: "latte", Name: "Latte", Price: dec("65"), IsActive: true},
		entity.RecipeLine{IngredientID: "milk", QuantityRequired: dec("0.25")},
		entity.RecipeLine{IngredientID: "beans", QuantityRequired: dec("0.018")},
		entity.RecipeLine{IngredientID: "cup", QuantityRequired: dec("1")},
	)
	s.SeedProduct(&entity.Product{ID: "americano", Name: "Americano", Price: dec("45"), IsActive: true},
		entity.RecipeLine{IngredientID: "beans", QuantityRequired: dec("0.018")},
		entity.RecipeLine{IngredientID: "cup", QuantityRequired: dec("1")},
	)
	s.SeedProduct(&entity.Product{ID: "water", Name: "Water", Price: dec("25"), IsActive: true})

	pub := &recordingPublisher{}
	repos := s.Repositories()
	return &fixture{
		store:     s,
		publisher: pub,
		stock:     appinventory.NewStockUseCase(s, repos, pub, nil),
		recipes:   appinventory.NewRecipeUseCase(s, repos, nil),
		menu:      appinventory.NewMenuUseCase(repos),
		checker:   appinventory.NewFeasibilityChecker(repos),
	}
}

func (f *fixture) onHand(t *testing.T, id string) decimal.Decimal {
	t.Helper()
	ing, err := f.stock.GetIngredient(context.Background(), id)
	if err != nil {
		t.Fatalf("ingrediente %s: %v", id, err)
	}
	return ing.CurrentStock
}
