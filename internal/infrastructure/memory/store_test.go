package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/cafeteria-pos/internal/domain"
	"github.com/jhoicas/cafeteria-pos/internal/domain/entity"
	"github.com/jhoicas/cafeteria-pos/internal/domain/repository"
	"github.com/jhoicas/cafeteria-pos/internal/infrastructure/memory"
)

func newStoreWithMilk(t *testing.T, stock string) *memory.Store {
	t.Helper()
	s := memory.New()
	s.SeedIngredient(&entity.Ingredient{
		ID:           "milk",
		Name:         "Milk",
		Unit:         "l",
		CurrentStock: decimal.RequireFromString(stock),
	})
	return s
}

func TestRun_CommitAplicaEscrituras(t *testing.T) {
	ctx := context.Background()
	s := newStoreWithMilk(t, "1")

	err := s.Run(ctx, func(ctx context.Context, repos repository.Repositories) error {
		locked, err := repos.Ingredients.LockForUpdate(ctx, []string{"milk"})
		require.NoError(t, err)
		milk := locked["milk"]
		milk.CurrentStock = decimal.RequireFromString("0.75")
		return repos.Ingredients.UpdateStock(ctx, milk)
	})
	require.NoError(t, err)

	got, err := s.Repositories().Ingredients.GetByID(ctx, "milk")
	require.NoError(t, err)
	assert.True(t, got.CurrentStock.Equal(decimal.RequireFromString("0.75")))
}

func TestRun_ErrorDescartaTodo(t *testing.T) {
	ctx := context.Background()
	s := newStoreWithMilk(t, "1")
	boom := errors.New("boom")

	err := s.Run(ctx, func(ctx context.Context, repos repository.Repositories) error {
		milk, _ := repos.Ingredients.GetByID(ctx, "milk")
		milk.CurrentStock = decimal.Zero
		require.NoError(t, repos.Ingredients.UpdateStock(ctx, milk))
		require.NoError(t, repos.Movements.Create(ctx, &entity.StockMovement{ID: "m1", IngredientID: "milk", Delta: decimal.NewFromInt(-1)}))

		// Dentro de la tx se ve lo preparado
		inTx, _ := repos.Ingredients.GetByID(ctx, "milk")
		assert.True(t, inTx.CurrentStock.IsZero())
		return boom
	})
	require.ErrorIs(t, err, boom)

	repos := s.Repositories()
	milk, _ := repos.Ingredients.GetByID(ctx, "milk")
	assert.True(t, milk.CurrentStock.Equal(decimal.NewFromInt(1)))
	total, _ := repos.Movements.SumByIngredient(ctx, "milk")
	assert.True(t, total.Equal(decimal.NewFromInt(1)), "solo el saldo inicial")
}

func TestRun_StockNegativoNoSePersiste(t *testing.T) {
	ctx := context.Background()
	s := newStoreWithMilk(t, "1")

	err := s.Run(ctx, func(ctx context.Context, repos repository.Repositories) error {
		milk, _ := repos.Ingredients.GetByID(ctx, "milk")
		milk.CurrentStock = decimal.NewFromInt(-1)
		return repos.Ingredients.UpdateStock(ctx, milk)
	})
	assert.ErrorIs(t, err, domain.ErrPersistence)
}

func TestLockForUpdate_SegundaTxEsperaAlaPrimera(t *testing.T) {
	ctx := context.Background()
	s := newStoreWithMilk(t, "1")

	locked := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)

	go func() {
		done <- s.Run(ctx, func(ctx context.Context, repos repository.Repositories) error {
			if _, err := repos.Ingredients.LockForUpdate(ctx, []string{"milk"}); err != nil {
				return err
			}
			close(locked)
			<-release
			return nil
		})
	}()
	<-locked

	waitCtx, cancel := context.WithTimeout(ctx, 30*time.Millisecond)
	defer cancel()
	err := s.Run(waitCtx, func(ctx context.Context, repos repository.Repositories) error {
		_, err := repos.Ingredients.LockForUpdate(ctx, []string{"milk"})
		return err
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	close(release)
	require.NoError(t, <-done)

	// Liberado el bloqueo, una nueva tx lo obtiene
	err = s.Run(ctx, func(ctx context.Context, repos repository.Repositories) error {
		_, err := repos.Ingredients.LockForUpdate(ctx, []string{"milk"})
		return err
	})
	assert.NoError(t, err)
}

func TestLockForUpdate_ConjuntosDisjuntosNoSeBloquean(t *testing.T) {
	ctx := context.Background()
	s := newStoreWithMilk(t, "1")
	s.SeedIngredient(&entity.Ingredient{ID: "beans", Name: "Beans", Unit: "kg", CurrentStock: decimal.NewFromInt(1)})

	release := make(chan struct{})
	locked := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- s.Run(ctx, func(ctx context.Context, repos repository.Repositories) error {
			_, err := repos.Ingredients.LockForUpdate(ctx, []string{"milk"})
			close(locked)
			<-release
			return err
		})
	}()
	<-locked

	waitCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	err := s.Run(waitCtx, func(ctx context.Context, repos repository.Repositories) error {
		_, err := repos.Ingredients.LockForUpdate(ctx, []string{"beans"})
		return err
	})
	assert.NoError(t, err)

	close(release)
	require.NoError(t, <-done)
}

func TestSetFault_FallaInyectada(t *testing.T) {
	ctx := context.Background()
	s := newStoreWithMilk(t, "1")
	s.SetFault(func(op string) error {
		if op == "movements.create" {
			return domain.ErrPersistence
		}
		return nil
	})

	err := s.Run(ctx, func(ctx context.Context, repos repository.Repositories) error {
		return repos.Movements.Create(ctx, &entity.StockMovement{ID: "m", IngredientID: "milk"})
	})
	assert.ErrorIs(t, err, domain.ErrPersistence)
}

func TestRecipes_ListByProductEnOrdenDePosicion(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	s.SeedProduct(&entity.Product{ID: "latte", Name: "Latte", IsActive: true},
		entity.RecipeLine{IngredientID: "milk", QuantityRequired: decimal.RequireFromString("0.25")},
		entity.RecipeLine{IngredientID: "beans", QuantityRequired: decimal.RequireFromString("0.018")},
	)

	lines, err := s.Repositories().Recipes.ListByProduct(ctx, "latte")
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, "milk", lines[0].IngredientID)
	assert.Equal(t, "beans", lines[1].IngredientID)

	empty, err := s.Repositories().Recipes.ListByProduct(ctx, "nope")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestMovements_ListByIngredientPaginado(t *testing.T) {
	ctx := context.Background()
	s := newStoreWithMilk(t, "1")
	repos := s.Repositories()
	base := time.Now()
	for i := 1; i <= 3; i++ {
		require.NoError(t, repos.Movements.Create(ctx, &entity.StockMovement{
			ID:           "m" + string(rune('0'+i)),
			IngredientID: "milk",
			Kind:         entity.MovementKindCorrection,
			CreatedAt:    base.Add(time.Duration(i) * time.Minute),
		}))
	}

	page, err := repos.Movements.ListByIngredient(ctx, "milk", nil, nil, 2, 0)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "m3", page[0].ID)
	assert.Equal(t, "m2", page[1].ID)

	from := base.Add(90 * time.Second)
	ranged, err := repos.Movements.ListByIngredient(ctx, "milk", &from, nil, 0, 0)
	require.NoError(t, err)
	assert.Len(t, ranged, 2)
}
