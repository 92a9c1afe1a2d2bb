package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/cafeteria-pos/internal/application/order"
	"github.com/jhoicas/cafeteria-pos/internal/domain"
	"github.com/jhoicas/cafeteria-pos/internal/domain/entity"
	domaininv "github.com/jhoicas/cafeteria-pos/internal/domain/inventory"
	"github.com/jhoicas/cafeteria-pos/internal/infrastructure/memory"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func seededStore() *memory.Store {
	s := memory.New()
	s.SeedIngredient(&entity.Ingredient{ID: "milk", Name: "Milk", Unit: "l", CurrentStock: dec("5"), UnitCost: dec("40")})
	s.SeedIngredient(&entity.Ingredient{ID: "beans", Name: "Beans", Unit: "kg", CurrentStock: dec("1"), UnitCost: dec("1000")})
	s.SeedIngredient(&entity.Ingredient{ID: "cup", Name: "Cup", Unit: "pcs", CurrentStock: dec("10"), UnitCost: dec("2")})
	s.SeedProduct(&entity.Product{ID: "latte", Name: "Latte", Price: dec("65"), IsActive: true},
		entity.RecipeLine{IngredientID: "milk", QuantityRequired: dec("0.25")},
		entity.RecipeLine{IngredientID: "beans", QuantityRequired: dec("0.018")},
		entity.RecipeLine{IngredientID: "cup", QuantityRequired: dec("1")},
	)
	s.SeedProduct(&entity.Product{ID: "espresso", Name: "Espresso", Price: dec("40"), IsActive: true},
		entity.RecipeLine{IngredientID: "beans", QuantityRequired: dec("0.018")},
		entity.RecipeLine{IngredientID: "cup", QuantityRequired: dec("1")},
	)
	s.SeedProduct(&entity.Product{ID: "water", Name: "Water", Price: dec("25"), IsActive: true})
	return s
}

func place(t *testing.T, uc *order.SettlementUseCase, productID string, qty int) string {
	t.Helper()
	res, err := uc.PlaceOrder(context.Background(), order.PlaceOrderInput{
		EmployeeID: "emp-1",
		Lines:      []domaininv.LineQty{{ProductID: productID, Quantity: qty}},
	})
	require.NoError(t, err)
	return res.OrderID
}

func TestSales_TotalesMargenYRanking(t *testing.T) {
	ctx := context.Background()
	s := seededStore()
	repos := s.Repositories()
	settlement := order.NewSettlementUseCase(s, repos, nil, nil)
	status := order.NewStatusUseCase(s, repos, nil, nil)

	place(t, settlement, "latte", 1)
	place(t, settlement, "espresso", 2)
	waterID := place(t, settlement, "water", 1)
	_, err := status.Transition(ctx, waterID, entity.OrderStatusCancelled, entity.Caller{EmployeeID: "emp-1", Role: entity.RoleBarista})
	require.NoError(t, err)

	report, err := NewSalesReportUseCase(repos.Sales).Sales(ctx, "")
	require.NoError(t, err)

	assert.Equal(t, PeriodDay, report.Period)
	assert.Equal(t, 2, report.Orders, "la orden cancelada no cuenta")
	assert.True(t, report.Revenue.Equal(dec("145")), report.Revenue.String())
	assert.True(t, report.AverageTicket.Equal(dec("72.5")), report.AverageTicket.String())
	// latte 10 + 18 + 2; espresso ×2 36 + 4
	assert.True(t, report.IngredientCost.Equal(dec("70")), report.IngredientCost.String())
	assert.True(t, report.GrossMargin.Equal(dec("75")), report.GrossMargin.String())

	require.Len(t, report.TopProducts, 2)
	assert.Equal(t, "espresso", report.TopProducts[0].ProductID)
	assert.Equal(t, int64(2), report.TopProducts[0].Quantity)
	assert.Equal(t, "Latte", report.TopProducts[1].Name)
}

func TestSales_VentanaExcluyeOrdenesAntiguas(t *testing.T) {
	ctx := context.Background()
	s := seededStore()
	repos := s.Repositories()
	place(t, order.NewSettlementUseCase(s, repos, nil, nil), "latte", 1)

	uc := NewSalesReportUseCase(repos.Sales)
	uc.now = func() time.Time { return time.Now().AddDate(0, 0, 3) }

	day, err := uc.Sales(ctx, PeriodDay)
	require.NoError(t, err)
	assert.Zero(t, day.Orders)
	assert.True(t, day.AverageTicket.IsZero())
	assert.Empty(t, day.TopProducts)

	week, err := uc.Sales(ctx, PeriodWeek)
	require.NoError(t, err)
	assert.Equal(t, 1, week.Orders)
}

func TestSales_PeriodoInvalido(t *testing.T) {
	_, err := NewSalesReportUseCase(seededStore().Repositories().Sales).Sales(context.Background(), "year")
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}
