package order_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/cucumber/godog"
	"github.com/shopspring/decimal"

	appinventory "github.com/jhoicas/cafeteria-pos/internal/application/inventory"
	"github.com/jhoicas/cafeteria-pos/internal/application/order"
	"github.com/jhoicas/cafeteria-pos/internal/domain"
	"github.com/jhoicas/cafeteria-pos/internal/domain/entity"
	"github.com/jhoicas/cafeteria-pos/internal/domain/inventory"
	"github.com/jhoicas/cafeteria-pos/internal/infrastructure/memory"
)

type settlementFeature struct {
	store      *memory.Store
	settlement *order.SettlementUseCase
	status     *order.StatusUseCase
	stock      *appinventory.StockUseCase

	result *order.PlaceOrderResult
	err    error
}

func (f *settlementFeature) reset() {
	f.store = memory.New()
	repos := f.store.Repositories()
	f.settlement = order.NewSettlementUseCase(f.store, repos, nil, nil)
	f.status = order.NewStatusUseCase(f.store, repos, nil, nil)
	f.stock = appinventory.NewStockUseCase(f.store, repos, nil, nil)
	f.result = nil
	f.err = nil
}

func parseDec(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(s)
}

func (f *settlementFeature) theIngredientHasOnHand(id, name, stock, unit, threshold string) error {
	onHand, err := parseDec(stock)
	if err != nil {
		return err
	}
	warn, err := parseDec(threshold)
	if err != nil {
		return err
	}
	f.store.SeedIngredient(&entity.Ingredient{ID: id, Name: name, Unit: unit, CurrentStock: onHand, WarningThreshold: warn})
	return nil
}

func (f *settlementFeature) theProductWithRecipe(id, name, price string, table *godog.Table) error {
	p, err := parseDec(price)
	if err != nil {
		return err
	}
	var lines []entity.RecipeLine
	for i, row := range table.Rows {
		if i == 0 {
			continue // cabecera
		}
		qty, err := parseDec(row.Cells[1].Value)
		if err != nil {
			return err
		}
		lines = append(lines, entity.RecipeLine{IngredientID: row.Cells[0].Value, QuantityRequired: qty})
	}
	f.store.SeedProduct(&entity.Product{ID: id, Name: name, Price: p, IsActive: true}, lines...)
	return nil
}

func (f *settlementFeature) employeeOrders(employee string, qty int, productID string) error {
	f.result, f.err = f.settlement.PlaceOrder(context.Background(), order.PlaceOrderInput{
		EmployeeID: employee,
		Lines:      []inventory.LineQty{{ProductID: productID, Quantity: qty}},
	})
	return nil
}

func (f *settlementFeature) employeePlacesAnEmptyOrder(employee string) error {
	f.result, f.err = f.settlement.PlaceOrder(context.Background(), order.PlaceOrderInput{EmployeeID: employee})
	return nil
}

func (f *settlementFeature) theOrderSucceedsWithTotal(total string) error {
	if f.err != nil {
		return fmt.Errorf("esperaba éxito, got %v", f.err)
	}
	want, err := parseDec(total)
	if err != nil {
		return err
	}
	if !f.result.TotalAmount.Equal(want) {
		return fmt.Errorf("total %s, esperado %s", f.result.TotalAmount, want)
	}
	return nil
}

func (f *settlementFeature) theOrderFailsWithInsufficientStockOf(id string) error {
	var stockErr *domain.InsufficientStockError
	if !errors.As(f.err, &stockErr) {
		return fmt.Errorf("esperaba InsufficientStockError, got %v", f.err)
	}
	if stockErr.IngredientID != id {
		return fmt.Errorf("ingrediente %s, esperado %s", stockErr.IngredientID, id)
	}
	return nil
}

func (f *settlementFeature) theOrderFailsAsInvalidInput() error {
	if !errors.Is(f.err, domain.ErrInvalidInput) {
		return fmt.Errorf("esperaba error de validación, got %v", f.err)
	}
	return nil
}

func (f *settlementFeature) theIngredientHasOnHandNow(id, stock string) error {
	want, err := parseDec(stock)
	if err != nil {
		return err
	}
	ing, err := f.stock.GetIngredient(context.Background(), id)
	if err != nil {
		return err
	}
	if !ing.CurrentStock.Equal(want) {
		return fmt.Errorf("%s: existencia %s, esperada %s", id, ing.CurrentStock, want)
	}
	return nil
}

func (f *settlementFeature) theIngredientIsReportedAsLowStock(id string) error {
	if f.result == nil {
		return errors.New("no hay orden liquidada")
	}
	for _, ing := range f.result.LowStock {
		if ing.ID == id {
			return nil
		}
	}
	return fmt.Errorf("%s no figura como stock bajo", id)
}

func (f *settlementFeature) theLedgerReconciles(id string) error {
	rec, err := f.stock.Reconcile(context.Background(), id)
	if err != nil {
		return err
	}
	if !rec.Balanced() {
		return fmt.Errorf("%s: ledger %s, existencia %s", id, rec.MovementTotal, rec.OnHand)
	}
	return nil
}

func (f *settlementFeature) theOrderIsMarked(status string) error {
	if f.result == nil {
		return errors.New("no hay orden liquidada")
	}
	_, f.err = f.status.Transition(context.Background(), f.result.OrderID, status,
		entity.Caller{EmployeeID: "emp-1", Role: entity.RoleBarista})
	return nil
}

func (f *settlementFeature) theTransitionSucceeds() error {
	return f.err
}

func (f *settlementFeature) theTransitionIsRejected() error {
	var trErr *domain.InvalidTransitionError
	if !errors.As(f.err, &trErr) {
		return fmt.Errorf("esperaba InvalidTransitionError, got %v", f.err)
	}
	return nil
}

func InitializeSettlementScenario(ctx *godog.ScenarioContext) {
	f := &settlementFeature{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		f.reset()
		return ctx, nil
	})

	// Given
	ctx.Step(`^the ingredient "([^"]*)" named "([^"]*)" has ([\d.]+) "([^"]*)" on hand with warning threshold ([\d.]+)$`, f.theIngredientHasOnHand)
	ctx.Step(`^the product "([^"]*)" named "([^"]*)" priced ([\d.]+) with recipe:$`, f.theProductWithRecipe)

	// When
	ctx.Step(`^employee "([^"]*)" orders (\d+) of "([^"]*)"$`, f.employeeOrders)
	ctx.Step(`^employee "([^"]*)" places an empty order$`, f.employeePlacesAnEmptyOrder)
	ctx.Step(`^the order is marked "([^"]*)"$`, f.theOrderIsMarked)

	// Then
	ctx.Step(`^the order succeeds with total ([\d.]+)$`, f.theOrderSucceedsWithTotal)
	ctx.Step(`^the order fails with insufficient stock of "([^"]*)"$`, f.theOrderFailsWithInsufficientStockOf)
	ctx.Step(`^the order fails as invalid input$`, f.theOrderFailsAsInvalidInput)
	ctx.Step(`^the ingredient "([^"]*)" has ([\d.]+) on hand$`, f.theIngredientHasOnHandNow)
	ctx.Step(`^the ingredient "([^"]*)" is reported as low stock$`, f.theIngredientIsReportedAsLowStock)
	ctx.Step(`^the ledger for "([^"]*)" reconciles$`, f.theLedgerReconciles)
	ctx.Step(`^the transition succeeds$`, f.theTransitionSucceeds)
	ctx.Step(`^the transition is rejected$`, f.theTransitionIsRejected)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeSettlementScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features"},
			TestingT: t,
		},
	}
	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
