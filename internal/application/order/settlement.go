package order

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	appinventory "github.com/jhoicas/cafeteria-pos/internal/application/inventory"
	"github.com/jhoicas/cafeteria-pos/internal/application/ports"
	"github.com/jhoicas/cafeteria-pos/internal/domain"
	"github.com/jhoicas/cafeteria-pos/internal/domain/entity"
	"github.com/jhoicas/cafeteria-pos/internal/domain/inventory"
	"github.com/jhoicas/cafeteria-pos/internal/domain/repository"
	"github.com/jhoicas/cafeteria-pos/pkg/logger"
)

// PlaceOrderInput entrada de la liquidación, ya tipada en la frontera HTTP.
type PlaceOrderInput struct {
	EmployeeID    string
	Lines         []inventory.LineQty
	PaymentMethod string // vacío -> entity.DefaultPaymentMethod
}

// PlaceOrderResult resultado de una orden liquidada.
type PlaceOrderResult struct {
	OrderID     string
	TotalAmount decimal.Decimal
	Status      string
	Lines       []*entity.OrderLine
	// LowStock ingredientes que quedaron en o bajo su umbral tras la venta.
	LowStock []*entity.Ingredient
}

// SettlementUseCase liquida órdenes: valida, verifica stock, crea la orden con
// sus líneas y descuenta ingredientes, todo en una transacción.
type SettlementUseCase struct {
	txRunner    ports.TxRunner
	feasibility *appinventory.FeasibilityChecker
	publisher   ports.EventPublisher
	log         *logger.Logger
	now         func() time.Time
}

// NewSettlementUseCase construye el caso de uso. txRunner debería venir
// decorado con txretry para reintentar conflictos de concurrencia.
func NewSettlementUseCase(
	txRunner ports.TxRunner,
	repos repository.Repositories,
	publisher ports.EventPublisher,
	log *logger.Logger,
) *SettlementUseCase {
	if publisher == nil {
		publisher = ports.NopPublisher{}
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &SettlementUseCase{
		txRunner:    txRunner,
		feasibility: appinventory.NewFeasibilityChecker(repos),
		publisher:   publisher,
		log:         log.Component("settlement"),
		now:         time.Now,
	}
}

// PlaceOrder liquida una orden. Errores tipados:
// domain.ErrEmptyOrder / domain.ErrInvalidInput, *domain.UnknownProductError,
// *domain.InsufficientStockError, domain.ErrConflict (reintentos agotados),
// domain.ErrPersistence. Ante cualquier error no queda nada escrito.
func (uc *SettlementUseCase) PlaceOrder(ctx context.Context, in PlaceOrderInput) (*PlaceOrderResult, error) {
	if err := inventory.ValidateLines(in.Lines); err != nil {
		return nil, err
	}
	if in.EmployeeID == "" {
		return nil, fmt.Errorf("%w: empleado requerido", domain.ErrInvalidInput)
	}
	payment := in.PaymentMethod
	if payment == "" {
		payment = entity.DefaultPaymentMethod
	}
	if !entity.ValidPaymentMethod(payment) {
		return nil, fmt.Errorf("%w: medio de pago %q", domain.ErrInvalidInput, payment)
	}
	productIDs := inventory.ProductIDs(in.Lines)

	// Verificación consultiva sin bloqueos: productos y stock. La transacción
	// vuelve a verificar ambos.
	if err := uc.feasibility.Check(ctx, in.Lines); err != nil {
		uc.log.Debug().Err(err).Str("employee_id", in.EmployeeID).Msg("orden rechazada en verificación previa")
		return nil, err
	}

	var (
		result   *PlaceOrderResult
		attempts int
	)
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos repository.Repositories) error {
		attempts++
		r, err := uc.settle(ctx, repos, in, payment, productIDs)
		if err != nil {
			return err
		}
		result = r
		return nil
	})
	if err != nil {
		uc.log.Warn().Err(err).
			Str("employee_id", in.EmployeeID).
			Int("attempts", attempts).
			Msg("liquidación rechazada")
		return nil, err
	}

	uc.log.Info().
		Str("order_id", result.OrderID).
		Str("employee_id", in.EmployeeID).
		Str("total", result.TotalAmount.String()).
		Int("attempts", attempts).
		Msg("orden liquidada")

	uc.publishSettled(ctx, in.EmployeeID, payment, result)
	return result, nil
}

// settle es un intento completo dentro de la transacción. Se recalcula todo con
// el estado vigente: precios, recetas, existencias bloqueadas.
func (uc *SettlementUseCase) settle(
	ctx context.Context,
	repos repository.Repositories,
	in PlaceOrderInput,
	payment string,
	productIDs []string,
) (*PlaceOrderResult, error) {
	products, err := repos.Products.GetMany(ctx, productIDs)
	if err != nil {
		return nil, err
	}
	if err := inventory.CheckProducts(productIDs, products); err != nil {
		return nil, err
	}
	recipes, err := repos.Recipes.ListByProducts(ctx, productIDs)
	if err != nil {
		return nil, err
	}
	req := inventory.Aggregate(in.Lines, recipes)

	// Bloquea en orden ascendente de ID y re-verifica con los valores bloqueados
	var locked map[string]*entity.Ingredient
	if req.Len() > 0 {
		locked, err = repos.Ingredients.LockForUpdate(ctx, req.LockOrder())
		if err != nil {
			return nil, err
		}
		if err := inventory.CheckFeasible(req, locked); err != nil {
			return nil, err
		}
	}

	now := uc.now()
	orderID := uuid.New().String()
	lines := make([]*entity.OrderLine, 0, len(in.Lines))
	total := decimal.Zero
	for _, l := range in.Lines {
		price := products[l.ProductID].Price
		subtotal := price.Mul(decimal.NewFromInt(int64(l.Quantity)))
		total = total.Add(subtotal)
		lines = append(lines, &entity.OrderLine{
			ID:        uuid.New().String(),
			OrderID:   orderID,
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: price,
			Subtotal:  subtotal,
		})
	}

	ord := &entity.Order{
		ID:            orderID,
		EmployeeID:    in.EmployeeID,
		TotalAmount:   total,
		PaymentMethod: payment,
		Status:        entity.OrderStatusPaid,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := repos.Orders.Create(ctx, ord); err != nil {
		return nil, err
	}
	for _, line := range lines {
		if err := repos.Orders.CreateLine(ctx, line); err != nil {
			return nil, err
		}
	}

	// Descuento de stock + un movimiento consumption por ingrediente
	var low []*entity.Ingredient
	for _, item := range req.Items() {
		ing := locked[item.IngredientID]
		if ing == nil || item.Quantity.IsZero() {
			continue
		}
		ing.CurrentStock = ing.CurrentStock.Sub(item.Quantity)
		ing.UpdatedAt = now
		if err := repos.Ingredients.UpdateStock(ctx, ing); err != nil {
			return nil, err
		}
		if err := repos.Movements.Create(ctx, &entity.StockMovement{
			ID:           uuid.New().String(),
			IngredientID: ing.ID,
			Kind:         entity.MovementKindConsumption,
			Delta:        item.Quantity.Neg(),
			Reference:    orderID,
			CreatedBy:    in.EmployeeID,
			CreatedAt:    now,
		}); err != nil {
			return nil, err
		}
		if ing.IsLow() {
			low = append(low, ing)
		}
	}

	return &PlaceOrderResult{
		OrderID:     orderID,
		TotalAmount: total,
		Status:      ord.Status,
		Lines:       lines,
		LowStock:    low,
	}, nil
}

// publishSettled se llama después del Commit; un fallo del broker no revierte la venta.
func (uc *SettlementUseCase) publishSettled(ctx context.Context, employeeID, payment string, r *PlaceOrderResult) {
	now := uc.now()
	evLines := make([]ports.OrderSettledLine, 0, len(r.Lines))
	for _, l := range r.Lines {
		evLines = append(evLines, ports.OrderSettledLine{ProductID: l.ProductID, Quantity: l.Quantity, UnitPrice: l.UnitPrice})
	}
	if err := uc.publisher.Publish(ctx, ports.RoutingOrderSettled, ports.OrderSettledEvent{
		OrderID:       r.OrderID,
		EmployeeID:    employeeID,
		TotalAmount:   r.TotalAmount,
		PaymentMethod: payment,
		Lines:         evLines,
		OccurredAt:    now,
	}); err != nil {
		uc.log.Warn().Err(err).Str("order_id", r.OrderID).Msg("no se pudo publicar order.settled")
	}
	for _, ing := range r.LowStock {
		if err := uc.publisher.Publish(ctx, ports.RoutingLowStock, ports.LowStockEvent{
			IngredientID:     ing.ID,
			Name:             ing.Name,
			Unit:             ing.Unit,
			CurrentStock:     ing.CurrentStock,
			WarningThreshold: ing.WarningThreshold,
			OccurredAt:       now,
		}); err != nil {
			uc.log.Warn().Err(err).Str("ingredient_id", ing.ID).Msg("no se pudo publicar stock bajo")
		}
	}
}
