package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/cafeteria-pos/internal/application/ports"
	"github.com/jhoicas/cafeteria-pos/internal/domain"
	"github.com/jhoicas/cafeteria-pos/internal/domain/entity"
	"github.com/jhoicas/cafeteria-pos/internal/domain/inventory"
	"github.com/jhoicas/cafeteria-pos/internal/domain/repository"
	"github.com/jhoicas/cafeteria-pos/pkg/logger"
)

// StockUseCase operaciones sobre la existencia de ingredientes fuera de la venta:
// conteo físico, merma y recepción de compras. Cada cambio de CurrentStock se
// registra como StockMovement en la misma transacción, con la fila bloqueada
// (SELECT FOR UPDATE).
type StockUseCase struct {
	txRunner  ports.TxRunner
	repos     repository.Repositories
	publisher ports.EventPublisher
	log       *logger.Logger
	now       func() time.Time
}

// NewStockUseCase construye el caso de uso. repos son los repositorios fuera de
// transacción, usados solo para lecturas.
func NewStockUseCase(
	txRunner ports.TxRunner,
	repos repository.Repositories,
	publisher ports.EventPublisher,
	log *logger.Logger,
) *StockUseCase {
	if publisher == nil {
		publisher = ports.NopPublisher{}
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &StockUseCase{
		txRunner:  txRunner,
		repos:     repos,
		publisher: publisher,
		log:       log.Component("stock"),
		now:       time.Now,
	}
}

// CreateIngredientInput alta de ingrediente. InitialStock se registra como
// movimiento supply para que el ledger reproduzca la existencia desde el alta.
type CreateIngredientInput struct {
	Name             string
	Unit             string
	InitialStock     decimal.Decimal
	WarningThreshold decimal.Decimal
	UnitCost         decimal.Decimal
	UserID           string
}

// CreateIngredient da de alta un ingrediente con su saldo inicial.
func (uc *StockUseCase) CreateIngredient(ctx context.Context, in CreateIngredientInput) (*entity.Ingredient, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" || strings.TrimSpace(in.Unit) == "" {
		return nil, fmt.Errorf("%w: nombre y unidad son obligatorios", domain.ErrInvalidInput)
	}
	if in.InitialStock.IsNegative() || in.WarningThreshold.IsNegative() || in.UnitCost.IsNegative() {
		return nil, fmt.Errorf("%w: cantidades negativas", domain.ErrInvalidInput)
	}
	now := uc.now()
	ing := &entity.Ingredient{
		ID:               uuid.New().String(),
		Name:             in.Name,
		Unit:             strings.TrimSpace(in.Unit),
		CurrentStock:     in.InitialStock,
		WarningThreshold: in.WarningThreshold,
		UnitCost:         in.UnitCost,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos repository.Repositories) error {
		if err := repos.Ingredients.Create(ctx, ing); err != nil {
			return err
		}
		if !in.InitialStock.IsPositive() {
			return nil
		}
		cost := in.InitialStock.Mul(in.UnitCost)
		return repos.Movements.Create(ctx, &entity.StockMovement{
			ID:           uuid.New().String(),
			IngredientID: ing.ID,
			Kind:         entity.MovementKindSupply,
			Delta:        in.InitialStock,
			Cost:         &cost,
			Reason:       "saldo inicial",
			CreatedBy:    in.UserID,
			CreatedAt:    now,
		})
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("ingredient_id", ing.ID).Str("name", ing.Name).Msg("ingrediente creado")
	return ing, nil
}

// CorrectInventory fija la existencia al conteo físico y registra la diferencia
// como movimiento correction (también cuando la diferencia es cero).
func (uc *StockUseCase) CorrectInventory(ctx context.Context, ingredientID string, actual decimal.Decimal, userID string) (*entity.Ingredient, error) {
	if ingredientID == "" {
		return nil, domain.ErrInvalidInput
	}
	if actual.IsNegative() {
		return nil, fmt.Errorf("%w: el conteo físico no puede ser negativo", domain.ErrInvalidInput)
	}
	return uc.mutate(ctx, ingredientID, func(ing *entity.Ingredient) (*entity.StockMovement, error) {
		delta := actual.Sub(ing.CurrentStock)
		ing.CurrentStock = actual
		return &entity.StockMovement{
			Kind:      entity.MovementKindCorrection,
			Delta:     delta,
			Reason:    "conteo físico",
			CreatedBy: userID,
		}, nil
	})
}

// WriteOff descuenta una merma. Nunca deja la existencia negativa.
func (uc *StockUseCase) WriteOff(ctx context.Context, ingredientID string, qty decimal.Decimal, reason, userID string) (*entity.Ingredient, error) {
	if ingredientID == "" {
		return nil, domain.ErrInvalidInput
	}
	if !qty.IsPositive() {
		return nil, fmt.Errorf("%w: la merma debe ser mayor que cero", domain.ErrInvalidInput)
	}
	return uc.mutate(ctx, ingredientID, func(ing *entity.Ingredient) (*entity.StockMovement, error) {
		if ing.CurrentStock.LessThan(qty) {
			return nil, &domain.InsufficientStockError{
				IngredientID: ing.ID,
				Name:         ing.Name,
				Required:     qty,
				OnHand:       ing.CurrentStock,
			}
		}
		ing.CurrentStock = ing.CurrentStock.Sub(qty)
		return &entity.StockMovement{
			Kind:      entity.MovementKindWriteOff,
			Delta:     qty.Neg(),
			Reason:    strings.TrimSpace(reason),
			CreatedBy: userID,
		}, nil
	})
}

// ReceiveSupply suma una compra a proveedor. cost es el costo total del lote;
// si viene, recalcula el costo unitario por promedio ponderado.
func (uc *StockUseCase) ReceiveSupply(ctx context.Context, ingredientID string, qty decimal.Decimal, cost *decimal.Decimal, userID string) (*entity.Ingredient, error) {
	if ingredientID == "" {
		return nil, domain.ErrInvalidInput
	}
	if !qty.IsPositive() {
		return nil, fmt.Errorf("%w: la cantidad recibida debe ser mayor que cero", domain.ErrInvalidInput)
	}
	if cost != nil && cost.IsNegative() {
		return nil, fmt.Errorf("%w: costo negativo", domain.ErrInvalidInput)
	}
	return uc.mutate(ctx, ingredientID, func(ing *entity.Ingredient) (*entity.StockMovement, error) {
		if cost != nil {
			unitCost := cost.Div(qty)
			ing.UnitCost = inventory.CostCalculator(ing.CurrentStock, ing.UnitCost, qty, unitCost)
		}
		ing.CurrentStock = ing.CurrentStock.Add(qty)
		return &entity.StockMovement{
			Kind:      entity.MovementKindSupply,
			Delta:     qty,
			Cost:      cost,
			CreatedBy: userID,
		}, nil
	})
}

// mutate bloquea la fila del ingrediente, aplica fn y persiste la nueva existencia
// junto con el movimiento que devuelve fn. Publica stock bajo tras el Commit.
func (uc *StockUseCase) mutate(
	ctx context.Context,
	ingredientID string,
	fn func(ing *entity.Ingredient) (*entity.StockMovement, error),
) (*entity.Ingredient, error) {
	var (
		updated  *entity.Ingredient
		movement *entity.StockMovement
	)
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos repository.Repositories) error {
		locked, err := repos.Ingredients.LockForUpdate(ctx, []string{ingredientID})
		if err != nil {
			return err
		}
		ing, ok := locked[ingredientID]
		if !ok || ing == nil {
			return domain.ErrNotFound
		}
		mov, err := fn(ing)
		if err != nil {
			return err
		}
		now := uc.now()
		ing.UpdatedAt = now
		if err := repos.Ingredients.UpdateStock(ctx, ing); err != nil {
			return err
		}
		mov.ID = uuid.New().String()
		mov.IngredientID = ing.ID
		mov.CreatedAt = now
		if err := repos.Movements.Create(ctx, mov); err != nil {
			return err
		}
		updated, movement = ing, mov
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("ingredient_id", updated.ID).
		Str("kind", movement.Kind).
		Str("delta", movement.Delta.String()).
		Str("on_hand", updated.CurrentStock.String()).
		Msg("movimiento de stock registrado")

	if movement.Delta.IsNegative() && updated.IsLow() {
		uc.publishLowStock(ctx, updated)
	}
	return updated, nil
}

func (uc *StockUseCase) publishLowStock(ctx context.Context, ing *entity.Ingredient) {
	err := uc.publisher.Publish(ctx, ports.RoutingLowStock, ports.LowStockEvent{
		IngredientID:     ing.ID,
		Name:             ing.Name,
		Unit:             ing.Unit,
		CurrentStock:     ing.CurrentStock,
		WarningThreshold: ing.WarningThreshold,
		OccurredAt:       uc.now(),
	})
	if err != nil {
		uc.log.Warn().Err(err).Str("ingredient_id", ing.ID).Msg("no se pudo publicar stock bajo")
	}
}

// ListIngredients todos los ingredientes ordenados por nombre.
func (uc *StockUseCase) ListIngredients(ctx context.Context) ([]*entity.Ingredient, error) {
	return uc.repos.Ingredients.List(ctx)
}

// GetIngredient devuelve domain.ErrNotFound si no existe.
func (uc *StockUseCase) GetIngredient(ctx context.Context, id string) (*entity.Ingredient, error) {
	ing, err := uc.repos.Ingredients.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ing == nil {
		return nil, domain.ErrNotFound
	}
	return ing, nil
}

// ListMovements historial de un ingrediente, más reciente primero.
func (uc *StockUseCase) ListMovements(ctx context.Context, ingredientID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	if _, err := uc.GetIngredient(ctx, ingredientID); err != nil {
		return nil, err
	}
	if from != nil && to != nil && to.Before(*from) {
		return nil, fmt.Errorf("%w: rango de fechas invertido", domain.ErrInvalidInput)
	}
	return uc.repos.Movements.ListByIngredient(ctx, ingredientID, from, to, limit, offset)
}

// Reconciliation compara la existencia con la suma del ledger.
type Reconciliation struct {
	IngredientID  string
	OnHand        decimal.Decimal
	MovementTotal decimal.Decimal
}

// Balanced indica si la suma de movimientos reproduce la existencia.
func (r Reconciliation) Balanced() bool { return r.OnHand.Equal(r.MovementTotal) }

// Reconcile calcula la conciliación de un ingrediente.
func (uc *StockUseCase) Reconcile(ctx context.Context, ingredientID string) (*Reconciliation, error) {
	ing, err := uc.GetIngredient(ctx, ingredientID)
	if err != nil {
		return nil, err
	}
	total, err := uc.repos.Movements.SumByIngredient(ctx, ingredientID)
	if err != nil {
		return nil, err
	}
	rec := &Reconciliation{IngredientID: ingredientID, OnHand: ing.CurrentStock, MovementTotal: total}
	if !rec.Balanced() {
		uc.log.Error().
			Str("ingredient_id", ingredientID).
			Str("on_hand", rec.OnHand.String()).
			Str("movements", rec.MovementTotal.String()).
			Msg("existencia descuadrada con el ledger")
	}
	return rec, nil
}
