package order

import (
	"context"
	"time"

	"github.com/jhoicas/cafeteria-pos/internal/application/ports"
	"github.com/jhoicas/cafeteria-pos/internal/domain"
	"github.com/jhoicas/cafeteria-pos/internal/domain/entity"
	"github.com/jhoicas/cafeteria-pos/internal/domain/repository"
	"github.com/jhoicas/cafeteria-pos/pkg/logger"
)

// StatusUseCase transiciones de estado y consulta de órdenes.
type StatusUseCase struct {
	txRunner  ports.TxRunner
	repos     repository.Repositories
	publisher ports.EventPublisher
	log       *logger.Logger
	now       func() time.Time
}

// NewStatusUseCase construye el caso de uso.
func NewStatusUseCase(
	txRunner ports.TxRunner,
	repos repository.Repositories,
	publisher ports.EventPublisher,
	log *logger.Logger,
) *StatusUseCase {
	if publisher == nil {
		publisher = ports.NopPublisher{}
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &StatusUseCase{
		txRunner:  txRunner,
		repos:     repos,
		publisher: publisher,
		log:       log.Component("order_status"),
		now:       time.Now,
	}
}

// Transition cambia el estado de una orden (Paid -> Completed | Cancelled).
// Solo el empleado que la registró o un Admin pueden cambiarla. Cancelar no
// devuelve stock.
func (uc *StatusUseCase) Transition(ctx context.Context, orderID, status string, caller entity.Caller) (*entity.Order, error) {
	if orderID == "" || status == "" {
		return nil, domain.ErrInvalidInput
	}
	var (
		updated *entity.Order
		from    string
	)
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos repository.Repositories) error {
		o, err := repos.Orders.GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if o == nil {
			return domain.ErrNotFound
		}
		if !caller.IsAdmin() && o.EmployeeID != caller.EmployeeID {
			return domain.ErrForbidden
		}
		from = o.Status
		if err := o.TransitionTo(status, uc.now()); err != nil {
			return err
		}
		if err := repos.Orders.UpdateStatus(ctx, o); err != nil {
			return err
		}
		updated = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("order_id", orderID).
		Str("from", from).
		Str("to", updated.Status).
		Str("employee_id", caller.EmployeeID).
		Msg("estado de orden actualizado")

	if err := uc.publisher.Publish(ctx, ports.RoutingOrderStatusChanged, ports.OrderStatusChangedEvent{
		OrderID:    orderID,
		From:       from,
		To:         updated.Status,
		ChangedBy:  caller.EmployeeID,
		OccurredAt: updated.UpdatedAt,
	}); err != nil {
		uc.log.Warn().Err(err).Str("order_id", orderID).Msg("no se pudo publicar order.status_changed")
	}
	return updated, nil
}

// GetOrder devuelve la orden con sus líneas. Un Barista solo ve sus órdenes.
func (uc *StatusUseCase) GetOrder(ctx context.Context, orderID string, caller entity.Caller) (*entity.Order, error) {
	o, err := uc.repos.Orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.ErrNotFound
	}
	if !caller.IsAdmin() && o.EmployeeID != caller.EmployeeID {
		return nil, domain.ErrForbidden
	}
	lines, err := uc.repos.Orders.GetLines(ctx, orderID)
	if err != nil {
		return nil, err
	}
	o.Lines = lines
	return o, nil
}
