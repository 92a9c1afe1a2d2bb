package entity

import (
	"time"

	"github.com/jhoicas/cafeteria-pos/internal/domain"
	"github.com/shopspring/decimal"
)

// Estados de una orden. Paid es el estado inicial que fija la liquidación;
// Completed y Cancelled son terminales.
const (
	OrderStatusPaid      = "Paid"
	OrderStatusCompleted = "Completed"
	OrderStatusCancelled = "Cancelled"
)

// Medios de pago aceptados en caja.
const (
	PaymentCash = "Cash"
	PaymentCard = "Card"
	PaymentApp  = "App"
)

// DefaultPaymentMethod se usa cuando el request no indica medio de pago.
const DefaultPaymentMethod = PaymentCard

// ValidPaymentMethod indica si m es un medio de pago soportado.
func ValidPaymentMethod(m string) bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentApp:
		return true
	}
	return false
}

// Order cabecera de una venta. Se crea junto con sus líneas y el consumo de
// stock en una sola transacción; después solo cambia Status.
type Order struct {
	ID            string
	EmployeeID    string
	TotalAmount   decimal.Decimal
	PaymentMethod string
	Status        string
	CreatedAt     time.Time
	CompletedAt   *time.Time
	UpdatedAt     time.Time
	Lines         []*OrderLine
}

// OrderLine línea de una orden; UnitPrice es el precio capturado al liquidar.
type OrderLine struct {
	ID        string
	OrderID   string
	ProductID string
	Quantity  int
	UnitPrice decimal.Decimal
	Subtotal  decimal.Decimal
}

// CanTransition indica si from -> to es una transición legal.
func CanTransition(from, to string) bool {
	return from == OrderStatusPaid && (to == OrderStatusCompleted || to == OrderStatusCancelled)
}

// TransitionTo aplica la máquina de estados. Completed fija CompletedAt.
func (o *Order) TransitionTo(status string, now time.Time) error {
	if status != OrderStatusCompleted && status != OrderStatusCancelled && status != OrderStatusPaid {
		return domain.ErrInvalidInput
	}
	if !CanTransition(o.Status, status) {
		return &domain.InvalidTransitionError{OrderID: o.ID, From: o.Status, To: status}
	}
	o.Status = status
	o.UpdatedAt = now
	if status == OrderStatusCompleted {
		t := now
		o.CompletedAt = &t
	}
	return nil
}
