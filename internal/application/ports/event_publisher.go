package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Routing keys de los eventos que emite el motor.
const (
	RoutingOrderSettled       = "order.settled"
	RoutingOrderStatusChanged = "order.status_changed"
	RoutingLowStock           = "inventory.low_stock"
)

// EventPublisher publica eventos de dominio ya confirmados. Nunca se invoca con
// bloqueos de fila tomados: solo después del Commit.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, event any) error
}

// NopPublisher descarta los eventos (broker no configurado).
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, any) error { return nil }

// OrderSettledEvent se emite tras liquidar una orden.
type OrderSettledEvent struct {
	OrderID       string             `json:"order_id"`
	EmployeeID    string             `json:"employee_id"`
	TotalAmount   decimal.Decimal    `json:"total_amount"`
	PaymentMethod string             `json:"payment_method"`
	Lines         []OrderSettledLine `json:"lines"`
	OccurredAt    time.Time          `json:"occurred_at"`
}

// OrderSettledLine línea del evento de orden liquidada.
type OrderSettledLine struct {
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// OrderStatusChangedEvent se emite tras una transición de estado.
type OrderStatusChangedEvent struct {
	OrderID    string    `json:"order_id"`
	From       string    `json:"from"`
	To         string    `json:"to"`
	ChangedBy  string    `json:"changed_by"`
	OccurredAt time.Time `json:"occurred_at"`
}

// LowStockEvent se emite cuando un ingrediente queda en o bajo su umbral.
type LowStockEvent struct {
	IngredientID     string          `json:"ingredient_id"`
	Name             string          `json:"name"`
	Unit             string          `json:"unit"`
	CurrentStock     decimal.Decimal `json:"current_stock"`
	WarningThreshold decimal.Decimal `json:"warning_threshold"`
	OccurredAt       time.Time       `json:"occurred_at"`
}
