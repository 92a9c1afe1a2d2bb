package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/cafeteria-pos/internal/domain/entity"
)

// OrderLineRequest línea del body de POST /api/orders.
type OrderLineRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// PlaceOrderRequest body de POST /api/orders y POST /api/orders/check.
type PlaceOrderRequest struct {
	Items         []OrderLineRequest `json:"items"`
	PaymentMethod string             `json:"payment_method"`
}

// PlaceOrderResponse respuesta de una orden liquidada.
type PlaceOrderResponse struct {
	OrderID     string            `json:"order_id"`
	TotalAmount decimal.Decimal   `json:"total_amount"`
	Status      string            `json:"status"`
	LowStock    []LowStockWarning `json:"low_stock,omitempty"`
}

// LowStockWarning ingrediente que quedó en o bajo su umbral tras la venta.
type LowStockWarning struct {
	IngredientID string          `json:"ingredient_id"`
	Name         string          `json:"name"`
	CurrentStock decimal.Decimal `json:"current_stock"`
	Unit         string          `json:"unit"`
}

// FeasibilityResponse resultado de POST /api/orders/check.
type FeasibilityResponse struct {
	Feasible             bool   `json:"feasible"`
	MissingIngredientID  string `json:"missing_ingredient_id,omitempty"`
	MissingIngredientMsg string `json:"message,omitempty"`
}

// TransitionStatusRequest body de PATCH /api/orders/:id/status.
type TransitionStatusRequest struct {
	Status string `json:"status"`
}

// OrderLineResponse línea de una orden.
type OrderLineResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// OrderResponse salida de una orden.
type OrderResponse struct {
	ID            string              `json:"id"`
	EmployeeID    string              `json:"employee_id"`
	TotalAmount   decimal.Decimal     `json:"total_amount"`
	PaymentMethod string              `json:"payment_method"`
	Status        string              `json:"status"`
	CreatedAt     time.Time           `json:"created_at"`
	CompletedAt   *time.Time          `json:"completed_at,omitempty"`
	Lines         []OrderLineResponse `json:"lines,omitempty"`
}

// NewOrderResponse mapea la entidad a la salida HTTP.
func NewOrderResponse(o *entity.Order) OrderResponse {
	resp := OrderResponse{
		ID:            o.ID,
		EmployeeID:    o.EmployeeID,
		TotalAmount:   o.TotalAmount,
		PaymentMethod: o.PaymentMethod,
		Status:        o.Status,
		CreatedAt:     o.CreatedAt,
		CompletedAt:   o.CompletedAt,
		Lines:         make([]OrderLineResponse, 0, len(o.Lines)),
	}
	for _, l := range o.Lines {
		resp.Lines = append(resp.Lines, OrderLineResponse{
			ID:        l.ID,
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			Subtotal:  l.Subtotal,
		})
	}
	return resp
}
