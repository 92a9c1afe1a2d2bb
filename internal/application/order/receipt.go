package order

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/cafeteria-pos/internal/domain/entity"
	"github.com/jhoicas/cafeteria-pos/internal/domain/repository"
)

// ReceiptRenderer genera el documento imprimible de un ticket (puerto).
type ReceiptRenderer interface {
	RenderReceipt(ctx context.Context, receipt *Receipt) ([]byte, error)
}

// Receipt datos del ticket de una orden, ya resueltos para imprimir.
type Receipt struct {
	Shop          string
	OrderID       string
	Status        string
	PaymentMethod string
	Cashier       string
	CreatedAt     time.Time
	Lines         []ReceiptLine
	Total         decimal.Decimal
}

// ReceiptLine línea del ticket con el precio capturado en la venta.
type ReceiptLine struct {
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
	Subtotal    decimal.Decimal
}

// ReceiptUseCase arma y genera tickets. Aplica las mismas reglas de
// visibilidad que la consulta de órdenes.
type ReceiptUseCase struct {
	orders   *StatusUseCase
	repos    repository.Repositories
	renderer ReceiptRenderer
	shop     string
}

// NewReceiptUseCase construye el caso de uso.
func NewReceiptUseCase(orders *StatusUseCase, repos repository.Repositories, renderer ReceiptRenderer, shop string) *ReceiptUseCase {
	return &ReceiptUseCase{orders: orders, repos: repos, renderer: renderer, shop: shop}
}

// Build resuelve nombres de producto y cajero de la orden.
func (uc *ReceiptUseCase) Build(ctx context.Context, orderID string, caller entity.Caller) (*Receipt, error) {
	o, err := uc.orders.GetOrder(ctx, orderID, caller)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(o.Lines))
	for _, l := range o.Lines {
		ids = append(ids, l.ProductID)
	}
	products, err := uc.repos.Products.GetMany(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("ticket: productos: %w", err)
	}
	cashier := o.EmployeeID
	emp, err := uc.repos.Employees.GetByID(ctx, o.EmployeeID)
	if err != nil {
		return nil, fmt.Errorf("ticket: empleado: %w", err)
	}
	if emp != nil {
		cashier = emp.Name
	}

	r := &Receipt{
		Shop:          uc.shop,
		OrderID:       o.ID,
		Status:        o.Status,
		PaymentMethod: o.PaymentMethod,
		Cashier:       cashier,
		CreatedAt:     o.CreatedAt,
		Total:         o.TotalAmount,
		Lines:         make([]ReceiptLine, 0, len(o.Lines)),
	}
	for _, l := range o.Lines {
		name := l.ProductID
		if p := products[l.ProductID]; p != nil {
			name = p.Name
		}
		r.Lines = append(r.Lines, ReceiptLine{
			ProductName: name,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			Subtotal:    l.Subtotal,
		})
	}
	return r, nil
}

// Render genera el ticket con el renderer configurado.
func (uc *ReceiptUseCase) Render(ctx context.Context, orderID string, caller entity.Caller) ([]byte, error) {
	r, err := uc.Build(ctx, orderID, caller)
	if err != nil {
		return nil, err
	}
	return uc.renderer.RenderReceipt(ctx, r)
}
