package order_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/cafeteria-pos/internal/application/order"
	"github.com/jhoicas/cafeteria-pos/internal/domain"
	"github.com/jhoicas/cafeteria-pos/internal/domain/entity"
	"github.com/jhoicas/cafeteria-pos/internal/domain/inventory"
)

// captureRenderer guarda el último ticket recibido.
type captureRenderer struct{ last *order.Receipt }

func (r *captureRenderer) RenderReceipt(_ context.Context, receipt *order.Receipt) ([]byte, error) {
	r.last = receipt
	return []byte("ticket"), nil
}

func TestReceipt_ResuelveNombresYPrecios(t *testing.T) {
	ctx := context.Background()
	c := newCafe(t)
	require.NoError(t, c.store.Repositories().Employees.Create(ctx, &entity.Employee{
		ID: barista.EmployeeID, Name: "Iván", Phone: "555", Role: entity.RoleBarista, IsActive: true,
	}))
	res, err := c.settlement.PlaceOrder(ctx, order.PlaceOrderInput{
		EmployeeID:    barista.EmployeeID,
		Lines:         []inventory.LineQty{{ProductID: "latte", Quantity: 1}, {ProductID: "water", Quantity: 2}},
		PaymentMethod: entity.PaymentCash,
	})
	require.NoError(t, err)

	renderer := &captureRenderer{}
	uc := order.NewReceiptUseCase(c.status, c.store.Repositories(), renderer, "Cafetería")
	out, err := uc.Render(ctx, res.OrderID, barista)
	require.NoError(t, err)
	assert.Equal(t, "ticket", string(out))

	r := renderer.last
	require.NotNil(t, r)
	assert.Equal(t, "Cafetería", r.Shop)
	assert.Equal(t, "Iván", r.Cashier)
	assert.Equal(t, entity.PaymentCash, r.PaymentMethod)
	require.Len(t, r.Lines, 2)
	assert.Equal(t, "Latte", r.Lines[0].ProductName)
	assert.Equal(t, "Water", r.Lines[1].ProductName)
	assert.True(t, r.Lines[1].Subtotal.Equal(dec("50")))
	assert.True(t, r.Total.Equal(dec("115")))
}

func TestReceipt_VisibilidadComoLaOrden(t *testing.T) {
	c := newCafe(t)
	id := placeLatte(t, c)
	uc := order.NewReceiptUseCase(c.status, c.store.Repositories(), &captureRenderer{}, "Cafetería")

	_, err := uc.Render(context.Background(), id, other)
	assert.True(t, errors.Is(err, domain.ErrForbidden))

	r, err := uc.Build(context.Background(), id, admin)
	require.NoError(t, err)
	assert.Equal(t, barista.EmployeeID, r.Cashier, "sin empleado registrado se usa el ID")

	_, err = uc.Build(context.Background(), "no-existe", admin)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}
