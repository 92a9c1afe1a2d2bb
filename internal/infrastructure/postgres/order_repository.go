package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/cafeteria-pos/internal/domain"
	"github.com/jhoicas/cafeteria-pos/internal/domain/entity"
	"github.com/jhoicas/cafeteria-pos/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

const orderColumns = `id, employee_id, total_amount, payment_method, status, created_at, completed_at, updated_at`

// OrderRepo implementación de OrderRepository sobre PostgreSQL (usable con pool o tx).
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

// Create persiste la cabecera de la orden.
func (r *OrderRepo) Create(ctx context.Context, o *entity.Order) error {
	query := `
		INSERT INTO orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		o.ID, o.EmployeeID, o.TotalAmount, o.PaymentMethod, o.Status,
		o.CreatedAt, o.CompletedAt, o.UpdatedAt,
	)
	return mapError("insert order", err)
}

// CreateLine persiste una línea con el precio capturado al momento de la venta.
func (r *OrderRepo) CreateLine(ctx context.Context, l *entity.OrderLine) error {
	query := `
		INSERT INTO order_lines (id, order_id, product_id, quantity, unit_price, subtotal)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query, l.ID, l.OrderID, l.ProductID, l.Quantity, l.UnitPrice, l.Subtotal)
	return mapError("insert order line", err)
}

// GetByID obtiene la orden sin líneas; nil si no existe.
func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	return r.get(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
}

// GetForUpdate igual que GetByID pero bloquea la fila hasta el fin de la transacción.
func (r *OrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.Order, error) {
	return r.get(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1 FOR UPDATE`, id)
}

func (r *OrderRepo) get(ctx context.Context, query, id string) (*entity.Order, error) {
	var o entity.Order
	err := r.q.QueryRow(ctx, query, id).Scan(
		&o.ID, &o.EmployeeID, &o.TotalAmount, &o.PaymentMethod, &o.Status,
		&o.CreatedAt, &o.CompletedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapError("get order", err)
	}
	return &o, nil
}

// GetLines líneas de la orden en orden de inserción.
func (r *OrderRepo) GetLines(ctx context.Context, orderID string) ([]*entity.OrderLine, error) {
	query := `
		SELECT id, order_id, product_id, quantity, unit_price, subtotal
		FROM order_lines WHERE order_id = $1 ORDER BY line_no`
	rows, err := r.q.Query(ctx, query, orderID)
	if err != nil {
		return nil, mapError("list order lines", err)
	}
	defer rows.Close()
	list := []*entity.OrderLine{}
	for rows.Next() {
		var l entity.OrderLine
		if err := rows.Scan(&l.ID, &l.OrderID, &l.ProductID, &l.Quantity, &l.UnitPrice, &l.Subtotal); err != nil {
			return nil, mapError("scan order line", err)
		}
		list = append(list, &l)
	}
	return list, mapError("list order lines", rows.Err())
}

// UpdateStatus persiste estado y fechas de la orden.
func (r *OrderRepo) UpdateStatus(ctx context.Context, o *entity.Order) error {
	query := `UPDATE orders SET status = $2, completed_at = $3, updated_at = $4 WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, o.ID, o.Status, o.CompletedAt, o.UpdatedAt)
	if err != nil {
		return mapError("update order status", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
