package repository

import (
	"context"

	"github.com/jhoicas/cafeteria-pos/internal/domain/entity"
)

// OrderRepository define el puerto de persistencia para Order y OrderLine.
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	CreateLine(ctx context.Context, line *entity.OrderLine) error
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	// GetForUpdate bloquea la cabecera para cambiar su estado.
	GetForUpdate(ctx context.Context, id string) (*entity.Order, error)
	GetLines(ctx context.Context, orderID string) ([]*entity.OrderLine, error)
	UpdateStatus(ctx context.Context, order *entity.Order) error
}
