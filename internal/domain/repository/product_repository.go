package repository

import (
	"context"

	"github.com/jhoicas/cafeteria-pos/internal/domain/entity"
)

// ProductRepository define el puerto de lectura de productos que usa el motor.
// El CRUD completo de productos vive fuera del motor.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetMany(ctx context.Context, ids []string) (map[string]*entity.Product, error)
	ListActive(ctx context.Context) ([]*entity.Product, error)
}

// CategoryRepository define el puerto de persistencia para Category.
type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) error
	List(ctx context.Context) ([]*entity.Category, error)
}
