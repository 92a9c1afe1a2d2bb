package repository

import (
	"context"

	"github.com/jhoicas/cafeteria-pos/internal/domain/entity"
)

// EmployeeRepository define el puerto de persistencia para Employee.
type EmployeeRepository interface {
	Create(ctx context.Context, employee *entity.Employee) error
	GetByID(ctx context.Context, id string) (*entity.Employee, error)
	FindByPhone(ctx context.Context, phone string) (*entity.Employee, error)
	List(ctx context.Context) ([]*entity.Employee, error)
}
