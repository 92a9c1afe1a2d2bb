package repository

import (
	"context"

	"github.com/jhoicas/cafeteria-pos/internal/domain/entity"
)

// IngredientRepository define el puerto de persistencia para Ingredient (DIP).
// Usado dentro de transacciones para garantizar consistencia del stock.
type IngredientRepository interface {
	Create(ctx context.Context, ingredient *entity.Ingredient) error
	GetByID(ctx context.Context, id string) (*entity.Ingredient, error)
	// GetMany lectura sin bloqueo; ids inexistentes no aparecen en el mapa.
	GetMany(ctx context.Context, ids []string) (map[string]*entity.Ingredient, error)
	List(ctx context.Context) ([]*entity.Ingredient, error)
	// LockForUpdate bloquea las filas (SELECT FOR UPDATE) en orden ascendente de ID
	// hasta el fin de la transacción. Ids inexistentes no aparecen en el mapa.
	LockForUpdate(ctx context.Context, ids []string) (map[string]*entity.Ingredient, error)
	// UpdateStock persiste CurrentStock y UnitCost.
	UpdateStock(ctx context.Context, ingredient *entity.Ingredient) error
}
