package repository

import (
	"context"

	"github.com/jhoicas/cafeteria-pos/internal/domain/entity"
)

// RecipeRepository define el puerto de persistencia del bill of materials.
type RecipeRepository interface {
	// ListByProduct devuelve las líneas en orden de Position; vacío si no hay receta.
	ListByProduct(ctx context.Context, productID string) ([]entity.RecipeLine, error)
	ListByProducts(ctx context.Context, productIDs []string) (map[string][]entity.RecipeLine, error)
	// Replace borra las líneas del producto e inserta las nuevas (usar dentro de una transacción).
	Replace(ctx context.Context, productID string, lines []entity.RecipeLine) error
}
