package inventory

import (
	"context"

	"github.com/jhoicas/cafeteria-pos/internal/domain/entity"
	"github.com/jhoicas/cafeteria-pos/internal/domain/repository"
)

// BOMIndex resuelve el bill of materials (receta) de los productos.
// No convierte unidades: la cantidad se interpreta en la unidad del ingrediente.
type BOMIndex struct {
	recipes repository.RecipeRepository
}

// NewBOMIndex construye el índice sobre el repositorio de recetas.
func NewBOMIndex(recipes repository.RecipeRepository) *BOMIndex {
	return &BOMIndex{recipes: recipes}
}

// Requirements líneas de receta de un producto en orden de autoría.
// Un producto sin receta (o inexistente) devuelve una lista vacía.
func (b *BOMIndex) Requirements(ctx context.Context, productID string) ([]entity.RecipeLine, error) {
	lines, err := b.recipes.ListByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if lines == nil {
		lines = []entity.RecipeLine{}
	}
	return lines, nil
}

// RequirementsFor recetas de varios productos a la vez.
func (b *BOMIndex) RequirementsFor(ctx context.Context, productIDs []string) (map[string][]entity.RecipeLine, error) {
	if len(productIDs) == 0 {
		return map[string][]entity.RecipeLine{}, nil
	}
	return b.recipes.ListByProducts(ctx, productIDs)
}
