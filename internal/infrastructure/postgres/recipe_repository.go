package postgres

import (
	"context"

	"github.com/jhoicas/cafeteria-pos/internal/domain/entity"
	"github.com/jhoicas/cafeteria-pos/internal/domain/repository"
)

var _ repository.RecipeRepository = (*RecipeRepo)(nil)

// RecipeRepo implementación de RecipeRepository sobre PostgreSQL.
type RecipeRepo struct {
	q Querier
}

// NewRecipeRepository construye el adaptador. Pasar pool o tx (Querier).
func NewRecipeRepository(q Querier) *RecipeRepo {
	return &RecipeRepo{q: q}
}

// ListByProduct líneas de la receta en orden de captura. Sin receta devuelve lista vacía.
func (r *RecipeRepo) ListByProduct(ctx context.Context, productID string) ([]entity.RecipeLine, error) {
	byProduct, err := r.ListByProducts(ctx, []string{productID})
	if err != nil {
		return nil, err
	}
	lines := byProduct[productID]
	if lines == nil {
		lines = []entity.RecipeLine{}
	}
	return lines, nil
}

// ListByProducts recetas de varios productos en una sola consulta.
func (r *RecipeRepo) ListByProducts(ctx context.Context, productIDs []string) (map[string][]entity.RecipeLine, error) {
	out := make(map[string][]entity.RecipeLine, len(productIDs))
	if len(productIDs) == 0 {
		return out, nil
	}
	query := `
		SELECT product_id, ingredient_id, quantity_required, position
		FROM recipe_lines WHERE product_id = ANY($1)
		ORDER BY product_id, position`
	rows, err := r.q.Query(ctx, query, productIDs)
	if err != nil {
		return nil, mapError("list recipes", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l entity.RecipeLine
		if err := rows.Scan(&l.ProductID, &l.IngredientID, &l.QuantityRequired, &l.Position); err != nil {
			return nil, mapError("scan recipe line", err)
		}
		out[l.ProductID] = append(out[l.ProductID], l)
	}
	return out, mapError("list recipes", rows.Err())
}

// Replace sustituye la receta completa. Debe llamarse dentro de una transacción.
func (r *RecipeRepo) Replace(ctx context.Context, productID string, lines []entity.RecipeLine) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM recipe_lines WHERE product_id = $1`, productID); err != nil {
		return mapError("delete recipe", err)
	}
	query := `
		INSERT INTO recipe_lines (product_id, ingredient_id, quantity_required, position)
		VALUES ($1, $2, $3, $4)`
	for _, l := range lines {
		if _, err := r.q.Exec(ctx, query, productID, l.IngredientID, l.QuantityRequired, l.Position); err != nil {
			return mapError("insert recipe line", err)
		}
	}
	return nil
}
