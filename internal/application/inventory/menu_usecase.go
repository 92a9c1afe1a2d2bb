package inventory

import (
	"context"

	"github.com/jhoicas/cafeteria-pos/internal/domain/entity"
	"github.com/jhoicas/cafeteria-pos/internal/domain/inventory"
	"github.com/jhoicas/cafeteria-pos/internal/domain/repository"
)

// MenuItem producto activo con las porciones que permite el stock actual.
type MenuItem struct {
	Product  *entity.Product
	Portions int64
	Limited  bool // false: el producto no tiene receta
}

// Available indica si se puede vender al menos una unidad.
func (m MenuItem) Available() bool { return !m.Limited || m.Portions > 0 }

// MenuUseCase arma la carta con disponibilidad. Lectura sin bloqueos: el número
// es orientativo y la venta vuelve a validar.
type MenuUseCase struct {
	repos repository.Repositories
	bom   *BOMIndex
}

// NewMenuUseCase construye el caso de uso.
func NewMenuUseCase(repos repository.Repositories) *MenuUseCase {
	return &MenuUseCase{repos: repos, bom: NewBOMIndex(repos.Recipes)}
}

// ListAvailable productos activos con porciones disponibles.
func (uc *MenuUseCase) ListAvailable(ctx context.Context) ([]MenuItem, error) {
	products, err := uc.repos.Products.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
	}
	recipes, err := uc.bom.RequirementsFor(ctx, ids)
	if err != nil {
		return nil, err
	}

	var ingredientIDs []string
	seen := make(map[string]struct{})
	for _, lines := range recipes {
		for _, l := range lines {
			if _, ok := seen[l.IngredientID]; !ok {
				seen[l.IngredientID] = struct{}{}
				ingredientIDs = append(ingredientIDs, l.IngredientID)
			}
		}
	}
	stock := map[string]*entity.Ingredient{}
	if len(ingredientIDs) > 0 {
		if stock, err = uc.repos.Ingredients.GetMany(ctx, ingredientIDs); err != nil {
			return nil, err
		}
	}

	items := make([]MenuItem, 0, len(products))
	for _, p := range products {
		portions, limited := inventory.PortionsAvailable(recipes[p.ID], stock)
		items = append(items, MenuItem{Product: p, Portions: portions, Limited: limited})
	}
	return items, nil
}
