package inventory

import (
	"context"

	"github.com/jhoicas/cafeteria-pos/internal/domain/inventory"
	"github.com/jhoicas/cafeteria-pos/internal/domain/repository"
)

// FeasibilityChecker verifica sin bloqueos si el stock actual cubre una orden.
// Es consultivo: la liquidación vuelve a validar con las filas bloqueadas.
type FeasibilityChecker struct {
	bom         *BOMIndex
	products    repository.ProductRepository
	ingredients repository.IngredientRepository
}

// NewFeasibilityChecker construye el verificador sobre repositorios de lectura.
func NewFeasibilityChecker(repos repository.Repositories) *FeasibilityChecker {
	return &FeasibilityChecker{
		bom:         NewBOMIndex(repos.Recipes),
		products:    repos.Products,
		ingredients: repos.Ingredients,
	}
}

// Check devuelve nil si la orden es factible, domain.ErrEmptyOrder o un error de
// validación para líneas mal formadas, *domain.UnknownProductError, o *domain.InsufficientStockError con el
// primer ingrediente faltante.
func (f *FeasibilityChecker) Check(ctx context.Context, lines []inventory.LineQty) error {
	_, err := f.Requirements(ctx, lines)
	return err
}

// Requirements igual que Check pero devuelve además el acumulado calculado.
func (f *FeasibilityChecker) Requirements(ctx context.Context, lines []inventory.LineQty) (*inventory.Requirements, error) {
	if err := inventory.ValidateLines(lines); err != nil {
		return nil, err
	}
	ids := inventory.ProductIDs(lines)
	products, err := f.products.GetMany(ctx, ids)
	if err != nil {
		return nil, err
	}
	if err := inventory.CheckProducts(ids, products); err != nil {
		return nil, err
	}
	recipes, err := f.bom.RequirementsFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	req := inventory.Aggregate(lines, recipes)
	if req.Len() == 0 {
		return req, nil
	}
	stock, err := f.ingredients.GetMany(ctx, req.IngredientIDs())
	if err != nil {
		return nil, err
	}
	return req, inventory.CheckFeasible(req, stock)
}
