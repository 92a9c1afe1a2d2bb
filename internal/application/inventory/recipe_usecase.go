package inventory

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/cafeteria-pos/internal/application/ports"
	"github.com/jhoicas/cafeteria-pos/internal/domain"
	"github.com/jhoicas/cafeteria-pos/internal/domain/entity"
	"github.com/jhoicas/cafeteria-pos/internal/domain/repository"
	"github.com/jhoicas/cafeteria-pos/pkg/logger"
)

// RecipeLineInput línea de receta entrante.
type RecipeLineInput struct {
	IngredientID     string
	QuantityRequired decimal.Decimal
}

// RecipeUseCase administra el bill of materials de los productos.
type RecipeUseCase struct {
	txRunner ports.TxRunner
	repos    repository.Repositories
	bom      *BOMIndex
	log      *logger.Logger
}

// NewRecipeUseCase construye el caso de uso.
func NewRecipeUseCase(txRunner ports.TxRunner, repos repository.Repositories, log *logger.Logger) *RecipeUseCase {
	if log == nil {
		log = logger.NewNop()
	}
	return &RecipeUseCase{
		txRunner: txRunner,
		repos:    repos,
		bom:      NewBOMIndex(repos.Recipes),
		log:      log.Component("recipe"),
	}
}

// SetRecipe reemplaza la receta completa de un producto. Ante cualquier error
// de validación la receta anterior queda intacta.
func (uc *RecipeUseCase) SetRecipe(ctx context.Context, productID string, lines []RecipeLineInput) ([]entity.RecipeLine, error) {
	if productID == "" {
		return nil, domain.ErrInvalidInput
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: la receta debe tener al menos una línea", domain.ErrInvalidInput)
	}
	ingredientIDs := make([]string, 0, len(lines))
	seen := make(map[string]struct{}, len(lines))
	for i, l := range lines {
		if l.IngredientID == "" {
			return nil, fmt.Errorf("%w: línea %d sin ingrediente", domain.ErrInvalidInput, i+1)
		}
		if !l.QuantityRequired.IsPositive() {
			return nil, fmt.Errorf("%w: línea %d con cantidad %s", domain.ErrInvalidInput, i+1, l.QuantityRequired.String())
		}
		if _, dup := seen[l.IngredientID]; dup {
			return nil, fmt.Errorf("%w: ingrediente %s repetido", domain.ErrInvalidInput, l.IngredientID)
		}
		seen[l.IngredientID] = struct{}{}
		ingredientIDs = append(ingredientIDs, l.IngredientID)
	}

	recipe := make([]entity.RecipeLine, 0, len(lines))
	for i, l := range lines {
		recipe = append(recipe, entity.RecipeLine{
			ProductID:        productID,
			IngredientID:     l.IngredientID,
			QuantityRequired: l.QuantityRequired,
			Position:         i + 1,
		})
	}

	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos repository.Repositories) error {
		product, err := repos.Products.GetByID(ctx, productID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		found, err := repos.Ingredients.GetMany(ctx, ingredientIDs)
		if err != nil {
			return err
		}
		for _, id := range ingredientIDs {
			if _, ok := found[id]; !ok {
				return &domain.UnknownIngredientError{IngredientID: id}
			}
		}
		return repos.Recipes.Replace(ctx, productID, recipe)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("product_id", productID).Int("lines", len(recipe)).Msg("receta reemplazada")
	return recipe, nil
}

// GetRecipe receta de un producto; domain.ErrNotFound si el producto no existe.
func (uc *RecipeUseCase) GetRecipe(ctx context.Context, productID string) ([]entity.RecipeLine, error) {
	product, err := uc.repos.Products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return uc.bom.Requirements(ctx, productID)
}
