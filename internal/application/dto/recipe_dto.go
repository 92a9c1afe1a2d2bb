package dto

import "github.com/shopspring/decimal"

// RecipeLineRequest línea del body de PUT /api/products/:id/recipe.
type RecipeLineRequest struct {
	IngredientID     string          `json:"ingredient_id"`
	QuantityRequired decimal.Decimal `json:"quantity_required"`
}

// SetRecipeRequest reemplaza la receta completa de un producto.
type SetRecipeRequest struct {
	Lines []RecipeLineRequest `json:"lines"`
}

// RecipeLineResponse línea de receta.
type RecipeLineResponse struct {
	IngredientID     string          `json:"ingredient_id"`
	QuantityRequired decimal.Decimal `json:"quantity_required"`
}

// RecipeResponse receta de un producto.
type RecipeResponse struct {
	ProductID string               `json:"product_id"`
	Lines     []RecipeLineResponse `json:"lines"`
}

// MenuItemResponse producto activo con porciones disponibles según stock.
// Portions es nil cuando el producto no tiene receta (sin límite de stock).
type MenuItemResponse struct {
	ProductID  string          `json:"product_id"`
	CategoryID string          `json:"category_id"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	Portions   *int64          `json:"portions,omitempty"`
	Available  bool            `json:"available"`
}
