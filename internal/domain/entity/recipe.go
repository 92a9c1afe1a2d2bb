package entity

import "github.com/shopspring/decimal"

// RecipeLine es una línea de la receta (bill of materials) de un producto:
// cantidad de un ingrediente consumida por una unidad de producto, expresada
// en la unidad del ingrediente. QuantityRequired siempre es > 0.
type RecipeLine struct {
	ProductID        string
	IngredientID     string
	QuantityRequired decimal.Decimal
	Position         int // orden de captura de la receta
}
