package inventory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/cafeteria-pos/internal/domain/entity"
	"github.com/jhoicas/cafeteria-pos/internal/domain/repository"
)

// ReplenishmentSuggestion ingrediente en o bajo su umbral con la compra sugerida.
type ReplenishmentSuggestion struct {
	Ingredient    *entity.Ingredient
	IdealStock    decimal.Decimal
	SuggestedQty  decimal.Decimal
	EstimatedCost decimal.Decimal
	Priority      int
}

// ReplenishmentUseCase genera la lista de compras para reponer ingredientes bajos.
type ReplenishmentUseCase struct {
	ingredients repository.IngredientRepository
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(ingredients repository.IngredientRepository) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{ingredients: ingredients}
}

var idealFactor = decimal.NewFromFloat(1.5)

// Suggestions devuelve los ingredientes con stock bajo ordenados por urgencia:
// primero los agotados, luego mayor déficit relativo al umbral, luego mayor costo.
// Stock ideal = umbral × 1.5.
func (uc *ReplenishmentUseCase) Suggestions(ctx context.Context) ([]ReplenishmentSuggestion, error) {
	all, err := uc.ingredients.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]ReplenishmentSuggestion, 0)
	for _, ing := range all {
		if !ing.IsLow() {
			continue
		}
		ideal := ing.WarningThreshold.Mul(idealFactor)
		qty := ideal.Sub(ing.CurrentStock)
		if qty.IsNegative() {
			qty = decimal.Zero
		}
		out = append(out, ReplenishmentSuggestion{
			Ingredient:    ing,
			IdealStock:    ideal,
			SuggestedQty:  qty,
			EstimatedCost: qty.Mul(ing.UnitCost).Round(2),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Ingredient, out[j].Ingredient
		if a.CurrentStock.IsZero() != b.CurrentStock.IsZero() {
			return a.CurrentStock.IsZero()
		}
		ra, rb := deficitRatio(a), deficitRatio(b)
		if !ra.Equal(rb) {
			return ra.GreaterThan(rb)
		}
		return out[i].EstimatedCost.GreaterThan(out[j].EstimatedCost)
	})

	// Prioridad 1 = más urgente
	for i := range out {
		out[i].Priority = i + 1
	}
	return out, nil
}

// deficitRatio fracción del umbral que falta: 1 agotado, 0 justo en el umbral.
func deficitRatio(ing *entity.Ingredient) decimal.Decimal {
	if !ing.WarningThreshold.IsPositive() {
		return decimal.Zero
	}
	return ing.WarningThreshold.Sub(ing.CurrentStock).Div(ing.WarningThreshold)
}
