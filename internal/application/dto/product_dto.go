package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateCategoryRequest entrada para crear una categoría del menú.
type CreateCategoryRequest struct {
	Name string `json:"name"`
}

// CategoryResponse salida de una categoría.
type CategoryResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CreateProductRequest entrada para crear un producto vendible.
type CreateProductRequest struct {
	CategoryID  string          `json:"category_id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID          string          `json:"id"`
	CategoryID  string          `json:"category_id,omitempty"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	IsActive    bool            `json:"is_active"`
	CreatedAt   time.Time       `json:"created_at"`
}

// CreateIngredientRequest body de POST /api/ingredients. InitialStock genera el movimiento de saldo inicial.
type CreateIngredientRequest struct {
	Name             string          `json:"name"`
	Unit             string          `json:"unit"`
	InitialStock     decimal.Decimal `json:"initial_stock"`
	WarningThreshold decimal.Decimal `json:"warning_threshold"`
	UnitCost         decimal.Decimal `json:"unit_cost"`
}

// ReplenishmentSuggestionDTO fila de la lista de reposición.
type ReplenishmentSuggestionDTO struct {
	IngredientID  string          `json:"ingredient_id"`
	Name          string          `json:"name"`
	Unit          string          `json:"unit"`
	CurrentStock  decimal.Decimal `json:"current_stock"`
	IdealStock    decimal.Decimal `json:"ideal_stock"`
	SuggestedQty  decimal.Decimal `json:"suggested_qty"`
	EstimatedCost decimal.Decimal `json:"estimated_cost"`
	Priority      int             `json:"priority"`
}

// ReconciliationResponse existencia contra suma del libro de movimientos.
type ReconciliationResponse struct {
	IngredientID  string          `json:"ingredient_id"`
	OnHand        decimal.Decimal `json:"on_hand"`
	MovementTotal decimal.Decimal `json:"movement_total"`
	Balanced      bool            `json:"balanced"`
}
