package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/cafeteria-pos/internal/domain/entity"
)

// CorrectInventoryRequest body de POST /api/ingredients/:id/inventory (conteo físico).
type CorrectInventoryRequest struct {
	ActualQuantity decimal.Decimal `json:"actual_quantity"`
}

// WriteOffRequest body de POST /api/ingredients/:id/write-offs.
type WriteOffRequest struct {
	Quantity decimal.Decimal `json:"quantity"`
	Reason   string          `json:"reason"`
}

// SupplyRequest body de POST /api/ingredients/:id/supplies. Cost es el costo total del lote.
type SupplyRequest struct {
	Quantity decimal.Decimal  `json:"quantity"`
	Cost     *decimal.Decimal `json:"cost,omitempty"`
}

// IngredientResponse salida de un ingrediente con bandera de stock bajo.
type IngredientResponse struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	Unit             string          `json:"unit"`
	CurrentStock     decimal.Decimal `json:"current_stock"`
	WarningThreshold decimal.Decimal `json:"warning_threshold"`
	UnitCost         decimal.Decimal `json:"unit_cost"`
	Low              bool            `json:"low"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// NewIngredientResponse mapea la entidad a la salida HTTP.
func NewIngredientResponse(i *entity.Ingredient) IngredientResponse {
	return IngredientResponse{
		ID:               i.ID,
		Name:             i.Name,
		Unit:             i.Unit,
		CurrentStock:     i.CurrentStock,
		WarningThreshold: i.WarningThreshold,
		UnitCost:         i.UnitCost,
		Low:              i.IsLow(),
		UpdatedAt:        i.UpdatedAt,
	}
}

// MovementResponse salida de un movimiento de stock.
type MovementResponse struct {
	ID           string           `json:"id"`
	IngredientID string           `json:"ingredient_id"`
	Kind         string           `json:"kind"`
	Delta        decimal.Decimal  `json:"delta"`
	Cost         *decimal.Decimal `json:"cost,omitempty"`
	Reference    string           `json:"reference,omitempty"`
	Reason       string           `json:"reason,omitempty"`
	CreatedBy    string           `json:"created_by,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
}

// NewMovementResponse mapea la entidad a la salida HTTP.
func NewMovementResponse(m *entity.StockMovement) MovementResponse {
	return MovementResponse{
		ID:           m.ID,
		IngredientID: m.IngredientID,
		Kind:         m.Kind,
		Delta:        m.Delta,
		Cost:         m.Cost,
		Reference:    m.Reference,
		Reason:       m.Reason,
		CreatedBy:    m.CreatedBy,
		CreatedAt:    m.CreatedAt,
	}
}

// MovementListResponse lista paginada de movimientos.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
