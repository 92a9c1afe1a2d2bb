package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Ingredient representa una materia prima del café (leche, grano, vasos...).
// CurrentStock nunca queda negativo tras una operación confirmada; solo cambia
// mediante movimientos (StockMovement) registrados en la misma transacción.
type Ingredient struct {
	ID               string
	Name             string
	Unit             string          // unidad de medida libre: kg, l, pcs
	CurrentStock     decimal.Decimal // existencia actual
	WarningThreshold decimal.Decimal // umbral de alerta de stock bajo
	UnitCost         decimal.Decimal // costo promedio ponderado por unidad
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// IsLow indica si la existencia está en o por debajo del umbral de alerta.
func (i *Ingredient) IsLow() bool {
	return i.CurrentStock.LessThanOrEqual(i.WarningThreshold)
}
