package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalesReportDTO respuesta de GET /api/reports/sales.
type SalesReportDTO struct {
	Period string    `json:"period"` // day | week | month
	From   time.Time `json:"from"`
	To     time.Time `json:"to"`

	Orders         int             `json:"orders"`          // órdenes no canceladas
	Revenue        decimal.Decimal `json:"revenue"`         // ingreso bruto
	AverageTicket  decimal.Decimal `json:"average_ticket"`  // Revenue / Orders
	IngredientCost decimal.Decimal `json:"ingredient_cost"` // consumos valorados al costo vigente
	GrossMargin    decimal.Decimal `json:"gross_margin"`    // Revenue - IngredientCost

	TopProducts []TopProductDTO `json:"top_products"`
}

// TopProductDTO producto más vendido del período.
type TopProductDTO struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int64           `json:"quantity"`
	Revenue   decimal.Decimal `json:"revenue"`
}
