package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/cafeteria-pos/internal/domain/entity"
)

// SalesRepository consultas de solo lectura para reportes de ventas.
// Los rangos son [from, to).
type SalesRepository interface {
	Totals(ctx context.Context, from, to time.Time) (entity.SalesTotals, error)
	// TopProducts ordenado por ingreso descendente.
	TopProducts(ctx context.Context, from, to time.Time, limit int) ([]entity.ProductSales, error)
	// ConsumptionCost valora los consumos por venta del período al costo unitario vigente.
	ConsumptionCost(ctx context.Context, from, to time.Time) (decimal.Decimal, error)
}
