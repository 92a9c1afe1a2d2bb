package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un artículo del menú. Price es el precio vigente;
// las órdenes lo copian en OrderLine.UnitPrice al momento de la venta.
type Product struct {
	ID          string
	CategoryID  string
	Name        string
	Description string
	Price       decimal.Decimal
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
