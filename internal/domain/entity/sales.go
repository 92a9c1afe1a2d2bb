package entity

import "github.com/shopspring/decimal"

// SalesTotals agregado de ventas de un período. Las órdenes canceladas no cuentan.
type SalesTotals struct {
	Orders  int
	Revenue decimal.Decimal
}

// ProductSales unidades e ingresos de un producto en un período.
type ProductSales struct {
	ProductID string
	Name      string
	Quantity  int64
	Revenue   decimal.Decimal
}
