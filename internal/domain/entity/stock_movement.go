package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de stock.
const (
	MovementKindSupply      = "supply"      // entrada por compra a proveedor
	MovementKindConsumption = "consumption" // salida por venta (receta)
	MovementKindWriteOff    = "write_off"   // merma
	MovementKindCorrection  = "correction"  // ajuste por conteo físico
)

// StockMovement es el registro inmutable de un cambio en CurrentStock.
// Delta lleva signo: positivo entra, negativo sale. La suma de los Delta de un
// ingrediente reproduce su variación de existencia desde su creación.
type StockMovement struct {
	ID           string
	IngredientID string
	Kind         string
	Delta        decimal.Decimal
	Cost         *decimal.Decimal // costo total de la entrada (solo supply)
	Reference    string           // ID de la orden para consumos
	Reason       string
	CreatedBy    string
	CreatedAt    time.Time
}
