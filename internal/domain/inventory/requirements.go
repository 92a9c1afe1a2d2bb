package inventory

import (
	"fmt"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/cafeteria-pos/internal/domain"
	"github.com/jhoicas/cafeteria-pos/internal/domain/entity"
)

// MaxLineQuantity tope de unidades por línea.
const MaxLineQuantity = 1000

// LineQty producto y cantidad pedida de una línea de orden.
type LineQty struct {
	ProductID string
	Quantity  int
}

// ValidateLines valida la forma de las líneas antes de abrir cualquier transacción.
func ValidateLines(lines []LineQty) error {
	if len(lines) == 0 {
		return domain.ErrEmptyOrder
	}
	for i, l := range lines {
		if l.ProductID == "" {
			return fmt.Errorf("%w: línea %d sin producto", domain.ErrInvalidInput, i+1)
		}
		if l.Quantity <= 0 {
			return fmt.Errorf("%w: línea %d con cantidad %d", domain.ErrInvalidInput, i+1, l.Quantity)
		}
		if l.Quantity > MaxLineQuantity {
			return fmt.Errorf("%w: línea %d excede %d unidades", domain.ErrInvalidInput, i+1, MaxLineQuantity)
		}
	}
	return nil
}

// ProductIDs ids de producto sin repetir, en orden de aparición.
func ProductIDs(lines []LineQty) []string {
	seen := make(map[string]struct{}, len(lines))
	ids := make([]string, 0, len(lines))
	for _, l := range lines {
		if _, ok := seen[l.ProductID]; ok {
			continue
		}
		seen[l.ProductID] = struct{}{}
		ids = append(ids, l.ProductID)
	}
	return ids
}

// CheckProducts exige que todos los productos existan y estén activos.
func CheckProducts(ids []string, products map[string]*entity.Product) error {
	for _, id := range ids {
		p, ok := products[id]
		if !ok || p == nil {
			return &domain.UnknownProductError{ProductID: id}
		}
		if !p.IsActive {
			return &domain.UnknownProductError{ProductID: id, Inactive: true}
		}
	}
	return nil
}

// Requirement cantidad total requerida de un ingrediente.
type Requirement struct {
	IngredientID string
	Quantity     decimal.Decimal
}

// Requirements acumulado de ingredientes de una orden. Conserva el orden en que
// cada ingrediente apareció al recorrer las líneas, para que el primer faltante
// reportado sea estable.
type Requirements struct {
	order  []string
	totals map[string]decimal.Decimal
}

// Aggregate multiplica cada línea de receta por la cantidad pedida y suma por
// ingrediente entre todas las líneas. Un producto sin receta no aporta nada.
func Aggregate(lines []LineQty, recipes map[string][]entity.RecipeLine) *Requirements {
	req := &Requirements{totals: make(map[string]decimal.Decimal)}
	for _, line := range lines {
		qty := decimal.NewFromInt(int64(line.Quantity))
		for _, rl := range recipes[line.ProductID] {
			needed := rl.QuantityRequired.Mul(qty)
			current, seen := req.totals[rl.IngredientID]
			if !seen {
				req.order = append(req.order, rl.IngredientID)
			}
			req.totals[rl.IngredientID] = current.Add(needed)
		}
	}
	return req
}

// Len número de ingredientes tocados.
func (r *Requirements) Len() int { return len(r.order) }

// Quantity total requerido de un ingrediente (cero si no se usa).
func (r *Requirements) Quantity(ingredientID string) decimal.Decimal {
	return r.totals[ingredientID]
}

// Items requerimientos en orden de primera aparición.
func (r *Requirements) Items() []Requirement {
	out := make([]Requirement, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, Requirement{IngredientID: id, Quantity: r.totals[id]})
	}
	return out
}

// IngredientIDs ids en orden de primera aparición.
func (r *Requirements) IngredientIDs() []string {
	return slices.Clone(r.order)
}

// LockOrder ids en orden ascendente: el orden fijo de adquisición de bloqueos.
func (r *Requirements) LockOrder() []string {
	ids := slices.Clone(r.order)
	slices.Sort(ids)
	return ids
}

// CheckFeasible compara los requerimientos contra la existencia actual y devuelve
// un *domain.InsufficientStockError con el primer ingrediente faltante.
// Un ingrediente ausente del mapa cuenta como existencia cero.
func CheckFeasible(req *Requirements, stock map[string]*entity.Ingredient) error {
	for _, id := range req.order {
		required := req.totals[id]
		if required.IsZero() {
			continue
		}
		ing, ok := stock[id]
		if !ok || ing == nil {
			return &domain.InsufficientStockError{IngredientID: id, Required: required, OnHand: decimal.Zero}
		}
		if ing.CurrentStock.LessThan(required) {
			return &domain.InsufficientStockError{
				IngredientID: id,
				Name:         ing.Name,
				Required:     required,
				OnHand:       ing.CurrentStock,
			}
		}
	}
	return nil
}

// PortionsAvailable cuántas unidades completas de un producto permite el stock
// actual. limited es false cuando el producto no tiene receta.
func PortionsAvailable(recipe []entity.RecipeLine, stock map[string]*entity.Ingredient) (portions int64, limited bool) {
	if len(recipe) == 0 {
		return 0, false
	}
	first := true
	for _, rl := range recipe {
		if !rl.QuantityRequired.IsPositive() {
			continue
		}
		var onHand decimal.Decimal
		if ing, ok := stock[rl.IngredientID]; ok && ing != nil {
			onHand = ing.CurrentStock
		}
		n := onHand.Div(rl.QuantityRequired).Floor().IntPart()
		if n < 0 {
			n = 0
		}
		if first || n < portions {
			portions = n
			first = false
		}
	}
	return portions, true
}
