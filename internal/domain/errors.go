package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias de infraestructura).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrEmptyOrder        = fmt.Errorf("%w: la orden no tiene líneas", ErrInvalidInput)
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con una transacción concurrente")
	ErrPersistence       = errors.New("error de persistencia")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrUnknownProduct    = errors.New("producto desconocido")
	ErrUnknownIngredient = errors.New("ingrediente desconocido")
	ErrInvalidTransition = errors.New("transición de estado inválida")
)

// InsufficientStockError identifica el primer ingrediente que bloquea una operación.
type InsufficientStockError struct {
	IngredientID string
	Name         string
	Required     decimal.Decimal
	OnHand       decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	name := e.Name
	if name == "" {
		name = "#" + e.IngredientID
	}
	return fmt.Sprintf("stock insuficiente de %s: requerido %s, disponible %s",
		name, e.Required.String(), e.OnHand.String())
}

func (e *InsufficientStockError) Is(target error) bool { return target == ErrInsufficientStock }

// UnknownProductError producto inexistente o inactivo referenciado por una orden.
// Es un error de validación: también satisface errors.Is(err, ErrInvalidInput).
type UnknownProductError struct {
	ProductID string
	Inactive  bool
}

func (e *UnknownProductError) Error() string {
	if e.Inactive {
		return fmt.Sprintf("producto %s inactivo", e.ProductID)
	}
	return fmt.Sprintf("producto %s no existe", e.ProductID)
}

func (e *UnknownProductError) Is(target error) bool {
	return target == ErrUnknownProduct || target == ErrInvalidInput
}

// UnknownIngredientError ingrediente inexistente referenciado por una receta.
type UnknownIngredientError struct {
	IngredientID string
}

func (e *UnknownIngredientError) Error() string {
	return fmt.Sprintf("ingrediente %s no existe", e.IngredientID)
}

func (e *UnknownIngredientError) Is(target error) bool {
	return target == ErrUnknownIngredient || target == ErrInvalidInput
}

// InvalidTransitionError transición no permitida por la máquina de estados de órdenes.
type InvalidTransitionError struct {
	OrderID string
	From    string
	To      string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("orden %s: no se puede pasar de %s a %s", e.OrderID, e.From, e.To)
}

func (e *InvalidTransitionError) Is(target error) bool { return target == ErrInvalidTransition }
