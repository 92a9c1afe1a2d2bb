package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/cafeteria-pos/internal/application/dto"
	appinventory "github.com/jhoicas/cafeteria-pos/internal/application/inventory"
	"github.com/jhoicas/cafeteria-pos/internal/application/order"
	"github.com/jhoicas/cafeteria-pos/internal/domain"
	"github.com/jhoicas/cafeteria-pos/internal/domain/inventory"
)

// OrderHandler maneja la liquidación y el ciclo de vida de órdenes (protegido).
type OrderHandler struct {
	settlement  *order.SettlementUseCase
	status      *order.StatusUseCase
	feasibility *appinventory.FeasibilityChecker
	receipts    *order.ReceiptUseCase
}

// NewOrderHandler construye el handler.
func NewOrderHandler(
	settlement *order.SettlementUseCase,
	status *order.StatusUseCase,
	feasibility *appinventory.FeasibilityChecker,
	receipts *order.ReceiptUseCase,
) *OrderHandler {
	return &OrderHandler{settlement: settlement, status: status, feasibility: feasibility, receipts: receipts}
}

func toLines(items []dto.OrderLineRequest) []inventory.LineQty {
	lines := make([]inventory.LineQty, 0, len(items))
	for _, it := range items {
		lines = append(lines, inventory.LineQty{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	return lines
}

// Place godoc
// @Summary      Liquidar orden
// @Description  Valida, verifica stock, crea la orden (Paid) y descuenta ingredientes en una transacción.
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PlaceOrderRequest  true  "items, payment_method"
// @Success      201   {object}  dto.PlaceOrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/orders [post]
func (h *OrderHandler) Place(c *fiber.Ctx) error {
	var in dto.PlaceOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	res, err := h.settlement.PlaceOrder(c.UserContext(), order.PlaceOrderInput{
		EmployeeID:    GetEmployeeID(c),
		Lines:         toLines(in.Items),
		PaymentMethod: in.PaymentMethod,
	})
	if err != nil {
		return writeError(c, err)
	}
	out := dto.PlaceOrderResponse{
		OrderID:     res.OrderID,
		TotalAmount: res.TotalAmount,
		Status:      res.Status,
	}
	for _, ing := range res.LowStock {
		out.LowStock = append(out.LowStock, dto.LowStockWarning{
			IngredientID: ing.ID,
			Name:         ing.Name,
			CurrentStock: ing.CurrentStock,
			Unit:         ing.Unit,
		})
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Check godoc
// @Summary      Verificar factibilidad de una orden
// @Description  Consulta sin bloqueos; la liquidación vuelve a validar.
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PlaceOrderRequest  true  "items"
// @Success      200   {object}  dto.FeasibilityResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/orders/check [post]
func (h *OrderHandler) Check(c *fiber.Ctx) error {
	var in dto.PlaceOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	err := h.feasibility.Check(c.UserContext(), toLines(in.Items))
	var stockErr *domain.InsufficientStockError
	switch {
	case err == nil:
		return c.JSON(dto.FeasibilityResponse{Feasible: true})
	case errors.As(err, &stockErr):
		return c.JSON(dto.FeasibilityResponse{
			Feasible:             false,
			MissingIngredientID:  stockErr.IngredientID,
			MissingIngredientMsg: stockErr.Error(),
		})
	default:
		return writeError(c, err)
	}
}

// TransitionStatus godoc
// @Summary      Cambiar estado de una orden
// @Description  Paid -> Completed | Cancelled. Solo el empleado que la registró o un Admin.
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                       true  "ID de la orden"
// @Param        body  body  dto.TransitionStatusRequest  true  "status"
// @Success      200   {object}  dto.OrderResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/status [patch]
func (h *OrderHandler) TransitionStatus(c *fiber.Ctx) error {
	var in dto.TransitionStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	o, err := h.status.Transition(c.UserContext(), c.Params("id"), in.Status, GetCaller(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewOrderResponse(o))
}

// GetByID godoc
// @Summary      Obtener orden con sus líneas
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la orden"
// @Success      200  {object}  dto.OrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [get]
func (h *OrderHandler) GetByID(c *fiber.Ctx) error {
	o, err := h.status.GetOrder(c.UserContext(), c.Params("id"), GetCaller(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewOrderResponse(o))
}

// Receipt godoc
// @Summary      Ticket PDF de una orden
// @Tags         orders
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la orden"
// @Success      200
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/receipt [get]
func (h *OrderHandler) Receipt(c *fiber.Ctx) error {
	id := c.Params("id")
	doc, err := h.receipts.Render(c.UserContext(), id, GetCaller(c))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="ticket-`+id+`.pdf"`)
	return c.Send(doc)
}
