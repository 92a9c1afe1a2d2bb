package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/cafeteria-pos/internal/application/dto"
	"github.com/jhoicas/cafeteria-pos/internal/application/inventory"
)

// InventoryHandler maneja las peticiones HTTP de ingredientes y movimientos (protegido).
type InventoryHandler struct {
	stock         *inventory.StockUseCase
	replenishment *inventory.ReplenishmentUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(stock *inventory.StockUseCase, replenishment *inventory.ReplenishmentUseCase) *InventoryHandler {
	return &InventoryHandler{stock: stock, replenishment: replenishment}
}

// Create godoc
// @Summary      Alta de ingrediente (Admin)
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateIngredientRequest  true  "name, unit, initial_stock, warning_threshold, unit_cost"
// @Success      201   {object}  dto.IngredientResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/ingredients [post]
func (h *InventoryHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateIngredientRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	ing, err := h.stock.CreateIngredient(c.UserContext(), inventory.CreateIngredientInput{
		Name:             in.Name,
		Unit:             in.Unit,
		InitialStock:     in.InitialStock,
		WarningThreshold: in.WarningThreshold,
		UnitCost:         in.UnitCost,
		UserID:           GetEmployeeID(c),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewIngredientResponse(ing))
}

// List godoc
// @Summary      Listar ingredientes con bandera de stock bajo
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.IngredientResponse
// @Router       /api/ingredients [get]
func (h *InventoryHandler) List(c *fiber.Ctx) error {
	list, err := h.stock.ListIngredients(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.IngredientResponse, 0, len(list))
	for _, ing := range list {
		out = append(out, dto.NewIngredientResponse(ing))
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener ingrediente
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del ingrediente"
// @Success      200  {object}  dto.IngredientResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/ingredients/{id} [get]
func (h *InventoryHandler) GetByID(c *fiber.Ctx) error {
	ing, err := h.stock.GetIngredient(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewIngredientResponse(ing))
}

// CorrectInventory godoc
// @Summary      Ajuste por conteo físico (Admin)
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                       true  "ID del ingrediente"
// @Param        body  body  dto.CorrectInventoryRequest  true  "actual_quantity"
// @Success      200   {object}  dto.IngredientResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/ingredients/{id}/inventory [post]
func (h *InventoryHandler) CorrectInventory(c *fiber.Ctx) error {
	var in dto.CorrectInventoryRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	ing, err := h.stock.CorrectInventory(c.UserContext(), c.Params("id"), in.ActualQuantity, GetEmployeeID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewIngredientResponse(ing))
}

// WriteOff godoc
// @Summary      Registrar merma
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string               true  "ID del ingrediente"
// @Param        body  body  dto.WriteOffRequest  true  "quantity, reason"
// @Success      200   {object}  dto.IngredientResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/ingredients/{id}/write-offs [post]
func (h *InventoryHandler) WriteOff(c *fiber.Ctx) error {
	var in dto.WriteOffRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	ing, err := h.stock.WriteOff(c.UserContext(), c.Params("id"), in.Quantity, in.Reason, GetEmployeeID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewIngredientResponse(ing))
}

// ReceiveSupply godoc
// @Summary      Recepción de compra (Admin)
// @Description  cost es el costo total del lote; recalcula el costo promedio ponderado.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string             true  "ID del ingrediente"
// @Param        body  body  dto.SupplyRequest  true  "quantity, cost"
// @Success      200   {object}  dto.IngredientResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/ingredients/{id}/supplies [post]
func (h *InventoryHandler) ReceiveSupply(c *fiber.Ctx) error {
	var in dto.SupplyRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	ing, err := h.stock.ReceiveSupply(c.UserContext(), c.Params("id"), in.Quantity, in.Cost, GetEmployeeID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewIngredientResponse(ing))
}

// ListMovements godoc
// @Summary      Historial de movimientos de un ingrediente
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID del ingrediente"
// @Param        from    query  string  false  "RFC3339"
// @Param        to      query  string  false  "RFC3339"
// @Param        limit   query  int     false  "máx. 200"
// @Param        offset  query  int     false  "desplazamiento"
// @Success      200  {object}  dto.MovementListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/ingredients/{id}/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	from, err := parseTimeQuery(c, "from")
	if err != nil {
		return respond(c, fiber.StatusBadRequest, "VALIDATION", "from debe ser RFC3339", "")
	}
	to, err := parseTimeQuery(c, "to")
	if err != nil {
		return respond(c, fiber.StatusBadRequest, "VALIDATION", "to debe ser RFC3339", "")
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return respond(c, fiber.StatusBadRequest, "VALIDATION", "limit/offset inválidos", "")
	}
	page.DefaultPage()

	list, err := h.stock.ListMovements(c.UserContext(), c.Params("id"), from, to, page.Limit, page.Offset)
	if err != nil {
		return writeError(c, err)
	}
	out := dto.MovementListResponse{
		Items: make([]dto.MovementResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}
	for _, m := range list {
		out.Items = append(out.Items, dto.NewMovementResponse(m))
	}
	return c.JSON(out)
}

// Reconciliation godoc
// @Summary      Conciliación de existencia contra el libro de movimientos
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del ingrediente"
// @Success      200  {object}  dto.ReconciliationResponse
// @Router       /api/ingredients/{id}/reconciliation [get]
func (h *InventoryHandler) Reconciliation(c *fiber.Ctx) error {
	rec, err := h.stock.Reconcile(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ReconciliationResponse{
		IngredientID:  rec.IngredientID,
		OnHand:        rec.OnHand,
		MovementTotal: rec.MovementTotal,
		Balanced:      rec.Balanced(),
	})
}

// GetReplenishmentList godoc
// @Summary      Lista de reposición (Admin)
// @Description  Ingredientes en o bajo su umbral con la cantidad sugerida de compra.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ReplenishmentSuggestionDTO
// @Router       /api/ingredients/replenishment [get]
func (h *InventoryHandler) GetReplenishmentList(c *fiber.Ctx) error {
	list, err := h.replenishment.Suggestions(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.ReplenishmentSuggestionDTO, 0, len(list))
	for _, s := range list {
		out = append(out, dto.ReplenishmentSuggestionDTO{
			IngredientID:  s.Ingredient.ID,
			Name:          s.Ingredient.Name,
			Unit:          s.Ingredient.Unit,
			CurrentStock:  s.Ingredient.CurrentStock,
			IdealStock:    s.IdealStock,
			SuggestedQty:  s.SuggestedQty,
			EstimatedCost: s.EstimatedCost,
			Priority:      s.Priority,
		})
	}
	return c.JSON(fiber.Map{
		"total":          len(out),
		"replenishments": out,
	})
}

func parseTimeQuery(c *fiber.Ctx, key string) (*time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
