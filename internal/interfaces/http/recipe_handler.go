package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/cafeteria-pos/internal/application/dto"
	"github.com/jhoicas/cafeteria-pos/internal/application/inventory"
	"github.com/jhoicas/cafeteria-pos/internal/domain/entity"
)

// RecipeHandler recetas de productos y carta con disponibilidad (protegido).
type RecipeHandler struct {
	recipes *inventory.RecipeUseCase
	menu    *inventory.MenuUseCase
}

// NewRecipeHandler construye el handler.
func NewRecipeHandler(recipes *inventory.RecipeUseCase, menu *inventory.MenuUseCase) *RecipeHandler {
	return &RecipeHandler{recipes: recipes, menu: menu}
}

func toRecipeResponse(productID string, lines []entity.RecipeLine) dto.RecipeResponse {
	out := dto.RecipeResponse{ProductID: productID, Lines: make([]dto.RecipeLineResponse, 0, len(lines))}
	for _, l := range lines {
		out.Lines = append(out.Lines, dto.RecipeLineResponse{
			IngredientID:     l.IngredientID,
			QuantityRequired: l.QuantityRequired,
		})
	}
	return out
}

// SetRecipe godoc
// @Summary      Reemplazar receta de un producto (Admin)
// @Tags         recipes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                true  "ID del producto"
// @Param        body  body  dto.SetRecipeRequest  true  "lines"
// @Success      200   {object}  dto.RecipeResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/products/{id}/recipe [put]
func (h *RecipeHandler) SetRecipe(c *fiber.Ctx) error {
	var in dto.SetRecipeRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	lines := make([]inventory.RecipeLineInput, 0, len(in.Lines))
	for _, l := range in.Lines {
		lines = append(lines, inventory.RecipeLineInput{IngredientID: l.IngredientID, QuantityRequired: l.QuantityRequired})
	}
	productID := c.Params("id")
	saved, err := h.recipes.SetRecipe(c.UserContext(), productID, lines)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toRecipeResponse(productID, saved))
}

// GetRecipe godoc
// @Summary      Receta de un producto
// @Tags         recipes
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del producto"
// @Success      200  {object}  dto.RecipeResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/recipe [get]
func (h *RecipeHandler) GetRecipe(c *fiber.Ctx) error {
	productID := c.Params("id")
	lines, err := h.recipes.GetRecipe(c.UserContext(), productID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toRecipeResponse(productID, lines))
}

// Menu godoc
// @Summary      Carta con porciones disponibles
// @Tags         recipes
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.MenuItemResponse
// @Router       /api/menu [get]
func (h *RecipeHandler) Menu(c *fiber.Ctx) error {
	items, err := h.menu.ListAvailable(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.MenuItemResponse, 0, len(items))
	for _, it := range items {
		resp := dto.MenuItemResponse{
			ProductID:  it.Product.ID,
			CategoryID: it.Product.CategoryID,
			Name:       it.Product.Name,
			Price:      it.Product.Price,
			Available:  it.Available(),
		}
		if it.Limited {
			portions := it.Portions
			resp.Portions = &portions
		}
		out = append(out, resp)
	}
	return c.JSON(out)
}
