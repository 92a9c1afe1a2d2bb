package http

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/cafeteria-pos/internal/application/dto"
	"github.com/jhoicas/cafeteria-pos/internal/domain"
	"github.com/jhoicas/cafeteria-pos/pkg/logger"
)

// LocalLogger key del logger de la petición en c.Locals.
const LocalLogger = "logger"

func withLogger(log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(LocalLogger, log)
		return c.Next()
	}
}

// writeError traduce errores de dominio a status HTTP y dto.ErrorResponse.
// Los errores tipados se revisan antes que los centinelas que satisfacen.
func writeError(c *fiber.Ctx, err error) error {
	var (
		stockErr      *domain.InsufficientStockError
		productErr    *domain.UnknownProductError
		ingredientErr *domain.UnknownIngredientError
		transitionErr *domain.InvalidTransitionError
	)
	switch {
	case errors.As(err, &stockErr):
		return respond(c, fiber.StatusConflict, "INSUFFICIENT_STOCK", err.Error(), stockErr.IngredientID)
	case errors.As(err, &productErr):
		return respond(c, fiber.StatusBadRequest, "UNKNOWN_PRODUCT", err.Error(), productErr.ProductID)
	case errors.As(err, &ingredientErr):
		return respond(c, fiber.StatusBadRequest, "UNKNOWN_INGREDIENT", err.Error(), ingredientErr.IngredientID)
	case errors.As(err, &transitionErr):
		return respond(c, fiber.StatusConflict, "INVALID_TRANSITION", err.Error(), transitionErr.OrderID)
	case errors.Is(err, domain.ErrInvalidInput):
		return respond(c, fiber.StatusBadRequest, "VALIDATION", err.Error(), "")
	case errors.Is(err, domain.ErrNotFound):
		return respond(c, fiber.StatusNotFound, "NOT_FOUND", err.Error(), "")
	case errors.Is(err, domain.ErrUnauthorized):
		return respond(c, fiber.StatusUnauthorized, "UNAUTHORIZED", err.Error(), "")
	case errors.Is(err, domain.ErrForbidden):
		return respond(c, fiber.StatusForbidden, "FORBIDDEN", err.Error(), "")
	case errors.Is(err, domain.ErrDuplicate):
		return respond(c, fiber.StatusConflict, "DUPLICATE", err.Error(), "")
	case errors.Is(err, domain.ErrConflict), errors.Is(err, context.DeadlineExceeded):
		return respond(c, fiber.StatusServiceUnavailable, "TRANSIENT", "operación en conflicto, reintente", "")
	default:
		// El detalle (texto del driver incluido) solo va al log.
		if log, ok := c.Locals(LocalLogger).(*logger.Logger); ok {
			log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("error interno")
		}
		return respond(c, fiber.StatusInternalServerError, "INTERNAL", "error interno", "")
	}
}

func respond(c *fiber.Ctx, status int, code, message, entityID string) error {
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: message, EntityID: entityID})
}

func invalidBody(c *fiber.Ctx) error {
	return respond(c, fiber.StatusBadRequest, "INVALID_BODY", "cuerpo inválido", "")
}
