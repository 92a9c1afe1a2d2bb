package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/cafeteria-pos/internal/application/analytics"
)

// ReportHandler reportes de ventas (Admin).
type ReportHandler struct {
	uc *analytics.SalesReportUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *analytics.SalesReportUseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// Sales godoc
// @Summary      Reporte de ventas del período (Admin)
// @Description  Ventana móvil que termina ahora. Excluye órdenes canceladas.
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        period  query  string  false  "day | week | month (default day)"
// @Success      200  {object}  dto.SalesReportDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/reports/sales [get]
func (h *ReportHandler) Sales(c *fiber.Ctx) error {
	report, err := h.uc.Sales(c.UserContext(), c.Query("period"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(report)
}
