package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/Cafeteria-api/internal/application/analytics"
)

// DashboardHandler maneja los endpoints del módulo de Dashboard.
type DashboardHandler struct {
	uc *appanalytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetSummary devuelve el resumen operativo del día.
// GET /api/dashboard/summary?branch_id=
//
// Respuesta: DashboardSummaryDTO (low_stock_count, out_of_stock_count,
// pending_approvals, checked_in_now, date_label).
// Los roles de sucursal siempre ven la suya; un administrador sin branch_id ve el agregado.
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	summary, err := h.uc.GetSummary(c.UserContext(), GetPrincipal(c), c.Query("branch_id"))
	if err != nil {
		return err
	}
	return c.JSON(summary)
}
