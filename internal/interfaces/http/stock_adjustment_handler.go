package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Cafeteria-api/internal/application/dto"
	"github.com/jhoicas/Cafeteria-api/internal/application/inventory"
)

// StockAdjustmentHandler ajustes de stock con aprobación.
type StockAdjustmentHandler struct {
	uc *inventory.StockAdjustmentUseCase
}

// NewStockAdjustmentHandler construye el handler.
func NewStockAdjustmentHandler(uc *inventory.StockAdjustmentUseCase) *StockAdjustmentHandler {
	return &StockAdjustmentHandler{uc: uc}
}

// Create godoc
// @Summary      Solicitar ajuste
// @Tags         stock-adjustments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateStockAdjustmentRequest  true  "Ajuste"
// @Success      201   {object}  dto.StockAdjustmentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/stock-adjustments [post]
func (h *StockAdjustmentHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateStockAdjustmentRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), GetPrincipal(c), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar ajustes
// @Tags         stock-adjustments
// @Security     Bearer
// @Produce      json
// @Param        branch_id  query  string  false  "Sucursal"
// @Param        status     query  string  false  "Estado"
// @Success      200        {object}  dto.StockAdjustmentListResponse
// @Router       /api/stock-adjustments [get]
func (h *StockAdjustmentHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), GetPrincipal(c), workflowFilter(c))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Obtener ajuste
// @Tags         stock-adjustments
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del ajuste"
// @Success      200  {object}  dto.StockAdjustmentResponse
// @Router       /api/stock-adjustments/{id} [get]
func (h *StockAdjustmentHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetPrincipal(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Approve godoc
// @Summary      Aprobar ajuste
// @Description  Registra el asiento (in/out) y revalida stock para disminuciones.
// @Tags         stock-adjustments
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del ajuste"
// @Success      200  {object}  dto.StockAdjustmentResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock-adjustments/{id}/approve [post]
func (h *StockAdjustmentHandler) Approve(c *fiber.Ctx) error {
	out, err := h.uc.Approve(c.UserContext(), GetPrincipal(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Reject godoc
// @Summary      Rechazar ajuste
// @Tags         stock-adjustments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string             true   "ID del ajuste"
// @Param        body  body  dto.ReasonRequest  false  "Motivo"
// @Success      200   {object}  dto.StockAdjustmentResponse
// @Router       /api/stock-adjustments/{id}/reject [post]
func (h *StockAdjustmentHandler) Reject(c *fiber.Ctx) error {
	in, err := reasonBody(c)
	if err != nil {
		return err
	}
	out, err := h.uc.Reject(c.UserContext(), GetPrincipal(c), c.Params("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}
