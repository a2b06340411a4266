package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Cafeteria-api/internal/application/dto"
	"github.com/jhoicas/Cafeteria-api/internal/application/inventory"
)

// StockTransferHandler traslados entre sucursales.
type StockTransferHandler struct {
	uc *inventory.StockTransferUseCase
}

// NewStockTransferHandler construye el handler.
func NewStockTransferHandler(uc *inventory.StockTransferUseCase) *StockTransferHandler {
	return &StockTransferHandler{uc: uc}
}

// Create godoc
// @Summary      Solicitar traslado
// @Description  Valida stock suficiente en la sucursal de origen.
// @Tags         stock-transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateStockTransferRequest  true  "Traslado"
// @Success      201   {object}  dto.StockTransferResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/stock-transfers [post]
func (h *StockTransferHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateStockTransferRequest
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
// @Summary      Listar traslados
// @Description  branch_id coincide con origen o destino.
// @Tags         stock-transfers
// @Security     Bearer
// @Produce      json
// @Param        branch_id  query  string  false  "Sucursal"
// @Param        status     query  string  false  "Estado"
// @Success      200        {object}  dto.StockTransferListResponse
// @Router       /api/stock-transfers [get]
func (h *StockTransferHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), GetPrincipal(c), workflowFilter(c))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Obtener traslado
// @Tags         stock-transfers
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del traslado"
// @Success      200  {object}  dto.StockTransferResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock-transfers/{id} [get]
func (h *StockTransferHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetPrincipal(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Editar traslado pendiente
// @Tags         stock-transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                          true  "ID del traslado"
// @Param        body  body  dto.UpdateStockTransferRequest  true  "Cambios"
// @Success      200   {object}  dto.StockTransferResponse
// @Router       /api/stock-transfers/{id} [put]
func (h *StockTransferHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateStockTransferRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Update(c.UserContext(), GetPrincipal(c), c.Params("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// quantitiesBody cuerpo opcional con cantidades por línea.
func quantitiesBody(c *fiber.Ctx) (dto.TransferQuantitiesRequest, error) {
	var in dto.TransferQuantitiesRequest
	if len(c.Body()) == 0 {
		return in, nil
	}
	err := parseBody(c, &in)
	return in, err
}

// Approve godoc
// @Summary      Aprobar traslado
// @Description  Revalida el stock de origen. Sin items se aprueba lo solicitado.
// @Tags         stock-transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                         true   "ID del traslado"
// @Param        body  body  dto.TransferQuantitiesRequest  false  "Cantidades aprobadas"
// @Success      200   {object}  dto.StockTransferResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/stock-transfers/{id}/approve [post]
func (h *StockTransferHandler) Approve(c *fiber.Ctx) error {
	in, err := quantitiesBody(c)
	if err != nil {
		return err
	}
	out, err := h.uc.Approve(c.UserContext(), GetPrincipal(c), c.Params("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Ship godoc
// @Summary      Despachar traslado
// @Tags         stock-transfers
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del traslado"
// @Success      200  {object}  dto.StockTransferResponse
// @Router       /api/stock-transfers/{id}/ship [post]
func (h *StockTransferHandler) Ship(c *fiber.Ctx) error {
	out, err := h.uc.Ship(c.UserContext(), GetPrincipal(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Complete godoc
// @Summary      Completar traslado
// @Description  Registra la salida en origen y la entrada en destino en la misma transacción.
// @Tags         stock-transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                         true   "ID del traslado"
// @Param        body  body  dto.TransferQuantitiesRequest  false  "Cantidades trasladadas"
// @Success      200   {object}  dto.StockTransferResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/stock-transfers/{id}/complete [post]
func (h *StockTransferHandler) Complete(c *fiber.Ctx) error {
	in, err := quantitiesBody(c)
	if err != nil {
		return err
	}
	out, err := h.uc.Complete(c.UserContext(), GetPrincipal(c), c.Params("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Reject godoc
// @Summary      Rechazar traslado
// @Tags         stock-transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string             true   "ID del traslado"
// @Param        body  body  dto.ReasonRequest  false  "Motivo"
// @Success      200   {object}  dto.StockTransferResponse
// @Router       /api/stock-transfers/{id}/reject [post]
func (h *StockTransferHandler) Reject(c *fiber.Ctx) error {
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

// Cancel godoc
// @Summary      Cancelar traslado
// @Tags         stock-transfers
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del traslado"
// @Success      200  {object}  dto.StockTransferResponse
// @Router       /api/stock-transfers/{id}/cancel [post]
func (h *StockTransferHandler) Cancel(c *fiber.Ctx) error {
	out, err := h.uc.Cancel(c.UserContext(), GetPrincipal(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

func reasonBody(c *fiber.Ctx) (dto.ReasonRequest, error) {
	var in dto.ReasonRequest
	if len(c.Body()) == 0 {
		return in, nil
	}
	err := parseBody(c, &in)
	return in, err
}
