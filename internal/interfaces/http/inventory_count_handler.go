package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Cafeteria-api/internal/application/dto"
	"github.com/jhoicas/Cafeteria-api/internal/application/inventory"
)

// InventoryCountHandler conteos físicos.
type InventoryCountHandler struct {
	uc *inventory.InventoryCountUseCase
}

// NewInventoryCountHandler construye el handler.
func NewInventoryCountHandler(uc *inventory.InventoryCountUseCase) *InventoryCountHandler {
	return &InventoryCountHandler{uc: uc}
}

// Create godoc
// @Summary      Abrir conteo
// @Tags         inventory-counts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateInventoryCountRequest  true  "Conteo"
// @Success      201   {object}  dto.InventoryCountResponse
// @Router       /api/inventory-counts [post]
func (h *InventoryCountHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateInventoryCountRequest
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
// @Summary      Listar conteos
// @Tags         inventory-counts
// @Security     Bearer
// @Produce      json
// @Param        branch_id  query  string  false  "Sucursal"
// @Param        status     query  string  false  "Estado"
// @Success      200        {object}  dto.InventoryCountListResponse
// @Router       /api/inventory-counts [get]
func (h *InventoryCountHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), GetPrincipal(c), workflowFilter(c))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Obtener conteo
// @Tags         inventory-counts
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del conteo"
// @Success      200  {object}  dto.InventoryCountResponse
// @Router       /api/inventory-counts/{id} [get]
func (h *InventoryCountHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetPrincipal(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// AddItem godoc
// @Summary      Agregar producto contado
// @Description  Toma el stock del sistema en ese momento y calcula la diferencia.
// @Tags         inventory-counts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID del conteo"
// @Param        body  body  dto.AddCountItemRequest  true  "Producto y cantidad contada"
// @Success      201   {object}  dto.InventoryCountResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory-counts/{id}/items [post]
func (h *InventoryCountHandler) AddItem(c *fiber.Ctx) error {
	var in dto.AddCountItemRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.AddItem(c.UserContext(), GetPrincipal(c), c.Params("id"), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdateItem godoc
// @Summary      Corregir cantidad contada
// @Tags         inventory-counts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id      path  string                      true  "ID del conteo"
// @Param        itemId  path  string                      true  "ID de la línea"
// @Param        body    body  dto.UpdateCountItemRequest  true  "Cantidad contada"
// @Success      200     {object}  dto.InventoryCountResponse
// @Router       /api/inventory-counts/{id}/items/{itemId} [put]
func (h *InventoryCountHandler) UpdateItem(c *fiber.Ctx) error {
	var in dto.UpdateCountItemRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.UpdateItem(c.UserContext(), GetPrincipal(c), c.Params("id"), c.Params("itemId"), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Complete godoc
// @Summary      Cerrar conteo
// @Tags         inventory-counts
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del conteo"
// @Success      200  {object}  dto.InventoryCountResponse
// @Router       /api/inventory-counts/{id}/complete [post]
func (h *InventoryCountHandler) Complete(c *fiber.Ctx) error {
	out, err := h.uc.Complete(c.UserContext(), GetPrincipal(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Approve godoc
// @Summary      Aprobar conteo
// @Description  Publica un asiento por cada diferencia distinta de cero.
// @Tags         inventory-counts
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del conteo"
// @Success      200  {object}  dto.InventoryCountResponse
// @Router       /api/inventory-counts/{id}/approve [post]
func (h *InventoryCountHandler) Approve(c *fiber.Ctx) error {
	out, err := h.uc.Approve(c.UserContext(), GetPrincipal(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}
