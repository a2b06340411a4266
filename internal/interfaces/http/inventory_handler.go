package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Cafeteria-api/internal/application/dto"
	"github.com/jhoicas/Cafeteria-api/internal/application/inventory"
	"github.com/jhoicas/Cafeteria-api/internal/domain/entity"
	"github.com/jhoicas/Cafeteria-api/internal/domain/repository"
)

// InventoryHandler libro de inventario y alertas de stock (protegido).
type InventoryHandler struct {
	ledger *inventory.Ledger
	loc    *time.Location
}

// NewInventoryHandler construye el handler. loc es la zona para fechas YYYY-MM-DD.
func NewInventoryHandler(ledger *inventory.Ledger, loc *time.Location) *InventoryHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &InventoryHandler{ledger: ledger, loc: loc}
}

// RecordLog godoc
// @Summary      Registrar asiento de inventario
// @Description  Asiento manual (restock, waste, sale, return, in, out). Las salidas exigen stock suficiente.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecordInventoryLogRequest  true  "branch_id, product_id, change_type, quantity"
// @Success      201   {object}  dto.InventoryLogResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory-logs [post]
func (h *InventoryHandler) RecordLog(c *fiber.Ctx) error {
	var in dto.RecordInventoryLogRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.ledger.RecordManual(c.UserContext(), GetPrincipal(c), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListLogs godoc
// @Summary      Listar asientos de inventario
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        branch_id    query  string  false  "Sucursal"
// @Param        product_id   query  string  false  "Producto"
// @Param        change_type  query  string  false  "Tipo de movimiento"
// @Param        from         query  string  false  "Desde (YYYY-MM-DD o RFC3339)"
// @Param        to           query  string  false  "Hasta (YYYY-MM-DD o RFC3339)"
// @Param        limit        query  int     false  "Límite"  default(20)
// @Param        offset       query  int     false  "Offset"  default(0)
// @Success      200          {object}  dto.InventoryLogListResponse
// @Router       /api/inventory-logs [get]
func (h *InventoryHandler) ListLogs(c *fiber.Ctx) error {
	from, err := queryTime(c, "from", h.loc)
	if err != nil {
		return err
	}
	to, err := queryTime(c, "to", h.loc)
	if err != nil {
		return err
	}
	page := pageFrom(c)
	out, err := h.ledger.ListLogs(c.UserContext(), GetPrincipal(c), repository.LogFilter{
		BranchID:   c.Query("branch_id"),
		ProductID:  c.Query("product_id"),
		ChangeType: entity.ChangeType(c.Query("change_type")),
		From:       from,
		To:         to,
		Limit:      page.Limit,
		Offset:     page.Offset,
	})
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// LowStock godoc
// @Summary      Productos con stock bajo
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        branch_id  query  string  false  "Sucursal (administradores: vacío = todas)"
// @Success      200        {object}  dto.LowStockResponse
// @Router       /api/low-stock-alerts/products [get]
func (h *InventoryHandler) LowStock(c *fiber.Ctx) error {
	out, err := h.ledger.LowStock(c.UserContext(), GetPrincipal(c), c.Query("branch_id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// OutOfStock godoc
// @Summary      Productos agotados
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        branch_id  query  string  false  "Sucursal (administradores: vacío = todas)"
// @Success      200        {object}  dto.LowStockResponse
// @Router       /api/low-stock-alerts/out-of-stock [get]
func (h *InventoryHandler) OutOfStock(c *fiber.Ctx) error {
	out, err := h.ledger.OutOfStock(c.UserContext(), GetPrincipal(c), c.Query("branch_id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}
