package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Cafeteria-api/internal/application/usecase"
)

// AttendanceHandler marcaciones de entrada/salida del personal.
type AttendanceHandler struct {
	uc  *usecase.AttendanceUseCase
	loc *time.Location
}

// NewAttendanceHandler construye el handler. loc interpreta el parámetro date.
func NewAttendanceHandler(uc *usecase.AttendanceUseCase, loc *time.Location) *AttendanceHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &AttendanceHandler{uc: uc, loc: loc}
}

// CheckIn godoc
// @Summary      Marcar entrada
// @Tags         attendance
// @Security     Bearer
// @Produce      json
// @Success      201  {object}  dto.AttendanceResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/attendance/check-in [post]
func (h *AttendanceHandler) CheckIn(c *fiber.Ctx) error {
	out, err := h.uc.CheckIn(c.UserContext(), GetPrincipal(c))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// CheckOut godoc
// @Summary      Marcar salida
// @Tags         attendance
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.AttendanceResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/attendance/check-out [post]
func (h *AttendanceHandler) CheckOut(c *fiber.Ctx) error {
	out, err := h.uc.CheckOut(c.UserContext(), GetPrincipal(c))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Mine godoc
// @Summary      Mi historial de asistencia
// @Tags         attendance
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.AttendanceListResponse
// @Router       /api/attendance/me [get]
func (h *AttendanceHandler) Mine(c *fiber.Ctx) error {
	out, err := h.uc.MyHistory(c.UserContext(), GetPrincipal(c), pageFrom(c))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Branch godoc
// @Summary      Asistencia de la sucursal
// @Tags         attendance
// @Security     Bearer
// @Produce      json
// @Param        branch_id  query  string  false  "Sucursal (administradores)"
// @Param        date       query  string  false  "Día YYYY-MM-DD (por defecto hoy)"
// @Success      200        {object}  dto.AttendanceListResponse
// @Router       /api/attendance/branch [get]
func (h *AttendanceHandler) Branch(c *fiber.Ctx) error {
	day, err := queryTime(c, "date", h.loc)
	if err != nil {
		return err
	}
	var d time.Time
	if day != nil {
		d = *day
	}
	out, err := h.uc.BranchHistory(c.UserContext(), GetPrincipal(c), c.Query("branch_id"), d, pageFrom(c))
	if err != nil {
		return err
	}
	return c.JSON(out)
}
