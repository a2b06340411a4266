package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Cafeteria-api/internal/application/dto"
	"github.com/jhoicas/Cafeteria-api/internal/domain"
)

const dateLayout = "2006-01-02"

// pageFrom lee limit/offset con valores por defecto y límites.
func pageFrom(c *fiber.Ctx) dto.PageRequest {
	p := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	return p.Normalize()
}

// queryTime acepta RFC3339 o YYYY-MM-DD (en la zona indicada). Vacío devuelve nil.
func queryTime(c *fiber.Ctx, key string, loc *time.Location) (*time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.ParseInLocation(dateLayout, raw, loc)
	if err != nil {
		return nil, domain.NewValidationError(key, "fecha inválida, use YYYY-MM-DD o RFC3339")
	}
	return &t, nil
}
