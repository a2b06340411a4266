package dto

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// PageRequest limit/offset de un listado.
type PageRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// Normalize devuelve la página con tamaño por defecto, tope de 100 y offset no negativo.
func (p PageRequest) Normalize() PageRequest {
	if p.Limit <= 0 {
		p.Limit = defaultPageSize
	}
	if p.Limit > maxPageSize {
		p.Limit = maxPageSize
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

// PageResponse metadatos de página. HasMore es una estimación: la página vino llena.
type PageResponse struct {
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	Count   int  `json:"count"`
	HasMore bool `json:"has_more"`
}

// NewPageResponse arma los metadatos a partir de la página pedida y los ítems devueltos.
func NewPageResponse(limit, offset, count int) PageResponse {
	return PageResponse{
		Limit:   limit,
		Offset:  offset,
		Count:   count,
		HasMore: limit > 0 && count == limit,
	}
}

// ErrorResponse cuerpo de error HTTP: código estable, mensaje, campo inválido y detalles opcionales.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
	Details any    `json:"details,omitempty"`
}

// MessageResponse confirmación sin cuerpo de dominio.
type MessageResponse struct {
	Message string `json:"message"`
}
