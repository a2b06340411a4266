package entity

import "time"

// Estados de sucursal.
const (
	BranchStatusActive   = "active"
	BranchStatusInactive = "inactive"
)

// Branch representa una sucursal de la cafetería. Agrupa personal, productos y stock.
type Branch struct {
	ID        string
	Name      string
	Location  string
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}
