package entity

import "time"

// InventoryCountStatus estado de un conteo físico.
type InventoryCountStatus string

const (
	CountStatusInProgress InventoryCountStatus = "in_progress"
	CountStatusCompleted  InventoryCountStatus = "completed"
	CountStatusApproved   InventoryCountStatus = "approved"
)

// InventoryCount conteo físico de inventario en una sucursal.
type InventoryCount struct {
	ID          string
	CountNumber string
	BranchID    string
	CountDate   time.Time
	Status      InventoryCountStatus
	Notes       string
	ConductedBy string
	ApprovedBy  *string
	ApprovedAt  *time.Time
	Items       []InventoryCountItem
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// InventoryCountItem producto contado. SystemQuantity es la foto del stock al agregar el ítem.
type InventoryCountItem struct {
	ID               string
	InventoryCountID string
	ProductID        string
	SystemQuantity   int
	CountedQuantity  int
	Variance         int // counted − system
}

// HasProduct indica si el conteo ya incluye el producto.
func (c *InventoryCount) HasProduct(productID string) bool {
	for _, it := range c.Items {
		if it.ProductID == productID {
			return true
		}
	}
	return false
}
