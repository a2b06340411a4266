package entity

import "time"

// ChangeType tipo de asiento del libro de inventario.
type ChangeType string

// Tipos de asiento.
const (
	ChangeRestock     ChangeType = "restock"
	ChangeWaste       ChangeType = "waste"
	ChangeSale        ChangeType = "sale"
	ChangeAdjustment  ChangeType = "adjustment"
	ChangeReturn      ChangeType = "return"
	ChangeTransferIn  ChangeType = "transfer_in"
	ChangeTransferOut ChangeType = "transfer_out"
	ChangeIn          ChangeType = "in"
	ChangeOut         ChangeType = "out"
)

// Valid indica si el tipo pertenece al catálogo.
func (c ChangeType) Valid() bool {
	switch c {
	case ChangeRestock, ChangeWaste, ChangeSale, ChangeAdjustment, ChangeReturn,
		ChangeTransferIn, ChangeTransferOut, ChangeIn, ChangeOut:
		return true
	}
	return false
}

// InventoryLog asiento inmutable del libro de inventario. Quantity se guarda ya con signo.
type InventoryLog struct {
	ID         string
	ProductID  string
	BranchID   string
	ChangeType ChangeType
	Quantity   int
	SupplierID *string
	Notes      string
	CreatedBy  string
	CreatedAt  time.Time
}

// StockBalance saldo corriente por (producto, sucursal). Se bloquea con SELECT FOR UPDATE
// antes de validar suficiencia y se actualiza en la misma transacción que cada asiento.
type StockBalance struct {
	ProductID string
	BranchID  string
	Quantity  int
	UpdatedAt time.Time
}

// StockLevel stock derivado de un producto en una sucursal (lectura para alertas).
type StockLevel struct {
	ProductID         string
	ProductName       string
	Category          string
	BranchID          string
	Quantity          int
	LowStockThreshold int
}
