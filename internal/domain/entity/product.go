package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product producto del catálogo de una sucursal (granos, leche, vasos, etc.).
// El stock no vive aquí: se deriva del libro de inventario (InventoryLog).
type Product struct {
	ID                string
	BranchID          string
	Name              string
	Category          string
	ProductUnit       string // unidad de compra/almacenamiento (kg, litro, caja)
	SaleUnit          string // unidad de venta (taza, porción)
	BasePrice         decimal.Decimal
	IsActive          bool
	LowStockThreshold int
	Variants          []ProductVariant
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// ProductVariant sub-opción con precio propio (tamaño, tipo de leche).
type ProductVariant struct {
	ID        string
	ProductID string
	Name      string
	Price     decimal.Decimal
	IsActive  bool
}
