package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Supplier proveedor referenciado por órdenes de compra y entradas del libro.
type Supplier struct {
	ID            string
	Name          string
	ContactPerson string
	Email         string
	Phone         string
	Address       string
	CreditLimit   decimal.Decimal
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
