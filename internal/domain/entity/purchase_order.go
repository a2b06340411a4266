package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseOrderStatus estado de una orden de compra.
type PurchaseOrderStatus string

const (
	POStatusDraft           PurchaseOrderStatus = "draft"
	POStatusPendingApproval PurchaseOrderStatus = "pending_approval"
	POStatusApproved        PurchaseOrderStatus = "approved"
	POStatusOrdered         PurchaseOrderStatus = "ordered"
	POStatusDelivered       PurchaseOrderStatus = "delivered"
	POStatusCancelled       PurchaseOrderStatus = "cancelled"
)

// PurchaseOrder orden de compra a un proveedor para una sucursal.
type PurchaseOrder struct {
	ID                   string
	OrderNumber          string
	BranchID             string
	SupplierID           string
	Status               PurchaseOrderStatus
	OrderDate            time.Time
	ExpectedDeliveryDate *time.Time
	ActualDeliveryDate   *time.Time
	TotalAmount          decimal.Decimal
	Notes                string
	CreatedBy            string
	ApprovedBy           *string
	ApprovedAt           *time.Time
	Items                []PurchaseOrderItem
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// PurchaseOrderItem línea de una orden de compra.
type PurchaseOrderItem struct {
	ID               string
	PurchaseOrderID  string
	ProductID        string
	Quantity         int
	UnitPrice        decimal.Decimal
	TotalPrice       decimal.Decimal
	ReceivedQuantity int
}

// RecalculateTotals recalcula total_price por línea y total_amount = Σ quantity×unit_price.
func (o *PurchaseOrder) RecalculateTotals() {
	total := decimal.Zero
	for i := range o.Items {
		it := &o.Items[i]
		it.TotalPrice = it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))).Round(2)
		total = total.Add(it.TotalPrice)
	}
	o.TotalAmount = total.Round(2)
}
