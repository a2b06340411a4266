package entity

import "time"

// AdjustmentType dirección del ajuste.
type AdjustmentType string

const (
	AdjustmentIncrease AdjustmentType = "increase"
	AdjustmentDecrease AdjustmentType = "decrease"
)

// StockAdjustmentStatus estado de un ajuste.
type StockAdjustmentStatus string

const (
	AdjustmentStatusPending  StockAdjustmentStatus = "pending"
	AdjustmentStatusApproved StockAdjustmentStatus = "approved"
	AdjustmentStatusRejected StockAdjustmentStatus = "rejected"
)

// StockAdjustment ajuste manual de stock sujeto a aprobación.
type StockAdjustment struct {
	ID               string
	AdjustmentNumber string
	BranchID         string
	ProductID        string
	AdjustmentType   AdjustmentType
	Quantity         int // sin signo
	Reason           string
	Status           StockAdjustmentStatus
	RejectionReason  string
	AdjustedBy       string
	ApprovedBy       *string
	ApprovedAt       *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// EffectiveQuantity cantidad con signo: +quantity si increase, −quantity si decrease.
func (a *StockAdjustment) EffectiveQuantity() int {
	if a.AdjustmentType == AdjustmentDecrease {
		return -a.Quantity
	}
	return a.Quantity
}
