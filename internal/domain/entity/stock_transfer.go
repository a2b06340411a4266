package entity

import "time"

// StockTransferStatus estado de un traslado entre sucursales.
type StockTransferStatus string

const (
	TransferStatusPending   StockTransferStatus = "pending"
	TransferStatusApproved  StockTransferStatus = "approved"
	TransferStatusInTransit StockTransferStatus = "in_transit"
	TransferStatusCompleted StockTransferStatus = "completed"
	TransferStatusCancelled StockTransferStatus = "cancelled"
	TransferStatusRejected  StockTransferStatus = "rejected"
)

// StockTransfer traslado de stock de una sucursal origen a una destino.
type StockTransfer struct {
	ID              string
	TransferNumber  string
	FromBranchID    string
	ToBranchID      string
	Status          StockTransferStatus
	RequestDate     time.Time
	ApprovedDate    *time.Time
	ShippedDate     *time.Time
	CompletedDate   *time.Time
	Notes           string
	RejectionReason string
	RequestedBy     string
	ApprovedBy      *string
	Items           []StockTransferItem
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// StockTransferItem línea del traslado.
// Invariante: transferred ≤ approved ≤ requested.
type StockTransferItem struct {
	ID                  string
	StockTransferID     string
	ProductID           string
	RequestedQuantity   int
	ApprovedQuantity    int
	TransferredQuantity int
}

// InvolvesBranch indica si la sucursal es origen o destino del traslado.
func (t *StockTransfer) InvolvesBranch(branchID string) bool {
	return branchID != "" && (t.FromBranchID == branchID || t.ToBranchID == branchID)
}
