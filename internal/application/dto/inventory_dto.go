package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ── Libro de inventario ──────────────────────────────────────────────────────

// RecordInventoryLogRequest asiento manual (restock, waste, sale, return, in, out).
// Quantity siempre positiva; el signo lo pone el tipo.
type RecordInventoryLogRequest struct {
	BranchID   string  `json:"branch_id" validate:"required"`
	ProductID  string  `json:"product_id" validate:"required"`
	ChangeType string  `json:"change_type" validate:"required,oneof=restock waste sale return in out"`
	Quantity   int     `json:"quantity" validate:"required,gt=0"`
	SupplierID *string `json:"supplier_id"`
	Notes      string  `json:"notes" validate:"omitempty,max=500"`
}

// InventoryLogResponse salida de un asiento.
type InventoryLogResponse struct {
	ID         string    `json:"id"`
	ProductID  string    `json:"product_id"`
	BranchID   string    `json:"branch_id"`
	ChangeType string    `json:"change_type"`
	Quantity   int       `json:"quantity"`
	SupplierID *string   `json:"supplier_id,omitempty"`
	Notes      string    `json:"notes,omitempty"`
	CreatedBy  string    `json:"created_by"`
	CreatedAt  time.Time `json:"created_at"`
}

// InventoryLogListResponse lista paginada del libro.
type InventoryLogListResponse struct {
	Items []InventoryLogResponse `json:"items"`
	Page  PageResponse           `json:"page"`
}

// ProductStockResponse stock actual de un producto en una sucursal.
type ProductStockResponse struct {
	ProductID         string `json:"product_id"`
	ProductName       string `json:"product_name"`
	BranchID          string `json:"branch_id"`
	CurrentStock      int    `json:"current_stock"`
	LowStockThreshold int    `json:"low_stock_threshold"`
	Status            string `json:"status"`
}

// LowStockResponse alertas de stock.
type LowStockResponse struct {
	Total int                    `json:"total"`
	Items []ProductStockResponse `json:"items"`
}

// ── Órdenes de compra ────────────────────────────────────────────────────────

// PurchaseOrderItemInput línea de orden de compra.
type PurchaseOrderItemInput struct {
	ProductID string          `json:"product_id" validate:"required"`
	Quantity  int             `json:"quantity" validate:"required,gt=0"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// CreatePurchaseOrderRequest entrada para crear una orden de compra.
type CreatePurchaseOrderRequest struct {
	BranchID             string                   `json:"branch_id" validate:"required"`
	SupplierID           string                   `json:"supplier_id" validate:"required"`
	Status               string                   `json:"status" validate:"omitempty,oneof=draft pending_approval"`
	ExpectedDeliveryDate *time.Time               `json:"expected_delivery_date"`
	Notes                string                   `json:"notes" validate:"omitempty,max=1000"`
	Items                []PurchaseOrderItemInput `json:"items" validate:"dive"`
}

// UpdatePurchaseOrderRequest entrada para modificar una orden (solo draft/pending_approval).
// Items != nil reemplaza todas las líneas.
type UpdatePurchaseOrderRequest struct {
	SupplierID           *string                  `json:"supplier_id"`
	ExpectedDeliveryDate *time.Time               `json:"expected_delivery_date"`
	Notes                *string                  `json:"notes" validate:"omitempty,max=1000"`
	Items                []PurchaseOrderItemInput `json:"items" validate:"omitempty,dive"`
}

// ReceivedItemInput cantidad recibida de una línea.
type ReceivedItemInput struct {
	ItemID           string `json:"item_id" validate:"required"`
	ReceivedQuantity int    `json:"received_quantity" validate:"min=0"`
}

// DeliverPurchaseOrderRequest entrada de recepción. Sin ítems = recibido completo.
type DeliverPurchaseOrderRequest struct {
	Items []ReceivedItemInput `json:"items" validate:"omitempty,dive"`
}

// PurchaseOrderItemResponse salida de una línea.
type PurchaseOrderItemResponse struct {
	ID               string          `json:"id"`
	ProductID        string          `json:"product_id"`
	Quantity         int             `json:"quantity"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	TotalPrice       decimal.Decimal `json:"total_price"`
	ReceivedQuantity int             `json:"received_quantity"`
}

// PurchaseOrderResponse salida de una orden de compra.
type PurchaseOrderResponse struct {
	ID                   string                      `json:"id"`
	OrderNumber          string                      `json:"order_number"`
	BranchID             string                      `json:"branch_id"`
	SupplierID           string                      `json:"supplier_id"`
	Status               string                      `json:"status"`
	OrderDate            time.Time                   `json:"order_date"`
	ExpectedDeliveryDate *time.Time                  `json:"expected_delivery_date,omitempty"`
	ActualDeliveryDate   *time.Time                  `json:"actual_delivery_date,omitempty"`
	TotalAmount          decimal.Decimal             `json:"total_amount"`
	Notes                string                      `json:"notes,omitempty"`
	CreatedBy            string                      `json:"created_by"`
	ApprovedBy           *string                     `json:"approved_by,omitempty"`
	ApprovedAt           *time.Time                  `json:"approved_at,omitempty"`
	Items                []PurchaseOrderItemResponse `json:"items"`
	AllowedActions       []string                    `json:"allowed_actions"`
}

// PurchaseOrderListResponse lista paginada de órdenes.
type PurchaseOrderListResponse struct {
	Items []PurchaseOrderResponse `json:"items"`
	Page  PageResponse            `json:"page"`
}

// ── Traslados ────────────────────────────────────────────────────────────────

// StockTransferItemInput línea solicitada.
type StockTransferItemInput struct {
	ProductID         string `json:"product_id" validate:"required"`
	RequestedQuantity int    `json:"requested_quantity" validate:"required,gt=0"`
}

// CreateStockTransferRequest entrada para solicitar un traslado.
type CreateStockTransferRequest struct {
	FromBranchID string                   `json:"from_branch_id" validate:"required"`
	ToBranchID   string                   `json:"to_branch_id" validate:"required"`
	Notes        string                   `json:"notes" validate:"omitempty,max=1000"`
	Items        []StockTransferItemInput `json:"items" validate:"dive"`
}

// UpdateStockTransferRequest reemplaza líneas y notas mientras está pendiente.
type UpdateStockTransferRequest struct {
	Notes *string                  `json:"notes" validate:"omitempty,max=1000"`
	Items []StockTransferItemInput `json:"items" validate:"omitempty,dive"`
}

// TransferQuantityInput cantidad aprobada o trasladada de una línea.
type TransferQuantityInput struct {
	ItemID   string `json:"item_id" validate:"required"`
	Quantity int    `json:"quantity" validate:"min=0"`
}

// TransferQuantitiesRequest entrada de aprobación o cierre. Sin ítems = cantidades completas.
type TransferQuantitiesRequest struct {
	Items []TransferQuantityInput `json:"items" validate:"omitempty,dive"`
}

// ReasonRequest motivo de rechazo.
type ReasonRequest struct {
	Reason string `json:"reason" validate:"omitempty,max=500"`
}

// StockTransferItemResponse salida de una línea de traslado.
type StockTransferItemResponse struct {
	ID                  string `json:"id"`
	ProductID           string `json:"product_id"`
	RequestedQuantity   int    `json:"requested_quantity"`
	ApprovedQuantity    int    `json:"approved_quantity"`
	TransferredQuantity int    `json:"transferred_quantity"`
}

// StockTransferResponse salida de un traslado.
type StockTransferResponse struct {
	ID              string                      `json:"id"`
	TransferNumber  string                      `json:"transfer_number"`
	FromBranchID    string                      `json:"from_branch_id"`
	ToBranchID      string                      `json:"to_branch_id"`
	Status          string                      `json:"status"`
	RequestDate     time.Time                   `json:"request_date"`
	ApprovedDate    *time.Time                  `json:"approved_date,omitempty"`
	ShippedDate     *time.Time                  `json:"shipped_date,omitempty"`
	CompletedDate   *time.Time                  `json:"completed_date,omitempty"`
	Notes           string                      `json:"notes,omitempty"`
	RejectionReason string                      `json:"rejection_reason,omitempty"`
	RequestedBy     string                      `json:"requested_by"`
	ApprovedBy      *string                     `json:"approved_by,omitempty"`
	Items           []StockTransferItemResponse `json:"items"`
	AllowedActions  []string                    `json:"allowed_actions"`
}

// StockTransferListResponse lista paginada de traslados.
type StockTransferListResponse struct {
	Items []StockTransferResponse `json:"items"`
	Page  PageResponse            `json:"page"`
}

// ── Ajustes ──────────────────────────────────────────────────────────────────

// CreateStockAdjustmentRequest entrada para solicitar un ajuste.
type CreateStockAdjustmentRequest struct {
	BranchID       string `json:"branch_id" validate:"required"`
	ProductID      string `json:"product_id" validate:"required"`
	AdjustmentType string `json:"adjustment_type" validate:"required,oneof=increase decrease"`
	Quantity       int    `json:"quantity" validate:"required,gt=0"`
	Reason         string `json:"reason" validate:"required,max=500"`
}

// StockAdjustmentResponse salida de un ajuste.
type StockAdjustmentResponse struct {
	ID                string     `json:"id"`
	AdjustmentNumber  string     `json:"adjustment_number"`
	BranchID          string     `json:"branch_id"`
	ProductID         string     `json:"product_id"`
	AdjustmentType    string     `json:"adjustment_type"`
	Quantity          int        `json:"quantity"`
	EffectiveQuantity int        `json:"effective_quantity"`
	Reason            string     `json:"reason"`
	Status            string     `json:"status"`
	RejectionReason   string     `json:"rejection_reason,omitempty"`
	AdjustedBy        string     `json:"adjusted_by"`
	ApprovedBy        *string    `json:"approved_by,omitempty"`
	ApprovedAt        *time.Time `json:"approved_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}

// StockAdjustmentListResponse lista paginada de ajustes.
type StockAdjustmentListResponse struct {
	Items []StockAdjustmentResponse `json:"items"`
	Page  PageResponse              `json:"page"`
}

// ── Conteos ──────────────────────────────────────────────────────────────────

// CreateInventoryCountRequest entrada para abrir un conteo.
type CreateInventoryCountRequest struct {
	BranchID  string     `json:"branch_id" validate:"required"`
	CountDate *time.Time `json:"count_date"`
	Notes     string     `json:"notes" validate:"omitempty,max=1000"`
}

// AddCountItemRequest producto contado.
type AddCountItemRequest struct {
	ProductID       string `json:"product_id" validate:"required"`
	CountedQuantity int    `json:"counted_quantity" validate:"min=0"`
}

// UpdateCountItemRequest corrección de la cantidad contada.
type UpdateCountItemRequest struct {
	CountedQuantity int `json:"counted_quantity" validate:"min=0"`
}

// InventoryCountItemResponse salida de un ítem contado.
type InventoryCountItemResponse struct {
	ID              string `json:"id"`
	ProductID       string `json:"product_id"`
	SystemQuantity  int    `json:"system_quantity"`
	CountedQuantity int    `json:"counted_quantity"`
	Variance        int    `json:"variance"`
}

// InventoryCountResponse salida de un conteo.
type InventoryCountResponse struct {
	ID             string                       `json:"id"`
	CountNumber    string                       `json:"count_number"`
	BranchID       string                       `json:"branch_id"`
	CountDate      time.Time                    `json:"count_date"`
	Status         string                       `json:"status"`
	Notes          string                       `json:"notes,omitempty"`
	ConductedBy    string                       `json:"conducted_by"`
	ApprovedBy     *string                      `json:"approved_by,omitempty"`
	ApprovedAt     *time.Time                   `json:"approved_at,omitempty"`
	Items          []InventoryCountItemResponse `json:"items"`
	AllowedActions []string                     `json:"allowed_actions"`
}

// InventoryCountListResponse lista paginada de conteos.
type InventoryCountListResponse struct {
	Items []InventoryCountResponse `json:"items"`
	Page  PageResponse             `json:"page"`
}
