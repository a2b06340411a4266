package workflow

import "github.com/jhoicas/Cafeteria-api/internal/domain/entity"

// Acciones de los flujos.
const (
	ActionUpdate    Action = "update"
	ActionSubmit    Action = "submit"
	ActionApprove   Action = "approve"
	ActionMarkOrder Action = "mark_ordered"
	ActionDeliver   Action = "deliver"
	ActionCancel    Action = "cancel"
	ActionShip      Action = "ship"
	ActionComplete  Action = "complete"
	ActionReject    Action = "reject"
	ActionAddItem   Action = "add_item"
)

// PurchaseOrders draft → pending_approval → approved → (ordered) → delivered; draft/pending → cancelled.
var PurchaseOrders = NewMachine("orden de compra",
	Edge[entity.PurchaseOrderStatus]{entity.POStatusDraft, ActionUpdate, entity.POStatusDraft},
	Edge[entity.PurchaseOrderStatus]{entity.POStatusPendingApproval, ActionUpdate, entity.POStatusPendingApproval},
	Edge[entity.PurchaseOrderStatus]{entity.POStatusDraft, ActionSubmit, entity.POStatusPendingApproval},
	Edge[entity.PurchaseOrderStatus]{entity.POStatusPendingApproval, ActionApprove, entity.POStatusApproved},
	Edge[entity.PurchaseOrderStatus]{entity.POStatusApproved, ActionMarkOrder, entity.POStatusOrdered},
	Edge[entity.PurchaseOrderStatus]{entity.POStatusApproved, ActionDeliver, entity.POStatusDelivered},
	Edge[entity.PurchaseOrderStatus]{entity.POStatusOrdered, ActionDeliver, entity.POStatusDelivered},
	Edge[entity.PurchaseOrderStatus]{entity.POStatusDraft, ActionCancel, entity.POStatusCancelled},
	Edge[entity.PurchaseOrderStatus]{entity.POStatusPendingApproval, ActionCancel, entity.POStatusCancelled},
)

// StockTransfers pending → approved → in_transit → completed; pending/approved → rejected/cancelled.
var StockTransfers = NewMachine("traslado",
	Edge[entity.StockTransferStatus]{entity.TransferStatusPending, ActionUpdate, entity.TransferStatusPending},
	Edge[entity.StockTransferStatus]{entity.TransferStatusPending, ActionApprove, entity.TransferStatusApproved},
	Edge[entity.StockTransferStatus]{entity.TransferStatusApproved, ActionShip, entity.TransferStatusInTransit},
	Edge[entity.StockTransferStatus]{entity.TransferStatusApproved, ActionComplete, entity.TransferStatusCompleted},
	Edge[entity.StockTransferStatus]{entity.TransferStatusInTransit, ActionComplete, entity.TransferStatusCompleted},
	Edge[entity.StockTransferStatus]{entity.TransferStatusPending, ActionReject, entity.TransferStatusRejected},
	Edge[entity.StockTransferStatus]{entity.TransferStatusApproved, ActionReject, entity.TransferStatusRejected},
	Edge[entity.StockTransferStatus]{entity.TransferStatusPending, ActionCancel, entity.TransferStatusCancelled},
	Edge[entity.StockTransferStatus]{entity.TransferStatusApproved, ActionCancel, entity.TransferStatusCancelled},
)

// StockAdjustments pending → approved/rejected.
var StockAdjustments = NewMachine("ajuste de stock",
	Edge[entity.StockAdjustmentStatus]{entity.AdjustmentStatusPending, ActionApprove, entity.AdjustmentStatusApproved},
	Edge[entity.StockAdjustmentStatus]{entity.AdjustmentStatusPending, ActionReject, entity.AdjustmentStatusRejected},
)

// InventoryCounts in_progress → completed → approved; los ítems solo cambian en in_progress.
var InventoryCounts = NewMachine("conteo de inventario",
	Edge[entity.InventoryCountStatus]{entity.CountStatusInProgress, ActionAddItem, entity.CountStatusInProgress},
	Edge[entity.InventoryCountStatus]{entity.CountStatusInProgress, ActionUpdate, entity.CountStatusInProgress},
	Edge[entity.InventoryCountStatus]{entity.CountStatusInProgress, ActionComplete, entity.CountStatusCompleted},
	Edge[entity.InventoryCountStatus]{entity.CountStatusCompleted, ActionApprove, entity.CountStatusApproved},
)
