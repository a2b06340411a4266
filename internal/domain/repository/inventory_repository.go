package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Cafeteria-api/internal/domain/entity"
)

// LogFilter filtros del libro de inventario.
type LogFilter struct {
	BranchID   string
	ProductID  string
	ChangeType entity.ChangeType
	From, To   *time.Time
	Limit      int
	Offset     int
}

// InventoryLogRepository libro de inventario (solo inserción y lectura).
type InventoryLogRepository interface {
	Create(ctx context.Context, entry *entity.InventoryLog) error
	// SumQuantity suma con signo de todos los asientos de (producto, sucursal).
	SumQuantity(ctx context.Context, productID, branchID string) (int, error)
	// HasEntries indica si la sucursal tiene algún asiento del producto.
	HasEntries(ctx context.Context, productID, branchID string) (bool, error)
	List(ctx context.Context, filter LogFilter) ([]*entity.InventoryLog, error)
	// ListStockLevels stock derivado de los productos activos presentes en la sucursal
	// (propios o con asientos en ella). Sucursal vacía = todas.
	ListStockLevels(ctx context.Context, branchID string) ([]entity.StockLevel, error)
}

// StockBalanceRepository saldo corriente bloqueable por (producto, sucursal).
type StockBalanceRepository interface {
	// GetForUpdate crea la fila si no existe y la bloquea (SELECT ... FOR UPDATE) hasta el fin de la tx.
	GetForUpdate(ctx context.Context, productID, branchID string) (*entity.StockBalance, error)
	Save(ctx context.Context, balance *entity.StockBalance) error
}

// SequenceRepository secuencias diarias de numeración de documentos.
type SequenceRepository interface {
	Next(ctx context.Context, prefix string, day time.Time) (int, error)
}

// WorkflowFilter filtros comunes de listados de flujos.
// En traslados BranchID coincide con origen o destino.
type WorkflowFilter struct {
	BranchID string
	Status   string
	Limit    int
	Offset   int
}

// PurchaseOrderRepository órdenes de compra con sus líneas.
// Update persiste cabecera y líneas (inserta nuevas, actualiza existentes, borra las ausentes).
type PurchaseOrderRepository interface {
	Create(ctx context.Context, order *entity.PurchaseOrder) error
	GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error)
	GetByIDForUpdate(ctx context.Context, id string) (*entity.PurchaseOrder, error)
	Update(ctx context.Context, order *entity.PurchaseOrder) error
	List(ctx context.Context, filter WorkflowFilter) ([]*entity.PurchaseOrder, error)
}

// StockTransferRepository traslados con sus líneas.
type StockTransferRepository interface {
	Create(ctx context.Context, transfer *entity.StockTransfer) error
	GetByID(ctx context.Context, id string) (*entity.StockTransfer, error)
	GetByIDForUpdate(ctx context.Context, id string) (*entity.StockTransfer, error)
	Update(ctx context.Context, transfer *entity.StockTransfer) error
	List(ctx context.Context, filter WorkflowFilter) ([]*entity.StockTransfer, error)
}

// StockAdjustmentRepository ajustes de stock.
type StockAdjustmentRepository interface {
	Create(ctx context.Context, adj *entity.StockAdjustment) error
	GetByID(ctx context.Context, id string) (*entity.StockAdjustment, error)
	GetByIDForUpdate(ctx context.Context, id string) (*entity.StockAdjustment, error)
	Update(ctx context.Context, adj *entity.StockAdjustment) error
	List(ctx context.Context, filter WorkflowFilter) ([]*entity.StockAdjustment, error)
}

// InventoryCountRepository conteos físicos con sus ítems.
type InventoryCountRepository interface {
	Create(ctx context.Context, count *entity.InventoryCount) error
	GetByID(ctx context.Context, id string) (*entity.InventoryCount, error)
	GetByIDForUpdate(ctx context.Context, id string) (*entity.InventoryCount, error)
	Update(ctx context.Context, count *entity.InventoryCount) error
	List(ctx context.Context, filter WorkflowFilter) ([]*entity.InventoryCount, error)
}

// PendingApprovals documentos que esperan una acción administrativa.
type PendingApprovals struct {
	PurchaseOrders   int
	StockTransfers   int
	StockAdjustments int
	InventoryCounts  int
}

// DashboardRepository consultas de solo lectura del tablero.
type DashboardRepository interface {
	PendingApprovals(ctx context.Context, branchID string) (PendingApprovals, error)
	OpenAttendance(ctx context.Context, branchID string, from, to time.Time) (int, error)
}
