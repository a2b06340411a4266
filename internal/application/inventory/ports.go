package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/Cafeteria-api/internal/domain/entity"
	"github.com/jhoicas/Cafeteria-api/internal/domain/repository"
)

// TxRepositories repositorios atados a una misma transacción de BD.
type TxRepositories struct {
	Branches       repository.BranchRepository
	Suppliers      repository.SupplierRepository
	Products       repository.ProductRepository
	Logs           repository.InventoryLogRepository
	Balances       repository.StockBalanceRepository
	Sequences      repository.SequenceRepository
	PurchaseOrders repository.PurchaseOrderRepository
	Transfers      repository.StockTransferRepository
	Adjustments    repository.StockAdjustmentRepository
	Counts         repository.InventoryCountRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace Rollback completo: ningún asiento parcial queda persistido.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos TxRepositories) error) error
}

// StockKey identifica el stock de un producto en una sucursal.
type StockKey struct {
	ProductID string
	BranchID  string
}

// StockCache caché opcional de lectura del stock derivado.
// Fetch devuelve el valor cacheado o ejecuta load y lo guarda; Invalidate borra las claves.
type StockCache interface {
	Fetch(ctx context.Context, key StockKey, load func(ctx context.Context) (int, error)) (int, error)
	Invalidate(ctx context.Context, keys ...StockKey) error
}

// PurchaseOrderDocument datos para el PDF de una orden de compra.
type PurchaseOrderDocument struct {
	Order        *entity.PurchaseOrder
	Branch       *entity.Branch
	Supplier     *entity.Supplier
	ProductNames map[string]string
}

// PurchaseOrderPDFGenerator genera el PDF de una orden de compra.
type PurchaseOrderPDFGenerator interface {
	GeneratePurchaseOrderPDF(ctx context.Context, doc PurchaseOrderDocument) ([]byte, error)
}

// Clock fuente de la hora actual (inyectable en tests).
type Clock func() time.Time
