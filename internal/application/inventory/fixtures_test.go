package inventory_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Cafeteria-api/internal/application/dto"
	"github.com/jhoicas/Cafeteria-api/internal/application/inventory"
	"github.com/jhoicas/Cafeteria-api/internal/domain/entity"
	"github.com/jhoicas/Cafeteria-api/internal/domain/repository"
	"github.com/jhoicas/Cafeteria-api/internal/testutil"
	"github.com/jhoicas/Cafeteria-api/pkg/logger"
)

const (
	branchA     = "br-centro"
	branchB     = "br-norte"
	supplierID  = "sup-1"
	productBean = "prod-grano"
	productMilk = "prod-leche"
)

var (
	fixedNow = time.Date(2026, 10, 15, 9, 30, 0, 0, time.UTC)

	adminActor   = entity.Principal{ID: "adm-1", Role: entity.RoleAdmin}
	managerA     = entity.Principal{ID: "usr-mgr-a", Role: entity.RoleBranchManager, BranchID: branchA}
	managerB     = entity.Principal{ID: "usr-mgr-b", Role: entity.RoleBranchManager, BranchID: branchB}
	baristaA     = entity.Principal{ID: "usr-bar-a", Role: entity.RoleBarista, BranchID: branchA}
	cashierOther = entity.Principal{ID: "usr-caj-x", Role: entity.RoleCashier, BranchID: "br-otra"}
)

// recordingCache caché en memoria que registra las invalidaciones.
type recordingCache struct {
	mu          sync.Mutex
	values      map[inventory.StockKey]int
	invalidated []inventory.StockKey
	loads       int
}

func newRecordingCache() *recordingCache {
	return &recordingCache{values: map[inventory.StockKey]int{}}
}

func (c *recordingCache) Fetch(ctx context.Context, key inventory.StockKey, load func(ctx context.Context) (int, error)) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if v, ok := c.values[key]; ok {
		return v, nil
	}
	c.loads++
	v, err := load(ctx)
	if err != nil {
		return 0, err
	}
	c.values[key] = v
	return v, nil
}

func (c *recordingCache) Invalidate(_ context.Context, keys ...inventory.StockKey) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.values, k)
		c.invalidated = append(c.invalidated, k)
	}
	return nil
}

type harness struct {
	ctx         context.Context
	store       *testutil.Store
	cache       *recordingCache
	ledger      *inventory.Ledger
	orders      *inventory.PurchaseOrderUseCase
	transfers   *inventory.StockTransferUseCase
	adjustments *inventory.StockAdjustmentUseCase
	counts      *inventory.InventoryCountUseCase
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	ctx := context.Background()
	store := testutil.NewStore()
	log := logger.Nop()

	require.NoError(t, store.Branches().Create(ctx, &entity.Branch{ID: branchA, Name: "Centro", Status: entity.BranchStatusActive}))
	require.NoError(t, store.Branches().Create(ctx, &entity.Branch{ID: branchB, Name: "Norte", Status: entity.BranchStatusActive}))
	require.NoError(t, store.Suppliers().Create(ctx, &entity.Supplier{ID: supplierID, Name: "Tostadores del Valle", IsActive: true}))
	require.NoError(t, store.Products().Create(ctx, &entity.Product{
		ID: productBean, BranchID: branchA, Name: "Café en grano", Category: "granos",
		ProductUnit: "kg", BasePrice: decimal.RequireFromString("10.00"), IsActive: true, LowStockThreshold: 10,
	}))
	require.NoError(t, store.Products().Create(ctx, &entity.Product{
		ID: productMilk, BranchID: branchA, Name: "Leche entera", Category: "lácteos",
		ProductUnit: "litro", BasePrice: decimal.RequireFromString("1.20"), IsActive: true, LowStockThreshold: 5,
	}))

	cache := newRecordingCache()
	ledger := inventory.NewLedger(store, store.Logs(), store.Products(), store.Branches(), store.Suppliers(), cache, log).
		WithClock(func() time.Time { return fixedNow })

	return &harness{
		ctx:         ctx,
		store:       store,
		cache:       cache,
		ledger:      ledger,
		orders:      inventory.NewPurchaseOrderUseCase(ledger, store, store.PurchaseOrders(), store.Branches(), store.Suppliers(), store.Products(), nil, log),
		transfers:   inventory.NewStockTransferUseCase(ledger, store, store.Transfers(), store.Branches(), store.Products(), log),
		adjustments: inventory.NewStockAdjustmentUseCase(ledger, store, store.Adjustments(), store.Branches(), store.Products(), log),
		counts:      inventory.NewInventoryCountUseCase(ledger, store, store.Counts(), store.Branches(), store.Products(), log),
	}
}

// restock deja stock inicial mediante un asiento manual.
func (h *harness) restock(t *testing.T, productID, branchID string, qty int) {
	t.Helper()
	_, err := h.ledger.RecordManual(h.ctx, adminActor, dto.RecordInventoryLogRequest{
		BranchID: branchID, ProductID: productID, ChangeType: string(entity.ChangeRestock), Quantity: qty,
	})
	require.NoError(t, err)
}

func (h *harness) stock(t *testing.T, productID, branchID string) int {
	t.Helper()
	qty, err := h.store.Logs().SumQuantity(h.ctx, productID, branchID)
	require.NoError(t, err)
	return qty
}

func repositoryFilter(branchID string) repository.WorkflowFilter {
	return repository.WorkflowFilter{BranchID: branchID, Limit: 20}
}
