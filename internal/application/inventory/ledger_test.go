package inventory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Cafeteria-api/internal/application/dto"
	"github.com/jhoicas/Cafeteria-api/internal/application/inventory"
	"github.com/jhoicas/Cafeteria-api/internal/domain"
	"github.com/jhoicas/Cafeteria-api/internal/domain/entity"
	"github.com/jhoicas/Cafeteria-api/internal/domain/repository"
)

func record(h *harness, actor entity.Principal, ct entity.ChangeType, qty int) error {
	_, err := h.ledger.RecordManual(h.ctx, actor, dto.RecordInventoryLogRequest{
		BranchID: branchA, ProductID: productBean, ChangeType: string(ct), Quantity: qty,
	})
	return err
}

func TestLedger_SignosPorTipo(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, record(h, managerA, entity.ChangeRestock, 10))
	require.NoError(t, record(h, managerA, entity.ChangeSale, 3))
	require.NoError(t, record(h, managerA, entity.ChangeWaste, 1))
	require.NoError(t, record(h, managerA, entity.ChangeReturn, 2))

	qty := make([]int, 0)
	for _, l := range h.store.AllLogs() {
		qty = append(qty, l.Quantity)
	}
	assert.Equal(t, []int{10, -3, -1, 2}, qty)
	assert.Equal(t, 8, h.stock(t, productBean, branchA))
}

func TestLedger_SumaIgualASaldo(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, record(h, managerA, entity.ChangeRestock, 7))
	require.NoError(t, record(h, managerA, entity.ChangeOut, 2))
	require.NoError(t, record(h, managerA, entity.ChangeIn, 4))
	require.Error(t, record(h, managerA, entity.ChangeSale, 50))

	assert.Equal(t, h.stock(t, productBean, branchA), h.store.Balance(productBean, branchA))
	assert.Equal(t, 9, h.store.Balance(productBean, branchA))
}

func TestLedger_VentaSinStockSuficiente(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, record(h, managerA, entity.ChangeRestock, 2))

	err := record(h, managerA, entity.ChangeSale, 3)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Contains(t, err.Error(), "Café en grano")
	assert.Equal(t, 1, h.store.LogCount())
}

func TestLedger_RegistroManualValidaEntrada(t *testing.T) {
	h := newHarness(t)
	assert.ErrorIs(t, record(h, managerA, entity.ChangeAdjustment, 1), domain.ErrInvalidInput, "los ajustes pasan por su flujo")
	assert.ErrorIs(t, record(h, managerA, entity.ChangeTransferIn, 1), domain.ErrInvalidInput)
	assert.ErrorIs(t, record(h, managerA, entity.ChangeRestock, 0), domain.ErrInvalidInput)
	assert.ErrorIs(t, record(h, managerB, entity.ChangeRestock, 1), domain.ErrForbidden)

	_, err := h.ledger.RecordManual(h.ctx, managerA, dto.RecordInventoryLogRequest{
		BranchID: branchA, ProductID: "no-existe", ChangeType: "restock", Quantity: 1,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Zero(t, h.store.LogCount())
}

func TestLedger_CacheSeInvalidaTrasEscritura(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, record(h, managerA, entity.ChangeRestock, 5))

	got, err := h.ledger.CurrentStock(h.ctx, productBean, branchA)
	require.NoError(t, err)
	assert.Equal(t, 5, got)
	_, err = h.ledger.CurrentStock(h.ctx, productBean, branchA)
	require.NoError(t, err)
	assert.Equal(t, 1, h.cache.loads, "la segunda lectura sale de caché")

	require.NoError(t, record(h, managerA, entity.ChangeSale, 2))
	got, err = h.ledger.CurrentStock(h.ctx, productBean, branchA)
	require.NoError(t, err)
	assert.Equal(t, 3, got)
	assert.Equal(t, 2, h.cache.loads)
	assert.Contains(t, h.cache.invalidated, inventory.StockKey{ProductID: productBean, BranchID: branchA})
}

func TestLedger_AlertasDeStock(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, record(h, managerA, entity.ChangeRestock, 4)) // umbral 10 → bajo

	low, err := h.ledger.LowStock(h.ctx, managerA, "")
	require.NoError(t, err)
	require.Equal(t, 1, low.Total)
	assert.Equal(t, productBean, low.Items[0].ProductID)
	assert.Equal(t, "low_stock", low.Items[0].Status)

	out, err := h.ledger.OutOfStock(h.ctx, managerA, "")
	require.NoError(t, err)
	require.Equal(t, 1, out.Total)
	assert.Equal(t, productMilk, out.Items[0].ProductID)

	_, err = h.ledger.LowStock(h.ctx, managerA, branchB)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestLedger_StockDeProducto(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, record(h, managerA, entity.ChangeRestock, 25))

	st, err := h.ledger.ProductStock(h.ctx, baristaA, productBean, "")
	require.NoError(t, err)
	assert.Equal(t, 25, st.CurrentStock)
	assert.Equal(t, "in_stock", st.Status)

	_, err = h.ledger.ProductStock(h.ctx, baristaA, "no-existe", "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLedger_ListadoFiltraPorSucursalDelActor(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, record(h, managerA, entity.ChangeRestock, 3))
	h.restock(t, productBean, branchB, 2)

	list, err := h.ledger.ListLogs(h.ctx, managerA, repository.LogFilter{Limit: 20})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, branchA, list.Items[0].BranchID)

	all, err := h.ledger.ListLogs(h.ctx, adminActor, repository.LogFilter{Limit: 20})
	require.NoError(t, err)
	assert.Len(t, all.Items, 2)
}

func TestLedger_AlertasSoloConProductosDeLaSucursal(t *testing.T) {
	h := newHarness(t)

	out, err := h.ledger.OutOfStock(h.ctx, managerB, "")
	require.NoError(t, err)
	assert.Zero(t, out.Total, "los productos del centro no figuran agotados en el norte")

	h.restock(t, productBean, branchA, 20)
	tr, err := requestTransfer(h, 3)
	require.NoError(t, err)
	_, err = h.transfers.Approve(h.ctx, adminActor, tr.ID, dto.TransferQuantitiesRequest{})
	require.NoError(t, err)
	_, err = h.transfers.Complete(h.ctx, managerB, tr.ID, dto.TransferQuantitiesRequest{})
	require.NoError(t, err)

	low, err := h.ledger.LowStock(h.ctx, managerB, "")
	require.NoError(t, err)
	require.Equal(t, 1, low.Total)
	assert.Equal(t, productBean, low.Items[0].ProductID)
	assert.Equal(t, branchB, low.Items[0].BranchID)

	out, err = h.ledger.OutOfStock(h.ctx, managerB, "")
	require.NoError(t, err)
	assert.Zero(t, out.Total)

	all, err := h.ledger.OutOfStock(h.ctx, adminActor, "")
	require.NoError(t, err)
	require.Equal(t, 1, all.Total, "solo la leche del centro")
	assert.Equal(t, productMilk, all.Items[0].ProductID)
	assert.Equal(t, branchA, all.Items[0].BranchID)
}
