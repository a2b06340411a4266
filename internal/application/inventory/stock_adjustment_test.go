package inventory_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Cafeteria-api/internal/application/dto"
	"github.com/jhoicas/Cafeteria-api/internal/domain"
	"github.com/jhoicas/Cafeteria-api/internal/domain/entity"
)

func TestStockAdjustment_DisminucionExigeStock(t *testing.T) {
	h := newHarness(t)
	h.restock(t, productMilk, branchA, 3)

	_, err := h.adjustments.Create(h.ctx, managerA, dto.CreateStockAdjustmentRequest{
		BranchID: branchA, ProductID: productMilk, AdjustmentType: "decrease", Quantity: 4, Reason: "derrame",
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	list, err := h.adjustments.List(h.ctx, adminActor, repositoryFilter(branchA))
	require.NoError(t, err)
	assert.Empty(t, list.Items)
}

func TestStockAdjustment_AprobarRegistraAsientoConSigno(t *testing.T) {
	h := newHarness(t)
	h.restock(t, productMilk, branchA, 10)

	adj, err := h.adjustments.Create(h.ctx, managerA, dto.CreateStockAdjustmentRequest{
		BranchID: branchA, ProductID: productMilk, AdjustmentType: "decrease", Quantity: 4, Reason: "vencida",
	})
	require.NoError(t, err)
	assert.Equal(t, "SA202610150001", adj.AdjustmentNumber)
	assert.Equal(t, -4, adj.EffectiveQuantity)

	_, err = h.adjustments.Approve(h.ctx, managerA, adj.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	approved, err := h.adjustments.Approve(h.ctx, adminActor, adj.ID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.AdjustmentStatusApproved), approved.Status)
	assert.Equal(t, 6, h.stock(t, productMilk, branchA))

	logs := h.store.AllLogs()
	last := logs[len(logs)-1]
	assert.Equal(t, entity.ChangeAdjustment, last.ChangeType)
	assert.Equal(t, -4, last.Quantity)
	assert.Contains(t, last.Notes, "vencida")
	assert.Contains(t, last.Notes, adj.AdjustmentNumber)

	_, err = h.adjustments.Approve(h.ctx, adminActor, adj.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState, "no se aprueba dos veces")
	assert.Equal(t, 6, h.stock(t, productMilk, branchA))
}

func TestStockAdjustment_RechazoSinEfecto(t *testing.T) {
	h := newHarness(t)
	adj, err := h.adjustments.Create(h.ctx, managerA, dto.CreateStockAdjustmentRequest{
		BranchID: branchA, ProductID: productBean, AdjustmentType: "increase", Quantity: 5, Reason: "hallazgo",
	})
	require.NoError(t, err)

	rejected, err := h.adjustments.Reject(h.ctx, adminActor, adj.ID, dto.ReasonRequest{Reason: "sin soporte"})
	require.NoError(t, err)
	assert.Equal(t, string(entity.AdjustmentStatusRejected), rejected.Status)
	assert.Zero(t, h.store.LogCount())

	_, err = h.adjustments.Approve(h.ctx, adminActor, adj.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestStockAdjustment_BaristaNoCreaAjustes(t *testing.T) {
	h := newHarness(t)
	_, err := h.adjustments.Create(h.ctx, baristaA, dto.CreateStockAdjustmentRequest{
		BranchID: branchA, ProductID: productBean, AdjustmentType: "increase", Quantity: 1, Reason: "x",
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestStockAdjustment_ProductoAusenteEnLaSucursalSeRechaza(t *testing.T) {
	h := newHarness(t)

	_, err := h.adjustments.Create(h.ctx, managerB, dto.CreateStockAdjustmentRequest{
		BranchID: branchB, ProductID: productMilk, AdjustmentType: "increase", Quantity: 2, Reason: "hallazgo",
	})
	require.Error(t, err)
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "product_id", verr.Field)

	list, err := h.adjustments.List(h.ctx, adminActor, repositoryFilter(branchB))
	require.NoError(t, err)
	assert.Empty(t, list.Items)

	count, err := h.counts.Create(h.ctx, managerB, dto.CreateInventoryCountRequest{BranchID: branchB})
	require.NoError(t, err)
	_, err = h.counts.AddItem(h.ctx, managerB, count.ID, dto.AddCountItemRequest{ProductID: productMilk, CountedQuantity: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestStockAdjustment_ProductoRecibidoPorTrasladoSeAjusta(t *testing.T) {
	h := newHarness(t)
	h.restock(t, productBean, branchA, 10)
	tr, err := requestTransfer(h, 4)
	require.NoError(t, err)
	_, err = h.transfers.Approve(h.ctx, adminActor, tr.ID, dto.TransferQuantitiesRequest{})
	require.NoError(t, err)
	_, err = h.transfers.Complete(h.ctx, managerB, tr.ID, dto.TransferQuantitiesRequest{})
	require.NoError(t, err)

	adj, err := h.adjustments.Create(h.ctx, managerB, dto.CreateStockAdjustmentRequest{
		BranchID: branchB, ProductID: productBean, AdjustmentType: "decrease", Quantity: 1, Reason: "bolsa rota",
	})
	require.NoError(t, err)
	assert.Equal(t, branchB, adj.BranchID)

	count, err := h.counts.Create(h.ctx, managerB, dto.CreateInventoryCountRequest{BranchID: branchB})
	require.NoError(t, err)
	withItem, err := h.counts.AddItem(h.ctx, managerB, count.ID, dto.AddCountItemRequest{ProductID: productBean, CountedQuantity: 4})
	require.NoError(t, err)
	require.Len(t, withItem.Items, 1)
	assert.Equal(t, 4, withItem.Items[0].SystemQuantity)
}
