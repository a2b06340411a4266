package inventory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Cafeteria-api/internal/application/dto"
	"github.com/jhoicas/Cafeteria-api/internal/domain"
	"github.com/jhoicas/Cafeteria-api/internal/domain/entity"
)

func openCount(t *testing.T, h *harness) *dto.InventoryCountResponse {
	t.Helper()
	c, err := h.counts.Create(h.ctx, baristaA, dto.CreateInventoryCountRequest{BranchID: branchA})
	require.NoError(t, err)
	return c
}

func TestInventoryCount_DiferenciaNegativaSePublicaUnaVez(t *testing.T) {
	h := newHarness(t)
	h.restock(t, productBean, branchA, 10)
	c := openCount(t, h)
	assert.Equal(t, "IC202610150001", c.CountNumber)

	withItem, err := h.counts.AddItem(h.ctx, baristaA, c.ID, dto.AddCountItemRequest{ProductID: productBean, CountedQuantity: 7})
	require.NoError(t, err)
	require.Len(t, withItem.Items, 1)
	assert.Equal(t, 10, withItem.Items[0].SystemQuantity)
	assert.Equal(t, -3, withItem.Items[0].Variance)

	_, err = h.counts.Complete(h.ctx, baristaA, c.ID)
	require.NoError(t, err)
	logsBefore := h.store.LogCount()

	approved, err := h.counts.Approve(h.ctx, adminActor, c.ID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.CountStatusApproved), approved.Status)
	assert.Equal(t, logsBefore+1, h.store.LogCount())
	assert.Equal(t, 7, h.stock(t, productBean, branchA))

	_, err = h.counts.Approve(h.ctx, adminActor, c.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	assert.Equal(t, logsBefore+1, h.store.LogCount(), "aprobar dos veces no duplica asientos")
}

func TestInventoryCount_DiferenciaCeroNoEscribe(t *testing.T) {
	h := newHarness(t)
	h.restock(t, productBean, branchA, 4)
	c := openCount(t, h)
	_, err := h.counts.AddItem(h.ctx, baristaA, c.ID, dto.AddCountItemRequest{ProductID: productBean, CountedQuantity: 4})
	require.NoError(t, err)
	_, err = h.counts.Complete(h.ctx, baristaA, c.ID)
	require.NoError(t, err)
	before := h.store.LogCount()

	_, err = h.counts.Approve(h.ctx, adminActor, c.ID)
	require.NoError(t, err)
	assert.Equal(t, before, h.store.LogCount())
}

func TestInventoryCount_DiferenciaPuedeDejarSaldoNegativo(t *testing.T) {
	h := newHarness(t)
	h.restock(t, productMilk, branchA, 5)
	c := openCount(t, h)
	_, err := h.counts.AddItem(h.ctx, baristaA, c.ID, dto.AddCountItemRequest{ProductID: productMilk, CountedQuantity: 1})
	require.NoError(t, err)
	// venta registrada después de la foto del sistema
	_, err = h.ledger.RecordManual(h.ctx, baristaA, dto.RecordInventoryLogRequest{
		BranchID: branchA, ProductID: productMilk, ChangeType: string(entity.ChangeSale), Quantity: 3,
	})
	require.NoError(t, err)

	_, err = h.counts.Complete(h.ctx, baristaA, c.ID)
	require.NoError(t, err)
	_, err = h.counts.Approve(h.ctx, adminActor, c.ID)
	require.NoError(t, err)
	assert.Equal(t, -2, h.stock(t, productMilk, branchA))
	assert.Equal(t, -2, h.store.Balance(productMilk, branchA))
}

func TestInventoryCount_ProductoDuplicado(t *testing.T) {
	h := newHarness(t)
	c := openCount(t, h)
	_, err := h.counts.AddItem(h.ctx, baristaA, c.ID, dto.AddCountItemRequest{ProductID: productBean, CountedQuantity: 1})
	require.NoError(t, err)
	_, err = h.counts.AddItem(h.ctx, baristaA, c.ID, dto.AddCountItemRequest{ProductID: productBean, CountedQuantity: 2})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestInventoryCount_CompletarSinItems(t *testing.T) {
	h := newHarness(t)
	c := openCount(t, h)
	_, err := h.counts.Complete(h.ctx, baristaA, c.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	got, err := h.counts.Get(h.ctx, baristaA, c.ID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.CountStatusInProgress), got.Status)
}

func TestInventoryCount_CorregirItemRecalculaDiferencia(t *testing.T) {
	h := newHarness(t)
	h.restock(t, productBean, branchA, 10)
	c := openCount(t, h)
	withItem, err := h.counts.AddItem(h.ctx, baristaA, c.ID, dto.AddCountItemRequest{ProductID: productBean, CountedQuantity: 7})
	require.NoError(t, err)

	updated, err := h.counts.UpdateItem(h.ctx, baristaA, c.ID, withItem.Items[0].ID, dto.UpdateCountItemRequest{CountedQuantity: 12})
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Items[0].Variance)

	_, err = h.counts.Complete(h.ctx, baristaA, c.ID)
	require.NoError(t, err)
	_, err = h.counts.UpdateItem(h.ctx, baristaA, c.ID, withItem.Items[0].ID, dto.UpdateCountItemRequest{CountedQuantity: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestInventoryCount_BaristaNoAprueba(t *testing.T) {
	h := newHarness(t)
	c := openCount(t, h)
	_, err := h.counts.AddItem(h.ctx, baristaA, c.ID, dto.AddCountItemRequest{ProductID: productBean, CountedQuantity: 1})
	require.NoError(t, err)
	_, err = h.counts.Complete(h.ctx, baristaA, c.ID)
	require.NoError(t, err)

	_, err = h.counts.Approve(h.ctx, baristaA, c.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
