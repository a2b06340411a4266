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

func requestTransfer(h *harness, qty int) (*dto.StockTransferResponse, error) {
	return h.transfers.Create(h.ctx, managerA, dto.CreateStockTransferRequest{
		FromBranchID: branchA,
		ToBranchID:   branchB,
		Items:        []dto.StockTransferItemInput{{ProductID: productBean, RequestedQuantity: qty}},
	})
}

func TestStockTransfer_StockInsuficienteNoPersiste(t *testing.T) {
	h := newHarness(t)
	h.restock(t, productBean, branchA, 5)

	_, err := requestTransfer(h, 10)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	var insufficient *domain.InsufficientStockError
	require.True(t, errors.As(err, &insufficient))
	assert.Equal(t, "Café en grano", insufficient.ProductName)
	assert.Equal(t, 5, insufficient.Available)
	assert.Equal(t, 10, insufficient.Requested)
	assert.Zero(t, h.store.TransferCount())
}

func TestStockTransfer_FlujoCompletoConservaStock(t *testing.T) {
	h := newHarness(t)
	h.restock(t, productBean, branchA, 20)

	tr, err := requestTransfer(h, 8)
	require.NoError(t, err)
	assert.Equal(t, "ST202610150001", tr.TransferNumber)
	assert.Equal(t, string(entity.TransferStatusPending), tr.Status)

	approved, err := h.transfers.Approve(h.ctx, adminActor, tr.ID, dto.TransferQuantitiesRequest{
		Items: []dto.TransferQuantityInput{{ItemID: tr.Items[0].ID, Quantity: 6}},
	})
	require.NoError(t, err)
	assert.Equal(t, 6, approved.Items[0].ApprovedQuantity)

	_, err = h.transfers.Ship(h.ctx, managerA, tr.ID)
	require.NoError(t, err)

	before := h.stock(t, productBean, branchA) + h.stock(t, productBean, branchB)
	done, err := h.transfers.Complete(h.ctx, managerB, tr.ID, dto.TransferQuantitiesRequest{})
	require.NoError(t, err)

	assert.Equal(t, string(entity.TransferStatusCompleted), done.Status)
	assert.Equal(t, 6, done.Items[0].TransferredQuantity)
	assert.Equal(t, 14, h.stock(t, productBean, branchA))
	assert.Equal(t, 6, h.stock(t, productBean, branchB))
	assert.Equal(t, before, h.stock(t, productBean, branchA)+h.stock(t, productBean, branchB))

	var out, in *entity.InventoryLog
	for _, l := range h.store.AllLogs() {
		l := l
		switch l.ChangeType {
		case entity.ChangeTransferOut:
			out = &l
		case entity.ChangeTransferIn:
			in = &l
		}
	}
	require.NotNil(t, out)
	require.NotNil(t, in)
	assert.Equal(t, -6, out.Quantity)
	assert.Equal(t, 6, in.Quantity)
	assert.Contains(t, out.Notes, "Norte")
	assert.Contains(t, out.Notes, tr.TransferNumber)
	assert.Contains(t, in.Notes, "Centro")
}

func TestStockTransfer_AprobarRevalidaStock(t *testing.T) {
	h := newHarness(t)
	h.restock(t, productBean, branchA, 10)
	tr, err := requestTransfer(h, 10)
	require.NoError(t, err)

	_, err = h.ledger.RecordManual(h.ctx, managerA, dto.RecordInventoryLogRequest{
		BranchID: branchA, ProductID: productBean, ChangeType: string(entity.ChangeWaste), Quantity: 4,
	})
	require.NoError(t, err)

	_, err = h.transfers.Approve(h.ctx, adminActor, tr.ID, dto.TransferQuantitiesRequest{})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	got, err := h.transfers.Get(h.ctx, adminActor, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.TransferStatusPending), got.Status)
}

func TestStockTransfer_TrasladadoMayorQueAprobado(t *testing.T) {
	h := newHarness(t)
	h.restock(t, productBean, branchA, 10)
	tr, err := requestTransfer(h, 5)
	require.NoError(t, err)
	_, err = h.transfers.Approve(h.ctx, adminActor, tr.ID, dto.TransferQuantitiesRequest{})
	require.NoError(t, err)

	_, err = h.transfers.Complete(h.ctx, managerA, tr.ID, dto.TransferQuantitiesRequest{
		Items: []dto.TransferQuantityInput{{ItemID: tr.Items[0].ID, Quantity: 6}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, 10, h.stock(t, productBean, branchA))
	assert.Zero(t, h.stock(t, productBean, branchB))
}

func TestStockTransfer_MismaSucursalEsInvalido(t *testing.T) {
	h := newHarness(t)
	_, err := h.transfers.Create(h.ctx, managerA, dto.CreateStockTransferRequest{
		FromBranchID: branchA,
		ToBranchID:   branchA,
		Items:        []dto.StockTransferItemInput{{ProductID: productBean, RequestedQuantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestStockTransfer_RechazoYCancelacion(t *testing.T) {
	h := newHarness(t)
	h.restock(t, productBean, branchA, 10)

	tr, err := requestTransfer(h, 2)
	require.NoError(t, err)
	_, err = h.transfers.Reject(h.ctx, managerA, tr.ID, dto.ReasonRequest{Reason: "no"})
	assert.ErrorIs(t, err, domain.ErrForbidden, "rechazar es una decisión administrativa")

	rejected, err := h.transfers.Reject(h.ctx, adminActor, tr.ID, dto.ReasonRequest{Reason: "sin transporte"})
	require.NoError(t, err)
	assert.Equal(t, "sin transporte", rejected.RejectionReason)

	_, err = h.transfers.Ship(h.ctx, managerA, tr.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	other, err := requestTransfer(h, 1)
	require.NoError(t, err)
	cancelled, err := h.transfers.Cancel(h.ctx, managerB, other.ID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.TransferStatusCancelled), cancelled.Status)
	assert.Equal(t, 10, h.stock(t, productBean, branchA))
}

func TestStockTransfer_SucursalAjenaNoActua(t *testing.T) {
	h := newHarness(t)
	h.restock(t, productBean, branchA, 10)
	tr, err := requestTransfer(h, 1)
	require.NoError(t, err)

	_, err = h.transfers.Cancel(h.ctx, cashierOther, tr.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = h.transfers.Get(h.ctx, cashierOther, tr.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	list, err := h.transfers.List(h.ctx, managerB, repositoryFilter(""))
	require.NoError(t, err)
	assert.Len(t, list.Items, 1, "el destino ve el traslado")
}

func TestStockTransfer_CompletarDesdeEstadoInvalidoNoEscribe(t *testing.T) {
	h := newHarness(t)
	h.restock(t, productBean, branchA, 10)

	pending, err := requestTransfer(h, 3)
	require.NoError(t, err)
	rejected, err := requestTransfer(h, 2)
	require.NoError(t, err)
	_, err = h.transfers.Reject(h.ctx, adminActor, rejected.ID, dto.ReasonRequest{Reason: "sin transporte"})
	require.NoError(t, err)
	cancelled, err := requestTransfer(h, 1)
	require.NoError(t, err)
	_, err = h.transfers.Cancel(h.ctx, managerB, cancelled.ID)
	require.NoError(t, err)

	logsBefore := h.store.LogCount()
	cases := map[string]string{
		string(entity.TransferStatusPending):   pending.ID,
		string(entity.TransferStatusRejected):  rejected.ID,
		string(entity.TransferStatusCancelled): cancelled.ID,
	}
	for status, id := range cases {
		_, err := h.transfers.Complete(h.ctx, managerB, id, dto.TransferQuantitiesRequest{})
		assert.ErrorIs(t, err, domain.ErrInvalidState, "estado %s", status)

		got, err := h.transfers.Get(h.ctx, adminActor, id)
		require.NoError(t, err)
		assert.Equal(t, status, got.Status)
	}

	assert.Equal(t, logsBefore, h.store.LogCount(), "sin asientos nuevos")
	assert.Equal(t, 10, h.stock(t, productBean, branchA))
	assert.Zero(t, h.stock(t, productBean, branchB))
}

func TestStockTransfer_OrigenSinElProductoSeRechaza(t *testing.T) {
	h := newHarness(t)
	h.restock(t, productMilk, branchA, 10)

	_, err := h.transfers.Create(h.ctx, managerB, dto.CreateStockTransferRequest{
		FromBranchID: branchB,
		ToBranchID:   branchA,
		Items:        []dto.StockTransferItemInput{{ProductID: productMilk, RequestedQuantity: 1}},
	})
	require.Error(t, err)
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "product_id", verr.Field)
	assert.Zero(t, h.store.TransferCount())
}
