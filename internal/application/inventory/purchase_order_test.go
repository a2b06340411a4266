package inventory_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Cafeteria-api/internal/application/dto"
	"github.com/jhoicas/Cafeteria-api/internal/application/inventory"
	"github.com/jhoicas/Cafeteria-api/internal/domain"
	"github.com/jhoicas/Cafeteria-api/internal/domain/entity"
)

func newOrder(t *testing.T, h *harness, qty int, price string) *dto.PurchaseOrderResponse {
	t.Helper()
	resp, err := h.orders.Create(h.ctx, managerA, dto.CreatePurchaseOrderRequest{
		BranchID:   branchA,
		SupplierID: supplierID,
		Items: []dto.PurchaseOrderItemInput{
			{ProductID: productBean, Quantity: qty, UnitPrice: decimal.RequireFromString(price)},
		},
	})
	require.NoError(t, err)
	return resp
}

func TestPurchaseOrder_RecepcionCompletaGeneraRestock(t *testing.T) {
	h := newHarness(t)
	order := newOrder(t, h, 50, "10.00")
	assert.Equal(t, "PO202610150001", order.OrderNumber)
	assert.Equal(t, string(entity.POStatusDraft), order.Status)
	assert.True(t, decimal.RequireFromString("500.00").Equal(order.TotalAmount))

	_, err := h.orders.Submit(h.ctx, managerA, order.ID)
	require.NoError(t, err)
	approved, err := h.orders.Approve(h.ctx, adminActor, order.ID)
	require.NoError(t, err)
	require.NotNil(t, approved.ApprovedBy)
	assert.Equal(t, adminActor.ID, *approved.ApprovedBy)

	delivered, err := h.orders.Deliver(h.ctx, managerA, order.ID, dto.DeliverPurchaseOrderRequest{})
	require.NoError(t, err)

	assert.Equal(t, string(entity.POStatusDelivered), delivered.Status)
	require.NotNil(t, delivered.ActualDeliveryDate)
	assert.Equal(t, 50, delivered.Items[0].ReceivedQuantity)
	assert.Equal(t, 50, h.stock(t, productBean, branchA))
	assert.Equal(t, 50, h.store.Balance(productBean, branchA))
	assert.Empty(t, delivered.AllowedActions)

	logs := h.store.AllLogs()
	require.Len(t, logs, 1)
	assert.Equal(t, entity.ChangeRestock, logs[0].ChangeType)
	require.NotNil(t, logs[0].SupplierID)
	assert.Equal(t, supplierID, *logs[0].SupplierID)
	assert.Contains(t, logs[0].Notes, order.OrderNumber)
	assert.Contains(t, h.cache.invalidated, inventory.StockKey{ProductID: productBean, BranchID: branchA})
}

func TestPurchaseOrder_RecepcionParcial(t *testing.T) {
	h := newHarness(t)
	order := newOrder(t, h, 20, "3.50")
	_, err := h.orders.Submit(h.ctx, managerA, order.ID)
	require.NoError(t, err)
	_, err = h.orders.Approve(h.ctx, adminActor, order.ID)
	require.NoError(t, err)
	_, err = h.orders.MarkOrdered(h.ctx, managerA, order.ID)
	require.NoError(t, err)

	_, err = h.orders.Deliver(h.ctx, managerA, order.ID, dto.DeliverPurchaseOrderRequest{
		Items: []dto.ReceivedItemInput{{ItemID: order.Items[0].ID, ReceivedQuantity: 12}},
	})
	require.NoError(t, err)
	assert.Equal(t, 12, h.stock(t, productBean, branchA))
}

func TestPurchaseOrder_RecibidoMayorQueOrdenadoNoEscribe(t *testing.T) {
	h := newHarness(t)
	order := newOrder(t, h, 5, "1.00")
	_, err := h.orders.Submit(h.ctx, managerA, order.ID)
	require.NoError(t, err)
	_, err = h.orders.Approve(h.ctx, adminActor, order.ID)
	require.NoError(t, err)

	_, err = h.orders.Deliver(h.ctx, managerA, order.ID, dto.DeliverPurchaseOrderRequest{
		Items: []dto.ReceivedItemInput{{ItemID: order.Items[0].ID, ReceivedQuantity: 6}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Zero(t, h.store.LogCount())

	got, err := h.orders.Get(h.ctx, managerA, order.ID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.POStatusApproved), got.Status)
}

func TestPurchaseOrder_FalloEnActualizacionRevierteAsientos(t *testing.T) {
	h := newHarness(t)
	order := newOrder(t, h, 5, "1.00")
	_, err := h.orders.Submit(h.ctx, managerA, order.ID)
	require.NoError(t, err)
	_, err = h.orders.Approve(h.ctx, adminActor, order.ID)
	require.NoError(t, err)

	boom := errors.New("conexión perdida")
	h.store.FailOn = func(op string) error {
		if op == "orders.update" {
			return boom
		}
		return nil
	}
	_, err = h.orders.Deliver(h.ctx, managerA, order.ID, dto.DeliverPurchaseOrderRequest{})
	assert.ErrorIs(t, err, boom)
	assert.Zero(t, h.store.LogCount())
	assert.Zero(t, h.store.Balance(productBean, branchA))
}

func TestPurchaseOrder_SoloAdministradoresAprueban(t *testing.T) {
	h := newHarness(t)
	order := newOrder(t, h, 1, "1.00")
	_, err := h.orders.Submit(h.ctx, managerA, order.ID)
	require.NoError(t, err)

	_, err = h.orders.Approve(h.ctx, managerA, order.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestPurchaseOrder_TransicionIlegal(t *testing.T) {
	h := newHarness(t)
	order := newOrder(t, h, 1, "1.00")

	_, err := h.orders.Approve(h.ctx, adminActor, order.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState, "no se aprueba un borrador")

	_, err = h.orders.Deliver(h.ctx, managerA, order.ID, dto.DeliverPurchaseOrderRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	assert.Zero(t, h.store.LogCount())

	_, err = h.orders.Cancel(h.ctx, managerA, order.ID)
	require.NoError(t, err)
	_, err = h.orders.Update(h.ctx, managerA, order.ID, dto.UpdatePurchaseOrderRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidState, "una orden cancelada no se modifica")
}

func TestPurchaseOrder_ValidacionesDeCreacion(t *testing.T) {
	h := newHarness(t)
	cases := map[string]dto.CreatePurchaseOrderRequest{
		"sin ítems": {BranchID: branchA, SupplierID: supplierID},
		"producto inexistente": {BranchID: branchA, SupplierID: supplierID, Items: []dto.PurchaseOrderItemInput{
			{ProductID: "no-existe", Quantity: 1},
		}},
		"proveedor inexistente": {BranchID: branchA, SupplierID: "no-existe", Items: []dto.PurchaseOrderItemInput{
			{ProductID: productBean, Quantity: 1},
		}},
		"producto repetido": {BranchID: branchA, SupplierID: supplierID, Items: []dto.PurchaseOrderItemInput{
			{ProductID: productBean, Quantity: 1}, {ProductID: productBean, Quantity: 2},
		}},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := h.orders.Create(h.ctx, managerA, in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestPurchaseOrder_NumeracionDiariaConsecutiva(t *testing.T) {
	h := newHarness(t)
	first := newOrder(t, h, 1, "1.00")
	second := newOrder(t, h, 1, "1.00")
	assert.Equal(t, "PO202610150001", first.OrderNumber)
	assert.Equal(t, "PO202610150002", second.OrderNumber)
}

func TestPurchaseOrder_ActualizarRecalculaTotal(t *testing.T) {
	h := newHarness(t)
	order := newOrder(t, h, 2, "4.00")
	updated, err := h.orders.Update(h.ctx, managerA, order.ID, dto.UpdatePurchaseOrderRequest{
		Items: []dto.PurchaseOrderItemInput{
			{ProductID: productBean, Quantity: 3, UnitPrice: decimal.RequireFromString("4.00")},
			{ProductID: productMilk, Quantity: 10, UnitPrice: decimal.RequireFromString("1.25")},
		},
	})
	require.NoError(t, err)
	assert.Len(t, updated.Items, 2)
	assert.True(t, decimal.RequireFromString("24.50").Equal(updated.TotalAmount))
}

func TestPurchaseOrder_OtraSucursalNoVe(t *testing.T) {
	h := newHarness(t)
	order := newOrder(t, h, 1, "1.00")
	_, err := h.orders.Get(h.ctx, managerB, order.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	list, err := h.orders.List(h.ctx, managerB, repositoryFilter(""))
	require.NoError(t, err)
	assert.Empty(t, list.Items)
}

func TestPurchaseOrder_ProductoDeOtraSucursalSeRechaza(t *testing.T) {
	h := newHarness(t)

	_, err := h.orders.Create(h.ctx, managerB, dto.CreatePurchaseOrderRequest{
		BranchID:   branchB,
		SupplierID: supplierID,
		Items: []dto.PurchaseOrderItemInput{
			{ProductID: productBean, Quantity: 5, UnitPrice: decimal.RequireFromString("10.00")},
		},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "product_id", verr.Field)

	list, err := h.orders.List(h.ctx, adminActor, repositoryFilter(""))
	require.NoError(t, err)
	assert.Empty(t, list.Items)

	order := newOrder(t, h, 5, "10.00")
	_, err = h.orders.Update(h.ctx, managerA, order.ID, dto.UpdatePurchaseOrderRequest{
		Items: []dto.PurchaseOrderItemInput{
			{ProductID: productMilk, Quantity: 2, UnitPrice: decimal.RequireFromString("1.20")},
		},
	})
	require.NoError(t, err, "los productos propios se pueden reemplazar")
}
