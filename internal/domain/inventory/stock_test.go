package inventory_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Cafeteria-api/internal/domain"
	"github.com/jhoicas/Cafeteria-api/internal/domain/entity"
	"github.com/jhoicas/Cafeteria-api/internal/domain/inventory"
)

func TestClassifyStock(t *testing.T) {
	cases := []struct {
		current, threshold int
		want               inventory.StockStatus
	}{
		{-2, 5, inventory.StatusOutOfStock},
		{0, 5, inventory.StatusOutOfStock},
		{5, 5, inventory.StatusLowStock},
		{3, 5, inventory.StatusLowStock},
		{6, 5, inventory.StatusInStock},
		{1, 0, inventory.StatusInStock},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, inventory.ClassifyStock(tc.current, tc.threshold), "current=%d threshold=%d", tc.current, tc.threshold)
	}
}

func TestSignedQuantity_ConvencionDeSigno(t *testing.T) {
	positives := []entity.ChangeType{entity.ChangeRestock, entity.ChangeTransferIn, entity.ChangeReturn, entity.ChangeIn}
	for _, ct := range positives {
		q, err := inventory.SignedQuantity(ct, 7)
		require.NoError(t, err)
		assert.Equal(t, 7, q, string(ct))
	}
	negatives := []entity.ChangeType{entity.ChangeWaste, entity.ChangeSale, entity.ChangeTransferOut, entity.ChangeOut}
	for _, ct := range negatives {
		q, err := inventory.SignedQuantity(ct, 7)
		require.NoError(t, err)
		assert.Equal(t, -7, q, string(ct))
	}

	q, err := inventory.SignedQuantity(entity.ChangeAdjustment, -3)
	require.NoError(t, err)
	assert.Equal(t, -3, q, "el ajuste conserva el signo del escritor")
}

func TestSignedQuantity_Invalidos(t *testing.T) {
	_, err := inventory.SignedQuantity(entity.ChangeSale, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = inventory.SignedQuantity(entity.ChangeRestock, -1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = inventory.SignedQuantity(entity.ChangeAdjustment, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = inventory.SignedQuantity(entity.ChangeType("robo"), 1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDocumentNumber(t *testing.T) {
	day := time.Date(2026, 10, 15, 13, 0, 0, 0, time.UTC)
	assert.Equal(t, "PO202610150001", inventory.DocumentNumber(inventory.PrefixPurchaseOrder, day, 1))
	assert.Equal(t, "SA202610150123", inventory.DocumentNumber(inventory.PrefixStockAdjustment, day, 123))
	assert.Equal(t, time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC), inventory.DayStart(day))
}
