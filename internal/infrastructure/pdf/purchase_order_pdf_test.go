package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Cafeteria-api/internal/application/inventory"
	"github.com/jhoicas/Cafeteria-api/internal/domain/entity"
)

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "0,00", formatMoney(decimal.Zero))
	assert.Equal(t, "25.000,00", formatMoney(decimal.NewFromInt(25000)))
	assert.Equal(t, "1.234.567,50", formatMoney(decimal.RequireFromString("1234567.5")))
	assert.Equal(t, "-999,99", formatMoney(decimal.RequireFromString("-999.99")))
}

func TestGeneratePurchaseOrderPDF(t *testing.T) {
	order := &entity.PurchaseOrder{
		OrderNumber: "PO202610150001",
		Status:      entity.POStatusApproved,
		OrderDate:   time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC),
		TotalAmount: decimal.RequireFromString("500.00"),
		Items: []entity.PurchaseOrderItem{
			{ProductID: "p-1", Quantity: 50, UnitPrice: decimal.NewFromInt(10), TotalPrice: decimal.NewFromInt(500)},
		},
	}
	doc := inventory.PurchaseOrderDocument{
		Order:        order,
		Branch:       &entity.Branch{Name: "Centro", Location: "Calle 10"},
		Supplier:     &entity.Supplier{Name: "Tostadores del Sur"},
		ProductNames: map[string]string{"p-1": "Café en grano"},
	}
	out, err := NewMarotoPDFGenerator().GeneratePurchaseOrderPDF(context.Background(), doc)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))

	_, err = NewMarotoPDFGenerator().GeneratePurchaseOrderPDF(context.Background(), inventory.PurchaseOrderDocument{Order: order})
	assert.Error(t, err)
}
