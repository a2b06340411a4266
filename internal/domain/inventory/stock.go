// Package inventory reglas puras del libro de inventario: signo de cada tipo de asiento,
// estado de stock y numeración de documentos.
package inventory

import (
	"fmt"
	"time"

	"github.com/jhoicas/Cafeteria-api/internal/domain"
	"github.com/jhoicas/Cafeteria-api/internal/domain/entity"
)

// StockStatus clasificación del stock frente al umbral del producto.
type StockStatus string

const (
	StatusInStock    StockStatus = "in_stock"
	StatusLowStock   StockStatus = "low_stock"
	StatusOutOfStock StockStatus = "out_of_stock"
)

// ClassifyStock: ≤0 agotado; ≤ umbral bajo; en otro caso disponible.
func ClassifyStock(current, threshold int) StockStatus {
	switch {
	case current <= 0:
		return StatusOutOfStock
	case current <= threshold:
		return StatusLowStock
	default:
		return StatusInStock
	}
}

// SignedQuantity aplica la convención de signo del libro.
// restock/transfer_in/return/in suman; waste/sale/transfer_out/out restan (qty debe ser > 0).
// adjustment conserva el signo calculado por quien escribe (≠ 0).
func SignedQuantity(ct entity.ChangeType, qty int) (int, error) {
	switch ct {
	case entity.ChangeRestock, entity.ChangeTransferIn, entity.ChangeReturn, entity.ChangeIn:
		if qty <= 0 {
			return 0, domain.NewValidationError("quantity", "debe ser mayor que cero")
		}
		return qty, nil
	case entity.ChangeWaste, entity.ChangeSale, entity.ChangeTransferOut, entity.ChangeOut:
		if qty <= 0 {
			return 0, domain.NewValidationError("quantity", "debe ser mayor que cero")
		}
		return -qty, nil
	case entity.ChangeAdjustment:
		if qty == 0 {
			return 0, domain.NewValidationError("quantity", "el ajuste no puede ser cero")
		}
		return qty, nil
	}
	return 0, domain.NewValidationError("change_type", fmt.Sprintf("tipo desconocido %q", ct))
}

// Prefijos de numeración de documentos.
const (
	PrefixPurchaseOrder   = "PO"
	PrefixStockTransfer   = "ST"
	PrefixStockAdjustment = "SA"
	PrefixInventoryCount  = "IC"
)

// DocumentNumber prefijo + YYYYMMDD + secuencia diaria de 4 dígitos (ej. PO202610150001).
func DocumentNumber(prefix string, day time.Time, seq int) string {
	return fmt.Sprintf("%s%s%04d", prefix, day.Format("20060102"), seq)
}

// DayStart inicio del día calendario de t en su zona horaria.
func DayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
