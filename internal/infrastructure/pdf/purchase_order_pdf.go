// Package pdf genera la representación impresa de una orden de compra para enviar al proveedor.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Sucursal + ubicación │  N° Orden + Fecha + Estado   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  PROVEEDOR: Nombre + contacto                                │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Cant | Producto | P.Unit | Recibido | Total          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTAL + QR con el número de orden                           │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Cafeteria-api/internal/application/inventory"
	"github.com/jhoicas/Cafeteria-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 94, Green: 58, Blue: 36}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

var statusLabels = map[entity.PurchaseOrderStatus]string{
	entity.POStatusDraft:           "BORRADOR",
	entity.POStatusPendingApproval: "PENDIENTE DE APROBACIÓN",
	entity.POStatusApproved:        "APROBADA",
	entity.POStatusOrdered:         "PEDIDA",
	entity.POStatusDelivered:       "ENTREGADA",
	entity.POStatusCancelled:       "CANCELADA",
}

// ── Generator ─────────────────────────────────────────────────────────────────

var _ inventory.PurchaseOrderPDFGenerator = (*MarotoPDFGenerator)(nil)

// MarotoPDFGenerator implementa inventory.PurchaseOrderPDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// GeneratePurchaseOrderPDF genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GeneratePurchaseOrderPDF(_ context.Context, doc inventory.PurchaseOrderDocument) ([]byte, error) {
	if doc.Order == nil || doc.Branch == nil || doc.Supplier == nil {
		return nil, fmt.Errorf("pdf: documento incompleto")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Orden de compra "+doc.Order.OrderNumber, true).
		WithAuthor(doc.Branch.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(doc.Order, doc.Branch))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(supplierRow(doc.Supplier))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(itemRows(doc.Order.Items, doc.ProductNames)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalRow(doc.Order))
	if doc.Order.Notes != "" {
		m.AddRows(row.New(12).Add(col.New(12).Add(
			text.New("Notas: "+doc.Order.Notes, props.Text{Size: 8, Top: 2, Color: colorGray}),
		)))
	}

	document, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return document.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(o *entity.PurchaseOrder, b *entity.Branch) core.Row {
	expected := "-"
	if o.ExpectedDeliveryDate != nil {
		expected = o.ExpectedDeliveryDate.Format("02/01/2006")
	}
	return row.New(24).Add(
		col.New(7).Add(
			text.New(b.Name, props.Text{Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1}),
			text.New(nonEmpty(b.Location, "-"), props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
		col.New(5).Add(
			text.New("ORDEN DE COMPRA", props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1}),
			text.New(o.OrderNumber, props.Text{Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 6}),
			text.New("Fecha: "+o.OrderDate.Format("02/01/2006")+"   Entrega: "+expected,
				props.Text{Size: 8, Align: align.Right, Top: 13, Color: colorGray}),
			text.New(statusLabel(o.Status), props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right, Top: 18}),
		),
	)
}

func supplierRow(s *entity.Supplier) core.Row {
	return row.New(16).Add(
		col.New(12).Add(
			text.New("PROVEEDOR", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(s.Name, props.Text{Style: fontstyle.Bold, Size: 10, Top: 6}),
			text.New(fmt.Sprintf("Contacto: %s   |   Tel: %s   |   Email: %s",
				nonEmpty(s.ContactPerson, "-"),
				nonEmpty(s.Phone, "-"),
				nonEmpty(s.Email, "-"),
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Cant.", 1, align.Center),
		h("Producto", 5, align.Left),
		h("Precio Unit.", 2, align.Right),
		h("Recibido", 1, align.Center),
		h("Total", 3, align.Right),
	)
}

func itemRows(items []entity.PurchaseOrderItem, names map[string]string) []core.Row {
	out := make([]core.Row, 0, len(items))
	for _, it := range items {
		name := names[it.ProductID]
		if name == "" {
			name = it.ProductID
		}
		out = append(out, row.New(7).Add(
			col.New(1).Add(text.New(strconv.Itoa(it.Quantity), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(5).Add(text.New(name, props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
			col.New(2).Add(text.New("$"+formatMoney(it.UnitPrice), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(1).Add(text.New(strconv.Itoa(it.ReceivedQuantity), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(3).Add(text.New("$"+formatMoney(it.TotalPrice), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return out
}

// totalRow total de la orden y QR con el número para recepción en bodega.
func totalRow(o *entity.PurchaseOrder) core.Row {
	return row.New(30).Add(
		col.New(3).Add(code.NewQr(o.OrderNumber, props.Rect{Percent: 90, Center: true})),
		col.New(3),
		col.New(3).Add(text.New("TOTAL:", props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 2, Top: 4,
		})),
		col.New(3).Add(text.New("$"+formatMoney(o.TotalAmount), props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 1, Top: 4,
		})),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func statusLabel(s entity.PurchaseOrderStatus) string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return strings.ToUpper(string(s))
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatMoney formatea con puntos de miles y coma decimal.
// Ej: 25000 → "25.000,00", 1234567.5 → "1.234.567,50"
func formatMoney(d decimal.Decimal) string {
	s := d.Abs().StringFixed(2)
	intPart, frac, _ := strings.Cut(s, ".")
	n := len(intPart)
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	out := string(buf) + "," + frac
	if d.IsNegative() {
		return "-" + out
	}
	return out
}
