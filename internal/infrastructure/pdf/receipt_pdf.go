// Package pdf genera el ticket imprimible de una orden con Maroto v2.
//
// Layout de la página:
//
//	┌───────────────────────────────────────┐
//	│  HEADER: Café + N° de orden + fecha    │
//	│  Cajero / medio de pago / estado       │
//	│  ───────────────────────────────────   │
//	│  TABLA: Cant | Producto | P.Unit | Sub │
//	│  ───────────────────────────────────   │
//	│  TOTAL                                 │
//	│  QR con el ID de la orden              │
//	└───────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

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

	"github.com/jhoicas/cafeteria-pos/internal/application/order"
)

var _ order.ReceiptRenderer = (*MarotoReceiptRenderer)(nil)

var (
	colorPrimary = &props.Color{Red: 90, Green: 56, Blue: 37}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// MarotoReceiptRenderer implementa order.ReceiptRenderer.
type MarotoReceiptRenderer struct{}

// NewMarotoReceiptRenderer construye el generador.
func NewMarotoReceiptRenderer() *MarotoReceiptRenderer { return &MarotoReceiptRenderer{} }

// RenderReceipt genera el PDF y devuelve sus bytes.
func (g *MarotoReceiptRenderer) RenderReceipt(_ context.Context, r *order.Receipt) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A5).
		WithLeftMargin(8).WithRightMargin(8).
		WithTopMargin(8).WithBottomMargin(8).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Ticket "+r.OrderID, true).
		WithAuthor(r.Shop, true).
		Build()

	m := maroto.New(cfg)
	m.AddRows(headerRow(r))
	m.AddRows(infoRow(r))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.4}))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableRows(r.Lines)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalRow(r))
	m.AddRows(line.NewRow(3))
	m.AddRows(row.New(40).Add(
		col.New(4),
		col.New(4).Add(code.NewQr(r.OrderID, props.Rect{Percent: 95, Center: true})),
		col.New(4),
	))
	m.AddRows(row.New(8).Add(col.New(12).Add(
		text.New("¡Gracias por su visita!", props.Text{
			Style: fontstyle.Italic, Size: 8, Align: align.Center, Color: colorGray, Top: 2,
		}),
	)))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar ticket: %w", err)
	}
	return doc.GetBytes(), nil
}

func headerRow(r *order.Receipt) core.Row {
	return row.New(16).Add(
		col.New(7).Add(
			text.New(r.Shop, props.Text{Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1}),
		),
		col.New(5).Add(
			text.New("ORDEN "+shortID(r.OrderID), props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 1,
			}),
			text.New(r.CreatedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 7, Color: colorGray,
			}),
		),
	)
}

func infoRow(r *order.Receipt) core.Row {
	return row.New(8).Add(col.New(12).Add(
		text.New(fmt.Sprintf("Cajero: %s   |   Pago: %s   |   Estado: %s", r.Cashier, r.PaymentMethod, r.Status),
			props.Text{Size: 8, Top: 1, Color: colorGray}),
	))
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 1,
		}))
	}
	return row.New(7).Add(
		h("Cant.", 2, align.Center),
		h("Producto", 5, align.Left),
		h("P.Unit", 2, align.Right),
		h("Subtotal", 3, align.Right),
	)
}

func tableRows(lines []order.ReceiptLine) []core.Row {
	out := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		out = append(out, row.New(6).Add(
			col.New(2).Add(text.New(fmt.Sprintf("%d", l.Quantity), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(5).Add(text.New(l.ProductName, props.Text{Size: 8, Align: align.Left, Top: 1})),
			col.New(2).Add(text.New(formatMoney(l.UnitPrice.StringFixed(2)), props.Text{Size: 8, Align: align.Right, Top: 1})),
			col.New(3).Add(text.New(formatMoney(l.Subtotal.StringFixed(2)), props.Text{Size: 8, Align: align.Right, Top: 1})),
		))
	}
	return out
}

func totalRow(r *order.Receipt) core.Row {
	return row.New(10).Add(
		col.New(6),
		col.New(3).Add(text.New("TOTAL:", props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 2,
		})),
		col.New(3).Add(text.New(formatMoney(r.Total.StringFixed(2)), props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 2,
		})),
	)
}

// shortID primeros 8 caracteres del ID, suficientes para el mostrador.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// formatMoney inserta separadores de miles en la parte entera de "1234.50".
// Ej: "25000.00" → "25,000.00"
func formatMoney(s string) string {
	intPart, frac := s, ""
	for i := 0; i < len(s); i++ {
		if s[i] == '.' {
			intPart, frac = s[:i], s[i:]
			break
		}
	}
	sign := ""
	if len(intPart) > 0 && intPart[0] == '-' {
		sign, intPart = "-", intPart[1:]
	}
	n := len(intPart)
	if n <= 3 {
		return sign + intPart + frac
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, ',')
		}
		buf = append(buf, c)
	}
	return sign + string(buf) + frac
}
