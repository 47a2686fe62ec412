// Package pdf genera el reporte PDF del inventario con Maroto v2.
//
// Layout de la página A4:
//
//	┌──────────────────────────────────────────────┐
//	│  HEADER: Inventario de <nombre> │ Fecha       │
//	│  ──────────────────────────────────────────  │
//	│  TABLA: # | Ítem | Cantidad                  │
//	│  ──────────────────────────────────────────  │
//	│  TOTALES: ítems distintos / unidades         │
//	└──────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"

	maroto "github.com/johnfercher/maroto/v2"
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

	"github.com/jhoicas/inventory-tracker/internal/application/inventory"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

var _ inventory.PDFRenderer = (*MarotoReport)(nil)

// MarotoReport implementa inventory.PDFRenderer usando Maroto v2.
type MarotoReport struct{}

// NewMarotoReport construye el generador.
func NewMarotoReport() *MarotoReport { return &MarotoReport{} }

// RenderInventoryPDF genera el PDF y devuelve sus bytes.
func (g *MarotoReport) RenderInventoryPDF(_ context.Context, snap inventory.Snapshot) ([]byte, error) {
	owner := ownerName(snap)
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(15).WithRightMargin(15).
		WithTopMargin(12).WithBottomMargin(12).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 10}).
		WithTitle("Inventario", true).
		WithAuthor(owner, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(owner, snap))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(tableHeaderRow())
	m.AddRows(itemRows(snap)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(snap))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(owner string, snap inventory.Snapshot) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New("Inventario de "+owner, props.Text{
				Style: fontstyle.Bold, Size: 14, Color: colorPrimary, Top: 1,
			}),
		),
		col.New(4).Add(
			text.New("Fecha: "+snap.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 3, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: a, Color: colorPrimary, Top: 2,
		}))
	}
	return row.New(8).Add(
		h("#", 1, align.Center),
		h("Ítem", 8, align.Left),
		h("Cantidad", 3, align.Right),
	)
}

func itemRows(snap inventory.Snapshot) []core.Row {
	if len(snap.Items) == 0 {
		return []core.Row{row.New(10).Add(col.New(12).Add(
			text.New("Sin ítems", props.Text{Size: 9, Align: align.Center, Color: colorGray, Top: 2}),
		))}
	}
	rows := make([]core.Row, 0, len(snap.Items))
	for i, it := range snap.Items {
		rows = append(rows, row.New(7).Add(
			col.New(1).Add(text.New(strconv.Itoa(i+1), props.Text{Size: 9, Align: align.Center, Top: 1})),
			col.New(8).Add(text.New(inventory.Label(it.Name), props.Text{Size: 9, Top: 1})),
			col.New(3).Add(text.New(it.Quantity.String(), props.Text{Size: 9, Align: align.Right, Top: 1})),
		))
	}
	return rows
}

func totalsRow(snap inventory.Snapshot) core.Row {
	units := decimal.Zero
	for _, it := range snap.Items {
		units = units.Add(it.Quantity)
	}
	return row.New(14).Add(
		col.New(6),
		col.New(6).Add(
			text.New(fmt.Sprintf("Ítems distintos: %d", len(snap.Items)), props.Text{
				Size: 9, Align: align.Right, Top: 1,
			}),
			text.New("Unidades: "+units.String(), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 7,
			}),
		),
	)
}

func ownerName(snap inventory.Snapshot) string {
	if snap.Owner.DisplayName != "" {
		return snap.Owner.DisplayName
	}
	return snap.Owner.UID
}
