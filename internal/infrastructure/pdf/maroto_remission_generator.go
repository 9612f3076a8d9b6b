// Package pdf implementa la representación gráfica imprimible de la nota de
// remisión (documento que ampara entregas y traslados de mercancía).
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Nota de Remisión + Número │ Fecha                  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  DESTINATARIO: nombre / bodega destino                      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Cant | SKU | Descripción | Lote/Serial | Costo      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTAL COSTO + Observaciones                                │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

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

	appremission "github.com/hubbi/inventario-core/internal/application/remission"
	"github.com/hubbi/inventario-core/internal/domain/entity"
)

var _ appremission.PDFGenerator = (*MarotoRemissionGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoRemissionGenerator implementa remission.PDFGenerator usando Maroto v2.
type MarotoRemissionGenerator struct{}

// NewMarotoRemissionGenerator construye el generador.
func NewMarotoRemissionGenerator() *MarotoRemissionGenerator { return &MarotoRemissionGenerator{} }

// GenerateRemissionPDF genera el PDF y devuelve sus bytes.
func (g *MarotoRemissionGenerator) GenerateRemissionPDF(_ context.Context, note *entity.RemissionNote) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Nota de Remisión "+note.Number, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(note))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(recipientRow(note))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableLineRows(note.Lines) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalRow(note))
	if note.Notes != "" {
		m.AddRows(notesRow(note.Notes))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: título + número (izq) y fecha (der).
func headerRow(note *entity.RemissionNote) core.Row {
	return row.New(14).Add(
		col.New(8).Add(
			text.New("NOTA DE REMISIÓN", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(note.Number, props.Text{Size: 10, Top: 8, Color: colorGray}),
		),
		col.New(4).Add(
			text.New("Fecha: "+note.CreatedAt.Format("02/01/2006"), props.Text{
				Size: 9, Top: 2, Align: align.Right,
			}),
			text.New("Bodega: "+note.WarehouseID, props.Text{
				Size: 8, Top: 8, Align: align.Right, Color: colorGray,
			}),
		),
	)
}

// recipientRow: destinatario de la mercancía.
func recipientRow(note *entity.RemissionNote) core.Row {
	return row.New(8).Add(
		col.New(12).Add(
			text.New("Entregar a: "+note.Recipient, props.Text{Size: 9, Top: 2}),
		),
	)
}

func tableHeaderRow() core.Row {
	header := props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}
	return row.New(7).Add(
		col.New(1).Add(text.New("Cant", header)),
		col.New(2).Add(text.New("SKU", header)),
		col.New(5).Add(text.New("Descripción", header)),
		col.New(2).Add(text.New("Lote/Serial", header)),
		col.New(2).Add(text.New("Costo", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1, Align: align.Right})),
	)
}

func tableLineRows(lines []entity.RemissionLine) []core.Row {
	rows := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		trace := l.LotNumber
		if l.Serial != "" {
			trace = l.Serial
		}
		rows = append(rows, row.New(6).Add(
			col.New(1).Add(text.New(l.Quantity.String(), props.Text{Size: 8, Top: 1})),
			col.New(2).Add(text.New(l.SKU, props.Text{Size: 8, Top: 1})),
			col.New(5).Add(text.New(l.ItemName, props.Text{Size: 8, Top: 1})),
			col.New(2).Add(text.New(trace, props.Text{Size: 8, Top: 1, Color: colorGray})),
			col.New(2).Add(text.New(l.Quantity.Mul(l.UnitCost).StringFixed(2), props.Text{Size: 8, Top: 1, Align: align.Right})),
		))
	}
	return rows
}

func totalRow(note *entity.RemissionNote) core.Row {
	return row.New(8).Add(
		col.New(10).Add(text.New("TOTAL COSTO", props.Text{
			Style: fontstyle.Bold, Size: 9, Top: 2, Align: align.Right,
		})),
		col.New(2).Add(text.New(note.TotalCost().StringFixed(2), props.Text{
			Style: fontstyle.Bold, Size: 9, Top: 2, Align: align.Right,
		})),
	)
}

func notesRow(notes string) core.Row {
	return row.New(10).Add(
		col.New(12).Add(
			text.New("Observaciones: "+notes, props.Text{Size: 8, Top: 3, Color: colorGray}),
		),
	)
}
