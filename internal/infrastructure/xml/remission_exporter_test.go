package xml_test

import (
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hubbi/inventario-core/internal/domain/entity"
	infraxml "github.com/hubbi/inventario-core/internal/infrastructure/xml"
)

func sampleNote() *entity.RemissionNote {
	return &entity.RemissionNote{
		ID:          "rem-1",
		CompanyID:   "co-1",
		Number:      "REM-000042",
		WarehouseID: "wh-1",
		Recipient:   "Taller El Progreso",
		Notes:       "entrega parcial",
		CreatedAt:   time.Date(2026, 8, 15, 10, 0, 0, 0, time.UTC),
		Lines: []entity.RemissionLine{
			{
				MovementID: "mov-1",
				ItemID:     "item-1",
				SKU:        "SKU-001",
				ItemName:   "Filtro de aceite",
				Quantity:   decimal.NewFromInt(4),
				UnitCost:   decimal.NewFromFloat(12.5),
				LotNumber:  "LOTE-7",
			},
			{
				MovementID: "mov-2",
				ItemID:     "item-2",
				SKU:        "SKU-002",
				ItemName:   "Batería 12V",
				Quantity:   decimal.NewFromInt(1),
				UnitCost:   decimal.NewFromInt(80),
				Serial:     "SN-900",
			},
		},
	}
}

// El XML exportado debe poder re-parsearse y conservar número, líneas y total.
func TestExportRemissionXML_EstructuraYTotal(t *testing.T) {
	exporter := infraxml.NewRemissionExporter()

	out, err := exporter.ExportRemissionXML(sampleNote())
	require.NoError(t, err)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(out), "el XML exportado debe ser parseable")

	root := doc.SelectElement("RemissionNote")
	require.NotNil(t, root)
	assert.Equal(t, "REM-000042", root.SelectAttrValue("number", ""))
	assert.Equal(t, "2026-08-15", root.SelectElement("IssueDate").Text())
	assert.Equal(t, "Taller El Progreso", root.SelectElement("Recipient").Text())

	lines := root.SelectElement("Lines").SelectElements("Line")
	require.Len(t, lines, 2)
	assert.Equal(t, "SKU-001", lines[0].SelectElement("SKU").Text())
	assert.Equal(t, "LOTE-7", lines[0].SelectElement("Lot").Text())
	assert.Nil(t, lines[0].SelectElement("Serial"), "línea sin serial no lleva el elemento")
	assert.Equal(t, "SN-900", lines[1].SelectElement("Serial").Text())

	// 4 × 12.50 + 1 × 80.00 = 130.00
	assert.Equal(t, "130.00", root.SelectElement("TotalCost").Text())
}

// Sin observaciones, el elemento Notes se omite.
func TestExportRemissionXML_NotasOpcionales(t *testing.T) {
	exporter := infraxml.NewRemissionExporter()

	note := sampleNote()
	note.Notes = ""
	out, err := exporter.ExportRemissionXML(note)
	require.NoError(t, err)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(out))
	assert.Nil(t, doc.SelectElement("RemissionNote").SelectElement("Notes"))
}
