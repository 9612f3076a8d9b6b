// Package xml serializa notas de remisión al formato XML de intercambio que
// consumen los integradores del host (transportadoras, ERPs externos).
package xml

import (
	"fmt"

	"github.com/beevik/etree"

	appremission "github.com/hubbi/inventario-core/internal/application/remission"
	"github.com/hubbi/inventario-core/internal/domain/entity"
)

var _ appremission.XMLExporter = (*RemissionExporter)(nil)

// RemissionExporter implementa remission.XMLExporter usando etree.
type RemissionExporter struct{}

// NewRemissionExporter construye el exportador.
func NewRemissionExporter() *RemissionExporter { return &RemissionExporter{} }

// ExportRemissionXML serializa la nota con indentación de 2 espacios.
func (e *RemissionExporter) ExportRemissionXML(note *entity.RemissionNote) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("RemissionNote")
	root.CreateAttr("number", note.Number)
	root.CreateAttr("id", note.ID)

	root.CreateElement("IssueDate").SetText(note.CreatedAt.Format("2006-01-02"))
	root.CreateElement("Warehouse").SetText(note.WarehouseID)
	root.CreateElement("Recipient").SetText(note.Recipient)
	if note.Notes != "" {
		root.CreateElement("Notes").SetText(note.Notes)
	}

	lines := root.CreateElement("Lines")
	for _, l := range note.Lines {
		line := lines.CreateElement("Line")
		line.CreateAttr("movement", l.MovementID)
		line.CreateElement("SKU").SetText(l.SKU)
		line.CreateElement("Description").SetText(l.ItemName)
		line.CreateElement("Quantity").SetText(l.Quantity.String())
		line.CreateElement("UnitCost").SetText(l.UnitCost.StringFixed(2))
		if l.LotNumber != "" {
			line.CreateElement("Lot").SetText(l.LotNumber)
		}
		if l.Serial != "" {
			line.CreateElement("Serial").SetText(l.Serial)
		}
	}
	root.CreateElement("TotalCost").SetText(note.TotalCost().StringFixed(2))

	doc.Indent(2)
	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("xml: serializar remisión: %w", err)
	}
	return out, nil
}
