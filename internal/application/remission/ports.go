package remission

import (
	"context"

	"github.com/hubbi/inventario-core/internal/domain/entity"
)

// PDFGenerator genera la representación gráfica imprimible de la nota de remisión.
type PDFGenerator interface {
	GenerateRemissionPDF(ctx context.Context, note *entity.RemissionNote) ([]byte, error)
}

// XMLExporter serializa la nota de remisión al formato XML de intercambio.
type XMLExporter interface {
	ExportRemissionXML(note *entity.RemissionNote) ([]byte, error)
}
