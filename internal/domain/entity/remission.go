package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// RemissionNote es una nota de remisión: documento que ampara la entrega o
// traslado de mercancía ya movida en inventario (no es factura).
type RemissionNote struct {
	ID          string
	CompanyID   string
	Number      string // consecutivo legible, ej. REM-000123
	WarehouseID string
	Recipient   string // cliente o bodega destino
	Notes       string
	Lines       []RemissionLine
	CreatedAt   time.Time
	CreatedBy   string
}

// RemissionLine asocia un movimiento confirmado a la nota de remisión.
type RemissionLine struct {
	MovementID string
	ItemID     string
	SKU        string
	ItemName   string
	Quantity   decimal.Decimal
	UnitCost   decimal.Decimal
	LotNumber  string
	Serial     string
}

// TotalCost suma el costo de todas las líneas de la nota.
func (n RemissionNote) TotalCost() decimal.Decimal {
	total := decimal.Zero
	for _, l := range n.Lines {
		total = total.Add(l.Quantity.Mul(l.UnitCost))
	}
	return total
}
