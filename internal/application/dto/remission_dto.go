package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateRemissionRequest body para crear una nota de remisión sobre
// movimientos ya confirmados.
type CreateRemissionRequest struct {
	WarehouseID string   `json:"warehouse_id"`
	Recipient   string   `json:"recipient"`
	Notes       string   `json:"notes,omitempty"`
	MovementIDs []string `json:"movement_ids"`
}

// RemissionLineDTO línea de la nota.
type RemissionLineDTO struct {
	MovementID string          `json:"movement_id"`
	ItemID     string          `json:"item_id"`
	SKU        string          `json:"sku"`
	ItemName   string          `json:"item_name"`
	Quantity   decimal.Decimal `json:"quantity"`
	UnitCost   decimal.Decimal `json:"unit_cost"`
	LotNumber  string          `json:"lot_number,omitempty"`
	Serial     string          `json:"serial,omitempty"`
}

// RemissionResponse nota de remisión creada.
type RemissionResponse struct {
	ID          string             `json:"id"`
	Number      string             `json:"number"`
	WarehouseID string             `json:"warehouse_id"`
	Recipient   string             `json:"recipient"`
	Notes       string             `json:"notes,omitempty"`
	Lines       []RemissionLineDTO `json:"lines"`
	TotalCost   decimal.Decimal    `json:"total_cost"`
	CreatedAt   time.Time          `json:"created_at"`
}
