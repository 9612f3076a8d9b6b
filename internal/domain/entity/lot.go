package entity

import "time"

// Lot representa un lote de un ítem con fecha de vencimiento (trazabilidad por lote).
type Lot struct {
	LotNumber string
	ItemID    string
	ExpiresAt *time.Time // nil = sin vencimiento
	CreatedAt time.Time
}
