package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Stock representa la existencia actual de un ítem en una bodega (tabla materializada).
type Stock struct {
	ItemID      string
	WarehouseID string
	OnHand      decimal.Decimal
	Reserved    decimal.Decimal
	UpdatedAt   time.Time
}

// Available devuelve la cantidad disponible (a la mano menos reservada).
func (s Stock) Available() decimal.Decimal {
	return s.OnHand.Sub(s.Reserved)
}
