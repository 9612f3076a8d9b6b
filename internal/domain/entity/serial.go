package entity

import "time"

// Estados del ciclo de vida de un serial.
const (
	SerialAvailable   = "AVAILABLE"   // en inventario, disponible
	SerialSold        = "SOLD"        // salió por venta
	SerialConsumed    = "CONSUMED"    // consumido/dado de baja
	SerialTransferred = "TRANSFERRED" // en tránsito entre bodegas
	SerialNotFound    = "NOT_FOUND"   // nunca registrado
)

// Serial representa una unidad serializada de un ítem y su estado actual.
type Serial struct {
	SerialNumber string
	ItemID       string
	WarehouseID  string
	Status       string
	UpdatedAt    time.Time
}
