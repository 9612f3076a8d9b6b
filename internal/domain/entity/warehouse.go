package entity

import "time"

// Warehouse representa una bodega o sucursal donde se almacena inventario (multi-bodega).
// IsLocked marca bodegas bloqueadas temporalmente (ej. en auditoría/conteo físico).
type Warehouse struct {
	ID        string
	CompanyID string
	Name      string
	Address   string
	IsActive  bool
	IsLocked  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
