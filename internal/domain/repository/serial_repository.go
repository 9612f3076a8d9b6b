package repository

import "github.com/hubbi/inventario-core/internal/domain/entity"

// SerialRepository define el puerto de persistencia para seriales.
type SerialRepository interface {
	// GetStatus devuelve el estado del serial; entity.SerialNotFound si nunca se registró.
	GetStatus(itemID, serialNumber string) (string, error)
	Upsert(serial *entity.Serial) error
}
