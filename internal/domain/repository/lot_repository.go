package repository

import (
	"time"

	"github.com/hubbi/inventario-core/internal/domain/entity"
)

// LotRepository define el puerto de persistencia para lotes.
type LotRepository interface {
	Get(itemID, lotNumber string) (*entity.Lot, error)
	// GetExpiration devuelve la fecha de vencimiento del lote; nil si no existe o no vence.
	GetExpiration(itemID, lotNumber string) (*time.Time, error)
	Upsert(lot *entity.Lot) error
}
