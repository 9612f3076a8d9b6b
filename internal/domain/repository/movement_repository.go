package repository

import (
	"time"

	"github.com/hubbi/inventario-core/internal/domain/entity"
)

// MovementRepository define el puerto de persistencia para el libro de movimientos.
type MovementRepository interface {
	Create(movement *entity.Movement) error
	GetByID(id string) (*entity.Movement, error)
	ListByWarehouse(warehouseID string, from, to *time.Time, limit, offset int) ([]*entity.Movement, error)
	ListByItem(itemID string, from, to *time.Time, limit, offset int) ([]*entity.Movement, error)
	ListPendingApproval(companyID string, limit, offset int) ([]*entity.Movement, error)
}
