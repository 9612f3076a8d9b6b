package repository

import (
	"github.com/shopspring/decimal"

	"github.com/hubbi/inventario-core/internal/domain/entity"
)

// ItemRepository define el puerto de persistencia para Item (DIP).
type ItemRepository interface {
	Create(item *entity.Item) error
	GetByID(id string) (*entity.Item, error)
	Update(item *entity.Item) error
	UpdateAverageCost(id string, cost decimal.Decimal) error
	ListByCompany(companyID string, limit, offset int) ([]*entity.Item, error)
}
