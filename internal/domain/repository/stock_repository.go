package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/hubbi/inventario-core/internal/domain/entity"
)

// LowStockRow fila de alerta de stock bajo (ítem en o bajo su punto de reorden).
type LowStockRow struct {
	ItemID       string
	SKU          string
	ItemName     string
	WarehouseID  string
	OnHand       decimal.Decimal
	ReorderPoint decimal.Decimal
	AverageCost  decimal.Decimal
}

// StockRepository define el puerto de persistencia para existencias por bodega.
type StockRepository interface {
	Get(itemID, warehouseID string) (*entity.Stock, error)
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE); usar solo dentro de una tx.
	GetForUpdate(itemID, warehouseID string) (*entity.Stock, error)
	Upsert(stock *entity.Stock) error
	ListLowStock(ctx context.Context, companyID, warehouseID string) ([]LowStockRow, error)
}
