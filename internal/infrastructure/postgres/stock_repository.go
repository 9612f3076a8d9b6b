package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/hubbi/inventario-core/internal/domain/entity"
	"github.com/hubbi/inventario-core/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// Get obtiene la existencia actual de un ítem en una bodega. Sin fila = stock cero.
func (r *StockRepo) Get(itemID, warehouseID string) (*entity.Stock, error) {
	query := `
		SELECT item_id, warehouse_id, on_hand, reserved, updated_at
		FROM stock WHERE item_id = $1 AND warehouse_id = $2`
	var s entity.Stock
	err := r.q.QueryRow(context.Background(), query, itemID, warehouseID).Scan(
		&s.ItemID, &s.WarehouseID, &s.OnHand, &s.Reserved, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.Stock{ItemID: itemID, WarehouseID: warehouseID, OnHand: decimal.Zero, Reserved: decimal.Zero}, nil
		}
		return nil, fmt.Errorf("get stock: %w", err)
	}
	return &s, nil
}

// GetForUpdate obtiene la existencia y bloquea la fila (SELECT FOR UPDATE).
func (r *StockRepo) GetForUpdate(itemID, warehouseID string) (*entity.Stock, error) {
	query := `
		SELECT item_id, warehouse_id, on_hand, reserved, updated_at
		FROM stock WHERE item_id = $1 AND warehouse_id = $2
		FOR UPDATE`
	var s entity.Stock
	err := r.q.QueryRow(context.Background(), query, itemID, warehouseID).Scan(
		&s.ItemID, &s.WarehouseID, &s.OnHand, &s.Reserved, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.Stock{ItemID: itemID, WarehouseID: warehouseID, OnHand: decimal.Zero, Reserved: decimal.Zero}, nil
		}
		return nil, fmt.Errorf("get stock for update: %w", err)
	}
	return &s, nil
}

// Upsert inserta o actualiza la existencia (por ítem y bodega).
func (r *StockRepo) Upsert(stock *entity.Stock) error {
	query := `
		INSERT INTO stock (item_id, warehouse_id, on_hand, reserved, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (item_id, warehouse_id)
		DO UPDATE SET on_hand = EXCLUDED.on_hand, reserved = EXCLUDED.reserved, updated_at = now()`
	_, err := r.q.Exec(context.Background(), query, stock.ItemID, stock.WarehouseID, stock.OnHand, stock.Reserved)
	if err != nil {
		return fmt.Errorf("upsert stock: %w", err)
	}
	return nil
}

// ListLowStock devuelve los ítems en o bajo su punto de reorden. warehouseID
// vacío agrega la existencia de todas las bodegas de la empresa.
func (r *StockRepo) ListLowStock(ctx context.Context, companyID, warehouseID string) ([]repository.LowStockRow, error) {
	query := `
		SELECT i.id, i.sku, i.name, COALESCE($2, ''), SUM(s.on_hand), i.reorder_point, i.average_cost
		FROM items i
		JOIN stock s ON s.item_id = i.id
		WHERE i.company_id = $1
		  AND i.is_active AND NOT i.is_service
		  AND ($2 = '' OR s.warehouse_id = $2)
		GROUP BY i.id, i.sku, i.name, i.reorder_point, i.average_cost
		HAVING SUM(s.on_hand) <= i.reorder_point
		ORDER BY i.reorder_point - SUM(s.on_hand) DESC`
	rows, err := r.q.Query(ctx, query, companyID, warehouseID)
	if err != nil {
		return nil, fmt.Errorf("list low stock: %w", err)
	}
	defer rows.Close()

	var out []repository.LowStockRow
	for rows.Next() {
		var row repository.LowStockRow
		if err := rows.Scan(&row.ItemID, &row.SKU, &row.ItemName, &row.WarehouseID, &row.OnHand, &row.ReorderPoint, &row.AverageCost); err != nil {
			return nil, fmt.Errorf("scan low stock: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
