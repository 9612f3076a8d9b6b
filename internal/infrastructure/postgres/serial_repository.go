package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/hubbi/inventario-core/internal/domain/entity"
	"github.com/hubbi/inventario-core/internal/domain/repository"
)

var _ repository.SerialRepository = (*SerialRepo)(nil)

// SerialRepo implementación de SerialRepository sobre PostgreSQL.
type SerialRepo struct {
	q Querier
}

// NewSerialRepository construye el adaptador de seriales.
func NewSerialRepository(q Querier) *SerialRepo {
	return &SerialRepo{q: q}
}

// GetStatus devuelve el estado del serial; NOT_FOUND si nunca se registró.
func (r *SerialRepo) GetStatus(itemID, serialNumber string) (string, error) {
	query := `SELECT status FROM serials WHERE item_id = $1 AND serial_number = $2`
	var status string
	err := r.q.QueryRow(context.Background(), query, itemID, serialNumber).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entity.SerialNotFound, nil
		}
		return "", fmt.Errorf("get serial status: %w", err)
	}
	return status, nil
}

// Upsert inserta o actualiza el estado y bodega del serial.
func (r *SerialRepo) Upsert(serial *entity.Serial) error {
	query := `
		INSERT INTO serials (serial_number, item_id, warehouse_id, status, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (item_id, serial_number)
		DO UPDATE SET warehouse_id = EXCLUDED.warehouse_id, status = EXCLUDED.status, updated_at = now()`
	_, err := r.q.Exec(context.Background(), query,
		serial.SerialNumber, serial.ItemID, serial.WarehouseID, serial.Status,
	)
	if err != nil {
		return fmt.Errorf("upsert serial: %w", err)
	}
	return nil
}
