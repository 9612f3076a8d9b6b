package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/hubbi/inventario-core/internal/domain/entity"
	"github.com/hubbi/inventario-core/internal/domain/repository"
)

var _ repository.LotRepository = (*LotRepo)(nil)

// LotRepo implementación de LotRepository sobre PostgreSQL.
type LotRepo struct {
	q Querier
}

// NewLotRepository construye el adaptador de lotes.
func NewLotRepository(q Querier) *LotRepo {
	return &LotRepo{q: q}
}

// Get devuelve el lote o nil si no existe.
func (r *LotRepo) Get(itemID, lotNumber string) (*entity.Lot, error) {
	query := `SELECT lot_number, item_id, expires_at, created_at FROM lots WHERE item_id = $1 AND lot_number = $2`
	var l entity.Lot
	err := r.q.QueryRow(context.Background(), query, itemID, lotNumber).Scan(
		&l.LotNumber, &l.ItemID, &l.ExpiresAt, &l.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get lot: %w", err)
	}
	return &l, nil
}

// GetExpiration devuelve la fecha de vencimiento del lote; nil si no existe o no vence.
func (r *LotRepo) GetExpiration(itemID, lotNumber string) (*time.Time, error) {
	lot, err := r.Get(itemID, lotNumber)
	if err != nil || lot == nil {
		return nil, err
	}
	return lot.ExpiresAt, nil
}

// Upsert inserta o actualiza el lote.
func (r *LotRepo) Upsert(lot *entity.Lot) error {
	query := `
		INSERT INTO lots (lot_number, item_id, expires_at, created_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (item_id, lot_number)
		DO UPDATE SET expires_at = EXCLUDED.expires_at`
	_, err := r.q.Exec(context.Background(), query, lot.LotNumber, lot.ItemID, lot.ExpiresAt)
	if err != nil {
		return fmt.Errorf("upsert lot: %w", err)
	}
	return nil
}
