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

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación de MovementRepository sobre PostgreSQL.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador del libro de movimientos.
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

const movementColumns = `id, transaction_id, company_id, item_id, warehouse_id, type, quantity,
	unit_cost, total_cost, serial_number, lot_number, document_ref, reason, approval_status,
	date, created_at, created_by`

func scanMovement(row pgx.Row) (*entity.Movement, error) {
	var m entity.Movement
	err := row.Scan(
		&m.ID, &m.TransactionID, &m.CompanyID, &m.ItemID, &m.WarehouseID, &m.Type, &m.Quantity,
		&m.UnitCost, &m.TotalCost, &m.SerialNumber, &m.LotNumber, &m.DocumentRef, &m.Reason, &m.ApprovalStatus,
		&m.Date, &m.CreatedAt, &m.CreatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Create inserta el registro del movimiento en el libro.
func (r *MovementRepo) Create(movement *entity.Movement) error {
	query := `
		INSERT INTO movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, now(), $16)`
	_, err := r.q.Exec(context.Background(), query,
		movement.ID, movement.TransactionID, movement.CompanyID, movement.ItemID, movement.WarehouseID,
		movement.Type, movement.Quantity, movement.UnitCost, movement.TotalCost, movement.SerialNumber,
		movement.LotNumber, movement.DocumentRef, movement.Reason, movement.ApprovalStatus,
		movement.Date, movement.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("create movement: %w", err)
	}
	return nil
}

// GetByID devuelve el movimiento o nil si no existe.
func (r *MovementRepo) GetByID(id string) (*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM movements WHERE id = $1`
	m, err := scanMovement(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return m, nil
}

// ListByWarehouse lista movimientos de una bodega, con filtro opcional de fechas.
func (r *MovementRepo) ListByWarehouse(warehouseID string, from, to *time.Time, limit, offset int) ([]*entity.Movement, error) {
	query := `
		SELECT ` + movementColumns + ` FROM movements
		WHERE warehouse_id = $1
		  AND ($2::timestamptz IS NULL OR date >= $2)
		  AND ($3::timestamptz IS NULL OR date <= $3)
		ORDER BY date DESC LIMIT $4 OFFSET $5`
	return r.list(query, warehouseID, from, to, limit, offset)
}

// ListByItem lista movimientos de un ítem, con filtro opcional de fechas.
func (r *MovementRepo) ListByItem(itemID string, from, to *time.Time, limit, offset int) ([]*entity.Movement, error) {
	query := `
		SELECT ` + movementColumns + ` FROM movements
		WHERE item_id = $1
		  AND ($2::timestamptz IS NULL OR date >= $2)
		  AND ($3::timestamptz IS NULL OR date <= $3)
		ORDER BY date DESC LIMIT $4 OFFSET $5`
	return r.list(query, itemID, from, to, limit, offset)
}

// ListPendingApproval lista movimientos en espera de aprobación de la empresa.
func (r *MovementRepo) ListPendingApproval(companyID string, limit, offset int) ([]*entity.Movement, error) {
	query := `
		SELECT ` + movementColumns + ` FROM movements
		WHERE company_id = $1 AND approval_status = $2
		ORDER BY date ASC LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(context.Background(), query, companyID, entity.ApprovalPending, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list pending movements: %w", err)
	}
	return collectMovements(rows)
}

func (r *MovementRepo) list(query, id string, from, to *time.Time, limit, offset int) ([]*entity.Movement, error) {
	rows, err := r.q.Query(context.Background(), query, id, from, to, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	return collectMovements(rows)
}

func collectMovements(rows pgx.Rows) ([]*entity.Movement, error) {
	defer rows.Close()
	var out []*entity.Movement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
