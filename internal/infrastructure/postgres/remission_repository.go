package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/hubbi/inventario-core/internal/domain/entity"
	"github.com/hubbi/inventario-core/internal/domain/repository"
)

var _ repository.RemissionRepository = (*RemissionRepo)(nil)

// RemissionRepo implementación de RemissionRepository sobre PostgreSQL.
// Cabecera en remission_notes, líneas en remission_lines.
type RemissionRepo struct {
	q Querier
}

// NewRemissionRepository construye el adaptador de notas de remisión.
func NewRemissionRepository(q Querier) *RemissionRepo {
	return &RemissionRepo{q: q}
}

// Create inserta la cabecera y sus líneas.
func (r *RemissionRepo) Create(note *entity.RemissionNote) error {
	ctx := context.Background()
	head := `
		INSERT INTO remission_notes (id, company_id, number, warehouse_id, recipient, notes, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, now(), $7)`
	if _, err := r.q.Exec(ctx, head,
		note.ID, note.CompanyID, note.Number, note.WarehouseID, note.Recipient, note.Notes, note.CreatedBy,
	); err != nil {
		return fmt.Errorf("create remission: %w", err)
	}
	line := `
		INSERT INTO remission_lines (remission_id, movement_id, item_id, sku, item_name, quantity, unit_cost, lot_number, serial)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	for _, l := range note.Lines {
		if _, err := r.q.Exec(ctx, line,
			note.ID, l.MovementID, l.ItemID, l.SKU, l.ItemName, l.Quantity, l.UnitCost, l.LotNumber, l.Serial,
		); err != nil {
			return fmt.Errorf("create remission line: %w", err)
		}
	}
	return nil
}

// GetByID devuelve la nota con sus líneas, o nil si no existe.
func (r *RemissionRepo) GetByID(id string) (*entity.RemissionNote, error) {
	ctx := context.Background()
	head := `
		SELECT id, company_id, number, warehouse_id, recipient, notes, created_at, created_by
		FROM remission_notes WHERE id = $1`
	var n entity.RemissionNote
	err := r.q.QueryRow(ctx, head, id).Scan(
		&n.ID, &n.CompanyID, &n.Number, &n.WarehouseID, &n.Recipient, &n.Notes, &n.CreatedAt, &n.CreatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get remission: %w", err)
	}

	lines := `
		SELECT movement_id, item_id, sku, item_name, quantity, unit_cost, lot_number, serial
		FROM remission_lines WHERE remission_id = $1 ORDER BY item_name`
	rows, err := r.q.Query(ctx, lines, id)
	if err != nil {
		return nil, fmt.Errorf("get remission lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l entity.RemissionLine
		if err := rows.Scan(&l.MovementID, &l.ItemID, &l.SKU, &l.ItemName, &l.Quantity, &l.UnitCost, &l.LotNumber, &l.Serial); err != nil {
			return nil, fmt.Errorf("scan remission line: %w", err)
		}
		n.Lines = append(n.Lines, l)
	}
	return &n, rows.Err()
}

// ListByCompany lista las cabeceras de la empresa (sin líneas) con paginación.
func (r *RemissionRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.RemissionNote, error) {
	query := `
		SELECT id, company_id, number, warehouse_id, recipient, notes, created_at, created_by
		FROM remission_notes WHERE company_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list remissions: %w", err)
	}
	defer rows.Close()
	var out []*entity.RemissionNote
	for rows.Next() {
		var n entity.RemissionNote
		if err := rows.Scan(&n.ID, &n.CompanyID, &n.Number, &n.WarehouseID, &n.Recipient, &n.Notes, &n.CreatedAt, &n.CreatedBy); err != nil {
			return nil, fmt.Errorf("scan remission: %w", err)
		}
		out = append(out, &n)
	}
	return out, rows.Err()
}

// NextNumber devuelve el siguiente consecutivo REM-000123 por empresa.
func (r *RemissionRepo) NextNumber(companyID string) (string, error) {
	query := `SELECT COUNT(*) FROM remission_notes WHERE company_id = $1`
	var count int
	if err := r.q.QueryRow(context.Background(), query, companyID).Scan(&count); err != nil {
		return "", fmt.Errorf("next remission number: %w", err)
	}
	return fmt.Sprintf("REM-%06d", count+1), nil
}
