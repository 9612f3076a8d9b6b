package repository

import "github.com/hubbi/inventario-core/internal/domain/entity"

// RemissionRepository define el puerto de persistencia para notas de remisión.
type RemissionRepository interface {
	Create(note *entity.RemissionNote) error
	GetByID(id string) (*entity.RemissionNote, error)
	ListByCompany(companyID string, limit, offset int) ([]*entity.RemissionNote, error)
	// NextNumber devuelve el siguiente consecutivo (REM-000123) por empresa.
	NextNumber(companyID string) (string, error)
}
