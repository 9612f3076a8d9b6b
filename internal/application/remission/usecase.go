package remission

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hubbi/inventario-core/internal/application/dto"
	"github.com/hubbi/inventario-core/internal/domain"
	"github.com/hubbi/inventario-core/internal/domain/entity"
	"github.com/hubbi/inventario-core/internal/domain/repository"
)

// UseCase crea y consulta notas de remisión sobre movimientos ya confirmados,
// y las exporta a PDF (representación imprimible) o XML (intercambio).
type UseCase struct {
	remissionRepo repository.RemissionRepository
	movementRepo  repository.MovementRepository
	itemRepo      repository.ItemRepository
	pdf           PDFGenerator
	xml           XMLExporter
}

// NewUseCase construye el caso de uso de remisiones.
func NewUseCase(
	remissionRepo repository.RemissionRepository,
	movementRepo repository.MovementRepository,
	itemRepo repository.ItemRepository,
	pdf PDFGenerator,
	xml XMLExporter,
) *UseCase {
	return &UseCase{
		remissionRepo: remissionRepo,
		movementRepo:  movementRepo,
		itemRepo:      itemRepo,
		pdf:           pdf,
		xml:           xml,
	}
}

// Create arma la nota a partir de los IDs de movimientos confirmados, asigna
// consecutivo y persiste. Movimientos de otra empresa o inexistentes fallan.
func (uc *UseCase) Create(ctx context.Context, companyID, userID string, in dto.CreateRemissionRequest) (*dto.RemissionResponse, error) {
	if in.WarehouseID == "" || len(in.MovementIDs) == 0 {
		return nil, domain.ErrInvalidInput
	}

	lines := make([]entity.RemissionLine, 0, len(in.MovementIDs))
	for _, movID := range in.MovementIDs {
		mov, err := uc.movementRepo.GetByID(movID)
		if err != nil {
			return nil, err
		}
		if mov == nil || mov.CompanyID != companyID {
			return nil, fmt.Errorf("%w: movimiento %s", domain.ErrNotFound, movID)
		}
		item, err := uc.itemRepo.GetByID(mov.ItemID)
		if err != nil {
			return nil, err
		}
		sku, name := "", ""
		if item != nil {
			sku, name = item.SKU, item.Name
		}
		lines = append(lines, entity.RemissionLine{
			MovementID: mov.ID,
			ItemID:     mov.ItemID,
			SKU:        sku,
			ItemName:   name,
			Quantity:   mov.Quantity.Abs(),
			UnitCost:   mov.UnitCost,
			LotNumber:  mov.LotNumber,
			Serial:     mov.SerialNumber,
		})
	}

	number, err := uc.remissionRepo.NextNumber(companyID)
	if err != nil {
		return nil, err
	}
	note := &entity.RemissionNote{
		ID:          uuid.New().String(),
		CompanyID:   companyID,
		Number:      number,
		WarehouseID: in.WarehouseID,
		Recipient:   in.Recipient,
		Notes:       in.Notes,
		Lines:       lines,
		CreatedAt:   time.Now(),
		CreatedBy:   userID,
	}
	if err := uc.remissionRepo.Create(note); err != nil {
		return nil, err
	}
	return toResponse(note), nil
}

// Get devuelve la nota por ID validando la empresa.
func (uc *UseCase) Get(ctx context.Context, companyID, id string) (*dto.RemissionResponse, error) {
	note, err := uc.getNote(companyID, id)
	if err != nil {
		return nil, err
	}
	return toResponse(note), nil
}

// RenderPDF genera el PDF de la nota.
func (uc *UseCase) RenderPDF(ctx context.Context, companyID, id string) ([]byte, error) {
	note, err := uc.getNote(companyID, id)
	if err != nil {
		return nil, err
	}
	return uc.pdf.GenerateRemissionPDF(ctx, note)
}

// RenderXML exporta la nota en XML.
func (uc *UseCase) RenderXML(ctx context.Context, companyID, id string) ([]byte, error) {
	note, err := uc.getNote(companyID, id)
	if err != nil {
		return nil, err
	}
	return uc.xml.ExportRemissionXML(note)
}

func (uc *UseCase) getNote(companyID, id string) (*entity.RemissionNote, error) {
	note, err := uc.remissionRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if note == nil || note.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	return note, nil
}

func toResponse(note *entity.RemissionNote) *dto.RemissionResponse {
	lines := make([]dto.RemissionLineDTO, 0, len(note.Lines))
	for _, l := range note.Lines {
		lines = append(lines, dto.RemissionLineDTO{
			MovementID: l.MovementID,
			ItemID:     l.ItemID,
			SKU:        l.SKU,
			ItemName:   l.ItemName,
			Quantity:   l.Quantity,
			UnitCost:   l.UnitCost,
			LotNumber:  l.LotNumber,
			Serial:     l.Serial,
		})
	}
	return &dto.RemissionResponse{
		ID:          note.ID,
		Number:      note.Number,
		WarehouseID: note.WarehouseID,
		Recipient:   note.Recipient,
		Notes:       note.Notes,
		Lines:       lines,
		TotalCost:   note.TotalCost(),
		CreatedAt:   note.CreatedAt,
	}
}
