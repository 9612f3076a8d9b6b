package inventory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/hubbi/inventario-core/internal/application/dto"
	"github.com/hubbi/inventario-core/internal/domain/repository"
)

// StockAlertsUseCase genera las alertas de stock bajo para las pantallas de
// bodega: ítems en o bajo su punto de reorden, priorizados por déficit.
type StockAlertsUseCase struct {
	stockRepo repository.StockRepository
}

// NewStockAlertsUseCase construye el caso de uso de alertas.
func NewStockAlertsUseCase(stockRepo repository.StockRepository) *StockAlertsUseCase {
	return &StockAlertsUseCase{stockRepo: stockRepo}
}

// ListAlerts devuelve los ítems bajo punto de reorden con cantidad sugerida de
// reposición. warehouseID puede ser vacío para considerar stock global.
func (uc *StockAlertsUseCase) ListAlerts(ctx context.Context, companyID, warehouseID string) ([]dto.StockAlertDTO, error) {
	rows, err := uc.stockRepo.ListLowStock(ctx, companyID, warehouseID)
	if err != nil {
		return nil, err
	}

	alerts := make([]dto.StockAlertDTO, 0, len(rows))
	for _, row := range rows {
		deficit := row.ReorderPoint.Sub(row.OnHand)
		if deficit.LessThan(decimal.Zero) {
			deficit = decimal.Zero
		}
		// Stock ideal: punto de reorden más 50% de colchón.
		ideal := row.ReorderPoint.Mul(decimal.NewFromFloat(1.5))
		suggested := ideal.Sub(row.OnHand)
		if suggested.LessThan(decimal.Zero) {
			suggested = decimal.Zero
		}
		alerts = append(alerts, dto.StockAlertDTO{
			ItemID:       row.ItemID,
			SKU:          row.SKU,
			ItemName:     row.ItemName,
			WarehouseID:  row.WarehouseID,
			OnHand:       row.OnHand,
			ReorderPoint: row.ReorderPoint,
			Deficit:      deficit,
			SuggestedQty: suggested,
			EstimatedCost: suggested.Mul(row.AverageCost),
		})
	}

	// Mayor déficit primero; empates por SKU para salida estable.
	sort.Slice(alerts, func(i, j int) bool {
		if !alerts[i].Deficit.Equal(alerts[j].Deficit) {
			return alerts[i].Deficit.GreaterThan(alerts[j].Deficit)
		}
		return alerts[i].SKU < alerts[j].SKU
	})
	return alerts, nil
}
