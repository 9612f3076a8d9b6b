package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	appinv "github.com/hubbi/inventario-core/internal/application/inventory"
	"github.com/hubbi/inventario-core/internal/domain"
	"github.com/hubbi/inventario-core/internal/domain/entity"
	domaininv "github.com/hubbi/inventario-core/internal/domain/inventory"
	"github.com/hubbi/inventario-core/internal/domain/movement"
	"github.com/hubbi/inventario-core/internal/domain/repository"
)

var _ appinv.BatchDataProvider = (*StateProvider)(nil)

// StateProvider implementa el DataProvider del transaction manager sobre
// PostgreSQL: arma la foto de estado por solicitud y persiste movimientos
// preparados dentro de una transacción (bloqueo de fila + chequeo optimista).
type StateProvider struct {
	itemRepo      repository.ItemRepository
	warehouseRepo repository.WarehouseRepository
	stockRepo     repository.StockRepository
	serialRepo    repository.SerialRepository
	lotRepo       repository.LotRepository
	txRunner      *TxRunner
}

// NewStateProvider construye el provider con repos sobre el pool.
func NewStateProvider(pool *pgxpool.Pool) *StateProvider {
	return &StateProvider{
		itemRepo:      NewItemRepository(pool),
		warehouseRepo: NewWarehouseRepository(pool),
		stockRepo:     NewStockRepository(pool),
		serialRepo:    NewSerialRepository(pool),
		lotRepo:       NewLotRepository(pool),
		txRunner:      NewTxRunner(pool),
	}
}

// GetState arma la foto de solo lectura para una validación/preparación.
// Ítem inexistente es error (sube al caller); bodegas inexistentes quedan nil
// y las reglas require_source/require_target las reportan como falla de negocio.
func (p *StateProvider) GetState(ctx context.Context, req movement.Request) (movement.State, error) {
	item, err := p.itemRepo.GetByID(req.ItemID)
	if err != nil {
		return movement.State{}, err
	}
	if item == nil {
		return movement.State{}, fmt.Errorf("%w: ítem %s", domain.ErrNotFound, req.ItemID)
	}

	state := movement.State{Item: item}

	if req.FromWarehouse != "" {
		state.SourceWarehouse, err = p.warehouseRepo.GetByID(req.FromWarehouse)
		if err != nil {
			return movement.State{}, err
		}
	}
	if req.ToWarehouse != "" {
		state.TargetWarehouse, err = p.warehouseRepo.GetByID(req.ToWarehouse)
		if err != nil {
			return movement.State{}, err
		}
	}

	if wh := req.ResolvedWarehouse(); wh != "" {
		state.Stock, err = p.stockRepo.Get(req.ItemID, wh)
		if err != nil {
			return movement.State{}, err
		}
	}

	if req.SerialNumber != "" {
		state.SerialStatus, err = p.serialRepo.GetStatus(req.ItemID, req.SerialNumber)
		if err != nil {
			return movement.State{}, err
		}
	}
	if req.LotNumber != "" {
		state.LotExpiration, err = p.lotRepo.GetExpiration(req.ItemID, req.LotNumber)
		if err != nil {
			return movement.State{}, err
		}
	}
	return state, nil
}

// PersistMovement registra una transacción preparada: bloquea la fila de
// stock, verifica que no cambió desde prepare, aplica el delta, recalcula
// costo promedio si aplica, transiciona el serial y escribe el libro.
func (p *StateProvider) PersistMovement(ctx context.Context, tx *movement.PreparedTransaction) error {
	return p.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		stockRepo repository.StockRepository,
		itemRepo repository.ItemRepository,
		serialRepo repository.SerialRepository,
	) error {
		return persistInTx(movRepo, stockRepo, itemRepo, serialRepo, tx)
	})
}

// PersistBatch registra el lote completo en una sola transacción (todo o nada).
func (p *StateProvider) PersistBatch(ctx context.Context, txs []*movement.PreparedTransaction) error {
	return p.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		stockRepo repository.StockRepository,
		itemRepo repository.ItemRepository,
		serialRepo repository.SerialRepository,
	) error {
		for _, tx := range txs {
			if err := persistInTx(movRepo, stockRepo, itemRepo, serialRepo, tx); err != nil {
				return err
			}
		}
		return nil
	})
}

// persistInTx aplica una transacción preparada usando repos atados a la tx del caller.
func persistInTx(
	movRepo repository.MovementRepository,
	stockRepo repository.StockRepository,
	itemRepo repository.ItemRepository,
	serialRepo repository.SerialRepository,
	tx *movement.PreparedTransaction,
) error {
	cfg, ok := movement.Lookup(tx.Request.MovementType)
	if !ok {
		return fmt.Errorf("%w: %q", domain.ErrUnknownMovement, tx.Request.MovementType)
	}
	warehouseID := tx.Request.ResolvedWarehouse()

	// Bloquea la fila de stock y verifica que nadie la movió desde prepare.
	stock, err := stockRepo.GetForUpdate(tx.Request.ItemID, warehouseID)
	if err != nil {
		return err
	}
	if !stock.OnHand.Equal(tx.Effects.PriorOnHand) {
		return fmt.Errorf("%w: esperado %s, actual %s", domain.ErrStaleStock, tx.Effects.PriorOnHand, stock.OnHand)
	}

	now := time.Now()
	stock.OnHand = stock.OnHand.Add(tx.Effects.StockDelta)
	stock.UpdatedAt = now
	if err := stockRepo.Upsert(stock); err != nil {
		return err
	}

	unitCost := tx.UnitCost
	if tx.Request.UnitCost != nil {
		unitCost = *tx.Request.UnitCost
	}

	// Entradas que afectan costo recalculan el promedio ponderado del ítem.
	if cfg.AffectsCost && cfg.Direction == movement.DirectionIn {
		item, err := itemRepo.GetByID(tx.Request.ItemID)
		if err != nil {
			return err
		}
		if item != nil {
			newCost := domaininv.WeightedAverageCost(tx.Effects.PriorOnHand, item.AverageCost, tx.Request.Quantity, unitCost)
			if err := itemRepo.UpdateAverageCost(item.ID, newCost); err != nil {
				return err
			}
		}
	}

	if tx.Request.SerialNumber != "" {
		if err := serialRepo.Upsert(&entity.Serial{
			SerialNumber: tx.Request.SerialNumber,
			ItemID:       tx.Request.ItemID,
			WarehouseID:  warehouseID,
			Status:       serialStatusAfter(cfg),
			UpdatedAt:    now,
		}); err != nil {
			return err
		}
	}

	return movRepo.Create(&entity.Movement{
		ID:             uuid.New().String(),
		TransactionID:  tx.ID,
		CompanyID:      tx.CompanyID,
		ItemID:         tx.Request.ItemID,
		WarehouseID:    warehouseID,
		Type:           tx.Request.MovementType,
		Quantity:       signedQuantity(cfg, tx.Request.Quantity),
		UnitCost:       unitCost,
		TotalCost:      signedQuantity(cfg, tx.Request.Quantity).Mul(unitCost),
		SerialNumber:   tx.Request.SerialNumber,
		LotNumber:      tx.Request.LotNumber,
		DocumentRef:    tx.Request.DocumentRef,
		Reason:         tx.Request.Reason,
		ApprovalStatus: tx.ApprovalStatus,
		Date:           tx.Request.Timestamp,
		CreatedAt:      now,
		CreatedBy:      tx.UserID,
	})
}

// serialStatusAfter decide el estado del serial tras confirmar el movimiento.
func serialStatusAfter(cfg movement.Config) string {
	switch {
	case cfg.Direction == movement.DirectionIn:
		return entity.SerialAvailable
	case cfg.Direction == movement.DirectionNeutral:
		return entity.SerialTransferred
	case cfg.Code == movement.TypeSaleIssue:
		return entity.SerialSold
	default:
		return entity.SerialConsumed
	}
}

// signedQuantity aplica el signo del libro: entradas positivas, salidas negativas.
// Traslados (NEUTRAL) se registran en magnitud positiva; las patas direccionales
// las modela el caller.
func signedQuantity(cfg movement.Config, qty decimal.Decimal) decimal.Decimal {
	if cfg.Direction == movement.DirectionOut {
		return qty.Neg()
	}
	return qty
}
