package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hubbi/inventario-core/internal/domain"
	"github.com/hubbi/inventario-core/internal/domain/entity"
	"github.com/hubbi/inventario-core/internal/domain/movement"
)

// TransactionManager orquesta el ciclo prepare → commit de movimientos, nunca
// en otro orden: prepare arma la foto de estado vía DataProvider, corre el
// motor de validación, calcula efectos y decide aprobación; commit delega la
// persistencia al provider sin re-validar.
type TransactionManager struct {
	provider DataProvider
	engine   *movement.Engine
}

// NewTransactionManager construye el manager.
func NewTransactionManager(provider DataProvider, engine *movement.Engine) *TransactionManager {
	return &TransactionManager{provider: provider, engine: engine}
}

// Prepare valida y calcula efectos sin persistir nada. Si la validación falla,
// el caller recibe un único error con los mensajes agregados (coma-separados);
// para detalle por regla debe llamar Validate del motor directamente.
func (m *TransactionManager) Prepare(
	ctx context.Context,
	vctx movement.Context,
	companyID, userID string,
	req movement.Request,
) (*movement.PreparedTransaction, error) {
	cfg, ok := movement.Lookup(req.MovementType)
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownMovement, req.MovementType)
	}
	if !req.Quantity.GreaterThan(decimal.Zero) {
		return nil, fmt.Errorf("%w: la cantidad debe ser positiva", domain.ErrInvalidInput)
	}

	state, err := m.provider.GetState(ctx, req)
	if err != nil {
		return nil, err
	}

	result := m.engine.Validate(vctx, req, state)
	if !result.Success {
		return nil, fmt.Errorf("%w: %s", domain.ErrValidation, strings.Join(result.Messages(), ", "))
	}

	effects := computeEffects(cfg, req, state)
	approval := routeApproval(cfg, vctx, effects)

	return &movement.PreparedTransaction{
		ID:             uuid.New().String(),
		CompanyID:      companyID,
		UserID:         userID,
		Request:        req,
		Validation:     result,
		Effects:        effects,
		ApprovalStatus: approval,
		UnitCost:       averageCostOf(state),
		PreparedAt:     time.Now(),
	}, nil
}

// Commit persiste una transacción preparada. No se re-valida contra el estado
// actual; el provider es quien detecta stock desactualizado comparando
// Effects.PriorOnHand contra la fila bloqueada (domain.ErrStaleStock).
func (m *TransactionManager) Commit(ctx context.Context, tx *movement.PreparedTransaction) error {
	if tx == nil {
		return domain.ErrInvalidInput
	}
	return m.provider.PersistMovement(ctx, tx)
}

// CommitBatch prefiere PersistBatch del provider (atómico). Sin él, cae a
// commits secuenciales en orden de entrada y SIN rollback: un fallo a mitad
// deja aplicados los commits previos. Ese contrato parcial se reporta
// explícito en el error en vez de enmascararse.
func (m *TransactionManager) CommitBatch(ctx context.Context, txs []*movement.PreparedTransaction) error {
	if len(txs) == 0 {
		return nil
	}
	if bp, ok := m.provider.(BatchDataProvider); ok {
		return bp.PersistBatch(ctx, txs)
	}
	for i, tx := range txs {
		if err := m.Commit(ctx, tx); err != nil {
			return fmt.Errorf("lote no atómico: %d de %d movimientos ya confirmados: %w", i, len(txs), err)
		}
	}
	return nil
}

// computeEffects calcula delta de stock, nueva existencia e impacto financiero.
// Delta: +cantidad en IN, -cantidad en OUT, 0 en NEUTRAL (las patas del
// traslado las modela el caller como dos movimientos).
func computeEffects(cfg movement.Config, req movement.Request, state movement.State) movement.Effects {
	var delta decimal.Decimal
	switch cfg.Direction {
	case movement.DirectionIn:
		delta = req.Quantity
	case movement.DirectionOut:
		delta = req.Quantity.Neg()
	default:
		delta = decimal.Zero
	}

	prior := decimal.Zero
	if state.Stock != nil {
		prior = state.Stock.OnHand
	}

	return movement.Effects{
		StockDelta:      delta,
		PriorOnHand:     prior,
		NewOnHand:       prior.Add(delta),
		FinancialImpact: averageCostOf(state).Mul(req.Quantity),
	}
}

// routeApproval decide el enrutamiento: salidas con impacto sobre el umbral
// quedan PENDING salvo rol elevado; todo lo demás queda APPROVED.
func routeApproval(cfg movement.Config, vctx movement.Context, effects movement.Effects) string {
	if cfg.Direction != movement.DirectionOut {
		return entity.ApprovalApproved
	}
	policy := vctx.ApprovalOrDefault()
	if effects.FinancialImpact.GreaterThan(policy.Threshold) && !policy.IsElevated(vctx.UserRole) {
		return entity.ApprovalPending
	}
	return entity.ApprovalApproved
}

func averageCostOf(state movement.State) decimal.Decimal {
	if state.Item == nil {
		return decimal.Zero
	}
	return state.Item.AverageCost
}
