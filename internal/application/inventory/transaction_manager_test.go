package inventory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appinv "github.com/hubbi/inventario-core/internal/application/inventory"
	"github.com/hubbi/inventario-core/internal/domain"
	"github.com/hubbi/inventario-core/internal/domain/entity"
	"github.com/hubbi/inventario-core/internal/domain/movement"
)

// ──────────────────────────────────────────────────────────────────────────────
// Providers falsos: uno básico (solo commits individuales) y uno con soporte
// de lote atómico. Registran las llamadas para verificar orden y conteo.
// ──────────────────────────────────────────────────────────────────────────────

type fakeProvider struct {
	state      movement.State
	stateErr   error
	persistErr func(call int) error
	persisted  []*movement.PreparedTransaction
}

func (f *fakeProvider) GetState(_ context.Context, _ movement.Request) (movement.State, error) {
	return f.state, f.stateErr
}

func (f *fakeProvider) PersistMovement(_ context.Context, tx *movement.PreparedTransaction) error {
	if f.persistErr != nil {
		if err := f.persistErr(len(f.persisted)); err != nil {
			return err
		}
	}
	f.persisted = append(f.persisted, tx)
	return nil
}

type fakeBatchProvider struct {
	fakeProvider
	batches [][]*movement.PreparedTransaction
}

func (f *fakeBatchProvider) PersistBatch(_ context.Context, txs []*movement.PreparedTransaction) error {
	f.batches = append(f.batches, txs)
	return nil
}

func stockedState(onHand int64, avgCost float64) movement.State {
	return movement.State{
		Item: &entity.Item{
			ID:          "item-1",
			SKU:         "SKU-001",
			Name:        "Filtro de aceite",
			IsActive:    true,
			AverageCost: decimal.NewFromFloat(avgCost),
		},
		SourceWarehouse: &entity.Warehouse{ID: "wh-1", Name: "Principal", IsActive: true},
		TargetWarehouse: &entity.Warehouse{ID: "wh-1", Name: "Principal", IsActive: true},
		Stock: &entity.Stock{
			ItemID:      "item-1",
			WarehouseID: "wh-1",
			OnHand:      decimal.NewFromInt(onHand),
		},
	}
}

func managerWith(provider appinv.DataProvider) *appinv.TransactionManager {
	return appinv.NewTransactionManager(provider, movement.NewEngine())
}

func clerkContext() movement.Context {
	return movement.Context{Profile: movement.ProfileGeneric, UserRole: entity.RoleClerk}
}

func receiptRequest(qty int64) movement.Request {
	return movement.Request{
		MovementType: movement.TypePurchaseReceipt,
		ItemID:       "item-1",
		Quantity:     decimal.NewFromInt(qty),
		ToWarehouse:  "wh-1",
		DocumentRef:  "OC-123",
	}
}

func lossRequest(qty int64) movement.Request {
	return movement.Request{
		MovementType:  movement.TypeLossAndDamage,
		ItemID:        "item-1",
		Quantity:      decimal.NewFromInt(qty),
		FromWarehouse: "wh-1",
		Reason:        "avería detectada en conteo",
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Prepare
// ──────────────────────────────────────────────────────────────────────────────

// Entrada por compra: delta positivo, impacto = costo promedio × cantidad,
// aprobada de inmediato (solo las salidas se enrutan a aprobación).
func TestPrepare_EntradaCalculaEfectosYAprueba(t *testing.T) {
	provider := &fakeProvider{state: stockedState(3, 5)}
	manager := managerWith(provider)

	tx, err := manager.Prepare(context.Background(), clerkContext(), "co-1", "user-1", receiptRequest(10))

	require.NoError(t, err)
	assert.NotEmpty(t, tx.ID)
	assert.Equal(t, "co-1", tx.CompanyID)
	assert.True(t, tx.Effects.StockDelta.Equal(decimal.NewFromInt(10)))
	assert.True(t, tx.Effects.PriorOnHand.Equal(decimal.NewFromInt(3)))
	assert.True(t, tx.Effects.NewOnHand.Equal(decimal.NewFromInt(13)))
	assert.True(t, tx.Effects.FinancialImpact.Equal(decimal.NewFromInt(50)),
		"impacto esperado 50, obtenido %s", tx.Effects.FinancialImpact)
	assert.Equal(t, entity.ApprovalApproved, tx.ApprovalStatus)
	assert.Empty(t, provider.persisted, "prepare no debe persistir nada")
}

func TestPrepare_TipoDesconocido(t *testing.T) {
	manager := managerWith(&fakeProvider{state: stockedState(3, 5)})

	req := receiptRequest(1)
	req.MovementType = "TELEPORT"
	_, err := manager.Prepare(context.Background(), clerkContext(), "co-1", "user-1", req)

	assert.ErrorIs(t, err, domain.ErrUnknownMovement)
}

func TestPrepare_CantidadNoPositiva(t *testing.T) {
	manager := managerWith(&fakeProvider{state: stockedState(3, 5)})

	_, err := manager.Prepare(context.Background(), clerkContext(), "co-1", "user-1", receiptRequest(0))

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Validación fallida: un solo error con todos los mensajes separados por coma.
func TestPrepare_ValidacionFallidaAgregaMensajes(t *testing.T) {
	manager := managerWith(&fakeProvider{state: stockedState(1, 5)})

	req := lossRequest(10) // stock insuficiente
	req.Reason = "  "      // y sin motivo
	_, err := manager.Prepare(context.Background(), clerkContext(), "co-1", "user-1", req)

	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, err.Error(), "stock insuficiente")
	assert.Contains(t, err.Error(), "motivo")
	assert.Contains(t, err.Error(), ", ", "los mensajes deben ir separados por coma")
}

func TestPrepare_ErrorDelProviderSube(t *testing.T) {
	manager := managerWith(&fakeProvider{stateErr: domain.ErrNotFound})

	_, err := manager.Prepare(context.Background(), clerkContext(), "co-1", "user-1", receiptRequest(1))

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Enrutamiento de aprobación
// ──────────────────────────────────────────────────────────────────────────────

// Salida de alto valor por un CLERK queda pendiente.
func TestPrepare_SalidaSobreUmbralQuedaPendiente(t *testing.T) {
	manager := managerWith(&fakeProvider{state: stockedState(100, 10)})

	tx, err := manager.Prepare(context.Background(), clerkContext(), "co-1", "user-1", lossRequest(50))

	require.NoError(t, err)
	assert.True(t, tx.Effects.FinancialImpact.Equal(decimal.NewFromInt(500)))
	assert.Equal(t, entity.ApprovalPending, tx.ApprovalStatus)
}

// La misma salida por un rol elevado se auto-aprueba.
func TestPrepare_SalidaSobreUmbralConRolElevadoSeAprueba(t *testing.T) {
	manager := managerWith(&fakeProvider{state: stockedState(100, 10)})

	vctx := clerkContext()
	vctx.UserRole = entity.RoleAdmin
	tx, err := manager.Prepare(context.Background(), vctx, "co-1", "user-1", lossRequest(50))

	require.NoError(t, err)
	assert.Equal(t, entity.ApprovalApproved, tx.ApprovalStatus)

	vctx.UserRole = entity.RoleSupervisor
	tx, err = manager.Prepare(context.Background(), vctx, "co-1", "user-1", lossRequest(50))
	require.NoError(t, err)
	assert.Equal(t, entity.ApprovalApproved, tx.ApprovalStatus)
}

// El umbral es estricto: impacto exactamente igual no requiere aprobación.
func TestPrepare_ImpactoExactamenteEnElUmbralSeAprueba(t *testing.T) {
	manager := managerWith(&fakeProvider{state: stockedState(100, 10)})

	tx, err := manager.Prepare(context.Background(), clerkContext(), "co-1", "user-1", lossRequest(10))

	require.NoError(t, err)
	assert.True(t, tx.Effects.FinancialImpact.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, entity.ApprovalApproved, tx.ApprovalStatus)
}

// La política llega en el contexto: un umbral alto del despliegue evita el PENDING.
func TestPrepare_PoliticaDelContextoReemplazaDefaults(t *testing.T) {
	manager := managerWith(&fakeProvider{state: stockedState(100, 10)})

	vctx := clerkContext()
	vctx.Approval = movement.ApprovalPolicy{
		Threshold:     decimal.NewFromInt(1000),
		ElevatedRoles: []string{entity.RoleAdmin},
	}
	tx, err := manager.Prepare(context.Background(), vctx, "co-1", "user-1", lossRequest(50))

	require.NoError(t, err)
	assert.Equal(t, entity.ApprovalApproved, tx.ApprovalStatus)
}

// ──────────────────────────────────────────────────────────────────────────────
// Commit y CommitBatch
// ──────────────────────────────────────────────────────────────────────────────

func TestCommit_DelegaEnElProvider(t *testing.T) {
	provider := &fakeProvider{state: stockedState(3, 5)}
	manager := managerWith(provider)

	tx, err := manager.Prepare(context.Background(), clerkContext(), "co-1", "user-1", receiptRequest(2))
	require.NoError(t, err)
	require.NoError(t, manager.Commit(context.Background(), tx))

	require.Len(t, provider.persisted, 1)
	assert.Equal(t, tx.ID, provider.persisted[0].ID)
}

func TestCommit_TransaccionNil(t *testing.T) {
	manager := managerWith(&fakeProvider{})
	assert.ErrorIs(t, manager.Commit(context.Background(), nil), domain.ErrInvalidInput)
}

func TestCommitBatch_LoteVacioNoHaceNada(t *testing.T) {
	provider := &fakeProvider{}
	manager := managerWith(provider)

	require.NoError(t, manager.CommitBatch(context.Background(), nil))
	assert.Empty(t, provider.persisted)
}

// Con provider de lote, se hace una sola llamada atómica.
func TestCommitBatch_PrefiereElProviderAtomico(t *testing.T) {
	provider := &fakeBatchProvider{fakeProvider: fakeProvider{state: stockedState(10, 5)}}
	manager := managerWith(provider)

	txs := prepareMany(t, manager, 3)
	require.NoError(t, manager.CommitBatch(context.Background(), txs))

	require.Len(t, provider.batches, 1, "debe usarse PersistBatch, no commits individuales")
	assert.Len(t, provider.batches[0], 3)
	assert.Empty(t, provider.persisted)
}

// Sin provider de lote, los commits son secuenciales en orden de entrada.
func TestCommitBatch_SecuencialPreservaElOrden(t *testing.T) {
	provider := &fakeProvider{state: stockedState(10, 5)}
	manager := managerWith(provider)

	txs := prepareMany(t, manager, 3)
	require.NoError(t, manager.CommitBatch(context.Background(), txs))

	require.Len(t, provider.persisted, 3)
	for i, tx := range txs {
		assert.Equal(t, tx.ID, provider.persisted[i].ID)
	}
}

// Un fallo a mitad del lote secuencial no revierte lo ya confirmado: el error
// dice explícitamente cuántos movimientos quedaron aplicados.
func TestCommitBatch_FalloParcialSeReportaExplicito(t *testing.T) {
	boom := errors.New("conexión perdida")
	provider := &fakeProvider{
		state: stockedState(10, 5),
		persistErr: func(call int) error {
			if call == 2 {
				return boom
			}
			return nil
		},
	}
	manager := managerWith(provider)

	txs := prepareMany(t, manager, 3)
	err := manager.CommitBatch(context.Background(), txs)

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "lote no atómico: 2 de 3")
	assert.Len(t, provider.persisted, 2, "los dos primeros commits quedan aplicados")
}

func prepareMany(t *testing.T, manager *appinv.TransactionManager, n int) []*movement.PreparedTransaction {
	t.Helper()
	txs := make([]*movement.PreparedTransaction, 0, n)
	for i := 0; i < n; i++ {
		tx, err := manager.Prepare(context.Background(), clerkContext(), "co-1", "user-1", receiptRequest(1))
		require.NoError(t, err)
		txs = append(txs, tx)
	}
	return txs
}
