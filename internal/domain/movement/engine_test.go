package movement_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hubbi/inventario-core/internal/domain/entity"
	"github.com/hubbi/inventario-core/internal/domain/movement"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers: estado y solicitudes base que satisfacen todas las reglas del
// catálogo. Cada test rompe exactamente la condición que quiere probar.
// ──────────────────────────────────────────────────────────────────────────────

func baseContext() movement.Context {
	return movement.Context{
		Profile:  movement.ProfileGeneric,
		UserRole: entity.RoleClerk,
	}
}

func baseState() movement.State {
	return movement.State{
		Item: &entity.Item{
			ID:          "item-1",
			SKU:         "SKU-001",
			Name:        "Tornillo M6",
			IsActive:    true,
			AverageCost: decimal.NewFromInt(5),
		},
		SourceWarehouse: &entity.Warehouse{ID: "wh-1", Name: "Principal", IsActive: true},
		TargetWarehouse: &entity.Warehouse{ID: "wh-2", Name: "Sucursal", IsActive: true},
		Stock: &entity.Stock{
			ItemID:      "item-1",
			WarehouseID: "wh-1",
			OnHand:      decimal.NewFromInt(5),
		},
	}
}

func baseRequest(movementType string) movement.Request {
	return movement.Request{
		MovementType:  movementType,
		ItemID:        "item-1",
		Quantity:      decimal.NewFromInt(2),
		FromWarehouse: "wh-1",
		ToWarehouse:   "wh-2",
		DocumentRef:   "FAC-001",
		Reason:        "reposición programada",
		Timestamp:     time.Now(),
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Tipo desconocido
// ──────────────────────────────────────────────────────────────────────────────

// Un código fuera del catálogo no entra al pipeline de reglas: produce una
// única falla estructural con regla "system".
func TestValidate_TipoDesconocidoFallaSystem(t *testing.T) {
	engine := movement.NewEngine()

	result := engine.Validate(baseContext(), baseRequest("TELEPORT"), baseState())

	assert.False(t, result.Success)
	require.Len(t, result.Failures, 1, "tipo desconocido debe producir exactamente una falla")
	assert.Equal(t, movement.RuleSystem, result.Failures[0].Rule)
	assert.Contains(t, result.Failures[0].Message, "TELEPORT")
}

// ──────────────────────────────────────────────────────────────────────────────
// Acumulación de fallas (sin cortar en la primera)
// ──────────────────────────────────────────────────────────────────────────────

// Una salida por venta sin bodega de origen, sin stock y sin documento debe
// reportar las tres violaciones, en el orden de declaración de las reglas.
func TestValidate_AcumulaTodasLasFallas(t *testing.T) {
	engine := movement.NewEngine()

	req := baseRequest(movement.TypeSaleIssue)
	req.FromWarehouse = ""
	req.Quantity = decimal.NewFromInt(50)
	req.DocumentRef = ""

	state := baseState()
	state.SourceWarehouse = nil

	result := engine.Validate(baseContext(), req, state)

	assert.False(t, result.Success)
	require.Len(t, result.Failures, 3)
	assert.Equal(t, movement.RuleRequireSource, result.Failures[0].Rule)
	assert.Equal(t, movement.RuleStockAvailability, result.Failures[1].Rule)
	assert.Equal(t, movement.RuleRequireDocument, result.Failures[2].Rule)
}

// ──────────────────────────────────────────────────────────────────────────────
// check_stock_availability
// ──────────────────────────────────────────────────────────────────────────────

func TestStockAvailability_InsuficienteFalla(t *testing.T) {
	engine := movement.NewEngine()

	req := baseRequest(movement.TypeSaleIssue)
	req.Quantity = decimal.NewFromInt(6) // hay 5

	result := engine.Validate(baseContext(), req, baseState())

	assert.False(t, result.Success)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, movement.RuleStockAvailability, result.Failures[0].Rule)
	assert.Equal(t, "5", result.Failures[0].Meta["on_hand"])
	assert.Equal(t, "6", result.Failures[0].Meta["requested"])
}

// El límite es inclusivo: sacar exactamente lo que hay es válido.
func TestStockAvailability_ExactoPasa(t *testing.T) {
	engine := movement.NewEngine()

	req := baseRequest(movement.TypeSaleIssue)
	req.Quantity = decimal.NewFromInt(5)

	result := engine.Validate(baseContext(), req, baseState())

	assert.True(t, result.Success, "fallas: %v", result.Messages())
}

func TestStockAvailability_FeatureNegativoPermiteSobregiro(t *testing.T) {
	engine := movement.NewEngine()

	ctx := baseContext()
	ctx.Features.AllowNegativeStock = true
	req := baseRequest(movement.TypeSaleIssue)
	req.Quantity = decimal.NewFromInt(100)

	result := engine.Validate(ctx, req, baseState())

	assert.True(t, result.Success, "con stock negativo permitido no debe fallar disponibilidad")
}

func TestStockAvailability_OverridePorItemPermiteSobregiro(t *testing.T) {
	engine := movement.NewEngine()

	req := baseRequest(movement.TypeSaleIssue)
	req.Quantity = decimal.NewFromInt(100)
	state := baseState()
	state.Item.AllowNegativeStock = true

	result := engine.Validate(baseContext(), req, state)

	assert.True(t, result.Success)
}

// Los servicios no manejan stock físico: la regla se omite por completo.
func TestStockAvailability_ItemServicioSeOmite(t *testing.T) {
	engine := movement.NewEngine()

	req := baseRequest(movement.TypeSaleIssue)
	req.Quantity = decimal.NewFromInt(100)
	state := baseState()
	state.Item.IsService = true
	state.Stock = nil

	result := engine.Validate(baseContext(), req, state)

	assert.True(t, result.Success)
}

// Sin fila de stock la existencia se asume cero.
func TestStockAvailability_SinFilaDeStockEsCero(t *testing.T) {
	engine := movement.NewEngine()

	req := baseRequest(movement.TypeSaleIssue)
	state := baseState()
	state.Stock = nil

	result := engine.Validate(baseContext(), req, state)

	assert.False(t, result.Success)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, movement.RuleStockAvailability, result.Failures[0].Rule)
}

// ──────────────────────────────────────────────────────────────────────────────
// require_reason
// ──────────────────────────────────────────────────────────────────────────────

// El motivo no acepta solo espacios en blanco.
func TestRequireReason_SoloEspaciosFalla(t *testing.T) {
	engine := movement.NewEngine()

	req := baseRequest(movement.TypeAdjustmentOut)
	req.Reason = "   "

	result := engine.Validate(baseContext(), req, baseState())

	assert.False(t, result.Success)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, movement.RuleRequireReason, result.Failures[0].Rule)
}

func TestRequireReason_MotivoConTextoPasa(t *testing.T) {
	engine := movement.NewEngine()

	req := baseRequest(movement.TypeAdjustmentOut)
	req.Reason = "mercancía dañada en bodega"

	result := engine.Validate(baseContext(), req, baseState())

	assert.True(t, result.Success, "fallas: %v", result.Messages())
}

// ──────────────────────────────────────────────────────────────────────────────
// check_lot_expiration (sensible al perfil)
// ──────────────────────────────────────────────────────────────────────────────

func engineAt(now time.Time) *movement.Engine {
	return movement.NewEngineWithClock(func() time.Time { return now })
}

func TestLotExpiration_VencidoEnGenericoPasa(t *testing.T) {
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	expired := now.AddDate(0, -1, 0)
	engine := engineAt(now)

	state := baseState()
	state.LotExpiration = &expired
	req := baseRequest(movement.TypeSaleIssue)
	req.LotNumber = "LOTE-9"

	result := engine.Validate(baseContext(), req, state)

	assert.True(t, result.Success, "en perfil GENERIC el vencimiento es informativo")
}

func TestLotExpiration_VencidoEnFarmaciaFalla(t *testing.T) {
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	expired := now.AddDate(0, -1, 0)
	engine := engineAt(now)

	ctx := baseContext()
	ctx.Profile = movement.ProfilePharmacy
	state := baseState()
	state.LotExpiration = &expired
	req := baseRequest(movement.TypeSaleIssue)
	req.LotNumber = "LOTE-9"

	result := engine.Validate(ctx, req, state)

	assert.False(t, result.Success)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, movement.RuleLotExpiration, result.Failures[0].Rule)
}

func TestLotExpiration_VencidoEnRetailFalla(t *testing.T) {
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	expired := now.AddDate(0, 0, -1)
	engine := engineAt(now)

	ctx := baseContext()
	ctx.Profile = movement.ProfileRetail
	state := baseState()
	state.LotExpiration = &expired

	result := engine.Validate(ctx, baseRequest(movement.TypeSaleIssue), state)

	assert.False(t, result.Success)
}

func TestLotExpiration_VigenteEnFarmaciaPasa(t *testing.T) {
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	future := now.AddDate(1, 0, 0)
	engine := engineAt(now)

	ctx := baseContext()
	ctx.Profile = movement.ProfilePharmacy
	state := baseState()
	state.LotExpiration = &future

	result := engine.Validate(ctx, baseRequest(movement.TypeSaleIssue), state)

	assert.True(t, result.Success, "fallas: %v", result.Messages())
}

// ──────────────────────────────────────────────────────────────────────────────
// check_warehouse_active
// ──────────────────────────────────────────────────────────────────────────────

func TestWarehouseActive_OrigenInactivoFalla(t *testing.T) {
	engine := movement.NewEngine()

	state := baseState()
	state.SourceWarehouse.IsActive = false

	result := engine.Validate(baseContext(), baseRequest(movement.TypeSaleIssue), state)

	assert.False(t, result.Success)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, movement.RuleWarehouseActive, result.Failures[0].Rule)
	assert.Contains(t, result.Failures[0].Message, "inactiva")
}

// Bodega bloqueada (ej. conteo físico) bloquea también los traslados hacia ella.
func TestWarehouseActive_DestinoBloqueadoFallaEnTraslado(t *testing.T) {
	engine := movement.NewEngine()

	state := baseState()
	state.TargetWarehouse.IsLocked = true

	result := engine.Validate(baseContext(), baseRequest(movement.TypeTransfer), state)

	assert.False(t, result.Success)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, movement.RuleWarehouseActive, result.Failures[0].Rule)
	assert.Contains(t, result.Failures[0].Message, "bloqueada")
}

// ──────────────────────────────────────────────────────────────────────────────
// check_serial_uniqueness (bidireccional)
// ──────────────────────────────────────────────────────────────────────────────

// Entrada: un serial vivo en inventario no puede reingresar.
func TestSerialUniqueness_EntradaConSerialVivoFalla(t *testing.T) {
	engine := movement.NewEngine()

	req := baseRequest(movement.TypePurchaseReceipt)
	req.SerialNumber = "SN-001"
	state := baseState()
	state.SerialStatus = entity.SerialAvailable

	result := engine.Validate(baseContext(), req, state)

	assert.False(t, result.Success)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, movement.RuleSerialUniqueness, result.Failures[0].Rule)
}

// Entrada: un serial vendido puede reingresar (devolución).
func TestSerialUniqueness_EntradaConSerialVendidoPasa(t *testing.T) {
	engine := movement.NewEngine()

	req := baseRequest(movement.TypeSaleReturn)
	req.SerialNumber = "SN-001"
	state := baseState()
	state.SerialStatus = entity.SerialSold

	result := engine.Validate(baseContext(), req, state)

	assert.True(t, result.Success, "fallas: %v", result.Messages())
}

// Salida: el serial debe estar AVAILABLE.
func TestSerialUniqueness_SalidaConSerialVendidoFalla(t *testing.T) {
	engine := movement.NewEngine()

	req := baseRequest(movement.TypeSaleIssue)
	req.SerialNumber = "SN-001"
	state := baseState()
	state.SerialStatus = entity.SerialSold

	result := engine.Validate(baseContext(), req, state)

	assert.False(t, result.Success)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, movement.RuleSerialUniqueness, result.Failures[0].Rule)
}

func TestSerialUniqueness_SalidaConSerialDisponiblePasa(t *testing.T) {
	engine := movement.NewEngine()

	req := baseRequest(movement.TypeSaleIssue)
	req.SerialNumber = "SN-001"
	state := baseState()
	state.SerialStatus = entity.SerialAvailable

	result := engine.Validate(baseContext(), req, state)

	assert.True(t, result.Success, "fallas: %v", result.Messages())
}

// Salida sin serial: se asume ítem no serializado y la regla se omite.
func TestSerialUniqueness_SalidaSinSerialSeOmite(t *testing.T) {
	engine := movement.NewEngine()

	result := engine.Validate(baseContext(), baseRequest(movement.TypeSaleIssue), baseState())

	assert.True(t, result.Success, "fallas: %v", result.Messages())
}

// ──────────────────────────────────────────────────────────────────────────────
// Todo el catálogo con estado que satisface cada regla
// ──────────────────────────────────────────────────────────────────────────────

func TestValidate_TodoElCatalogoPasaConEstadoCompleto(t *testing.T) {
	engine := movement.NewEngine()

	for _, code := range movement.Codes() {
		result := engine.Validate(baseContext(), baseRequest(code), baseState())
		assert.True(t, result.Success, "tipo %s no debería fallar: %v", code, result.Messages())
	}
}
