package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appinv "github.com/hubbi/inventario-core/internal/application/inventory"
	"github.com/hubbi/inventario-core/internal/domain"
	"github.com/hubbi/inventario-core/internal/domain/entity"
	"github.com/hubbi/inventario-core/internal/domain/movement"
	apphttp "github.com/hubbi/inventario-core/internal/interfaces/http"
	"github.com/hubbi/inventario-core/pkg/config"
	"github.com/hubbi/inventario-core/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Provider en memoria para los tests del handler
// ──────────────────────────────────────────────────────────────────────────────

type stubProvider struct {
	state      movement.State
	stateErr   error
	persistErr error
	persisted  []*movement.PreparedTransaction
}

func (s *stubProvider) GetState(_ context.Context, _ movement.Request) (movement.State, error) {
	return s.state, s.stateErr
}

func (s *stubProvider) PersistMovement(_ context.Context, tx *movement.PreparedTransaction) error {
	if s.persistErr != nil {
		return s.persistErr
	}
	s.persisted = append(s.persisted, tx)
	return nil
}

func inventoryState(onHand int64) movement.State {
	return movement.State{
		Item: &entity.Item{
			ID:          "item-1",
			SKU:         "SKU-001",
			Name:        "Batería 12V",
			IsActive:    true,
			AverageCost: decimal.NewFromInt(5),
		},
		SourceWarehouse: &entity.Warehouse{ID: "wh-1", Name: "Principal", IsActive: true},
		TargetWarehouse: &entity.Warehouse{ID: "wh-1", Name: "Principal", IsActive: true},
		Stock:           &entity.Stock{ItemID: "item-1", WarehouseID: "wh-1", OnHand: decimal.NewFromInt(onHand)},
	}
}

// buildMovementApp monta las rutas de movimientos sobre el provider dado,
// protegidas con el middleware real de JWT.
func buildMovementApp(provider appinv.DataProvider) *fiber.App {
	engine := movement.NewEngine()
	manager := appinv.NewTransactionManager(provider, engine)
	log := logger.New(logger.Config{Env: "development", Level: "error"})
	invCfg := config.InventoryConfig{
		Profile:           movement.ProfileGeneric,
		ApprovalThreshold: 100,
		ElevatedRoles:     []string{entity.RoleAdmin, entity.RoleSupervisor},
	}
	h := apphttp.NewMovementHandler(manager, engine, provider, nil, nil, invCfg, log)

	app := fiber.New()
	grp := app.Group("/api/inventory", apphttp.AuthMiddleware(testJWTSecret))
	grp.Get("/movement-types", h.ListTypes)
	grp.Post("/movements/validate", h.Validate)
	grp.Post("/movements/prepare", h.Prepare)
	grp.Post("/movements/batch", h.RegisterBatch)
	grp.Post("/movements", h.Register)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path, token string, body any) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func movementBody(movementType string, qty int64) map[string]any {
	return map[string]any{
		"movement_type":     movementType,
		"item_id":           "item-1",
		"quantity":          qty,
		"from_warehouse_id": "wh-1",
		"to_warehouse_id":   "wh-1",
		"document_ref":      "FAC-001",
		"reason":            "reposición",
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

// /validate devuelve el detalle por regla (no un error agregado) aun cuando falla.
func TestMovementHandler_ValidateDetallaFallas(t *testing.T) {
	app := buildMovementApp(&stubProvider{state: inventoryState(1)})
	token := tokenForRole(t, entity.RoleClerk)

	resp := postJSON(t, app, "/api/inventory/movements/validate", token,
		movementBody(movement.TypeSaleIssue, 10))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode, "validar no es error HTTP aunque falle la validación")

	var body struct {
		Success  bool               `json:"success"`
		Failures []movement.Failure `json:"failures"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.False(t, body.Success)
	require.Len(t, body.Failures, 1)
	assert.Equal(t, movement.RuleStockAvailability, body.Failures[0].Rule)
}

func TestMovementHandler_RegisterConfirmaYDevuelve201(t *testing.T) {
	provider := &stubProvider{state: inventoryState(5)}
	app := buildMovementApp(provider)
	token := tokenForRole(t, entity.RoleClerk)

	resp := postJSON(t, app, "/api/inventory/movements", token,
		movementBody(movement.TypePurchaseReceipt, 10))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Len(t, provider.persisted, 1)

	var body struct {
		ID             string `json:"id"`
		ApprovalStatus string `json:"approval_status"`
		Effects        struct {
			StockDelta string `json:"stock_delta"`
		} `json:"effects"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, provider.persisted[0].ID, body.ID)
	assert.Equal(t, entity.ApprovalApproved, body.ApprovalStatus)
	assert.Equal(t, "10", body.Effects.StockDelta)
}

func TestMovementHandler_TipoDesconocidoDevuelve422(t *testing.T) {
	app := buildMovementApp(&stubProvider{state: inventoryState(5)})
	token := tokenForRole(t, entity.RoleClerk)

	resp := postJSON(t, app, "/api/inventory/movements", token, movementBody("TELEPORT", 1))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "UNKNOWN_MOVEMENT_TYPE", body["code"])
}

func TestMovementHandler_ValidacionFallidaDevuelve422(t *testing.T) {
	provider := &stubProvider{state: inventoryState(1)}
	app := buildMovementApp(provider)
	token := tokenForRole(t, entity.RoleClerk)

	resp := postJSON(t, app, "/api/inventory/movements", token,
		movementBody(movement.TypeSaleIssue, 10))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Empty(t, provider.persisted, "nada debe persistirse si la validación falla")

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "VALIDATION_FAILED", body["code"])
}

// Stock desactualizado en el commit (concurrencia optimista) → 409 Conflict.
func TestMovementHandler_StockDesactualizadoDevuelve409(t *testing.T) {
	provider := &stubProvider{state: inventoryState(5), persistErr: domain.ErrStaleStock}
	app := buildMovementApp(provider)
	token := tokenForRole(t, entity.RoleClerk)

	resp := postJSON(t, app, "/api/inventory/movements", token,
		movementBody(movement.TypePurchaseReceipt, 1))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestMovementHandler_BatchConfirmaTodos(t *testing.T) {
	provider := &stubProvider{state: inventoryState(5)}
	app := buildMovementApp(provider)
	token := tokenForRole(t, entity.RoleClerk)

	resp := postJSON(t, app, "/api/inventory/movements/batch", token, map[string]any{
		"movements": []map[string]any{
			movementBody(movement.TypePurchaseReceipt, 2),
			movementBody(movement.TypePurchaseReceipt, 3),
		},
	})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Len(t, provider.persisted, 2)
}

// Un lote con un movimiento inválido no confirma ninguno.
func TestMovementHandler_BatchInvalidoNoConfirmaNada(t *testing.T) {
	provider := &stubProvider{state: inventoryState(1)}
	app := buildMovementApp(provider)
	token := tokenForRole(t, entity.RoleClerk)

	resp := postJSON(t, app, "/api/inventory/movements/batch", token, map[string]any{
		"movements": []map[string]any{
			movementBody(movement.TypePurchaseReceipt, 2),
			movementBody(movement.TypeSaleIssue, 10), // stock insuficiente
		},
	})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Empty(t, provider.persisted)
}

func TestMovementHandler_ListaElCatalogo(t *testing.T) {
	app := buildMovementApp(&stubProvider{state: inventoryState(5)})
	token := tokenForRole(t, entity.RoleClerk)

	req := httptest.NewRequest(http.MethodGet, "/api/inventory/movement-types", nil)
	req.Header.Set("Authorization", token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body []struct {
		Code      string `json:"code"`
		Direction string `json:"direction"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Len(t, body, len(movement.Catalog))
	for i := 1; i < len(body); i++ {
		assert.Less(t, body[i-1].Code, body[i].Code, "el catálogo debe salir ordenado por código")
	}
}
