package http

import (
	"errors"
	"sort"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/hubbi/inventario-core/internal/application/dto"
	appinv "github.com/hubbi/inventario-core/internal/application/inventory"
	"github.com/hubbi/inventario-core/internal/domain"
	"github.com/hubbi/inventario-core/internal/domain/entity"
	"github.com/hubbi/inventario-core/internal/domain/movement"
	"github.com/hubbi/inventario-core/internal/domain/repository"
	"github.com/hubbi/inventario-core/pkg/config"
	"github.com/hubbi/inventario-core/pkg/logger"
)

// MovementHandler expone el ciclo validar → preparar → confirmar de movimientos
// de inventario, el catálogo de tipos y las alertas de reposición.
type MovementHandler struct {
	manager      *appinv.TransactionManager
	engine       *movement.Engine
	provider     appinv.DataProvider
	alerts       *appinv.StockAlertsUseCase
	movementRepo repository.MovementRepository
	invCfg       config.InventoryConfig
	log          *logger.Logger
}

// NewMovementHandler construye el handler.
func NewMovementHandler(
	manager *appinv.TransactionManager,
	engine *movement.Engine,
	provider appinv.DataProvider,
	alerts *appinv.StockAlertsUseCase,
	movementRepo repository.MovementRepository,
	invCfg config.InventoryConfig,
	log *logger.Logger,
) *MovementHandler {
	return &MovementHandler{
		manager:      manager,
		engine:       engine,
		provider:     provider,
		alerts:       alerts,
		movementRepo: movementRepo,
		invCfg:       invCfg,
		log:          log,
	}
}

// contextFor arma el contexto de validación por petición: perfil y flags vienen
// de configuración del despliegue, el rol del token JWT.
func (h *MovementHandler) contextFor(c *fiber.Ctx) movement.Context {
	return movement.Context{
		Profile: h.invCfg.Profile,
		Features: movement.Features{
			AllowNegativeStock: h.invCfg.AllowNegativeStock,
			SerialTracking:     h.invCfg.SerialTracking,
			BatchTracking:      h.invCfg.BatchTracking,
		},
		UserRole: GetRole(c),
		Approval: movement.ApprovalPolicy{
			Threshold:     decimal.NewFromFloat(h.invCfg.ApprovalThreshold),
			ElevatedRoles: h.invCfg.ElevatedRoles,
		},
	}
}

// Validate godoc
// @Summary      Validar un movimiento sin persistir
// @Description  Corre todas las reglas del tipo y devuelve cada falla (sin cortar en la primera).
// @Tags         movements
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.MovementRequestDTO  true  "movimiento a validar"
// @Success      200   {object}  dto.ValidationResultDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements/validate [post]
func (h *MovementHandler) Validate(c *fiber.Ctx) error {
	var in dto.MovementRequestDTO
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	req := in.ToDomain()

	state, err := h.provider.GetState(c.Context(), req)
	if err != nil {
		return h.mapError(c, err)
	}
	result := h.engine.Validate(h.contextFor(c), req, state)
	return c.JSON(dto.ValidationResultDTO{Success: result.Success, Failures: result.Failures})
}

// Prepare godoc
// @Summary      Preparar un movimiento (validar y calcular efectos, sin persistir)
// @Tags         movements
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.MovementRequestDTO  true  "movimiento a preparar"
// @Success      200   {object}  dto.PreparedTransactionDTO
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements/prepare [post]
func (h *MovementHandler) Prepare(c *fiber.Ctx) error {
	var in dto.MovementRequestDTO
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	tx, err := h.manager.Prepare(c.Context(), h.contextFor(c), GetCompanyID(c), GetUserID(c), in.ToDomain())
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(dto.FromPrepared(tx))
}

// Register godoc
// @Summary      Registrar un movimiento (preparar y confirmar en una llamada)
// @Tags         movements
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.MovementRequestDTO  true  "movimiento a registrar"
// @Success      201   {object}  dto.PreparedTransactionDTO
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *MovementHandler) Register(c *fiber.Ctx) error {
	var in dto.MovementRequestDTO
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	tx, err := h.manager.Prepare(c.Context(), h.contextFor(c), GetCompanyID(c), GetUserID(c), in.ToDomain())
	if err != nil {
		return h.mapError(c, err)
	}
	if err := h.manager.Commit(c.Context(), tx); err != nil {
		return h.mapError(c, err)
	}
	h.log.Info().
		Str("transaction_id", tx.ID).
		Str("movement_type", tx.Request.MovementType).
		Str("approval_status", tx.ApprovalStatus).
		Msg("movimiento confirmado")
	return c.Status(fiber.StatusCreated).JSON(dto.FromPrepared(tx))
}

// RegisterBatch godoc
// @Summary      Registrar un lote de movimientos
// @Description  Prepara todos los movimientos primero; si alguno falla la validación no se confirma ninguno. La confirmación es atómica si el provider lo soporta; si no, es secuencial y un fallo a mitad se reporta indicando cuántos quedaron confirmados.
// @Tags         movements
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.BatchMovementRequestDTO  true  "lote de movimientos"
// @Success      201   {array}   dto.PreparedTransactionDTO
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements/batch [post]
func (h *MovementHandler) RegisterBatch(c *fiber.Ctx) error {
	var in dto.BatchMovementRequestDTO
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if len(in.Movements) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "el lote no puede estar vacío"})
	}

	vctx := h.contextFor(c)
	companyID, userID := GetCompanyID(c), GetUserID(c)
	txs := make([]*movement.PreparedTransaction, 0, len(in.Movements))
	for _, m := range in.Movements {
		tx, err := h.manager.Prepare(c.Context(), vctx, companyID, userID, m.ToDomain())
		if err != nil {
			return h.mapError(c, err)
		}
		txs = append(txs, tx)
	}

	if err := h.manager.CommitBatch(c.Context(), txs); err != nil {
		return h.mapError(c, err)
	}

	out := make([]dto.PreparedTransactionDTO, 0, len(txs))
	for _, tx := range txs {
		out = append(out, dto.FromPrepared(tx))
	}
	h.log.Info().Int("movements", len(out)).Msg("lote confirmado")
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListTypes godoc
// @Summary      Catálogo de tipos de movimiento
// @Tags         movements
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  dto.MovementTypeDTO
// @Router       /api/inventory/movement-types [get]
func (h *MovementHandler) ListTypes(c *fiber.Ctx) error {
	codes := movement.Codes()
	sort.Strings(codes)
	out := make([]dto.MovementTypeDTO, 0, len(codes))
	for _, code := range codes {
		cfg, _ := movement.Lookup(code)
		rules := make([]string, 0, len(cfg.Rules))
		for _, r := range cfg.Rules {
			rules = append(rules, string(r))
		}
		out = append(out, dto.MovementTypeDTO{
			Code:              cfg.Code,
			Label:             cfg.Label,
			Direction:         cfg.Direction,
			Description:       cfg.Description,
			AffectsCost:       cfg.AffectsCost,
			IsSystemGenerated: cfg.IsSystemGenerated,
			Rules:             rules,
			ReversibleBy:      cfg.ReversibleBy,
		})
	}
	return c.JSON(out)
}

// ListMovements godoc
// @Summary      Historial de movimientos por ítem o por bodega
// @Tags         movements
// @Produce      json
// @Security     BearerAuth
// @Param        item_id       query  string  false  "filtrar por ítem"
// @Param        warehouse_id  query  string  false  "filtrar por bodega (ignorado si hay item_id)"
// @Param        from          query  string  false  "fecha inicial (RFC 3339)"
// @Param        to            query  string  false  "fecha final (RFC 3339)"
// @Param        limit         query  int     false  "máximo de filas (default 20)"
// @Param        offset        query  int     false  "desplazamiento"
// @Success      200  {array}   dto.MovementDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [get]
func (h *MovementHandler) ListMovements(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros de paginación inválidos"})
	}
	page.DefaultPage()

	from, err := parseTimeQuery(c.Query("from"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "from debe ser RFC 3339"})
	}
	to, err := parseTimeQuery(c.Query("to"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "to debe ser RFC 3339"})
	}

	var movs []*entity.Movement
	switch {
	case c.Query("item_id") != "":
		movs, err = h.movementRepo.ListByItem(c.Query("item_id"), from, to, page.Limit, page.Offset)
	case c.Query("warehouse_id") != "":
		movs, err = h.movementRepo.ListByWarehouse(c.Query("warehouse_id"), from, to, page.Limit, page.Offset)
	default:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "se requiere item_id o warehouse_id"})
	}
	if err != nil {
		return h.mapError(c, err)
	}

	out := make([]dto.MovementDTO, 0, len(movs))
	for _, m := range movs {
		out = append(out, dto.FromMovement(m))
	}
	return c.JSON(out)
}

func parseTimeQuery(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ListPendingApprovals godoc
// @Summary      Salidas pendientes de aprobación
// @Tags         movements
// @Produce      json
// @Security     BearerAuth
// @Param        limit   query  int  false  "máximo de filas (default 20)"
// @Param        offset  query  int  false  "desplazamiento"
// @Success      200  {array}  dto.MovementDTO
// @Router       /api/inventory/movements/pending [get]
func (h *MovementHandler) ListPendingApprovals(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros de paginación inválidos"})
	}
	page.DefaultPage()
	movs, err := h.movementRepo.ListPendingApproval(GetCompanyID(c), page.Limit, page.Offset)
	if err != nil {
		return h.mapError(c, err)
	}
	out := make([]dto.MovementDTO, 0, len(movs))
	for _, m := range movs {
		out = append(out, dto.FromMovement(m))
	}
	return c.JSON(out)
}

// ListAlerts godoc
// @Summary      Alertas de stock bajo
// @Tags         inventory
// @Produce      json
// @Security     BearerAuth
// @Param        warehouse_id  query  string  false  "filtrar por bodega"
// @Success      200  {array}  dto.StockAlertDTO
// @Router       /api/inventory/alerts [get]
func (h *MovementHandler) ListAlerts(c *fiber.Ctx) error {
	alerts, err := h.alerts.ListAlerts(c.Context(), GetCompanyID(c), c.Query("warehouse_id"))
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(alerts)
}

// mapError traduce errores de dominio a códigos HTTP.
func (h *MovementHandler) mapError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrUnknownMovement):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "UNKNOWN_MOVEMENT_TYPE", Message: err.Error()})
	case errors.Is(err, domain.ErrValidation):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "VALIDATION_FAILED", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrStaleStock), errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()})
	default:
		h.log.Error().Err(err).Msg("error no mapeado en handler de movimientos")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
	}
}
