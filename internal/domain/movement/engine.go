package movement

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hubbi/inventario-core/internal/domain/entity"
)

// Engine evalúa las reglas de validación declaradas en el catálogo para un
// movimiento. Es stateless: cada llamada recibe contexto, solicitud y foto de
// estado frescos. Las violaciones de negocio se reportan como datos en Result,
// nunca como error; solo un código de movimiento desconocido corta la
// evaluación (error de configuración, regla "system").
type Engine struct {
	now func() time.Time
}

// NewEngine construye el motor con el reloj del sistema.
func NewEngine() *Engine {
	return &Engine{now: time.Now}
}

// NewEngineWithClock permite inyectar el reloj (tests de vencimiento de lote).
func NewEngineWithClock(now func() time.Time) *Engine {
	return &Engine{now: now}
}

// Validate corre las reglas del tipo de movimiento en orden de declaración,
// sin cortar en la primera falla, y acumula todas las violaciones.
func (e *Engine) Validate(ctx Context, req Request, state State) Result {
	cfg, ok := Lookup(req.MovementType)
	if !ok {
		return Result{
			Success: false,
			Failures: []Failure{{
				Rule:    RuleSystem,
				Message: fmt.Sprintf("tipo de movimiento desconocido: %q", req.MovementType),
			}},
		}
	}

	var failures []Failure
	for _, rule := range cfg.Rules {
		if f := e.check(rule, cfg, ctx, req, state); f != nil {
			failures = append(failures, *f)
		}
	}
	return Result{Success: len(failures) == 0, Failures: failures}
}

// check despacha una regla a su verificación. Reglas no mapeadas pasan siempre
// (no-op, compatibilidad hacia adelante).
func (e *Engine) check(rule Rule, cfg Config, ctx Context, req Request, state State) *Failure {
	switch rule {
	case RuleStockAvailability:
		return checkStockAvailability(ctx, req, state)
	case RuleSerialUniqueness:
		return checkSerialUniqueness(cfg, req, state)
	case RuleLotExpiration:
		return e.checkLotExpiration(ctx, state)
	case RuleWarehouseActive:
		return checkWarehouseActive(state)
	case RuleRequireReason:
		return requireReason(req)
	case RuleRequireSource:
		return requireSource(req, state)
	case RuleRequireTarget:
		return requireTarget(req, state)
	case RuleRequireDocument:
		return requireDocument(req)
	default:
		return nil
	}
}

// checkStockAvailability verifica que haya suficiente para restar. Se omite
// para ítems de servicio y cuando el stock negativo está permitido (feature
// global u override del ítem). Quantity es magnitud positiva: la regla solo
// tiene sentido en tipos OUT/NEUTRAL, que son los que la declaran.
func checkStockAvailability(ctx Context, req Request, state State) *Failure {
	if state.Item != nil && state.Item.IsService {
		return nil
	}
	if ctx.Features.AllowNegativeStock {
		return nil
	}
	if state.Item != nil && state.Item.AllowNegativeStock {
		return nil
	}
	onHand := onHandOf(state)
	if onHand.LessThan(req.Quantity) {
		return &Failure{
			Rule:    RuleStockAvailability,
			Message: fmt.Sprintf("stock insuficiente: disponible %s, solicitado %s", onHand, req.Quantity),
			Meta: map[string]any{
				"on_hand":   onHand.String(),
				"requested": req.Quantity.String(),
			},
		}
	}
	return nil
}

// checkSerialUniqueness depende de la dirección. En entradas el serial no debe
// estar vivo en inventario (solo SOLD o NOT_FOUND permiten reingreso). En
// salidas/traslados, sin serial en la solicitud se asume ítem no serializado y
// la regla se omite; con serial, debe estar AVAILABLE.
func checkSerialUniqueness(cfg Config, req Request, state State) *Failure {
	if cfg.Direction == DirectionIn {
		if state.SerialStatus != "" && state.SerialStatus != entity.SerialSold && state.SerialStatus != entity.SerialNotFound {
			return &Failure{
				Rule:    RuleSerialUniqueness,
				Message: fmt.Sprintf("el serial %q ya existe en inventario (estado %s)", req.SerialNumber, state.SerialStatus),
				Meta:    map[string]any{"serial_status": state.SerialStatus},
			}
		}
		return nil
	}
	if req.SerialNumber == "" {
		return nil
	}
	if state.SerialStatus != entity.SerialAvailable {
		return &Failure{
			Rule:    RuleSerialUniqueness,
			Message: fmt.Sprintf("el serial %q no está disponible para salida (estado %s)", req.SerialNumber, state.SerialStatus),
			Meta:    map[string]any{"serial_status": state.SerialStatus},
		}
	}
	return nil
}

// checkLotExpiration bloquea lotes vencidos solo en perfiles donde el
// vencimiento es restrictivo (PHARMACY, RETAIL); en el resto es informativo.
func (e *Engine) checkLotExpiration(ctx Context, state State) *Failure {
	if state.LotExpiration == nil {
		return nil
	}
	if !state.LotExpiration.Before(e.now()) {
		return nil
	}
	if ctx.Profile != ProfilePharmacy && ctx.Profile != ProfileRetail {
		return nil
	}
	return &Failure{
		Rule:    RuleLotExpiration,
		Message: fmt.Sprintf("lote vencido el %s", state.LotExpiration.Format("2006-01-02")),
		Meta:    map[string]any{"expired_at": state.LotExpiration.Format(time.RFC3339)},
	}
}

// checkWarehouseActive falla si cualquier bodega resuelta (origen y/o destino)
// está inactiva o bloqueada (ej. en auditoría).
func checkWarehouseActive(state State) *Failure {
	check := func(label string, active, locked bool, name string) *Failure {
		if !active {
			return &Failure{
				Rule:    RuleWarehouseActive,
				Message: fmt.Sprintf("bodega %s %q inactiva", label, name),
			}
		}
		if locked {
			return &Failure{
				Rule:    RuleWarehouseActive,
				Message: fmt.Sprintf("bodega %s %q bloqueada", label, name),
			}
		}
		return nil
	}
	if state.SourceWarehouse != nil {
		if f := check("origen", state.SourceWarehouse.IsActive, state.SourceWarehouse.IsLocked, state.SourceWarehouse.Name); f != nil {
			return f
		}
	}
	if state.TargetWarehouse != nil {
		if f := check("destino", state.TargetWarehouse.IsActive, state.TargetWarehouse.IsLocked, state.TargetWarehouse.Name); f != nil {
			return f
		}
	}
	return nil
}

// requireReason exige un motivo no vacío (se descartan espacios).
func requireReason(req Request) *Failure {
	if strings.TrimSpace(req.Reason) == "" {
		return &Failure{Rule: RuleRequireReason, Message: "se requiere un motivo para este movimiento"}
	}
	return nil
}

// requireSource exige bodega de origen en la solicitud y en la foto de estado.
func requireSource(req Request, state State) *Failure {
	if req.FromWarehouse == "" || state.SourceWarehouse == nil {
		return &Failure{Rule: RuleRequireSource, Message: "bodega de origen requerida o no encontrada"}
	}
	return nil
}

// requireTarget exige bodega de destino en la solicitud y en la foto de estado.
func requireTarget(req Request, state State) *Failure {
	if req.ToWarehouse == "" || state.TargetWarehouse == nil {
		return &Failure{Rule: RuleRequireTarget, Message: "bodega de destino requerida o no encontrada"}
	}
	return nil
}

// requireDocument exige referencia documental (factura, orden, remisión).
func requireDocument(req Request) *Failure {
	if req.DocumentRef == "" {
		return &Failure{Rule: RuleRequireDocument, Message: "se requiere referencia de documento"}
	}
	return nil
}

// onHandOf devuelve la existencia a la mano de la foto de estado (cero si no hay fila).
func onHandOf(state State) decimal.Decimal {
	if state.Stock == nil {
		return decimal.Zero
	}
	return state.Stock.OnHand
}
