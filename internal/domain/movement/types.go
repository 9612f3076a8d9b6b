package movement

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/hubbi/inventario-core/internal/domain/entity"
)

// Dirección de un movimiento según el catálogo.
const (
	DirectionIn      = "IN"      // entrada: suma stock
	DirectionOut     = "OUT"     // salida: resta stock
	DirectionNeutral = "NEUTRAL" // traslado: el caller modela las dos patas
)

// Perfiles de negocio. Afectan reglas permisivas/estrictas (ej. vencimiento de lote).
const (
	ProfileGeneric  = "GENERIC"
	ProfileRetail   = "RETAIL"
	ProfileWorkshop = "WORKSHOP"
	ProfilePharmacy = "PHARMACY"
)

// Rule es un predicado de validación del catálogo (enumeración cerrada).
type Rule string

// Reglas de validación soportadas. Códigos no mapeados se tratan como no-op.
const (
	RuleStockAvailability Rule = "check_stock_availability"
	RuleSerialUniqueness  Rule = "check_serial_uniqueness"
	RuleLotExpiration     Rule = "check_lot_expiration"
	RuleWarehouseActive   Rule = "check_warehouse_active"
	RuleRequireReason     Rule = "require_reason"
	RuleRequireSource     Rule = "require_source_location"
	RuleRequireTarget     Rule = "require_target_location"
	RuleRequireDocument   Rule = "require_document_reference"

	// RuleSystem marca errores estructurales (código de movimiento desconocido),
	// no fallas de negocio.
	RuleSystem Rule = "system"
)

// Config describe un tipo de movimiento del catálogo: dirección, efectos y
// reglas de validación requeridas. Inmutable; cualquier cambio de semántica de
// movimientos se hace aquí, no en el motor.
type Config struct {
	Code              string
	Label             string
	Direction         string // IN, OUT, NEUTRAL
	Description       string
	AffectsCost       bool   // recalcula costo promedio al confirmar
	IsSystemGenerated bool   // generado por otro módulo (ventas, compras)
	Rules             []Rule // evaluadas en orden de declaración
	ReversibleBy      string // código del movimiento inverso, vacío si no aplica
}

// Features flags de funcionalidad del entorno que validamos.
type Features struct {
	AllowNegativeStock bool
	SerialTracking     bool
	BatchTracking      bool
}

// ApprovalPolicy parametriza el enrutamiento de aprobaciones para salidas de
// alto valor. El valor cero usa los defaults (umbral 100, ADMIN/SUPERVISOR).
type ApprovalPolicy struct {
	Threshold     decimal.Decimal
	ElevatedRoles []string
}

// DefaultApprovalPolicy devuelve la política por defecto.
func DefaultApprovalPolicy() ApprovalPolicy {
	return ApprovalPolicy{
		Threshold:     decimal.NewFromInt(100),
		ElevatedRoles: []string{entity.RoleAdmin, entity.RoleSupervisor},
	}
}

// IsElevated indica si el rol puede auto-aprobar salidas sobre el umbral.
func (p ApprovalPolicy) IsElevated(role string) bool {
	for _, r := range p.ElevatedRoles {
		if r == role {
			return true
		}
	}
	return false
}

// Context es la foto de actor/entorno por petición. No se persiste; se
// construye fresca en cada llamada al motor o al transaction manager.
type Context struct {
	Profile  string // GENERIC, RETAIL, WORKSHOP, PHARMACY
	Features Features
	UserRole string
	Approval ApprovalPolicy
}

// ApprovalOrDefault devuelve la política configurada o la default si está vacía.
func (c Context) ApprovalOrDefault() ApprovalPolicy {
	if len(c.Approval.ElevatedRoles) == 0 && c.Approval.Threshold.IsZero() {
		return DefaultApprovalPolicy()
	}
	return c.Approval
}

// State es la foto de solo lectura del inventario actual, armada por el data
// provider una vez por validación/preparación y descartada después.
type State struct {
	Item            *entity.Item
	SourceWarehouse *entity.Warehouse
	TargetWarehouse *entity.Warehouse
	Stock           *entity.Stock
	SerialStatus    string     // vacío = sin serial consultado
	LotExpiration   *time.Time // nil = sin lote o sin vencimiento
}

// Request es la solicitud de movimiento. Quantity siempre es magnitud positiva;
// la dirección la decide el catálogo, no el signo. UnitCost es el costo de
// entrada del documento (compras); nil = usar el costo promedio del ítem.
type Request struct {
	MovementType  string
	ItemID        string
	Quantity      decimal.Decimal
	UnitCost      *decimal.Decimal
	FromWarehouse string
	ToWarehouse   string
	SerialNumber  string
	LotNumber     string
	DocumentRef   string
	Reason        string
	Timestamp     time.Time
}

// ResolvedWarehouse devuelve la bodega relevante para la foto de stock:
// origen si existe, si no destino.
func (r Request) ResolvedWarehouse() string {
	if r.FromWarehouse != "" {
		return r.FromWarehouse
	}
	return r.ToWarehouse
}

// Failure es una violación de regla, reportada como dato (nunca como panic/error).
type Failure struct {
	Rule    Rule           `json:"rule"`
	Message string         `json:"message"`
	Meta    map[string]any `json:"meta,omitempty"`
}

// Result acumula todas las fallas aplicables; la evaluación no corta en la primera.
type Result struct {
	Success  bool      `json:"success"`
	Failures []Failure `json:"failures,omitempty"`
}

// Messages devuelve los mensajes de falla en orden de evaluación.
func (r Result) Messages() []string {
	msgs := make([]string, 0, len(r.Failures))
	for _, f := range r.Failures {
		msgs = append(msgs, f.Message)
	}
	return msgs
}

// Effects son los efectos numéricos calculados en la preparación.
type Effects struct {
	StockDelta      decimal.Decimal `json:"stock_delta"`
	PriorOnHand     decimal.Decimal `json:"prior_on_hand"`
	NewOnHand       decimal.Decimal `json:"new_on_hand"`
	FinancialImpact decimal.Decimal `json:"financial_impact"`
}

// PreparedTransaction es la salida de la fase prepare: solicitud validada,
// efectos calculados y estado de aprobación. Solo existe en memoria hasta que
// un commit exitoso la persista.
type PreparedTransaction struct {
	ID             string
	CompanyID      string
	UserID         string
	Request        Request
	Validation     Result
	Effects        Effects
	ApprovalStatus string // APPROVED o PENDING
	UnitCost       decimal.Decimal
	PreparedAt     time.Time
}
