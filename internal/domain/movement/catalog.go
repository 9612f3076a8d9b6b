package movement

// Códigos de movimiento del catálogo.
const (
	TypePurchaseReceipt = "PURCHASE_RECEIPT"
	TypePurchaseReturn  = "PURCHASE_RETURN"
	TypeSaleIssue       = "SALE_ISSUE"
	TypeSaleReturn      = "SALE_RETURN"
	TypeTransfer        = "TRANSFER"
	TypeAdjustmentIn    = "ADJUSTMENT_IN"
	TypeAdjustmentOut   = "ADJUSTMENT_OUT"
	TypeLossAndDamage   = "LOSS_AND_DAMAGE"
	TypeInitialBalance  = "INITIAL_BALANCE"
)

// Catalog es el registro estático de tipos de movimiento: fuente única de
// verdad sobre qué reglas aplican a cada tipo y qué dirección implica.
// Solo datos, sin comportamiento más allá del lookup.
var Catalog = map[string]Config{
	TypePurchaseReceipt: {
		Code:        TypePurchaseReceipt,
		Label:       "Entrada por compra",
		Direction:   DirectionIn,
		Description: "Recepción de mercancía contra orden de compra",
		AffectsCost: true,
		Rules: []Rule{
			RuleRequireTarget,
			RuleWarehouseActive,
			RuleRequireDocument,
			RuleSerialUniqueness,
			RuleLotExpiration,
		},
		ReversibleBy: TypePurchaseReturn,
	},
	TypePurchaseReturn: {
		Code:        TypePurchaseReturn,
		Label:       "Devolución a proveedor",
		Direction:   DirectionOut,
		Description: "Salida de mercancía devuelta al proveedor",
		Rules: []Rule{
			RuleRequireSource,
			RuleWarehouseActive,
			RuleStockAvailability,
			RuleRequireDocument,
			RuleRequireReason,
		},
	},
	TypeSaleIssue: {
		Code:              TypeSaleIssue,
		Label:             "Salida por venta",
		Direction:         DirectionOut,
		Description:       "Descarga de stock generada por una venta",
		IsSystemGenerated: true,
		Rules: []Rule{
			RuleRequireSource,
			RuleWarehouseActive,
			RuleStockAvailability,
			RuleSerialUniqueness,
			RuleLotExpiration,
			RuleRequireDocument,
		},
		ReversibleBy: TypeSaleReturn,
	},
	TypeSaleReturn: {
		Code:              TypeSaleReturn,
		Label:             "Devolución de venta",
		Direction:         DirectionIn,
		Description:       "Reingreso de mercancía devuelta por el cliente",
		IsSystemGenerated: true,
		Rules: []Rule{
			RuleRequireTarget,
			RuleWarehouseActive,
			RuleSerialUniqueness,
			RuleRequireDocument,
			RuleRequireReason,
		},
	},
	TypeTransfer: {
		Code:        TypeTransfer,
		Label:       "Traslado entre bodegas",
		Direction:   DirectionNeutral,
		Description: "Movimiento entre bodegas; el caller registra las dos patas",
		Rules: []Rule{
			RuleRequireSource,
			RuleRequireTarget,
			RuleWarehouseActive,
			RuleStockAvailability,
			RuleSerialUniqueness,
		},
	},
	TypeAdjustmentIn: {
		Code:        TypeAdjustmentIn,
		Label:       "Ajuste positivo",
		Direction:   DirectionIn,
		Description: "Ajuste de inventario que suma existencias",
		AffectsCost: true,
		Rules: []Rule{
			RuleRequireTarget,
			RuleWarehouseActive,
			RuleRequireReason,
		},
		ReversibleBy: TypeAdjustmentOut,
	},
	TypeAdjustmentOut: {
		Code:        TypeAdjustmentOut,
		Label:       "Ajuste negativo",
		Direction:   DirectionOut,
		Description: "Ajuste de inventario que resta existencias",
		Rules: []Rule{
			RuleRequireSource,
			RuleWarehouseActive,
			RuleStockAvailability,
			RuleRequireReason,
		},
		ReversibleBy: TypeAdjustmentIn,
	},
	TypeLossAndDamage: {
		Code:        TypeLossAndDamage,
		Label:       "Pérdida o avería",
		Direction:   DirectionOut,
		Description: "Baja por pérdida, daño o merma",
		Rules: []Rule{
			RuleRequireSource,
			RuleWarehouseActive,
			RuleStockAvailability,
			RuleRequireReason,
		},
	},
	TypeInitialBalance: {
		Code:              TypeInitialBalance,
		Label:             "Saldo inicial",
		Direction:         DirectionIn,
		Description:       "Carga inicial de existencias al habilitar la bodega",
		AffectsCost:       true,
		IsSystemGenerated: true,
		Rules: []Rule{
			RuleRequireTarget,
			RuleWarehouseActive,
		},
	},
}

// Lookup devuelve la configuración del tipo de movimiento y si existe.
func Lookup(code string) (Config, bool) {
	cfg, ok := Catalog[code]
	return cfg, ok
}

// Codes devuelve los códigos conocidos (orden no garantizado).
func Codes() []string {
	codes := make([]string, 0, len(Catalog))
	for code := range Catalog {
		codes = append(codes, code)
	}
	return codes
}
