package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item representa un producto o SKU del inventario (multi-bodega).
// AverageCost es promedio ponderado calculado desde movimientos de entrada;
// el stock se maneja por bodega en Stock.
type Item struct {
	ID                 string
	CompanyID          string
	SKU                string // código único por empresa
	Name               string
	Description        string
	IsActive           bool
	IsService          bool // servicios no manejan stock físico
	IsKit              bool // kit/combo: stock derivado de componentes
	AverageCost        decimal.Decimal
	Price              decimal.Decimal
	ReorderPoint       decimal.Decimal
	AllowNegativeStock bool // override por ítem sobre la feature global
	SerialTracked      bool
	LotTracked         bool
	UnitMeasure        string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
