package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de aprobación de un movimiento.
const (
	ApprovalApproved = "APPROVED"
	ApprovalPending  = "PENDING"
)

// Movement es el registro persistido de un movimiento de inventario (libro mayor).
// Quantity se guarda con signo: positivo entrada, negativo salida.
type Movement struct {
	ID             string
	TransactionID  string
	CompanyID      string
	ItemID         string
	WarehouseID    string
	Type           string // código del catálogo (PURCHASE_RECEIPT, SALE_ISSUE, ...)
	Quantity       decimal.Decimal
	UnitCost       decimal.Decimal
	TotalCost      decimal.Decimal
	SerialNumber   string
	LotNumber      string
	DocumentRef    string
	Reason         string
	ApprovalStatus string
	Date           time.Time
	CreatedAt      time.Time
	CreatedBy      string
}
