package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/hubbi/inventario-core/internal/domain/entity"
	"github.com/hubbi/inventario-core/internal/domain/movement"
)

// MovementRequestDTO body para validar/preparar/registrar un movimiento.
// quantity es magnitud positiva; la dirección la determina el tipo.
type MovementRequestDTO struct {
	MovementType  string           `json:"movement_type"`
	ItemID        string           `json:"item_id"`
	Quantity      decimal.Decimal  `json:"quantity"`
	UnitCost      *decimal.Decimal `json:"unit_cost,omitempty"`
	FromWarehouse string           `json:"from_warehouse_id,omitempty"`
	ToWarehouse   string           `json:"to_warehouse_id,omitempty"`
	SerialNumber  string           `json:"serial_number,omitempty"`
	LotNumber     string           `json:"lot_number,omitempty"`
	DocumentRef   string           `json:"document_ref,omitempty"`
	Reason        string           `json:"reason,omitempty"`
	Timestamp     *time.Time       `json:"timestamp,omitempty"`
}

// ToDomain convierte el body en la solicitud de dominio.
func (d MovementRequestDTO) ToDomain() movement.Request {
	ts := time.Now()
	if d.Timestamp != nil {
		ts = *d.Timestamp
	}
	return movement.Request{
		MovementType:  d.MovementType,
		ItemID:        d.ItemID,
		Quantity:      d.Quantity,
		UnitCost:      d.UnitCost,
		FromWarehouse: d.FromWarehouse,
		ToWarehouse:   d.ToWarehouse,
		SerialNumber:  d.SerialNumber,
		LotNumber:     d.LotNumber,
		DocumentRef:   d.DocumentRef,
		Reason:        d.Reason,
		Timestamp:     ts,
	}
}

// BatchMovementRequestDTO body para registrar varios movimientos en lote.
type BatchMovementRequestDTO struct {
	Movements []MovementRequestDTO `json:"movements"`
}

// ValidationResultDTO resultado detallado por regla (para la UI del plugin).
type ValidationResultDTO struct {
	Success  bool               `json:"success"`
	Failures []movement.Failure `json:"failures,omitempty"`
}

// EffectsDTO efectos numéricos calculados en prepare.
type EffectsDTO struct {
	StockDelta      decimal.Decimal `json:"stock_delta"`
	PriorOnHand     decimal.Decimal `json:"prior_on_hand"`
	NewOnHand       decimal.Decimal `json:"new_on_hand"`
	FinancialImpact decimal.Decimal `json:"financial_impact"`
}

// PreparedTransactionDTO respuesta de prepare (aún sin persistir).
type PreparedTransactionDTO struct {
	ID             string     `json:"id"`
	MovementType   string     `json:"movement_type"`
	ItemID         string     `json:"item_id"`
	Effects        EffectsDTO `json:"effects"`
	ApprovalStatus string     `json:"approval_status"`
	PreparedAt     time.Time  `json:"prepared_at"`
}

// FromPrepared mapea la transacción preparada al DTO de respuesta.
func FromPrepared(tx *movement.PreparedTransaction) PreparedTransactionDTO {
	return PreparedTransactionDTO{
		ID:           tx.ID,
		MovementType: tx.Request.MovementType,
		ItemID:       tx.Request.ItemID,
		Effects: EffectsDTO{
			StockDelta:      tx.Effects.StockDelta,
			PriorOnHand:     tx.Effects.PriorOnHand,
			NewOnHand:       tx.Effects.NewOnHand,
			FinancialImpact: tx.Effects.FinancialImpact,
		},
		ApprovalStatus: tx.ApprovalStatus,
		PreparedAt:     tx.PreparedAt,
	}
}

// MovementDTO fila del libro de movimientos para listados.
type MovementDTO struct {
	ID             string          `json:"id"`
	TransactionID  string          `json:"transaction_id,omitempty"`
	ItemID         string          `json:"item_id"`
	WarehouseID    string          `json:"warehouse_id"`
	Type           string          `json:"type"`
	Quantity       decimal.Decimal `json:"quantity"`
	UnitCost       decimal.Decimal `json:"unit_cost"`
	TotalCost      decimal.Decimal `json:"total_cost"`
	SerialNumber   string          `json:"serial_number,omitempty"`
	LotNumber      string          `json:"lot_number,omitempty"`
	DocumentRef    string          `json:"document_ref,omitempty"`
	Reason         string          `json:"reason,omitempty"`
	ApprovalStatus string          `json:"approval_status"`
	Date           time.Time       `json:"date"`
	CreatedBy      string          `json:"created_by,omitempty"`
}

// FromMovement mapea la entidad persistida al DTO de listado.
func FromMovement(m *entity.Movement) MovementDTO {
	return MovementDTO{
		ID:             m.ID,
		TransactionID:  m.TransactionID,
		ItemID:         m.ItemID,
		WarehouseID:    m.WarehouseID,
		Type:           m.Type,
		Quantity:       m.Quantity,
		UnitCost:       m.UnitCost,
		TotalCost:      m.TotalCost,
		SerialNumber:   m.SerialNumber,
		LotNumber:      m.LotNumber,
		DocumentRef:    m.DocumentRef,
		Reason:         m.Reason,
		ApprovalStatus: m.ApprovalStatus,
		Date:           m.Date,
		CreatedBy:      m.CreatedBy,
	}
}

// MovementTypeDTO entrada del catálogo expuesta a la UI.
type MovementTypeDTO struct {
	Code              string   `json:"code"`
	Label             string   `json:"label"`
	Direction         string   `json:"direction"`
	Description       string   `json:"description"`
	AffectsCost       bool     `json:"affects_cost"`
	IsSystemGenerated bool     `json:"is_system_generated"`
	Rules             []string `json:"rules"`
	ReversibleBy      string   `json:"reversible_by,omitempty"`
}

// StockAlertDTO alerta de stock bajo para las pantallas de bodega.
type StockAlertDTO struct {
	ItemID        string          `json:"item_id"`
	SKU           string          `json:"sku"`
	ItemName      string          `json:"item_name"`
	WarehouseID   string          `json:"warehouse_id"`
	OnHand        decimal.Decimal `json:"on_hand"`
	ReorderPoint  decimal.Decimal `json:"reorder_point"`
	Deficit       decimal.Decimal `json:"deficit"`
	SuggestedQty  decimal.Decimal `json:"suggested_qty"`
	EstimatedCost decimal.Decimal `json:"estimated_cost"`
}
