package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// IntakeRecorded evento publicado después de confirmar un ingreso a bodega.
type IntakeRecorded struct {
	EventID            string          `json:"event_id"`
	ProductWarehouseID int64           `json:"id_product_warehouse"`
	OrderID            int64           `json:"id_order"`
	ProductID          int64           `json:"id_product"`
	WarehouseID        int64           `json:"id_warehouse"`
	Amount             int             `json:"amount"`
	Price              decimal.Decimal `json:"price"`
	OccurredAt         time.Time       `json:"occurred_at"`
}
