package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// IntakeRequest body para POST /api/warehouse.
type IntakeRequest struct {
	IDProduct   int64     `json:"id_product"`
	IDWarehouse int64     `json:"id_warehouse"`
	Amount      int       `json:"amount"`
	CreatedAt   time.Time `json:"created_at"`
}

// IntakeCreatedResponse respuesta 201 del ingreso.
type IntakeCreatedResponse struct {
	IDProductWarehouse int64 `json:"id_product_warehouse"`
}

// IntakeResponse salida de un ingreso registrado.
type IntakeResponse struct {
	IDProductWarehouse int64           `json:"id_product_warehouse"`
	IDOrder            int64           `json:"id_order"`
	IDProduct          int64           `json:"id_product"`
	IDWarehouse        int64           `json:"id_warehouse"`
	Amount             int             `json:"amount"`
	Price              decimal.Decimal `json:"price"`
	CreatedAt          time.Time       `json:"created_at"`
}
