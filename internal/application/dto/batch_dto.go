package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateBatchRequest entrada para crear un lote. MedicineID y SupplierID
// deben existir; la pareja (medicine_id, batch_no) es única.
type CreateBatchRequest struct {
	MedicineID    string          `json:"medicine_id" validate:"required,uuid"`
	SupplierID    string          `json:"supplier_id" validate:"required,uuid"`
	BatchNo       string          `json:"batch_no" validate:"required,min=1,max=50"`
	ExpiryDate    string          `json:"expiry_date" validate:"required"` // YYYY-MM-DD
	Quantity      int             `json:"quantity" validate:"min=0"`
	Unit          string          `json:"unit" validate:"required,max=20"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
}

// UpdateBatchRequest entrada para editar un lote. La identidad
// (medicine_id, batch_no) es inmutable; solo cantidad, precio y vencimiento.
type UpdateBatchRequest struct {
	ExpiryDate    *string          `json:"expiry_date"` // YYYY-MM-DD
	Quantity      *int             `json:"quantity" validate:"omitempty,min=0"`
	Unit          *string          `json:"unit"`
	PurchasePrice *decimal.Decimal `json:"purchase_price"`
}

// BatchResponse salida de un lote.
type BatchResponse struct {
	ID            string          `json:"id"`
	MedicineID    string          `json:"medicine_id"`
	SupplierID    string          `json:"supplier_id"`
	BatchNo       string          `json:"batch_no"`
	ExpiryDate    string          `json:"expiry_date"` // YYYY-MM-DD
	Quantity      int             `json:"quantity"`
	Unit          string          `json:"unit"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// BatchListResponse lista paginada de lotes (orden natural: vencimiento asc).
type BatchListResponse struct {
	Items []BatchResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}
