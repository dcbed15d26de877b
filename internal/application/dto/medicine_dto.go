package dto

import "time"

// CreateMedicineRequest entrada para crear un medicamento.
type CreateMedicineRequest struct {
	SKU          string `json:"sku" validate:"required,min=1,max=50"`
	Name         string `json:"name" validate:"required,min=1,max=100"`
	Category     string `json:"category" validate:"required,max=50"`
	Description  string `json:"description"`
	ReorderLevel *int   `json:"reorder_level" validate:"omitempty,min=0"`
}

// UpdateMedicineRequest entrada para actualizar un medicamento (SKU inmutable).
type UpdateMedicineRequest struct {
	Name         *string `json:"name" validate:"omitempty,min=1,max=100"`
	Category     *string `json:"category"`
	Description  *string `json:"description"`
	ReorderLevel *int    `json:"reorder_level" validate:"omitempty,min=0"`
}

// MedicineResponse salida de un medicamento. TotalQuantity es derivado de
// sus lotes (cero si no tiene); nunca se almacena.
type MedicineResponse struct {
	ID            string    `json:"id"`
	SKU           string    `json:"sku"`
	Name          string    `json:"name"`
	Category      string    `json:"category"`
	Description   string    `json:"description"`
	ReorderLevel  *int      `json:"reorder_level,omitempty"`
	TotalQuantity int       `json:"total_quantity"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// MedicineListResponse lista paginada de medicamentos.
type MedicineListResponse struct {
	Items []MedicineResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
