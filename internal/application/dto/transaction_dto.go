package dto

import "time"

// RegisterTransactionRequest entrada para registrar un movimiento de stock
// sobre un lote. Para IN/OUT Quantity es positiva y el signo lo decide Type;
// para ADJUSTMENT Quantity es la cantidad absoluta resultante (≥ 0).
type RegisterTransactionRequest struct {
	BatchID  string `json:"batch_id" validate:"required,uuid"`
	Type     string `json:"type" validate:"required,oneof=IN OUT ADJUSTMENT"`
	Quantity int    `json:"quantity" validate:"min=0"`
	Notes    string `json:"notes"`
}

// TransactionResponse salida de un movimiento registrado.
type TransactionResponse struct {
	ID         string    `json:"id"`
	MedicineID string    `json:"medicine_id"`
	BatchID    string    `json:"batch_id"`
	Type       string    `json:"type"`
	Quantity   int       `json:"quantity"`
	Notes      string    `json:"notes,omitempty"`
	UserID     string    `json:"user_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	// BatchQuantity es la cantidad del lote después de aplicar el movimiento.
	// Solo se llena al registrar; el historial no la recalcula.
	BatchQuantity int `json:"batch_quantity,omitempty"`
}
