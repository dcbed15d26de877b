package entity

import "time"

// Tipos de transacción de stock.
const (
	TransactionIn         = "IN"
	TransactionOut        = "OUT"
	TransactionAdjustment = "ADJUSTMENT"
)

// Transaction es el libro mayor de movimientos de stock: cada entrada, salida
// o ajuste sobre un lote queda registrado aquí. La cantidad del lote se
// actualiza en la misma transacción de BD que inserta este registro.
type Transaction struct {
	ID         string
	MedicineID string
	BatchID    string
	Type       string // IN | OUT | ADJUSTMENT
	Quantity   int    // siempre positivo; el signo lo determina Type
	Notes      string
	UserID     string
	CreatedAt  time.Time
}
