package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Batch representa un lote recibido de un medicamento, con su propio
// vencimiento y cantidad. Pertenece a exactamente un Medicine y un Supplier
// (FK con borrado en cascada). La pareja (MedicineID, BatchNo) es única;
// el orden natural es por ExpiryDate ascendente.
type Batch struct {
	ID            string
	MedicineID    string
	SupplierID    string
	BatchNo       string
	ExpiryDate    time.Time // solo la fecha es significativa (00:00 UTC)
	Quantity      int       // unidades en el lote, nunca negativo
	Unit          string    // etiqueta libre: tabletas, viales, ampollas...
	PurchasePrice decimal.Decimal
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
