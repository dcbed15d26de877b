package entity

import "time"

// Estados de una alerta persistida.
const (
	AlertActive   = "ACTIVE"
	AlertResolved = "RESOLVED"
)

// Alert es el historial persistido de alertas de inventario. El feed se
// recalcula en cada petición; la reconciliación (set-diff contra las alertas
// ACTIVE) inserta las nuevas y marca RESOLVED las que ya no aplican.
type Alert struct {
	ID         string
	MedicineID string
	BatchID    string // vacío para alertas de stock (LOW_STOCK / OUT_OF_STOCK)
	Kind       string // LOW_STOCK | OUT_OF_STOCK | EXPIRING_SOON | EXPIRED
	Message    string
	Status     string // ACTIVE | RESOLVED
	CreatedAt  time.Time
	ResolvedAt *time.Time
}
