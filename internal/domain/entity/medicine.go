package entity

import "time"

// Medicine representa un medicamento del catálogo de la farmacia.
// El stock NUNCA se almacena aquí: siempre se deriva de los lotes (Batch).
// ReorderLevel es el umbral de reposición por medicamento; nil significa
// "usar el umbral por defecto del sistema" (config ALERTS_REORDER_LEVEL).
type Medicine struct {
	ID          string
	SKU         string // código único en todo el catálogo
	Name        string
	Category    string
	Description string
	ReorderLevel *int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
