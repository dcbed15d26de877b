// Package alerting implementa el motor de agregación de stock y el
// constructor del feed de alertas (servicio de dominio puro).
//
// El motor nunca escribe: dado (snapshot, now, umbrales) el resultado es
// siempre el mismo, lo que permite testearlo con fixtures en memoria sin
// base de datos.
package alerting

import (
	"time"

	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
)

// Umbrales por defecto del sistema.
const (
	DefaultReorderLevel    = 100
	DefaultExpiryWindowDays = 30
)

// Thresholds configura la clasificación: umbral de reposición por defecto
// (aplica cuando el medicamento no define el suyo) y ventana de vencimiento.
type Thresholds struct {
	DefaultReorderLevel int
	ExpiryWindowDays    int
}

// DefaultThresholds devuelve los umbrales estándar del sistema.
func DefaultThresholds() Thresholds {
	return Thresholds{
		DefaultReorderLevel: DefaultReorderLevel,
		ExpiryWindowDays:    DefaultExpiryWindowDays,
	}
}

// Snapshot es la vista consistente del inventario sobre la que se clasifica.
// Los lotes siempre referencian medicamentos existentes (FK garantizada por
// el Entity Store); el motor asume esa invariante.
type Snapshot struct {
	Medicines []entity.Medicine
	Batches   []entity.Batch
}

// TotalQuantities calcula el stock total por medicamento como la suma exacta
// de las cantidades de sus lotes. Un medicamento sin lotes suma cero, nunca
// es un error. El resultado es independiente del orden de los lotes.
func (s Snapshot) TotalQuantities() map[string]int {
	totals := make(map[string]int, len(s.Medicines))
	for _, m := range s.Medicines {
		totals[m.ID] = 0
	}
	for _, b := range s.Batches {
		totals[b.MedicineID] += b.Quantity
	}
	return totals
}

// ReorderLevel devuelve el umbral de reposición efectivo del medicamento:
// el propio si está definido, el del sistema si no.
func ReorderLevel(m entity.Medicine, th Thresholds) int {
	if m.ReorderLevel != nil {
		return *m.ReorderLevel
	}
	return th.DefaultReorderLevel
}

// LowStock indica stock total en o bajo el umbral de reposición.
func LowStock(total, reorderLevel int) bool {
	return total <= reorderLevel
}

// OutOfStock indica stock total exactamente cero.
func OutOfStock(total int) bool {
	return total == 0
}

// DaysUntilExpiry devuelve los días calendario entre hoy y el vencimiento
// del lote. Negativo si ya venció. Solo cuenta la fecha, no la hora.
func DaysUntilExpiry(b entity.Batch, now time.Time) int {
	return int(dateOnly(b.ExpiryDate).Sub(dateOnly(now)).Hours() / 24)
}

// Expiring indica vencimiento dentro de [hoy, hoy+windowDays] inclusive.
// Un lote que vence hoy es "por vencer", no "vencido".
func Expiring(b entity.Batch, now time.Time, windowDays int) bool {
	d := DaysUntilExpiry(b, now)
	return d >= 0 && d <= windowDays
}

// Expired indica vencimiento estrictamente anterior a hoy.
func Expired(b entity.Batch, now time.Time) bool {
	return DaysUntilExpiry(b, now) < 0
}

// dateOnly trunca a medianoche UTC para comparar fechas de calendario.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
