package alerting

import (
	"sort"
	"strconv"
	"time"

	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
)

// Kind clasifica una alerta del feed.
type Kind string

// Tipos de alerta, de mayor a menor urgencia.
const (
	KindExpired      Kind = "EXPIRED"
	KindOutOfStock   Kind = "OUT_OF_STOCK"
	KindExpiringSoon Kind = "EXPIRING_SOON"
	KindLowStock     Kind = "LOW_STOCK"
)

// Severity devuelve el rango de urgencia del tipo (mayor = más urgente).
func (k Kind) Severity() int {
	switch k {
	case KindExpired:
		return 4
	case KindOutOfStock:
		return 3
	case KindExpiringSoon:
		return 2
	case KindLowStock:
		return 1
	}
	return 0
}

// Alert es un registro del feed: el sujeto (medicamento, y lote si aplica),
// el valor que disparó la alerta y los datos necesarios para ordenarla.
type Alert struct {
	Kind         Kind
	MedicineID   string
	SKU          string
	MedicineName string

	// Solo en alertas de vencimiento (EXPIRED / EXPIRING_SOON).
	BatchID    string
	BatchNo    string
	ExpiryDate time.Time
	BatchQty   int

	// Solo en alertas de stock (OUT_OF_STOCK / LOW_STOCK).
	TotalQuantity int
	ReorderLevel  int

	// Detail es el valor disparador en texto: cantidad total para alertas
	// de stock, fecha de vencimiento (YYYY-MM-DD) para las de fecha.
	Detail string
}

// BuildFeed clasifica el snapshot y devuelve la secuencia ordenada de
// alertas. Es idempotente: el mismo (snapshot, now, umbrales) produce
// siempre la misma secuencia, byte a byte.
//
// Orden: EXPIRED > OUT_OF_STOCK > EXPIRING_SOON > LOW_STOCK; dentro del
// mismo tipo, vencimiento ascendente para las de fecha y stock total
// ascendente para las de stock (lo más escaso primero), con desempate por
// SKU y número de lote para que el orden sea total.
func BuildFeed(snap Snapshot, now time.Time, th Thresholds) []Alert {
	totals := snap.TotalQuantities()

	medByID := make(map[string]entity.Medicine, len(snap.Medicines))
	for _, m := range snap.Medicines {
		medByID[m.ID] = m
	}

	feed := make([]Alert, 0, len(snap.Medicines)+len(snap.Batches))

	for _, m := range snap.Medicines {
		total := totals[m.ID]
		level := ReorderLevel(m, th)
		if OutOfStock(total) {
			feed = append(feed, Alert{
				Kind:          KindOutOfStock,
				MedicineID:    m.ID,
				SKU:           m.SKU,
				MedicineName:  m.Name,
				TotalQuantity: total,
				ReorderLevel:  level,
				Detail:        "0",
			})
		}
		if LowStock(total, level) {
			feed = append(feed, Alert{
				Kind:          KindLowStock,
				MedicineID:    m.ID,
				SKU:           m.SKU,
				MedicineName:  m.Name,
				TotalQuantity: total,
				ReorderLevel:  level,
				Detail:        strconv.Itoa(total),
			})
		}
	}

	for _, b := range snap.Batches {
		var kind Kind
		switch {
		case Expired(b, now):
			kind = KindExpired
		case Expiring(b, now, th.ExpiryWindowDays):
			kind = KindExpiringSoon
		default:
			continue
		}
		m := medByID[b.MedicineID]
		feed = append(feed, Alert{
			Kind:         kind,
			MedicineID:   b.MedicineID,
			SKU:          m.SKU,
			MedicineName: m.Name,
			BatchID:      b.ID,
			BatchNo:      b.BatchNo,
			ExpiryDate:   dateOnly(b.ExpiryDate),
			BatchQty:     b.Quantity,
			Detail:       dateOnly(b.ExpiryDate).Format("2006-01-02"),
		})
	}

	sort.SliceStable(feed, func(i, j int) bool {
		a, b := feed[i], feed[j]
		if a.Kind.Severity() != b.Kind.Severity() {
			return a.Kind.Severity() > b.Kind.Severity()
		}
		switch a.Kind {
		case KindExpired, KindExpiringSoon:
			if !a.ExpiryDate.Equal(b.ExpiryDate) {
				return a.ExpiryDate.Before(b.ExpiryDate)
			}
		default:
			if a.TotalQuantity != b.TotalQuantity {
				return a.TotalQuantity < b.TotalQuantity
			}
		}
		if a.SKU != b.SKU {
			return a.SKU < b.SKU
		}
		return a.BatchNo < b.BatchNo
	})

	return feed
}
