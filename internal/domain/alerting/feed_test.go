package alerting_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Farmacia-api/internal/domain/alerting"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fixtures en memoria: el motor es puro, no necesita base de datos.
// ──────────────────────────────────────────────────────────────────────────────

var testNow = time.Date(2026, 8, 30, 15, 42, 0, 0, time.UTC)

func intPtr(n int) *int { return &n }

func medicina(id, sku, name string, reorder *int) entity.Medicine {
	return entity.Medicine{ID: id, SKU: sku, Name: name, Category: "OTHER", ReorderLevel: reorder}
}

func lote(id, medID, batchNo string, qty int, expiry time.Time) entity.Batch {
	return entity.Batch{ID: id, MedicineID: medID, SupplierID: "sup-1", BatchNo: batchNo, Quantity: qty, Unit: "tabletas", ExpiryDate: expiry}
}

func diasDesdeHoy(d int) time.Time {
	return time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC).AddDate(0, 0, d)
}

// ──────────────────────────────────────────────────────────────────────────────
// Agregación: TotalQuantities
// ──────────────────────────────────────────────────────────────────────────────

// Un medicamento sin lotes suma cero, no es error ni null.
func TestTotalQuantities_MedicamentoSinLotes_SumaCero(t *testing.T) {
	snap := alerting.Snapshot{
		Medicines: []entity.Medicine{medicina("m1", "MED001", "Ibuprofeno", nil)},
	}
	totals := snap.TotalQuantities()
	qty, ok := totals["m1"]
	require.True(t, ok, "el medicamento sin lotes debe aparecer en el mapa")
	assert.Equal(t, 0, qty)
	assert.True(t, alerting.OutOfStock(qty), "sin lotes debe clasificar como agotado")
}

// La suma es invariante ante el orden de inserción de los lotes.
func TestTotalQuantities_InvarianteAlOrdenDeLotes(t *testing.T) {
	meds := []entity.Medicine{medicina("m1", "MED001", "Amoxicilina", nil)}
	b1 := lote("b1", "m1", "L-001", 30, diasDesdeHoy(90))
	b2 := lote("b2", "m1", "L-002", 45, diasDesdeHoy(120))
	b3 := lote("b3", "m1", "L-003", 25, diasDesdeHoy(200))

	ordenA := alerting.Snapshot{Medicines: meds, Batches: []entity.Batch{b1, b2, b3}}
	ordenB := alerting.Snapshot{Medicines: meds, Batches: []entity.Batch{b3, b1, b2}}

	assert.Equal(t, 100, ordenA.TotalQuantities()["m1"])
	assert.Equal(t, ordenA.TotalQuantities(), ordenB.TotalQuantities(),
		"la suma no debe depender del orden de los lotes")
}

// ──────────────────────────────────────────────────────────────────────────────
// Clasificación de vencimiento: fronteras exactas
// ──────────────────────────────────────────────────────────────────────────────

// Un lote que vence HOY es "por vencer", no "vencido"; uno que venció ayer
// es "vencido".
func TestClasificacion_FronteraHoyVsAyer(t *testing.T) {
	venceHoy := lote("b1", "m1", "L-HOY", 10, diasDesdeHoy(0))
	vencioAyer := lote("b2", "m1", "L-AYER", 10, diasDesdeHoy(-1))

	assert.True(t, alerting.Expiring(venceHoy, testNow, 30), "vence hoy → EXPIRING_SOON")
	assert.False(t, alerting.Expired(venceHoy, testNow), "vence hoy no es EXPIRED")

	assert.True(t, alerting.Expired(vencioAyer, testNow), "venció ayer → EXPIRED")
	assert.False(t, alerting.Expiring(vencioAyer, testNow, 30), "venció ayer no es EXPIRING_SOON")
}

// El límite superior de la ventana es inclusivo y configurable: un lote a
// 15 días entra con ventana de 30 pero no con ventana de 10.
func TestClasificacion_VentanaConfigurable(t *testing.T) {
	b := lote("b1", "m1", "L-015", 10, diasDesdeHoy(15))

	assert.True(t, alerting.Expiring(b, testNow, 30))
	assert.False(t, alerting.Expiring(b, testNow, 10))

	justoEnElBorde := lote("b2", "m1", "L-030", 10, diasDesdeHoy(30))
	assert.True(t, alerting.Expiring(justoEnElBorde, testNow, 30),
		"la ventana es inclusiva en su último día")
}

// ──────────────────────────────────────────────────────────────────────────────
// BuildFeed: escenarios del tablero de alertas
// ──────────────────────────────────────────────────────────────────────────────

// Paracetamol con reorder_level=200 y lotes que suman 50 → LOW_STOCK con
// detalle "50".
func TestBuildFeed_ParacetamolBajoStock(t *testing.T) {
	snap := alerting.Snapshot{
		Medicines: []entity.Medicine{medicina("m1", "MED001", "Paracetamol", intPtr(200))},
		Batches: []entity.Batch{
			lote("b1", "m1", "L-001", 30, diasDesdeHoy(180)),
			lote("b2", "m1", "L-002", 20, diasDesdeHoy(240)),
		},
	}
	feed := alerting.BuildFeed(snap, testNow, alerting.DefaultThresholds())

	require.Len(t, feed, 1)
	assert.Equal(t, alerting.KindLowStock, feed[0].Kind)
	assert.Equal(t, "50", feed[0].Detail)
	assert.Equal(t, 50, feed[0].TotalQuantity)
	assert.Equal(t, 200, feed[0].ReorderLevel)
	assert.Equal(t, "Paracetamol", feed[0].MedicineName)
}

// Un medicamento sin lotes aparece como OUT_OF_STOCK y LOW_STOCK, con
// OUT_OF_STOCK primero (mayor severidad).
func TestBuildFeed_SinLotes_AgotadoYBajoStock(t *testing.T) {
	snap := alerting.Snapshot{
		Medicines: []entity.Medicine{medicina("m1", "MED002", "Ibuprofeno", nil)},
	}
	feed := alerting.BuildFeed(snap, testNow, alerting.DefaultThresholds())

	require.Len(t, feed, 2)
	assert.Equal(t, alerting.KindOutOfStock, feed[0].Kind, "OUT_OF_STOCK debe ir primero")
	assert.Equal(t, alerting.KindLowStock, feed[1].Kind)
	assert.Equal(t, "0", feed[0].Detail)
}

// El umbral por defecto del sistema aplica cuando el medicamento no define
// el suyo; un umbral ≤ 0 por medicamento desactiva LOW_STOCK salvo agotado.
func TestBuildFeed_UmbralPorDefectoYUmbralCero(t *testing.T) {
	snap := alerting.Snapshot{
		Medicines: []entity.Medicine{
			medicina("m1", "MED001", "Loratadina", nil),       // usa el default (100)
			medicina("m2", "MED002", "Omeprazol", intPtr(0)),  // umbral 0: solo agotado dispararía
		},
		Batches: []entity.Batch{
			lote("b1", "m1", "L-001", 80, diasDesdeHoy(300)),
			lote("b2", "m2", "L-002", 5, diasDesdeHoy(300)),
		},
	}
	feed := alerting.BuildFeed(snap, testNow, alerting.DefaultThresholds())

	require.Len(t, feed, 1)
	assert.Equal(t, alerting.KindLowStock, feed[0].Kind)
	assert.Equal(t, "MED001", feed[0].SKU, "solo el que usa el umbral default debe alertar")
}

// Invariante de orden: para cualquier par de alertas del feed, mayor
// severidad siempre aparece antes; dentro del mismo tipo, vencimiento
// ascendente (fecha) o stock ascendente (cantidad).
func TestBuildFeed_InvarianteDeOrden(t *testing.T) {
	snap := alerting.Snapshot{
		Medicines: []entity.Medicine{
			medicina("m1", "MED001", "Paracetamol", intPtr(200)),
			medicina("m2", "MED002", "Ibuprofeno", nil),
			medicina("m3", "MED003", "Amoxicilina", intPtr(10)),
		},
		Batches: []entity.Batch{
			lote("b1", "m1", "L-001", 50, diasDesdeHoy(5)),
			lote("b2", "m1", "L-002", 10, diasDesdeHoy(-3)),
			lote("b3", "m3", "L-003", 40, diasDesdeHoy(20)),
			lote("b4", "m3", "L-004", 15, diasDesdeHoy(-10)),
		},
	}
	feed := alerting.BuildFeed(snap, testNow, alerting.DefaultThresholds())
	require.NotEmpty(t, feed)

	for i := 1; i < len(feed); i++ {
		prev, cur := feed[i-1], feed[i]
		assert.GreaterOrEqual(t, prev.Kind.Severity(), cur.Kind.Severity(),
			"la severidad nunca debe aumentar a lo largo del feed")
		if prev.Kind != cur.Kind {
			continue
		}
		switch cur.Kind {
		case alerting.KindExpired, alerting.KindExpiringSoon:
			assert.False(t, cur.ExpiryDate.Before(prev.ExpiryDate),
				"dentro del mismo tipo, vencimiento ascendente")
		default:
			assert.GreaterOrEqual(t, cur.TotalQuantity, prev.TotalQuantity,
				"dentro del mismo tipo, stock ascendente (más escaso primero)")
		}
	}
}

// El feed es idempotente: dos llamadas con el mismo snapshot y el mismo now
// producen secuencias idénticas.
func TestBuildFeed_Idempotente(t *testing.T) {
	snap := alerting.Snapshot{
		Medicines: []entity.Medicine{
			medicina("m1", "MED001", "Paracetamol", intPtr(200)),
			medicina("m2", "MED002", "Ibuprofeno", nil),
		},
		Batches: []entity.Batch{
			lote("b1", "m1", "L-001", 50, diasDesdeHoy(15)),
			lote("b2", "m1", "L-002", 10, diasDesdeHoy(-1)),
		},
	}
	th := alerting.DefaultThresholds()

	primero := alerting.BuildFeed(snap, testNow, th)
	segundo := alerting.BuildFeed(snap, testNow, th)

	assert.Equal(t, primero, segundo, "mismo input → misma secuencia, sin estado oculto")
}

// Un lote vencido no cuenta como "por vencer" aunque esté dentro de la
// ventana hacia atrás; y el detalle de las alertas de fecha es la fecha.
func TestBuildFeed_DetalleDeFecha(t *testing.T) {
	snap := alerting.Snapshot{
		Medicines: []entity.Medicine{medicina("m1", "MED001", "Diclofenaco", intPtr(0))},
		Batches:   []entity.Batch{lote("b1", "m1", "L-001", 10, diasDesdeHoy(7))},
	}
	feed := alerting.BuildFeed(snap, testNow, alerting.DefaultThresholds())

	require.Len(t, feed, 1)
	assert.Equal(t, alerting.KindExpiringSoon, feed[0].Kind)
	assert.Equal(t, diasDesdeHoy(7).Format("2006-01-02"), feed[0].Detail)
	assert.Equal(t, "L-001", feed[0].BatchNo)
}
