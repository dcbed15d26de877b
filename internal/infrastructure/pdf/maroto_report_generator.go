// Package pdf implementa el reporte imprimible del feed de alertas de
// inventario (para la reunión de reposición de la farmacia).
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título + Fecha de generación                        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: conteo por tipo de alerta                          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Tipo | Medicamento | SKU | Lote | Vence | Detalle    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: leyenda                                             │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/Farmacia-api/internal/application/alerts"
	"github.com/jhoicas/Farmacia-api/internal/domain/alerting"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorDanger  = &props.Color{Red: 170, Green: 30, Blue: 30}
)

// ── Generator ─────────────────────────────────────────────────────────────────

var _ alerts.ReportGenerator = (*MarotoReportGenerator)(nil)

// MarotoReportGenerator implementa alerts.ReportGenerator usando Maroto v2.
type MarotoReportGenerator struct{}

// NewMarotoReportGenerator construye el generador.
func NewMarotoReportGenerator() *MarotoReportGenerator { return &MarotoReportGenerator{} }

// GenerateAlertReport genera el PDF del feed (ya ordenado por urgencia) y devuelve sus bytes.
func (g *MarotoReportGenerator) GenerateAlertReport(
	_ context.Context,
	generatedAt time.Time,
	feed []alerting.Alert,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Reporte de Alertas de Inventario", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(generatedAt))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(summaryRow(feed))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	if len(feed) == 0 {
		m.AddRows(row.New(10).Add(col.New(12).Add(
			text.New("Sin alertas: el inventario está dentro de los umbrales.", props.Text{
				Size: 10, Align: align.Center, Color: colorGray, Top: 3,
			}),
		)))
	} else {
		m.AddRows(tableHeaderRow())
		for _, r := range tableAlertRows(feed) {
			m.AddRows(r)
		}
	}

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow())

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: título (izq) y fecha de generación (der).
func headerRow(generatedAt time.Time) core.Row {
	fecha := generatedAt.Format("02/01/2006 15:04")

	return row.New(16).Add(
		col.New(8).Add(
			text.New("ALERTAS DE INVENTARIO", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Stock bajo, agotados y vencimientos", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New("REPORTE", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New("Generado: "+fecha, props.Text{
				Size: 8, Align: align.Right, Top: 8, Color: colorGray,
			}),
		),
	)
}

// summaryRow: conteo por tipo de alerta, del más al menos urgente.
func summaryRow(feed []alerting.Alert) core.Row {
	counts := map[alerting.Kind]int{}
	for _, a := range feed {
		counts[a.Kind]++
	}
	resumen := fmt.Sprintf("Vencidos: %d   |   Agotados: %d   |   Por vencer: %d   |   Stock bajo: %d   |   Total: %d",
		counts[alerting.KindExpired], counts[alerting.KindOutOfStock],
		counts[alerting.KindExpiringSoon], counts[alerting.KindLowStock], len(feed),
	)

	return row.New(10).Add(
		col.New(12).Add(
			text.New("RESUMEN", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(resumen, props.Text{Size: 8, Top: 6, Color: colorGray}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de alertas.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Tipo", 2, align.Left),
		h("Medicamento", 3, align.Left),
		h("SKU", 2, align.Left),
		h("Lote", 2, align.Left),
		h("Vence", 1, align.Center),
		h("Detalle", 2, align.Right),
	)
}

// tableAlertRows: una fila por alerta, en el orden del feed.
func tableAlertRows(feed []alerting.Alert) []core.Row {
	result := make([]core.Row, 0, len(feed))
	for _, a := range feed {
		kindColor := colorGray
		if a.Kind == alerting.KindExpired || a.Kind == alerting.KindOutOfStock {
			kindColor = colorDanger
		}
		vence := "—"
		lote := "—"
		if a.BatchNo != "" {
			lote = a.BatchNo
			vence = a.ExpiryDate.Format("02/01/2006")
		}
		result = append(result, row.New(7).Add(
			col.New(2).Add(text.New(kindLabel(a.Kind), props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Left, Top: 1, Left: 1, Color: kindColor,
			})),
			col.New(3).Add(text.New(a.MedicineName, props.Text{
				Size: 8, Align: align.Left, Top: 1, Left: 1,
			})),
			col.New(2).Add(text.New(a.SKU, props.Text{
				Size: 8, Align: align.Left, Top: 1, Left: 1,
			})),
			col.New(2).Add(text.New(lote, props.Text{
				Size: 8, Align: align.Left, Top: 1, Left: 1,
			})),
			col.New(1).Add(text.New(vence, props.Text{
				Size: 7.5, Align: align.Center, Top: 1,
			})),
			col.New(2).Add(text.New(a.Detail, props.Text{
				Size: 8, Align: align.Right, Top: 1, Right: 1,
			})),
		))
	}
	return result
}

// footerRow: leyenda de lectura.
func footerRow() core.Row {
	return row.New(8).Add(col.New(12).Add(
		text.New(
			"Las alertas se listan de mayor a menor urgencia: vencidos, agotados, por vencer "+
				"y stock bajo. El detalle muestra la cantidad total para alertas de stock y la "+
				"fecha de vencimiento para las de fecha.",
			props.Text{Size: 6.5, Color: colorGray, Top: 2},
		),
	))
}

// kindLabel traduce el tipo de alerta para el reporte.
func kindLabel(k alerting.Kind) string {
	switch k {
	case alerting.KindExpired:
		return "VENCIDO"
	case alerting.KindOutOfStock:
		return "AGOTADO"
	case alerting.KindExpiringSoon:
		return "POR VENCER"
	case alerting.KindLowStock:
		return "STOCK BAJO"
	}
	return string(k)
}
