// Package ai contiene los adaptadores del puerto Assistant hacia servicios
// externos de generación de texto (OpenAI y Anthropic). Ambos usan net/http
// de la librería estándar; no requieren SDKs oficiales.
//
// Los adaptadores reciben siempre el feed ya calculado y ordenado, nunca
// volcados crudos de la base de datos, y su salida es texto consultivo.
package ai

import (
	"fmt"
	"strings"

	"github.com/jhoicas/Farmacia-api/internal/application/dto"
)

// Options configuración reconocida por ambos adaptadores.
type Options struct {
	Model       string
	Temperature float64 // 0.0–1.0
	MaxTokens   int
}

const summarizeSystemPrompt = `Eres un especialista en inventario farmacéutico.
Recibirás el listado de alertas de stock y vencimiento ya clasificado y ordenado por urgencia.
Genera un resumen conciso y accionable:
1. Los ítems más urgentes que requieren acción inmediata
2. Recomendaciones breves de reposición
3. Orden de prioridad

Máximo 200 palabras, en español, directo al grano.`

const chatSystemPrompt = `Eres un asistente del sistema de inventario de una farmacia.
Puedes responder preguntas sobre medicamentos, lotes, proveedores, niveles de
stock y vencimientos, y ayudar con decisiones de reposición.
Sé útil, conciso y profesional. No inventes datos que no estén en el contexto
de la conversación.`

// buildAlertDigest arma el cuerpo del prompt de resumen a partir del feed.
// Una línea por alerta, en el mismo orden determinista del feed.
func buildAlertDigest(alerts []dto.AlertDTO) string {
	if len(alerts) == 0 {
		return "No hay alertas activas en el inventario."
	}
	counts := map[string]int{}
	for _, a := range alerts {
		counts[a.Kind]++
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Alertas del inventario: %d en total (EXPIRED=%d, OUT_OF_STOCK=%d, EXPIRING_SOON=%d, LOW_STOCK=%d)\n\n",
		len(alerts), counts["EXPIRED"], counts["OUT_OF_STOCK"], counts["EXPIRING_SOON"], counts["LOW_STOCK"])
	for _, a := range alerts {
		if a.BatchNo != "" {
			fmt.Fprintf(&b, "- [%s] %s (%s), lote %s: %s\n", a.Kind, a.MedicineName, a.SKU, a.BatchNo, a.Detail)
		} else {
			fmt.Fprintf(&b, "- [%s] %s (%s): stock total %s\n", a.Kind, a.MedicineName, a.SKU, a.Detail)
		}
	}
	return b.String()
}
