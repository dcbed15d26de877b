package ports

import (
	"context"

	"github.com/jhoicas/Farmacia-api/internal/application/dto"
)

// Assistant define el puerto de salida hacia el servicio externo de
// generación de texto. Cualquier adaptador (OpenAI, Anthropic, mock) debe
// implementar esta interfaz; la aplicación solo conoce este contrato (DIP).
//
// El adaptador recibe SIEMPRE el feed ya calculado localmente, nunca volcados
// crudos de entidades, y su salida es texto consultivo: jamás vuelve como
// entrada de control al motor de alertas. El contexto debe llevar un timeout
// acotado; superar el deadline se trata como resumen no disponible.
type Assistant interface {
	// SummarizeAlerts convierte el feed ordenado en un resumen narrativo
	// accionable para el personal de la farmacia.
	SummarizeAlerts(ctx context.Context, alerts []dto.AlertDTO) (string, error)

	// Chat responde una pregunta en lenguaje natural sobre el inventario,
	// con el historial de conversación como contexto.
	Chat(ctx context.Context, message string, history []dto.ChatMessage) (string, error)
}
