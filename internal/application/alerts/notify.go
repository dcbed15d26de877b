package alerts

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/domain"
)

// NotifyByEmail calcula el feed y lo envía por el canal de notificación
// configurado, encabezado por el resumen del asistente cuando está
// disponible (si el asistente falla, el correo sale igual en modo
// degradado). Un feed vacío no genera envío. Devuelve si se envió.
func (uc *AlertsUseCase) NotifyByEmail(ctx context.Context, now time.Time) (bool, error) {
	if uc.notifier == nil {
		return false, domain.ErrNotificationUnavailable
	}
	items, err := uc.ComputeAlerts(now, uc.thresholds)
	if err != nil {
		return false, err
	}
	if len(items) == 0 {
		return false, nil
	}

	summary, sumErr := uc.Summarize(ctx, items)
	body := buildDigestBody(now, items, summary, sumErr == nil)
	subject := fmt.Sprintf("Alertas de inventario: %d activas", len(items))

	if err := uc.notifier.SendAlertDigest(ctx, subject, body); err != nil {
		return false, fmt.Errorf("enviar digest de alertas: %w", err)
	}
	return true, nil
}

// buildDigestBody arma el cuerpo de texto plano del correo: resumen
// narrativo (si hay) seguido del feed en su orden determinista, una línea
// por alerta.
func buildDigestBody(now time.Time, items []dto.AlertDTO, summary string, summaryOK bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Alertas de inventario al %s\n\n", now.Format("2006-01-02"))
	if summaryOK && summary != "" {
		b.WriteString(summary)
		b.WriteString("\n\n")
	}
	b.WriteString("Detalle por urgencia:\n")
	for _, a := range items {
		fmt.Fprintf(&b, "- [%s] %s\n", a.Kind, alertMessage(a))
	}
	return b.String()
}
