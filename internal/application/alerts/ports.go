package alerts

import (
	"context"
	"time"

	"github.com/jhoicas/Farmacia-api/internal/domain/alerting"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

// AlertTxRunner ejecuta una función dentro de una transacción de BD, pasando
// el repositorio de alertas atado a esa tx. Garantiza que la reconciliación
// sea un set-diff atómico: o se aplican todas las altas y resoluciones, o
// ninguna.
type AlertTxRunner interface {
	RunAlerts(ctx context.Context, fn func(alertRepo repository.AlertRepository) error) error
}

// ReportGenerator genera el reporte imprimible del feed de alertas.
// La implementación vive en infrastructure (Maroto).
type ReportGenerator interface {
	GenerateAlertReport(ctx context.Context, generatedAt time.Time, feed []alerting.Alert) ([]byte, error)
}

// Notifier entrega el digest de alertas por un canal de salida (correo SMTP
// en producción). El cuerpo llega ya formateado; el adaptador solo
// transporta.
type Notifier interface {
	SendAlertDigest(ctx context.Context, subject, body string) error
}
