// Package email implementa el canal de notificación de alertas sobre SMTP.
package email

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/jhoicas/Farmacia-api/internal/application/alerts"
)

// Ensure GomailNotifier implements alerts.Notifier.
var _ alerts.Notifier = (*GomailNotifier)(nil)

// Config credenciales y destinatarios del canal SMTP.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       []string
}

// GomailNotifier envía el digest de alertas como correo de texto plano.
type GomailNotifier struct {
	dialer *gomail.Dialer
	from   string
	to     []string
}

// NewGomailNotifier construye el notificador con el dialer SMTP.
func NewGomailNotifier(cfg Config) *GomailNotifier {
	return &GomailNotifier{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
		to:     cfg.To,
	}
}

// SendAlertDigest envía el cuerpo ya formateado a los destinatarios
// configurados. gomail no acepta contexto, así que solo se respeta la
// cancelación previa al envío.
func (n *GomailNotifier) SendAlertDigest(ctx context.Context, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", n.to...)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := n.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("smtp: %w", err)
	}
	return nil
}
