// checkalerts calcula el feed de alertas de stock y vencimiento y lo deja en
// el log; pensado para correr por cron. Con -reconcile sincroniza además el
// historial persistido, y con -send-email envía el digest (con el resumen
// del asistente si está habilitado) a los destinatarios configurados.
//
// Uso: go run ./cmd/checkalerts [-reconcile] [-send-email]
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/jhoicas/Farmacia-api/internal/application/alerts"
	"github.com/jhoicas/Farmacia-api/internal/application/ports"
	"github.com/jhoicas/Farmacia-api/internal/domain/alerting"
	infraai "github.com/jhoicas/Farmacia-api/internal/infrastructure/ai"
	"github.com/jhoicas/Farmacia-api/internal/infrastructure/email"
	"github.com/jhoicas/Farmacia-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Farmacia-api/pkg/config"
	"github.com/jhoicas/Farmacia-api/pkg/logger"
)

func main() {
	reconcile := flag.Bool("reconcile", false, "sincroniza el historial persistido con el feed calculado")
	sendEmail := flag.Bool("send-email", false, "envía el digest de alertas por correo (requiere SMTP_ENABLED)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	if *sendEmail && !cfg.SMTP.Enabled {
		fmt.Fprintln(os.Stderr, "-send-email requiere SMTP_ENABLED=true")
		os.Exit(2)
	}

	log := logger.New(logger.Config{
		Env:       cfg.App.Env,
		Level:     cfg.App.LogLevel,
		Component: "checkalerts",
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	medicineRepo := postgres.NewMedicineRepository(pool)
	batchRepo := postgres.NewBatchRepository(pool)
	alertRepo := postgres.NewAlertRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	var assistant ports.Assistant
	if cfg.AI.Enabled {
		opts := infraai.Options{
			Model:       cfg.AI.Model,
			Temperature: cfg.AI.Temperature,
			MaxTokens:   cfg.AI.MaxTokens,
		}
		switch cfg.AI.Provider {
		case "anthropic":
			assistant = infraai.NewAnthropicService(cfg.AI.APIKey, opts)
		default:
			assistant = infraai.NewOpenAIService(cfg.AI.APIKey, opts)
		}
	}

	var notifier alerts.Notifier
	if cfg.SMTP.Enabled {
		notifier = email.NewGomailNotifier(email.Config{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
			To:       cfg.SMTP.To,
		})
	}

	uc := alerts.NewAlertsUseCase(
		medicineRepo, batchRepo, alertRepo, txRunner,
		assistant, notifier,
		alerting.Thresholds{
			DefaultReorderLevel: cfg.Alerts.ReorderLevel,
			ExpiryWindowDays:    cfg.Alerts.ExpiryWindowDays,
		},
		time.Duration(cfg.AI.TimeoutSeconds)*time.Second,
	)

	now := time.Now()
	feed, err := uc.ComputeAlerts(now, uc.Thresholds())
	if err != nil {
		log.Fatal().Err(err).Msg("calcular feed de alertas")
	}
	for _, a := range feed {
		log.Warn().
			Str("kind", a.Kind).
			Str("sku", a.SKU).
			Str("medicine", a.MedicineName).
			Str("detail", a.Detail).
			Msg("alerta de inventario")
	}
	log.Info().Int("alertas", len(feed)).Msg("chequeo de alertas completado")

	if *reconcile {
		res, err := uc.Reconcile(ctx, now)
		if err != nil {
			log.Fatal().Err(err).Msg("reconciliar historial de alertas")
		}
		log.Info().
			Int("creadas", res.Created).
			Int("resueltas", res.Resolved).
			Msg("historial reconciliado")
	}

	if *sendEmail {
		sent, err := uc.NotifyByEmail(ctx, now)
		if err != nil {
			log.Fatal().Err(err).Msg("enviar digest de alertas")
		}
		if sent {
			log.Info().Strs("to", cfg.SMTP.To).Msg("digest de alertas enviado")
		} else {
			log.Info().Msg("sin alertas activas, no se envió correo")
		}
	}
}
