package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jhoicas/Farmacia-api/internal/application/alerts"
	"github.com/jhoicas/Farmacia-api/internal/application/auth"
	"github.com/jhoicas/Farmacia-api/internal/application/inventory"
	"github.com/jhoicas/Farmacia-api/internal/application/ports"
	"github.com/jhoicas/Farmacia-api/internal/application/usecase"
	"github.com/jhoicas/Farmacia-api/internal/domain/alerting"
	infraai "github.com/jhoicas/Farmacia-api/internal/infrastructure/ai"
	"github.com/jhoicas/Farmacia-api/internal/infrastructure/email"
	infrapdf "github.com/jhoicas/Farmacia-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Farmacia-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Farmacia-api/internal/interfaces/http"
	"github.com/jhoicas/Farmacia-api/pkg/config"
	"github.com/jhoicas/Farmacia-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:       cfg.App.Env,
		Level:     cfg.App.LogLevel,
		Component: "api",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	medicineRepo := postgres.NewMedicineRepository(pool)
	supplierRepo := postgres.NewSupplierRepository(pool)
	batchRepo := postgres.NewBatchRepository(pool)
	transactionRepo := postgres.NewTransactionRepository(pool)
	alertRepo := postgres.NewAlertRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	medicineUC := usecase.NewMedicineUseCase(medicineRepo, batchRepo)
	supplierUC := usecase.NewSupplierUseCase(supplierRepo)
	batchUC := usecase.NewBatchUseCase(batchRepo, medicineRepo, supplierRepo)
	registerTransactionUC := inventory.NewRegisterTransactionUseCase(txRunner)
	listTransactionsUC := inventory.NewListTransactionsUseCase(transactionRepo)

	// Asistente externo: opcional. Con AI_ENABLED=false el feed funciona
	// igual, solo que sin resumen narrativo ni chat.
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
	aiTimeout := time.Duration(cfg.AI.TimeoutSeconds) * time.Second

	// Canal de correo: opcional, solo para el digest de alertas.
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

	thresholds := alerting.Thresholds{
		DefaultReorderLevel: cfg.Alerts.ReorderLevel,
		ExpiryWindowDays:    cfg.Alerts.ExpiryWindowDays,
	}
	alertsUC := alerts.NewAlertsUseCase(
		medicineRepo, batchRepo, alertRepo, txRunner,
		assistant, notifier, thresholds, aiTimeout,
	)
	assistantUC := usecase.NewAssistantUseCase(assistant, aiTimeout)

	// PDF: reporte imprimible del feed de alertas
	reportGen := infrapdf.NewMarotoReportGenerator()

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Farmacia API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		MedicineUC:          medicineUC,
		SupplierUC:          supplierUC,
		BatchUC:             batchUC,
		RegisterTransaction: registerTransactionUC,
		ListTransactions:    listTransactionsUC,
		AlertsUC:            alertsUC,
		AlertReportGen:      reportGen,
		AssistantUC:         assistantUC,
		AuthUC:              authUC,
		JWTSecret:           cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("servidor detenido")
}
