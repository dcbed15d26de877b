package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Farmacia-api/internal/application/alerts"
	"github.com/jhoicas/Farmacia-api/internal/application/auth"
	"github.com/jhoicas/Farmacia-api/internal/application/inventory"
	"github.com/jhoicas/Farmacia-api/internal/application/usecase"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	MedicineUC          *usecase.MedicineUseCase
	SupplierUC          *usecase.SupplierUseCase
	BatchUC             *usecase.BatchUseCase
	RegisterTransaction *inventory.RegisterTransactionUseCase
	ListTransactions    *inventory.ListTransactionsUseCase
	AlertsUC            *alerts.AlertsUseCase
	AlertReportGen      alerts.ReportGenerator
	AssistantUC         *usecase.AssistantUseCase
	AuthUC              *auth.AuthUseCase
	JWTSecret           string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Medicines (protegido; borrar requiere admin o farmaceutico)
	medicines := protected.Group("/medicines")
	medicineHandler := NewMedicineHandler(deps.MedicineUC)
	medicines.Post("/", medicineHandler.Create)
	medicines.Get("/", medicineHandler.List)
	medicines.Get("/:id", medicineHandler.GetByID)
	medicines.Put("/:id", medicineHandler.Update)
	medicines.Delete("/:id", RequireRole(entity.RoleAdmin, entity.RoleFarmaceutico), medicineHandler.Delete)

	// Suppliers (protegido)
	suppliers := protected.Group("/suppliers")
	supplierHandler := NewSupplierHandler(deps.SupplierUC)
	suppliers.Post("/", supplierHandler.Create)
	suppliers.Get("/", supplierHandler.List)
	suppliers.Get("/:id", supplierHandler.GetByID)
	suppliers.Put("/:id", supplierHandler.Update)
	suppliers.Delete("/:id", RequireRole(entity.RoleAdmin, entity.RoleFarmaceutico), supplierHandler.Delete)

	// Batches (protegido)
	batches := protected.Group("/batches")
	batchHandler := NewBatchHandler(deps.BatchUC)
	batches.Post("/", batchHandler.Create)
	batches.Get("/", batchHandler.List)
	batches.Get("/:id", batchHandler.GetByID)
	batches.Put("/:id", batchHandler.Update)
	batches.Delete("/:id", RequireRole(entity.RoleAdmin, entity.RoleFarmaceutico), batchHandler.Delete)

	// Inventory transactions (protegido)
	invGroup := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.RegisterTransaction, deps.ListTransactions)
	invGroup.Post("/transactions", inventoryHandler.RegisterTransaction)
	invGroup.Get("/transactions", inventoryHandler.ListByMedicine)

	// Alerts (protegido)
	alertGroup := protected.Group("/alerts")
	alertHandler := NewAlertHandler(deps.AlertsUC, deps.AlertReportGen)
	alertGroup.Get("/", alertHandler.GetFeed)
	alertGroup.Get("/summary", alertHandler.Summarize)
	alertGroup.Get("/history", alertHandler.History)
	alertGroup.Get("/report", alertHandler.Report)
	alertGroup.Post("/reconcile", alertHandler.Reconcile)

	// Assistant (protegido)
	assistantGroup := protected.Group("/assistant")
	assistantHandler := NewAssistantHandler(deps.AssistantUC)
	assistantGroup.Post("/chat", assistantHandler.Chat)
}
