package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/Farmacia-api/internal/application/alerts"
	"github.com/jhoicas/Farmacia-api/internal/application/inventory"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
	"github.com/jhoicas/Farmacia-api/internal/infrastructure/csvload"
)

// Ensure TxRunner implements inventory.TxRunner, alerts.AlertTxRunner and csvload.CatalogTxRunner.
var _ inventory.TxRunner = (*TxRunner)(nil)
var _ alerts.AlertTxRunner = (*TxRunner)(nil)
var _ csvload.CatalogTxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(
	txRepo repository.TransactionRepository,
	batchRepo repository.BatchRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	txRepo := NewTransactionRepository(tx)
	batchRepo := NewBatchRepository(tx)

	if err := fn(txRepo, batchRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunCatalog inicia una transacción con los repos de catálogo (para el cargue CSV).
func (r *TxRunner) RunCatalog(ctx context.Context, fn func(
	medicineRepo repository.MedicineRepository,
	supplierRepo repository.SupplierRepository,
	batchRepo repository.BatchRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	medicineRepo := NewMedicineRepository(tx)
	supplierRepo := NewSupplierRepository(tx)
	batchRepo := NewBatchRepository(tx)

	if err := fn(medicineRepo, supplierRepo, batchRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunAlerts inicia una transacción con el repo de alertas (para la reconciliación).
func (r *TxRunner) RunAlerts(ctx context.Context, fn func(
	alertRepo repository.AlertRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	alertRepo := NewAlertRepository(tx)

	if err := fn(alertRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
