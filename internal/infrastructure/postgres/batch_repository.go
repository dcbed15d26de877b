package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

var _ repository.BatchRepository = (*BatchRepo)(nil)

// BatchRepo implementación del puerto BatchRepository sobre PostgreSQL (usable con pool o tx).
type BatchRepo struct {
	q Querier
}

// NewBatchRepository construye el adaptador de persistencia para lotes. Pasar pool o tx (Querier).
func NewBatchRepository(q Querier) *BatchRepo {
	return &BatchRepo{q: q}
}

// Create persiste un nuevo lote. La pareja (medicine_id, batch_no) es única.
func (r *BatchRepo) Create(batch *entity.Batch) error {
	query := `
		INSERT INTO batches (id, medicine_id, supplier_id, batch_no, expiry_date, quantity, unit, purchase_price, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		batch.ID, batch.MedicineID, batch.SupplierID, batch.BatchNo, batch.ExpiryDate,
		batch.Quantity, batch.Unit, batch.PurchasePrice, batch.CreatedAt, batch.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert batch: %w", err)
	}
	return nil
}

// GetByID obtiene un lote por ID.
func (r *BatchRepo) GetByID(id string) (*entity.Batch, error) {
	query := `
		SELECT id, medicine_id, supplier_id, batch_no, expiry_date, quantity, unit, purchase_price, created_at, updated_at
		FROM batches WHERE id = $1`
	var b entity.Batch
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&b.ID, &b.MedicineID, &b.SupplierID, &b.BatchNo, &b.ExpiryDate,
		&b.Quantity, &b.Unit, &b.PurchasePrice, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get batch: %w", err)
	}
	return &b, nil
}

// GetByMedicineAndBatchNo obtiene un lote por medicamento y número de lote.
func (r *BatchRepo) GetByMedicineAndBatchNo(medicineID, batchNo string) (*entity.Batch, error) {
	query := `
		SELECT id, medicine_id, supplier_id, batch_no, expiry_date, quantity, unit, purchase_price, created_at, updated_at
		FROM batches WHERE medicine_id = $1 AND batch_no = $2`
	var b entity.Batch
	err := r.q.QueryRow(context.Background(), query, medicineID, batchNo).Scan(
		&b.ID, &b.MedicineID, &b.SupplierID, &b.BatchNo, &b.ExpiryDate,
		&b.Quantity, &b.Unit, &b.PurchasePrice, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get batch by batch_no: %w", err)
	}
	return &b, nil
}

// Update actualiza cantidad, precio y vencimiento. La identidad (medicine_id, batch_no)
// es inmutable después de crear.
func (r *BatchRepo) Update(batch *entity.Batch) error {
	query := `
		UPDATE batches SET supplier_id = $2, expiry_date = $3, quantity = $4, unit = $5, purchase_price = $6, updated_at = $7
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		batch.ID, batch.SupplierID, batch.ExpiryDate, batch.Quantity,
		batch.Unit, batch.PurchasePrice, batch.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update batch: %w", err)
	}
	return nil
}

// UpdateQuantity actualiza solo la cantidad del lote (usado por el libro de movimientos).
func (r *BatchRepo) UpdateQuantity(batchID string, quantity int) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE batches SET quantity = $2, updated_at = now() WHERE id = $1`,
		batchID, quantity,
	)
	if err != nil {
		return fmt.Errorf("update batch quantity: %w", err)
	}
	return nil
}

// List lista lotes con paginación, por vencimiento ascendente.
func (r *BatchRepo) List(limit, offset int) ([]*entity.Batch, error) {
	query := `
		SELECT id, medicine_id, supplier_id, batch_no, expiry_date, quantity, unit, purchase_price, created_at, updated_at
		FROM batches ORDER BY expiry_date, batch_no LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}
	defer rows.Close()
	return scanBatches(rows)
}

// ListByMedicine lista los lotes de un medicamento, por vencimiento ascendente.
func (r *BatchRepo) ListByMedicine(medicineID string) ([]*entity.Batch, error) {
	query := `
		SELECT id, medicine_id, supplier_id, batch_no, expiry_date, quantity, unit, purchase_price, created_at, updated_at
		FROM batches WHERE medicine_id = $1 ORDER BY expiry_date, batch_no`
	rows, err := r.q.Query(context.Background(), query, medicineID)
	if err != nil {
		return nil, fmt.Errorf("list batches by medicine: %w", err)
	}
	defer rows.Close()
	return scanBatches(rows)
}

// ListAll devuelve todos los lotes (snapshot del motor de alertas).
func (r *BatchRepo) ListAll() ([]*entity.Batch, error) {
	query := `
		SELECT id, medicine_id, supplier_id, batch_no, expiry_date, quantity, unit, purchase_price, created_at, updated_at
		FROM batches ORDER BY expiry_date, batch_no`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list all batches: %w", err)
	}
	defer rows.Close()
	return scanBatches(rows)
}

// Delete elimina un lote por ID.
func (r *BatchRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM batches WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete batch: %w", err)
	}
	return nil
}

func scanBatches(rows pgx.Rows) ([]*entity.Batch, error) {
	var list []*entity.Batch
	for rows.Next() {
		var b entity.Batch
		if err := rows.Scan(&b.ID, &b.MedicineID, &b.SupplierID, &b.BatchNo, &b.ExpiryDate,
			&b.Quantity, &b.Unit, &b.PurchasePrice, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan batch: %w", err)
		}
		list = append(list, &b)
	}
	return list, rows.Err()
}
