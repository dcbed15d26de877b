package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

var _ repository.TransactionRepository = (*TransactionRepo)(nil)

// TransactionRepo implementación del puerto TransactionRepository sobre PostgreSQL.
// El libro mayor solo inserta y lista: los movimientos nunca se editan.
type TransactionRepo struct {
	q Querier
}

// NewTransactionRepository construye el adaptador del libro de movimientos. Pasar pool o tx (Querier).
func NewTransactionRepository(q Querier) *TransactionRepo {
	return &TransactionRepo{q: q}
}

// Create inserta un movimiento en el libro mayor.
func (r *TransactionRepo) Create(tx *entity.Transaction) error {
	query := `
		INSERT INTO transactions (id, medicine_id, batch_id, type, quantity, notes, user_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		tx.ID, tx.MedicineID, tx.BatchID, tx.Type, tx.Quantity, tx.Notes, tx.UserID, tx.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// ListByMedicine lista los movimientos de un medicamento, más reciente primero.
func (r *TransactionRepo) ListByMedicine(medicineID string, limit, offset int) ([]*entity.Transaction, error) {
	query := `
		SELECT id, medicine_id, batch_id, type, quantity, notes, user_id, created_at
		FROM transactions WHERE medicine_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, medicineID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()
	var list []*entity.Transaction
	for rows.Next() {
		var t entity.Transaction
		if err := rows.Scan(&t.ID, &t.MedicineID, &t.BatchID, &t.Type, &t.Quantity,
			&t.Notes, &t.UserID, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		list = append(list, &t)
	}
	return list, rows.Err()
}
