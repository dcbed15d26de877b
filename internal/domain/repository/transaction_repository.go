package repository

import "github.com/jhoicas/Farmacia-api/internal/domain/entity"

// TransactionRepository define el puerto para el libro mayor de movimientos
// de stock. Solo inserta y lista: los movimientos nunca se editan.
type TransactionRepository interface {
	Create(tx *entity.Transaction) error
	ListByMedicine(medicineID string, limit, offset int) ([]*entity.Transaction, error)
}
