package inventory

import (
	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

// ListTransactionsUseCase lectura del libro mayor de movimientos.
type ListTransactionsUseCase struct {
	txRepo repository.TransactionRepository
}

// NewListTransactionsUseCase construye el caso de uso.
func NewListTransactionsUseCase(txRepo repository.TransactionRepository) *ListTransactionsUseCase {
	return &ListTransactionsUseCase{txRepo: txRepo}
}

// ListByMedicine lista los movimientos de un medicamento, más reciente primero.
func (uc *ListTransactionsUseCase) ListByMedicine(medicineID string, limit, offset int) ([]dto.TransactionResponse, error) {
	list, err := uc.txRepo.ListByMedicine(medicineID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TransactionResponse, 0, len(list))
	for _, t := range list {
		out = append(out, dto.TransactionResponse{
			ID:         t.ID,
			MedicineID: t.MedicineID,
			BatchID:    t.BatchID,
			Type:       t.Type,
			Quantity:   t.Quantity,
			Notes:      t.Notes,
			UserID:     t.UserID,
			CreatedAt:  t.CreatedAt,
		})
	}
	return out, nil
}
