// Package inventory contiene el motor de movimientos de stock: cada entrada,
// salida o ajuste queda asentado en el libro mayor y actualiza la cantidad
// del lote en la misma transacción.
package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

// RegisterTransactionUseCase registra movimientos de stock sobre lotes.
type RegisterTransactionUseCase struct {
	txRunner TxRunner
}

// NewRegisterTransactionUseCase construye el caso de uso.
func NewRegisterTransactionUseCase(txRunner TxRunner) *RegisterTransactionUseCase {
	return &RegisterTransactionUseCase{txRunner: txRunner}
}

// Register aplica un movimiento: IN suma, OUT resta (falla con
// ErrInsufficientStock si dejaría el lote en negativo), ADJUSTMENT fija la
// cantidad absoluta. Asiento y actualización van en una sola transacción.
func (uc *RegisterTransactionUseCase) Register(ctx context.Context, userID string, in dto.RegisterTransactionRequest) (*dto.TransactionResponse, error) {
	switch in.Type {
	case entity.TransactionIn, entity.TransactionOut:
		if in.Quantity <= 0 {
			return nil, domain.ErrInvalidInput
		}
	case entity.TransactionAdjustment:
		if in.Quantity < 0 {
			return nil, domain.ErrInvalidInput
		}
	default:
		return nil, domain.ErrInvalidInput
	}

	var out *dto.TransactionResponse
	err := uc.txRunner.Run(ctx, func(txRepo repository.TransactionRepository, batchRepo repository.BatchRepository) error {
		batch, err := batchRepo.GetByID(in.BatchID)
		if err != nil {
			return err
		}
		if batch == nil {
			return domain.ErrNotFound
		}

		newQty := batch.Quantity
		switch in.Type {
		case entity.TransactionIn:
			newQty += in.Quantity
		case entity.TransactionOut:
			newQty -= in.Quantity
			if newQty < 0 {
				return domain.ErrInsufficientStock
			}
		case entity.TransactionAdjustment:
			newQty = in.Quantity
		}

		tx := &entity.Transaction{
			ID:         uuid.New().String(),
			MedicineID: batch.MedicineID,
			BatchID:    batch.ID,
			Type:       in.Type,
			Quantity:   in.Quantity,
			Notes:      in.Notes,
			UserID:     userID,
			CreatedAt:  time.Now(),
		}
		if err := txRepo.Create(tx); err != nil {
			return err
		}
		if err := batchRepo.UpdateQuantity(batch.ID, newQty); err != nil {
			return err
		}

		out = &dto.TransactionResponse{
			ID:            tx.ID,
			MedicineID:    tx.MedicineID,
			BatchID:       tx.BatchID,
			Type:          tx.Type,
			Quantity:      tx.Quantity,
			Notes:         tx.Notes,
			UserID:        tx.UserID,
			CreatedAt:     tx.CreatedAt,
			BatchQuantity: newQty,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
