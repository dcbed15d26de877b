package inventory

import (
	"context"

	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza que el asiento del movimiento y la
// actualización de la cantidad del lote sean atómicos: sin lecturas rotas
// del stock total a mitad de escritura.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		txRepo repository.TransactionRepository,
		batchRepo repository.BatchRepository,
	) error) error
}
