package repository

import "github.com/jhoicas/Farmacia-api/internal/domain/entity"

// BatchRepository define el puerto de persistencia para Batch (DIP).
// La pareja (medicine_id, batch_no) es única; el orden natural de los
// listados es expiry_date ascendente.
type BatchRepository interface {
	Create(batch *entity.Batch) error
	GetByID(id string) (*entity.Batch, error)
	GetByMedicineAndBatchNo(medicineID, batchNo string) (*entity.Batch, error)
	// Update modifica cantidad, precio y vencimiento; la identidad
	// (medicine_id, batch_no) es inmutable después de crear.
	Update(batch *entity.Batch) error
	UpdateQuantity(batchID string, quantity int) error
	List(limit, offset int) ([]*entity.Batch, error)
	ListByMedicine(medicineID string) ([]*entity.Batch, error)
	// ListAll devuelve todos los lotes para el snapshot del motor de alertas.
	ListAll() ([]*entity.Batch, error)
	Delete(id string) error
}
