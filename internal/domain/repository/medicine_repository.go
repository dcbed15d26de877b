package repository

import "github.com/jhoicas/Farmacia-api/internal/domain/entity"

// MedicineRepository define el puerto de persistencia para Medicine (DIP).
type MedicineRepository interface {
	Create(medicine *entity.Medicine) error
	GetByID(id string) (*entity.Medicine, error)
	GetBySKU(sku string) (*entity.Medicine, error)
	GetByName(name string) (*entity.Medicine, error)
	Update(medicine *entity.Medicine) error
	List(limit, offset int) ([]*entity.Medicine, error)
	// ListAll devuelve el catálogo completo para el snapshot del motor de
	// alertas (sin paginación).
	ListAll() ([]*entity.Medicine, error)
	// Delete borra el medicamento; sus lotes caen en cascada (FK).
	Delete(id string) error
}
