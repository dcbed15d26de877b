package usecase

import (
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

// batchDateLayout formato de fechas de vencimiento en la API y los CSV.
const batchDateLayout = "2006-01-02"

// BatchUseCase casos de uso CRUD para lotes. La identidad
// (medicine_id, batch_no) es inmutable después de crear; cantidad, precio y
// vencimiento se editan.
type BatchUseCase struct {
	repo         repository.BatchRepository
	medicineRepo repository.MedicineRepository
	supplierRepo repository.SupplierRepository
}

// NewBatchUseCase construye el caso de uso.
func NewBatchUseCase(
	repo repository.BatchRepository,
	medicineRepo repository.MedicineRepository,
	supplierRepo repository.SupplierRepository,
) *BatchUseCase {
	return &BatchUseCase{repo: repo, medicineRepo: medicineRepo, supplierRepo: supplierRepo}
}

// Create crea un lote referenciando un medicamento y un proveedor existentes.
func (uc *BatchUseCase) Create(in dto.CreateBatchRequest) (*dto.BatchResponse, error) {
	if in.Quantity < 0 || in.PurchasePrice.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	expiry, err := time.Parse(batchDateLayout, in.ExpiryDate)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}
	medicine, err := uc.medicineRepo.GetByID(in.MedicineID)
	if err != nil {
		return nil, err
	}
	if medicine == nil {
		return nil, domain.ErrNotFound
	}
	supplier, err := uc.supplierRepo.GetByID(in.SupplierID)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, domain.ErrNotFound
	}
	existing, err := uc.repo.GetByMedicineAndBatchNo(in.MedicineID, in.BatchNo)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	batch := &entity.Batch{
		ID:            uuid.New().String(),
		MedicineID:    in.MedicineID,
		SupplierID:    in.SupplierID,
		BatchNo:       in.BatchNo,
		ExpiryDate:    expiry,
		Quantity:      in.Quantity,
		Unit:          in.Unit,
		PurchasePrice: in.PurchasePrice,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.repo.Create(batch); err != nil {
		return nil, err
	}
	return toBatchResponse(batch), nil
}

// GetByID obtiene un lote por ID.
func (uc *BatchUseCase) GetByID(id string) (*dto.BatchResponse, error) {
	batch, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if batch == nil {
		return nil, nil
	}
	return toBatchResponse(batch), nil
}

// Update edita cantidad, precio, unidad o vencimiento de un lote.
func (uc *BatchUseCase) Update(id string, in dto.UpdateBatchRequest) (*dto.BatchResponse, error) {
	batch, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if batch == nil {
		return nil, nil
	}
	if in.ExpiryDate != nil {
		expiry, err := time.Parse(batchDateLayout, *in.ExpiryDate)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		batch.ExpiryDate = expiry
	}
	if in.Quantity != nil {
		if *in.Quantity < 0 {
			return nil, domain.ErrInvalidInput
		}
		batch.Quantity = *in.Quantity
	}
	if in.Unit != nil {
		batch.Unit = *in.Unit
	}
	if in.PurchasePrice != nil {
		if in.PurchasePrice.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		batch.PurchasePrice = *in.PurchasePrice
	}
	batch.UpdatedAt = time.Now()
	if err := uc.repo.Update(batch); err != nil {
		return nil, err
	}
	return toBatchResponse(batch), nil
}

// List lista lotes por vencimiento ascendente; medicineID filtra si no es vacío.
func (uc *BatchUseCase) List(medicineID string, limit, offset int) (*dto.BatchListResponse, error) {
	var (
		list []*entity.Batch
		err  error
	)
	if medicineID != "" {
		list, err = uc.repo.ListByMedicine(medicineID)
	} else {
		list, err = uc.repo.List(limit, offset)
	}
	if err != nil {
		return nil, err
	}
	items := make([]dto.BatchResponse, 0, len(list))
	for _, b := range list {
		items = append(items, *toBatchResponse(b))
	}
	return &dto.BatchListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// Delete elimina un lote. El borrado es permanente, sin soft-delete.
func (uc *BatchUseCase) Delete(id string) error {
	return uc.repo.Delete(id)
}

func toBatchResponse(b *entity.Batch) *dto.BatchResponse {
	if b == nil {
		return nil
	}
	return &dto.BatchResponse{
		ID:            b.ID,
		MedicineID:    b.MedicineID,
		SupplierID:    b.SupplierID,
		BatchNo:       b.BatchNo,
		ExpiryDate:    b.ExpiryDate.Format(batchDateLayout),
		Quantity:      b.Quantity,
		Unit:          b.Unit,
		PurchasePrice: b.PurchasePrice,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}
