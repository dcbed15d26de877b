package usecase

import (
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

// MedicineUseCase casos de uso CRUD para medicamentos. El stock total se
// deriva de los lotes en cada lectura; nunca se almacena en el medicamento.
type MedicineUseCase struct {
	repo      repository.MedicineRepository
	batchRepo repository.BatchRepository
}

// NewMedicineUseCase construye el caso de uso.
func NewMedicineUseCase(repo repository.MedicineRepository, batchRepo repository.BatchRepository) *MedicineUseCase {
	return &MedicineUseCase{repo: repo, batchRepo: batchRepo}
}

// Create crea un medicamento. El SKU es único en todo el catálogo.
func (uc *MedicineUseCase) Create(in dto.CreateMedicineRequest) (*dto.MedicineResponse, error) {
	existing, err := uc.repo.GetBySKU(in.SKU)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	if in.ReorderLevel != nil && *in.ReorderLevel < 0 {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	medicine := &entity.Medicine{
		ID:           uuid.New().String(),
		SKU:          in.SKU,
		Name:         in.Name,
		Category:     in.Category,
		Description:  in.Description,
		ReorderLevel: in.ReorderLevel,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(medicine); err != nil {
		return nil, err
	}
	return toMedicineResponse(medicine, 0), nil
}

// GetByID obtiene un medicamento con su stock total derivado.
func (uc *MedicineUseCase) GetByID(id string) (*dto.MedicineResponse, error) {
	medicine, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if medicine == nil {
		return nil, nil
	}
	total, err := uc.totalQuantity(id)
	if err != nil {
		return nil, err
	}
	return toMedicineResponse(medicine, total), nil
}

// Update actualiza un medicamento. El SKU es inmutable.
func (uc *MedicineUseCase) Update(id string, in dto.UpdateMedicineRequest) (*dto.MedicineResponse, error) {
	medicine, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if medicine == nil {
		return nil, nil
	}
	if in.Name != nil {
		medicine.Name = *in.Name
	}
	if in.Category != nil {
		medicine.Category = *in.Category
	}
	if in.Description != nil {
		medicine.Description = *in.Description
	}
	if in.ReorderLevel != nil {
		if *in.ReorderLevel < 0 {
			return nil, domain.ErrInvalidInput
		}
		medicine.ReorderLevel = in.ReorderLevel
	}
	medicine.UpdatedAt = time.Now()
	if err := uc.repo.Update(medicine); err != nil {
		return nil, err
	}
	total, err := uc.totalQuantity(id)
	if err != nil {
		return nil, err
	}
	return toMedicineResponse(medicine, total), nil
}

// List lista medicamentos con paginación y stock derivado por item.
func (uc *MedicineUseCase) List(limit, offset int) (*dto.MedicineListResponse, error) {
	list, err := uc.repo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	batches, err := uc.batchRepo.ListAll()
	if err != nil {
		return nil, err
	}
	totals := make(map[string]int, len(list))
	for _, b := range batches {
		totals[b.MedicineID] += b.Quantity
	}
	items := make([]dto.MedicineResponse, 0, len(list))
	for _, m := range list {
		items = append(items, *toMedicineResponse(m, totals[m.ID]))
	}
	return &dto.MedicineListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// Delete elimina el medicamento; sus lotes caen en cascada.
func (uc *MedicineUseCase) Delete(id string) error {
	return uc.repo.Delete(id)
}

func (uc *MedicineUseCase) totalQuantity(medicineID string) (int, error) {
	batches, err := uc.batchRepo.ListByMedicine(medicineID)
	if err != nil {
		return 0, err
	}
	total := 0
	for _, b := range batches {
		total += b.Quantity
	}
	return total, nil
}

func toMedicineResponse(m *entity.Medicine, total int) *dto.MedicineResponse {
	if m == nil {
		return nil
	}
	return &dto.MedicineResponse{
		ID:            m.ID,
		SKU:           m.SKU,
		Name:          m.Name,
		Category:      m.Category,
		Description:   m.Description,
		ReorderLevel:  m.ReorderLevel,
		TotalQuantity: total,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}
