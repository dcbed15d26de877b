package usecase_test

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/application/usecase"
	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
)

// ── Fakes en memoria ───────────────────────────────────────────────

type fakeMedicineRepo struct {
	bySKU     *entity.Medicine
	skuErr    error
	created   []*entity.Medicine
	createErr error
}

func (f *fakeMedicineRepo) Create(m *entity.Medicine) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, m)
	return nil
}
func (f *fakeMedicineRepo) GetByID(string) (*entity.Medicine, error)   { return nil, nil }
func (f *fakeMedicineRepo) GetBySKU(string) (*entity.Medicine, error)  { return f.bySKU, f.skuErr }
func (f *fakeMedicineRepo) GetByName(string) (*entity.Medicine, error) { return nil, nil }
func (f *fakeMedicineRepo) Update(*entity.Medicine) error              { return nil }
func (f *fakeMedicineRepo) List(int, int) ([]*entity.Medicine, error)  { return nil, nil }
func (f *fakeMedicineRepo) ListAll() ([]*entity.Medicine, error)       { return nil, nil }
func (f *fakeMedicineRepo) Delete(string) error                        { return nil }

type fakeBatchRepo struct {
	byBatchNo  *entity.Batch
	batchNoErr error
	created    []*entity.Batch
}

func (f *fakeBatchRepo) Create(b *entity.Batch) error { f.created = append(f.created, b); return nil }
func (f *fakeBatchRepo) GetByID(string) (*entity.Batch, error) { return nil, nil }
func (f *fakeBatchRepo) GetByMedicineAndBatchNo(string, string) (*entity.Batch, error) {
	return f.byBatchNo, f.batchNoErr
}
func (f *fakeBatchRepo) Update(*entity.Batch) error                     { return nil }
func (f *fakeBatchRepo) UpdateQuantity(string, int) error               { return nil }
func (f *fakeBatchRepo) List(int, int) ([]*entity.Batch, error)         { return nil, nil }
func (f *fakeBatchRepo) ListByMedicine(string) ([]*entity.Batch, error) { return nil, nil }
func (f *fakeBatchRepo) ListAll() ([]*entity.Batch, error)              { return nil, nil }
func (f *fakeBatchRepo) Delete(string) error                            { return nil }

type fakeSupplierRepo struct {
	byID *entity.Supplier
}

func (f *fakeSupplierRepo) Create(*entity.Supplier) error              { return nil }
func (f *fakeSupplierRepo) GetByID(string) (*entity.Supplier, error)   { return f.byID, nil }
func (f *fakeSupplierRepo) GetByName(string) (*entity.Supplier, error) { return nil, nil }
func (f *fakeSupplierRepo) Update(*entity.Supplier) error              { return nil }
func (f *fakeSupplierRepo) List(int, int) ([]*entity.Supplier, error)  { return nil, nil }
func (f *fakeSupplierRepo) Delete(string) error                        { return nil }

type medicineRepoWithByID struct {
	fakeMedicineRepo
	byID *entity.Medicine
}

func (f *medicineRepoWithByID) GetByID(string) (*entity.Medicine, error) { return f.byID, nil }

// ── Tests ──────────────────────────────────────────────────────────

func TestMedicineCreate_ErrorDeLecturaNoSeTragaComoNoDuplicado(t *testing.T) {
	repo := &fakeMedicineRepo{skuErr: errors.New("conexión perdida")}
	uc := usecase.NewMedicineUseCase(repo, &fakeBatchRepo{})

	_, err := uc.Create(dto.CreateMedicineRequest{SKU: "MED-001", Name: "Paracetamol 500mg", Category: "Analgésico"})
	require.Error(t, err, "un fallo al verificar el SKU debe propagarse, no tratarse como ausencia de duplicado")
	assert.Contains(t, err.Error(), "conexión perdida")
	assert.Empty(t, repo.created, "no debe intentar crear cuando la verificación falló")
}

func TestMedicineCreate_SKUDuplicadoRechaza(t *testing.T) {
	repo := &fakeMedicineRepo{bySKU: &entity.Medicine{ID: "m1", SKU: "MED-001"}}
	uc := usecase.NewMedicineUseCase(repo, &fakeBatchRepo{})

	_, err := uc.Create(dto.CreateMedicineRequest{SKU: "MED-001", Name: "Paracetamol 500mg", Category: "Analgésico"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestBatchCreate_ErrorDeLecturaNoSeTragaComoNoDuplicado(t *testing.T) {
	medRepo := &medicineRepoWithByID{byID: &entity.Medicine{ID: "m1", SKU: "MED-001"}}
	supRepo := &fakeSupplierRepo{byID: &entity.Supplier{ID: "s1", Name: "Norte"}}
	batchRepo := &fakeBatchRepo{batchNoErr: errors.New("conexión perdida")}
	uc := usecase.NewBatchUseCase(batchRepo, medRepo, supRepo)

	_, err := uc.Create(dto.CreateBatchRequest{
		MedicineID:    "m1",
		SupplierID:    "s1",
		BatchNo:       "L-001",
		ExpiryDate:    time.Now().AddDate(1, 0, 0).Format("2006-01-02"),
		Quantity:      10,
		Unit:          "cajas",
		PurchasePrice: decimal.NewFromInt(100),
	})
	require.Error(t, err, "un fallo al verificar (medicine_id, batch_no) debe propagarse")
	assert.Contains(t, err.Error(), "conexión perdida")
	assert.Empty(t, batchRepo.created)
}
