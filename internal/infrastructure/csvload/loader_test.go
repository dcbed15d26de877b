package csvload

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

// ── Fakes ─────────────────────────────────────────────────────────────────────

type fakeMedicineRepo struct {
	byName map[string]*entity.Medicine
	created []*entity.Medicine
	dupSKU string // SKU que simula violación de unicidad
}

func newFakeMedicineRepo() *fakeMedicineRepo {
	return &fakeMedicineRepo{byName: map[string]*entity.Medicine{}}
}

func (f *fakeMedicineRepo) Create(m *entity.Medicine) error {
	if f.dupSKU != "" && m.SKU == f.dupSKU {
		return domain.ErrDuplicate
	}
	f.byName[m.Name] = m
	f.created = append(f.created, m)
	return nil
}
func (f *fakeMedicineRepo) GetByID(string) (*entity.Medicine, error)  { return nil, nil }
func (f *fakeMedicineRepo) GetBySKU(string) (*entity.Medicine, error) { return nil, nil }
func (f *fakeMedicineRepo) GetByName(name string) (*entity.Medicine, error) {
	return f.byName[name], nil
}
func (f *fakeMedicineRepo) Update(*entity.Medicine) error                 { return nil }
func (f *fakeMedicineRepo) List(int, int) ([]*entity.Medicine, error)     { return nil, nil }
func (f *fakeMedicineRepo) ListAll() ([]*entity.Medicine, error)          { return nil, nil }
func (f *fakeMedicineRepo) Delete(string) error                           { return nil }

type fakeSupplierRepo struct {
	byName  map[string]*entity.Supplier
	created []*entity.Supplier
}

func newFakeSupplierRepo() *fakeSupplierRepo {
	return &fakeSupplierRepo{byName: map[string]*entity.Supplier{}}
}

func (f *fakeSupplierRepo) Create(s *entity.Supplier) error {
	f.byName[s.Name] = s
	f.created = append(f.created, s)
	return nil
}
func (f *fakeSupplierRepo) GetByID(string) (*entity.Supplier, error) { return nil, nil }
func (f *fakeSupplierRepo) GetByName(name string) (*entity.Supplier, error) {
	return f.byName[name], nil
}
func (f *fakeSupplierRepo) Update(*entity.Supplier) error             { return nil }
func (f *fakeSupplierRepo) List(int, int) ([]*entity.Supplier, error) { return nil, nil }
func (f *fakeSupplierRepo) Delete(string) error                       { return nil }

type fakeBatchRepo struct {
	created []*entity.Batch
}

func (f *fakeBatchRepo) Create(b *entity.Batch) error {
	f.created = append(f.created, b)
	return nil
}
func (f *fakeBatchRepo) GetByID(string) (*entity.Batch, error) { return nil, nil }
func (f *fakeBatchRepo) GetByMedicineAndBatchNo(string, string) (*entity.Batch, error) {
	return nil, nil
}
func (f *fakeBatchRepo) Update(*entity.Batch) error                     { return nil }
func (f *fakeBatchRepo) UpdateQuantity(string, int) error               { return nil }
func (f *fakeBatchRepo) List(int, int) ([]*entity.Batch, error)         { return nil, nil }
func (f *fakeBatchRepo) ListByMedicine(string) ([]*entity.Batch, error) { return nil, nil }
func (f *fakeBatchRepo) ListAll() ([]*entity.Batch, error)              { return nil, nil }
func (f *fakeBatchRepo) Delete(string) error                            { return nil }

type fakeCatalogRunner struct {
	medicineRepo *fakeMedicineRepo
	supplierRepo *fakeSupplierRepo
	batchRepo    *fakeBatchRepo
	began        bool
	rolledBack   bool
}

func (f *fakeCatalogRunner) RunCatalog(_ context.Context, fn func(
	repository.MedicineRepository,
	repository.SupplierRepository,
	repository.BatchRepository,
) error) error {
	f.began = true
	if err := fn(f.medicineRepo, f.supplierRepo, f.batchRepo); err != nil {
		f.rolledBack = true
		return err
	}
	return nil
}

func newRunner() *fakeCatalogRunner {
	return &fakeCatalogRunner{
		medicineRepo: newFakeMedicineRepo(),
		supplierRepo: newFakeSupplierRepo(),
		batchRepo:    &fakeBatchRepo{},
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// ── Tests ─────────────────────────────────────────────────────────────────────

func TestLoader_CargueCompletoResuelveNombres(t *testing.T) {
	dir := t.TempDir()
	medsPath := writeFile(t, dir, "medicines.csv",
		"name,sku,category,description\n"+
			"Paracetamol 500mg,MED-001,Analgésico,Caja x 20 tabletas\n"+
			"Amoxicilina 250mg,MED-002,Antibiótico,Frasco suspensión\n")
	supsPath := writeFile(t, dir, "suppliers.csv",
		"name,contact\n"+
			"Distribuidora Norte,ventas@norte.co\n")
	batchesPath := writeFile(t, dir, "batches.csv",
		"medicine_name,batch_no,expiry_date,quantity,unit,purchase_price,supplier_name\n"+
			"Paracetamol 500mg,L-2026-01,2026-12-31,150,tabletas,850.50,Distribuidora Norte\n"+
			"Amoxicilina 250mg,L-2026-02,2026-06-30,40,frascos,3200,Distribuidora Norte\n")

	runner := newRunner()
	loader := NewLoader(runner)

	summary, err := loader.Load(context.Background(), Input{
		MedicinesPath: medsPath,
		SuppliersPath: supsPath,
		BatchesPath:   batchesPath,
	})
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Medicines)
	assert.Equal(t, 1, summary.Suppliers)
	assert.Equal(t, 2, summary.Batches)

	// Los lotes quedan atados por ID a las filas recién insertadas
	require.Len(t, runner.batchRepo.created, 2)
	paracetamol := runner.medicineRepo.byName["Paracetamol 500mg"]
	norte := runner.supplierRepo.byName["Distribuidora Norte"]
	assert.Equal(t, paracetamol.ID, runner.batchRepo.created[0].MedicineID)
	assert.Equal(t, norte.ID, runner.batchRepo.created[0].SupplierID)
	assert.Equal(t, 150, runner.batchRepo.created[0].Quantity)
	assert.Equal(t, "850.5", runner.batchRepo.created[0].PurchasePrice.String())
}

func TestLoader_Latin1TranscodificaAcentos(t *testing.T) {
	dir := t.TempDir()
	utf8Content := "name,contact\nFarmacéutica Andina,contacto@andina.co\n"
	latin1, err := charmap.ISO8859_1.NewEncoder().String(utf8Content)
	require.NoError(t, err)
	path := writeFile(t, dir, "suppliers.csv", latin1)

	runner := newRunner()
	loader := NewLoader(runner)

	summary, err := loader.Load(context.Background(), Input{SuppliersPath: path, Latin1: true})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Suppliers)
	assert.NotNil(t, runner.supplierRepo.byName["Farmacéutica Andina"],
		"el nombre debe quedar en UTF-8 después de transcodificar")
}

func TestLoader_MedicamentoInexistenteAbortaTodo(t *testing.T) {
	dir := t.TempDir()
	batchesPath := writeFile(t, dir, "batches.csv",
		"medicine_name,batch_no,expiry_date,quantity,unit,purchase_price,supplier_name\n"+
			"No Existe,L-001,2026-01-01,10,cajas,100,Tampoco Existe\n")

	runner := newRunner()
	loader := NewLoader(runner)

	_, err := loader.Load(context.Background(), Input{BatchesPath: batchesPath})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.True(t, runner.rolledBack, "el cargue debe abortarse completo")
}

func TestLoader_FechaInvalidaFallaAntesDeLaTransaccion(t *testing.T) {
	dir := t.TempDir()
	batchesPath := writeFile(t, dir, "batches.csv",
		"medicine_name,batch_no,expiry_date,quantity,unit,purchase_price,supplier_name\n"+
			"Paracetamol 500mg,L-001,31/12/2026,10,cajas,100,Norte\n")

	runner := newRunner()
	loader := NewLoader(runner)

	_, err := loader.Load(context.Background(), Input{BatchesPath: batchesPath})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "YYYY-MM-DD")
	assert.False(t, runner.began, "el parseo falla antes de abrir la transacción")
}

func TestLoader_PrecioNegativoFallaAntesDeLaTransaccion(t *testing.T) {
	dir := t.TempDir()
	batchesPath := writeFile(t, dir, "batches.csv",
		"medicine_name,batch_no,expiry_date,quantity,unit,purchase_price,supplier_name\n"+
			"Paracetamol 500mg,L-001,2026-12-31,10,cajas,-850.50,Norte\n")

	runner := newRunner()
	loader := NewLoader(runner)

	_, err := loader.Load(context.Background(), Input{BatchesPath: batchesPath})
	require.Error(t, err, "un purchase_price negativo debe rechazarse igual que en la API")
	assert.Contains(t, err.Error(), "purchase_price")
	assert.False(t, runner.began, "el parseo falla antes de abrir la transacción")
}

func TestLoader_DuplicadoAbortaCargue(t *testing.T) {
	dir := t.TempDir()
	medsPath := writeFile(t, dir, "medicines.csv",
		"name,sku,category,description\n"+
			"Paracetamol 500mg,MED-001,Analgésico,\n")

	runner := newRunner()
	runner.medicineRepo.dupSKU = "MED-001"
	loader := NewLoader(runner)

	_, err := loader.Load(context.Background(), Input{MedicinesPath: medsPath})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	assert.True(t, runner.rolledBack)
}

func TestLoader_CabeceraIncorrecta(t *testing.T) {
	dir := t.TempDir()
	medsPath := writeFile(t, dir, "medicines.csv",
		"nombre,sku,categoria\nParacetamol,MED-001,Analgésico\n")

	runner := newRunner()
	loader := NewLoader(runner)

	_, err := loader.Load(context.Background(), Input{MedicinesPath: medsPath})
	require.Error(t, err)
	assert.False(t, runner.began)
}
