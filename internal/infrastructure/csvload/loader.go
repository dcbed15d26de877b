// Package csvload implementa el cargue masivo del catálogo desde archivos CSV:
// medicamentos, proveedores y lotes. El cargue es todo-o-nada: se parsean los
// tres archivos completos antes de tocar la BD y las inserciones van en una
// única transacción.
package csvload

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

const expiryLayout = "2006-01-02"

// CatalogTxRunner ejecuta el cargue dentro de una transacción de BD con los
// repos de catálogo atados a esa tx.
type CatalogTxRunner interface {
	RunCatalog(ctx context.Context, fn func(
		medicineRepo repository.MedicineRepository,
		supplierRepo repository.SupplierRepository,
		batchRepo repository.BatchRepository,
	) error) error
}

// Input rutas de los archivos a cargar. Cualquiera puede estar vacía.
type Input struct {
	MedicinesPath string
	SuppliersPath string
	BatchesPath   string
	// Latin1 indica que los archivos vienen en ISO-8859-1 (exportes de
	// sistemas antiguos de farmacia) y deben transcodificarse a UTF-8.
	Latin1 bool
}

// Summary conteo de filas insertadas por archivo.
type Summary struct {
	Medicines int
	Suppliers int
	Batches   int
}

// Loader orquesta el cargue masivo del catálogo.
type Loader struct {
	runner CatalogTxRunner
	now    func() time.Time
}

// NewLoader construye el loader.
func NewLoader(runner CatalogTxRunner) *Loader {
	return &Loader{runner: runner, now: time.Now}
}

// ── Filas parseadas ───────────────────────────────────────────────────────────

type medicineRow struct {
	name, sku, category, description string
}

type supplierRow struct {
	name, contact string
}

type batchRow struct {
	medicineName  string
	batchNo       string
	expiryDate    time.Time
	quantity      int
	unit          string
	purchasePrice decimal.Decimal
	supplierName  string
}

// ── Cargue ────────────────────────────────────────────────────────────────────

// Load parsea los archivos indicados y los inserta en una única transacción.
// Los lotes resuelven medicamento y proveedor por nombre exacto: primero
// contra las filas del propio cargue, después contra la BD. Cualquier error
// (parseo, referencia rota, duplicado) aborta el cargue completo.
func (l *Loader) Load(ctx context.Context, in Input) (Summary, error) {
	var (
		medicines []medicineRow
		suppliers []supplierRow
		batches   []batchRow
		err       error
	)

	if in.MedicinesPath != "" {
		medicines, err = parseFile(in.MedicinesPath, in.Latin1, parseMedicines)
		if err != nil {
			return Summary{}, fmt.Errorf("medicamentos: %w", err)
		}
	}
	if in.SuppliersPath != "" {
		suppliers, err = parseFile(in.SuppliersPath, in.Latin1, parseSuppliers)
		if err != nil {
			return Summary{}, fmt.Errorf("proveedores: %w", err)
		}
	}
	if in.BatchesPath != "" {
		batches, err = parseFile(in.BatchesPath, in.Latin1, parseBatches)
		if err != nil {
			return Summary{}, fmt.Errorf("lotes: %w", err)
		}
	}

	var summary Summary
	err = l.runner.RunCatalog(ctx, func(
		medicineRepo repository.MedicineRepository,
		supplierRepo repository.SupplierRepository,
		batchRepo repository.BatchRepository,
	) error {
		now := l.now()

		medicineIDs := make(map[string]string, len(medicines)) // nombre -> id
		for _, row := range medicines {
			m := &entity.Medicine{
				ID:          uuid.New().String(),
				SKU:         row.sku,
				Name:        row.name,
				Category:    row.category,
				Description: row.description,
				CreatedAt:   now,
				UpdatedAt:   now,
			}
			if err := medicineRepo.Create(m); err != nil {
				return fmt.Errorf("medicamento %q: %w", row.name, err)
			}
			medicineIDs[m.Name] = m.ID
			summary.Medicines++
		}

		supplierIDs := make(map[string]string, len(suppliers))
		for _, row := range suppliers {
			s := &entity.Supplier{
				ID:        uuid.New().String(),
				Name:      row.name,
				Contact:   row.contact,
				CreatedAt: now,
			}
			if err := supplierRepo.Create(s); err != nil {
				return fmt.Errorf("proveedor %q: %w", row.name, err)
			}
			supplierIDs[s.Name] = s.ID
			summary.Suppliers++
		}

		for _, row := range batches {
			medicineID, ok := medicineIDs[row.medicineName]
			if !ok {
				m, err := medicineRepo.GetByName(row.medicineName)
				if err != nil {
					return err
				}
				if m == nil {
					return fmt.Errorf("lote %q: medicamento %q: %w", row.batchNo, row.medicineName, domain.ErrNotFound)
				}
				medicineID = m.ID
			}
			supplierID, ok := supplierIDs[row.supplierName]
			if !ok {
				s, err := supplierRepo.GetByName(row.supplierName)
				if err != nil {
					return err
				}
				if s == nil {
					return fmt.Errorf("lote %q: proveedor %q: %w", row.batchNo, row.supplierName, domain.ErrNotFound)
				}
				supplierID = s.ID
			}
			b := &entity.Batch{
				ID:            uuid.New().String(),
				MedicineID:    medicineID,
				SupplierID:    supplierID,
				BatchNo:       row.batchNo,
				ExpiryDate:    row.expiryDate,
				Quantity:      row.quantity,
				Unit:          row.unit,
				PurchasePrice: row.purchasePrice,
				CreatedAt:     now,
				UpdatedAt:     now,
			}
			if err := batchRepo.Create(b); err != nil {
				return fmt.Errorf("lote %q de %q: %w", row.batchNo, row.medicineName, err)
			}
			summary.Batches++
		}
		return nil
	})
	if err != nil {
		return Summary{}, err
	}
	return summary, nil
}

// ── Parseo ────────────────────────────────────────────────────────────────────

func parseFile[T any](path string, latin1 bool, parse func(io.Reader) ([]T, error)) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	if latin1 {
		r = transform.NewReader(f, charmap.ISO8859_1.NewDecoder())
	}
	return parse(r)
}

func parseMedicines(r io.Reader) ([]medicineRow, error) {
	records, err := readRecords(r, []string{"name", "sku", "category", "description"})
	if err != nil {
		return nil, err
	}
	rows := make([]medicineRow, 0, len(records))
	for i, rec := range records {
		row := medicineRow{
			name:        strings.TrimSpace(rec[0]),
			sku:         strings.TrimSpace(rec[1]),
			category:    strings.TrimSpace(rec[2]),
			description: strings.TrimSpace(rec[3]),
		}
		if row.name == "" || row.sku == "" {
			return nil, fmt.Errorf("fila %d: name y sku son obligatorios", i+2)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseSuppliers(r io.Reader) ([]supplierRow, error) {
	records, err := readRecords(r, []string{"name", "contact"})
	if err != nil {
		return nil, err
	}
	rows := make([]supplierRow, 0, len(records))
	for i, rec := range records {
		row := supplierRow{
			name:    strings.TrimSpace(rec[0]),
			contact: strings.TrimSpace(rec[1]),
		}
		if row.name == "" {
			return nil, fmt.Errorf("fila %d: name es obligatorio", i+2)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseBatches(r io.Reader) ([]batchRow, error) {
	records, err := readRecords(r, []string{
		"medicine_name", "batch_no", "expiry_date", "quantity", "unit", "purchase_price", "supplier_name",
	})
	if err != nil {
		return nil, err
	}
	rows := make([]batchRow, 0, len(records))
	for i, rec := range records {
		lineNo := i + 2
		expiry, err := time.ParseInLocation(expiryLayout, strings.TrimSpace(rec[2]), time.UTC)
		if err != nil {
			return nil, fmt.Errorf("fila %d: expiry_date %q: se espera YYYY-MM-DD", lineNo, rec[2])
		}
		qty, err := strconv.Atoi(strings.TrimSpace(rec[3]))
		if err != nil || qty < 0 {
			return nil, fmt.Errorf("fila %d: quantity %q: se espera entero no negativo", lineNo, rec[3])
		}
		price, err := decimal.NewFromString(strings.TrimSpace(rec[5]))
		if err != nil {
			return nil, fmt.Errorf("fila %d: purchase_price %q: %v", lineNo, rec[5], err)
		}
		if price.IsNegative() {
			return nil, fmt.Errorf("fila %d: purchase_price %q: no puede ser negativo", lineNo, rec[5])
		}
		row := batchRow{
			medicineName:  strings.TrimSpace(rec[0]),
			batchNo:       strings.TrimSpace(rec[1]),
			expiryDate:    expiry,
			quantity:      qty,
			unit:          strings.TrimSpace(rec[4]),
			purchasePrice: price,
			supplierName:  strings.TrimSpace(rec[6]),
		}
		if row.medicineName == "" || row.batchNo == "" || row.supplierName == "" {
			return nil, fmt.Errorf("fila %d: medicine_name, batch_no y supplier_name son obligatorios", lineNo)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// readRecords lee el CSV completo validando la cabecera esperada.
func readRecords(r io.Reader, header []string) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	got, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if len(got) != len(header) {
		return nil, fmt.Errorf("cabecera: se esperan %d columnas (%s), hay %d",
			len(header), strings.Join(header, ","), len(got))
	}
	for i, name := range header {
		if !strings.EqualFold(strings.TrimSpace(got[i]), name) {
			return nil, fmt.Errorf("cabecera: columna %d debe ser %q, es %q", i+1, name, got[i])
		}
	}
	return cr.ReadAll()
}
