package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

var _ repository.MedicineRepository = (*MedicineRepo)(nil)

// MedicineRepo implementación del puerto MedicineRepository sobre PostgreSQL (usable con pool o tx).
type MedicineRepo struct {
	q Querier
}

// NewMedicineRepository construye el adaptador de persistencia para medicamentos. Pasar pool o tx (Querier).
func NewMedicineRepository(q Querier) *MedicineRepo {
	return &MedicineRepo{q: q}
}

// Create persiste un nuevo medicamento. reorder_level NULL usa el umbral del sistema.
func (r *MedicineRepo) Create(medicine *entity.Medicine) error {
	query := `
		INSERT INTO medicines (id, sku, name, category, description, reorder_level, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		medicine.ID, medicine.SKU, medicine.Name, medicine.Category,
		medicine.Description, medicine.ReorderLevel, medicine.CreatedAt, medicine.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert medicine: %w", err)
	}
	return nil
}

// GetByID obtiene un medicamento por ID.
func (r *MedicineRepo) GetByID(id string) (*entity.Medicine, error) {
	query := `
		SELECT id, sku, name, category, description, reorder_level, created_at, updated_at
		FROM medicines WHERE id = $1`
	var m entity.Medicine
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&m.ID, &m.SKU, &m.Name, &m.Category, &m.Description, &m.ReorderLevel, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get medicine: %w", err)
	}
	return &m, nil
}

// GetBySKU obtiene un medicamento por su SKU único.
func (r *MedicineRepo) GetBySKU(sku string) (*entity.Medicine, error) {
	query := `
		SELECT id, sku, name, category, description, reorder_level, created_at, updated_at
		FROM medicines WHERE sku = $1`
	var m entity.Medicine
	err := r.q.QueryRow(context.Background(), query, sku).Scan(
		&m.ID, &m.SKU, &m.Name, &m.Category, &m.Description, &m.ReorderLevel, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get medicine by sku: %w", err)
	}
	return &m, nil
}

// GetByName obtiene un medicamento por nombre exacto (usado por el cargue CSV).
func (r *MedicineRepo) GetByName(name string) (*entity.Medicine, error) {
	query := `
		SELECT id, sku, name, category, description, reorder_level, created_at, updated_at
		FROM medicines WHERE name = $1`
	var m entity.Medicine
	err := r.q.QueryRow(context.Background(), query, name).Scan(
		&m.ID, &m.SKU, &m.Name, &m.Category, &m.Description, &m.ReorderLevel, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get medicine by name: %w", err)
	}
	return &m, nil
}

// Update actualiza un medicamento existente. El SKU es inmutable después de crear.
func (r *MedicineRepo) Update(medicine *entity.Medicine) error {
	query := `
		UPDATE medicines SET name = $2, category = $3, description = $4, reorder_level = $5, updated_at = $6
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		medicine.ID, medicine.Name, medicine.Category, medicine.Description,
		medicine.ReorderLevel, medicine.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update medicine: %w", err)
	}
	return nil
}

// List lista medicamentos con paginación, orden estable por nombre.
func (r *MedicineRepo) List(limit, offset int) ([]*entity.Medicine, error) {
	query := `
		SELECT id, sku, name, category, description, reorder_level, created_at, updated_at
		FROM medicines ORDER BY name, sku LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list medicines: %w", err)
	}
	defer rows.Close()
	var list []*entity.Medicine
	for rows.Next() {
		var m entity.Medicine
		if err := rows.Scan(&m.ID, &m.SKU, &m.Name, &m.Category, &m.Description,
			&m.ReorderLevel, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan medicine: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

// ListAll devuelve el catálogo completo (snapshot del motor de alertas).
func (r *MedicineRepo) ListAll() ([]*entity.Medicine, error) {
	query := `
		SELECT id, sku, name, category, description, reorder_level, created_at, updated_at
		FROM medicines ORDER BY name, sku`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list all medicines: %w", err)
	}
	defer rows.Close()
	var list []*entity.Medicine
	for rows.Next() {
		var m entity.Medicine
		if err := rows.Scan(&m.ID, &m.SKU, &m.Name, &m.Category, &m.Description,
			&m.ReorderLevel, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan medicine: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

// Delete elimina un medicamento por ID; sus lotes caen en cascada (FK).
func (r *MedicineRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM medicines WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete medicine: %w", err)
	}
	return nil
}
