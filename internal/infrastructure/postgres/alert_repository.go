package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

var _ repository.AlertRepository = (*AlertRepo)(nil)

// AlertRepo implementación del puerto AlertRepository sobre PostgreSQL (usable con pool o tx).
type AlertRepo struct {
	q Querier
}

// NewAlertRepository construye el adaptador del historial de alertas. Pasar pool o tx (Querier).
func NewAlertRepository(q Querier) *AlertRepo {
	return &AlertRepo{q: q}
}

// Create inserta una alerta nueva (estado ACTIVE).
func (r *AlertRepo) Create(alert *entity.Alert) error {
	query := `
		INSERT INTO alerts (id, medicine_id, batch_id, kind, message, status, created_at, resolved_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		alert.ID, alert.MedicineID, nullIfEmpty(alert.BatchID), alert.Kind,
		alert.Message, alert.Status, alert.CreatedAt, alert.ResolvedAt,
	)
	if err != nil {
		return fmt.Errorf("insert alert: %w", err)
	}
	return nil
}

// ListActive devuelve las alertas ACTIVE (entrada de la reconciliación).
func (r *AlertRepo) ListActive() ([]*entity.Alert, error) {
	query := `
		SELECT id, medicine_id, COALESCE(batch_id, ''), kind, message, status, created_at, resolved_at
		FROM alerts WHERE status = $1 ORDER BY created_at, id`
	rows, err := r.q.Query(context.Background(), query, entity.AlertActive)
	if err != nil {
		return nil, fmt.Errorf("list active alerts: %w", err)
	}
	defer rows.Close()
	return scanAlerts(rows)
}

// List lista el historial con paginación; status vacío devuelve todos los estados.
func (r *AlertRepo) List(status string, limit, offset int) ([]*entity.Alert, error) {
	query := `
		SELECT id, medicine_id, COALESCE(batch_id, ''), kind, message, status, created_at, resolved_at
		FROM alerts WHERE ($1 = '' OR status = $1) ORDER BY created_at DESC, id LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	defer rows.Close()
	return scanAlerts(rows)
}

// Resolve marca la alerta RESOLVED con su timestamp de resolución.
func (r *AlertRepo) Resolve(id string, resolvedAt time.Time) error {
	query := `UPDATE alerts SET status = $2, resolved_at = $3 WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, id, entity.AlertResolved, resolvedAt)
	if err != nil {
		return fmt.Errorf("resolve alert: %w", err)
	}
	return nil
}

func scanAlerts(rows pgx.Rows) ([]*entity.Alert, error) {
	var list []*entity.Alert
	for rows.Next() {
		var a entity.Alert
		if err := rows.Scan(&a.ID, &a.MedicineID, &a.BatchID, &a.Kind, &a.Message,
			&a.Status, &a.CreatedAt, &a.ResolvedAt); err != nil {
			return nil, fmt.Errorf("scan alert: %w", err)
		}
		list = append(list, &a)
	}
	return list, rows.Err()
}

// nullIfEmpty convierte "" en NULL para columnas FK opcionales.
func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
