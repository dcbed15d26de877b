package repository

import (
	"time"

	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
)

// AlertRepository define el puerto para el historial persistido de alertas.
// La reconciliación usa ListActive + Create + Resolve como un set-diff puro
// dentro de una transacción.
type AlertRepository interface {
	Create(alert *entity.Alert) error
	ListActive() ([]*entity.Alert, error)
	List(status string, limit, offset int) ([]*entity.Alert, error)
	// Resolve marca la alerta RESOLVED con su timestamp de resolución.
	Resolve(id string, resolvedAt time.Time) error
}
