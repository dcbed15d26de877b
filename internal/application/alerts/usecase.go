// Package alerts contiene los casos de uso del tablero de alertas: cálculo
// del feed determinista, resumen narrativo opcional y reconciliación contra
// el historial persistido.
package alerts

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/application/ports"
	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/alerting"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

// AlertsUseCase orquesta el motor de alertas. El cálculo del feed es una
// lectura pura sobre el snapshot actual; solo Reconcile escribe, y lo hace
// dentro de una única transacción.
type AlertsUseCase struct {
	medicineRepo repository.MedicineRepository
	batchRepo    repository.BatchRepository
	alertRepo    repository.AlertRepository
	txRunner     AlertTxRunner
	assistant    ports.Assistant // nil si el asistente está deshabilitado
	notifier     Notifier        // nil si no hay canal de notificación
	thresholds   alerting.Thresholds
	aiTimeout    time.Duration
}

// NewAlertsUseCase construye el caso de uso. assistant y notifier pueden ser
// nil: el feed funciona igual, solo que sin resumen narrativo ni correo.
func NewAlertsUseCase(
	medicineRepo repository.MedicineRepository,
	batchRepo repository.BatchRepository,
	alertRepo repository.AlertRepository,
	txRunner AlertTxRunner,
	assistant ports.Assistant,
	notifier Notifier,
	thresholds alerting.Thresholds,
	aiTimeout time.Duration,
) *AlertsUseCase {
	if aiTimeout <= 0 {
		aiTimeout = 10 * time.Second
	}
	return &AlertsUseCase{
		medicineRepo: medicineRepo,
		batchRepo:    batchRepo,
		alertRepo:    alertRepo,
		txRunner:     txRunner,
		assistant:    assistant,
		notifier:     notifier,
		thresholds:   thresholds,
		aiTimeout:    aiTimeout,
	}
}

// Thresholds devuelve los umbrales configurados del sistema.
func (uc *AlertsUseCase) Thresholds() alerting.Thresholds {
	return uc.thresholds
}

// snapshot lee la vista consistente de medicamentos y lotes.
func (uc *AlertsUseCase) snapshot() (alerting.Snapshot, error) {
	medicines, err := uc.medicineRepo.ListAll()
	if err != nil {
		return alerting.Snapshot{}, fmt.Errorf("leer medicamentos: %w", err)
	}
	batches, err := uc.batchRepo.ListAll()
	if err != nil {
		return alerting.Snapshot{}, fmt.Errorf("leer lotes: %w", err)
	}
	snap := alerting.Snapshot{
		Medicines: make([]entity.Medicine, 0, len(medicines)),
		Batches:   make([]entity.Batch, 0, len(batches)),
	}
	for _, m := range medicines {
		snap.Medicines = append(snap.Medicines, *m)
	}
	for _, b := range batches {
		snap.Batches = append(snap.Batches, *b)
	}
	return snap, nil
}

// Feed calcula el feed crudo ordenado (lo consume el reporte PDF).
func (uc *AlertsUseCase) Feed(now time.Time, th alerting.Thresholds) ([]alerting.Alert, error) {
	snap, err := uc.snapshot()
	if err != nil {
		return nil, err
	}
	return alerting.BuildFeed(snap, now, th), nil
}

// ComputeAlerts calcula el feed determinista para el snapshot actual.
// Dos llamadas con el mismo snapshot y el mismo now producen la misma
// secuencia; la clasificación nunca falla con datos válidos.
func (uc *AlertsUseCase) ComputeAlerts(now time.Time, th alerting.Thresholds) ([]dto.AlertDTO, error) {
	feed, err := uc.Feed(now, th)
	if err != nil {
		return nil, err
	}
	out := make([]dto.AlertDTO, 0, len(feed))
	for _, a := range feed {
		out = append(out, toAlertDTO(a))
	}
	return out, nil
}

// GetFeed calcula el feed y, si withSummary, lo resume vía el asistente
// externo. El fallo del resumen NUNCA afecta el feed: la respuesta sale en
// modo degradado con SummaryAvailable=false.
func (uc *AlertsUseCase) GetFeed(ctx context.Context, now time.Time, th alerting.Thresholds, withSummary bool) (*dto.AlertFeedResponse, error) {
	items, err := uc.ComputeAlerts(now, th)
	if err != nil {
		return nil, err
	}
	resp := &dto.AlertFeedResponse{
		GeneratedAt: now,
		Alerts:      items,
	}
	if withSummary {
		summary, err := uc.Summarize(ctx, items)
		if err == nil {
			resp.Summary = summary
			resp.SummaryAvailable = true
		}
	}
	return resp, nil
}

// Summarize entrega el feed ya calculado al asistente externo con un timeout
// acotado. Cualquier fallo (timeout, cuota, credencial, respuesta malformada)
// se devuelve como domain.ErrSummarizationUnavailable; nunca es fatal para
// el resto del sistema.
func (uc *AlertsUseCase) Summarize(ctx context.Context, alerts []dto.AlertDTO) (string, error) {
	if uc.assistant == nil {
		return "", domain.ErrSummarizationUnavailable
	}
	ctx, cancel := context.WithTimeout(ctx, uc.aiTimeout)
	defer cancel()

	summary, err := uc.assistant.SummarizeAlerts(ctx, alerts)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrSummarizationUnavailable, err)
	}
	return summary, nil
}

// Reconcile sincroniza el feed calculado con el historial persistido como un
// set-diff puro sobre la clave (medicamento, tipo): inserta las alertas
// disparadas que no tienen registro ACTIVE y marca RESOLVED las ACTIVE cuya
// condición ya no se cumple. Todo dentro de una transacción.
func (uc *AlertsUseCase) Reconcile(ctx context.Context, now time.Time) (*dto.ReconcileResponse, error) {
	items, err := uc.ComputeAlerts(now, uc.thresholds)
	if err != nil {
		return nil, err
	}

	// Primera alerta por (medicamento, tipo): el feed viene ordenado por
	// urgencia, así que el mensaje persistido refleja el caso más crítico.
	triggered := make(map[string]dto.AlertDTO, len(items))
	for _, a := range items {
		key := a.MedicineID + "|" + a.Kind
		if _, ok := triggered[key]; !ok {
			triggered[key] = a
		}
	}

	resp := &dto.ReconcileResponse{}
	err = uc.txRunner.RunAlerts(ctx, func(alertRepo repository.AlertRepository) error {
		active, err := alertRepo.ListActive()
		if err != nil {
			return err
		}
		activeByKey := make(map[string]*entity.Alert, len(active))
		for _, a := range active {
			activeByKey[a.MedicineID+"|"+a.Kind] = a
		}

		for key, a := range triggered {
			if _, ok := activeByKey[key]; ok {
				continue // ya existe una alerta ACTIVE para (medicamento, tipo)
			}
			if err := alertRepo.Create(&entity.Alert{
				ID:         uuid.New().String(),
				MedicineID: a.MedicineID,
				BatchID:    a.BatchID,
				Kind:       a.Kind,
				Message:    alertMessage(a),
				Status:     entity.AlertActive,
				CreatedAt:  now,
			}); err != nil {
				return err
			}
			resp.Created++
		}

		for key, stored := range activeByKey {
			if _, ok := triggered[key]; ok {
				continue
			}
			if err := alertRepo.Resolve(stored.ID, now); err != nil {
				return err
			}
			resp.Resolved++
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("reconciliar alertas: %w", err)
	}
	return resp, nil
}

// ListStored lista el historial persistido de alertas.
func (uc *AlertsUseCase) ListStored(status string, limit, offset int) ([]dto.StoredAlertResponse, error) {
	list, err := uc.alertRepo.List(status, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StoredAlertResponse, 0, len(list))
	for _, a := range list {
		out = append(out, dto.StoredAlertResponse{
			ID:         a.ID,
			MedicineID: a.MedicineID,
			BatchID:    a.BatchID,
			Kind:       a.Kind,
			Message:    a.Message,
			Status:     a.Status,
			CreatedAt:  a.CreatedAt,
			ResolvedAt: a.ResolvedAt,
		})
	}
	return out, nil
}

func toAlertDTO(a alerting.Alert) dto.AlertDTO {
	return dto.AlertDTO{
		Kind:         string(a.Kind),
		Severity:     a.Kind.Severity(),
		MedicineID:   a.MedicineID,
		SKU:          a.SKU,
		MedicineName: a.MedicineName,
		BatchID:      a.BatchID,
		BatchNo:      a.BatchNo,
		Detail:       a.Detail,
	}
}

// alertMessage arma el mensaje legible que se persiste en el historial.
func alertMessage(a dto.AlertDTO) string {
	switch a.Kind {
	case string(alerting.KindOutOfStock):
		return fmt.Sprintf("%s (%s): agotado", a.MedicineName, a.SKU)
	case string(alerting.KindLowStock):
		return fmt.Sprintf("%s (%s): stock total %s bajo el umbral de reposición", a.MedicineName, a.SKU, a.Detail)
	case string(alerting.KindExpired):
		return fmt.Sprintf("%s (%s): lote %s vencido el %s", a.MedicineName, a.SKU, a.BatchNo, a.Detail)
	case string(alerting.KindExpiringSoon):
		return fmt.Sprintf("%s (%s): lote %s vence el %s", a.MedicineName, a.SKU, a.BatchNo, a.Detail)
	}
	return fmt.Sprintf("%s (%s): %s", a.MedicineName, a.SKU, a.Detail)
}
