package dto

import "time"

// AlertDTO un registro del feed de alertas, listo para renderizar.
type AlertDTO struct {
	Kind         string `json:"kind"` // EXPIRED | OUT_OF_STOCK | EXPIRING_SOON | LOW_STOCK
	Severity     int    `json:"severity"`
	MedicineID   string `json:"medicine_id"`
	SKU          string `json:"sku"`
	MedicineName string `json:"medicine_name"`
	BatchID      string `json:"batch_id,omitempty"`
	BatchNo      string `json:"batch_no,omitempty"`
	// Detail es el valor disparador: cantidad total para alertas de stock,
	// fecha de vencimiento YYYY-MM-DD para las de fecha.
	Detail string `json:"detail"`
}

// AlertFeedResponse el feed determinista más el resumen narrativo opcional.
// El feed siempre está presente; si el servicio externo de resumen falla,
// SummaryAvailable queda en false y el tablero renderiza en modo degradado.
type AlertFeedResponse struct {
	GeneratedAt      time.Time  `json:"generated_at"`
	Alerts           []AlertDTO `json:"alerts"`
	Summary          string     `json:"summary,omitempty"`
	SummaryAvailable bool       `json:"summary_available"`
}

// ReconcileResponse resultado de reconciliar el feed contra el historial.
type ReconcileResponse struct {
	Created  int `json:"created"`
	Resolved int `json:"resolved"`
}

// StoredAlertResponse una alerta persistida del historial.
type StoredAlertResponse struct {
	ID         string     `json:"id"`
	MedicineID string     `json:"medicine_id"`
	BatchID    string     `json:"batch_id,omitempty"`
	Kind       string     `json:"kind"`
	Message    string     `json:"message"`
	Status     string     `json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
}
