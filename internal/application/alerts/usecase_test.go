package alerts_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Farmacia-api/internal/application/alerts"
	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/application/ports"
	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/alerting"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria: el caso de uso solo necesita los puertos, no PostgreSQL.
// ──────────────────────────────────────────────────────────────────────────────

type fakeMedicineRepo struct{ items []*entity.Medicine }

func (f *fakeMedicineRepo) Create(*entity.Medicine) error                  { return nil }
func (f *fakeMedicineRepo) GetByID(string) (*entity.Medicine, error)       { return nil, nil }
func (f *fakeMedicineRepo) GetBySKU(string) (*entity.Medicine, error)      { return nil, nil }
func (f *fakeMedicineRepo) GetByName(string) (*entity.Medicine, error)     { return nil, nil }
func (f *fakeMedicineRepo) Update(*entity.Medicine) error                  { return nil }
func (f *fakeMedicineRepo) List(int, int) ([]*entity.Medicine, error)      { return f.items, nil }
func (f *fakeMedicineRepo) ListAll() ([]*entity.Medicine, error)           { return f.items, nil }
func (f *fakeMedicineRepo) Delete(string) error                            { return nil }

type fakeBatchRepo struct{ items []*entity.Batch }

func (f *fakeBatchRepo) Create(*entity.Batch) error                                  { return nil }
func (f *fakeBatchRepo) GetByID(string) (*entity.Batch, error)                       { return nil, nil }
func (f *fakeBatchRepo) GetByMedicineAndBatchNo(string, string) (*entity.Batch, error) { return nil, nil }
func (f *fakeBatchRepo) Update(*entity.Batch) error                                  { return nil }
func (f *fakeBatchRepo) UpdateQuantity(string, int) error                            { return nil }
func (f *fakeBatchRepo) List(int, int) ([]*entity.Batch, error)                      { return f.items, nil }
func (f *fakeBatchRepo) ListByMedicine(string) ([]*entity.Batch, error)              { return f.items, nil }
func (f *fakeBatchRepo) ListAll() ([]*entity.Batch, error)                           { return f.items, nil }
func (f *fakeBatchRepo) Delete(string) error                                         { return nil }

type fakeAlertRepo struct{ stored []*entity.Alert }

func (f *fakeAlertRepo) Create(a *entity.Alert) error { f.stored = append(f.stored, a); return nil }
func (f *fakeAlertRepo) ListActive() ([]*entity.Alert, error) {
	var out []*entity.Alert
	for _, a := range f.stored {
		if a.Status == entity.AlertActive {
			out = append(out, a)
		}
	}
	return out, nil
}
func (f *fakeAlertRepo) List(string, int, int) ([]*entity.Alert, error) { return f.stored, nil }
func (f *fakeAlertRepo) Resolve(id string, at time.Time) error {
	for _, a := range f.stored {
		if a.ID == id {
			a.Status = entity.AlertResolved
			t := at
			a.ResolvedAt = &t
		}
	}
	return nil
}

type fakeTxRunner struct{ repo repository.AlertRepository }

func (f *fakeTxRunner) RunAlerts(_ context.Context, fn func(repository.AlertRepository) error) error {
	return fn(f.repo)
}

// fakeAssistant simula el servicio externo: puede responder, fallar o colgarse
// hasta que el contexto expire.
type fakeAssistant struct {
	reply string
	err   error
	hang  bool
}

func (f *fakeAssistant) SummarizeAlerts(ctx context.Context, _ []dto.AlertDTO) (string, error) {
	if f.hang {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return f.reply, f.err
}

func (f *fakeAssistant) Chat(context.Context, string, []dto.ChatMessage) (string, error) {
	return f.reply, f.err
}

// fakeNotifier captura el digest enviado por el canal de notificación.
type fakeNotifier struct {
	sent    bool
	subject string
	body    string
}

func (f *fakeNotifier) SendAlertDigest(_ context.Context, subject, body string) error {
	f.sent = true
	f.subject = subject
	f.body = body
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

var testNow = time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)

func intPtr(n int) *int { return &n }

func newUseCase(meds []*entity.Medicine, batches []*entity.Batch, alertRepo *fakeAlertRepo, assistant *fakeAssistant, aiTimeout time.Duration) *alerts.AlertsUseCase {
	// Un *fakeAssistant nil dentro de la interfaz no es lo mismo que un
	// puerto nil: el caso "sin asistente" se pasa como nil sin tipo.
	var port ports.Assistant
	if assistant != nil {
		port = assistant
	}
	return alerts.NewAlertsUseCase(
		&fakeMedicineRepo{items: meds},
		&fakeBatchRepo{items: batches},
		alertRepo,
		&fakeTxRunner{repo: alertRepo},
		port,
		nil,
		alerting.DefaultThresholds(),
		aiTimeout,
	)
}

func newUseCaseWithNotifier(meds []*entity.Medicine, batches []*entity.Batch, assistant *fakeAssistant, notifier *fakeNotifier) *alerts.AlertsUseCase {
	var port ports.Assistant
	if assistant != nil {
		port = assistant
	}
	// Misma trampa del nil tipado que con el asistente.
	var nport alerts.Notifier
	if notifier != nil {
		nport = notifier
	}
	alertRepo := &fakeAlertRepo{}
	return alerts.NewAlertsUseCase(
		&fakeMedicineRepo{items: meds},
		&fakeBatchRepo{items: batches},
		alertRepo,
		&fakeTxRunner{repo: alertRepo},
		port,
		nport,
		alerting.DefaultThresholds(),
		time.Second,
	)
}

// ──────────────────────────────────────────────────────────────────────────────
// Summarize: degradación sin afectar el feed
// ──────────────────────────────────────────────────────────────────────────────

// Si el asistente se cuelga hasta el timeout, el feed sale intacto con
// summary_available=false y Summarize reporta ErrSummarizationUnavailable.
func TestGetFeed_TimeoutDelAsistente_FeedIntacto(t *testing.T) {
	meds := []*entity.Medicine{{ID: "m1", SKU: "MED001", Name: "Paracetamol", ReorderLevel: intPtr(200)}}
	batches := []*entity.Batch{{ID: "b1", MedicineID: "m1", BatchNo: "L-001", Quantity: 50, ExpiryDate: testNow.AddDate(0, 6, 0)}}

	uc := newUseCase(meds, batches, &fakeAlertRepo{}, &fakeAssistant{hang: true}, 50*time.Millisecond)

	resp, err := uc.GetFeed(context.Background(), testNow, uc.Thresholds(), true)
	require.NoError(t, err, "el fallo del resumen nunca debe tumbar el cálculo del feed")

	require.Len(t, resp.Alerts, 1)
	assert.Equal(t, "LOW_STOCK", resp.Alerts[0].Kind)
	assert.Equal(t, "50", resp.Alerts[0].Detail)
	assert.False(t, resp.SummaryAvailable, "modo degradado: sin resumen")
	assert.Empty(t, resp.Summary)
}

func TestSummarize_ErrorDelAdaptador_EsSummarizationUnavailable(t *testing.T) {
	uc := newUseCase(nil, nil, &fakeAlertRepo{}, &fakeAssistant{err: errors.New("HTTP 429")}, time.Second)

	_, err := uc.Summarize(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrSummarizationUnavailable)
}

func TestSummarize_SinAsistenteConfigurado(t *testing.T) {
	uc := newUseCase(nil, nil, &fakeAlertRepo{}, nil, time.Second)

	_, err := uc.Summarize(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrSummarizationUnavailable)
}

func TestGetFeed_ResumenDisponible(t *testing.T) {
	meds := []*entity.Medicine{{ID: "m1", SKU: "MED001", Name: "Ibuprofeno"}}

	uc := newUseCase(meds, nil, &fakeAlertRepo{}, &fakeAssistant{reply: "Reponer Ibuprofeno de inmediato."}, time.Second)

	resp, err := uc.GetFeed(context.Background(), testNow, uc.Thresholds(), true)
	require.NoError(t, err)
	assert.True(t, resp.SummaryAvailable)
	assert.Equal(t, "Reponer Ibuprofeno de inmediato.", resp.Summary)
}

// ──────────────────────────────────────────────────────────────────────────────
// Reconcile: set-diff contra el historial ACTIVE
// ──────────────────────────────────────────────────────────────────────────────

// Primera reconciliación: el medicamento sin lotes dispara OUT_OF_STOCK y
// LOW_STOCK → dos alertas nuevas. Repetirla no duplica nada.
func TestReconcile_CreaYNoDuplica(t *testing.T) {
	meds := []*entity.Medicine{{ID: "m1", SKU: "MED001", Name: "Amoxicilina"}}
	alertRepo := &fakeAlertRepo{}
	uc := newUseCase(meds, nil, alertRepo, nil, time.Second)

	primera, err := uc.Reconcile(context.Background(), testNow)
	require.NoError(t, err)
	assert.Equal(t, 2, primera.Created)
	assert.Equal(t, 0, primera.Resolved)

	segunda, err := uc.Reconcile(context.Background(), testNow)
	require.NoError(t, err)
	assert.Equal(t, 0, segunda.Created, "una alerta ACTIVE para (medicamento, tipo) no se duplica")
	assert.Equal(t, 0, segunda.Resolved)
}

// Una alerta ACTIVE cuya condición ya no se cumple queda RESOLVED con
// timestamp de resolución.
func TestReconcile_ResuelveLasQueYaNoAplican(t *testing.T) {
	meds := []*entity.Medicine{{ID: "m1", SKU: "MED001", Name: "Amoxicilina"}}
	alertRepo := &fakeAlertRepo{stored: []*entity.Alert{
		{ID: "a1", MedicineID: "m1", Kind: "OUT_OF_STOCK", Status: entity.AlertActive},
		{ID: "a2", MedicineID: "m1", Kind: "LOW_STOCK", Status: entity.AlertActive},
	}}
	// Stock repuesto muy por encima del umbral por defecto.
	batches := []*entity.Batch{{ID: "b1", MedicineID: "m1", BatchNo: "L-001", Quantity: 500, ExpiryDate: testNow.AddDate(1, 0, 0)}}
	uc := newUseCase(meds, batches, alertRepo, nil, time.Second)

	resp, err := uc.Reconcile(context.Background(), testNow)
	require.NoError(t, err)
	assert.Equal(t, 0, resp.Created)
	assert.Equal(t, 2, resp.Resolved)

	for _, a := range alertRepo.stored {
		assert.Equal(t, entity.AlertResolved, a.Status)
		require.NotNil(t, a.ResolvedAt, "toda alerta resuelta lleva timestamp de resolución")
		assert.Equal(t, testNow, *a.ResolvedAt)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// ComputeAlerts: determinismo de la vía completa (repos → feed)
// ──────────────────────────────────────────────────────────────────────────────

func TestComputeAlerts_Idempotente(t *testing.T) {
	meds := []*entity.Medicine{
		{ID: "m1", SKU: "MED001", Name: "Paracetamol", ReorderLevel: intPtr(200)},
		{ID: "m2", SKU: "MED002", Name: "Ibuprofeno"},
	}
	batches := []*entity.Batch{
		{ID: "b1", MedicineID: "m1", BatchNo: "L-001", Quantity: 50, ExpiryDate: testNow.AddDate(0, 0, 15)},
	}
	uc := newUseCase(meds, batches, &fakeAlertRepo{}, nil, time.Second)

	primero, err := uc.ComputeAlerts(testNow, uc.Thresholds())
	require.NoError(t, err)
	segundo, err := uc.ComputeAlerts(testNow, uc.Thresholds())
	require.NoError(t, err)

	assert.Equal(t, primero, segundo)
	// Y el invariante de orden se mantiene tras el mapeo a DTO.
	for i := 1; i < len(primero); i++ {
		assert.GreaterOrEqual(t, primero[i-1].Severity, primero[i].Severity)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// NotifyByEmail: digest por correo con y sin resumen
// ──────────────────────────────────────────────────────────────────────────────

func TestNotifyByEmail_EnviaDigestConResumen(t *testing.T) {
	meds := []*entity.Medicine{{ID: "m1", SKU: "MED001", Name: "Paracetamol", ReorderLevel: intPtr(200)}}
	batches := []*entity.Batch{{ID: "b1", MedicineID: "m1", BatchNo: "L-001", Quantity: 50, ExpiryDate: testNow.AddDate(0, 6, 0)}}
	notifier := &fakeNotifier{}

	uc := newUseCaseWithNotifier(meds, batches, &fakeAssistant{reply: "Reponer Paracetamol cuanto antes."}, notifier)

	sent, err := uc.NotifyByEmail(context.Background(), testNow)
	require.NoError(t, err)
	assert.True(t, sent)
	assert.Contains(t, notifier.subject, "1 activas")
	assert.Contains(t, notifier.body, "Reponer Paracetamol cuanto antes.")
	assert.Contains(t, notifier.body, "LOW_STOCK")
}

// Si el asistente falla, el correo sale igual con el detalle del feed.
func TestNotifyByEmail_AsistenteCaidoEnviaSinResumen(t *testing.T) {
	meds := []*entity.Medicine{{ID: "m1", SKU: "MED001", Name: "Paracetamol", ReorderLevel: intPtr(200)}}
	batches := []*entity.Batch{{ID: "b1", MedicineID: "m1", BatchNo: "L-001", Quantity: 50, ExpiryDate: testNow.AddDate(0, 6, 0)}}
	notifier := &fakeNotifier{}

	uc := newUseCaseWithNotifier(meds, batches, &fakeAssistant{err: errors.New("HTTP 429")}, notifier)

	sent, err := uc.NotifyByEmail(context.Background(), testNow)
	require.NoError(t, err, "el fallo del resumen no debe bloquear la notificación")
	assert.True(t, sent)
	assert.Contains(t, notifier.body, "Paracetamol (MED001)")
}

func TestNotifyByEmail_FeedVacioNoEnvia(t *testing.T) {
	meds := []*entity.Medicine{{ID: "m1", SKU: "MED001", Name: "Paracetamol", ReorderLevel: intPtr(10)}}
	batches := []*entity.Batch{{ID: "b1", MedicineID: "m1", BatchNo: "L-001", Quantity: 500, ExpiryDate: testNow.AddDate(1, 0, 0)}}
	notifier := &fakeNotifier{}

	uc := newUseCaseWithNotifier(meds, batches, nil, notifier)

	sent, err := uc.NotifyByEmail(context.Background(), testNow)
	require.NoError(t, err)
	assert.False(t, sent)
	assert.False(t, notifier.sent)
}

func TestNotifyByEmail_SinCanalConfigurado(t *testing.T) {
	uc := newUseCaseWithNotifier(nil, nil, nil, nil)

	_, err := uc.NotifyByEmail(context.Background(), testNow)
	assert.ErrorIs(t, err, domain.ErrNotificationUnavailable)
}
