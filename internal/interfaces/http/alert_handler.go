package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Farmacia-api/internal/application/alerts"
	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/alerting"
)

// AlertHandler expone el feed de alertas, el resumen narrativo, la
// reconciliación del historial y el reporte PDF (protegido).
type AlertHandler struct {
	uc        *alerts.AlertsUseCase
	reportGen alerts.ReportGenerator
}

// NewAlertHandler construye el handler.
func NewAlertHandler(uc *alerts.AlertsUseCase, reportGen alerts.ReportGenerator) *AlertHandler {
	return &AlertHandler{uc: uc, reportGen: reportGen}
}

// thresholdsFromQuery parte de los umbrales del sistema y aplica los
// overrides de la query (window_days, reorder_level) si vienen.
func (h *AlertHandler) thresholdsFromQuery(c *fiber.Ctx) alerting.Thresholds {
	th := h.uc.Thresholds()
	if v := c.QueryInt("window_days", -1); v >= 0 {
		th.ExpiryWindowDays = v
	}
	if v := c.QueryInt("reorder_level", -1); v >= 0 {
		th.DefaultReorderLevel = v
	}
	return th
}

// GetFeed godoc
// @Summary      Feed de alertas de inventario
// @Description  Calcula el feed determinista (vencidos, agotados, por vencer,
//               stock bajo) sobre el snapshot actual. Con summary=true añade el
//               resumen narrativo del asistente externo; si el asistente falla
//               la respuesta sale igual con summary_available=false.
// @Tags         alerts
// @Security     Bearer
// @Produce      json
// @Param        summary        query  bool  false  "Incluir resumen narrativo"  default(false)
// @Param        window_days    query  int   false  "Override de la ventana de vencimiento"
// @Param        reorder_level  query  int   false  "Override del umbral de reposición por defecto"
// @Success      200  {object}  dto.AlertFeedResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/alerts [get]
func (h *AlertHandler) GetFeed(c *fiber.Ctx) error {
	withSummary := c.QueryBool("summary", false)
	out, err := h.uc.GetFeed(c.Context(), time.Now(), h.thresholdsFromQuery(c), withSummary)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// Summarize godoc
// @Summary      Resumen narrativo del feed actual
// @Tags         alerts
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/alerts/summary [get]
func (h *AlertHandler) Summarize(c *fiber.Ctx) error {
	items, err := h.uc.ComputeAlerts(time.Now(), h.thresholdsFromQuery(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	summary, err := h.uc.Summarize(c.Context(), items)
	if err != nil {
		if errors.Is(err, domain.ErrSummarizationUnavailable) {
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "SUMMARY_UNAVAILABLE", Message: "el asistente de resúmenes no está disponible"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(fiber.Map{"summary": summary})
}

// Reconcile godoc
// @Summary      Reconciliar el feed con el historial persistido
// @Description  Set-diff atómico sobre (medicamento, tipo): inserta alertas
//               nuevas y marca RESOLVED las que ya no aplican.
// @Tags         alerts
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ReconcileResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/alerts/reconcile [post]
func (h *AlertHandler) Reconcile(c *fiber.Ctx) error {
	out, err := h.uc.Reconcile(c.Context(), time.Now())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// History godoc
// @Summary      Historial persistido de alertas
// @Tags         alerts
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "ACTIVE | RESOLVED (vacío = todos)"
// @Param        limit   query  int     false  "Límite"   default(20)
// @Param        offset  query  int     false  "Offset"   default(0)
// @Success      200  {array}   dto.StoredAlertResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/alerts/history [get]
func (h *AlertHandler) History(c *fiber.Ctx) error {
	status := c.Query("status")
	switch status {
	case "", "ACTIVE", "RESOLVED":
	default:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "status debe ser ACTIVE o RESOLVED"})
	}
	limit, offset := pageParams(c)
	out, err := h.uc.ListStored(status, limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// Report godoc
// @Summary      Reporte PDF del feed de alertas
// @Tags         alerts
// @Security     Bearer
// @Produce      application/pdf
// @Success      200  {file}    binary
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/alerts/report [get]
func (h *AlertHandler) Report(c *fiber.Ctx) error {
	now := time.Now()
	feed, err := h.uc.Feed(now, h.thresholdsFromQuery(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	pdfBytes, err := h.reportGen.GenerateAlertReport(c.Context(), now, feed)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="alertas-inventario.pdf"`)
	return c.Send(pdfBytes)
}
