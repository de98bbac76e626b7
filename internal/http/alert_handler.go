package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"bakesight-dashboard/internal/domain"
	"bakesight-dashboard/internal/models"
	"bakesight-dashboard/internal/service"

	"go.uber.org/zap"
)

// AlertHandler 报警 Handler
type AlertHandler struct {
	alertService service.AlertService
	logger       *zap.Logger
}

// NewAlertHandler 创建报警 Handler
func NewAlertHandler(alertService service.AlertService, logger *zap.Logger) *AlertHandler {
	return &AlertHandler{alertService: alertService, logger: logger}
}

// ServeHTTP 路由分发
func (h *AlertHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, APIPrefix+"/reviews/") {
		h.serveReviews(w, r)
		return
	}

	parts := splitPath(r.URL.Path, APIPrefix+"/alerts")
	switch {
	case len(parts) == 0 && r.Method == http.MethodGet:
		h.ListAlerts(w, r)
	case len(parts) == 1 && parts[0] == "stats" && r.Method == http.MethodGet:
		h.GetAlertStats(w, r)
	case len(parts) == 1 && parts[0] == "export" && r.Method == http.MethodGet:
		h.ExportAlerts(w, r)
	case len(parts) == 1 && parts[0] == "read-all" && r.Method == http.MethodPost:
		h.MarkAllAlertsAsRead(w, r)
	case len(parts) == 1 && r.Method == http.MethodGet:
		h.GetAlert(w, r, parts[0])
	case len(parts) == 2 && parts[1] == "read" && r.Method == http.MethodPost:
		h.MarkAlertAsRead(w, r, parts[0])
	case len(parts) == 2 && parts[1] == "acknowledge" && r.Method == http.MethodPost:
		h.AcknowledgeAlert(w, r, parts[0])
	case len(parts) <= 2:
		w.WriteHeader(http.StatusMethodNotAllowed)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (h *AlertHandler) serveReviews(w http.ResponseWriter, r *http.Request) {
	parts := splitPath(r.URL.Path, APIPrefix+"/reviews")
	if len(parts) != 2 || parts[1] != "confirm" {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	h.ConfirmReview(w, r, parts[0])
}

func alertFilterFromQuery(r *http.Request) models.AlertFilter {
	q := r.URL.Query()
	return models.AlertFilter{
		Type:     strings.TrimSpace(q.Get("type")),
		Category: strings.TrimSpace(q.Get("category")),
		Status:   strings.TrimSpace(q.Get("status")),
	}
}

// ListAlerts 报警列表
func (h *AlertHandler) ListAlerts(w http.ResponseWriter, r *http.Request) {
	alerts, err := h.alertService.FetchAlerts(r.Context(), alertFilterFromQuery(r))
	if err != nil {
		writeError(w, r, h.logger, "FetchAlerts", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(alerts))
}

// GetAlertStats 未处理报警统计
func (h *AlertHandler) GetAlertStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.alertService.FetchAlertStats(r.Context())
	if err != nil {
		writeError(w, r, h.logger, "FetchAlertStats", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(stats))
}

// ExportAlerts 导出报警列表（xlsx）
func (h *AlertHandler) ExportAlerts(w http.ResponseWriter, r *http.Request) {
	alerts, err := h.alertService.FetchAlerts(r.Context(), alertFilterFromQuery(r))
	if err != nil {
		writeError(w, r, h.logger, "ExportAlerts", err)
		return
	}

	data, err := GenerateAlertExport(alerts)
	if err != nil {
		h.logger.Error("GenerateAlertExport failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail(fmt.Sprintf("failed to generate export: %v", err)))
		return
	}

	filename := fmt.Sprintf("alerts-%s.xlsx", time.Now().UTC().Format("20060102-150405"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// GetAlert 单条报警
func (h *AlertHandler) GetAlert(w http.ResponseWriter, r *http.Request, alertID string) {
	alert, err := h.alertService.GetAlert(r.Context(), alertID)
	if err != nil {
		writeError(w, r, h.logger, "GetAlert", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(alert))
}

// MarkAlertAsRead 标记已读
func (h *AlertHandler) MarkAlertAsRead(w http.ResponseWriter, r *http.Request, alertID string) {
	alert, err := h.alertService.MarkAlertAsRead(r.Context(), alertID)
	if err != nil {
		writeError(w, r, h.logger, "MarkAlertAsRead", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(alert))
}

// AcknowledgeAlert 确认报警
func (h *AlertHandler) AcknowledgeAlert(w http.ResponseWriter, r *http.Request, alertID string) {
	alert, err := h.alertService.AcknowledgeAlert(r.Context(), alertID)
	if err != nil {
		writeError(w, r, h.logger, "AcknowledgeAlert", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(alert))
}

// MarkAllAlertsAsRead 全部标记已读
func (h *AlertHandler) MarkAllAlertsAsRead(w http.ResponseWriter, r *http.Request) {
	result, err := h.alertService.MarkAllAlertsAsRead(r.Context())
	if err != nil {
		writeError(w, r, h.logger, "MarkAllAlertsAsRead", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(result))
}

// confirmReviewRequest candidate_items 形状不固定，在这里统一解析
type confirmReviewRequest struct {
	CandidateItems json.RawMessage `json:"candidate_items"`
}

// ConfirmReview 确认识别结果
func (h *AlertHandler) ConfirmReview(w http.ResponseWriter, r *http.Request, rawID string) {
	reviewID, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil || reviewID <= 0 {
		writeError(w, r, h.logger, "ConfirmReview", fmt.Errorf("%w: invalid review id %q", service.ErrValidation, rawID))
		return
	}

	var req confirmReviewRequest
	if err := readBodyJSON(r, maxBodyBytes, &req); err != nil {
		writeError(w, r, h.logger, "ConfirmReview", fmt.Errorf("%w: invalid request body", service.ErrValidation))
		return
	}
	items, err := domain.ParseCandidateItems(req.CandidateItems)
	if err != nil {
		writeError(w, r, h.logger, "ConfirmReview", err)
		return
	}

	alert, err := h.alertService.ConfirmReview(r.Context(), reviewID, items)
	if err != nil {
		writeError(w, r, h.logger, "ConfirmReview", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(alert))
}
