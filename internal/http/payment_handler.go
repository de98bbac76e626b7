package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"bakesight-dashboard/internal/models"
	"bakesight-dashboard/internal/service"

	"go.uber.org/zap"
)

// PaymentHandler 交易 Handler
type PaymentHandler struct {
	paymentService service.PaymentService
	logger         *zap.Logger
}

// NewPaymentHandler 创建交易 Handler
func NewPaymentHandler(paymentService service.PaymentService, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService, logger: logger}
}

// ServeHTTP 路由分发
func (h *PaymentHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	parts := splitPath(r.URL.Path, APIPrefix+"/transactions")
	switch {
	case len(parts) == 0 && r.Method == http.MethodGet:
		h.ListTransactions(w, r)
	case len(parts) == 1 && parts[0] == "stats" && r.Method == http.MethodGet:
		h.GetTransactionStats(w, r)
	case len(parts) == 2 && parts[1] == "approve" && r.Method == http.MethodPost:
		h.ApproveTransaction(w, r, parts[0])
	case len(parts) == 2 && parts[1] == "retry" && r.Method == http.MethodPost:
		h.RetryTransaction(w, r, parts[0])
	case len(parts) <= 2:
		w.WriteHeader(http.StatusMethodNotAllowed)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

// ListTransactions 交易列表
func (h *PaymentHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := models.TransactionFilter{
		Status:      strings.TrimSpace(q.Get("status")),
		SearchQuery: strings.TrimSpace(q.Get("q")),
	}
	if raw := strings.TrimSpace(q.Get("store_id")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			writeError(w, r, h.logger, "FetchTransactions", fmt.Errorf("%w: invalid store_id %q", service.ErrValidation, raw))
			return
		}
		filter.StoreID = &id
	}

	txs, err := h.paymentService.FetchTransactions(r.Context(), filter)
	if err != nil {
		writeError(w, r, h.logger, "FetchTransactions", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(txs))
}

// GetTransactionStats 交易统计
func (h *PaymentHandler) GetTransactionStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.paymentService.FetchTransactionStats(r.Context())
	if err != nil {
		writeError(w, r, h.logger, "FetchTransactionStats", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(stats))
}

// ApproveTransaction 审批交易（central API 未提供）
func (h *PaymentHandler) ApproveTransaction(w http.ResponseWriter, r *http.Request, id string) {
	tx, err := h.paymentService.ApproveTransaction(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, "ApproveTransaction", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(tx))
}

// RetryTransaction 重试交易（central API 未提供）
func (h *PaymentHandler) RetryTransaction(w http.ResponseWriter, r *http.Request, id string) {
	tx, err := h.paymentService.RetryTransaction(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, "RetryTransaction", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(tx))
}
