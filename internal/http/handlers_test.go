package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"bakesight-dashboard/internal/central"
	"bakesight-dashboard/internal/domain"
	"bakesight-dashboard/internal/models"
	"bakesight-dashboard/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

type fakeAlertService struct {
	alerts       []models.Alert
	err          error
	lastFilter   models.AlertFilter
	lastCtx      context.Context
	confirmed    []domain.CandidateItem
	confirmCalls int
}

func (f *fakeAlertService) FetchAlerts(ctx context.Context, filter models.AlertFilter) ([]models.Alert, error) {
	f.lastCtx = ctx
	f.lastFilter = filter
	return f.alerts, f.err
}

func (f *fakeAlertService) FetchAlertStats(context.Context) (*models.AlertStats, error) {
	if f.err != nil {
		return nil, f.err
	}
	stats := service.ComputeStats(f.alerts)
	return &stats, nil
}

func (f *fakeAlertService) GetAlert(_ context.Context, alertID string) (*models.Alert, error) {
	for i := range f.alerts {
		if f.alerts[i].ID == alertID {
			return &f.alerts[i], nil
		}
	}
	return nil, fmt.Errorf("%w: alert %s", service.ErrNotFound, alertID)
}

func (f *fakeAlertService) MarkAlertAsRead(_ context.Context, alertID string) (*models.Alert, error) {
	if strings.HasPrefix(alertID, models.AlertIDPrefixCCTV) {
		return nil, fmt.Errorf("%w: %s", service.ErrUnsupported, alertID)
	}
	if f.err != nil {
		return nil, f.err
	}
	return &models.Alert{ID: alertID, IsRead: true}, nil
}

func (f *fakeAlertService) AcknowledgeAlert(ctx context.Context, alertID string) (*models.Alert, error) {
	return f.MarkAlertAsRead(ctx, alertID)
}

func (f *fakeAlertService) ConfirmReview(_ context.Context, reviewID int64, items []domain.CandidateItem) (*models.Alert, error) {
	f.confirmCalls++
	f.confirmed = items
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: at least one candidate item is required", service.ErrValidation)
	}
	return &models.Alert{ID: fmt.Sprintf("REV-%d", reviewID), IsRead: true}, nil
}

func (f *fakeAlertService) MarkAllAlertsAsRead(context.Context) (*models.BulkReadResult, error) {
	return &models.BulkReadResult{Success: true, Total: 2, Succeeded: 1, Failed: []string{"REV-2"}}, nil
}

type fakePaymentService struct {
	lastFilter models.TransactionFilter
}

func (f *fakePaymentService) FetchTransactions(_ context.Context, filter models.TransactionFilter) ([]models.Transaction, error) {
	f.lastFilter = filter
	return []models.Transaction{{ID: "ORD-1", Status: models.TransactionAuto, Amount: "₩12,000"}}, nil
}

func (f *fakePaymentService) FetchTransactionStats(context.Context) (*models.TransactionStats, error) {
	return &models.TransactionStats{Auto: 1, Total: 1}, nil
}

func (f *fakePaymentService) ApproveTransaction(_ context.Context, id string) (*models.Transaction, error) {
	return nil, fmt.Errorf("%w: approve transaction %s", service.ErrUnsupported, id)
}

func (f *fakePaymentService) RetryTransaction(_ context.Context, id string) (*models.Transaction, error) {
	return nil, fmt.Errorf("%w: retry transaction %s", service.ErrUnsupported, id)
}

type fakeStoreService struct {
	lastTopMenu service.TopMenuRequest
}

func (f *fakeStoreService) FetchStores(context.Context) ([]domain.Store, error) {
	return []domain.Store{{StoreID: 1, StoreCode: "STORE-01", Name: "강남점"}}, nil
}

func (f *fakeStoreService) FetchStoreInfo(_ context.Context, code string) (*models.StoreInfo, error) {
	if code != "STORE-01" {
		return nil, fmt.Errorf("%w: store %s", service.ErrNotFound, code)
	}
	return &models.StoreInfo{StoreCode: code, Name: "강남점", TotalDevices: 2, OnlineDevices: 1}, nil
}

func (f *fakeStoreService) FetchDevices(_ context.Context, code string) ([]models.Device, error) {
	return []models.Device{{ID: "1", Name: "KIOSK-01", Type: models.DeviceDisplay, Location: code, Status: models.DeviceOnline}}, nil
}

func (f *fakeStoreService) FetchDeviceStats(context.Context, string) (*models.DeviceStats, error) {
	return &models.DeviceStats{Online: 1, Total: 1}, nil
}

func (f *fakeStoreService) FetchTopMenu(_ context.Context, req service.TopMenuRequest) ([]models.ProductSales, error) {
	f.lastTopMenu = req
	return []models.ProductSales{{ItemID: 9, Name: "베이글", Value: 2, Percentage: 100}}, nil
}

func (f *fakeStoreService) UpdateStoreInfo(_ context.Context, code string, _ string) (*models.StoreInfo, error) {
	return nil, fmt.Errorf("%w: update store %s", service.ErrUnsupported, code)
}

func (f *fakeStoreService) UpdateDeviceStatus(_ context.Context, code, id string, _ models.DeviceState) (*models.Device, error) {
	return nil, fmt.Errorf("%w: update device %s of store %s", service.ErrUnsupported, id, code)
}

type testEnv struct {
	router   *Router
	alerts   *fakeAlertService
	payments *fakePaymentService
	stores   *fakeStoreService
}

func newTestEnv() *testEnv {
	logger := zap.NewNop()
	env := &testEnv{
		router:   NewRouter(logger),
		alerts:   &fakeAlertService{},
		payments: &fakePaymentService{},
		stores:   &fakeStoreService{},
	}
	env.router.RegisterAlertRoutes(NewAlertHandler(env.alerts, logger))
	env.router.RegisterPaymentRoutes(NewPaymentHandler(env.payments, logger))
	env.router.RegisterStoreRoutes(NewStoreHandler(env.stores, logger))
	env.router.RegisterOpsRoutes(nil)
	return env
}

func (e *testEnv) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeResult(t *testing.T, w *httptest.ResponseRecorder) Result[json.RawMessage] {
	t.Helper()
	var res Result[json.RawMessage]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res), w.Body.String())
	return res
}

func TestListAlerts_WrapsResultAndPassesFilter(t *testing.T) {
	env := newTestEnv()
	env.alerts.alerts = []models.Alert{{ID: "REV-7", Type: models.SeverityCritical, Category: models.CategoryPayment}}

	w := env.do(http.MethodGet, APIPrefix+"/alerts?type=critical&category=payment&status=all", "")
	require.Equal(t, http.StatusOK, w.Code)

	res := decodeResult(t, w)
	assert.Equal(t, ResultSuccess, res.Code)
	assert.Contains(t, string(res.Result), `"id":"REV-7"`)
	assert.Contains(t, string(res.Result), `"isRead":false`)
	assert.Equal(t, models.AlertFilter{Type: "critical", Category: "payment", Status: "all"}, env.alerts.lastFilter)
}

func TestRouter_AssignsAndForwardsRequestID(t *testing.T) {
	env := newTestEnv()

	w := env.do(http.MethodGet, APIPrefix+"/alerts", "")
	generated := w.Header().Get(HeaderRequestID)
	assert.NotEmpty(t, generated)
	assert.Equal(t, generated, central.RequestIDFromContext(env.alerts.lastCtx))

	req := httptest.NewRequest(http.MethodGet, APIPrefix+"/alerts", nil)
	req.Header.Set(HeaderRequestID, "req-123")
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	assert.Equal(t, "req-123", rec.Header().Get(HeaderRequestID))
	assert.Equal(t, "req-123", central.RequestIDFromContext(env.alerts.lastCtx))
}

func TestErrorStatusMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"validation", fmt.Errorf("%w: bad", service.ErrValidation), http.StatusBadRequest},
		{"invalid candidates", domain.ErrInvalidCandidates, http.StatusBadRequest},
		{"not found", fmt.Errorf("%w: x", service.ErrNotFound), http.StatusNotFound},
		{"central 404", &central.APIError{StatusCode: 404, Message: "review not found"}, http.StatusNotFound},
		{"unsupported", service.ErrUnsupported, http.StatusNotImplemented},
		{"upstream", &central.APIError{StatusCode: 500, Message: "HTTP 500"}, http.StatusBadGateway},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			env := newTestEnv()
			env.alerts.err = tc.err

			w := env.do(http.MethodGet, APIPrefix+"/alerts", "")
			assert.Equal(t, tc.status, w.Code)
			res := decodeResult(t, w)
			assert.Equal(t, ResultError, res.Code)
			assert.Equal(t, tc.err.Error(), res.Message)
		})
	}
}

func TestAlertStatsAndGet(t *testing.T) {
	env := newTestEnv()
	env.alerts.alerts = []models.Alert{
		{ID: "REV-1", Type: models.SeverityCritical},
		{ID: "CCTV-2", Type: models.SeverityNormal, IsRead: true},
	}

	w := env.do(http.MethodGet, APIPrefix+"/alerts/stats", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"critical":1,"warning":0,"normal":1,"unread":1,"total":2}`, string(decodeResult(t, w).Result))

	w = env.do(http.MethodGet, APIPrefix+"/alerts/CCTV-2", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(decodeResult(t, w).Result), `"id":"CCTV-2"`)

	w = env.do(http.MethodGet, APIPrefix+"/alerts/REV-99", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAlertMutations(t *testing.T) {
	env := newTestEnv()

	w := env.do(http.MethodPost, APIPrefix+"/alerts/REV-5/read", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(decodeResult(t, w).Result), `"isRead":true`)

	w = env.do(http.MethodPost, APIPrefix+"/alerts/REV-5/acknowledge", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(http.MethodPost, APIPrefix+"/alerts/CCTV-3/read", "")
	assert.Equal(t, http.StatusNotImplemented, w.Code)

	w = env.do(http.MethodPost, APIPrefix+"/alerts/read-all", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"total":2,"succeeded":1,"failed":["REV-2"]}`, string(decodeResult(t, w).Result))

	w = env.do(http.MethodDelete, APIPrefix+"/alerts/REV-5/read", "")
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestConfirmReview_ParsesCandidateItems(t *testing.T) {
	env := newTestEnv()

	body := `{"candidate_items": [{"item_id": 9, "name_kor": "베이글"}, {"item_id": "11"}, "junk"]}`
	w := env.do(http.MethodPost, APIPrefix+"/reviews/7/confirm", body)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []domain.CandidateItem{{ItemID: 9, NameKor: "베이글"}, {ItemID: 11}}, env.alerts.confirmed)
}

func TestConfirmReview_RejectsBadInput(t *testing.T) {
	env := newTestEnv()

	w := env.do(http.MethodPost, APIPrefix+"/reviews/7/confirm", `{"candidate_items": {"item_id": 9}}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, env.alerts.confirmCalls)

	w = env.do(http.MethodPost, APIPrefix+"/reviews/abc/confirm", `{"candidate_items": []}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, env.alerts.confirmCalls)

	w = env.do(http.MethodPost, APIPrefix+"/reviews/7/confirm", `{"candidate_items": []}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, env.alerts.confirmed)
}

func TestExportAlerts_WritesXLSX(t *testing.T) {
	env := newTestEnv()
	env.alerts.alerts = []models.Alert{
		{ID: "REV-7", Type: models.SeverityCritical, Category: models.CategoryPayment, Message: "세션 #42 인식 확인 필요: 베이글", Timestamp: "2024. 01. 01. 12:00:00"},
		{ID: "CCTV-3", Type: models.SeverityWarning, Category: models.CategorySafety, IsRead: true, ClipURL: "https://storage.googleapis.com/b/c.mp4"},
	}

	w := env.do(http.MethodGet, APIPrefix+"/alerts/export?status=all", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".xlsx")

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(alertSheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, AlertExportHeader, rows[0])
	assert.Equal(t, "REV-7", rows[1][0])
	assert.Equal(t, "No", rows[1][6])
	assert.Equal(t, "Yes", rows[2][6])
	assert.Equal(t, "https://storage.googleapis.com/b/c.mp4", rows[2][7])
}

func TestTransactions(t *testing.T) {
	env := newTestEnv()

	w := env.do(http.MethodGet, APIPrefix+"/transactions?status=AUTO&q=ord&store_id=3", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(decodeResult(t, w).Result), `"amount":"₩12,000"`)
	assert.Equal(t, "AUTO", env.payments.lastFilter.Status)
	assert.Equal(t, "ord", env.payments.lastFilter.SearchQuery)
	require.NotNil(t, env.payments.lastFilter.StoreID)
	assert.Equal(t, int64(3), *env.payments.lastFilter.StoreID)

	w = env.do(http.MethodGet, APIPrefix+"/transactions?store_id=abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(http.MethodGet, APIPrefix+"/transactions/stats", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(http.MethodPost, APIPrefix+"/transactions/REV-7/approve", "")
	assert.Equal(t, http.StatusNotImplemented, w.Code)
	w = env.do(http.MethodPost, APIPrefix+"/transactions/ORD-2/retry", "")
	assert.Equal(t, http.StatusNotImplemented, w.Code)
}

func TestStores(t *testing.T) {
	env := newTestEnv()

	w := env.do(http.MethodGet, APIPrefix+"/stores", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(http.MethodGet, APIPrefix+"/stores/STORE-01", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(decodeResult(t, w).Result), `"onlineDevices":1`)

	w = env.do(http.MethodGet, APIPrefix+"/stores/STORE-99", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(http.MethodGet, APIPrefix+"/stores/STORE-01/devices", "")
	assert.Equal(t, http.StatusOK, w.Code)
	w = env.do(http.MethodGet, APIPrefix+"/stores/STORE-01/devices/stats", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(http.MethodPatch, APIPrefix+"/stores/STORE-01", `{"name":"새 이름"}`)
	assert.Equal(t, http.StatusNotImplemented, w.Code)
	w = env.do(http.MethodPatch, APIPrefix+"/stores/STORE-01/devices/1/status", `{"status":"offline"}`)
	assert.Equal(t, http.StatusNotImplemented, w.Code)
}

func TestTopMenu_ParsesRange(t *testing.T) {
	env := newTestEnv()

	w := env.do(http.MethodGet, APIPrefix+"/stores/STORE-01/top-menu?from=2024-01-01&to=2024-01-02T00:00:00Z&limit=5", "")
	require.Equal(t, http.StatusOK, w.Code)

	req := env.stores.lastTopMenu
	assert.Equal(t, "STORE-01", req.StoreCode)
	assert.Equal(t, 5, req.Limit)
	assert.True(t, req.From.Equal(time.Date(2023, 12, 31, 15, 0, 0, 0, time.UTC)))
	assert.True(t, req.To.Equal(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)))

	w = env.do(http.MethodGet, APIPrefix+"/stores/STORE-01/top-menu?from=yesterday", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealth(t *testing.T) {
	env := newTestEnv()

	w := env.do(http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)

	w = env.do(http.MethodPost, "/health", "")
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}
