package httpapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"bakesight-dashboard/internal/models"
	"bakesight-dashboard/internal/normalizer"
	"bakesight-dashboard/internal/service"

	"go.uber.org/zap"
)

// StoreHandler 门店 Handler
type StoreHandler struct {
	storeService service.StoreService
	logger       *zap.Logger
}

// NewStoreHandler 创建门店 Handler
func NewStoreHandler(storeService service.StoreService, logger *zap.Logger) *StoreHandler {
	return &StoreHandler{storeService: storeService, logger: logger}
}

// ServeHTTP 路由分发
//
//	GET   /stores
//	GET   /stores/{code}            PATCH /stores/{code}
//	GET   /stores/{code}/devices    GET   /stores/{code}/devices/stats
//	PATCH /stores/{code}/devices/{id}/status
//	GET   /stores/{code}/top-menu
func (h *StoreHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	parts := splitPath(r.URL.Path, APIPrefix+"/stores")
	switch len(parts) {
	case 0:
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.ListStores(w, r)
	case 1:
		switch r.Method {
		case http.MethodGet:
			h.GetStoreInfo(w, r, parts[0])
		case http.MethodPatch:
			h.UpdateStoreInfo(w, r, parts[0])
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	case 2:
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		switch parts[1] {
		case "devices":
			h.ListDevices(w, r, parts[0])
		case "top-menu":
			h.GetTopMenu(w, r, parts[0])
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	case 3:
		if parts[1] != "devices" || parts[2] != "stats" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.GetDeviceStats(w, r, parts[0])
	case 4:
		if parts[1] != "devices" || parts[3] != "status" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if r.Method != http.MethodPatch {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.UpdateDeviceStatus(w, r, parts[0], parts[2])
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

// ListStores 门店列表
func (h *StoreHandler) ListStores(w http.ResponseWriter, r *http.Request) {
	stores, err := h.storeService.FetchStores(r.Context())
	if err != nil {
		writeError(w, r, h.logger, "FetchStores", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(stores))
}

// GetStoreInfo 门店概要
func (h *StoreHandler) GetStoreInfo(w http.ResponseWriter, r *http.Request, code string) {
	info, err := h.storeService.FetchStoreInfo(r.Context(), code)
	if err != nil {
		writeError(w, r, h.logger, "FetchStoreInfo", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(info))
}

// UpdateStoreInfo 修改门店信息（central API 未提供）
func (h *StoreHandler) UpdateStoreInfo(w http.ResponseWriter, r *http.Request, code string) {
	var req struct {
		Name string `json:"name"`
	}
	if err := readBodyJSON(r, maxBodyBytes, &req); err != nil {
		writeError(w, r, h.logger, "UpdateStoreInfo", fmt.Errorf("%w: invalid request body", service.ErrValidation))
		return
	}
	info, err := h.storeService.UpdateStoreInfo(r.Context(), code, req.Name)
	if err != nil {
		writeError(w, r, h.logger, "UpdateStoreInfo", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(info))
}

// ListDevices 设备列表
func (h *StoreHandler) ListDevices(w http.ResponseWriter, r *http.Request, code string) {
	devices, err := h.storeService.FetchDevices(r.Context(), code)
	if err != nil {
		writeError(w, r, h.logger, "FetchDevices", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(devices))
}

// GetDeviceStats 设备统计
func (h *StoreHandler) GetDeviceStats(w http.ResponseWriter, r *http.Request, code string) {
	stats, err := h.storeService.FetchDeviceStats(r.Context(), code)
	if err != nil {
		writeError(w, r, h.logger, "FetchDeviceStats", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(stats))
}

// UpdateDeviceStatus 修改设备状态（central API 未提供）
func (h *StoreHandler) UpdateDeviceStatus(w http.ResponseWriter, r *http.Request, code, deviceID string) {
	var req struct {
		Status models.DeviceState `json:"status"`
	}
	if err := readBodyJSON(r, maxBodyBytes, &req); err != nil {
		writeError(w, r, h.logger, "UpdateDeviceStatus", fmt.Errorf("%w: invalid request body", service.ErrValidation))
		return
	}
	device, err := h.storeService.UpdateDeviceStatus(r.Context(), code, deviceID, req.Status)
	if err != nil {
		writeError(w, r, h.logger, "UpdateDeviceStatus", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(device))
}

// GetTopMenu 销量排行
func (h *StoreHandler) GetTopMenu(w http.ResponseWriter, r *http.Request, code string) {
	q := r.URL.Query()
	from, err := parseQueryTime(q.Get("from"))
	if err != nil {
		writeError(w, r, h.logger, "FetchTopMenu", fmt.Errorf("%w: from: %v", service.ErrValidation, err))
		return
	}
	to, err := parseQueryTime(q.Get("to"))
	if err != nil {
		writeError(w, r, h.logger, "FetchTopMenu", fmt.Errorf("%w: to: %v", service.ErrValidation, err))
		return
	}

	sales, err := h.storeService.FetchTopMenu(r.Context(), service.TopMenuRequest{
		StoreCode: code,
		From:      from,
		To:        to,
		Limit:     parseInt(q.Get("limit"), 0),
	})
	if err != nil {
		writeError(w, r, h.logger, "FetchTopMenu", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(sales))
}

// parseQueryTime RFC3339 或 "2006-01-02"（按 KST 日期）；空值返回零值
func parseQueryTime(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.ParseInLocation("2006-01-02", raw, normalizer.KST)
}
