package central

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"bakesight-dashboard/internal/config"
	"bakesight-dashboard/internal/domain"
	"bakesight-dashboard/internal/metrics"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// HeaderAdminKey central API 管理员认证头
const HeaderAdminKey = "X-ADMIN-KEY"

// centralTimeLayout top-menu 查询参数的时间格式（central 按 naive UTC 存储）
const centralTimeLayout = "2006-01-02T15:04:05"

// Client Bake-Sight central API 客户端
type Client struct {
	httpClient *resty.Client
	logger     *zap.Logger
	metrics    *metrics.Collector
}

// NewClient 创建 central API 客户端
func NewClient(cfg config.CentralConfig, logger *zap.Logger, m *metrics.Collector) *Client {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetRetryCount(cfg.RetryCount).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(3 * time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetHeader(HeaderAdminKey, cfg.AdminKey)
	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}

	return &Client{
		httpClient: client,
		logger:     logger,
		metrics:    m,
	}
}

// ListReviews GET /reviews?status=
func (c *Client) ListReviews(ctx context.Context, status string) ([]domain.Review, error) {
	var reviews []domain.Review
	err := c.do(ctx, "list_reviews", http.MethodGet, "/reviews", func(r *resty.Request) {
		if status != "" {
			r.SetQueryParam("status", status)
		}
	}, &reviews)
	if err != nil {
		return nil, err
	}
	return reviews, nil
}

// UpdateReview PATCH /reviews/{id}
func (c *Client) UpdateReview(ctx context.Context, reviewID int64, update domain.ReviewUpdate) (*domain.Review, error) {
	var review domain.Review
	path := "/reviews/" + strconv.FormatInt(reviewID, 10)
	err := c.do(ctx, "update_review", http.MethodPatch, path, func(r *resty.Request) {
		r.SetBody(update)
	}, &review)
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// ListCctvEvents GET /cctv/events（central 不支持按状态过滤）
func (c *Client) ListCctvEvents(ctx context.Context) ([]domain.CctvEvent, error) {
	var events []domain.CctvEvent
	if err := c.do(ctx, "list_cctv_events", http.MethodGet, "/cctv/events", nil, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// ListOrders GET /orders
func (c *Client) ListOrders(ctx context.Context, storeID *int64) ([]domain.Order, error) {
	var orders []domain.Order
	err := c.do(ctx, "list_orders", http.MethodGet, "/orders", func(r *resty.Request) {
		if storeID != nil {
			r.SetQueryParam("store_id", strconv.FormatInt(*storeID, 10))
		}
	}, &orders)
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// ListStores GET /stores
func (c *Client) ListStores(ctx context.Context) ([]domain.Store, error) {
	var stores []domain.Store
	if err := c.do(ctx, "list_stores", http.MethodGet, "/stores", nil, &stores); err != nil {
		return nil, err
	}
	return stores, nil
}

// ListDevices GET /stores/{store_code}/devices
func (c *Client) ListDevices(ctx context.Context, storeCode string) ([]domain.Device, error) {
	var devices []domain.Device
	err := c.do(ctx, "list_devices", http.MethodGet, "/stores/{store_code}/devices", func(r *resty.Request) {
		r.SetPathParam("store_code", storeCode)
	}, &devices)
	if err != nil {
		return nil, err
	}
	return devices, nil
}

// TopMenu GET /dashboards/top-menu
func (c *Client) TopMenu(ctx context.Context, storeCode string, from, to time.Time, limit int) ([]domain.TopMenuRow, error) {
	var rows []domain.TopMenuRow
	err := c.do(ctx, "top_menu", http.MethodGet, "/dashboards/top-menu", func(r *resty.Request) {
		r.SetQueryParams(map[string]string{
			"store_code": storeCode,
			"from_":      from.UTC().Format(centralTimeLayout),
			"to":         to.UTC().Format(centralTimeLayout),
			"limit":      strconv.Itoa(limit),
		})
	}, &rows)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// do 发送请求并解析 JSON 响应；非 2xx 转换为 *APIError
func (c *Client) do(ctx context.Context, endpoint, method, path string, build func(*resty.Request), out any) error {
	start := time.Now()

	req := c.httpClient.R().SetContext(ctx)
	if id := RequestIDFromContext(ctx); id != "" {
		req.SetHeader(HeaderRequestID, id)
	}
	if build != nil {
		build(req)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		c.metrics.ObserveCentral(endpoint, "transport_error", time.Since(start))
		c.logger.Error("Central API call failed",
			zap.String("endpoint", endpoint),
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return fmt.Errorf("central %s %s: %w", method, path, err)
	}

	if !resp.IsSuccess() {
		apiErr := newAPIError(resp.StatusCode(), resp.Body())
		c.metrics.ObserveCentral(endpoint, "http_error", time.Since(start))
		c.logger.Warn("Central API returned error",
			zap.String("endpoint", endpoint),
			zap.Int("status_code", resp.StatusCode()),
			zap.String("detail", apiErr.Message),
		)
		return apiErr
	}

	c.metrics.ObserveCentral(endpoint, "ok", time.Since(start))
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("decode central %s response: %w", endpoint, err)
	}
	return nil
}
