package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"bakesight-dashboard/internal/domain"
	"bakesight-dashboard/internal/models"
	"bakesight-dashboard/internal/normalizer"
	"bakesight-dashboard/internal/store"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// StoreService 门店页面服务接口；所有操作显式传入 store code
type StoreService interface {
	FetchStores(ctx context.Context) ([]domain.Store, error)
	FetchStoreInfo(ctx context.Context, storeCode string) (*models.StoreInfo, error)
	FetchDevices(ctx context.Context, storeCode string) ([]models.Device, error)
	FetchDeviceStats(ctx context.Context, storeCode string) (*models.DeviceStats, error)
	FetchTopMenu(ctx context.Context, req TopMenuRequest) ([]models.ProductSales, error)

	// central API 没有对应接口，始终返回 ErrUnsupported
	UpdateStoreInfo(ctx context.Context, storeCode string, name string) (*models.StoreInfo, error)
	UpdateDeviceStatus(ctx context.Context, storeCode, deviceID string, status models.DeviceState) (*models.Device, error)
}

// TopMenuRequest 销量排行查询参数；From/To 为零值时取当天（展示时区）至当前时间
type TopMenuRequest struct {
	StoreCode string
	From      time.Time
	To        time.Time
	Limit     int
}

const (
	defaultTopMenuLimit = 10
	maxTopMenuLimit     = 100

	cacheKeyStores  = "bakesight:stores"
	cacheKeyDevices = "bakesight:devices:"
)

// StoreServiceOptions 门店服务参数
type StoreServiceOptions struct {
	DefaultStoreCode string
	CacheTTL         time.Duration
	Location         *time.Location
	Now              func() time.Time
}

type storeService struct {
	source StoreSource
	kv     store.KV
	opts   StoreServiceOptions
	logger *zap.Logger
}

// NewStoreService 创建 StoreService 实例；kv 为 nil 时不缓存
func NewStoreService(source StoreSource, kv store.KV, opts StoreServiceOptions, logger *zap.Logger) StoreService {
	if opts.Location == nil {
		opts.Location = normalizer.KST
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &storeService{source: source, kv: kv, opts: opts, logger: logger}
}

func (s *storeService) storeCode(code string) string {
	if c := strings.TrimSpace(code); c != "" {
		return c
	}
	return s.opts.DefaultStoreCode
}

// cached 先读缓存，未命中时调用 load 并回写；缓存故障只记录日志
func cached[T any](ctx context.Context, s *storeService, key string, load func() (T, error)) (T, error) {
	var out T
	if s.kv != nil {
		err := store.GetJSON(ctx, s.kv, key, &out)
		if err == nil {
			return out, nil
		}
		if !errors.Is(err, store.ErrMiss) {
			s.logger.Warn("Cache read failed", zap.String("key", key), zap.Error(err))
		}
	}

	out, err := load()
	if err != nil {
		return out, err
	}
	if s.kv != nil {
		if err := store.SetJSON(ctx, s.kv, key, out, s.opts.CacheTTL); err != nil {
			s.logger.Warn("Cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return out, nil
}

func (s *storeService) FetchStores(ctx context.Context) ([]domain.Store, error) {
	stores, err := cached(ctx, s, cacheKeyStores, func() ([]domain.Store, error) {
		return s.source.ListStores(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("list stores: %w", err)
	}
	if stores == nil {
		stores = []domain.Store{}
	}
	return stores, nil
}

func (s *storeService) listDevices(ctx context.Context, code string) ([]domain.Device, error) {
	devices, err := cached(ctx, s, cacheKeyDevices+code, func() ([]domain.Device, error) {
		return s.source.ListDevices(ctx, code)
	})
	if err != nil {
		return nil, fmt.Errorf("list devices of %s: %w", code, err)
	}
	return devices, nil
}

func (s *storeService) FetchStoreInfo(ctx context.Context, storeCode string) (*models.StoreInfo, error) {
	code := s.storeCode(storeCode)
	stores, err := s.FetchStores(ctx)
	if err != nil {
		return nil, err
	}

	var found *domain.Store
	for i := range stores {
		if stores[i].StoreCode == code {
			found = &stores[i]
			break
		}
	}
	if found == nil {
		return nil, fmt.Errorf("%w: store %s", ErrNotFound, code)
	}

	devices, err := s.FetchDevices(ctx, code)
	if err != nil {
		return nil, err
	}
	info := &models.StoreInfo{
		StoreCode:    found.StoreCode,
		Name:         found.Name,
		TotalDevices: len(devices),
	}
	for _, d := range devices {
		if d.Status == models.DeviceOnline {
			info.OnlineDevices++
		}
	}
	return info, nil
}

func (s *storeService) FetchDevices(ctx context.Context, storeCode string) ([]models.Device, error) {
	code := s.storeCode(storeCode)
	raw, err := s.listDevices(ctx, code)
	if err != nil {
		return nil, err
	}

	devices := make([]models.Device, 0, len(raw))
	for _, d := range raw {
		lastActive, _, err := normalizer.DisplayTime(d.CreatedAt, s.opts.Location)
		if err != nil {
			lastActive = d.CreatedAt
		}
		devices = append(devices, models.Device{
			ID:         strconv.FormatInt(d.DeviceID, 10),
			Name:       d.DeviceCode,
			Type:       deviceKind(d.DeviceType),
			Location:   code,
			Status:     deviceState(d.Status),
			LastActive: lastActive,
		})
	}
	return devices, nil
}

func (s *storeService) FetchDeviceStats(ctx context.Context, storeCode string) (*models.DeviceStats, error) {
	devices, err := s.FetchDevices(ctx, storeCode)
	if err != nil {
		return nil, err
	}
	stats := &models.DeviceStats{Total: len(devices)}
	for _, d := range devices {
		switch d.Status {
		case models.DeviceOnline:
			stats.Online++
		case models.DeviceOffline:
			stats.Offline++
		default:
			stats.Warning++
		}
	}
	return stats, nil
}

func (s *storeService) FetchTopMenu(ctx context.Context, req TopMenuRequest) ([]models.ProductSales, error) {
	code := s.storeCode(req.StoreCode)
	limit := req.Limit
	if limit == 0 {
		limit = defaultTopMenuLimit
	}
	if limit < 0 || limit > maxTopMenuLimit {
		return nil, fmt.Errorf("%w: limit must be between 1 and %d", ErrValidation, maxTopMenuLimit)
	}

	to := req.To
	if to.IsZero() {
		to = s.opts.Now()
	}
	from := req.From
	if from.IsZero() {
		local := to.In(s.opts.Location)
		from = time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, s.opts.Location)
	}
	if !from.Before(to) {
		return nil, fmt.Errorf("%w: from must be before to", ErrValidation)
	}

	rows, err := s.source.TopMenu(ctx, code, from, to, limit)
	if err != nil {
		return nil, fmt.Errorf("top menu of %s: %w", code, err)
	}

	total := decimal.Zero
	for _, r := range rows {
		total = total.Add(decimal.NewFromInt(r.Qty))
	}

	sales := make([]models.ProductSales, 0, len(rows))
	for _, r := range rows {
		pct := 0.0
		if total.IsPositive() {
			pct = decimal.NewFromInt(r.Qty).
				Mul(decimal.NewFromInt(100)).
				DivRound(total, 1).
				InexactFloat64()
		}
		sales = append(sales, models.ProductSales{
			ItemID:     r.ItemID,
			Name:       r.Name,
			Value:      r.Qty,
			AmountWon:  r.AmountWon,
			Percentage: pct,
		})
	}
	return sales, nil
}

func (s *storeService) UpdateStoreInfo(_ context.Context, storeCode string, _ string) (*models.StoreInfo, error) {
	return nil, fmt.Errorf("%w: update store %s", ErrUnsupported, s.storeCode(storeCode))
}

func (s *storeService) UpdateDeviceStatus(_ context.Context, storeCode, deviceID string, _ models.DeviceState) (*models.Device, error) {
	return nil, fmt.Errorf("%w: update device %s of store %s", ErrUnsupported, deviceID, s.storeCode(storeCode))
}

func deviceKind(deviceType string) models.DeviceKind {
	switch strings.ToUpper(deviceType) {
	case domain.DeviceTypeCCTV:
		return models.DeviceCamera
	case domain.DeviceTypeCheckout:
		return models.DeviceDisplay
	default:
		return models.DeviceSensor
	}
}

func deviceState(status string) models.DeviceState {
	switch strings.ToUpper(status) {
	case domain.DeviceStatusActive:
		return models.DeviceOnline
	case domain.DeviceStatusInactive:
		return models.DeviceOffline
	default:
		return models.DeviceWarning
	}
}
