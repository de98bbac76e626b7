package service

import (
	"context"
	"time"

	"bakesight-dashboard/internal/domain"
)

// 服务依赖的 central API 能力（*central.Client 实现全部接口，测试中使用 fake）

// ReviewSource review 查询与更新
type ReviewSource interface {
	ListReviews(ctx context.Context, status string) ([]domain.Review, error)
	UpdateReview(ctx context.Context, reviewID int64, update domain.ReviewUpdate) (*domain.Review, error)
}

// DetectionSource CCTV 事件查询
type DetectionSource interface {
	ListCctvEvents(ctx context.Context) ([]domain.CctvEvent, error)
}

// OrderSource 订单查询
type OrderSource interface {
	ListOrders(ctx context.Context, storeID *int64) ([]domain.Order, error)
}

// StoreSource 门店 / 设备 / 销量排行查询
type StoreSource interface {
	ListStores(ctx context.Context) ([]domain.Store, error)
	ListDevices(ctx context.Context, storeCode string) ([]domain.Device, error)
	TopMenu(ctx context.Context, storeCode string, from, to time.Time, limit int) ([]domain.TopMenuRow, error)
}
