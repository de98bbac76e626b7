package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"bakesight-dashboard/internal/domain"
	"bakesight-dashboard/internal/metrics"
	"bakesight-dashboard/internal/models"
	"bakesight-dashboard/internal/normalizer"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// AlertService 报警服务接口（review + CCTV 事件合并后的统一报警视图）
type AlertService interface {
	// 查询报警列表（并发获取两个来源，CCTV 来源失败时降级为空）
	FetchAlerts(ctx context.Context, filter models.AlertFilter) ([]models.Alert, error)

	// 未处理报警统计（与列表过滤条件无关）
	FetchAlertStats(ctx context.Context) (*models.AlertStats, error)

	// 按 ID 查询单条报警
	GetAlert(ctx context.Context, alertID string) (*models.Alert, error)

	// 标记已读 / 确认（仅 review 来源）
	MarkAlertAsRead(ctx context.Context, alertID string) (*models.Alert, error)
	AcknowledgeAlert(ctx context.Context, alertID string) (*models.Alert, error)

	// 确认 review 的识别结果（每个候选商品数量为 1）
	ConfirmReview(ctx context.Context, reviewID int64, items []domain.CandidateItem) (*models.Alert, error)

	// 将所有未处理 review 标记为已处理
	MarkAllAlertsAsRead(ctx context.Context) (*models.BulkReadResult, error)
}

// AlertServiceOptions 报警服务参数
type AlertServiceOptions struct {
	ResolverID      string         // 写入 resolved_by
	ClipPublicHost  string         // 录像公开地址
	Location        *time.Location // 展示时区，nil 为 KST
	BulkConcurrency int            // MarkAllAlertsAsRead 并发上限，0 = 不限制
}

// metric 标签
const (
	sourceDetections = "cctv_events"

	opMarkRead    = "mark_read"
	opAcknowledge = "acknowledge"
	opConfirm     = "confirm"
	opMarkAllRead = "mark_all_read"
)

type alertService struct {
	reviews    ReviewSource
	detections DetectionSource
	opts       AlertServiceOptions
	metrics    *metrics.Collector
	logger     *zap.Logger
}

// NewAlertService 创建 AlertService 实例
func NewAlertService(
	reviews ReviewSource,
	detections DetectionSource,
	opts AlertServiceOptions,
	m *metrics.Collector,
	logger *zap.Logger,
) AlertService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &alertService{
		reviews:    reviews,
		detections: detections,
		opts:       opts,
		metrics:    m,
		logger:     logger,
	}
}

func (s *alertService) normalizeOptions() normalizer.Options {
	return normalizer.Options{
		Location:       s.opts.Location,
		ClipPublicHost: s.opts.ClipPublicHost,
		Logger:         s.logger,
	}
}

// reviewStatuses 列表状态 → 需要查询的 review 状态
func reviewStatuses(status models.AlertStatus) []string {
	switch status {
	case models.AlertStatusResolved:
		return []string{domain.ReviewStatusResolved}
	case models.AlertStatusAll:
		return []string{domain.ReviewStatusOpen, domain.ReviewStatusResolved}
	default:
		return []string{domain.ReviewStatusOpen}
	}
}

// detectionMatchesStatus CCTV 事件只能在本地按状态过滤
func detectionMatchesStatus(e domain.CctvEvent, status models.AlertStatus) bool {
	switch status {
	case models.AlertStatusOpen:
		return e.IsOpen()
	case models.AlertStatusResolved:
		return !e.IsOpen()
	default:
		return true
	}
}

func (s *alertService) FetchAlerts(ctx context.Context, filter models.AlertFilter) ([]models.Alert, error) {
	status := filter.EffectiveStatus()
	statuses := reviewStatuses(status)

	// 每个 goroutine 只写自己的槽位，Wait 之后再读取
	reviewBatches := make([][]domain.Review, len(statuses))
	var events []domain.CctvEvent

	g, gctx := errgroup.WithContext(ctx)
	for i, st := range statuses {
		i, st := i, st
		g.Go(func() error {
			rs, err := s.reviews.ListReviews(gctx, st)
			if err != nil {
				return fmt.Errorf("list %s reviews: %w", st, err)
			}
			reviewBatches[i] = rs
			return nil
		})
	}
	g.Go(func() error {
		evs, err := s.detections.ListCctvEvents(gctx)
		if err != nil {
			// review 失败已取消 gctx，此时不算 CCTV 降级
			if gctx.Err() != nil {
				return nil
			}
			// CCTV 来源失败不影响 review 报警
			s.logger.Warn("CCTV events unavailable, continuing with reviews only", zap.Error(err))
			s.metrics.SourceDegraded(sourceDetections)
			return nil
		}
		events = evs
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	opts := s.normalizeOptions()
	alerts := make([]models.Alert, 0, len(events)+len(reviewBatches)*8)
	for _, batch := range reviewBatches {
		for _, r := range batch {
			alerts = append(alerts, normalizer.NormalizeReview(r, opts))
		}
	}
	for _, e := range events {
		if !detectionMatchesStatus(e, status) {
			continue
		}
		alerts = append(alerts, normalizer.NormalizeDetection(e, opts))
	}

	// 最新的在前；时间相同（或无法解析）时保持合并顺序
	sort.SliceStable(alerts, func(i, j int) bool {
		return alerts[i].OccurredAt.After(alerts[j].OccurredAt)
	})

	filtered := alerts[:0]
	for _, a := range alerts {
		if filter.MatchesType(a) && filter.MatchesCategory(a) {
			filtered = append(filtered, a)
		}
	}
	return filtered, nil
}

func (s *alertService) FetchAlertStats(ctx context.Context) (*models.AlertStats, error) {
	alerts, err := s.FetchAlerts(ctx, models.AlertFilter{Status: string(models.AlertStatusOpen)})
	if err != nil {
		return nil, err
	}
	stats := ComputeStats(alerts)
	return &stats, nil
}

func (s *alertService) GetAlert(ctx context.Context, alertID string) (*models.Alert, error) {
	id := strings.TrimSpace(alertID)
	if id == "" {
		return nil, fmt.Errorf("%w: alert id is required", ErrValidation)
	}
	alerts, err := s.FetchAlerts(ctx, models.AlertFilter{Status: string(models.AlertStatusAll)})
	if err != nil {
		return nil, err
	}
	for i := range alerts {
		if alerts[i].ID == id {
			return &alerts[i], nil
		}
	}
	return nil, fmt.Errorf("%w: alert %s", ErrNotFound, id)
}

func (s *alertService) MarkAlertAsRead(ctx context.Context, alertID string) (*models.Alert, error) {
	return s.resolveAlert(ctx, opMarkRead, alertID)
}

func (s *alertService) AcknowledgeAlert(ctx context.Context, alertID string) (*models.Alert, error) {
	return s.resolveAlert(ctx, opAcknowledge, alertID)
}

// resolveAlert REV-<id> → PATCH /reviews/{id} {status: RESOLVED}
func (s *alertService) resolveAlert(ctx context.Context, op, alertID string) (*models.Alert, error) {
	id := strings.TrimSpace(alertID)
	if strings.HasPrefix(id, models.AlertIDPrefixCCTV) {
		err := fmt.Errorf("%w: CCTV alert %s has no read state in central API", ErrUnsupported, id)
		s.metrics.AlertMutation(op, err)
		return nil, err
	}
	reviewID, err := normalizer.ParseReviewAlertID(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	return s.updateReview(ctx, op, reviewID, domain.ReviewUpdate{
		Status:     domain.ReviewStatusResolved,
		ResolvedBy: s.opts.ResolverID,
	})
}

func (s *alertService) ConfirmReview(ctx context.Context, reviewID int64, items []domain.CandidateItem) (*models.Alert, error) {
	if reviewID <= 0 {
		return nil, fmt.Errorf("%w: invalid review id %d", ErrValidation, reviewID)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: at least one candidate item is required", ErrValidation)
	}
	for i, it := range items {
		if err := it.Validate(); err != nil {
			return nil, fmt.Errorf("%w: candidate item %d: %v", ErrValidation, i, err)
		}
	}

	return s.updateReview(ctx, opConfirm, reviewID, domain.ReviewUpdate{
		Status:         domain.ReviewStatusResolved,
		ResolvedBy:     s.opts.ResolverID,
		ConfirmedItems: domain.ToConfirmedItems(items),
	})
}

func (s *alertService) updateReview(ctx context.Context, op string, reviewID int64, update domain.ReviewUpdate) (*models.Alert, error) {
	updated, err := s.reviews.UpdateReview(ctx, reviewID, update)
	if err == nil && updated == nil {
		err = fmt.Errorf("empty response body")
	}
	s.metrics.AlertMutation(op, err)
	if err != nil {
		return nil, fmt.Errorf("update review %d: %w", reviewID, err)
	}

	s.logger.Info("Review resolved",
		zap.String("operation", op),
		zap.Int64("review_id", reviewID),
		zap.Int("confirmed_items", len(update.ConfirmedItems)),
	)
	alert := normalizer.NormalizeReview(*updated, s.normalizeOptions())
	return &alert, nil
}

func (s *alertService) MarkAllAlertsAsRead(ctx context.Context) (*models.BulkReadResult, error) {
	open, err := s.reviews.ListReviews(ctx, domain.ReviewStatusOpen)
	if err != nil {
		return nil, fmt.Errorf("list open reviews: %w", err)
	}

	// 单条失败不取消其它请求
	errs := make([]error, len(open))
	var g errgroup.Group
	if s.opts.BulkConcurrency > 0 {
		g.SetLimit(s.opts.BulkConcurrency)
	}
	for i, r := range open {
		i, reviewID := i, r.ReviewID
		g.Go(func() error {
			_, errs[i] = s.reviews.UpdateReview(ctx, reviewID, domain.ReviewUpdate{
				Status:     domain.ReviewStatusResolved,
				ResolvedBy: s.opts.ResolverID,
			})
			s.metrics.AlertMutation(opMarkAllRead, errs[i])
			return nil
		})
	}
	_ = g.Wait()

	result := &models.BulkReadResult{
		Success: true,
		Total:   len(open),
		Failed:  []string{},
	}
	for i, r := range open {
		if errs[i] != nil {
			alertID := normalizer.ReviewAlertID(r.ReviewID)
			result.Failed = append(result.Failed, alertID)
			s.logger.Warn("Failed to mark alert as read",
				zap.String("alert_id", alertID),
				zap.Error(errs[i]),
			)
			continue
		}
		result.Succeeded++
	}
	return result, nil
}
