package normalizer

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"bakesight-dashboard/internal/domain"
	"bakesight-dashboard/internal/models"

	"go.uber.org/zap"
)

// Options 归一化参数（显式传入，不依赖全局状态）
type Options struct {
	Location       *time.Location // 展示时区，nil 为 KST
	ClipPublicHost string         // 空值为 DefaultPublicHost
	Logger         *zap.Logger    // 解析警告；nil 不输出
}

func (o Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

// NormalizeReview review → Alert
// 时间戳或候选列表解析失败只记录警告，Alert 仍然可用
func NormalizeReview(r domain.Review, opts Options) models.Alert {
	candidates, err := domain.ParseCandidateItems(r.TopKJSON)
	if err != nil {
		opts.logger().Warn("Ignoring malformed top_k_json",
			zap.Int64("review_id", r.ReviewID),
			zap.Error(err),
		)
		candidates = []domain.CandidateItem{}
	}

	display, occurredAt, err := DisplayTime(r.CreatedAt, opts.Location)
	if err != nil {
		opts.logger().Warn("Unparseable review timestamp",
			zap.Int64("review_id", r.ReviewID),
			zap.String("created_at", r.CreatedAt),
			zap.Error(err),
		)
	}

	severity, category := ClassifyReview(r.Reason)
	reviewID := r.ReviewID
	return models.Alert{
		ID:         ReviewAlertID(r.ReviewID),
		Type:       severity,
		Category:   category,
		Message:    ReviewMessage(r.SessionID, r.Reason, candidates),
		Location:   reviewLocation(r),
		Timestamp:  display,
		IsRead:     !r.IsOpen(),
		ReviewID:   &reviewID,
		TopK:       candidates,
		OccurredAt: occurredAt,
	}
}

// NormalizeDetection CCTV 事件 → Alert
func NormalizeDetection(e domain.CctvEvent, opts Options) models.Alert {
	display, occurredAt, err := DisplayTime(e.CreatedAt, opts.Location)
	if err != nil {
		opts.logger().Warn("Unparseable CCTV event timestamp",
			zap.Int64("event_id", e.EventID),
			zap.String("created_at", e.CreatedAt),
			zap.Error(err),
		)
	}

	var clipURL string
	if len(e.Clips) > 0 {
		clipURL = PublicClipURL(e.Clips[0].ClipGCSURI, opts.ClipPublicHost)
	}

	severity, category := ClassifyDetection(e.EventType)
	eventID := e.EventID
	return models.Alert{
		ID:         CCTVAlertID(e.EventID),
		Type:       severity,
		Category:   category,
		Message:    DetectionMessage(e.EventType),
		Location:   fmt.Sprintf("CCTV Device #%d", e.CctvDeviceID),
		Timestamp:  display,
		IsRead:     !e.IsOpen(),
		EventID:    &eventID,
		EventType:  e.EventType,
		ClipURL:    clipURL,
		OccurredAt: occurredAt,
	}
}

// ReviewAlertID "REV-<review_id>"
func ReviewAlertID(reviewID int64) string {
	return models.AlertIDPrefixReview + strconv.FormatInt(reviewID, 10)
}

// CCTVAlertID "CCTV-<event_id>"
func CCTVAlertID(eventID int64) string {
	return models.AlertIDPrefixCCTV + strconv.FormatInt(eventID, 10)
}

// ParseReviewAlertID "REV-<n>" → n
func ParseReviewAlertID(alertID string) (int64, error) {
	s := strings.TrimSpace(alertID)
	if !strings.HasPrefix(s, models.AlertIDPrefixReview) {
		return 0, fmt.Errorf("not a review alert id: %q", alertID)
	}
	id, err := strconv.ParseInt(strings.TrimPrefix(s, models.AlertIDPrefixReview), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid review alert id: %q", alertID)
	}
	return id, nil
}

func reviewLocation(r domain.Review) string {
	store := derefTrim(r.StoreName)
	device := derefTrim(r.DeviceCode)
	if store != "" && device != "" {
		return store + " / " + device
	}
	return fmt.Sprintf("Session #%d", r.SessionID)
}

func derefTrim(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
