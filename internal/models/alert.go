package models

import (
	"strings"
	"time"

	"bakesight-dashboard/internal/domain"
)

// Severity 报警级别（决定前端的紧急程度展示）
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityNormal   Severity = "normal"
)

// Category 报警类别（用于过滤）
type Category string

const (
	CategoryPayment  Category = "payment"
	CategorySafety   Category = "safety"
	CategorySecurity Category = "security"
	CategorySystem   Category = "system"
)

// Alert ID 前缀，保证不同来源的 ID 不冲突
const (
	AlertIDPrefixReview = "REV-"
	AlertIDPrefixCCTV   = "CCTV-"
)

// FilterAll 通配符
const FilterAll = "all"

// AlertStatus 报警列表状态过滤
type AlertStatus string

const (
	AlertStatusOpen     AlertStatus = "open"
	AlertStatusResolved AlertStatus = "resolved"
	AlertStatusAll      AlertStatus = "all"
)

// Alert 统一的报警视图模型（review + CCTV 事件合并后的结果）
// 每次聚合时重新构造，不在原处修改
type Alert struct {
	ID        string   `json:"id"`
	Type      Severity `json:"type"`
	Category  Category `json:"category"`
	Message   string   `json:"message"`
	Location  string   `json:"location"`
	Timestamp string   `json:"timestamp"` // KST 展示时间
	IsRead    bool     `json:"isRead"`

	// review 来源（确认处理需要）
	ReviewID *int64                 `json:"review_id,omitempty"`
	TopK     []domain.CandidateItem `json:"top_k_json,omitempty"`

	// CCTV 来源
	EventID   *int64 `json:"event_id,omitempty"`
	EventType string `json:"event_type,omitempty"`
	ClipURL   string `json:"clip_url,omitempty"`

	// 排序用的原始时间（解析失败时为零值）
	OccurredAt time.Time `json:"-"`
}

// IsReviewAlert 是否来自 review
func (a Alert) IsReviewAlert() bool {
	return strings.HasPrefix(a.ID, AlertIDPrefixReview)
}

// IsCCTVAlert 是否来自 CCTV 事件
func (a Alert) IsCCTVAlert() bool {
	return strings.HasPrefix(a.ID, AlertIDPrefixCCTV)
}

// AlertFilter 报警列表过滤条件，空值或 "all" 表示不限制
type AlertFilter struct {
	Type     string
	Category string
	Status   string
}

// EffectiveStatus 实际使用的状态过滤，默认 open
func (f AlertFilter) EffectiveStatus() AlertStatus {
	switch AlertStatus(strings.ToLower(strings.TrimSpace(f.Status))) {
	case AlertStatusResolved:
		return AlertStatusResolved
	case AlertStatusAll:
		return AlertStatusAll
	default:
		return AlertStatusOpen
	}
}

// MatchesType severity 过滤
func (f AlertFilter) MatchesType(a Alert) bool {
	return isWildcard(f.Type) || string(a.Type) == strings.TrimSpace(f.Type)
}

// MatchesCategory category 过滤
func (f AlertFilter) MatchesCategory(a Alert) bool {
	return isWildcard(f.Category) || string(a.Category) == strings.TrimSpace(f.Category)
}

func isWildcard(v string) bool {
	v = strings.TrimSpace(v)
	return v == "" || v == FilterAll
}

// AlertStats 报警统计（始终由 Alert 列表推导，不单独存储）
type AlertStats struct {
	Critical int `json:"critical"`
	Warning  int `json:"warning"`
	Normal   int `json:"normal"`
	Unread   int `json:"unread"`
	Total    int `json:"total"`
}

// BulkReadResult 全部标记已读的结果
// Success 只表示待处理列表获取成功；单条失败记录在 Failed 中
type BulkReadResult struct {
	Success   bool     `json:"success"`
	Total     int      `json:"total"`
	Succeeded int      `json:"succeeded"`
	Failed    []string `json:"failed"`
}
