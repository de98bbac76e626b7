package domain

import (
	"encoding/json"
	"strings"
)

// Review 状态
const (
	ReviewStatusOpen     = "OPEN"
	ReviewStatusResolved = "RESOLVED"
)

// Review reason（central API 只产生这三种，其它值按 "other" 处理）
const (
	ReasonAdminCall = "ADMIN_CALL"
	ReasonReview    = "REVIEW"
	ReasonUnknown   = "UNKNOWN"
)

// Review central API 返回的待人工确认的结账会话（GET /reviews）
type Review struct {
	ReviewID           int64           `json:"review_id"`
	SessionID          int64           `json:"session_id"`
	RunID              *int64          `json:"run_id,omitempty"`
	Status             string          `json:"status"`
	Reason             string          `json:"reason"`
	TopKJSON           json.RawMessage `json:"top_k_json,omitempty"`           // 候选商品，形状不固定，用 ParseCandidateItems 解析
	ConfirmedItemsJSON json.RawMessage `json:"confirmed_items_json,omitempty"` // 原样保留
	CreatedAt          string          `json:"created_at"`
	ResolvedAt         *string         `json:"resolved_at,omitempty"`
	ResolvedBy         *string         `json:"resolved_by,omitempty"`
	StoreName          *string         `json:"store_name,omitempty"`
	DeviceCode         *string         `json:"device_code,omitempty"`
}

// IsOpen review 是否仍未处理
func (r Review) IsOpen() bool {
	return statusIs(r.Status, ReviewStatusOpen)
}

// statusIs 与 classifier 一致：忽略大小写和首尾空白
func statusIs(status, want string) bool {
	return strings.EqualFold(strings.TrimSpace(status), want)
}

// ConfirmedItem 确认的商品行（confirmed_items_json 的元素）
type ConfirmedItem struct {
	ItemID int64 `json:"item_id"`
	Qty    int   `json:"qty"`
}

// ReviewUpdate PATCH /reviews/{id} 请求体
type ReviewUpdate struct {
	Status         string          `json:"status"`
	ResolvedBy     string          `json:"resolved_by,omitempty"`
	ConfirmedItems []ConfirmedItem `json:"confirmed_items_json,omitempty"`
}
