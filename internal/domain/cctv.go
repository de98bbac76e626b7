package domain

import "encoding/json"

// CCTV 事件类型
const (
	CctvEventViolence   = "VIOLENCE"
	CctvEventVandalism  = "VANDALISM"
	CctvEventFall       = "FALL"
	CctvEventWheelchair = "WHEELCHAIR"
)

// CCTV 事件状态
const (
	CctvStatusOpen      = "OPEN"
	CctvStatusConfirmed = "CONFIRMED"
	CctvStatusDismissed = "DISMISSED"
)

// CctvEvent 检测管线产生的安全/安防事件（GET /cctv/events）
type CctvEvent struct {
	EventID      int64           `json:"event_id"`
	StoreID      int64           `json:"store_id"`
	CctvDeviceID int64           `json:"cctv_device_id"`
	EventType    string          `json:"event_type"`
	Confidence   float64         `json:"confidence"`
	Status       string          `json:"status"`
	StartedAt    string          `json:"started_at"`
	EndedAt      string          `json:"ended_at"`
	MetaJSON     json.RawMessage `json:"meta_json,omitempty"`
	CreatedAt    string          `json:"created_at"`
	Clips        []CctvClip      `json:"clips"`
}

// IsOpen 事件是否仍未处理
func (e CctvEvent) IsOpen() bool {
	return statusIs(e.Status, CctvStatusOpen)
}

// CctvClip 事件录像片段
type CctvClip struct {
	ClipID      int64  `json:"clip_id"`
	EventID     int64  `json:"event_id"`
	ClipGCSURI  string `json:"clip_gcs_uri"`
	ClipStartAt string `json:"clip_start_at"`
	ClipEndAt   string `json:"clip_end_at"`
	CreatedAt   string `json:"created_at"`
}
