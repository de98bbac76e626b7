package domain

import "encoding/json"

// 设备类型 / 状态
const (
	DeviceTypeCheckout = "CHECKOUT"
	DeviceTypeCCTV     = "CCTV"

	DeviceStatusActive   = "ACTIVE"
	DeviceStatusInactive = "INACTIVE"
)

// Store 门店（GET /stores）
type Store struct {
	StoreID   int64  `json:"store_id"`
	StoreCode string `json:"store_code"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
}

// Device 门店设备（GET /stores/{store_code}/devices）
type Device struct {
	DeviceID   int64           `json:"device_id"`
	StoreID    int64           `json:"store_id"`
	DeviceCode string          `json:"device_code"`
	DeviceType string          `json:"device_type"`
	Status     string          `json:"status"`
	StreamURI  *string         `json:"stream_uri,omitempty"`
	ConfigJSON json.RawMessage `json:"config_json,omitempty"`
	CreatedAt  string          `json:"created_at"`
}

// TopMenuRow 销量排行（GET /dashboards/top-menu）
type TopMenuRow struct {
	ItemID    int64  `json:"item_id"`
	Name      string `json:"name"`
	Qty       int64  `json:"qty"`
	AmountWon int64  `json:"amount_won"`
}
