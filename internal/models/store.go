package models

// DeviceKind 前端设备类型
type DeviceKind string

const (
	DeviceCamera  DeviceKind = "camera"
	DeviceSensor  DeviceKind = "sensor"
	DeviceDisplay DeviceKind = "display"
)

// DeviceState 前端设备状态
type DeviceState string

const (
	DeviceOnline  DeviceState = "online"
	DeviceWarning DeviceState = "warning"
	DeviceOffline DeviceState = "offline"
)

// Device 设备视图模型
type Device struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Type       DeviceKind  `json:"type"`
	Location   string      `json:"location"`
	Status     DeviceState `json:"status"`
	LastActive string      `json:"lastActive"`
}

// DeviceStats 设备统计
type DeviceStats struct {
	Online  int `json:"online"`
	Warning int `json:"warning"`
	Offline int `json:"offline"`
	Total   int `json:"total"`
}

// StoreInfo 门店概要
type StoreInfo struct {
	StoreCode     string `json:"storeCode"`
	Name          string `json:"name"`
	TotalDevices  int    `json:"totalDevices"`
	OnlineDevices int    `json:"onlineDevices"`
}

// ProductSales 商品销量占比
type ProductSales struct {
	ItemID     int64   `json:"itemId"`
	Name       string  `json:"name"`
	Value      int64   `json:"value"`
	AmountWon  int64   `json:"amountWon"`
	Percentage float64 `json:"percentage"`
}
