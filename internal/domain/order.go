package domain

// 订单状态
const (
	OrderStatusPaid   = "PAID"
	OrderStatusFailed = "FAILED"
)

// Order 订单头（GET /orders）
type Order struct {
	OrderID        int64       `json:"order_id"`
	StoreID        int64       `json:"store_id"`
	StoreName      *string     `json:"store_name,omitempty"`
	SessionID      int64       `json:"session_id"`
	TotalAmountWon int64       `json:"total_amount_won"`
	Status         string      `json:"status"`
	CreatedAt      string      `json:"created_at"`
	Lines          []OrderLine `json:"lines"`
}

// OrderLine 订单行
type OrderLine struct {
	OrderLineID   int64   `json:"order_line_id"`
	OrderID       int64   `json:"order_id"`
	ItemID        int64   `json:"item_id"`
	ItemName      *string `json:"item_name,omitempty"`
	Qty           int64   `json:"qty"`
	UnitPriceWon  int64   `json:"unit_price_won"`
	LineAmountWon int64   `json:"line_amount_won"`
}
