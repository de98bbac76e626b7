package models

import "time"

// TransactionStatus 交易状态
type TransactionStatus string

const (
	TransactionAuto   TransactionStatus = "AUTO"
	TransactionReview TransactionStatus = "REVIEW"
	TransactionError  TransactionStatus = "ERROR"
)

// TransactionStatusAll 通配符
const TransactionStatusAll = "ALL"

// Transaction 支付页面的交易视图模型
type Transaction struct {
	ID       string            `json:"id"`
	Device   string            `json:"device"`
	Product  string            `json:"product"`
	Amount   string            `json:"amount"`
	Status   TransactionStatus `json:"status"`
	Time     string            `json:"time,omitempty"`
	Customer string            `json:"customer,omitempty"`

	OccurredAt time.Time `json:"-"`
}

// TransactionFilter 交易过滤条件
type TransactionFilter struct {
	Status      string
	SearchQuery string
	StoreID     *int64
}

// TransactionStats 交易统计
type TransactionStats struct {
	Auto   int `json:"auto"`
	Review int `json:"review"`
	Error  int `json:"error"`
	Total  int `json:"total"`
}
