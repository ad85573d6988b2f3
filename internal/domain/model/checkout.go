package model

import "time"

// DiscardReason 品項無法成立訂單的原因代碼
type DiscardReason string

const (
	DiscardOutOfStock       DiscardReason = "out-of-stock"
	DiscardProductRemoved   DiscardReason = "product-removed"
	DiscardQuantityExceeded DiscardReason = "quantity-exceeds-available"
)

// UnorderableRow 對帳後無法下單的品項
// 只用於回報給使用者，不落地
type UnorderableRow struct {
	ProductID uint          `json:"product_id"`
	Quantity  int           `json:"quantity"`
	Reason    DiscardReason `json:"reason"`
}

// OrderLine 訂單品項快照
// 名稱與單價於成單當下定版，之後catalog變動不影響歷史訂單
type OrderLine struct {
	ProductID   uint   `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	UnitPrice   Money  `json:"unit_price"`
}

func (l OrderLine) Subtotal() Money {
	return l.UnitPrice.MulQuantity(l.Quantity)
}

// ReconciliationResult 購物車對帳結果
// 純讀取運算的輸出，preview與正式結帳共用
type ReconciliationResult struct {
	ValidLines    []OrderLine      `json:"valid_lines"`
	DiscardedRows []UnorderableRow `json:"discarded_rows"`
	Total         Money            `json:"total"`
}

/*
state:

	OrderStateCreated   uint = 0 // 已成立
	OrderStateShipped   uint = 1 // 已出貨 (履約流程負責)
	OrderStateCancelled uint = 2 // 已取消 (履約流程負責)
*/
const (
	OrderStateCreated   uint = 0
	OrderStateShipped   uint = 1
	OrderStateCancelled uint = 2
)

// Order 訂單聚合
// 成單後品項不會變動，只有state會由履約流程變動
type Order struct {
	OrderID   string      `json:"order_id"`
	UserID    int         `json:"user_id"`
	Lines     []OrderLine `json:"lines"`
	Amount    Money       `json:"amount"`
	OrderDate time.Time   `json:"order_date"`
	State     uint        `json:"state"`
}

// ErrorCodeEmptyOrder 結帳後沒有任何可成單品項
const ErrorCodeEmptyOrder = "EMPTY_ORDER"

// PlacementResult 下單結果
// 領域預期的失敗 (EMPTY_ORDER、discarded rows) 以結果值回傳，不丟error
type PlacementResult struct {
	Success       bool             `json:"success"`
	Order         *Order           `json:"order,omitempty"`
	DiscardedRows []UnorderableRow `json:"discarded_rows"`
	ErrorCode     string           `json:"error_code,omitempty"`
}
