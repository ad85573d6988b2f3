package model

import (
	"time"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
)

// OrderCreatedEvent 成單通知
// 不可變資料，發佈到kafka供帳務/通知系統異步消費
// 消費端失敗不會影響已成立的訂單
type OrderCreatedEvent struct {
	BaseEvent
	UserID    int               `json:"user_id"`
	OrderID   string            `json:"order_id"`
	OrderDate time.Time         `json:"order_date"`
	Items     []model.OrderLine `json:"items"`
	Amount    model.Money       `json:"amount"`
	ToState   uint              `json:"to_state"`
}

func NewOrderCreatedEvent(order *model.Order) *OrderCreatedEvent {
	return &OrderCreatedEvent{
		BaseEvent: NewBaseEvent(order.OrderID, OrderCreatedEventName),
		UserID:    order.UserID,
		OrderID:   order.OrderID,
		OrderDate: order.OrderDate,
		Items:     order.Lines,
		Amount:    order.Amount,
		ToState:   order.State,
	}
}

func (e *OrderCreatedEvent) Type() EventType {
	return OrderCreatedEventName
}
