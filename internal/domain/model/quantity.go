package model

import (
	"errors"
	"fmt"
)

type QuantityError error

var (
	ErrQuantityTooSmall     QuantityError = errors.New("quantity must be at least 1")
	ErrQuantityExceedsLimit QuantityError = errors.New("quantity exceeds per line limit")
)

// DefaultMaxQuantityPerLine 單一品項數量上限預設值，可由設定覆寫
const DefaultMaxQuantityPerLine = 99

// Quantity 數量值物件
// 建構時驗證範圍 [1, max]，建構失敗不會產生不合法的值
type Quantity int

func NewQuantity(value int, max int) (Quantity, error) {
	if max <= 0 {
		max = DefaultMaxQuantityPerLine
	}
	if value < 1 {
		return 0, fmt.Errorf("%w: got %d", ErrQuantityTooSmall, value)
	}
	if value > max {
		return 0, fmt.Errorf("%w: got %d, limit %d", ErrQuantityExceedsLimit, value, max)
	}
	return Quantity(value), nil
}

func (q Quantity) Int() int {
	return int(q)
}
