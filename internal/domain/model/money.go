package model

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

type MoneyError error

var (
	ErrNegativeAmount   MoneyError = errors.New("money amount cannot be negative")
	ErrCurrencyRequired MoneyError = errors.New("money currency is required")
	ErrCurrencyMismatch MoneyError = errors.New("money currency mismatch")
)

// Money 金額值物件
// 金額使用decimal精確計算，不使用float
// 建構後不可變，所有運算回傳新值
type Money struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

func NewMoney(amount decimal.Decimal, currency string) (Money, error) {
	if amount.IsNegative() {
		return Money{}, ErrNegativeAmount
	}
	if currency == "" {
		return Money{}, ErrCurrencyRequired
	}
	return Money{Amount: amount, Currency: currency}, nil
}

func NewMoneyFromString(amount string, currency string) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount format: %w", err)
	}
	return NewMoney(d, currency)
}

// ZeroMoney 指定幣別的零金額，累加起點用
func ZeroMoney(currency string) Money {
	return Money{Amount: decimal.NewFromInt(0), Currency: currency}
}

// Add 同幣別相加
// 錯誤:
//   - ErrCurrencyMismatch: 幣別不同
func (m Money) Add(other Money) (Money, error) {
	if m.Currency != other.Currency {
		return Money{}, fmt.Errorf("%w: %s + %s", ErrCurrencyMismatch, m.Currency, other.Currency)
	}
	return Money{Amount: m.Amount.Add(other.Amount), Currency: m.Currency}, nil
}

// MulQuantity 單價乘上數量
func (m Money) MulQuantity(quantity int) Money {
	return Money{Amount: m.Amount.Mul(decimal.NewFromInt(int64(quantity))), Currency: m.Currency}
}

func (m Money) IsZero() bool {
	return m.Amount.IsZero()
}

func (m Money) Equal(other Money) bool {
	return m.Currency == other.Currency && m.Amount.Equal(other.Amount)
}

func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.Amount.StringFixed(2), m.Currency)
}
