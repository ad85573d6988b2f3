package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	m, err := NewMoney(decimal.RequireFromString("10.50"), "TWD")
	require.NoError(t, err)
	require.Equal(t, "TWD", m.Currency)
	require.True(t, m.Amount.Equal(decimal.RequireFromString("10.50")))

	// 負數金額不允許
	_, err = NewMoney(decimal.RequireFromString("-1"), "TWD")
	require.ErrorIs(t, err, ErrNegativeAmount)

	// 幣別必填
	_, err = NewMoney(decimal.RequireFromString("1"), "")
	require.ErrorIs(t, err, ErrCurrencyRequired)
}

func TestNewMoneyFromString(t *testing.T) {
	m, err := NewMoneyFromString("19.99", "USD")
	require.NoError(t, err)
	require.True(t, m.Amount.Equal(decimal.RequireFromString("19.99")))

	_, err = NewMoneyFromString("abc", "USD")
	require.Error(t, err)
}

func TestMoneyAdd(t *testing.T) {
	a, _ := NewMoneyFromString("0.10", "TWD")
	b, _ := NewMoneyFromString("0.20", "TWD")

	sum, err := a.Add(b)
	require.NoError(t, err)
	// decimal精確累加，不會出現0.30000000000000004
	require.True(t, sum.Amount.Equal(decimal.RequireFromString("0.30")))

	// 跨幣別相加直接回錯誤，不做靜默轉換
	c, _ := NewMoneyFromString("1.00", "USD")
	_, err = a.Add(c)
	require.ErrorIs(t, err, ErrCurrencyMismatch)
}

func TestMoneyMulQuantity(t *testing.T) {
	unit, _ := NewMoneyFromString("3.33", "TWD")
	subtotal := unit.MulQuantity(3)
	require.True(t, subtotal.Amount.Equal(decimal.RequireFromString("9.99")))
	require.Equal(t, "TWD", subtotal.Currency)
}

func TestZeroMoney(t *testing.T) {
	zero := ZeroMoney("TWD")
	require.True(t, zero.IsZero())

	m, _ := NewMoneyFromString("5.00", "TWD")
	sum, err := zero.Add(m)
	require.NoError(t, err)
	require.True(t, sum.Equal(m))
}

func TestMoneyString(t *testing.T) {
	m, _ := NewMoneyFromString("5", "TWD")
	require.Equal(t, "5.00 TWD", m.String())
}
