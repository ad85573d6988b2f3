package model

import (
	"errors"
	"testing"
)

func TestNewQuantity(t *testing.T) {
	q, err := NewQuantity(5, 10)
	if err != nil {
		t.Fatalf("5在[1,10]內應該合法: %v", err)
	}
	if q.Int() != 5 {
		t.Errorf("期望5, 得到%d", q.Int())
	}

	// 邊界值
	if _, err := NewQuantity(1, 10); err != nil {
		t.Errorf("下界1應該合法: %v", err)
	}
	if _, err := NewQuantity(10, 10); err != nil {
		t.Errorf("上界10應該合法: %v", err)
	}
}

func TestNewQuantityTooSmall(t *testing.T) {
	for _, value := range []int{0, -1, -99} {
		_, err := NewQuantity(value, 10)
		if !errors.Is(err, ErrQuantityTooSmall) {
			t.Errorf("%d應該回ErrQuantityTooSmall, 得到%v", value, err)
		}
	}
}

func TestNewQuantityExceedsLimit(t *testing.T) {
	_, err := NewQuantity(11, 10)
	if !errors.Is(err, ErrQuantityExceedsLimit) {
		t.Errorf("超過上限應該回ErrQuantityExceedsLimit, 得到%v", err)
	}
}

func TestNewQuantityDefaultMax(t *testing.T) {
	// max未設定時使用預設上限
	if _, err := NewQuantity(99, 0); err != nil {
		t.Errorf("預設上限內應該合法: %v", err)
	}
	_, err := NewQuantity(100, 0)
	if !errors.Is(err, ErrQuantityExceedsLimit) {
		t.Errorf("超過預設上限應該回ErrQuantityExceedsLimit, 得到%v", err)
	}
}
