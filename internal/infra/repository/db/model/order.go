package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Order struct {
	OrderID    string          `gorm:"primaryKey;type:varchar(36)"`
	UserID     int             `gorm:"not null;index"`
	OrderItems []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"` // 一對多，級聯刪除
	Amount     decimal.Decimal `gorm:"not null;type:decimal(10,2)"`
	Currency   string          `gorm:"not null;type:varchar(3)"`
	State      uint            `gorm:"not null"`
	OrderDate  time.Time       `gorm:"not null"`
	BaseModel
}

// OrderItem 訂單品項快照
// ProductName與Price成單時定版，不關聯回Product的即時資料
type OrderItem struct {
	OrderID     string          `gorm:"primaryKey;type:varchar(36)"` // 外鍵，關聯到 Order
	ProductID   uint            `gorm:"primaryKey"`
	ProductName string          `gorm:"not null;type:varchar(100)"`
	Quantity    int             `gorm:"not null"`
	Price       decimal.Decimal `gorm:"not null;type:decimal(10,2)"`
	BaseModel
}
