package model

import (
	"github.com/shopspring/decimal"
)

type Product struct {
	ProductID   uint            `gorm:"primaryKey"`
	Code        string          `gorm:"not null;type:varchar(100);unique"`
	Name        string          `gorm:"not null;type:varchar(100)"`
	Price       decimal.Decimal `gorm:"not null;type:decimal(10,2)"`
	Currency    string          `gorm:"not null;type:varchar(3)"`
	Stock       uint            `gorm:"not null;type:int"` // 鏡像欄位，權威庫存在redis
	Category    string          `gorm:"not null;type:varchar(50)"`
	Description string          `gorm:"not null;type:text"`
	BaseModel                   // CreatedAt, UpdatedAt, DeletedAt
}
