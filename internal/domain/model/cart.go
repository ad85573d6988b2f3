package model

// Cart 購物車
// 購物車階段只存在redis，不會寫入db
// Lines 依照加入順序排列 (seq遞增)，結帳對帳時依此順序輸出
type Cart struct {
	UserID int        `json:"user_id"`
	Lines  []CartLine `json:"lines"`
}

// CartLine 購物車單一品項
// SnapshotPrice 為加入購物車當下的價格快照，僅供顯示
// 結帳金額一律以catalog當下價格計算，不信任快照
type CartLine struct {
	ProductID     uint  `json:"product_id"`
	Quantity      int   `json:"quantity"`
	SnapshotPrice Money `json:"snapshot_price"`
	Seq           int64 `json:"seq"`
}

func (c *Cart) IsEmpty() bool {
	return c == nil || len(c.Lines) == 0
}

// FindLine 依商品ID取得品項，不存在回傳nil
func (c *Cart) FindLine(productID uint) *CartLine {
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			return &c.Lines[i]
		}
	}
	return nil
}
