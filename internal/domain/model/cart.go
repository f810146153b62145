package model

import "time"

// カートの明細（1商品につき1行）
type CartLine struct {
	ProductID int64 `json:"productId"`
	Quantity  int64 `json:"quantity"`
}

// 1ユーザーにつき1つ。保存時はLinesだけをJSONにする
type Cart struct {
	UserID int64      `json:"user_id"`
	Lines  []CartLine `json:"lines"`
}

// IndexOf は productID の行番号を返す。無ければ -1
func (c Cart) IndexOf(productID int64) int {
	for i, l := range c.Lines {
		if l.ProductID == productID {
			return i
		}
	}
	return -1
}

func (c Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// Clone は Lines をコピーしたカートを返す（スナップショット用）
func (c Cart) Clone() Cart {
	lines := make([]CartLine, len(c.Lines))
	copy(lines, c.Lines)
	return Cart{UserID: c.UserID, Lines: lines}
}

// key-valueストアをDBに置くときの行
type CartRecord struct {
	Key       string    `gorm:"primaryKey;column:store_key;type:varchar(255)" json:"key"`
	Value     string    `gorm:"type:text;not null" json:"value"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (CartRecord) TableName() string {
	return "cart_records"
}
