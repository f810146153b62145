package model

import "time"

// 商品レビュー（外部APIに保存）
type Review struct {
	ID        int64
	ProductID int64
	UserID    int64
	UserName  string
	// 1〜5
	Rating    int
	Text      string
	CreatedAt time.Time
}
