package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// 未知の値はpending扱い
func ParseOrderStatus(s string) OrderStatus {
	switch st := OrderStatus(strings.ToLower(strings.TrimSpace(s))); st {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return st
	default:
		return OrderStatusPending
	}
}

// 配達済みか。古いデータの "completed" も配達済みとみなす
func (s OrderStatus) IsFulfilled() bool {
	st := OrderStatus(strings.ToLower(strings.TrimSpace(string(s))))
	return st == OrderStatusDelivered || st == "completed"
}

// 注文明細。Priceは注文時点の価格のコピー
type OrderItem struct {
	ProductID int64           `json:"productId"`
	Quantity  int64           `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

// 送信後は変更しない
type Order struct {
	ID        int64       `json:"id,omitempty"`
	UserID    int64       `json:"userId"`
	Items     []OrderItem `json:"items"`
	Status    OrderStatus `json:"status"`
	CreatedAt time.Time   `json:"createdAt"`
}

// 明細合計（丸めなし）
func (o Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range o.Items {
		total = total.Add(it.Price.Mul(decimal.NewFromInt(it.Quantity)))
	}
	return total
}
