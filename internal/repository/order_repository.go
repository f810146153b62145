package repository

import (
	"context"

	"storefront/internal/domain/model"
)

type SubmitOptions struct {
	// 同じキーの送信はサーバー側で重複排除できる
	IdempotencyKey string
}

// 注文の送信。自動リトライはしない
type OrderWriter interface {
	Submit(ctx context.Context, order model.Order, opts SubmitOptions) (model.Order, error)
}

type OrderReader interface {
	ListByUserID(ctx context.Context, userID int64) ([]model.Order, error)
}
