package repository

import (
	"context"

	"storefront/internal/domain/model"
)

type ReviewRepository interface {
	ListByProductID(ctx context.Context, productID int64) ([]model.Review, error)
	// 1回だけ送る
	Create(ctx context.Context, review model.Review) (model.Review, error)
}
