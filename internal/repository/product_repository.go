package repository

import (
	"context"

	"storefront/internal/domain/model"
)

// 一覧取得の絞り込み（空なら全件）
type ProductFilter struct {
	Status model.ProductStatus
}

// 外部カタログの読み取り窓口。書き込みはしない
type CatalogReader interface {
	ListProducts(ctx context.Context, f ProductFilter) ([]model.Product, error)
	// 無ければ ErrNotFound
	FindProduct(ctx context.Context, productID int64) (model.Product, error)
	ListCategories(ctx context.Context) ([]model.Category, error)
}
