package usecase

import (
	"context"
	"errors"
	"sort"
	"strings"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

const (
	ProductsPerPage = 8
	BestSellerCount = 3
)

// 商品の閲覧（承認済みのみ）
type ProductUsecase struct {
	catalog repo.CatalogReader
}

// DI
func NewProductUsecase(catalog repo.CatalogReader) *ProductUsecase {
	return &ProductUsecase{catalog: catalog}
}

// GET /productsの入力DTO
type ListProductsInput struct {
	Page     int
	Category string
	Q        string
}

type ProductListOutput struct {
	Items      []model.Product `json:"items"`
	Total      int             `json:"total"`
	Page       int             `json:"page"`
	TotalPages int             `json:"total_pages"`
}

func (u *ProductUsecase) ListProducts(ctx context.Context, in ListProductsInput) (ProductListOutput, error) {
	if in.Page < 1 {
		return ProductListOutput{}, validationError("list products", ErrInvalidPage)
	}

	all, err := u.approved(ctx)
	if err != nil {
		return ProductListOutput{}, err
	}

	category := strings.TrimSpace(in.Category)
	q := strings.ToLower(strings.TrimSpace(in.Q))

	filtered := make([]model.Product, 0, len(all))
	for _, p := range all {
		if category != "" && p.Category != category {
			continue
		}
		if !strings.Contains(strings.ToLower(p.Name), q) {
			continue
		}
		filtered = append(filtered, p)
	}

	//ページ外は空で返す
	start := (in.Page - 1) * ProductsPerPage
	end := start + ProductsPerPage
	if start > len(filtered) {
		start = len(filtered)
	}
	if end > len(filtered) {
		end = len(filtered)
	}

	return ProductListOutput{
		Items:      filtered[start:end],
		Total:      len(filtered),
		Page:       in.Page,
		TotalPages: (len(filtered) + ProductsPerPage - 1) / ProductsPerPage,
	}, nil
}

// 在庫の多い順に上位3件
func (u *ProductUsecase) BestSellers(ctx context.Context) ([]model.Product, error) {
	all, err := u.approved(ctx)
	if err != nil {
		return []model.Product{}, err
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Stock > all[j].Stock
	})
	if len(all) > BestSellerCount {
		all = all[:BestSellerCount]
	}
	return all, nil
}

func (u *ProductUsecase) GetProduct(ctx context.Context, productID int64) (model.Product, error) {
	if productID <= 0 {
		return model.Product{}, validationError("get product", ErrInvalidID)
	}

	p, err := u.catalog.FindProduct(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, err
	}
	if err != nil {
		return model.Product{}, networkError("get product", err)
	}
	return p, nil
}

func (u *ProductUsecase) ListCategories(ctx context.Context) ([]model.Category, error) {
	cats, err := u.catalog.ListCategories(ctx)
	if err != nil {
		return []model.Category{}, networkError("list categories", err)
	}
	return cats, nil
}

func (u *ProductUsecase) approved(ctx context.Context) ([]model.Product, error) {
	items, err := u.catalog.ListProducts(ctx, repo.ProductFilter{Status: model.ProductStatusApproved})
	if err != nil {
		return nil, networkError("list products", err)
	}
	return items, nil
}
