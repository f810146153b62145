package restapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

// CatalogClient は /products と /categories を読む
type CatalogClient struct {
	c *Client
}

func NewCatalogClient(c *Client) *CatalogClient {
	return &CatalogClient{c: c}
}

var _ repo.CatalogReader = (*CatalogClient)(nil)

func (r *CatalogClient) ListProducts(ctx context.Context, f repo.ProductFilter) ([]model.Product, error) {
	query := map[string]string{}
	if f.Status != "" {
		query["status"] = string(f.Status)
	}

	var items []model.Product
	if err := r.c.getJSON(ctx, "/products", query, nil, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []model.Product{}
	}
	return items, nil
}

func (r *CatalogClient) FindProduct(ctx context.Context, productID int64) (model.Product, error) {
	var p model.Product
	err := r.c.getJSON(ctx, "/products/{id}", nil, map[string]string{"id": strconv.FormatInt(productID, 10)}, &p)

	var se *StatusError
	if errors.As(err, &se) && se.Status == http.StatusNotFound {
		return model.Product{}, fmt.Errorf("product %d: %w", productID, repo.ErrNotFound)
	}
	if err != nil {
		return model.Product{}, err
	}
	return p, nil
}

func (r *CatalogClient) ListCategories(ctx context.Context) ([]model.Category, error) {
	var cats []model.Category
	if err := r.c.getJSON(ctx, "/categories", nil, nil, &cats); err != nil {
		return nil, err
	}
	if cats == nil {
		cats = []model.Category{}
	}
	return cats, nil
}
