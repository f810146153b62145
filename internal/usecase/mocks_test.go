package usecase_test

import (
	"context"
	"time"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// =====================
// Mocks
// =====================

type KVStoreMock struct{ mock.Mock }

func (m *KVStoreMock) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *KVStoreMock) Set(ctx context.Context, key string, value string) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *KVStoreMock) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

type CatalogMock struct{ mock.Mock }

func (m *CatalogMock) ListProducts(ctx context.Context, f repo.ProductFilter) ([]model.Product, error) {
	args := m.Called(ctx, f)
	items, _ := args.Get(0).([]model.Product)
	return items, args.Error(1)
}

func (m *CatalogMock) FindProduct(ctx context.Context, productID int64) (model.Product, error) {
	args := m.Called(ctx, productID)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *CatalogMock) ListCategories(ctx context.Context) ([]model.Category, error) {
	args := m.Called(ctx)
	cats, _ := args.Get(0).([]model.Category)
	return cats, args.Error(1)
}

type OrderWriterMock struct{ mock.Mock }

func (m *OrderWriterMock) Submit(ctx context.Context, order model.Order, opts repo.SubmitOptions) (model.Order, error) {
	args := m.Called(ctx, order, opts)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

type OrderReaderMock struct{ mock.Mock }

func (m *OrderReaderMock) ListByUserID(ctx context.Context, userID int64) ([]model.Order, error) {
	args := m.Called(ctx, userID)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Error(1)
}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

type fixedIDGen struct{ id string }

func (g fixedIDGen) NewID() string { return g.id }

// =====================
// Fixtures
// =====================

var testNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func product(id int64, name string, p string) model.Product {
	return model.Product{
		ID:       id,
		Name:     name,
		Price:    price(p),
		Image:    name + ".png",
		Stock:    10,
		Category: "coffee",
		Status:   model.ProductStatusApproved,
	}
}

type ReviewRepoMock struct{ mock.Mock }

func (m *ReviewRepoMock) ListByProductID(ctx context.Context, productID int64) ([]model.Review, error) {
	args := m.Called(ctx, productID)
	reviews, _ := args.Get(0).([]model.Review)
	return reviews, args.Error(1)
}

func (m *ReviewRepoMock) Create(ctx context.Context, review model.Review) (model.Review, error) {
	args := m.Called(ctx, review)
	r, _ := args.Get(0).(model.Review)
	return r, args.Error(1)
}
