package restapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
	"storefront/internal/retry"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	return NewClient(Options{
		BaseURL:    srv.URL,
		Timeout:    2 * time.Second,
		ReadPolicy: retry.Policy{MaxAttempts: 3, Backoff: retry.Fixed(0)},
	})
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(errors.New("connection reset")))
	assert.True(t, IsRetryable(&StatusError{Status: http.StatusBadGateway}))
	assert.True(t, IsRetryable(&StatusError{Status: http.StatusTooManyRequests}))
	assert.False(t, IsRetryable(&StatusError{Status: http.StatusNotFound}))
	assert.False(t, IsRetryable(context.Canceled))
	assert.False(t, IsRetryable(&DecodeError{Path: "/products", Err: errors.New("bad")}))
	assert.False(t, IsRetryable(&json.SyntaxError{}))
}

func TestCatalogClient_ListProducts(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products", r.URL.Path)
		assert.Equal(t, "approved", r.URL.Query().Get("status"))
		_, _ = io.WriteString(w, `[{"id":1,"name":"latte","price":4.5,"stock":3,"category":"coffee","status":"approved"}]`)
	})

	items, err := NewCatalogClient(c).ListProducts(context.Background(), repo.ProductFilter{Status: model.ProductStatusApproved})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "latte", items[0].Name)
	assert.True(t, items[0].Price.Equal(decimal.RequireFromString("4.5")))
}

// 5xxは読み取りポリシーの回数までリトライ
func TestCatalogClient_RetriesServerErrors(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = io.WriteString(w, `[{"id":1,"name":"latte","price":"4.50"}]`)
	})

	items, err := NewCatalogClient(c).ListProducts(context.Background(), repo.ProductFilter{})
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestCatalogClient_GivesUpAfterMaxAttempts(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := NewCatalogClient(c).ListCategories(context.Background())
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusInternalServerError, se.Status)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestCatalogClient_StringIDs(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/products":
			_, _ = io.WriteString(w, `[{"id":"1","name":"latte","price":"4.50"},{"id":"2","name":"mocha","price":5}]`)
		default:
			_, _ = io.WriteString(w, `[{"id":"3","name":"tea"}]`)
		}
	})

	items, err := NewCatalogClient(c).ListProducts(context.Background(), repo.ProductFilter{})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, int64(1), items[0].ID)
	assert.Equal(t, int64(2), items[1].ID)

	cats, err := NewCatalogClient(c).ListCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, cats, 1)
	assert.Equal(t, int64(3), cats[0].ID)
}

// 形の違うボディはリトライしない
func TestCatalogClient_DecodeErrorIsNotRetried(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		_, _ = io.WriteString(w, `{"items":"not a list"}`)
	})

	_, err := NewCatalogClient(c).ListProducts(context.Background(), repo.ProductFilter{})
	var de *DecodeError
	require.ErrorAs(t, err, &de)
	assert.False(t, IsRetryable(err))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestCatalogClient_FindProductNotFound(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, "/products/42", r.URL.Path)
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := NewCatalogClient(c).FindProduct(context.Background(), 42)
	assert.ErrorIs(t, err, repo.ErrNotFound)
	// 404はリトライしない
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

// 注文の送信はリトライしない
func TestOrderClient_SubmitIsNotRetried(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := NewOrderClient(c).Submit(context.Background(), model.Order{UserID: 1}, repo.SubmitOptions{})
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestOrderClient_Submit(t *testing.T) {
	created := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/orders", r.URL.Path)
		assert.Equal(t, "key-1", r.Header.Get("X-Idempotency-Key"))

		var body map[string]interface{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, float64(7), body["userId"])
		assert.Equal(t, "pending", body["status"])
		assert.Equal(t, "2025-03-01T12:00:00.000Z", body["createdAt"])
		assert.NotContains(t, body, "id")

		items, _ := body["items"].([]interface{})
		if !assert.Len(t, items, 1) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		item := items[0].(map[string]interface{})
		assert.Equal(t, float64(3), item["productId"])
		assert.Equal(t, 12.5, item["price"])

		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"id":"15","userId":7,"items":[{"productId":3,"quantity":2,"price":12.5}],"status":"pending","createdAt":"2025-03-01T12:00:00.000Z"}`)
	})

	order := model.Order{
		UserID:    7,
		Items:     []model.OrderItem{{ProductID: 3, Quantity: 2, Price: decimal.RequireFromString("12.50")}},
		Status:    model.OrderStatusPending,
		CreatedAt: created,
	}
	got, err := NewOrderClient(c).Submit(context.Background(), order, repo.SubmitOptions{IdempotencyKey: "key-1"})
	require.NoError(t, err)

	assert.Equal(t, int64(15), got.ID)
	assert.Equal(t, int64(7), got.UserID)
	assert.True(t, got.CreatedAt.Equal(created))
	assert.Equal(t, "25.00", got.Total().StringFixed(2))
}

func TestOrderClient_ListByUserID(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "7", r.URL.Query().Get("userId"))
		_, _ = io.WriteString(w, `[
			{"id":1,"userId":"7","items":[{"productId":"3","quantity":1,"price":"9.99"}],"status":"shipped","createdAt":"2025-01-02T03:04:05Z"},
			{"id":"2","userId":7,"items":[],"status":"pending","createdAt":"not a date"}
		]`)
	})

	orders, err := NewOrderClient(c).ListByUserID(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, orders, 2)

	assert.Equal(t, int64(1), orders[0].ID)
	assert.Equal(t, int64(3), orders[0].Items[0].ProductID)
	assert.Equal(t, "9.99", orders[0].Items[0].Price.String())
	assert.Equal(t, model.OrderStatusShipped, orders[0].Status)

	assert.Equal(t, int64(2), orders[1].ID)
	assert.True(t, orders[1].CreatedAt.IsZero())
}

// 数字でないIDは0にせずエラー
func TestOrderClient_ListByUserID_InvalidID(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		_, _ = io.WriteString(w, `[{"id":"abc","userId":7,"items":[],"status":"pending"}]`)
	})

	_, err := NewOrderClient(c).ListByUserID(context.Background(), 7)
	var de *DecodeError
	assert.ErrorAs(t, err, &de)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

// 2xxならボディが読めなくても送信成功
func TestOrderClient_Submit_UndecodableSuccessBody(t *testing.T) {
	for name, body := range map[string]string{"empty": "", "text": "Created"} {
		t.Run(name, func(t *testing.T) {
			var calls int32
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				atomic.AddInt32(&calls, 1)
				w.WriteHeader(http.StatusCreated)
				_, _ = io.WriteString(w, body)
			})

			got, err := NewOrderClient(c).Submit(context.Background(), model.Order{UserID: 7}, repo.SubmitOptions{IdempotencyKey: "k"})
			require.NoError(t, err)
			assert.Equal(t, int64(0), got.UserID)
			assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
		})
	}
}
