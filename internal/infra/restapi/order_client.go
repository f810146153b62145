package restapi

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

// OrderClient は /orders の送信と取得
type OrderClient struct {
	c *Client
}

func NewOrderClient(c *Client) *OrderClient {
	return &OrderClient{c: c}
}

var (
	_ repo.OrderWriter = (*OrderClient)(nil)
	_ repo.OrderReader = (*OrderClient)(nil)
)

// 注文の送信。リトライはしない
func (r *OrderClient) Submit(ctx context.Context, order model.Order, opts repo.SubmitOptions) (model.Order, error) {
	headers := map[string]string{}
	if opts.IdempotencyKey != "" {
		headers["X-Idempotency-Key"] = opts.IdempotencyKey
	}

	var created orderDTO
	if err := r.c.postJSON(ctx, "/orders", headers, toOrderDTO(order), &created); err != nil {
		return model.Order{}, err
	}
	return created.toModel(), nil
}

func (r *OrderClient) ListByUserID(ctx context.Context, userID int64) ([]model.Order, error) {
	var dtos []orderDTO
	query := map[string]string{"userId": strconv.FormatInt(userID, 10)}
	if err := r.c.getJSON(ctx, "/orders", query, nil, &dtos); err != nil {
		return nil, err
	}

	orders := make([]model.Order, 0, len(dtos))
	for _, d := range dtos {
		orders = append(orders, d.toModel())
	}
	return orders, nil
}

type orderItemDTO struct {
	ProductID model.FlexID `json:"productId"`
	Quantity  int64        `json:"quantity"`
	Price     json.Number  `json:"price"`
}

type orderDTO struct {
	ID        model.FlexID   `json:"id,omitempty"`
	UserID    model.FlexID   `json:"userId"`
	Items     []orderItemDTO `json:"items"`
	Status    string         `json:"status"`
	CreatedAt string         `json:"createdAt"`
}

// createdAtはISO 8601（ミリ秒、UTC）
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

func toOrderDTO(o model.Order) orderDTO {
	items := make([]orderItemDTO, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, orderItemDTO{
			ProductID: model.FlexID(it.ProductID),
			Quantity:  it.Quantity,
			Price:     json.Number(it.Price.String()),
		})
	}
	return orderDTO{
		ID:        model.FlexID(o.ID),
		UserID:    model.FlexID(o.UserID),
		Items:     items,
		Status:    string(o.Status),
		CreatedAt: o.CreatedAt.UTC().Format(isoMillis),
	}
}

func (d orderDTO) toModel() model.Order {
	items := make([]model.OrderItem, 0, len(d.Items))
	for _, it := range d.Items {
		price, err := decimal.NewFromString(string(it.Price))
		if err != nil {
			price = decimal.Zero
		}
		items = append(items, model.OrderItem{
			ProductID: int64(it.ProductID),
			Quantity:  it.Quantity,
			Price:     price,
		})
	}

	created, err := time.Parse(time.RFC3339Nano, d.CreatedAt)
	if err != nil {
		created = time.Time{}
	}

	return model.Order{
		ID:        int64(d.ID),
		UserID:    int64(d.UserID),
		Items:     items,
		Status:    model.OrderStatus(d.Status),
		CreatedAt: created,
	}
}
