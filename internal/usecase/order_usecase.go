package usecase

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

const unknownProductName = "Unknown Product"

// 注文履歴（読み取りのみ）
type OrderUsecase struct {
	orders  repo.OrderReader
	catalog repo.CatalogReader
	log     *slog.Logger
}

func NewOrderUsecase(orders repo.OrderReader, catalog repo.CatalogReader, log *slog.Logger) *OrderUsecase {
	if log == nil {
		log = slog.Default()
	}
	return &OrderUsecase{orders: orders, catalog: catalog, log: log}
}

type OrderItemOutput struct {
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	Image     string          `json:"image,omitempty"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int64           `json:"quantity"`
	LineTotal decimal.Decimal `json:"line_total"`
}

type OrderOutput struct {
	ID         int64             `json:"id"`
	UserID     int64             `json:"user_id"`
	Status     model.OrderStatus `json:"status"`
	TotalPrice decimal.Decimal   `json:"total_price"`
	CreatedAt  time.Time         `json:"created_at"`
	Items      []OrderItemOutput `json:"items"`
}

// ListMyOrders はユーザーの注文を新しい順で返す。
// 金額は注文時の価格で計算し、商品名だけ現在のカタログから引く。
func (u *OrderUsecase) ListMyOrders(ctx context.Context, sess model.Session) ([]OrderOutput, error) {
	if sess.UserID <= 0 {
		return []OrderOutput{}, validationError("list orders", ErrInvalidID)
	}

	orders, err := u.orders.ListByUserID(ctx, sess.UserID)
	if err != nil {
		return []OrderOutput{}, networkError("list orders", err)
	}

	//カタログが読めなくても履歴は出す
	catalog := model.Catalog{}
	products, err := u.catalog.ListProducts(ctx, repo.ProductFilter{})
	if err != nil {
		u.log.WarnContext(ctx, "catalog unavailable for order history", "user_id", sess.UserID, "error", err)
	} else {
		catalog = model.NewCatalog(products)
	}

	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})

	outs := make([]OrderOutput, 0, len(orders))
	for _, o := range orders {
		outs = append(outs, toOrderOutput(o, catalog))
	}
	return outs, nil
}

func toOrderOutput(o model.Order, catalog model.Catalog) OrderOutput {
	items := make([]OrderItemOutput, 0, len(o.Items))
	for _, it := range o.Items {
		out := OrderItemOutput{
			ProductID: it.ProductID,
			Name:      unknownProductName,
			Price:     it.Price,
			Quantity:  it.Quantity,
			LineTotal: it.Price.Mul(decimal.NewFromInt(it.Quantity)),
		}
		if p, ok := catalog.Lookup(it.ProductID); ok {
			out.Name = p.Name
			out.Image = p.Image
		}
		items = append(items, out)
	}

	return OrderOutput{
		ID:         o.ID,
		UserID:     o.UserID,
		Status:     model.ParseOrderStatus(string(o.Status)),
		TotalPrice: o.Total().Round(2),
		CreatedAt:  o.CreatedAt,
		Items:      items,
	}
}
