package handler

import (
	"net/http"
	"time"

	"storefront/internal/config"
	"storefront/internal/domain/model"
	"storefront/internal/middleware"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type OrderHandler struct {
	d  *usecase.Dispatcher
	uc *usecase.OrderUsecase
}

func NewOrderHandler(d *usecase.Dispatcher, uc *usecase.OrderUsecase) *OrderHandler {
	return &OrderHandler{d: d, uc: uc}
}

type OrderItemResponse struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name,omitempty"`
	Image     string `json:"image,omitempty"`
	Price     string `json:"price"`
	Quantity  int64  `json:"quantity"`
	LineTotal string `json:"line_total"`
}

type OrderResponse struct {
	ID         int64               `json:"id"`
	UserID     int64               `json:"user_id"`
	Status     string              `json:"status"`
	TotalPrice string              `json:"total_price"`
	CreatedAt  time.Time           `json:"created_at"`
	Items      []OrderItemResponse `json:"items"`
	// 注文は作成済みだがカートが消せなかった
	Warning string `json:"warning,omitempty"`
}

func (h *OrderHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	auth := []echo.MiddlewareFunc{middleware.AuthJWT(cfg), middleware.CustomerOnly()}

	e.POST("/checkout", h.checkout, auth...)
	e.GET("/orders", h.list, auth...)
}

func (h *OrderHandler) checkout(c echo.Context) error {
	sess, ok := middleware.SessionFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	res, err := h.d.Dispatch(c.Request().Context(), sess, usecase.CheckoutCommand{})
	if err != nil && res.Order == nil {
		return writeError(c, err)
	}

	out := fromOrder(*res.Order)
	if err != nil {
		out.Warning = "order placed but cart could not be cleared"
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *OrderHandler) list(c echo.Context) error {
	sess, ok := middleware.SessionFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	orders, err := h.uc.ListMyOrders(c.Request().Context(), sess)
	if err != nil {
		return writeError(c, err)
	}

	out := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, fromOrderOutput(o))
	}
	return c.JSON(http.StatusOK, out)
}

func fromOrder(o model.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, OrderItemResponse{
			ProductID: it.ProductID,
			Price:     it.Price.StringFixed(2),
			Quantity:  it.Quantity,
			LineTotal: it.Price.Mul(decimal.NewFromInt(it.Quantity)).StringFixed(2),
		})
	}
	return OrderResponse{
		ID:         o.ID,
		UserID:     o.UserID,
		Status:     string(o.Status),
		TotalPrice: o.Total().StringFixed(2),
		CreatedAt:  o.CreatedAt,
		Items:      items,
	}
}

func fromOrderOutput(o usecase.OrderOutput) OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, OrderItemResponse{
			ProductID: it.ProductID,
			Name:      it.Name,
			Image:     it.Image,
			Price:     it.Price.StringFixed(2),
			Quantity:  it.Quantity,
			LineTotal: it.LineTotal.StringFixed(2),
		})
	}
	return OrderResponse{
		ID:         o.ID,
		UserID:     o.UserID,
		Status:     string(o.Status),
		TotalPrice: o.TotalPrice.StringFixed(2),
		CreatedAt:  o.CreatedAt,
		Items:      items,
	}
}
