package handler

import (
	"net/http"
	"strconv"

	"storefront/internal/config"
	"storefront/internal/middleware"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /cartのHTTP。リクエストをコマンドにしてDispatcherへ渡す
type CartHandler struct {
	d *usecase.Dispatcher
}

// DI
func NewCartHandler(d *usecase.Dispatcher) *CartHandler {
	return &CartHandler{d: d}
}

type AddCartRequest struct {
	ProductID int64 `json:"product_id"`
}

type UpdateCartItemRequest struct {
	Quantity *int64 `json:"quantity"`
}

type CartItemResponse struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Image     string `json:"image"`
	Price     string `json:"price"`
	Quantity  int64  `json:"quantity"`
	LineTotal string `json:"line_total"`
}

type CartResponse struct {
	Items      []CartItemResponse `json:"items"`
	TotalItems int64              `json:"total_items"`
	TotalPrice string             `json:"total_price"`
	Degraded   bool               `json:"degraded,omitempty"`
}

// /cart, /cart/{productId} を登録
func (h *CartHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/cart")
	g.Use(middleware.AuthJWT(cfg))
	g.Use(middleware.CustomerOnly())

	g.GET("", h.getCart)
	g.POST("", h.addToCart)
	g.PATCH("/:productId", h.patchItem)
	g.DELETE("/:productId", h.deleteItem)
}

func (h *CartHandler) getCart(c echo.Context) error {
	return h.dispatch(c, usecase.ViewCartCommand{})
}

func (h *CartHandler) addToCart(c echo.Context) error {
	var req AddCartRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	return h.dispatch(c, usecase.AddToCartCommand{ProductID: req.ProductID})
}

func (h *CartHandler) patchItem(c echo.Context) error {
	productID, err := strconv.ParseInt(c.Param("productId"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req UpdateCartItemRequest
	if err := c.Bind(&req); err != nil || req.Quantity == nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	return h.dispatch(c, usecase.SetQuantityCommand{ProductID: productID, Quantity: *req.Quantity})
}

func (h *CartHandler) deleteItem(c echo.Context) error {
	productID, err := strconv.ParseInt(c.Param("productId"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	return h.dispatch(c, usecase.RemoveFromCartCommand{ProductID: productID})
}

func (h *CartHandler) dispatch(c echo.Context, cmd usecase.Command) error {
	sess, ok := middleware.SessionFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	res, err := h.d.Dispatch(c.Request().Context(), sess, cmd)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, toCartResponse(*res.Cart))
}

func toCartResponse(v usecase.CartView) CartResponse {
	items := make([]CartItemResponse, 0, len(v.Lines))
	for _, l := range v.Lines {
		items = append(items, CartItemResponse{
			ProductID: l.ProductID,
			Name:      l.Name,
			Image:     l.Image,
			Price:     l.UnitPrice.StringFixed(2),
			Quantity:  l.Quantity,
			LineTotal: l.LineTotal.StringFixed(2),
		})
	}

	return CartResponse{
		Items:      items,
		TotalItems: v.TotalItems,
		TotalPrice: v.TotalPrice.StringFixed(2),
		Degraded:   v.Degraded,
	}
}
