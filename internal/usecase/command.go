package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

// 画面操作をコマンドにしてCartStore／Checkoutに振り分ける
type Command interface {
	Name() string
}

type ViewCartCommand struct{}

type AddToCartCommand struct {
	ProductID int64
}

type SetQuantityCommand struct {
	ProductID int64
	Quantity  int64
}

type RemoveFromCartCommand struct {
	ProductID int64
}

type CheckoutCommand struct{}

func (ViewCartCommand) Name() string       { return "view_cart" }
func (AddToCartCommand) Name() string      { return "add_to_cart" }
func (SetQuantityCommand) Name() string    { return "set_quantity" }
func (RemoveFromCartCommand) Name() string { return "remove_from_cart" }
func (CheckoutCommand) Name() string       { return "checkout" }

// カート系はCart、チェックアウトはOrderが入る
type Result struct {
	Cart  *CartView
	Order *model.Order
}

type Dispatcher struct {
	carts    *CartStore
	checkout *CheckoutUsecase
	catalog  repo.CatalogReader
	log      *slog.Logger
}

func NewDispatcher(carts *CartStore, checkout *CheckoutUsecase, catalog repo.CatalogReader, log *slog.Logger) *Dispatcher {
	if log == nil {
		log = slog.Default()
	}
	return &Dispatcher{carts: carts, checkout: checkout, catalog: catalog, log: log}
}

func (d *Dispatcher) Dispatch(ctx context.Context, sess model.Session, cmd Command) (Result, error) {
	var (
		cart model.Cart
		err  error
	)

	switch c := cmd.(type) {
	case ViewCartCommand:
		cart, err = d.carts.Get(ctx, sess.UserID)
	case AddToCartCommand:
		cart, err = d.carts.AddOrIncrement(ctx, sess.UserID, c.ProductID)
	case SetQuantityCommand:
		cart, err = d.carts.SetQuantity(ctx, sess.UserID, c.ProductID, c.Quantity)
	case RemoveFromCartCommand:
		cart, err = d.carts.Remove(ctx, sess.UserID, c.ProductID)
	case CheckoutCommand:
		order, err := d.checkout.PlaceOrder(ctx, sess)
		if err != nil && order.UserID == 0 {
			return Result{}, err
		}
		return Result{Order: &order}, err
	default:
		return Result{}, validationError("dispatch", fmt.Errorf("unknown command %T", cmd))
	}
	if err != nil {
		return Result{}, err
	}

	view := d.present(ctx, cart)
	return Result{Cart: &view}, nil
}

// カタログが読めないときは空カタログで表示（エラーにしない）
func (d *Dispatcher) present(ctx context.Context, cart model.Cart) CartView {
	if cart.IsEmpty() {
		return Present(cart, model.Catalog{})
	}

	products, err := d.catalog.ListProducts(ctx, repo.ProductFilter{})
	if err != nil {
		d.log.WarnContext(ctx, "catalog unavailable, presenting degraded cart", "user_id", cart.UserID, "error", err)
		view := Present(cart, model.Catalog{})
		view.Degraded = true
		return view
	}
	return Present(cart, model.NewCatalog(products))
}
