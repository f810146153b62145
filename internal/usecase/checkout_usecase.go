package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

// カタログに無い商品を注文に含めるときの扱い
type MissingProductPolicy string

const (
	// 価格0で注文に入れる（従来の挙動）
	MissingProductZeroPrice MissingProductPolicy = "zero-price"
	// 注文せずValidationErrorを返す
	MissingProductReject MissingProductPolicy = "reject"
)

func ParseMissingProductPolicy(s string) (MissingProductPolicy, error) {
	switch p := MissingProductPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return MissingProductZeroPrice, nil
	case MissingProductZeroPrice, MissingProductReject:
		return p, nil
	default:
		return "", fmt.Errorf("unknown missing product policy %q", s)
	}
}

// ユーザーごとのチェックアウト状態。
// Failed は直前の送信結果を示すだけで、次の開始では Idle と同じ扱い（再試行できる）
type CheckoutState string

const (
	CheckoutIdle       CheckoutState = "idle"
	CheckoutSubmitting CheckoutState = "submitting"
	CheckoutCommitted  CheckoutState = "committed"
	CheckoutFailed     CheckoutState = "failed"
)

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID() string
}

// CheckoutUsecase はカートを注文に変換して送信し、成功したときだけカートを消す。
type CheckoutUsecase struct {
	carts   *CartStore
	catalog repo.CatalogReader
	orders  repo.OrderWriter
	clock   Clock
	idGen   IDGenerator
	policy  MissingProductPolicy
	log     *slog.Logger

	mu     sync.Mutex
	states map[int64]CheckoutState
}

func NewCheckoutUsecase(
	carts *CartStore,
	catalog repo.CatalogReader,
	orders repo.OrderWriter,
	clock Clock,
	idGen IDGenerator,
	policy MissingProductPolicy,
	log *slog.Logger,
) *CheckoutUsecase {
	if policy == "" {
		policy = MissingProductZeroPrice
	}
	if log == nil {
		log = slog.Default()
	}
	return &CheckoutUsecase{
		carts:   carts,
		catalog: catalog,
		orders:  orders,
		clock:   clock,
		idGen:   idGen,
		policy:  policy,
		log:     log,
		states:  make(map[int64]CheckoutState),
	}
}

// State は直近のチェックアウトの状態。未実行なら Idle。
// 開始を拒否するのは Submitting のときだけ
func (u *CheckoutUsecase) State(userID int64) CheckoutState {
	u.mu.Lock()
	defer u.mu.Unlock()
	if st, ok := u.states[userID]; ok {
		return st
	}
	return CheckoutIdle
}

// PlaceOrder は保存済みのカートと最新のカタログで Checkout する。
func (u *CheckoutUsecase) PlaceOrder(ctx context.Context, sess model.Session) (model.Order, error) {
	cart, err := u.carts.Get(ctx, sess.UserID)
	if err != nil {
		return model.Order{}, err
	}
	if cart.IsEmpty() {
		return model.Order{}, validationError("checkout", ErrEmptyCart)
	}

	products, err := u.catalog.ListProducts(ctx, repo.ProductFilter{})
	if err != nil {
		return model.Order{}, networkError("load catalog", err)
	}

	return u.Checkout(ctx, sess, cart, model.NewCatalog(products))
}

// Checkout は cart から注文を作って送信する。
// 送信が成功したらカートを消して注文を返す。失敗したらカートはそのまま。
// 注文は作成済みでカートの削除だけ失敗した場合は、注文とPersistenceErrorを両方返す。
func (u *CheckoutUsecase) Checkout(ctx context.Context, sess model.Session, cart model.Cart, catalog model.Catalog) (model.Order, error) {
	const op = "checkout"

	if sess.UserID <= 0 {
		return model.Order{}, validationError(op, ErrInvalidID)
	}
	if cart.UserID != sess.UserID {
		return model.Order{}, validationError(op, ErrCartOwner)
	}
	if cart.IsEmpty() {
		return model.Order{}, validationError(op, ErrEmptyCart)
	}

	//送信中に呼び出し側がカートを変えても注文に影響しない
	order, err := u.buildOrder(sess.UserID, cart.Clone(), catalog)
	if err != nil {
		return model.Order{}, err
	}

	if !u.begin(sess.UserID) {
		return model.Order{}, validationError(op, ErrCheckoutInProgress)
	}

	//書き込みはリトライしない（二重注文防止）
	created, err := u.orders.Submit(ctx, order, repo.SubmitOptions{IdempotencyKey: u.idGen.NewID()})
	if err != nil {
		u.finish(sess.UserID, CheckoutFailed)
		u.log.ErrorContext(ctx, "order submission failed", "user_id", sess.UserID, "error", err)
		return model.Order{}, newError(KindSubmissionFailed, op, err)
	}
	if created.UserID == 0 {
		created = order
	}

	u.finish(sess.UserID, CheckoutCommitted)
	u.log.InfoContext(ctx, "order placed",
		"user_id", sess.UserID,
		"order_id", created.ID,
		"items", len(created.Items),
		"total", created.Total().StringFixed(2),
	)

	//注文確定後にだけカートを消す
	if err := u.carts.Clear(ctx, sess.UserID); err != nil {
		u.log.ErrorContext(ctx, "cart not cleared after checkout", "user_id", sess.UserID, "error", err)
		return created, err
	}
	return created, nil
}

// 価格はカタログの値をコピーして固定する
func (u *CheckoutUsecase) buildOrder(userID int64, cart model.Cart, catalog model.Catalog) (model.Order, error) {
	items := make([]model.OrderItem, 0, len(cart.Lines))
	for _, cl := range cart.Lines {
		price := decimal.Zero
		p, ok := catalog.Lookup(cl.ProductID)
		switch {
		case ok:
			price = p.Price
		case u.policy == MissingProductReject:
			return model.Order{}, validationError("checkout", fmt.Errorf("%w: product %d", ErrMissingProduct, cl.ProductID))
		}

		items = append(items, model.OrderItem{
			ProductID: cl.ProductID,
			Quantity:  cl.Quantity,
			Price:     price,
		})
	}

	return model.Order{
		UserID:    userID,
		Items:     items,
		Status:    model.OrderStatusPending,
		CreatedAt: u.clock.Now().UTC(),
	}, nil
}

func (u *CheckoutUsecase) begin(userID int64) bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.states[userID] == CheckoutSubmitting {
		return false
	}
	u.states[userID] = CheckoutSubmitting
	return true
}

func (u *CheckoutUsecase) finish(userID int64, st CheckoutState) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.states[userID] = st
}
