package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

// CartStore はユーザーごとのカートを key-value ストアに保存する。
// カートの変更はすべてここを通す。
type CartStore struct {
	kv  repo.KeyValueStore
	log *slog.Logger
}

func NewCartStore(kv repo.KeyValueStore, log *slog.Logger) *CartStore {
	if log == nil {
		log = slog.Default()
	}
	return &CartStore{kv: kv, log: log}
}

// 保存キー
func CartKey(userID int64) string {
	return "cart_" + strconv.FormatInt(userID, 10)
}

// Get は保存済みのカートを返す。無ければ空のカート。
func (s *CartStore) Get(ctx context.Context, userID int64) (model.Cart, error) {
	if userID <= 0 {
		return model.Cart{}, validationError("get cart", ErrInvalidID)
	}
	return s.load(ctx, userID)
}

// AddOrIncrement は同じ商品があれば数量+1、無ければ数量1で末尾に追加。
func (s *CartStore) AddOrIncrement(ctx context.Context, userID int64, productID int64) (model.Cart, error) {
	if userID <= 0 || productID <= 0 {
		return model.Cart{}, validationError("add to cart", ErrInvalidID)
	}

	cart, err := s.load(ctx, userID)
	if err != nil {
		return model.Cart{}, err
	}

	if i := cart.IndexOf(productID); i >= 0 {
		cart.Lines[i].Quantity++
	} else {
		cart.Lines = append(cart.Lines, model.CartLine{ProductID: productID, Quantity: 1})
	}

	if err := s.save(ctx, cart); err != nil {
		return model.Cart{}, err
	}
	return cart, nil
}

// SetQuantity は数量を上書きする。0以下なら行を削除。
func (s *CartStore) SetQuantity(ctx context.Context, userID int64, productID int64, quantity int64) (model.Cart, error) {
	if userID <= 0 || productID <= 0 {
		return model.Cart{}, validationError("set quantity", ErrInvalidID)
	}

	cart, err := s.load(ctx, userID)
	if err != nil {
		return model.Cart{}, err
	}

	i := cart.IndexOf(productID)
	switch {
	case quantity >= 1 && i >= 0:
		cart.Lines[i].Quantity = quantity
	case quantity >= 1:
		cart.Lines = append(cart.Lines, model.CartLine{ProductID: productID, Quantity: quantity})
	case i >= 0:
		cart.Lines = removeAt(cart.Lines, i)
	default:
		// 無い商品を0にするのは何もしない
		return cart, nil
	}

	if err := s.save(ctx, cart); err != nil {
		return model.Cart{}, err
	}
	return cart, nil
}

// Remove は行を削除する。無ければ何もしない。
func (s *CartStore) Remove(ctx context.Context, userID int64, productID int64) (model.Cart, error) {
	if userID <= 0 || productID <= 0 {
		return model.Cart{}, validationError("remove from cart", ErrInvalidID)
	}

	cart, err := s.load(ctx, userID)
	if err != nil {
		return model.Cart{}, err
	}

	i := cart.IndexOf(productID)
	if i < 0 {
		return cart, nil
	}
	cart.Lines = removeAt(cart.Lines, i)

	if err := s.save(ctx, cart); err != nil {
		return model.Cart{}, err
	}
	return cart, nil
}

// Clear は保存済みのカートを消す（注文確定後のみ呼ぶ）。
func (s *CartStore) Clear(ctx context.Context, userID int64) error {
	if userID <= 0 {
		return validationError("clear cart", ErrInvalidID)
	}
	if err := s.kv.Delete(ctx, CartKey(userID)); err != nil {
		return persistenceError("clear cart", err)
	}
	s.log.DebugContext(ctx, "cart cleared", "user_id", userID)
	return nil
}

func (s *CartStore) load(ctx context.Context, userID int64) (model.Cart, error) {
	cart := model.Cart{UserID: userID, Lines: []model.CartLine{}}

	raw, err := s.kv.Get(ctx, CartKey(userID))
	if errors.Is(err, repo.ErrNotFound) {
		return cart, nil
	}
	if err != nil {
		return model.Cart{}, persistenceError("load cart", err)
	}
	if raw == "" || raw == "null" {
		return cart, nil
	}

	var lines []model.CartLine
	if err := json.Unmarshal([]byte(raw), &lines); err != nil {
		return model.Cart{}, persistenceError("decode cart", err)
	}

	//数量0以下の行は保存されていても無視
	for _, l := range lines {
		if l.Quantity >= 1 {
			cart.Lines = append(cart.Lines, l)
		}
	}
	return cart, nil
}

func (s *CartStore) save(ctx context.Context, cart model.Cart) error {
	lines := cart.Lines
	if lines == nil {
		lines = []model.CartLine{}
	}

	b, err := json.Marshal(lines)
	if err != nil {
		return persistenceError("encode cart", err)
	}
	if err := s.kv.Set(ctx, CartKey(cart.UserID), string(b)); err != nil {
		return persistenceError("save cart", err)
	}

	s.log.DebugContext(ctx, "cart updated", "user_id", cart.UserID, "lines", len(lines))
	return nil
}

func removeAt(lines []model.CartLine, i int) []model.CartLine {
	out := make([]model.CartLine, 0, len(lines)-1)
	out = append(out, lines[:i]...)
	return append(out, lines[i+1:]...)
}
