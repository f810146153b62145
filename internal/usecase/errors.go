package usecase

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	// カタログ／注文APIの呼び出しがリトライ後も失敗
	KindNetwork ErrorKind = "network"
	// カートの保存先の読み書き失敗
	KindPersistence ErrorKind = "persistence"
	// 注文の送信が拒否された
	KindSubmissionFailed ErrorKind = "submission_failed"
	// 入力不正・空カートなど
	KindValidation ErrorKind = "validation"
	// 権限が無い（未購入の商品へのレビューなど）
	KindForbidden ErrorKind = "forbidden"
)

var (
	ErrInvalidID          = errors.New("invalid id")
	ErrInvalidQuantity    = errors.New("invalid quantity")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrCartOwner          = errors.New("cart does not belong to user")
	ErrMissingProduct     = errors.New("product not found in catalog")
	ErrCheckoutInProgress = errors.New("checkout already in progress")
	ErrInvalidPage        = errors.New("invalid page")
	ErrInvalidRating      = errors.New("rating must be between 1 and 5")
	ErrEmptyReview        = errors.New("review text is required")
	ErrNotPurchased       = errors.New("product has not been delivered to this customer")
	ErrCustomersOnly      = errors.New("customers only")
)

// usecase層が返すエラー。Kindで呼び出し側が扱いを決める
type Error struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind ErrorKind, op string, err error) error {
	return &Error{Kind: kind, Op: op, Err: err}
}

func validationError(op string, err error) error {
	return newError(KindValidation, op, err)
}

func persistenceError(op string, err error) error {
	return newError(KindPersistence, op, err)
}

func networkError(op string, err error) error {
	return newError(KindNetwork, op, err)
}

func forbiddenError(op string, err error) error {
	return newError(KindForbidden, op, err)
}

func AsError(err error) (*Error, bool) {
	var ue *Error
	ok := errors.As(err, &ue)
	return ue, ok
}

func IsKind(err error, kind ErrorKind) bool {
	ue, ok := AsError(err)
	return ok && ue.Kind == kind
}
