package repository

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("not found")

// 文字列キー／文字列値の保存先（カートは "cart_<userID>" に置く）
type KeyValueStore interface {
	// キーが無ければ ErrNotFound
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string) error
	// 無いキーの削除はエラーにしない
	Delete(ctx context.Context, key string) error
}
