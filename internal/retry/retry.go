// Package retry は読み取りAPI呼び出しで共通に使うリトライ方針。
package retry

import (
	"context"
	"errors"
	"time"
)

// attemptは失敗した回数（1始まり）
type BackoffFunc func(attempt int) time.Duration

type RetryableFunc func(err error) bool

type Policy struct {
	MaxAttempts int
	Backoff     BackoffFunc
	// nilなら全エラーをリトライ
	Retryable RetryableFunc
	// リトライ前に呼ばれる（ログ用）
	OnRetry func(attempt int, err error)
}

// 毎回同じ待ち時間
func Fixed(d time.Duration) BackoffFunc {
	return func(int) time.Duration { return d }
}

// 書き込み用。1回だけ
func NoRetry() Policy {
	return Policy{MaxAttempts: 1}
}

// 3回まで、1秒間隔
func Default() Policy {
	return Policy{
		MaxAttempts: 3,
		Backoff:     Fixed(time.Second),
	}
}

// Do は fn を成功するか打ち切られるまで呼ぶ。最後のエラーを返す。
func (p Policy) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	max := p.MaxAttempts
	if max < 1 {
		max = 1
	}

	for attempt := 1; ; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if attempt >= max {
			return err
		}
		if p.Retryable != nil && !p.Retryable(err) {
			return err
		}
		if p.OnRetry != nil {
			p.OnRetry(attempt, err)
		}

		var wait time.Duration
		if p.Backoff != nil {
			wait = p.Backoff(attempt)
		}
		if serr := sleep(ctx, wait); serr != nil {
			return errors.Join(err, serr)
		}
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
