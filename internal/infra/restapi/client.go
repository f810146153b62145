package restapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"storefront/internal/retry"
)

// 2xx以外のレスポンス
type StatusError struct {
	Method string
	Path   string
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %d", e.Method, e.Path, e.Status)
}

// 2xxだがボディが読めなかった
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// 通信エラーと5xx/429だけリトライする。ボディの形が違うのは何度読んでも同じ
func IsRetryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var (
		de  *DecodeError
		se  *json.SyntaxError
		ute *json.UnmarshalTypeError
	)
	if errors.As(err, &de) || errors.As(err, &se) || errors.As(err, &ute) {
		return false
	}
	var st *StatusError
	if errors.As(err, &st) {
		return st.Status >= http.StatusInternalServerError || st.Status == http.StatusTooManyRequests
	}
	return true
}

type Options struct {
	BaseURL string
	Timeout time.Duration
	// 読み取り（GET）に使う。書き込みには使わない
	ReadPolicy retry.Policy
	Logger     *slog.Logger
}

// Client はREST APIへの共通の呼び出し口
type Client struct {
	http  *resty.Client
	reads retry.Policy
	log   *slog.Logger
}

func NewClient(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	reads := opts.ReadPolicy
	if reads.Retryable == nil {
		reads.Retryable = IsRetryable
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	hc := resty.New().
		SetBaseURL(strings.TrimRight(opts.BaseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")

	return &Client{http: hc, reads: reads, log: log}
}

// getJSON は読み取りポリシーでリトライしながらGETしてoutにデコードする
func (c *Client) getJSON(ctx context.Context, path string, query map[string]string, pathParams map[string]string, out interface{}) error {
	policy := c.reads
	policy.OnRetry = func(attempt int, err error) {
		c.log.WarnContext(ctx, "retrying request", "path", path, "attempt", attempt, "error", err)
	}

	return policy.Do(ctx, func(ctx context.Context) error {
		resp, err := c.http.R().
			SetContext(ctx).
			SetQueryParams(query).
			SetPathParams(pathParams).
			Get(path)
		if err != nil {
			return err
		}
		if !resp.IsSuccess() {
			return &StatusError{Method: http.MethodGet, Path: path, Status: resp.StatusCode()}
		}
		if err := json.Unmarshal(resp.Body(), out); err != nil {
			return &DecodeError{Path: path, Err: err}
		}
		return nil
	})
}

// postJSON は1回だけPOSTする。成否はステータスだけで決める。
// 2xxのボディは読めればoutに入れ、読めなければoutはそのまま
func (c *Client) postJSON(ctx context.Context, path string, headers map[string]string, body interface{}, out interface{}) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeaders(headers).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post(path)
	if err != nil {
		return err
	}
	if !resp.IsSuccess() {
		return &StatusError{Method: http.MethodPost, Path: path, Status: resp.StatusCode()}
	}

	if raw := resp.Body(); len(raw) > 0 && out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			c.log.WarnContext(ctx, "response body ignored", "path", path, "status", resp.StatusCode(), "error", err)
		}
	}
	return nil
}
