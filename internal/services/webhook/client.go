package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	xhttp "MarketDash/pkg/http"
)

// Actions sent to the workflow engine.
const (
	ActionCheckMarket   = "check_market_conditions"
	ActionAnalyzeStocks = "analyze_stocks"
)

const (
	isoMillis = "2006-01-02T15:04:05.000Z"
	userAgent = "MarketDash/1.0"
)

// TriggerPayload asks the workflow engine to run one action.
type TriggerPayload struct {
	Timestamp string `json:"timestamp"`
	Action    string `json:"action"`
}

// LynchPayload requests a Peter Lynch score for the given tickers.
type LynchPayload struct {
	Token   string   `json:"token"`
	Tickers []string `json:"tickers"`
}

// Client posts JSON to the workflow engine webhooks.
type Client struct {
	http     *xhttp.Client
	attempts int
	backoff  time.Duration
	now      func() time.Time
}

type Option func(*Client)

// WithRetry sets the attempts used by PostJSONWithRetry.
func WithRetry(attempts int, backoff time.Duration) Option {
	return func(c *Client) {
		c.attempts = attempts
		c.backoff = backoff
	}
}

// WithHTTPOptions forwards options to the underlying HTTP client.
func WithHTTPOptions(opts ...xhttp.ClientOption) Option {
	return func(c *Client) {
		c.http = xhttp.NewClient(opts...)
	}
}

func NewClient(timeout time.Duration, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = time.Minute
	}
	c := &Client{
		http:     xhttp.NewClient(xhttp.WithTimeout(timeout), xhttp.WithHeader("User-Agent", userAgent)),
		attempts: 1,
		backoff:  200 * time.Millisecond,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// PostJSON posts payload to url and decodes a 2xx JSON answer into dest.
func (c *Client) PostJSON(ctx context.Context, url string, payload interface{}, dest interface{}) error {
	if url == "" {
		return fmt.Errorf("webhook url is empty")
	}
	if err := c.http.PostJSON(ctx, url, payload, dest); err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	return nil
}

// PostJSONWithRetry retries PostJSON on transport errors and transient statuses.
func (c *Client) PostJSONWithRetry(ctx context.Context, url string, payload interface{}, dest interface{}) error {
	var err error
	for i := 1; ; i++ {
		err = c.PostJSON(ctx, url, payload, dest)
		if err == nil || i >= c.attempts || !retryable(err) {
			return err
		}
		select {
		case <-time.After(time.Duration(i) * c.backoff):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Trigger sends {timestamp, action} and returns the decoded answer. The status
// code is not checked; an answer that is not JSON is an error.
func (c *Client) Trigger(ctx context.Context, url, action string) (any, error) {
	if url == "" {
		return nil, fmt.Errorf("webhook url is empty")
	}
	resp, err := c.http.Post(ctx, url, TriggerPayload{
		Timestamp: c.now().UTC().Format(isoMillis),
		Action:    action,
	})
	if err != nil {
		return nil, fmt.Errorf("trigger %s: %w", action, err)
	}
	defer resp.Body.Close()

	var out any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("trigger %s: empty response", action)
		}
		return nil, fmt.Errorf("trigger %s: decode response: %w", action, err)
	}
	return out, nil
}

// Sync posts without a body and requires a 2xx JSON answer.
func (c *Client) Sync(ctx context.Context, url string) (any, error) {
	var out any
	if err := c.PostJSON(ctx, url, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Lynch requests the score of one ticker. Non-empty array answers are
// unwrapped to their first element; an empty array is returned as is.
func (c *Client) Lynch(ctx context.Context, url, token, ticker string) (any, error) {
	payload := LynchPayload{Token: token, Tickers: []string{NormalizeTicker(ticker)}}

	var out any
	if err := c.PostJSONWithRetry(ctx, url, payload, &out); err != nil {
		return nil, err
	}
	if arr, ok := out.([]any); ok && len(arr) > 0 {
		return arr[0], nil
	}
	return out, nil
}

// NormalizeTicker trims and upper-cases a ticker symbol.
func NormalizeTicker(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}

func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var se *xhttp.StatusError
	if errors.As(err, &se) {
		return se.Transient()
	}
	var syn *json.SyntaxError
	return !errors.As(err, &syn)
}
