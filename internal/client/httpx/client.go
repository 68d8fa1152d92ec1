// Package httpx implements the resilient HTTP layer the storefront client
// sends every request through: bearer-token injection, per-attempt timeouts,
// and exponential-backoff retries for network-level failures.
//
// The layer is composed once at construction as withRetry(withAuth(base)).
// An error from the underlying Doer means no HTTP response ever arrived
// (DNS failure, connection refused, timeout) and is the only thing retried;
// a received response, whatever its status, is final. Retrying an HTTP
// error could double-submit non-idempotent operations.
package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Default retry parameters.
const (
	DefaultTimeout    = 10 * time.Second
	DefaultMaxRetries = 3
	DefaultBaseDelay  = time.Second
)

// Doer executes a single HTTP request.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// TokenSource yields the current auth token, or "" when anonymous.
type TokenSource interface {
	Token() string
}

// Notifier observes retry progress. The client UI surfaces these as
// transient status messages.
type Notifier interface {
	// Retrying is called before each retry wait with the upcoming
	// attempt number (1-based) and the maximum number of retries.
	Retrying(attempt, max int)
	// Recovered is called once when a request succeeds after at least
	// one retry.
	Recovered()
}

// NopNotifier discards all notifications.
type NopNotifier struct{}

func (NopNotifier) Retrying(attempt, max int) {}
func (NopNotifier) Recovered()                {}

type authDoer struct {
	next   Doer
	tokens TokenSource
}

// WithAuth decorates next so every request carries "Authorization: Bearer
// <token>" when a token is available. No token is not an error here;
// authorization is enforced server-side.
func WithAuth(next Doer, tokens TokenSource) Doer {
	return &authDoer{next: next, tokens: tokens}
}

func (d *authDoer) Do(req *http.Request) (*http.Response, error) {
	if d.tokens != nil {
		if token := d.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	return d.next.Do(req)
}

type retryDoer struct {
	next       Doer
	maxRetries int
	baseDelay  time.Duration
	notify     Notifier

	// wait is replaceable in tests.
	wait func(ctx context.Context, d time.Duration) error
}

// WithRetry decorates next with exponential-backoff retries on network
// failure. Attempt n waits baseDelay * 2^n; after maxRetries retries the
// last error is returned. Responses are never retried.
func WithRetry(next Doer, maxRetries int, baseDelay time.Duration, notify Notifier) Doer {
	if notify == nil {
		notify = NopNotifier{}
	}
	return &retryDoer{
		next:       next,
		maxRetries: maxRetries,
		baseDelay:  baseDelay,
		notify:     notify,
		wait:       sleepCtx,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (d *retryDoer) Do(req *http.Request) (*http.Response, error) {
	var lastErr error
	for attempt := 0; ; attempt++ {
		attemptReq := req
		if attempt > 0 {
			attemptReq = req.Clone(req.Context())
			if req.GetBody != nil {
				body, err := req.GetBody()
				if err != nil {
					return nil, fmt.Errorf("replay request body: %w", err)
				}
				attemptReq.Body = body
			}
		}

		res, err := d.next.Do(attemptReq)
		if err == nil {
			if attempt > 0 {
				d.notify.Recovered()
			}
			return res, nil
		}

		lastErr = err
		if attempt == d.maxRetries {
			return nil, lastErr
		}

		d.notify.Retrying(attempt+1, d.maxRetries)
		if err := d.wait(req.Context(), d.baseDelay<<attempt); err != nil {
			return nil, err
		}
	}
}

// Response is the outcome of a request that reached the server.
type Response struct {
	// StatusCode is the HTTP status of the final response.
	StatusCode int
	// Body is the fully-read response body.
	Body []byte
}

// Decode unmarshals the response body into out.
func (r *Response) Decode(out any) error {
	return json.Unmarshal(r.Body, out)
}

// Config holds the construction parameters for a Client.
type Config struct {
	// BaseURL is the backend base URL, e.g. "http://localhost:5001".
	BaseURL string
	// Tokens supplies the auth token for outgoing requests.
	Tokens TokenSource
	// Timeout bounds each individual attempt. Zero means DefaultTimeout.
	Timeout time.Duration
	// MaxRetries is the retry count after the initial attempt.
	// Negative disables retries; zero means DefaultMaxRetries.
	MaxRetries int
	// BaseDelay is the backoff base. Zero means DefaultBaseDelay.
	BaseDelay time.Duration
	// Notifier observes retry progress. Nil discards notifications.
	Notifier Notifier
	// Logger records transport-level events. Nil means no logging.
	Logger *zap.Logger
}

// Client issues JSON requests against the backend through the composed
// auth and retry decorators.
type Client struct {
	baseURL      string
	doer         Doer
	log          *zap.Logger
	unauthorized func()
}

// New constructs a Client. The decorator chain is assembled here, once:
// retry wraps auth wraps a plain *http.Client with the attempt timeout.
func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	maxRetries := cfg.MaxRetries
	if maxRetries == 0 {
		maxRetries = DefaultMaxRetries
	}
	if maxRetries < 0 {
		maxRetries = 0
	}
	baseDelay := cfg.BaseDelay
	if baseDelay == 0 {
		baseDelay = DefaultBaseDelay
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	base := &http.Client{Timeout: timeout}
	doer := WithRetry(WithAuth(base, cfg.Tokens), maxRetries, baseDelay, cfg.Notifier)

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		doer:    doer,
		log:     log,
	}
}

// OnUnauthorized registers the hook invoked once per 401 response. Set it
// during wiring, before the client is used.
func (c *Client) OnUnauthorized(fn func()) {
	c.unauthorized = fn
}

// Do issues one logical request. body, when non-nil, is JSON-encoded.
// A non-nil error means the request never reached the server, even after
// retries; otherwise the Response carries the final status and body.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body any) (*Response, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.doer.Do(req)
	if err != nil {
		c.log.Warn("request failed after retries",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return nil, err
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	// The invalid-session side effect fires once per 401 response, never
	// per retry attempt: retries only happen when no response arrived.
	if res.StatusCode == http.StatusUnauthorized && c.unauthorized != nil {
		c.unauthorized()
	}

	return &Response{StatusCode: res.StatusCode, Body: data}, nil
}
