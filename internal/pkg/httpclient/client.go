// Package httpclient is the outbound HTTP client used for the ration
// backend: pooled transport with OpenTelemetry spans, capped exponential
// retry and a circuit breaker.
package httpclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/shandysiswandi/rationkiosk/internal/pkg/instrument"
)

// Config holds HTTP client configuration.
type Config struct {
	// Name labels spans, logs and the breaker gauge.
	Name            string
	Timeout         time.Duration
	MaxRetries      uint64
	RetryWaitMin    time.Duration
	RetryWaitMax    time.Duration
	MaxConnsPerHost int
	Breaker         BreakerConfig
}

// DefaultConfig returns the defaults used when a field is left zero.
func DefaultConfig(name string) Config {
	return Config{
		Name:            name,
		Timeout:         10 * time.Second,
		MaxRetries:      2,
		RetryWaitMin:    200 * time.Millisecond,
		RetryWaitMax:    2 * time.Second,
		MaxConnsPerHost: 16,
		Breaker:         DefaultBreakerConfig(),
	}
}

// StatusError is returned for 5xx responses. The body has been read and closed.
type StatusError struct {
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("httpclient: server error %d", e.StatusCode)
}

// Client wraps http.Client with retry and circuit breaking.
type Client struct {
	http    *http.Client
	cfg     Config
	breaker *gobreaker.CircuitBreaker[*http.Response]
}

// New builds a Client. Zero fields in cfg fall back to DefaultConfig.
func New(cfg Config, ins instrument.Instrumentation) (*Client, error) {
	def := DefaultConfig(cfg.Name)
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.RetryWaitMin <= 0 {
		cfg.RetryWaitMin = def.RetryWaitMin
	}
	if cfg.RetryWaitMax < cfg.RetryWaitMin {
		cfg.RetryWaitMax = max(def.RetryWaitMax, cfg.RetryWaitMin)
	}
	if cfg.MaxConnsPerHost <= 0 {
		cfg.MaxConnsPerHost = def.MaxConnsPerHost
	}

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          cfg.MaxConnsPerHost,
		MaxIdleConnsPerHost:   cfg.MaxConnsPerHost,
		MaxConnsPerHost:       cfg.MaxConnsPerHost,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ExpectContinueTimeout: time.Second,
	}

	c := &Client{
		http: &http.Client{
			Transport: otelhttp.NewTransport(transport),
			Timeout:   cfg.Timeout,
		},
		cfg: cfg,
	}

	breaker, err := newBreaker(cfg.Name, cfg.Breaker, ins)
	if err != nil {
		return nil, err
	}
	c.breaker = breaker

	return c, nil
}

// Do sends req, retrying network errors and 5xx (except 501) responses. A
// request with a body is only retried when req.GetBody is set, which
// http.NewRequest does for in-memory readers. Non-5xx responses come back
// to the caller untouched.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	var resp *http.Response

	b := retry.NewExponential(c.cfg.RetryWaitMin)
	b = retry.WithCappedDuration(c.cfg.RetryWaitMax, b)
	b = retry.WithJitterPercent(10, b)
	b = retry.WithMaxRetries(c.cfg.MaxRetries, b)

	attempt := 0
	err := retry.Do(req.Context(), b, func(ctx context.Context) error {
		r, err := c.attemptRequest(ctx, req, attempt)
		attempt++
		if err != nil {
			if retryable(err) && (req.Body == nil || req.GetBody != nil) {
				return retry.RetryableError(err)
			}
			return err
		}

		resp = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	return resp, nil
}

func (c *Client) attemptRequest(ctx context.Context, req *http.Request, attempt int) (*http.Response, error) {
	r := req.Clone(ctx)
	if attempt > 0 && req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, err
		}
		r.Body = body
	}

	return c.breaker.Execute(func() (*http.Response, error) {
		resp, err := c.http.Do(r)
		if err != nil {
			return nil, err
		}

		if resp.StatusCode >= http.StatusInternalServerError {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
			_ = resp.Body.Close()
			return nil, &StatusError{StatusCode: resp.StatusCode, Body: body}
		}

		return resp, nil
	})
}

// State reports the breaker state.
func (c *Client) State() gobreaker.State {
	return c.breaker.State()
}

func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if errors.Is(err, ErrCircuitOpen) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return false
	}

	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode != http.StatusNotImplemented
	}

	var ne net.Error
	return errors.As(err, &ne)
}

// IsUnavailable reports whether err means the server could not be reached
// or answered with a 5xx.
func IsUnavailable(err error) bool {
	if errors.Is(err, ErrCircuitOpen) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return true
	}

	var se *StatusError
	if errors.As(err, &se) {
		return true
	}

	var ne net.Error
	return errors.As(err, &ne)
}
