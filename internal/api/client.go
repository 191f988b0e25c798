package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Lenin1999/app-proyecto-pulmones/internal/common"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

// maxResponseBytes bounds how much of a response body is read.
const maxResponseBytes = 1 << 20

// Endpoint names used for breakers and logging.
const (
	endpointClassify = "classify"
	endpointResults  = "results"
	endpointReport   = "report"
)

// Config holds the base URLs of the three remote services.
type Config struct {
	BaseAdd        string
	BaseResultados string
	BaseReporte    string
	Timeout        time.Duration
}

// Validate ensures every base URL is present and absolute.
func (c Config) Validate() error {
	for name, base := range map[string]string{
		"base_add":        c.BaseAdd,
		"base_resultados": c.BaseResultados,
		"base_reporte":    c.BaseReporte,
	} {
		if strings.TrimSpace(base) == "" {
			return fmt.Errorf("%w: api.%s", common.ErrMissingConfig, name)
		}
		if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
			return fmt.Errorf("%w: api.%s must be an http(s) URL, got %q", common.ErrInvalidConfig, name, base)
		}
	}
	return nil
}

// Client talks to the classification, results and reporting endpoints.
type Client struct {
	httpClient     *http.Client
	breakers       map[string]*gobreaker.CircuitBreaker
	reportLimiter  *rate.Limiter
	progress       func(size int64) io.Writer
	baseAdd        string
	baseResultados string
	baseReporte    string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithBreaker opens a circuit per endpoint after the given number of
// consecutive transport failures and keeps it open for cooldown.
// Rejections of an image are answers, not failures, and never trip it.
func WithBreaker(failures uint32, cooldown time.Duration) Option {
	return func(c *Client) {
		if failures == 0 {
			return
		}
		c.breakers = make(map[string]*gobreaker.CircuitBreaker, 3)
		for _, name := range []string{endpointClassify, endpointResults, endpointReport} {
			c.breakers[name] = gobreaker.NewCircuitBreaker(gobreaker.Settings{
				Name:        name,
				MaxRequests: 1,
				Timeout:     cooldown,
				ReadyToTrip: func(counts gobreaker.Counts) bool {
					return counts.ConsecutiveFailures >= failures
				},
				IsSuccessful: func(err error) bool {
					return err == nil ||
						errors.Is(err, common.ErrRemoteRejection) ||
						errors.Is(err, context.Canceled)
				},
				OnStateChange: func(name string, from, to gobreaker.State) {
					slog.Warn("Circuit breaker changed state",
						"endpoint", name,
						"from", from.String(),
						"to", to.String())
				},
			})
		}
	}
}

// WithReportLimit allows at most perMinute report dispatches per minute.
func WithReportLimit(perMinute int) Option {
	return func(c *Client) {
		if perMinute <= 0 {
			return
		}
		c.reportLimiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), 1)
	}
}

// WithUploadProgress reports bytes of each classification upload to the
// writer returned for that upload's size.
func WithUploadProgress(fn func(size int64) io.Writer) Option {
	return func(c *Client) {
		c.progress = fn
	}
}

// New creates a client for the given endpoints.
func New(cfg Config, opts ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	c := &Client{
		baseAdd:        strings.TrimRight(cfg.BaseAdd, "/"),
		baseResultados: strings.TrimRight(cfg.BaseResultados, "/"),
		baseReporte:    strings.TrimRight(cfg.BaseReporte, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 2,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// execute runs fn behind the endpoint's breaker when one is configured.
func (c *Client) execute(endpoint string, fn func() (any, error)) (any, error) {
	cb, ok := c.breakers[endpoint]
	if !ok {
		return fn()
	}

	result, err := cb.Execute(fn)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, common.Transport(endpoint, err)
	}
	return result, err
}

// BreakerState returns the breaker state of an endpoint, or "disabled".
func (c *Client) BreakerState(endpoint string) string {
	cb, ok := c.breakers[endpoint]
	if !ok {
		return "disabled"
	}
	return cb.State().String()
}

// readBody reads a bounded response body and closes it.
func readBody(resp *http.Response) ([]byte, error) {
	defer func() { _ = resp.Body.Close() }()
	return io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}
