package cdn

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/time/rate"

	"cafefcli/internal/config"
	apperrors "cafefcli/internal/errors"
	"cafefcli/internal/metrics"
)

// Client is the HTTP Source.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
	metrics    *metrics.Recorder

	headTimeout     time.Duration
	downloadTimeout time.Duration
	maxRetries      int
	retryInitial    time.Duration
	userAgent       string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m *metrics.Recorder) ClientOption {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a CDN client from the HTTP configuration.
func NewClient(cfg config.HTTPConfig, opts ...ClientOption) *Client {
	c := &Client{
		httpClient:      &http.Client{},
		limiter:         rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), max(cfg.Burst, 1)),
		logger:          slog.Default(),
		headTimeout:     cfg.HeadTimeout,
		downloadTimeout: cfg.DownloadTimeout,
		maxRetries:      cfg.MaxRetries,
		retryInitial:    cfg.RetryInitialInterval,
		userAgent:       cfg.UserAgent,
	}

	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With(slog.String("component", "cdn_client"))

	return c
}

// WithDownloadTimeout returns a client sharing c's transport and rate
// limiter whose downloads are bounded by d.
func (c *Client) WithDownloadTimeout(d time.Duration) *Client {
	cp := *c
	cp.downloadTimeout = d
	return &cp
}

// Exists implements Source.
func (c *Client) Exists(ctx context.Context, url string) bool {
	start := time.Now()

	if err := c.limiter.Wait(ctx); err != nil {
		c.logger.DebugContext(ctx, "HEAD skipped", slog.String("url", url), slog.String("error", err.Error()))
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, c.headTimeout)
	defer cancel()

	req, err := c.newRequest(ctx, http.MethodHead, url)
	if err != nil {
		c.logger.DebugContext(ctx, "HEAD request invalid", slog.String("url", url), slog.String("error", err.Error()))
		return false
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.RecordRequest(ctx, http.MethodHead, "error", time.Since(start), 0)
		c.logger.DebugContext(ctx, "HEAD failed", slog.String("url", url), slog.String("error", err.Error()))
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	ok := resp.StatusCode == http.StatusOK
	outcome := "ok"
	if !ok {
		outcome = "absent"
	}
	c.metrics.RecordRequest(ctx, http.MethodHead, outcome, time.Since(start), 0)
	c.logger.DebugContext(ctx, "HEAD",
		slog.String("url", url),
		slog.Int("status", resp.StatusCode),
		slog.Bool("exists", ok))

	return ok
}

// Fetch implements Source. Transport errors and 5xx responses are retried
// up to the configured number of times; any other non-200 status fails
// immediately.
func (c *Client) Fetch(ctx context.Context, url string) ([]byte, error) {
	start := time.Now()
	attempt := 0

	op := func() ([]byte, error) {
		attempt++
		if err := ctx.Err(); err != nil {
			return nil, backoff.Permanent(err)
		}
		return c.get(ctx, url)
	}

	notify := func(err error, wait time.Duration) {
		c.logger.WarnContext(ctx, "Download failed, retrying",
			slog.String("url", url),
			slog.Int("attempt", attempt),
			slog.Duration("backoff", wait),
			slog.String("error", err.Error()))
	}

	data, err := backoff.RetryNotifyWithData(op, c.newBackOff(ctx), notify)
	if err != nil {
		c.metrics.RecordRequest(ctx, http.MethodGet, "error", time.Since(start), 0)
		return nil, apperrors.NewNetworkError(fmt.Sprintf("download %s", url), err).
			WithContext("attempts", attempt)
	}

	c.metrics.RecordRequest(ctx, http.MethodGet, "ok", time.Since(start), int64(len(data)))
	c.logger.InfoContext(ctx, "Downloaded archive",
		slog.String("url", url),
		slog.Int("size_bytes", len(data)),
		slog.Int("attempts", attempt),
		slog.Duration("duration", time.Since(start)))

	return data, nil
}

func (c *Client) newBackOff(ctx context.Context) backoff.BackOff {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = c.retryInitial
	exp.MaxElapsedTime = 0

	var b backoff.BackOff = exp
	if c.retryInitial <= 0 {
		b = &backoff.ZeroBackOff{}
	}
	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(max(c.maxRetries, 0))), ctx)
}

// get performs one bounded GET attempt.
func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, backoff.Permanent(err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.downloadTimeout)
	defer cancel()

	req, err := c.newRequest(ctx, http.MethodGet, url)
	if err != nil {
		return nil, backoff.Permanent(err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		statusErr := apperrors.NewUpstreamError(url, resp.StatusCode)
		if resp.StatusCode >= 500 {
			return nil, statusErr
		}
		return nil, backoff.Permanent(statusErr)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return data, nil
}

func (c *Client) newRequest(ctx context.Context, method, url string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, err
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	return req, nil
}

// StatusCode returns the upstream HTTP status carried by err, or 0.
func StatusCode(err error) int {
	for err != nil {
		var appErr *apperrors.AppError
		if !errors.As(err, &appErr) {
			return 0
		}
		if code, ok := appErr.Context["status_code"].(int); ok {
			return code
		}
		err = appErr.Cause
	}
	return 0
}
