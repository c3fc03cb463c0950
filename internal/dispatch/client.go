// Package dispatch issues outbound enrichment requests to the third-party
// service, handing it the callback URL its results should be delivered to.
package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

const (
	defaultTimeout    = 10 * time.Second
	defaultMaxRetries = 2
	userAgent         = "search-ai-enrichd/v1"
)

// ErrDispatch marks an egress failure: the enrichment service was
// unreachable or answered non-2xx. Reported immediately to the caller and
// never retried automatically; it is distinct from "no match", which is a
// wait outcome, not an error.
var ErrDispatch = errors.New("enrichment dispatch failed")

// Config holds the configuration for creating a Client.
type Config struct {
	// ServiceURL is the enrichment service's request endpoint.
	ServiceURL string

	// APIKey is sent as the X-Api-Key header.
	APIKey string

	// CallbackURL is this process's ingress endpoint, handed to the service
	// so it knows where to deliver results. A correlation token is appended
	// as a query parameter per dispatch.
	CallbackURL string

	// TimeoutSeconds bounds each HTTP attempt. Default 10.
	TimeoutSeconds int

	// MaxRetries bounds extra attempts after transient transport failures.
	// Non-2xx responses are never retried. Default 2.
	MaxRetries int
}

// Client sends enrichment requests. Safe for concurrent use.
type Client struct {
	httpClient *http.Client
	logger     *zap.Logger
	cfg        Config
}

// dispatchRequest is the JSON body POSTed to the enrichment service.
type dispatchRequest struct {
	Items       []string `json:"items"`
	CallbackURL string   `json:"callbackUrl"`
}

// NewClient creates a Client. Returns an error if either URL is invalid.
func NewClient(logger *zap.Logger, cfg Config) (*Client, error) {
	if err := validateURL(cfg.ServiceURL); err != nil {
		return nil, fmt.Errorf("invalid service URL: %w", err)
	}
	if err := validateURL(cfg.CallbackURL); err != nil {
		return nil, fmt.Errorf("invalid callback URL: %w", err)
	}
	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = int(defaultTimeout / time.Second)
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = defaultMaxRetries
	}
	return &Client{
		httpClient: &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
		logger:     logger.Named("dispatch"),
		cfg:        cfg,
	}, nil
}

func validateURL(raw string) error {
	if raw == "" {
		return fmt.Errorf("URL is required")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("URL must use http or https scheme, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("URL must include a host")
	}
	return nil
}

// Dispatch asks the enrichment service to resolve identifier, directing its
// callback to this process's ingress URL with token embedded as the "token"
// query parameter. Transient transport failures are retried with linear
// backoff; any non-2xx response fails immediately.
func (c *Client) Dispatch(ctx context.Context, identifier, token string) error {
	callback, err := c.callbackURL(token)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDispatch, err)
	}

	body, err := json.Marshal(dispatchRequest{
		Items:       []string{identifier},
		CallbackURL: callback,
	})
	if err != nil {
		return fmt.Errorf("%w: marshal request: %v", ErrDispatch, err)
	}

	var lastErr error
	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(attempt) * time.Second
			timer := time.NewTimer(backoff)
			select {
			case <-timer.C:
			case <-ctx.Done():
				timer.Stop()
				return fmt.Errorf("%w: %v", ErrDispatch, ctx.Err())
			}
			c.logger.Debug("Retrying dispatch",
				zap.Int("attempt", attempt+1),
				zap.String("item", identifier))
		}

		var retryable bool
		retryable, lastErr = c.doPost(ctx, body)
		if lastErr == nil {
			c.logger.Info("Dispatched enrichment request",
				zap.String("item", identifier),
				zap.String("callback", RedactURL(callback)))
			return nil
		}
		if !retryable {
			break
		}
	}
	return fmt.Errorf("%w: %v", ErrDispatch, lastErr)
}

// doPost executes a single attempt. The bool reports whether the failure is
// worth retrying (transport errors yes, HTTP status failures no).
func (c *Client) doPost(ctx context.Context, body []byte) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.ServiceURL, bytes.NewReader(body))
	if err != nil {
		return false, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if c.cfg.APIKey != "" {
		req.Header.Set("X-Api-Key", c.cfg.APIKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return true, err
	}
	defer func() {
		// Drain and close body to reuse connections.
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return false, nil
	}
	return false, fmt.Errorf("service returned HTTP %d", resp.StatusCode)
}

// callbackURL appends the correlation token to the configured ingress URL.
func (c *Client) callbackURL(token string) (string, error) {
	if token == "" {
		return c.cfg.CallbackURL, nil
	}
	u, err := url.Parse(c.cfg.CallbackURL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// RedactURL masks credentials in a URL for safe logging: userinfo passwords
// and every query parameter value (the token rides in the query string).
func RedactURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "<invalid-url>"
	}
	redacted := u.Redacted()
	if u.RawQuery == "" {
		return redacted
	}
	q := u.Query()
	for key := range q {
		q.Set(key, "REDACTED")
	}
	r, err := url.Parse(redacted)
	if err != nil {
		return redacted
	}
	r.RawQuery = q.Encode()
	return r.String()
}
