package tvmaze

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

const maxBodySize = 16 << 20

// Client performs catalog API requests and decodes JSON responses.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	maxRetries int
	retryDelay time.Duration
	logger     *zap.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout bounds every single attempt. The client passed to
// WithHTTPClient is copied, not modified.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		hc := *c.httpClient
		hc.Timeout = d
		c.httpClient = &hc
	}
}

// WithMaxRetries sets how many extra attempts follow a retryable failure.
func WithMaxRetries(n int) ClientOption {
	return func(c *Client) { c.maxRetries = max(0, n) }
}

func WithRetryDelay(d time.Duration) ClientOption {
	return func(c *Client) { c.retryDelay = d }
}

func WithLogger(l *zap.Logger) ClientOption {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient creates a client for the API rooted at baseURL.
func NewClient(baseURL string, opts ...ClientOption) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("tvmaze: parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("tvmaze: base url %q needs a scheme and host", baseURL)
	}
	c := &Client{
		baseURL:    u,
		httpClient: &http.Client{Timeout: 130 * time.Second},
		maxRetries: 2,
		retryDelay: 500 * time.Millisecond,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Do sends ep and decodes the response into dest. Transport failures, 5xx
// and 429 answers are retried up to the configured limit with a linear
// backoff. dest may be nil to discard the body.
func (c *Client) Do(ctx context.Context, ep Endpoint, dest any) error {
	var err error
	for attempt := 0; ; attempt++ {
		err = c.once(ctx, ep, dest)
		if err == nil {
			return nil
		}
		if !retryable(err) || attempt >= c.maxRetries || ctx.Err() != nil {
			c.logger.Error("request failed", zap.Stringer("endpoint", ep), zap.Int("attempt", attempt+1), zap.Error(err))
			return err
		}
		c.logger.Warn("retrying request", zap.Stringer("endpoint", ep), zap.Int("attempt", attempt+1), zap.Error(err))

		select {
		case <-ctx.Done():
			return &Error{Kind: KindUnknown, Endpoint: ep.String(), Err: ctx.Err()}
		case <-time.After(c.retryDelay * time.Duration(attempt+1)):
		}
	}
}

func (c *Client) once(ctx context.Context, ep Endpoint, dest any) error {
	req, err := http.NewRequestWithContext(ctx, ep.Method, ep.URL(c.baseURL), nil)
	if err != nil {
		return &Error{Kind: KindUnknown, Endpoint: ep.String(), Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &Error{Kind: KindUnknown, Endpoint: ep.String(), Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return &Error{Kind: KindUnknown, Endpoint: ep.String(), Err: err}
	}

	switch {
	case resp.StatusCode >= 400:
		return &Error{Kind: KindBackend, Endpoint: ep.String(), StatusCode: resp.StatusCode, Body: body}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return &Error{Kind: KindInvalidStatus, Endpoint: ep.String(), StatusCode: resp.StatusCode, Body: body}
	}

	if dest == nil {
		return nil
	}
	if len(body) == 0 {
		return &Error{Kind: KindDecoding, Endpoint: ep.String(), StatusCode: resp.StatusCode, Err: io.ErrUnexpectedEOF}
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return &Error{Kind: KindDecoding, Endpoint: ep.String(), StatusCode: resp.StatusCode, Err: err}
	}
	return nil
}
