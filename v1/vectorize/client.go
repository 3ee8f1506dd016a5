package vectorize

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/Aleph-Alpha/cfvectorize/v1/observability"
)

//
// ──────────────────────────────────────────────────────────────
//   VECTORIZE CLIENT
// ──────────────────────────────────────────────────────────────
//
// Client is a thin wrapper around the Cloudflare Vectorize v2 REST API.
// Every exported operation validates its input, issues exactly one logical
// remote call (retried for idempotent operations), and returns the decoded
// "result" of the response envelope.
//
// The client holds no mutable state after construction and is safe for
// concurrent use.
//

const instrumentationName = "github.com/Aleph-Alpha/cfvectorize/v1/vectorize"

type Client struct {
	cfg        Config
	baseURL    string
	httpClient *http.Client
	retryable  map[int]struct{}
	tracer     trace.Tracer
	observer   observability.Observer
	logger     Logger
}

// NewClient validates cfg and builds a client. cfg is copied; later changes
// to it have no effect.
//
// Example:
//
//	client, err := vectorize.NewClient(vectorize.NewConfigFromEnv())
//	if err != nil {
//	    return err
//	}
//	res, err := client.QueryVectors(ctx, "docs", vectorize.QueryRequest{Vector: v, TopK: 3})
func NewClient(cfg *Config) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("vectorize: config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := cfg.withDefaults()

	base, err := url.Parse(strings.TrimRight(c.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("vectorize: invalid base url %q", c.BaseURL)
	}

	hc := c.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: c.Timeout}
	}

	retryable := make(map[int]struct{}, len(c.Retry.RetryableStatuses))
	for _, s := range c.Retry.RetryableStatuses {
		retryable[s] = struct{}{}
	}

	return &Client{
		cfg:        c,
		baseURL:    base.String() + "/accounts/" + url.PathEscape(c.AccountID) + "/vectorize/v2",
		httpClient: hc,
		retryable:  retryable,
		tracer:     otel.Tracer(instrumentationName),
	}, nil
}

// WithObserver attaches an observer that is notified after every operation.
// Call it before the client is shared.
func (c *Client) WithObserver(observer observability.Observer) *Client {
	c.observer = observer
	return c
}

// WithLogger attaches a logger for retry and failure events.
// Call it before the client is shared.
func (c *Client) WithLogger(logger Logger) *Client {
	c.logger = logger
	return c
}

// AccountID returns the account the client operates on.
func (c *Client) AccountID() string {
	return c.cfg.AccountID
}

// RetryConfig returns the effective retry settings.
func (c *Client) RetryConfig() RetryConfig {
	r := c.cfg.Retry
	r.RetryableStatuses = append([]int(nil), r.RetryableStatuses...)
	return r
}

func (c *Client) indexPath(index string, parts ...string) string {
	p := "/indexes/" + url.PathEscape(index)
	for _, part := range parts {
		p += "/" + part
	}
	return p
}
