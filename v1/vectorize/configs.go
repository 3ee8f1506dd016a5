package vectorize

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"
)

const (
	// DefaultBaseURL is the root of the Cloudflare v4 REST API.
	DefaultBaseURL = "https://api.cloudflare.com/client/v4"

	// DefaultTimeout bounds a single HTTP attempt.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxAttempts is one initial attempt plus three retries.
	DefaultMaxAttempts = 4

	// DefaultBaseDelay is the first backoff interval.
	DefaultBaseDelay = 100 * time.Millisecond

	// DefaultMaxDelay caps a single backoff interval.
	DefaultMaxDelay = 5 * time.Second

	// DefaultJitter is the randomization factor applied to every backoff interval.
	DefaultJitter = 0.5
)

// DefaultRetryableStatuses are the HTTP statuses retried for idempotent operations.
var DefaultRetryableStatuses = []int{
	http.StatusInternalServerError,
	http.StatusBadGateway,
	http.StatusServiceUnavailable,
	http.StatusGatewayTimeout,
}

// Logger is the subset of logger.Logger the client uses.
//
//go:generate mockgen -source=configs.go -destination=mock_logger.go -package=vectorize
type Logger interface {
	DebugWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
	WarnWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
}

// Config holds everything the client needs. It is read once by NewClient and
// never mutated afterwards.
//
// Example (programmatic):
//
//	cfg := vectorize.DefaultConfig()
//	cfg.AccountID = "023e105f4ecef8ad9ca31a8372d0c353"
//	cfg.Auth.BearerToken = os.Getenv("CLOUDFLARE_API_TOKEN")
//
// Example (builder style):
//
//	cfg := vectorize.FromAccount(accountID).
//	    WithBearerToken(token).
//	    WithTimeout(10 * time.Second).
//	    WithMaxAttempts(5)
type Config struct {
	// AccountID is the Cloudflare account that owns the indexes.
	AccountID string `yaml:"account_id" env:"CLOUDFLARE_ACCOUNT_ID"`

	// BaseURL is the API root. Tests point it at an httptest server.
	BaseURL string `yaml:"base_url" env:"VECTORIZE_BASE_URL"`

	// Auth selects bearer-token or email/key authentication.
	Auth AuthConfig `yaml:"auth"`

	// Timeout bounds each HTTP attempt. Ignored when HTTPClient is set.
	Timeout time.Duration `yaml:"timeout" env:"VECTORIZE_HTTP_TIMEOUT_SECONDS"`

	// Retry controls backoff for idempotent operations.
	Retry RetryConfig `yaml:"retry"`

	// UserAgent is sent with every request when non-empty.
	UserAgent string `yaml:"user_agent"`

	// HTTPClient overrides the transport. Optional.
	HTTPClient *http.Client `yaml:"-"`
}

// AuthConfig carries the credentials. BearerToken takes precedence over
// the legacy Email + APIKey pair when both are present.
type AuthConfig struct {
	BearerToken string `yaml:"bearer_token" env:"CLOUDFLARE_API_TOKEN"`
	Email       string `yaml:"email" env:"CLOUDFLARE_AUTH_EMAIL"`
	APIKey      string `yaml:"api_key" env:"CLOUDFLARE_AUTH_KEY"`
}

// RetryConfig configures capped exponential backoff with jitter.
//
// Attempt n (n ≥ 1 retries) waits roughly BaseDelay·2^(n-1), capped at
// MaxDelay, randomized by ±Jitter of the interval.
type RetryConfig struct {
	// MaxAttempts is the total number of attempts including the first. 1 disables retries.
	MaxAttempts int `yaml:"max_attempts" env:"VECTORIZE_RETRY_MAX_ATTEMPTS"`

	BaseDelay time.Duration `yaml:"base_delay"`
	MaxDelay  time.Duration `yaml:"max_delay"`

	// Jitter is the randomization factor in [0, 1].
	Jitter float64 `yaml:"jitter"`

	// RetryableStatuses lists HTTP statuses that trigger a retry.
	RetryableStatuses []int `yaml:"retryable_statuses"`
}

// DefaultConfig returns a config with every optional field at its default.
// AccountID and credentials still need to be filled in.
func DefaultConfig() *Config {
	return &Config{
		BaseURL: DefaultBaseURL,
		Timeout: DefaultTimeout,
		Retry:   DefaultRetryConfig(),
	}
}

// DefaultRetryConfig mirrors the behaviour of three retries on 500/502/503/504.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:       DefaultMaxAttempts,
		BaseDelay:         DefaultBaseDelay,
		MaxDelay:          DefaultMaxDelay,
		Jitter:            DefaultJitter,
		RetryableStatuses: append([]int(nil), DefaultRetryableStatuses...),
	}
}

// FromAccount returns a default config for accountID.
func FromAccount(accountID string) *Config {
	cfg := DefaultConfig()
	cfg.AccountID = accountID
	return cfg
}

// NewConfigFromEnv builds a config from DefaultConfig overlaid with the
// environment. This is the only place environment variables are read;
// callers that need other values set the fields on the returned config.
//
//	CLOUDFLARE_ACCOUNT_ID            account identifier (required)
//	CLOUDFLARE_API_TOKEN             bearer token; CLOUDFLARE_BEARER_TOKEN is accepted as a fallback
//	CLOUDFLARE_AUTH_EMAIL            legacy auth email
//	CLOUDFLARE_AUTH_KEY              legacy global API key
//	VECTORIZE_BASE_URL               API root override
//	VECTORIZE_HTTP_TIMEOUT_SECONDS   per-attempt timeout
//	VECTORIZE_RETRY_MAX_ATTEMPTS     total attempts for idempotent operations
func NewConfigFromEnv() *Config {
	cfg := DefaultConfig()
	cfg.AccountID = os.Getenv("CLOUDFLARE_ACCOUNT_ID")
	cfg.Auth.BearerToken = os.Getenv("CLOUDFLARE_API_TOKEN")
	if cfg.Auth.BearerToken == "" {
		cfg.Auth.BearerToken = os.Getenv("CLOUDFLARE_BEARER_TOKEN")
	}
	cfg.Auth.Email = os.Getenv("CLOUDFLARE_AUTH_EMAIL")
	cfg.Auth.APIKey = os.Getenv("CLOUDFLARE_AUTH_KEY")

	if v := os.Getenv("VECTORIZE_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("VECTORIZE_HTTP_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Timeout = time.Duration(n) * time.Second
		}
	}
	if v := os.Getenv("VECTORIZE_RETRY_MAX_ATTEMPTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Retry.MaxAttempts = n
		}
	}
	return cfg
}

// WithBearerToken sets token authentication.
func (c *Config) WithBearerToken(token string) *Config {
	c.Auth.BearerToken = token
	return c
}

// WithEmailKey sets legacy email + global API key authentication.
func (c *Config) WithEmailKey(email, key string) *Config {
	c.Auth.Email = email
	c.Auth.APIKey = key
	return c
}

func (c *Config) WithBaseURL(url string) *Config {
	c.BaseURL = url
	return c
}

func (c *Config) WithTimeout(d time.Duration) *Config {
	c.Timeout = d
	return c
}

func (c *Config) WithMaxAttempts(n int) *Config {
	c.Retry.MaxAttempts = n
	return c
}

func (c *Config) WithRetry(r RetryConfig) *Config {
	c.Retry = r
	return c
}

func (c *Config) WithHTTPClient(hc *http.Client) *Config {
	c.HTTPClient = hc
	return c
}

// Validate reports missing account or credentials and out-of-range retry settings.
func (c *Config) Validate() error {
	if c.AccountID == "" {
		return ErrMissingAccountID
	}
	if c.Auth.BearerToken == "" && (c.Auth.Email == "" || c.Auth.APIKey == "") {
		return ErrMissingCredentials
	}
	if c.Retry.MaxAttempts < 0 {
		return fmt.Errorf("vectorize: retry max attempts must be >= 0, got %d", c.Retry.MaxAttempts)
	}
	if c.Retry.Jitter < 0 || c.Retry.Jitter > 1 {
		return fmt.Errorf("vectorize: retry jitter must be within [0, 1], got %v", c.Retry.Jitter)
	}
	return nil
}

// withDefaults fills zero-valued optional fields.
func (c Config) withDefaults() Config {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.Retry.MaxAttempts == 0 {
		c.Retry.MaxAttempts = DefaultMaxAttempts
	}
	if c.Retry.BaseDelay <= 0 {
		c.Retry.BaseDelay = DefaultBaseDelay
	}
	if c.Retry.MaxDelay <= 0 {
		c.Retry.MaxDelay = DefaultMaxDelay
	}
	if c.Retry.MaxDelay < c.Retry.BaseDelay {
		c.Retry.MaxDelay = c.Retry.BaseDelay
	}
	if c.Retry.RetryableStatuses == nil {
		c.Retry.RetryableStatuses = append([]int(nil), DefaultRetryableStatuses...)
	}
	return c
}
