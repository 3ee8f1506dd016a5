package vectorize

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	contentTypeJSON   = "application/json"
	contentTypeNDJSON = "application/x-ndjson"

	maxResponseBytes  = 64 << 20
	maxErrorBodyBytes = 1024
)

// call describes one logical remote operation.
type call struct {
	operation   string
	method      string
	path        string
	query       url.Values
	body        []byte
	contentType string
	idempotent  bool

	// index and namespace are only used for spans and observers.
	index     string
	namespace string
}

func jsonCall(operation, method, path string, payload any) (call, error) {
	c := call{operation: operation, method: method, path: path}
	if payload != nil {
		body, err := json.Marshal(payload)
		if err != nil {
			return c, fmt.Errorf("vectorize: encode %s request: %w", operation, err)
		}
		c.body = body
		c.contentType = contentTypeJSON
	}
	return c, nil
}

// do runs the call with retries and decodes the envelope result into out
// (which may be nil).
func (c *Client) do(ctx context.Context, req call, out any) error {
	ctx, span := c.tracer.Start(ctx, "vectorize."+req.operation,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("vectorize.operation", req.operation),
			attribute.String("vectorize.index", req.index),
			attribute.String("http.method", req.method),
		))
	defer span.End()

	start := time.Now()

	maxTries := 1
	if req.idempotent {
		maxTries = c.cfg.Retry.MaxAttempts
	}

	attempts := 0
	var lastErr error
	operation := func() (struct{}, error) {
		attempts++
		err := c.attempt(ctx, req, out)
		if err == nil {
			return struct{}{}, nil
		}
		lastErr = err
		if !c.shouldRetry(ctx, err) {
			return struct{}{}, backoff.Permanent(err)
		}
		if apiErr, ok := AsAPIError(err); ok && apiErr.RetryAfter > 0 && attempts < maxTries {
			return struct{}{}, backoff.RetryAfter(c.capRetryAfter(apiErr.RetryAfter))
		}
		return struct{}{}, err
	}

	_, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(c.newBackOff()),
		backoff.WithMaxTries(uint(maxTries)),
		backoff.WithMaxElapsedTime(0),
		backoff.WithNotify(func(_ error, next time.Duration) {
			if c.logger != nil {
				c.logger.DebugWithContext(ctx, "retrying vectorize request", lastErr, map[string]interface{}{
					"operation": req.operation,
					"index":     req.index,
					"attempt":   attempts,
					"delay":     next.String(),
				})
			}
		}),
	)
	err = unwrapRetryError(err, lastErr)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if attempts > 1 && c.logger != nil {
			c.logger.WarnWithContext(ctx, "vectorize request failed after retries", err, map[string]interface{}{
				"operation": req.operation,
				"index":     req.index,
				"attempts":  attempts,
			})
		}
	}
	span.SetAttributes(attribute.Int("vectorize.attempts", attempts))

	c.observeOperation(req.operation, req.index, req.namespace, time.Since(start), err, int64(len(req.body)), map[string]interface{}{
		"attempts": attempts,
		"retries":  attempts - 1,
	})
	return err
}

// unwrapRetryError strips backoff wrappers so callers see the original kind.
func unwrapRetryError(err, lastErr error) error {
	if err == nil {
		return nil
	}
	var perm *backoff.PermanentError
	if errors.As(err, &perm) {
		return perm.Err
	}
	var after *backoff.RetryAfterError
	if errors.As(err, &after) && lastErr != nil {
		return lastErr
	}
	return err
}

func (c *Client) newBackOff() *backoff.ExponentialBackOff {
	b := &backoff.ExponentialBackOff{
		InitialInterval:     c.cfg.Retry.BaseDelay,
		RandomizationFactor: c.cfg.Retry.Jitter,
		Multiplier:          2,
		MaxInterval:         c.cfg.Retry.MaxDelay,
	}
	b.Reset()
	return b
}

func (c *Client) capRetryAfter(seconds int) int {
	limit := int(c.cfg.Retry.MaxDelay / time.Second)
	if limit < 1 {
		limit = 1
	}
	if seconds > limit {
		return limit
	}
	return seconds
}

// shouldRetry reports whether err is worth another attempt. Caller
// cancellation and client-side errors are never retried.
func (c *Client) shouldRetry(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	if apiErr, ok := AsAPIError(err); ok {
		_, retry := c.retryable[apiErr.StatusCode]
		return retry
	}
	return IsTransportError(err)
}

// attempt performs a single HTTP round trip.
func (c *Client) attempt(ctx context.Context, req call, out any) error {
	target := c.baseURL + req.path
	if len(req.query) > 0 {
		target += "?" + req.query.Encode()
	}

	var body io.Reader
	if req.body != nil {
		body = bytes.NewReader(req.body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.method, target, body)
	if err != nil {
		return fmt.Errorf("vectorize: build %s request: %w", req.operation, err)
	}
	c.setHeaders(httpReq, req.contentType)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return &TransportError{Operation: req.operation, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return &TransportError{Operation: req.operation, Err: fmt.Errorf("read response: %w", err)}
	}
	return decodeResponse(req.operation, resp, data, out)
}

func (c *Client) setHeaders(req *http.Request, contentType string) {
	if c.cfg.Auth.BearerToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.Auth.BearerToken)
	} else {
		req.Header.Set("X-Auth-Email", c.cfg.Auth.Email)
		req.Header.Set("X-Auth-Key", c.cfg.Auth.APIKey)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", contentTypeJSON)
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}
}

// decodeResponse maps a response to out or to an *APIError.
func decodeResponse(operation string, resp *http.Response, data []byte, out any) error {
	var env envelope
	decodeErr := json.Unmarshal(data, &env)
	if len(bytes.TrimSpace(data)) == 0 {
		decodeErr = nil
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{
			StatusCode: resp.StatusCode,
			Operation:  operation,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
		}
		if decodeErr == nil {
			apiErr.Errors = env.Errors
		}
		if len(apiErr.Errors) == 0 && len(data) > 0 {
			apiErr.Body = truncate(string(data), maxErrorBodyBytes)
		}
		return apiErr
	}

	if decodeErr != nil {
		return &APIError{
			StatusCode: resp.StatusCode,
			Operation:  operation,
			Body:       truncate(string(data), maxErrorBodyBytes),
			Errors:     []ResponseError{{Message: "malformed response envelope: " + decodeErr.Error()}},
		}
	}
	if env.Success != nil && !*env.Success {
		return &APIError{StatusCode: resp.StatusCode, Operation: operation, Errors: env.Errors}
	}

	if out == nil || len(env.Result) == 0 || string(env.Result) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Result, out); err != nil {
		return &APIError{
			StatusCode: resp.StatusCode,
			Operation:  operation,
			Body:       truncate(string(env.Result), maxErrorBodyBytes),
			Errors:     []ResponseError{{Message: "unexpected result shape: " + err.Error()}},
		}
	}
	return nil
}

func parseRetryAfter(v string) int {
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
