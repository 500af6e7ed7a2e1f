// Package notionapi is the outbound adapter for the Notion REST API. It
// owns transport concerns (auth headers, versioning, timeouts), the retry
// state machine, pagination, and the typed resource operations built on
// top of them.
package notionapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	// DefaultBaseURL is the production Notion API endpoint.
	DefaultBaseURL = "https://api.notion.com/v1"
	// DefaultVersion pins the API behavior this adapter is written against.
	DefaultVersion = "2022-06-28"

	defaultTimeout = 30 * time.Second
)

// Config carries the transport settings for a Client. Zero fields other
// than Token take defaults.
type Config struct {
	// Token is the integration secret sent as a Bearer credential.
	Token   string
	BaseURL string
	// Version is the Notion-Version header value.
	Version string
	// Timeout bounds each individual HTTP attempt, not the whole
	// retried operation. The caller's context bounds that.
	Timeout time.Duration
	Retry   RetryPolicy
}

// Client is a Notion API client safe for concurrent use.
type Client struct {
	http    *http.Client
	baseURL string
	version string
	token   string
	timeout time.Duration
	retry   RetryPolicy
	log     *slog.Logger
	tracer  trace.Tracer
}

// NewClient builds a Client. httpClient and logger may be nil, in which
// case http.DefaultClient and slog.Default() are used.
func NewClient(httpClient *http.Client, cfg Config, logger *slog.Logger) (*Client, error) {
	if cfg.Token == "" {
		return nil, &Error{Kind: KindAuth, Message: "missing API token"}
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = slog.Default()
	}
	base := cfg.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	base = strings.TrimRight(base, "/")
	version := cfg.Version
	if version == "" {
		version = DefaultVersion
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		http:    httpClient,
		baseURL: base,
		version: version,
		token:   cfg.Token,
		timeout: timeout,
		retry:   cfg.Retry.withDefaults(),
		log:     logger.With("component", "notionapi"),
		tracer:  otel.Tracer("notionapi"),
	}, nil
}

// send performs one logical API call: it serializes body once, then runs
// the attempt loop under the retry state machine. idempotent gates
// whether a failure observed after a response may be retried.
func (c *Client) send(ctx context.Context, method, path string, query url.Values, body any, idempotent bool) (json.RawMessage, error) {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, &Error{Kind: KindValidation, Message: fmt.Sprintf("encode request body: %v", err), Err: err}
		}
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	ctx, span := c.tracer.Start(ctx, "notion.request",
		trace.WithAttributes(
			attribute.String("http.method", method),
			attribute.String("notion.path", path),
		))
	defer span.End()

	bo := c.retry.newBackOff()
	var lastErr *Error
	for attempt := 1; ; attempt++ {
		result, apiErr := c.attempt(ctx, method, target, payload)
		switch decide(apiErr, attempt, c.retry.MaxAttempts, idempotent) {
		case stateSuccess:
			span.SetAttributes(attribute.Int("notion.attempts", attempt))
			return result, nil
		case statePermanentFailure:
			span.SetStatus(codes.Error, apiErr.Error())
			return nil, apiErr
		case stateExhausted:
			span.SetStatus(codes.Error, "retries exhausted")
			return nil, &Error{
				Kind:     KindRetryExhausted,
				Status:   apiErr.Status,
				Message:  fmt.Sprintf("gave up after %d attempts: %s", attempt, apiErr.Message),
				Attempts: attempt,
				Err:      apiErr,
			}
		case stateBackoff:
			lastErr = apiErr
			delay := nextDelay(bo, apiErr)
			c.log.Warn("retrying request",
				"method", method,
				"path", path,
				"attempt", attempt,
				"delay", delay,
				"kind", apiErr.Kind,
				"status", apiErr.Status)
			if err := sleep(ctx, delay); err != nil {
				return nil, &Error{
					Kind:     KindTimeout,
					Message:  "canceled while waiting to retry",
					Attempts: attempt,
					Err:      lastErr,
				}
			}
		}
	}
}

// attempt performs a single HTTP round trip under the per-attempt timeout.
func (c *Client) attempt(ctx context.Context, method, target string, payload []byte) (json.RawMessage, *Error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, &Error{Kind: KindClient, Message: fmt.Sprintf("build request: %v", err), Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Notion-Version", c.version)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errorFromTransport(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errorFromTransport(err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errorFromResponse(resp.StatusCode, data, resp.Header)
	}
	return data, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values) (json.RawMessage, error) {
	return c.send(ctx, http.MethodGet, path, query, nil, true)
}

func (c *Client) post(ctx context.Context, path string, body any, idempotent bool) (json.RawMessage, error) {
	return c.send(ctx, http.MethodPost, path, nil, body, idempotent)
}

func (c *Client) patch(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return c.send(ctx, http.MethodPatch, path, nil, body, true)
}

func (c *Client) delete(ctx context.Context, path string) (json.RawMessage, error) {
	return c.send(ctx, http.MethodDelete, path, nil, nil, true)
}
