package notionapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/nonsignal007/notion-mcp/internal/domain"
)

// ErrorKind is the stable classification tag carried by every error the
// client surfaces. Kinds are part of the tool-facing contract.
type ErrorKind string

const (
	KindValidation     ErrorKind = "validation"
	KindAuth           ErrorKind = "auth"
	KindPermission     ErrorKind = "permission"
	KindRateLimited    ErrorKind = "rate_limited"
	KindServer         ErrorKind = "server"
	KindClient         ErrorKind = "client"
	KindNetwork        ErrorKind = "network"
	KindTimeout        ErrorKind = "timeout"
	KindRetryExhausted ErrorKind = "retry_exhausted"
)

// Transient reports whether the kind is expected to be retry-resolvable.
func (k ErrorKind) Transient() bool {
	switch k {
	case KindRateLimited, KindServer, KindNetwork, KindTimeout:
		return true
	}
	return false
}

// Error is a classified API failure. Status and Code are populated when
// the failure came from an HTTP response; RetryAfter when the server
// supplied a rate-limit hint.
type Error struct {
	Kind       ErrorKind
	Status     int
	Code       string
	Message    string
	RetryAfter time.Duration
	Attempts   int
	Err        error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Status != 0 {
		return fmt.Sprintf("notion: %s (HTTP %d): %s", e.Kind, e.Status, msg)
	}
	return fmt.Sprintf("notion: %s: %s", e.Kind, msg)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf extracts the classification tag from any error returned by this
// package. Validation failures raised in the domain layer map to
// KindValidation; anything unrecognized maps to KindClient.
func KindOf(err error) ErrorKind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	var vErr *domain.ValidationError
	if errors.As(err, &vErr) {
		return KindValidation
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	return KindClient
}

// errorBody is Notion's error response shape.
type errorBody struct {
	Object  string `json:"object"`
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// classifyStatus maps a non-2xx status to a kind. The remote API answers
// 404 for both "not found" and "no permission", so a single permission
// kind preserves that conflation instead of inventing a distinction the
// API cannot support.
func classifyStatus(status int) ErrorKind {
	switch {
	case status == http.StatusUnauthorized:
		return KindAuth
	case status == http.StatusForbidden, status == http.StatusNotFound:
		return KindPermission
	case status == http.StatusTooManyRequests:
		return KindRateLimited
	case status == http.StatusBadRequest:
		return KindValidation
	case status >= 500:
		return KindServer
	default:
		return KindClient
	}
}

func errorFromResponse(status int, body []byte, header http.Header) *Error {
	e := &Error{Kind: classifyStatus(status), Status: status}
	var parsed errorBody
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Object == "error" {
		e.Code = parsed.Code
		e.Message = parsed.Message
	} else {
		e.Message = string(body)
	}
	if e.Kind == KindRateLimited {
		e.RetryAfter = parseRetryAfter(header.Get("Retry-After"))
	}
	return e
}

func errorFromTransport(err error) *Error {
	kind := KindNetwork
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		kind = KindTimeout
	}
	return &Error{Kind: kind, Message: err.Error(), Err: err}
}

// parseRetryAfter handles both delta-seconds and HTTP-date forms.
// Unparseable values yield zero, which the backoff schedule ignores.
func parseRetryAfter(v string) time.Duration {
	if v == "" {
		return 0
	}
	if secs, err := strconv.ParseFloat(v, 64); err == nil && secs >= 0 {
		return time.Duration(secs * float64(time.Second))
	}
	if t, err := http.ParseTime(v); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}
