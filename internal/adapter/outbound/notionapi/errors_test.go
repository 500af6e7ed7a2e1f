package notionapi

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/nonsignal007/notion-mcp/internal/domain"
)

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		status int
		want   ErrorKind
	}{
		{400, KindValidation},
		{401, KindAuth},
		{403, KindPermission},
		{404, KindPermission},
		{409, KindClient},
		{429, KindRateLimited},
		{500, KindServer},
		{502, KindServer},
		{503, KindServer},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, classifyStatus(tt.status), "status %d", tt.status)
	}
}

func TestErrorFromResponseParsesBody(t *testing.T) {
	body := []byte(`{"object":"error","status":429,"code":"rate_limited","message":"slow down"}`)
	h := http.Header{}
	h.Set("Retry-After", "7")

	e := errorFromResponse(429, body, h)
	assert.Equal(t, KindRateLimited, e.Kind)
	assert.Equal(t, "rate_limited", e.Code)
	assert.Equal(t, "slow down", e.Message)
	assert.Equal(t, 7*time.Second, e.RetryAfter)
}

func TestErrorFromResponseNonJSONBody(t *testing.T) {
	e := errorFromResponse(502, []byte("Bad Gateway"), http.Header{})
	assert.Equal(t, KindServer, e.Kind)
	assert.NotEmpty(t, e.Message)
}

func TestParseRetryAfter(t *testing.T) {
	assert.Equal(t, 3*time.Second, parseRetryAfter("3"))
	assert.Equal(t, time.Duration(0), parseRetryAfter(""))
	assert.Equal(t, time.Duration(0), parseRetryAfter("soon"))

	date := time.Now().Add(30 * time.Second).UTC().Format(http.TimeFormat)
	got := parseRetryAfter(date)
	assert.Greater(t, got, 20*time.Second)
	assert.LessOrEqual(t, got, 30*time.Second)
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindPermission, KindOf(&Error{Kind: KindPermission}))
	assert.Equal(t, KindValidation, KindOf(&domain.ValidationError{Field: "x", Reason: "y"}))
	assert.Equal(t, KindTimeout, KindOf(context.DeadlineExceeded))
	assert.Equal(t, KindClient, KindOf(errors.New("mystery")))
}

func TestTransientKinds(t *testing.T) {
	transient := []ErrorKind{KindRateLimited, KindServer, KindNetwork, KindTimeout}
	for _, k := range transient {
		assert.True(t, k.Transient(), string(k))
	}
	permanent := []ErrorKind{KindValidation, KindAuth, KindPermission, KindClient, KindRetryExhausted}
	for _, k := range permanent {
		assert.False(t, k.Transient(), string(k))
	}
}
