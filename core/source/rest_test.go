package source

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, url string) *Client {
	t.Helper()
	return New(Config{
		BaseURL:                   url,
		Token:                     "secret-token",
		System:                    "helpdesk",
		TimeoutSeconds:            5,
		RetryAfterFallbackSeconds: 1,
		PageSize:                  100,
	}, zap.NewNop())
}

func TestGetJSON_RateLimitedThenSuccess(t *testing.T) {
	var requests int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt64(&requests, 1) == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		fmt.Fprint(w, `{"user": {"id": "1"}}`)
	}))
	defer srv.Close()

	body, err := newTestClient(t, srv.URL).getJSON(context.Background(), "/api/v1/users/1", nil)
	assert.NoError(t, err)
	assert.NotNil(t, body)
	// The identical request was retried exactly once.
	assert.Equal(t, int64(2), atomic.LoadInt64(&requests))
}

func TestGetJSON_RateLimitRetriedOnlyOnce(t *testing.T) {
	var requests int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&requests, 1)
		w.Header().Set("Retry-After", "0")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv.URL).getJSON(context.Background(), "/api/v1/users", nil)
	assert.Error(t, err)
	assert.Equal(t, int64(2), atomic.LoadInt64(&requests))
}

func TestGetJSON_ServerErrorSharesTheSingleRetry(t *testing.T) {
	var requests int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt64(&requests, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		fmt.Fprint(w, `{"ok": true}`)
	}))
	defer srv.Close()

	body, err := newTestClient(t, srv.URL).getJSON(context.Background(), "/api/v1/users", nil)
	assert.NoError(t, err)
	assert.Equal(t, true, body["ok"])
}

func TestGetJSON_ClientErrorIsPermanent(t *testing.T) {
	var requests int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&requests, 1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv.URL).getJSON(context.Background(), "/api/v1/users", nil)
	assert.Error(t, err)
	// No retry for a definitive answer.
	assert.Equal(t, int64(1), atomic.LoadInt64(&requests))
}

func TestGetJSON_NotFoundMeansNoData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	body, err := newTestClient(t, srv.URL).getJSON(context.Background(), "/api/v1/users/999", nil)
	assert.NoError(t, err)
	assert.Nil(t, body)
}

func TestGetJSON_SendsAuthHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret-token", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		fmt.Fprint(w, `{}`)
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv.URL).getJSON(context.Background(), "/api/v1/users", nil)
	assert.NoError(t, err)
}

func TestResetDelay(t *testing.T) {
	client := newTestClient(t, "http://unused")

	t.Run("Retry-After seconds", func(t *testing.T) {
		resp := &http.Response{Header: http.Header{"Retry-After": []string{"42"}}}
		assert.Equal(t, 42*time.Second, client.resetDelay(resp))
	})

	t.Run("X-RateLimit-Reset epoch", func(t *testing.T) {
		epoch := time.Now().Add(30 * time.Second).Unix()
		resp := &http.Response{Header: http.Header{"X-Ratelimit-Reset": []string{fmt.Sprintf("%d", epoch)}}}
		delay := client.resetDelay(resp)
		assert.Greater(t, delay, 25*time.Second)
		assert.LessOrEqual(t, delay, 30*time.Second)
	})

	t.Run("Fallback when headers unusable", func(t *testing.T) {
		resp := &http.Response{Header: http.Header{"Retry-After": []string{"soon"}}}
		assert.Equal(t, time.Second, client.resetDelay(resp))
	})

	t.Run("Fallback when headers absent", func(t *testing.T) {
		resp := &http.Response{Header: http.Header{}}
		assert.Equal(t, time.Second, client.resetDelay(resp))
	})
}
