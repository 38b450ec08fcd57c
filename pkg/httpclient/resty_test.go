package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ekant1999/StrategyEvolve/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRestyClient_Get(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/query", r.URL.Path)
		assert.Equal(t, "SPY", r.URL.Query().Get("symbol"))
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"answer":"ok"}`))
	}))
	defer srv.Close()

	client := New(logger.NewNop(), srv.URL, time.Second, WithBearerToken("secret"))

	var out struct {
		Answer string `json:"answer"`
	}
	resp, err := client.Get(context.Background(), "/query", map[string]string{"symbol": "SPY"}, nil, &out)
	require.NoError(t, err)
	assert.True(t, resp.IsSuccess())
	assert.Equal(t, "ok", out.Answer)
}

func TestRestyClient_PostNonSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := New(logger.NewNop(), srv.URL, time.Second)
	resp, err := client.Post(context.Background(), "/search", map[string]string{"q": "x"}, nil, nil)

	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRestyClient_Retry(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := New(logger.NewNop(), srv.URL, time.Second, WithRetry(3, time.Millisecond))
	_, err := client.Get(context.Background(), "/", nil, nil, nil)

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}
