package crawler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"sjsage522/lotwatcher/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollySource(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(listingPage))
	}))
	defer server.Close()

	source := NewCollySource(server.URL, "boombox", nil, time.Minute, 5*time.Second)
	assert.Equal(t, "CollySource", source.GetName())

	// Same URL twice must not be skipped as already visited
	for i := 0; i < 2; i++ {
		page, err := source.FetchPage(context.Background())
		require.NoError(t, err)
		assert.Contains(t, string(page), `"tsExpires":"2022-06-01T10:00:00+0200"`)
	}
}

func TestCollySourceErrors(t *testing.T) {
	var status atomic.Int32
	status.Store(http.StatusInternalServerError)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(int(status.Load()))
	}))
	defer server.Close()

	mockCache := NewMockCacheService()
	source := NewCollySource(server.URL, "boombox", mockCache, time.Minute, 5*time.Second)

	_, err := source.FetchPage(context.Background())
	assert.True(t, errors.IsType(err, errors.ErrorTypeFetch))

	status.Store(http.StatusTooManyRequests)
	_, err = source.FetchPage(context.Background())
	assert.True(t, errors.IsType(err, errors.ErrorTypeRateLimit))
	assert.Contains(t, mockCache.cache, "boombox_rate_limited")
}
