package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	store := &MemoryStore{data: make(map[string]*entry)}
	reset := time.Now().Add(time.Minute)

	_, _, exists := store.Get("k")
	assert.False(t, exists)

	assert.Equal(t, 1, store.Increment("k", reset))
	assert.Equal(t, 2, store.Increment("k", reset))

	count, gotReset, exists := store.Get("k")
	assert.True(t, exists)
	assert.Equal(t, 2, count)
	assert.Equal(t, reset.Unix(), gotReset.Unix())

	store.Reset("k")
	_, _, exists = store.Get("k")
	assert.False(t, exists)
}

func TestMemoryStore_ExpiredWindowStartsFresh(t *testing.T) {
	store := &MemoryStore{data: make(map[string]*entry)}

	expired := time.Now().Add(-time.Second)
	store.Increment("k", expired)
	store.Increment("k", expired)

	_, _, exists := store.Get("k")
	assert.False(t, exists)

	assert.Equal(t, 1, store.Increment("k", time.Now().Add(time.Minute)))
}

func TestMiddleware_EnforcesLimit(t *testing.T) {
	e := echo.New()
	limited := Middleware(&Config{
		Store:  &MemoryStore{data: make(map[string]*entry)},
		Rate:   2,
		Period: time.Minute,
	})
	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	}, limited)

	call := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:12345"
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	rec := call()
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2", rec.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", rec.Header().Get("X-RateLimit-Remaining"))

	rec = call()
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))

	rec = call()
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
}

func TestMiddleware_SeparateClients(t *testing.T) {
	e := echo.New()
	limited := Middleware(&Config{
		Store:  &MemoryStore{data: make(map[string]*entry)},
		Rate:   1,
		Period: time.Minute,
	})
	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	}, limited)

	call := func(addr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusOK, call("10.0.0.1:1111").Code)
	assert.Equal(t, http.StatusTooManyRequests, call("10.0.0.1:1111").Code)
	assert.Equal(t, http.StatusOK, call("10.0.0.2:2222").Code)
}

func TestDefaultKeyGenerator(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:12345"
	c := e.NewContext(req, httptest.NewRecorder())

	assert.Equal(t, "rate_limit:10.0.0.1", DefaultKeyGenerator(c))
}
