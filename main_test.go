package main

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hardiksrivastavaa/IG-CRUD/internal"
	"github.com/hardiksrivastavaa/IG-CRUD/internal/config"
	"github.com/hardiksrivastavaa/IG-CRUD/internal/store"
)

func TestDefaultConfigNeverThrottlesWrites(t *testing.T) {
	cfg := config.Default()
	limiter := newLimiter(cfg.RateLimit)
	require.Nil(t, limiter)

	s := store.Seeded()
	h := internal.NewRouter(s, internal.RouterOpts{Limiter: limiter})
	form := url.Values{"username": {"alice"}, "content": {"hello"}}

	codes := make(map[int]int)
	for range 40 {
		req := httptest.NewRequest(http.MethodPost, "/posts", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes[rec.Code]++
	}

	assert.Equal(t, map[int]int{http.StatusFound: 40}, codes)
	assert.Equal(t, 42, s.Len())
}

func TestNewLimiterWhenEnabled(t *testing.T) {
	limiter := newLimiter(config.RateLimit{Requests: 5, Window: time.Minute})
	require.NotNil(t, limiter)
	limiter.Stop()
}
