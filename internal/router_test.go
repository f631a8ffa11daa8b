package internal

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ratelimiter "github.com/hardiksrivastavaa/IG-CRUD/internal/rate_limiter"
	"github.com/hardiksrivastavaa/IG-CRUD/internal/store"
)

func do(t *testing.T, h http.Handler, method, target string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	return doWithHeader(t, h, method, target, form, nil)
}

func doWithHeader(t *testing.T, h http.Handler, method, target string, form url.Values, header http.Header) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for k, v := range header {
		req.Header[k] = v
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func assertRedirectToPosts(t *testing.T, rec *httptest.ResponseRecorder) {
	t.Helper()
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/posts", rec.Header().Get("Location"))
}

func assertPostNotFound(t *testing.T, rec *httptest.ResponseRecorder) {
	t.Helper()
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Post not found", rec.Body.String())
	assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
}

func TestRootRedirects(t *testing.T) {
	h := NewRouter(store.Seeded(), RouterOpts{})

	assertRedirectToPosts(t, do(t, h, http.MethodGet, "/", nil))
}

func TestListSeedPosts(t *testing.T) {
	h := NewRouter(store.Seeded(), RouterOpts{})

	rec := do(t, h, http.MethodGet, "/posts", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	body := rec.Body.String()
	first := strings.Index(body, "hardikksrivastava")
	second := strings.Index(body, "shraddhakhapra")
	assert.True(t, first >= 0 && second > first, "seed posts missing or out of order")
	assert.Equal(t, 2, strings.Count(body, `<li class="post">`))
}

func TestNewPostForm(t *testing.T) {
	h := NewRouter(store.Seeded(), RouterOpts{})

	rec := do(t, h, http.MethodGet, "/posts/new", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `name="username"`)
}

func TestUnknownIDReturns404(t *testing.T) {
	tests := []struct {
		Name   string
		method string
		target string
		form   url.Values
	}{
		{"show", http.MethodGet, "/posts/nope", nil},
		{"edit_form", http.MethodGet, "/posts/nope/edit", nil},
		{"patch", http.MethodPatch, "/posts/nope", url.Values{"content": {"hi"}}},
		{"patch_override", http.MethodPost, "/posts/nope?_method=PATCH", url.Values{"content": {"hi"}}},
	}

	for _, tt := range tests {
		t.Run(tt.Name, func(t *testing.T) {
			s := store.Seeded()
			before := s.List()
			h := NewRouter(s, RouterOpts{})

			assertPostNotFound(t, do(t, h, tt.method, tt.target, tt.form))
			assert.Equal(t, before, s.List())
		})
	}
}

func TestDeleteUnknownIDRedirects(t *testing.T) {
	s := store.Seeded()
	h := NewRouter(s, RouterOpts{})

	assertRedirectToPosts(t, do(t, h, http.MethodDelete, "/posts/nope", nil))
	assert.Equal(t, 2, s.Len())
}

func TestEndToEnd(t *testing.T) {
	s := store.Seeded()
	h := NewRouter(s, RouterOpts{})

	rec := do(t, h, http.MethodPost, "/posts", url.Values{"username": {"alice"}, "content": {"hello"}})
	assertRedirectToPosts(t, rec)

	rec = do(t, h, http.MethodGet, "/posts", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "@alice")
	assert.Contains(t, rec.Body.String(), "<p>hello</p>")

	posts := s.List()
	require.Len(t, posts, 3)
	id := posts[2].ID
	assert.Equal(t, "alice", posts[2].Username)

	rec = do(t, h, http.MethodGet, "/posts/"+id+"/edit", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `<textarea name="content">hello</textarea>`)

	rec = do(t, h, http.MethodPost, "/posts/"+id, url.Values{"_method": {"PATCH"}, "content": {"hi"}})
	assertRedirectToPosts(t, rec)

	rec = do(t, h, http.MethodGet, "/posts/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<p>hi</p>")
	assert.Contains(t, rec.Body.String(), "@alice")

	rec = do(t, h, http.MethodPost, "/posts/"+id+"?_method=DELETE", url.Values{})
	assertRedirectToPosts(t, rec)

	assertPostNotFound(t, do(t, h, http.MethodGet, "/posts/"+id, nil))
	assert.Equal(t, 2, s.Len())
}

func TestHeadOnGetRoutes(t *testing.T) {
	h := NewRouter(store.Seeded(), RouterOpts{})

	rec := do(t, h, http.MethodHead, "/posts", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestStaticAssets(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "style.css"), []byte("body{}"), 0o600))

	h := NewRouter(store.Seeded(), RouterOpts{StaticDir: dir})

	rec := do(t, h, http.MethodGet, "/static/style.css", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "body{}", rec.Body.String())
}

func TestWritesAreRateLimited(t *testing.T) {
	s := store.Seeded()
	h := NewRouter(s, RouterOpts{Limiter: newWriteLimiter(t, 1)})
	form := url.Values{"username": {"alice"}, "content": {"hello"}}

	assertRedirectToPosts(t, do(t, h, http.MethodPost, "/posts", form))
	assert.Equal(t, http.StatusTooManyRequests, do(t, h, http.MethodPost, "/posts", form).Code)
	assert.Equal(t, 3, s.Len())

	// Reads are never throttled.
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/posts", nil).Code)
}

func newWriteLimiter(t *testing.T, requests int) *ratelimiter.IPRateLimiter {
	t.Helper()
	rl := ratelimiter.NewIPRateLimiter(requests, time.Hour, ratelimiter.CleanupOpts{
		TTL:      time.Hour,
		Interval: time.Hour,
	})
	t.Cleanup(rl.Stop)
	return rl
}

func TestSpoofedForwardedForIsNotANewClient(t *testing.T) {
	s := store.Seeded()
	h := NewRouter(s, RouterOpts{Limiter: newWriteLimiter(t, 1)})
	form := url.Values{"username": {"mallory"}, "content": {"spam"}}

	codes := make(map[int]int)
	for i := range 10 {
		header := http.Header{}
		header.Set("X-Forwarded-For", fmt.Sprintf("10.0.0.%d", i))
		header.Set("X-Real-IP", fmt.Sprintf("10.0.1.%d", i))
		codes[doWithHeader(t, h, http.MethodPost, "/posts", form, header).Code]++
	}

	assert.Equal(t, map[int]int{http.StatusFound: 1, http.StatusTooManyRequests: 9}, codes)
	assert.Equal(t, 3, s.Len())
}

func TestTrustProxyKeysOnForwardedClient(t *testing.T) {
	s := store.Seeded()
	h := NewRouter(s, RouterOpts{TrustProxy: true, Limiter: newWriteLimiter(t, 1)})
	form := url.Values{"username": {"alice"}, "content": {"hello"}}

	for _, ip := range []string{"203.0.113.1", "203.0.113.2"} {
		header := http.Header{}
		header.Set("X-Real-IP", ip)
		assertRedirectToPosts(t, doWithHeader(t, h, http.MethodPost, "/posts", form, header))
	}
	assert.Equal(t, 4, s.Len())
}

func TestMalformedFormIsRejected(t *testing.T) {
	tests := []struct {
		Name   string
		target func(id string) string
	}{
		{"create", func(string) string { return "/posts" }},
		{"update_override", func(id string) string { return "/posts/" + id + "?_method=PATCH" }},
	}

	for _, tt := range tests {
		t.Run(tt.Name, func(t *testing.T) {
			s := store.Seeded()
			before := s.List()
			h := NewRouter(s, RouterOpts{})

			req := httptest.NewRequest(http.MethodPost, tt.target(before[0].ID), strings.NewReader("content=%zz"))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, before, s.List())
		})
	}
}
