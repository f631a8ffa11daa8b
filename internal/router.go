package internal

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/hardiksrivastavaa/IG-CRUD/internal/handler"
	ratelimiter "github.com/hardiksrivastavaa/IG-CRUD/internal/rate_limiter"
	"github.com/hardiksrivastavaa/IG-CRUD/internal/store"
)

// RouterOpts configures the optional parts of the router.
type RouterOpts struct {
	// TrustProxy rewrites RemoteAddr from X-Forwarded-For, X-Real-IP and
	// True-Client-IP. Clients control those headers unless a proxy in front
	// overwrites them.
	TrustProxy bool
	// StaticDir is served under /static/. Empty disables static assets.
	StaticDir string
	// Limiter throttles writes. Nil disables throttling.
	Limiter *ratelimiter.IPRateLimiter
}

// NewRouter binds the post routes to s.
func NewRouter(s *store.Store, opts RouterOpts) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	if opts.TrustProxy {
		r.Use(middleware.RealIP)
	}
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(MethodOverride)
	r.Use(middleware.GetHead)

	if opts.StaticDir != "" {
		fs := http.FileServer(http.Dir(opts.StaticDir))
		r.Handle("/static/*", http.StripPrefix("/static/", fs))
	}

	var writes chi.Middlewares
	if opts.Limiter != nil {
		writes = append(writes, opts.Limiter.Middleware)
	}

	r.Get("/", handler.ServeRoot())

	r.Get("/posts", handler.ListPosts(s))
	r.Get("/posts/new", handler.ServeNewPostForm())
	r.Get("/posts/{id}", handler.ShowPost(s))
	r.Get("/posts/{id}/edit", handler.ServeEditPostForm(s))

	r.With(writes...).Post("/posts", handler.SubmitNewPost(s))
	r.With(writes...).Patch("/posts/{id}", handler.SubmitPostUpdate(s))
	r.With(writes...).Delete("/posts/{id}", handler.SubmitPostDelete(s))

	return r
}
