// Package main our entry point.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/hardiksrivastavaa/IG-CRUD/internal"
	"github.com/hardiksrivastavaa/IG-CRUD/internal/config"
	ratelimiter "github.com/hardiksrivastavaa/IG-CRUD/internal/rate_limiter"
	"github.com/hardiksrivastavaa/IG-CRUD/internal/store"
)

func main() {
	configPath := flag.String("config", "config.toml", "configuration file")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Printf("failed to load .env file: %+v", err)
	}

	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.SetOutput(os.Stdout)

	cfg, err := config.Load(*configPath)
	if errors.Is(err, config.ErrMissingPort) {
		log.Fatal("PORT environment variable is not set")
	}
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Println("Starting application...")

	posts := store.Seeded()

	opts := internal.RouterOpts{
		TrustProxy: cfg.TrustProxy,
		StaticDir:  cfg.StaticDir,
	}
	opts.Limiter = newLimiter(cfg.RateLimit)
	if opts.Limiter != nil {
		defer opts.Limiter.Stop()
	}

	server := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Port,
		Handler:           internal.NewRouter(posts, opts),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       30 * time.Second,
	}

	go func() {
		log.Printf("Listening on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Printf("Shutdown signal received; shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Println(err)
	}

	log.Println("Server stopped")
}

// newLimiter returns nil when write limiting is off.
func newLimiter(rl config.RateLimit) *ratelimiter.IPRateLimiter {
	if rl.Requests <= 0 {
		return nil
	}

	return ratelimiter.NewIPRateLimiter(rl.Requests, rl.Window, ratelimiter.CleanupOpts{
		TTL:      10 * time.Minute,
		Interval: time.Minute,
	})
}
