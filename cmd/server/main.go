package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"github.com/go-chi/chi/v5"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/groupcal/internal/auth"
	"github.com/mmynk/groupcal/internal/config"
	"github.com/mmynk/groupcal/internal/events"
	"github.com/mmynk/groupcal/internal/friends"
	"github.com/mmynk/groupcal/internal/groups"
	"github.com/mmynk/groupcal/internal/metrics"
	"github.com/mmynk/groupcal/internal/middleware"
	"github.com/mmynk/groupcal/internal/service"
	"github.com/mmynk/groupcal/internal/storage/backend"
	"github.com/mmynk/groupcal/pkg/api/apiconnect"
	"github.com/mmynk/groupcal/pkg/logging"
)

func main() {
	cfg := config.Load()
	logging.Setup(cfg.LogLevel, cfg.LogFormat)

	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := backend.Open(runCtx, cfg)
	if err != nil {
		slog.Error("Failed to initialize storage", "backend", cfg.StoreBackend, "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "backend", cfg.StoreBackend)

	var publisher events.Publisher = events.NopPublisher{}
	var natsClient *events.Client
	if cfg.NATSURL != "" {
		natsClient, err = events.ConnectWithRetry(cfg.NATSURL, 20*time.Second)
		if err != nil {
			slog.Error("Failed to connect to NATS", "url", cfg.NATSURL, "error", err)
			os.Exit(1)
		}
		defer natsClient.Close()
		publisher = events.JetStreamPublisher{JS: natsClient.JS}
		slog.Info("Publishing events", "stream", events.StreamName)
	}

	policy, err := groups.ParseCollisionPolicy(cfg.GroupNameCollision)
	if err != nil {
		slog.Error("Invalid group name policy", "error", err)
		os.Exit(1)
	}

	m := metrics.New()
	groupSvc := groups.NewService(store,
		groups.WithCollisionPolicy(policy),
		groups.WithPublisher(publisher),
		groups.WithMetrics(m),
	)
	friendSvc := friends.NewService(store)

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, config.DefaultTokenDuration)
	interceptors := connect.WithInterceptors(
		middleware.MetricsInterceptor(m),
		middleware.RequireAuth(jwtManager),
		middleware.LoggingInterceptor(),
	)

	r := chi.NewRouter()
	r.Use(middleware.RequestLogger, middleware.CORS)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if err := ready(r.Context(), store, natsClient); err != nil {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", m.Handler())

	groupPath, groupHandler := apiconnect.NewGroupServiceHandler(service.NewGroupService(groupSvc), interceptors)
	r.Handle(groupPath+"*", groupHandler)

	friendPath, friendHandler := apiconnect.NewFriendServiceHandler(service.NewFriendService(friendSvc), interceptors)
	r.Handle(friendPath+"*", friendHandler)

	if cfg.StaticPath != "" {
		staticDir, err := filepath.Abs(cfg.StaticPath)
		if err != nil {
			slog.Error("Failed to resolve static path", "error", err)
			os.Exit(1)
		}
		slog.Info("Serving static files", "path", staticDir)
		r.NotFound(staticHandler(staticDir))
	}

	// h2c serves HTTP/2 without TLS, which Connect clients use for gRPC.
	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           h2c.NewHandler(r, &http2.Server{}),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		slog.Info("Connect server starting", "address", cfg.Addr, "policy", groupSvc.Policy())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			stop()
		}
	}()

	<-runCtx.Done()
	slog.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Graceful shutdown failed", "error", err)
	}
}

// staticHandler serves the web client, falling back to index.html for paths
// that are not files.
func staticHandler(staticDir string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/groupcal.v1.") {
			http.NotFound(w, r)
			return
		}

		urlPath := r.URL.Path
		if urlPath == "/" {
			urlPath = "/index.html"
		}

		filePath := filepath.Join(staticDir, filepath.Clean(urlPath))
		if _, err := os.Stat(filePath); os.IsNotExist(err) {
			http.ServeFile(w, r, filepath.Join(staticDir, "index.html"))
			return
		}

		http.ServeFile(w, r, filePath)
	}
}
