package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/splitzytip/internal/auth"
	"github.com/mmynk/splitzytip/internal/config"
	"github.com/mmynk/splitzytip/internal/mail"
	"github.com/mmynk/splitzytip/internal/middleware"
	"github.com/mmynk/splitzytip/internal/service"
	"github.com/mmynk/splitzytip/internal/storage/sqlite"
	"github.com/mmynk/splitzytip/pkg/api/apiconnect"
	"github.com/mmynk/splitzytip/pkg/logging"
)

func main() {
	logger := logging.Setup()

	if err := run(logger); err != nil {
		logger.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize SQLite storage
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()
	logger.Info("Storage initialized", "database", cfg.DBPath)

	var redisClient *redis.Client
	var revoker auth.Revoker = auth.NewMemoryRevoker()
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return err
		}
		redisClient = redis.NewClient(opts)
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			return err
		}
		revoker = auth.NewRedisRevoker(redisClient, "")
		logger.Info("Redis connected", "addr", opts.Addr)
	} else {
		logger.Warn("REDIS_URL not set, sign-outs and rate limits are per process")
	}

	var google *auth.GoogleVerifier
	if cfg.GoogleClientID != "" {
		google, err = auth.NewCachedGoogleVerifier(ctx, cfg.GoogleClientID, cfg.GoogleJWKSURL)
		if err != nil {
			return err
		}
		logger.Info("Google sign-in enabled")
	}

	limiter, err := middleware.NewRateLimiter(cfg.RateLimit, redisClient)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := middleware.NewMetrics(registry)

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.SessionTTL)

	authSvc := service.NewAuthService(service.AuthServiceOptions{
		Authenticator:  auth.NewPasswordAuthenticator(store, cfg.BcryptCost),
		JWTManager:     jwtManager,
		Revoker:        revoker,
		Google:         google,
		Store:          store,
		Mailer:         mail.LogSender{Logger: logger},
		PublicURL:      cfg.PublicURL,
		VerifyTokenTTL: cfg.VerifyTokenTTL,
		ResetTokenTTL:  cfg.ResetTokenTTL,
		Logger:         logger,
	})

	interceptors := connect.WithInterceptors(
		metrics.Interceptor(),
		middleware.LoggingInterceptor(logger),
		middleware.RateLimit(limiter, apiconnect.PublicProcedures),
		middleware.RequireAuth(jwtManager, revoker, store, apiconnect.PublicProcedures),
	)

	mux := http.NewServeMux()

	// Register Connect services
	mux.Handle(apiconnect.NewTipServiceHandler(service.NewTipService(metrics, logger), interceptors))
	mux.Handle(apiconnect.NewAuthServiceHandler(authSvc, interceptors))
	mux.Handle(apiconnect.NewProfileServiceHandler(service.NewProfileService(store, revoker, logger), interceptors))

	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := store.Ping(r.Context()); err != nil {
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	staticDir, err := filepath.Abs(cfg.StaticPath)
	if err != nil {
		return err
	}
	logger.Info("Serving static files", "path", staticDir)
	mux.Handle("/", staticHandler(staticDir))

	// Add logging and CORS middleware, then h2c for HTTP/2 without TLS
	handler := middleware.RequestLogger(logger, middleware.CORS(cfg.CORSAllowedOrigins, mux))
	server := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           h2c.NewHandler(handler, &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Connect server starting", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// staticHandler serves the frontend. Unknown paths get index.html so
// client-side routes such as /verify-email?token=... load the app.
func staticHandler(dir string) http.Handler {
	files := http.FileServer(http.Dir(dir))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if apiconnect.IsAPIPath(r.URL.Path) {
			http.NotFound(w, r)
			return
		}

		path := filepath.Join(dir, filepath.Clean("/"+r.URL.Path))
		if info, err := os.Stat(path); err != nil || info.IsDir() && r.URL.Path != "/" {
			http.ServeFile(w, r, filepath.Join(dir, "index.html"))
			return
		}
		files.ServeHTTP(w, r)
	})
}
