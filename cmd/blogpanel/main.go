package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	"github.com/ericfisherdev/blogpanel/internal/adapter/driven/blogapi"
	memorystore "github.com/ericfisherdev/blogpanel/internal/adapter/driven/memory"
	redisstore "github.com/ericfisherdev/blogpanel/internal/adapter/driven/redis"
	sqliteadapter "github.com/ericfisherdev/blogpanel/internal/adapter/driven/sqlite"
	httphandler "github.com/ericfisherdev/blogpanel/internal/adapter/driving/http"
	webhandler "github.com/ericfisherdev/blogpanel/internal/adapter/driving/web"
	"github.com/ericfisherdev/blogpanel/internal/application"
	"github.com/ericfisherdev/blogpanel/internal/config"
	"github.com/ericfisherdev/blogpanel/internal/domain/port/driven"
	"github.com/ericfisherdev/blogpanel/internal/telemetry"
)

const (
	purgeInterval      = time.Hour
	tokenMaxAge        = 30 * 24 * time.Hour
	sweepInterval      = 5 * time.Minute
	sessionIdleTimeout = time.Hour
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration (fail fast on malformed env vars).
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := cfg.NewLogger()
	slog.SetDefault(logger)
	logger.Info("config loaded",
		"listen_addr", cfg.ListenAddr,
		"api_url", cfg.APIURL.String(),
		"media_url", cfg.MediaURL.String(),
		"store", cfg.Store,
	)

	// 2. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Tracing (no-op without an OTLP endpoint).
	shutdownTracing := telemetry.Setup(ctx, telemetry.Settings{
		ServiceName: "blogpanel",
		Endpoint:    cfg.OTLPEndpoint,
		Insecure:    cfg.OTLPInsecure,
	}, logger)
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			logger.Error("tracing shutdown error", "error", err)
		}
	}()

	// 4. Open the token store selected by BLOGPANEL_STORE.
	tokens, err := openTokenStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer tokens.close()

	if tokens.purger != nil {
		purgeSvc := application.NewPurgeService(tokens.purger, purgeInterval, tokenMaxAge, logger)
		go purgeSvc.Start(ctx)
	}

	// 5. Blog API client.
	api, err := blogapi.NewClient(cfg.APIURL.String(), cfg.APITimeout, logger)
	if err != nil {
		return err
	}

	// 6. Browser sessions.
	registry := application.NewSessionRegistry(api, tokens.store, logger)
	go registry.StartSweeper(ctx, sweepInterval, sessionIdleTimeout)

	// 7. Register JSON and GUI routes.
	mux := http.NewServeMux()
	apiHandler := httphandler.NewHandler(registry, cfg.APIURL.String(), logger)
	httphandler.RegisterAPIRoutes(mux, apiHandler)

	webHandler := webhandler.NewHandler(api, registry, cfg.MediaURL, cfg.SecureCookies, logger)
	webhandler.RegisterRoutes(mux, webHandler)

	// Apply middleware, then server spans around everything.
	handler := httphandler.ApplyMiddleware(mux, logger)
	handler = otelhttp.NewHandler(handler, "blogpanel")

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		logger.Info("http server starting", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	logger.Info("blogpanel started", "listen_addr", cfg.ListenAddr, "api_url", cfg.APIURL.String())

	// 8. Wait for shutdown signal.
	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete", "sessions", registry.Len())
	return nil
}

// tokenStore bundles the selected store with its cleanup. purger is nil for
// stores that expire entries on their own.
type tokenStore struct {
	store  driven.TokenStore
	purger driven.TokenPurger
	close  func()
}

func openTokenStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*tokenStore, error) {
	switch cfg.Store {
	case config.StoreRedis:
		client := goredis.NewClient(&goredis.Options{Addr: cfg.RedisAddr})
		store := redisstore.NewTokenStore(client, "blogpanel", cfg.RedisTTL)
		if err := store.Ping(ctx); err != nil {
			_ = client.Close()
			return nil, err
		}
		logger.Info("redis token store connected", "addr", cfg.RedisAddr, "ttl", cfg.RedisTTL)
		return &tokenStore{store: store, close: func() {
			if err := client.Close(); err != nil {
				logger.Error("error closing redis client", "error", err)
			}
		}}, nil

	case config.StoreSQLite:
		if !cfg.HasSecretKey() {
			logger.Warn("BLOGPANEL_SECRET_KEY not set, sessions will not survive a restart")
			return &tokenStore{store: memorystore.NewTokenStore(), close: func() {}}, nil
		}

		db, err := sqliteadapter.NewDB(cfg.DBPath)
		if err != nil {
			return nil, err
		}
		logger.Info("database opened", "path", cfg.DBPath)

		if err := sqliteadapter.RunMigrations(db.Writer, logger); err != nil {
			_ = db.Close()
			return nil, err
		}
		logger.Info("migrations complete")

		repo, err := sqliteadapter.NewTokenRepo(db, cfg.SecretKey)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("create token repo: %w", err)
		}
		return &tokenStore{store: repo, purger: repo, close: func() {
			if err := db.Close(); err != nil {
				logger.Error("error closing database", "error", err)
			}
		}}, nil

	default:
		logger.Info("using in-memory token store, sessions will not survive a restart")
		return &tokenStore{store: memorystore.NewTokenStore(), close: func() {}}, nil
	}
}
