package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/aroxa-cropscience/aroxa/internal/app"
	"github.com/aroxa-cropscience/aroxa/internal/auth"
	"github.com/aroxa-cropscience/aroxa/internal/fields"
	"github.com/aroxa-cropscience/aroxa/internal/inquiries"
	"github.com/aroxa-cropscience/aroxa/internal/platform/cache"
	"github.com/aroxa-cropscience/aroxa/internal/platform/db"
	"github.com/aroxa-cropscience/aroxa/internal/products"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	pinHash, err := cfg.PINHash()
	if err != nil {
		logger.Error("prepare admin pin", slog.Any("error", err))
		os.Exit(1)
	}

	var limiter *auth.Limiter
	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis unavailable, login throttling disabled", slog.Any("error", err))
	} else {
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Warn("redis close", slog.Any("error", err))
			}
		}()
		limiter = auth.NewLimiter(redisClient, cfg.LoginMaxAttempts, cfg.LoginAttemptWindow)
	}

	authService := auth.NewService(auth.NewRepository(pool), pinHash, cfg.SessionTTL)
	gate := auth.RequireSession(logger, authService)

	fieldsService := fields.NewService(fields.NewRepository(pool))
	productsService := products.NewService(
		products.NewRepository(pool),
		fieldsService,
		products.NewPNGEncoder(cfg.QRSizePx),
		products.ServiceConfig{
			PublicBaseURL: cfg.PublicBaseURL,
			MaxImageBytes: cfg.MaxImageBytes,
		},
	)
	inquiriesService := inquiries.NewService(inquiries.NewRepository(pool))

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		AuthHandler:      auth.NewHandler(logger, authService, limiter, cfg.IsProduction()),
		FieldsHandler:    fields.NewHandler(logger, fieldsService, gate),
		ProductsHandler:  products.NewHandler(logger, productsService, gate),
		InquiriesHandler: inquiries.NewHandler(logger, inquiriesService, gate),
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("http server listening", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("server exited", slog.Any("error", err))
		os.Exit(1)
	}
}
