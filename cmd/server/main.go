package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"rnimart-be/internal/analytics"
	"rnimart-be/internal/cart"
	"rnimart-be/internal/catalog"
	"rnimart-be/internal/config"
	"rnimart-be/internal/db"
	"rnimart-be/internal/handler"
	"rnimart-be/internal/insight"
	"rnimart-be/internal/kvstore"
	"rnimart-be/internal/logger"
	"rnimart-be/internal/metrics"
	"rnimart-be/internal/middleware"
	"rnimart-be/internal/notification"
	"rnimart-be/internal/order"
	"rnimart-be/internal/session"
	"rnimart-be/internal/store"
	"rnimart-be/internal/user"

	"go.uber.org/zap"
)

const (
	notificationQueueSize = 256
	insightInterval       = time.Minute
	cartSweepInterval     = 10 * time.Minute
	shutdownTimeout       = 10 * time.Second
)

var (
	initDBFunc      = db.InitDB
	startServerFunc = func(srv *http.Server) error { return srv.ListenAndServe() }
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg := config.LoadConfig()
	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.close()

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           a.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.L().Info("server listening", zap.String("addr", srv.Addr), zap.String("store", cfg.StoreDriver))
		errCh <- startServerFunc(srv)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.L().Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

type app struct {
	router  http.Handler
	closers []func()
}

// close releases resources in reverse order of creation.
func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	a := &app{}

	kv, closeKV, err := newKVStore(cfg)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, closeKV)

	st, err := store.Load(ctx, kv)
	if err != nil {
		a.close()
		return nil, err
	}

	m := metrics.New()

	notifier, closeNotifier := newNotifier(cfg)
	a.closers = append(a.closers, closeNotifier)
	dispatcher := notification.NewDispatcher(notifier, m, notificationQueueSize)
	a.closers = append(a.closers, dispatcher.Close)

	refresher := insight.NewRefresher(insight.NewGeminiClient(cfg.GeminiAPIKey, cfg.GeminiModel, m), insightInterval, m)
	a.closers = append(a.closers, refresher.Close)

	registry := cart.NewRegistry(cart.DefaultIdleTTL)
	go sweepCarts(ctx, registry, cartSweepInterval)

	catalogSvc := catalog.NewService(st)
	orderSvc := order.NewService(st, dispatcher, m, cfg.AdminWANumber)

	a.router = handler.NewRouter(handler.Deps{
		Catalog:       catalogSvc,
		Carts:         cart.NewService(registry, catalogSvc),
		Orders:        orderSvc,
		Users:         user.NewService(st),
		Analytics:     analytics.NewService(orderSvc, m),
		Insights:      refresher,
		Sessions:      session.NewManager(kv, cfg.JWTSecret),
		Metrics:       m,
		Limiter:       middleware.NewRateLimiter(ctx),
		SecureCookies: cfg.AppEnv == "production",
	})
	return a, nil
}

func newKVStore(cfg *config.Config) (kvstore.Store, func(), error) {
	switch cfg.StoreDriver {
	case config.StoreMemory:
		return kvstore.NewMemory(), func() {}, nil
	case config.StorePostgres:
		database := initDBFunc(cfg)
		return kvstore.NewPostgres(database), func() { closeDB(database) }, nil
	case config.StoreRedis:
		rs := kvstore.NewRedis(cfg.RedisAddr)
		return rs, func() {
			if err := rs.Close(); err != nil {
				logger.L().Warn("failed to close redis client", zap.Error(err))
			}
		}, nil
	default:
		return nil, nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}
}

func closeDB(database *sql.DB) {
	if err := database.Close(); err != nil {
		logger.L().Warn("failed to close database", zap.Error(err))
	}
}

func newNotifier(cfg *config.Config) (notification.Notifier, func()) {
	switch cfg.NotifyDriver {
	case config.NotifyWebhook:
		if cfg.NotifyWebhookURL != "" {
			return notification.NewWebhookNotifier(cfg.NotifyWebhookURL), func() {}
		}
		logger.L().Warn("NOTIFY_WEBHOOK_URL is empty, falling back to log notifications")
	case config.NotifyKafka:
		w := notification.NewKafkaWriter(cfg.KafkaBrokers, cfg.KafkaTopic)
		return notification.NewKafkaNotifier(w), func() {
			if err := w.Close(); err != nil {
				logger.L().Warn("failed to close kafka writer", zap.Error(err))
			}
		}
	}
	return notification.NewLogNotifier(), func() {}
}

// sweepCarts drops carts idle longer than the registry TTL until ctx ends.
func sweepCarts(ctx context.Context, registry *cart.Registry, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := registry.Sweep(); n > 0 {
				logger.L().Info("idle carts dropped", zap.Int("count", n))
			}
		}
	}
}
