package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cbrates/internal/adapters"
	"cbrates/internal/adapters/cache"
	"cbrates/internal/adapters/httpclient"
	"cbrates/internal/adapters/postgres"
	"cbrates/internal/adapters/rediscache"
	"cbrates/internal/api"
	"cbrates/internal/config"
	"cbrates/internal/exchange"
	"cbrates/internal/exchange/handler"
	"cbrates/internal/platform/db"
	httpserver "cbrates/internal/platform/http"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const lastCallCacheSize = 1024

// Run wires the application components, starts HTTP server and the optional
// refresh scheduler.
func Run() error {
	appCfg, err := config.Init()
	if err != nil {
		return err
	}
	// Logger
	logrus.SetOutput(os.Stdout)
	cfgLevel := appCfg.Logging.Level
	if parsedLvl, parseErr := logrus.ParseLevel(cfgLevel); parseErr != nil {
		logrus.SetLevel(logrus.InfoLevel)
	} else {
		logrus.SetLevel(parsedLvl)
	}
	logrus.Info("✅ Config initialization successful")

	// Root context bound to OS signals for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Bounded context for startup operations (DB connect, cache ping)
	startupCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	// DB pool
	pool, err := db.CreatePoolAndPing(startupCtx, appCfg.DbServer)
	if err != nil {
		logrus.WithError(err).Error("Error connecting to db")
		return err
	}
	defer pool.Close()
	logrus.Info("✅ Postgres connection successful")

	// Supported currencies
	supportedCodes := appCfg.Exchange.SupportedList()
	if len(supportedCodes) == 0 {
		err = errors.New("no supported currencies configured")
		logrus.WithError(err).Error("Failed to load supported currencies")
		return err
	}
	logrus.Infof("✅ Supported currencies: %v", supportedCodes)

	// Cooldown last-call storage
	lastCalls, closeLastCalls, err := newLastCallStore(startupCtx, appCfg.Cooldown)
	if err != nil {
		logrus.WithError(err).Error("Failed to create cooldown storage")
		return err
	}
	defer closeLastCalls()
	logrus.Infof("✅ Cooldown storage ready (%s)", appCfg.Cooldown.Backend)

	// Upstream client (configurable timeout)
	fetchTimeout := time.Duration(appCfg.Upstream.TimeoutSeconds) * time.Second
	if fetchTimeout <= 0 {
		fetchTimeout = 5 * time.Second
	}
	baseHTTPClient := &http.Client{Timeout: fetchTimeout}
	cbrClient := httpclient.NewCBRClient(baseHTTPClient, appCfg.Upstream.URL)

	// Registry: every configured currency is served by the CBR feed
	registry := exchange.NewCurrencyRegistry()
	for _, code := range supportedCodes {
		registry.Register(code, func() adapters.RateSource { return cbrClient })
	}

	// Timezone for response timestamps
	loc, err := time.LoadLocation(appCfg.Exchange.TimeZone)
	if err != nil {
		logrus.WithError(err).Errorf("Unknown time zone %q", appCfg.Exchange.TimeZone)
		return err
	}

	// Core pipeline
	store := postgres.NewObservationRepository(pool)
	gate := exchange.NewCooldownGate(lastCalls, time.Duration(appCfg.Exchange.CooldownSeconds)*time.Second)
	orchestrator := exchange.NewOrchestrator(registry, store, gate, exchange.OrchestratorConfig{
		HistoryLimit: appCfg.Exchange.HistoryLimit,
		FetchTimeout: fetchTimeout,
		Location:     loc,
	})

	// Optional background refresh, bounded by the same cooldown gate
	if appCfg.Refresh.Enabled {
		refresher := exchange.NewRefresher(orchestrator, registry, time.Duration(appCfg.Refresh.IntervalSeconds)*time.Second)
		defer func() {
			if shutDownErr := refresher.Shutdown(); shutDownErr != nil {
				logrus.Errorf("Refresher shutdown error: %v", shutDownErr)
			}
		}()
		if startErr := refresher.Start(ctx); startErr != nil {
			logrus.WithError(startErr).Error("Failed to start refresher")
			return startErr
		}
		logrus.Info("✅ Refresher activation successful")
	}

	// Handlers and router
	rateHandler := handler.NewRateHandler(orchestrator, registry)
	router := api.NewRouter(rateHandler)

	logrus.Info("Starting http server")
	// Block until context is canceled, then perform graceful shutdown.
	if serverErr := httpserver.Start(ctx, appCfg.HTTPServer, router); serverErr != nil {
		// Cancel the root context to stop the refresher and in-flight work
		stop()
		logrus.Errorf("HTTP server error: %v", serverErr)
		return serverErr
	}
	return nil
}

func newLastCallStore(ctx context.Context, cfg config.Cooldown) (adapters.LastCallStore, func(), error) {
	switch cfg.Backend {
	case "", "memory":
		store, err := cache.NewLastCallStore(lastCallCacheSize)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	case "redis":
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return nil, nil, fmt.Errorf("redis ping failed: %w", err)
		}
		return rediscache.NewLastCallStore(rdb, "exchange_last_request"), func() { _ = rdb.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown cooldown backend %q", cfg.Backend)
	}
}
