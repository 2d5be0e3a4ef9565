package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/ekomapa/geolayers/internal/cache"
	"github.com/ekomapa/geolayers/internal/cache/memstore"
	"github.com/ekomapa/geolayers/internal/cache/redisstore"
	"github.com/ekomapa/geolayers/internal/core/config"
	"github.com/ekomapa/geolayers/internal/core/observability"
	"github.com/ekomapa/geolayers/internal/invalidation/kafkaconsumer"
	"github.com/ekomapa/geolayers/internal/logger"
	"github.com/ekomapa/geolayers/internal/metrics"
	"github.com/ekomapa/geolayers/internal/postgres"
	"github.com/ekomapa/geolayers/internal/query"
	"github.com/ekomapa/geolayers/internal/server"
	"github.com/ekomapa/geolayers/internal/service"
)

var Version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	addrFlag := flag.String("addr", "", "HTTP listen address (overrides ADDR)")
	logLevelFlag := flag.String("log-level", "", "log level: debug|info|warn|error")
	flag.Parse()

	cfg := config.FromEnv()
	if *addrFlag != "" {
		cfg.Addr = *addrFlag
	}
	if *logLevelFlag != "" {
		cfg.LogLevel = *logLevelFlag
	}

	zl := logger.Build(logger.Config{
		Level:     cfg.LogLevel,
		Console:   strings.ToLower(os.Getenv("LOG_CONSOLE")) == "true",
		Component: "geolayers",
	}, os.Stdout)
	appLog := logger.NewSlog(&zl)

	p := metrics.Init()
	observability.Init(p.Registerer(), true)
	observability.ExposeBuildInfo(Version)

	appLog.Info("starting geolayers",
		"addr", cfg.Addr,
		"version", Version,
		"db_host", cfg.Database.Host,
		"cache_driver", cfg.CacheDriver)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.Connect(ctx, cfg.Database)
	if err != nil {
		appLog.Error("database connect failed", "err", err)
		return 1
	}
	defer func() { _ = pool.Close() }()

	var store cache.Store
	switch cfg.CacheDriver {
	case "redis":
		store, err = redisstore.New(ctx, cfg.RedisAddr)
		if err != nil {
			appLog.Error("redis connect failed", "err", err)
			return 1
		}
	case "memory":
		store = memstore.New(cfg.MemCacheSize, cfg.CacheTTL)
	case "none", "":
		// caching disabled
	default:
		appLog.Error("unknown cache driver", "driver", cfg.CacheDriver)
		return 1
	}
	if store != nil {
		defer func() { _ = store.Close() }()
	}

	exec := query.New(pool.DB(), cfg.QueryTimeout)
	svc := service.New(exec, store, cfg.CacheTTL, cfg.CacheOpTimeout, appLog)

	if cfg.Invalidation.Enabled && store != nil {
		consumer := kafkaconsumer.New(kafkaconsumer.FromConfig(cfg.Invalidation), appLog, svc)
		go func() {
			if err := consumer.Start(ctx); err != nil {
				appLog.Error("invalidation consumer exited", "err", err)
			}
		}()
	}

	if err := server.Run(ctx, cfg, appLog, svc, pool, p.Handler()); err != nil {
		appLog.Error("server exited with error", "err", err)
		return 1
	}
	appLog.Info("server stopped")
	return 0
}
