// path: cmd/server/main.go
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Shibainu432/3D-Chesss/internal/config"
	"github.com/Shibainu432/3D-Chesss/internal/httpx"
	"github.com/Shibainu432/3D-Chesss/internal/session"
	"github.com/Shibainu432/3D-Chesss/internal/statesync"
	"github.com/Shibainu432/3D-Chesss/internal/store"
)

func main() {
	configPath := flag.String("config", getenv("CHESS_CONFIG", ""), "optional YAML config file")
	addr := flag.String("addr", "", "listen address (overrides config)")
	natsURL := flag.String("nats", "", "NATS url for state sync (overrides config; empty = in-process bus)")
	storePath := flag.String("store", "", "Badger directory for snapshot persistence (overrides config; empty = no persistence)")
	logLevel := flag.String("log-level", "", "zap log level (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fallbackLogger().Fatal("config load failed", zap.Error(err))
	}

	logger := newLogger(firstOf(*logLevel, cfg.Level("info")))
	defer func() { _ = logger.Sync() }()

	listenAddr := firstOf(*addr, cfg.Addr(":8080"))
	natsAddr := firstOf(*natsURL, cfg.NATSURL(""))
	dataDir := firstOf(*storePath, cfg.StorePath(""))

	var bus statesync.Bus
	if natsAddr != "" {
		nb, err := statesync.NewNATSBus(natsAddr, cfg.SubjectPrefix("chess"))
		if err != nil {
			logger.Fatal("nats connect failed", zap.String("url", natsAddr), zap.Error(err))
		}
		bus = nb
		logger.Info("state sync over nats", zap.String("url", natsAddr))
	} else {
		bus = statesync.NewMemoryBus(256)
		logger.Info("state sync in process")
	}
	defer func() { _ = bus.Close() }()

	var snapshots session.SnapshotStore
	if dataDir != "" {
		st, err := store.Open(dataDir)
		if err != nil {
			logger.Fatal("store open failed", zap.String("path", dataDir), zap.Error(err))
		}
		defer func() { _ = st.Close() }()
		snapshots = st
		logger.Info("snapshot persistence on", zap.String("path", dataDir))
	}

	hostname, _ := os.Hostname()
	publisher := statesync.NewPublisher(bus, hostname, logger)
	manager := session.NewManager(logger, publisher, snapshots)
	if err := manager.RestoreFromStore(); err != nil {
		logger.Fatal("restore from store failed", zap.Error(err))
	}

	srv := httpx.NewServer(logger, manager)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Listen(listenAddr) }()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Fatal("http server failed", zap.Error(err))
		}
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Close(shutdownCtx); err != nil {
			logger.Warn("shutdown incomplete", zap.Error(err))
		}
	}
}

func newLogger(level string) *zap.Logger {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	logger, err := cfg.Build()
	if err != nil {
		return fallbackLogger()
	}
	return logger
}

func fallbackLogger() *zap.Logger {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	return logger
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func firstOf(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
