package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gopkg.in/natefinch/lumberjack.v2"

	"flipnet/config"
	"flipnet/core"
	"flipnet/observability"
	"flipnet/observability/logging"
	"flipnet/rpc"
	"flipnet/services/fulfiller"
	"flipnet/storage"
)

func main() {
	configPath := flag.String("config", "./config.toml", "path to the node configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load configuration", "path", *configPath, "error", err)
		os.Exit(1)
	}

	var logSink io.Writer = os.Stdout
	if strings.TrimSpace(cfg.LogFile) != "" {
		logSink = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    100,
			MaxBackups: 5,
			MaxAge:     30,
			Compress:   true,
		})
	}
	env := os.Getenv("FLIPNET_ENV")
	if env == "" {
		env = "development"
	}
	logger := logging.Setup("flipd", env, logging.ParseLevel(cfg.LogLevel), logSink)

	if err := run(cfg, logger); err != nil {
		logger.Error("node terminated", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	nodeCfg, err := cfg.NodeConfig()
	if err != nil {
		return err
	}

	db, err := storage.NewLevelDB(cfg.DataDir)
	if err != nil {
		return err
	}
	defer db.Close()

	node, err := core.NewNode(db, nodeCfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Fold protocol events into the Prometheus registry.
	eventCh, cancelEvents := node.Events().Subscribe(256)
	defer cancelEvents()
	go func() {
		engine := observability.EngineMetrics()
		for {
			select {
			case <-ctx.Done():
				return
			case evt, ok := <-eventCh:
				if !ok {
					return
				}
				engine.ObserveEvent(evt)
			}
		}
	}()

	interval := time.Duration(cfg.Oracle.FulfillIntervalSeconds) * time.Second
	go func() {
		svc := fulfiller.New(node, interval, logger.With("service", "fulfiller"))
		if err := svc.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("fulfiller stopped", "error", err)
		}
	}()

	var metricsSrv *http.Server
	if strings.TrimSpace(cfg.MetricsAddress) != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		metricsSrv = &http.Server{Addr: cfg.MetricsAddress, Handler: mux}
		go func() {
			logger.Info("starting metrics server", "addr", cfg.MetricsAddress)
			if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server failed", "error", err)
			}
		}()
	}

	authToken := cfg.RPCAuthToken
	if envToken := os.Getenv("FLIPNET_RPC_TOKEN"); envToken != "" {
		authToken = envToken
	}
	if strings.TrimSpace(authToken) == "" {
		logger.Warn("no RPC auth token configured, mutating methods will be rejected")
	}

	server := rpc.NewServer(node, authToken, logger.With("service", "rpc"))
	rpcSrv := &http.Server{Addr: cfg.RPCAddress, Handler: server.Router()}
	rpcErr := make(chan error, 1)
	go func() {
		logger.Info("starting JSON-RPC server", "addr", cfg.RPCAddress)
		if err := rpcSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			rpcErr <- err
		}
	}()

	select {
	case err := <-rpcErr:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := rpcSrv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("rpc shutdown incomplete", "error", err)
	}
	if metricsSrv != nil {
		if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("metrics shutdown incomplete", "error", err)
		}
	}
	return nil
}
