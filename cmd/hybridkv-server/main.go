// Command hybridkv-server runs the RESP2-compatible cache server: a thin
// wrapper wiring internal/store, server, metrics, and metrics/promexport
// into a runnable binary. Flag parsing and process lifecycle are the only
// things this file does; all behavior lives in the wired packages.
package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/hybridkv/hybridkv/internal/store"
	"github.com/hybridkv/hybridkv/metrics"
	"github.com/hybridkv/hybridkv/metrics/promexport"
	"github.com/hybridkv/hybridkv/server"
)

func main() {
	addr := flag.String("addr", "127.0.0.1:6379", "TCP address to listen on")
	metricsAddr := flag.String("metrics-addr", "", "address to serve /metrics on (empty disables Prometheus export)")
	shardCount := flag.Int("shards", 0, "shard count, rounded up to a power of two (0 = available parallelism * 4)")
	maxBytes := flag.Int64("max-bytes", -1, "maximum accounted bytes across all shards (-1 = unlimited)")
	sweepInterval := flag.Duration("sweep-interval", time.Second, "TTL expirer sweep interval")
	flag.Parse()

	log, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to initialize logger:", err)
		os.Exit(1)
	}
	defer log.Sync() //nolint:errcheck

	engine := store.New(
		store.WithShardCount(*shardCount),
		store.WithMaxBytes(*maxBytes),
		store.WithLogger(log),
	)
	expirer := store.NewExpirer(engine, *sweepInterval, log)
	defer expirer.Stop()

	reg := metrics.New(nil)
	srv := server.New(engine, server.WithLogger(log), server.WithMetrics(reg))

	if *metricsAddr != "" {
		promReg := prometheus.NewRegistry()
		promReg.MustRegister(promexport.New(reg))
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(promReg, promhttp.HandlerOpts{}))
		go func() {
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil { //nolint:gosec
				log.Warn("metrics server stopped", zap.Error(err))
			}
		}()
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(*addr) }()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			log.Error("server exited", zap.Error(err))
			os.Exit(1)
		}
	case sig := <-sigCh:
		log.Info("shutting down", zap.String("signal", sig.String()))
		if err := srv.Close(); err != nil {
			log.Warn("error during shutdown", zap.Error(err))
		}
	}
}
