package relwatch

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/roemer/relwatch/pkg/common"
	"github.com/roemer/relwatch/pkg/metrics"
)

func RunCmd(args []string) error {
	// Flags and help for the command
	flags := &commonFlags{}
	var metricsAddress string
	var once bool
	flagSet := flag.NewFlagSet("run", flag.ExitOnError)
	flags.register(flagSet)
	flagSet.StringVar(&metricsAddress, "metrics-address", "", "Overrides the address of the metrics endpoint (eg. :9090)")
	flagSet.BoolVar(&once, "once", false, "Refresh all products once and exit")
	flagSet.Usage = func() { printCmdUsage(flagSet, "run", "") }
	flagSet.Parse(args)

	// Create a logger
	logger := flags.newLogger(os.Stdout)
	logger.Info(fmt.Sprintf("Starting relwatch v%s", Version))

	// Stop on interrupt
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Prepare the metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	reporter := metrics.NewPrometheusReporter(registry)

	// Prepare the engine
	relwatchEngine, relwatchConfig, err := flags.newEngine(ctx, logger, reporter)
	if err != nil {
		return err
	}
	if metricsAddress == "" {
		metricsAddress = relwatchConfig.MetricsAddress
	}

	// Start the metrics endpoint
	if metricsAddress != "" {
		server := newMetricsServer(metricsAddress, registry)
		go func() {
			logger.Info(fmt.Sprintf("Serving metrics on %s/metrics", metricsAddress))
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error(fmt.Sprintf("Metrics endpoint failed: %s", err))
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			server.Shutdown(shutdownCtx)
		}()
	}

	if once {
		relwatchEngine.RefreshAll(ctx)
		return nil
	}
	return runScheduler(ctx, logger, relwatchEngine, relwatchConfig.GetRefreshInterval())
}

////////////////////////////////////////////////////////////
// Internal
////////////////////////////////////////////////////////////

// Refreshes all products immediately and then in the given interval until the context is done.
func runScheduler(ctx context.Context, logger *slog.Logger, relwatchEngine common.IEngine, interval time.Duration) error {
	logger.Info(fmt.Sprintf("Refreshing all products every %s", interval))
	relwatchEngine.RefreshAll(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			logger.Info("Stopping relwatch")
			return nil
		case <-ticker.C:
			relwatchEngine.RefreshAll(ctx)
		}
	}
}

func newMetricsServer(address string, registry *prometheus.Registry) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}))
	return &http.Server{
		Addr:              address,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
