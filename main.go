package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/adshao/go-binance/v2"
	"github.com/hirokisan/bybit/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/solwatch/solwatch/config"
	"github.com/solwatch/solwatch/internal/notifier"
	"github.com/solwatch/solwatch/internal/services/candles"
	"github.com/solwatch/solwatch/internal/services/executor"
	"github.com/solwatch/solwatch/internal/services/market"
	"github.com/solwatch/solwatch/internal/services/monitor"
	"github.com/solwatch/solwatch/internal/services/quote"
	"github.com/solwatch/solwatch/internal/storage/ledger"
	"github.com/solwatch/solwatch/internal/storage/postgres"
	"github.com/solwatch/solwatch/internal/storage/snapshots"
	"github.com/solwatch/solwatch/internal/wallet"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg, err := config.Get()
	if err != nil {
		logger.Fatal("failed to get configuration", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.DatabaseDSN)
	if err != nil {
		logger.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer pool.Close()

	planStore := postgres.NewPlanStore(pool)
	if err := planStore.Migrate(ctx); err != nil {
		logger.Fatal("failed to migrate plan storage", zap.Error(err))
	}

	tradeLedger, err := ledger.NewWALStore(cfg.LedgerDir)
	if err != nil {
		logger.Fatal("failed to open trade ledger", zap.Error(err))
	}
	defer tradeLedger.Close()

	priceSnapshots, err := snapshots.NewWALStore(cfg.SnapshotsDir)
	if err != nil {
		logger.Fatal("failed to open price snapshot store", zap.Error(err))
	}
	defer priceSnapshots.Close()

	encryptedKey, err := os.ReadFile(cfg.WalletKeyFile)
	if err != nil {
		logger.Fatal("failed to read wallet key file", zap.Error(err))
	}
	vault, err := wallet.NewVault(cfg.WalletAddress, encryptedKey, []byte(cfg.WalletPassphrase))
	if err != nil {
		logger.Fatal("failed to init wallet vault", zap.Error(err))
	}

	var notify monitor.Notifier = notifier.NewLogNotifier(logger)
	if cfg.TelegramToken != "" && cfg.TelegramChatID != 0 {
		notify, err = notifier.NewTelegramNotifier(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			logger.Fatal("failed to init telegram notifier", zap.Error(err))
		}
	}

	mon := monitor.New(planStore,
		quote.NewClient(cfg.AggregatorURL, logger),
		executor.NewClient(cfg.AggregatorURL, logger),
		vault, tradeLedger, priceSnapshots, notify,
		cfg.PlanInterval.Std(), logger)

	var provider candles.Provider
	switch cfg.CandleSource {
	case "bybit":
		provider = candles.NewBybitProvider(bybit.NewClient())
	default:
		provider = candles.NewBinanceProvider(binance.NewClient("", ""))
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return runMonitor(ctx, mon, cfg.MonitorInterval.Std(), logger) })
	g.Go(func() error { return runScanner(ctx, provider, cfg.WatchSymbols, cfg.ScanInterval.Std(), logger) })
	if cfg.MetricsAddr != "" {
		g.Go(func() error { return serveMetrics(ctx, cfg.MetricsAddr) })
	}

	logger.Info("started",
		zap.Duration("monitor_interval", cfg.MonitorInterval.Std()),
		zap.Strings("watch_symbols", cfg.WatchSymbols))

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("shutdown with error", zap.Error(err))
	}
	logger.Info("stopped")
}

// runMonitor runs one monitoring cycle per tick until the context ends.
func runMonitor(ctx context.Context, mon *monitor.Monitor, interval time.Duration, logger *zap.Logger) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		results, err := mon.RunCycle(ctx)
		if err != nil {
			// Listing failures are transient (db hiccup); keep the loop alive.
			logger.Error("monitor cycle failed", zap.Error(err))
		} else if len(results) > 0 {
			logger.Info("monitor cycle finished", zap.Int("plans", len(results)))
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// runScanner periodically analyzes the watch list and logs entry signals
// for the dashboard operator.
func runScanner(ctx context.Context, provider candles.Provider, symbols []string, interval time.Duration, logger *zap.Logger) error {
	if len(symbols) == 0 {
		<-ctx.Done()
		return ctx.Err()
	}

	analyzer := market.NewAnalyzer()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		for _, symbol := range symbols {
			series, err := provider.Candles(ctx, symbol, candles.DefaultInterval, candles.DefaultLimit)
			if err != nil {
				logger.Warn("candle fetch failed", zap.String("symbol", symbol), zap.Error(err))
				continue
			}
			analysis, err := analyzer.Analyze(series)
			if err != nil {
				logger.Warn("analysis failed", zap.String("symbol", symbol), zap.Error(err))
				continue
			}
			logger.Info("market scan",
				zap.String("symbol", symbol),
				zap.Float64("price", analysis.CurrentPrice),
				zap.String("trend", analysis.Trend),
				zap.Float64("confluence_score", analysis.Indicators.ConfluenceScore),
				zap.String("confluence_signal", analysis.Indicators.ConfluenceSignal),
				zap.String("entry_signal", analysis.EntrySignal),
				zap.Float64("scalping_score", analysis.ScalpingScore),
				zap.String("scalping_verdict", analysis.ScalpingVerdict))
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// serveMetrics exposes prometheus metrics until the context ends.
func serveMetrics(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return ctx.Err()
}
