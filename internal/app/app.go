// Package app wires configuration into the analysis engine and its front
// ends.
package app

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"solana-token-scan/internal/analyzer"
	"solana-token-scan/internal/config"
	"solana-token-scan/internal/dexscreener"
	"solana-token-scan/internal/guard"
	"solana-token-scan/internal/holders"
	"solana-token-scan/internal/observability"
	"solana-token-scan/internal/risk"
	"solana-token-scan/internal/solana"
	"solana-token-scan/internal/telegram"
)

// App aggregates configuration and shared dependencies for the CLI commands.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
}

// NewApp constructs a new application handle.
func NewApp(cfg *config.Config, logger zerolog.Logger) *App {
	return &App{Config: cfg, Logger: logger.With().Str("component", "app").Logger()}
}

// NewAnalyzer assembles the analysis engine from configuration.
func (a *App) NewAnalyzer() *analyzer.Analyzer {
	indexerClient := solana.NewHTTPClient(a.Config.Indexer.ResolvedEndpoint(),
		solana.WithTimeout(a.Config.Indexer.RequestTimeout),
		solana.WithMaxRetries(a.Config.Indexer.MaxRetries),
	)
	ledgerClient := solana.NewHTTPClient(a.Config.Ledger.ResolvedEndpoint(),
		solana.WithTimeout(a.Config.Ledger.RequestTimeout),
		solana.WithMaxRetries(a.Config.Ledger.MaxRetries),
	)

	market := dexscreener.New(dexscreener.Options{
		BaseURL:   a.Config.Market.BaseURL,
		Timeout:   a.Config.Market.RequestTimeout,
		UserAgent: a.Config.Market.UserAgent,
	}, a.Logger)

	holderResolver := holders.NewResolver(a.Logger,
		holders.NewIndexerAccounts(indexerClient),
		holders.NewSolscan(holders.SolscanOptions{
			BaseURL: a.Config.Holders.SolscanBaseURL,
			Timeout: a.Config.Holders.RequestTimeout,
		}, a.Logger),
		holders.NewProgramScan(ledgerClient),
	)

	return analyzer.New(analyzer.Options{
		Market:        market,
		Metadata:      solana.NewMetadataSource(indexerClient),
		Supply:        solana.NewSupplySource(ledgerClient),
		Holders:       holderResolver,
		Risk:          risk.NewAssessor(ledgerClient, a.Logger),
		Guard:         guard.New(a.Logger),
		Logger:        a.Logger,
		SourceTimeout: a.Config.Analyzer.SourceTimeout,
	})
}

// RunBot runs the Telegram front end until interrupted.
func (a *App) RunBot(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if a.Config.Telegram.BotToken == "" {
		return errors.New("telegram.bot_token must be configured")
	}

	if a.Config.Telemetry.Enabled {
		a.serveTelemetry(ctx)
	}

	engine := a.NewAnalyzer()
	bot, err := telegram.NewBot(a.Config.Telegram.BotToken, a.Config.Telegram.Debug, engine, a.Logger)
	if err != nil {
		return err
	}

	a.Logger.Info().Msg("starting telegram bot")
	err = bot.Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		a.Logger.Error().Err(err).Msg("bot terminated with error")
		return err
	}

	a.Logger.Info().Msg("telegram bot stopped")
	return nil
}

// serveTelemetry starts the metrics and health listener in the background.
func (a *App) serveTelemetry(ctx context.Context) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", observability.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	server := &http.Server{Addr: a.Config.Telemetry.Listen, Handler: mux}

	go func() {
		a.Logger.Info().Str("listen", server.Addr).Msg("telemetry listener started")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Logger.Error().Err(err).Msg("telemetry listener failed")
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx) //nolint:errcheck
	}()
}
