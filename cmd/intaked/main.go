// Command intaked runs the complaint intake service over HTTP and WebSocket,
// or as an MCP server on stdio with --mcp.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/GeorgeJbara/prod-comp-assistant/internal/adapter/llm"
	"github.com/GeorgeJbara/prod-comp-assistant/internal/config"
	"github.com/GeorgeJbara/prod-comp-assistant/internal/events"
	"github.com/GeorgeJbara/prod-comp-assistant/internal/intake"
	"github.com/GeorgeJbara/prod-comp-assistant/internal/judgment"
	"github.com/GeorgeJbara/prod-comp-assistant/internal/logger"
	"github.com/GeorgeJbara/prod-comp-assistant/internal/memory"
	"github.com/GeorgeJbara/prod-comp-assistant/internal/metrics"
	"github.com/GeorgeJbara/prod-comp-assistant/internal/policy"
	"github.com/GeorgeJbara/prod-comp-assistant/internal/repository"
	"github.com/GeorgeJbara/prod-comp-assistant/internal/service"
	httptransport "github.com/GeorgeJbara/prod-comp-assistant/internal/transport/http"
	"github.com/GeorgeJbara/prod-comp-assistant/internal/transport/mcptools"
	"github.com/GeorgeJbara/prod-comp-assistant/internal/transport/ws"
)

func main() {
	flagSet := pflag.NewFlagSet("intaked", pflag.ContinueOnError)
	configPath := flagSet.String("config", "", "path to a YAML config file")
	mcpMode := flagSet.Bool("mcp", false, "serve MCP tools on stdio instead of HTTP")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	// stdout carries the MCP protocol in --mcp mode.
	log := logger.New(logger.Config{Level: cfg.LogLevel, Pretty: cfg.LogPretty, Output: os.Stderr})

	if err := run(cfg, *mcpMode, log); err != nil {
		log.Fatal().Err(err).Msg("intaked stopped")
	}
}

func run(cfg *config.Config, mcpMode bool, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := repository.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("open ticket store: %w", err)
	}
	defer store.Close()

	router, err := policy.NewDefaultRouter(ctx)
	if err != nil {
		return fmt.Errorf("compile routing policy: %w", err)
	}

	var publisher events.Publisher = events.Noop{}
	if len(cfg.KafkaBrokers) > 0 {
		publisher = events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		log.Info().Strs("brokers", cfg.KafkaBrokers).Str("topic", cfg.KafkaTopic).Msg("ticket feed enabled")
	}
	defer publisher.Close()

	m := metrics.New()
	engine := intake.New(intake.Deps{
		Judge:     newJudge(cfg, log),
		Store:     store,
		Router:    router,
		Publisher: publisher,
		Metrics:   m,
		Logger:    &log,
	}, intake.Config{
		OpenTicketTurnLimit: cfg.OpenTicketTurnLimit,
		JudgmentTimeout:     cfg.JudgmentTimeout,
	})
	svc := service.New(engine, store, memory.New(cfg.HistoryLimit), log)

	if mcpMode {
		log.Info().Msg("serving MCP tools on stdio")
		return mcpserver.ServeStdio(mcptools.NewServer(svc))
	}

	chat := ws.NewServer(ws.Options{
		APIKey:         cfg.APIKey,
		PingInterval:   cfg.PingInterval,
		WriteTimeout:   cfg.WriteTimeout,
		ReadTimeout:    cfg.ReadTimeout,
		MaxMessageSize: cfg.MaxMessageSize,
	}, ws.NewHub(), svc, logger.Component(log, "ws"))

	e := httptransport.NewExternalServer(svc, chat, m, logger.Component(log, "http"))

	errCh := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf(":%d", cfg.HTTPPort)
		log.Info().Str("addr", addr).Bool("mock", cfg.MockMode()).Msg("intake API started")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("graceful shutdown failed")
	}
	return nil
}

func newJudge(cfg *config.Config, log zerolog.Logger) judgment.Judge {
	if cfg.MockMode() {
		log.Info().Msg("using rule-based judge")
		return judgment.NewRuleJudge()
	}
	client := llm.NewClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMTimeout)
	log.Info().Str("model", cfg.LLMModel).Str("base_url", cfg.LLMBaseURL).Msg("using LLM judge")
	return judgment.NewLLMJudge(client, cfg.LLMModel, cfg.LLMTemperature)
}
