package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/simon4657/stockcal-api/internal/config"
	"github.com/simon4657/stockcal-api/internal/pipeline"
	"github.com/simon4657/stockcal-api/internal/scheduler"
	"github.com/simon4657/stockcal-api/internal/store"
	"github.com/simon4657/stockcal-api/pkg/llm"
	"github.com/simon4657/stockcal-api/pkg/news"
)

func main() {
	godotenv.Load()
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	configPath := flag.String("config", "config.yaml", "path to config file")
	schedule := flag.Bool("schedule", false, "keep running and refresh on the configured cron schedule")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("error loading config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	ctx := context.Background()

	st, err := store.Open(ctx, store.Settings{
		Backend:     cfg.Storage.Backend,
		DataDir:     cfg.Storage.DataDir,
		RedisURL:    cfg.Storage.RedisURL,
		DatabaseURL: cfg.Storage.DatabaseURL,
	})
	if err != nil {
		log.Fatalf("error opening store: %v", err)
	}
	defer st.Close()

	gen, err := llm.New(ctx, cfg.LLM.Provider, cfg.APIKey())
	if err != nil {
		log.Fatalf("error creating generator: %v", err)
	}
	slog.Info("generator ready", "provider", cfg.LLM.Provider, "model", gen.ModelName())

	orchestrator := pipeline.NewOrchestrator(gen, st, newsProvider(cfg), pipeline.Options{
		TrendCount:       cfg.Update.TrendCount,
		StrategyCount:    cfg.Update.StrategyCount,
		MinEventCount:    cfg.Update.MinEventCount,
		MaxEventCount:    cfg.Update.MaxEventCount,
		RefreshProtected: cfg.Update.RefreshFixed,
		UseSearch:        cfg.Update.UseSearch,
		ProtectedIDs:     cfg.Update.FixedEventIDs,
	})

	if !*schedule {
		report := orchestrator.Run(ctx)
		if !report.Success() {
			os.Exit(1)
		}
		return
	}

	sched := scheduler.New()
	err = sched.Add(cfg.Update.Cron, "dataset refresh", func() {
		orchestrator.Run(context.Background())
	})
	if err != nil {
		log.Fatalf("error scheduling refresh: %v", err)
	}

	sched.Start()
	defer sched.Stop()
	slog.Info("updater scheduled", "cron", cfg.Update.Cron)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("updater shutting down")
}

// newsProvider assembles the headline sources that have credentials.
// Returns nil when none are configured; prompts then carry no context block.
func newsProvider(cfg *config.Config) pipeline.ContextSource {
	var sources []news.Source
	if cfg.News.FinnhubAPIKey != "" {
		sources = append(sources, news.NewFinnHubSource(cfg.News.FinnhubAPIKey))
	}
	if cfg.News.AlphaVantageAPIKey != "" {
		sources = append(sources, news.NewAlphaVantageSource(cfg.News.AlphaVantageAPIKey))
	}
	if len(sources) == 0 {
		return nil
	}
	return news.NewContextProvider(cfg.News.HeadlineLimit, sources...)
}
