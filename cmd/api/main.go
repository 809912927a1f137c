package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/simon4657/stockcal-api/internal/analysis"
	"github.com/simon4657/stockcal-api/internal/config"
	"github.com/simon4657/stockcal-api/internal/handler"
	"github.com/simon4657/stockcal-api/internal/store"
	"github.com/simon4657/stockcal-api/pkg/llm"
)

func main() {
	godotenv.Load()
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	configPath := flag.String("config", "config.yaml", "path to config file")
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

	gateway := analysis.NewGateway(st, func(ctx context.Context, apiKey string) (llm.Generator, error) {
		return llm.New(ctx, cfg.LLM.Provider, apiKey)
	}, cfg.APIKey())

	datasetHandler := handler.NewDatasetHandler(st)
	analyzeHandler := handler.NewAnalyzeHandler(gateway)

	r := gin.Default()

	allowedOrigins := []string{"http://localhost:3000"}
	if cfg.Server.FrontendURL != "" {
		allowedOrigins = append(allowedOrigins, cfg.Server.FrontendURL)
	}
	slog.Info("AllowOrigins URL:", "urls", allowedOrigins)

	r.Use(cors.New(cors.Config{
		AllowOrigins: allowedOrigins,
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "X-API-Key"},
	}))

	r.GET("/", datasetHandler.GetRoot)
	r.GET("/health", datasetHandler.GetHealth)

	r.GET("/api/events", datasetHandler.GetEvents)
	r.GET("/api/hot-trends", datasetHandler.GetHotTrends)
	r.GET("/api/strategies", datasetHandler.GetStrategies)

	r.GET("/api/events/:id/analyze", analyzeHandler.Analyze("event"))
	r.GET("/api/hot-trends/:id/analyze", analyzeHandler.Analyze("hot-trend"))
	r.GET("/api/strategies/:id/analyze", analyzeHandler.Analyze("strategy"))

	r.POST("/api/events/:id/regenerate", analyzeHandler.Regenerate("event"))
	r.POST("/api/hot-trends/:id/regenerate", analyzeHandler.Regenerate("hot-trend"))
	r.POST("/api/strategies/:id/regenerate", analyzeHandler.Regenerate("strategy"))

	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("error starting server: %v", err)
	}
}
