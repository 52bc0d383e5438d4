package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/protect-ed/backend/internal/api/handlers"
	redisCache "github.com/protect-ed/backend/internal/cache/redis"
	"github.com/protect-ed/backend/internal/classify"
	"github.com/protect-ed/backend/internal/metrics"
	"github.com/protect-ed/backend/internal/middleware/ratelimit"
	"github.com/protect-ed/backend/internal/middleware/security"
	"github.com/protect-ed/backend/internal/middleware/validation"
	"github.com/protect-ed/backend/internal/model/embedding"
	"github.com/protect-ed/backend/internal/model/topic"
	"github.com/protect-ed/backend/internal/risk"
	"github.com/protect-ed/backend/internal/storage/sqlite"
	"github.com/protect-ed/backend/internal/taxonomy"
	"github.com/protect-ed/backend/pkg/config"
	appLogger "github.com/protect-ed/backend/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	err = appLogger.Init(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.OutputPath)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer appLogger.Sync()

	appLogger.Info("Starting ProtectEd Assessment API Server")

	metrics.Init()

	sqliteClient, err := sqlite.NewClient(cfg.SQLite.Path)
	if err != nil {
		appLogger.Fatal("Failed to create SQLite client", zap.Error(err))
	}
	defer sqliteClient.Close()

	err = sqliteClient.InitSchema()
	if err != nil {
		appLogger.Fatal("Failed to initialize schema", zap.Error(err))
	}

	engine := buildEngine(cfg)
	aggregator := risk.NewAggregator(engine)

	analyzeHandler := handlers.NewAnalyzeHandler(aggregator, sqliteClient)
	adminHandler := handlers.NewAdminHandler(sqliteClient)

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    cfg.Server.BodyLimit,
	})

	rateLimiter := ratelimit.New(ratelimit.Config{
		MaxRequestsPerMinute: cfg.RateLimit.MaxRequestsPerMinute,
		Logger:               appLogger.GetLogger(),
	})
	defer rateLimiter.Stop()

	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, OPTIONS",
	}))
	app.Use(security.HeadersMiddleware(security.HeadersConfig{}))
	app.Use(rateLimiter.Middleware())
	app.Use(validation.Middleware(validation.Config{
		Logger: appLogger.GetLogger(),
	}))

	api := app.Group("/api/v1")

	api.Post("/analyze", analyzeHandler.HandleAnalyze)
	api.Get("/admin/data", adminHandler.HandleData)

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Unix(),
		})
	})

	api.Get("/ready", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ready",
		})
	})

	app.Get("/metrics", metrics.Handler())

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	appLogger.Info("Server starting", zap.String("address", addr))

	go func() {
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Server shutting down gracefully...")
	app.Shutdown()
	appLogger.Info("Server stopped")
}

// buildEngine assembles the classification layers. The keyword layer is
// always present; the topic and semantic layers come and go with their model
// artifacts. A load failure degrades the layer, never the process.
func buildEngine(cfg *config.Config) *classify.Engine {
	layers := []classify.Layer{
		classify.NewKeywordLayer(taxonomy.KeywordRules()),
	}

	topicModel, err := topic.Load(cfg.TopicModel.BundleDir, cfg.TopicModel.SeqLen)
	if err != nil {
		appLogger.Warn("Topic model unavailable, layer disabled", zap.Error(err))
		metrics.ModelLayerAvailable.WithLabelValues("topic").Set(0)
	} else {
		layers = append(layers, classify.NewTopicLayer(topicModel))
		metrics.ModelLayerAvailable.WithLabelValues("topic").Set(1)
	}

	embedder := buildEmbedder(cfg)
	if embedder == nil {
		appLogger.Warn("Embedding model unavailable, semantic layer disabled")
		metrics.ModelLayerAvailable.WithLabelValues("semantic").Set(0)
	} else {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		anchors, err := classify.BuildAnchorSet(ctx, embedder, taxonomy.AnchorSentences())
		cancel()
		if err != nil {
			appLogger.Warn("Failed to build anchor embeddings, semantic layer disabled", zap.Error(err))
			metrics.ModelLayerAvailable.WithLabelValues("semantic").Set(0)
		} else {
			layers = append(layers, classify.NewSemanticLayer(embedder, anchors))
			metrics.ModelLayerAvailable.WithLabelValues("semantic").Set(1)
		}
	}

	return classify.NewEngine(layers...)
}

func buildEmbedder(cfg *config.Config) classify.Embedder {
	if cfg.Embedding.APIKey == "" {
		return nil
	}

	base := embedding.NewOpenAIEmbedder(cfg.Embedding.APIKey, cfg.Embedding.Model)

	if !cfg.Redis.Enabled {
		return base
	}

	cache, err := redisCache.NewClient(cfg.Redis.Host, cfg.Redis.Port, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		appLogger.Warn("Redis unavailable, embedding cache disabled", zap.Error(err))
		return base
	}

	ttl := time.Duration(cfg.Embedding.CacheTTLMin) * time.Minute
	return embedding.NewCachedEmbedder(base, cache, ttl)
}
