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

	"github.com/dengue-kg/backend/internal/api/handlers"
	"github.com/dengue-kg/backend/internal/cache/redis"
	"github.com/dengue-kg/backend/internal/graph"
	"github.com/dengue-kg/backend/internal/metrics"
	"github.com/dengue-kg/backend/internal/storage/sqlite"
	"github.com/dengue-kg/backend/pkg/config"
	appLogger "github.com/dengue-kg/backend/pkg/logger"
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

	appLogger.Info("Starting Dengue Knowledge Graph API server")

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

	graphClient, err := graph.NewClient(context.Background(), cfg.Neo4j)
	if err != nil {
		appLogger.Fatal("Failed to create Neo4j client", zap.Error(err))
	}
	defer graphClient.Close(context.Background())

	var cacheClient *redis.Client
	if cfg.Redis.Enabled {
		cacheClient, err = redis.NewClient(
			cfg.Redis.Host,
			cfg.Redis.Port,
			cfg.Redis.Password,
			cfg.Redis.DB,
			time.Duration(cfg.Redis.TTLSec)*time.Second,
		)
		if err != nil {
			appLogger.Warn("Redis unavailable, running without response cache", zap.Error(err))
			cacheClient = nil
		} else {
			defer cacheClient.Close()
		}
	}

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    cfg.Server.BodyLimit,
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, OPTIONS",
	}))
	app.Use(func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		metrics.APIRequestDuration.WithLabelValues(c.Route().Path).
			Observe(time.Since(start).Seconds())
		return err
	})

	graphHandler := handlers.NewGraphHandler(graphClient, cacheClient)
	coverageHandler := handlers.NewCoverageHandler(graphClient, sqliteClient, cacheClient)

	api := app.Group("/api/v1")

	api.Get("/health", graphHandler.Health)
	api.Get("/graph/info", graphHandler.GraphInfo)
	api.Get("/graph/stats", graphHandler.GraphStats)
	api.Get("/graph/nodes/:category", graphHandler.NodesByCategory)
	api.Get("/entities/:category/:id/links", graphHandler.EntityLinks)
	api.Get("/search", graphHandler.Search)
	api.Get("/coverage", coverageHandler.Coverage)
	api.Get("/runs", coverageHandler.Runs)
	api.Get("/runs/:id/coverage", coverageHandler.RunCoverage)

	app.Get("/metrics", metrics.MetricsHandler())

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
