package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	arkmodel "github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/startuphub/startup-advisor/internal/advisor"
	"github.com/startuphub/startup-advisor/internal/embedding"
	"github.com/startuphub/startup-advisor/internal/store"
	"github.com/startuphub/startup-advisor/pkg/config"
	"github.com/startuphub/startup-advisor/pkg/logger"
	"github.com/startuphub/startup-advisor/pkg/metrics"
	"github.com/startuphub/startup-advisor/pkg/middleware"
	"github.com/startuphub/startup-advisor/pkg/tracing"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Init()
	logger.Info(ctx, "Starting advisor service", "service", "advisor", "environment", cfg.Server.Mode)

	if cfg.Ark.APIKey == "" {
		logger.Error(ctx, "ARK_API_KEY is not configured")
		os.Exit(1)
	}

	// Retrieval artifacts are mandatory; the service cannot answer
	// without them.
	st, err := store.Load(cfg.Index.IndexPath, cfg.Index.MetadataPath)
	if err != nil {
		logger.Error(ctx, "Failed to load retrieval artifacts", "error", err.Error(),
			"index_path", cfg.Index.IndexPath, "metadata_path", cfg.Index.MetadataPath)
		os.Exit(1)
	}
	logger.Info(ctx, "Retrieval artifacts loaded", "vectors", st.Size(), "dimension", st.Dim())

	if cfg.Tracing.Enabled {
		shutdown, err := tracing.InitTracer(cfg.Tracing.ServiceName, cfg.Tracing.OTLPEndpoint)
		if err != nil {
			logger.Error(ctx, "Failed to init tracer", "error", err.Error())
			os.Exit(1)
		}
		defer func() {
			if err := shutdown(ctx); err != nil {
				logger.Error(ctx, "Failed to shutdown tracer", "error", err.Error())
			}
		}()
	}

	embedder, err := embedding.NewArkEmbedder(cfg.Ark.APIKey, cfg.Ark.EmbeddingModel, cfg.Ark.BaseURL, cfg.Ark.Region)
	if err != nil {
		logger.Error(ctx, "Failed to initialize embedder", "error", err.Error())
		os.Exit(1)
	}

	chat, err := arkmodel.NewChatModel(ctx, &arkmodel.ChatModelConfig{
		APIKey:      cfg.Ark.APIKey,
		Model:       cfg.Ark.ChatModel,
		BaseURL:     cfg.Ark.BaseURL,
		Region:      cfg.Ark.Region,
		MaxTokens:   &[]int{cfg.Ark.MaxTokens}[0],
		Temperature: &[]float32{float32(cfg.Ark.Temperature)}[0],
	})
	if err != nil {
		logger.Error(ctx, "Failed to initialize Ark ChatModel", "error", err.Error())
		os.Exit(1)
	}

	// Redis is optional; without it every request runs the full pipeline.
	var rdb *redis.Client
	if cfg.Redis.Host != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warn(ctx, "Redis unreachable, running without response cache", "error", err.Error())
			rdb = nil
		}
	}

	bm := metrics.NewBusinessMetrics(metrics.DefaultRegistry(), "advisor")
	svc := advisor.NewService(st, embedder, chat, rdb, cfg.Advisor, bm)
	handler := advisor.NewHandler(svc)

	if cfg.Server.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(otelgin.Middleware("advisor-service"))
	hm := metrics.NewHTTPMetrics(metrics.DefaultRegistry(), "advisor", "server")
	router.Use(metrics.MetricsMiddleware("server", hm))

	router.HandleMethodNotAllowed = true
	router.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "POST request required."})
	})

	router.GET("/metrics", gin.WrapH(metrics.MetricsHandler(metrics.DefaultRegistry())))
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "advisor", "vectors": st.Size(), "timestamp": time.Now().Unix()})
	})

	advisor.RegisterRoutes(router, handler)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		logger.Info(ctx, "Starting HTTP server", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error(ctx, "Failed to start server", "error", err.Error())
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info(ctx, "Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error(ctx, "Server forced to shutdown", "error", err.Error())
	}
	logger.Info(ctx, "Server exited")
}
