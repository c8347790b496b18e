package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/bytedance/sonic"

	"github.com/startuphub/startup-advisor/internal/common/models"
	"github.com/startuphub/startup-advisor/internal/embedding"
	"github.com/startuphub/startup-advisor/internal/index"
	"github.com/startuphub/startup-advisor/pkg/config"
	"github.com/startuphub/startup-advisor/pkg/logger"
	"github.com/startuphub/startup-advisor/pkg/rabbitmq"
)

func main() {
	var (
		inputPath    = flag.String("input", "data/company_chunks.json", "path to the exported chunks JSON")
		indexPath    = flag.String("index-path", "", "output path for the vector index (defaults to config)")
		metadataPath = flag.String("metadata-path", "", "output path for the metadata JSON (defaults to config)")
	)
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Init()

	if cfg.Ark.APIKey == "" {
		logger.Error(ctx, "ARK_API_KEY is not configured")
		os.Exit(1)
	}

	if *indexPath == "" {
		*indexPath = cfg.Index.IndexPath
	}
	if *metadataPath == "" {
		*metadataPath = cfg.Index.MetadataPath
	}

	data, err := os.ReadFile(*inputPath)
	if err != nil {
		logger.Error(ctx, "Failed to read chunks file", "error", err.Error(), "path", *inputPath)
		os.Exit(1)
	}
	var chunks []models.Chunk
	if err := sonic.Unmarshal(data, &chunks); err != nil {
		logger.Error(ctx, "Failed to parse chunks file", "error", err.Error(), "path", *inputPath)
		os.Exit(1)
	}
	logger.Info(ctx, "Loaded chunks", "count", len(chunks), "path", *inputPath)

	embedder, err := embedding.NewArkEmbedder(cfg.Ark.APIKey, cfg.Ark.EmbeddingModel, cfg.Ark.BaseURL, cfg.Ark.Region)
	if err != nil {
		logger.Error(ctx, "Failed to initialize embedder", "error", err.Error())
		os.Exit(1)
	}

	builder := index.NewBuilder(embedder)
	idx, metadata, err := builder.Build(ctx, chunks)
	if err != nil {
		logger.Error(ctx, "Index build failed", "error", err.Error())
		os.Exit(1)
	}

	if err := index.SaveArtifacts(idx, metadata, *indexPath, *metadataPath); err != nil {
		logger.Error(ctx, "Failed to save artifacts", "error", err.Error())
		os.Exit(1)
	}
	logger.Info(ctx, "Index rebuilt", "vectors", idx.Len(), "dimension", idx.Dim(),
		"index_path", *indexPath, "metadata_path", *metadataPath)

	// Notify consumers so serving processes can pick up the new
	// artifacts. Best effort; the rebuild itself already succeeded.
	if cfg.RabbitMQ.URL != "" {
		notifyRebuilt(ctx, cfg, idx.Len(), *indexPath, *metadataPath)
	}
}

func notifyRebuilt(ctx context.Context, cfg *config.Config, vectors int, indexPath, metadataPath string) {
	client, err := rabbitmq.NewClient(cfg.RabbitMQ.URL, cfg.RabbitMQ.Queue)
	if err != nil {
		logger.Warn(ctx, "Failed to connect to RabbitMQ, skipping notification", "error", err.Error())
		return
	}
	defer client.Close()

	body, err := sonic.Marshal(map[string]interface{}{
		"event":         "index_rebuilt",
		"vectors":       vectors,
		"index_path":    indexPath,
		"metadata_path": metadataPath,
	})
	if err != nil {
		logger.Warn(ctx, "Failed to encode notification", "error", err.Error())
		return
	}
	if err := client.Publish(ctx, body); err != nil {
		logger.Warn(ctx, "Failed to publish notification", "error", err.Error())
		return
	}
	logger.Info(ctx, "Published rebuild notification", "queue", cfg.RabbitMQ.Queue)
}
