package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bytedance/sonic"

	"github.com/startuphub/startup-advisor/internal/common/models"
	"github.com/startuphub/startup-advisor/internal/export"
	"github.com/startuphub/startup-advisor/pkg/config"
	"github.com/startuphub/startup-advisor/pkg/database"
	"github.com/startuphub/startup-advisor/pkg/logger"
)

func main() {
	var outputPath = flag.String("output", "data/company_chunks.json", "output path for the chunks JSON")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Init()

	db, err := database.Init(&cfg.Database)
	if err != nil {
		logger.Error(ctx, "Failed to initialize database", "error", err.Error())
		os.Exit(1)
	}
	defer db.Close()

	var orgs []models.Organization
	if err := db.WithContext(ctx).Preload("Fields").Find(&orgs).Error; err != nil {
		logger.Error(ctx, "Failed to load organizations", "error", err.Error())
		os.Exit(1)
	}
	logger.Info(ctx, "Loaded organizations", "count", len(orgs))

	var types []models.FieldType
	if err := db.WithContext(ctx).Find(&types).Error; err != nil {
		logger.Error(ctx, "Failed to load category types", "error", err.Error())
		os.Exit(1)
	}
	if orphans := export.OrphanTags(orgs, types); len(orphans) > 0 {
		logger.Warn(ctx, "Field tags reference missing category types", "tags", strings.Join(orphans, ", "))
	}

	chunks := export.Export(orgs, cfg.Export.Domain, cfg.Export.ChunkWidth)
	if len(chunks) == 0 {
		logger.Error(ctx, "Export produced no chunks")
		os.Exit(1)
	}

	if err := writeChunks(chunks, *outputPath); err != nil {
		logger.Error(ctx, "Failed to write chunks file", "error", err.Error(), "path", *outputPath)
		os.Exit(1)
	}
	logger.Info(ctx, "Chunks exported", "organizations", len(orgs), "chunks", len(chunks), "path", *outputPath)
}

func writeChunks(chunks []models.Chunk, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := sonic.MarshalIndent(chunks, "", "  ")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".chunks-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
