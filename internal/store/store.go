package store

import (
	"context"
	"fmt"
	"os"

	"github.com/bytedance/sonic"

	"github.com/startuphub/startup-advisor/internal/common/models"
	"github.com/startuphub/startup-advisor/internal/index"
	"github.com/startuphub/startup-advisor/pkg/logger"
)

// Store is the process-wide read-only retrieval state: the vector
// index, its position-aligned metadata table, and a name lookup map.
// It is loaded once at startup and never mutated afterwards, so
// concurrent readers need no locking.
type Store struct {
	idx      *index.FlatIndex
	metadata []models.MetadataRecord
	byName   map[string]int
}

// New validates index/metadata alignment and precomputes the name
// map. Duplicate names keep the first record and are logged, since the
// name is the enrichment join key.
func New(idx *index.FlatIndex, metadata []models.MetadataRecord) (*Store, error) {
	if idx.Len() != len(metadata) {
		return nil, fmt.Errorf("index size %d does not match metadata length %d", idx.Len(), len(metadata))
	}

	byName := make(map[string]int, len(metadata))
	for i := range metadata {
		name := metadata[i].Name
		if name == "" {
			continue
		}
		if _, exists := byName[name]; exists {
			logger.Warn(context.Background(), "duplicate organization name in metadata, keeping first", "name", name, "position", i)
			continue
		}
		byName[name] = i
	}

	return &Store{idx: idx, metadata: metadata, byName: byName}, nil
}

// Load reads both artifacts from disk. Called exactly once at process
// start; a failure here is fatal to the service.
func Load(indexPath, metadataPath string) (*Store, error) {
	idx, err := index.Load(indexPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load vector index: %w", err)
	}

	data, err := os.ReadFile(metadataPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata file: %w", err)
	}
	var metadata []models.MetadataRecord
	if err := sonic.Unmarshal(data, &metadata); err != nil {
		return nil, fmt.Errorf("failed to parse metadata file: %w", err)
	}

	return New(idx, metadata)
}

func (s *Store) Size() int { return s.idx.Len() }

func (s *Store) Dim() int { return s.idx.Dim() }

// NearestNeighbors returns the metadata records of the k closest
// vectors, ascending by distance, ties in insertion order.
func (s *Store) NearestNeighbors(vec []float32, k int) ([]models.MetadataRecord, error) {
	results, err := s.idx.Search(vec, k)
	if err != nil {
		return nil, err
	}
	records := make([]models.MetadataRecord, 0, len(results))
	for _, r := range results {
		records = append(records, s.metadata[r.Position])
	}
	return records, nil
}

// MetadataByName resolves an organization by its exact, case-sensitive
// display name.
func (s *Store) MetadataByName(name string) (*models.MetadataRecord, bool) {
	pos, ok := s.byName[name]
	if !ok {
		return nil, false
	}
	return &s.metadata[pos], true
}
