package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bytedance/sonic"

	"github.com/startuphub/startup-advisor/internal/common/models"
	"github.com/startuphub/startup-advisor/internal/index"
)

func buildIndex(t *testing.T, vecs [][]float32) *index.FlatIndex {
	t.Helper()
	idx, err := index.New(len(vecs[0]))
	if err != nil {
		t.Fatalf("new index: %v", err)
	}
	for _, v := range vecs {
		if err := idx.Add(v); err != nil {
			t.Fatalf("add: %v", err)
		}
	}
	return idx
}

func TestNewRejectsMisalignedArtifacts(t *testing.T) {
	idx := buildIndex(t, [][]float32{{1, 0}, {0, 1}})
	if _, err := New(idx, []models.MetadataRecord{{Name: "only one"}}); err == nil {
		t.Fatalf("expected alignment error")
	}
}

func TestNearestNeighborsOrder(t *testing.T) {
	idx := buildIndex(t, [][]float32{{0, 1}, {1, 0}, {0.1, 0.9}})
	metadata := []models.MetadataRecord{
		{Name: "up", PreparedText: "up text"},
		{Name: "right", PreparedText: "right text"},
		{Name: "mostly-up", PreparedText: "mostly up text"},
	}
	s, err := New(idx, metadata)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	records, err := s.NearestNeighbors([]float32{0, 1}, 2)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expect 2 records, got %d", len(records))
	}
	if records[0].Name != "up" || records[1].Name != "mostly-up" {
		t.Fatalf("wrong retrieval order: %s, %s", records[0].Name, records[1].Name)
	}
}

func TestMetadataByNameFirstWins(t *testing.T) {
	idx := buildIndex(t, [][]float32{{1}, {2}})
	metadata := []models.MetadataRecord{
		{Name: "Acme", Description: "first"},
		{Name: "Acme", Description: "second"},
	}
	s, err := New(idx, metadata)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	rec, ok := s.MetadataByName("Acme")
	if !ok {
		t.Fatalf("name not found")
	}
	if rec.Description != "first" {
		t.Fatalf("duplicate did not keep first record: %s", rec.Description)
	}
	if _, ok := s.MetadataByName("acme"); ok {
		t.Fatalf("lookup must be case-sensitive")
	}
}

func TestLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	indexPath := filepath.Join(dir, "test.index")
	metadataPath := filepath.Join(dir, "test_metadata.json")

	idx := buildIndex(t, [][]float32{{1, 0}, {0, 1}})
	metadata := []models.MetadataRecord{
		{OrgID: 1, Name: "A", Fields: models.FieldList{"Funding"}, PreparedText: "a text"},
		{OrgID: 2, Name: "B", Fields: models.FieldList{"Events"}, PreparedText: "b text"},
	}
	if err := index.SaveArtifacts(idx, metadata, indexPath, metadataPath); err != nil {
		t.Fatalf("save: %v", err)
	}

	s, err := Load(indexPath, metadataPath)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if s.Size() != 2 || s.Dim() != 2 {
		t.Fatalf("store shape wrong: size=%d dim=%d", s.Size(), s.Dim())
	}
	rec, ok := s.MetadataByName("B")
	if !ok || rec.PreparedText != "b text" {
		t.Fatalf("metadata lost on round trip: %+v", rec)
	}
}

func TestLoadFailsOnMissingArtifacts(t *testing.T) {
	dir := t.TempDir()
	if _, err := Load(filepath.Join(dir, "missing.index"), filepath.Join(dir, "missing.json")); err == nil {
		t.Fatalf("expected error for missing artifacts")
	}
}

func TestLoadFailsOnLengthMismatch(t *testing.T) {
	dir := t.TempDir()
	indexPath := filepath.Join(dir, "test.index")
	metadataPath := filepath.Join(dir, "test_metadata.json")

	idx := buildIndex(t, [][]float32{{1, 0}, {0, 1}})
	if err := idx.Save(indexPath); err != nil {
		t.Fatalf("save index: %v", err)
	}
	short, err := sonic.Marshal([]models.MetadataRecord{{Name: "only one"}})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := os.WriteFile(metadataPath, short, 0o644); err != nil {
		t.Fatalf("write metadata: %v", err)
	}

	if _, err := Load(indexPath, metadataPath); err == nil {
		t.Fatalf("expected length mismatch error")
	}
}
