package index

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bytedance/sonic"

	"github.com/startuphub/startup-advisor/internal/common/models"
	"github.com/startuphub/startup-advisor/internal/embedding"
)

// Builder turns chunk records into a flat index plus its
// position-aligned metadata table. Any embedding failure aborts the
// whole build; nothing is persisted by Build itself.
type Builder struct {
	embed embedding.Embedder
}

func NewBuilder(embed embedding.Embedder) *Builder {
	return &Builder{embed: embed}
}

// PreparedText is the enriched text that actually gets embedded:
// the organization's tags inline, then the description. Records that
// already carry prepared text keep it; records with neither name nor
// tags fall back to their raw chunk text.
func PreparedText(c *models.Chunk) string {
	if strings.TrimSpace(c.PreparedText) != "" {
		return c.PreparedText
	}
	if c.Name != "" && len(c.Fields) > 0 {
		body := strings.TrimSpace(c.Description)
		if body == "" {
			body = strings.TrimSpace(c.Text)
		}
		return strings.TrimSpace(fmt.Sprintf("%s is associated with the fields: %s. %s",
			c.Name, strings.Join(c.Fields, ", "), body))
	}
	return c.Text
}

// Build embeds every record and assembles the index and metadata
// table. Position i in both refers to the same chunk. The build fails
// if the embedder returns vectors of differing dimensions.
func (b *Builder) Build(ctx context.Context, records []models.Chunk) (*FlatIndex, []models.MetadataRecord, error) {
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("no records to index")
	}

	texts := make([]string, len(records))
	for i := range records {
		texts[i] = PreparedText(&records[i])
		if strings.TrimSpace(texts[i]) == "" {
			return nil, nil, fmt.Errorf("record %d (%s) has empty text", i, records[i].Name)
		}
	}

	vectors, err := b.embed.Embed(ctx, texts)
	if err != nil {
		return nil, nil, fmt.Errorf("embedding failed: %w", err)
	}
	if len(vectors) != len(records) {
		return nil, nil, fmt.Errorf("embedder returned %d vectors for %d records", len(vectors), len(records))
	}

	dim := len(vectors[0])
	idx, err := New(dim)
	if err != nil {
		return nil, nil, err
	}

	metadata := make([]models.MetadataRecord, 0, len(records))
	for i, vec := range vectors {
		if len(vec) != dim {
			return nil, nil, fmt.Errorf("embedding dimension mismatch at record %d: got %d, want %d", i, len(vec), dim)
		}
		if err := idx.Add(Float64sToFloat32s(vec)); err != nil {
			return nil, nil, err
		}
		c := &records[i]
		metadata = append(metadata, models.MetadataRecord{
			OrgID:        c.OrgID,
			Name:         c.Name,
			Fields:       c.Fields,
			Description:  c.Description,
			WebsiteURL:   c.WebsiteURL,
			Email:        c.Email,
			Phone:        c.Phone,
			FacebookURL:  c.FacebookURL,
			Address:      c.Address,
			LogoImageURL: c.LogoImageURL,
			PreparedText: texts[i],
			Text:         c.Text,
		})
	}

	return idx, metadata, nil
}

// SaveArtifacts publishes the index/metadata pair. Both files go
// through temp-and-rename so a crash mid-write never leaves partial
// artifacts under the final paths.
func SaveArtifacts(idx *FlatIndex, metadata []models.MetadataRecord, indexPath, metadataPath string) error {
	if idx.Len() != len(metadata) {
		return fmt.Errorf("index size %d does not match metadata length %d", idx.Len(), len(metadata))
	}
	if err := idx.Save(indexPath); err != nil {
		return fmt.Errorf("failed to save index: %w", err)
	}
	if err := saveMetadata(metadata, metadataPath); err != nil {
		return fmt.Errorf("failed to save metadata: %w", err)
	}
	return nil
}

func saveMetadata(metadata []models.MetadataRecord, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	data, err := sonic.MarshalIndent(metadata, "", "  ")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".metadata-*")
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
