package models

import (
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
)

// FieldList is a category-tag list that tolerates legacy artifacts
// where a single tag was stored as a bare string instead of an array.
type FieldList []string

func (f *FieldList) UnmarshalJSON(data []byte) error {
	var list []string
	if err := sonic.Unmarshal(data, &list); err == nil {
		*f = list
		return nil
	}
	var single string
	if err := sonic.Unmarshal(data, &single); err == nil {
		if single == "" {
			*f = nil
		} else {
			*f = []string{single}
		}
		return nil
	}
	return fmt.Errorf("fieldId is neither a string array nor a string: %s", string(data))
}

// Chunk is one embeddable text unit derived from a single
// organization. Chunks are regenerated wholesale on every export run,
// never edited in place.
type Chunk struct {
	OrgID        int64     `json:"id"`
	Name         string    `json:"name"`
	Fields       FieldList `json:"fieldId,omitempty"`
	Description  string    `json:"description,omitempty"`
	WebsiteURL   string    `json:"websiteUrl,omitempty"`
	Email        string    `json:"email,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	FacebookURL  string    `json:"facebookUrl,omitempty"`
	Address      string    `json:"address,omitempty"`
	LogoImageURL string    `json:"logoImageUrl,omitempty"`
	Text         string    `json:"text"`
	PreparedText string    `json:"prepared_text,omitempty"`
}

// MetadataRecord is the position-aligned sidecar of one index vector.
// It carries both the text re-surfaced as LLM context and every
// authoritative attribute the enrichment step may copy.
type MetadataRecord struct {
	OrgID        int64     `json:"id"`
	Name         string    `json:"name"`
	Fields       FieldList `json:"fieldId"`
	Description  string    `json:"description,omitempty"`
	WebsiteURL   string    `json:"websiteUrl,omitempty"`
	Email        string    `json:"email,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	FacebookURL  string    `json:"facebookUrl,omitempty"`
	Address      string    `json:"address,omitempty"`
	LogoImageURL string    `json:"logoImageUrl,omitempty"`
	PreparedText string    `json:"prepared_text"`
	Text         string    `json:"text,omitempty"`
}

// ContextText is the text handed to the generative model for this
// record.
func (m *MetadataRecord) ContextText() string {
	if strings.TrimSpace(m.PreparedText) != "" {
		return m.PreparedText
	}
	return m.Text
}
