package export

import (
	"strings"
	"testing"

	"github.com/startuphub/startup-advisor/internal/common/models"
)

func TestExportStripsDuplicateName(t *testing.T) {
	orgs := []models.Organization{{
		ID:          1,
		Name:        "Acme",
		Description: "Acme helps founders network.",
		Fields:      []models.Field{{ID: 1, Name: "Networking"}},
	}}
	chunks := Export(orgs, "Culture", 500)
	if len(chunks) != 1 {
		t.Fatalf("expect 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Text != "Acme operates in Culture. helps founders network." {
		t.Fatalf("unexpected chunk text: %q", chunks[0].Text)
	}
	if chunks[0].OrgID != 1 {
		t.Fatalf("chunk not traceable to org: %d", chunks[0].OrgID)
	}
	if len(chunks[0].Fields) != 1 || chunks[0].Fields[0] != "Networking" {
		t.Fatalf("field tags not carried: %v", chunks[0].Fields)
	}
}

func TestExportSplitsLongText(t *testing.T) {
	orgs := []models.Organization{{
		ID:          2,
		Name:        "Longco",
		Description: strings.Repeat("word ", 300),
	}}
	chunks := Export(orgs, "Culture", 500)
	if len(chunks) < 2 {
		t.Fatalf("expect multiple chunks, got %d", len(chunks))
	}
	for _, c := range chunks {
		if len(c.Text) > 500 {
			t.Fatalf("chunk exceeds width: %d", len(c.Text))
		}
		if c.OrgID != 2 {
			t.Fatalf("chunk lost org id")
		}
	}
}

func TestExportNamelessOrg(t *testing.T) {
	orgs := []models.Organization{{ID: 3, Description: "does things"}}
	chunks := Export(orgs, "Culture", 500)
	if len(chunks) != 1 {
		t.Fatalf("expect 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Text != "This company operates in Culture. does things" {
		t.Fatalf("unexpected text: %q", chunks[0].Text)
	}
}

func TestExportDeterministic(t *testing.T) {
	orgs := []models.Organization{
		{ID: 1, Name: "A", Description: "alpha beta gamma"},
		{ID: 2, Name: "B", Description: "delta epsilon"},
	}
	first := Export(orgs, "Culture", 20)
	second := Export(orgs, "Culture", 20)
	if len(first) != len(second) {
		t.Fatalf("rerun changed chunk count: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Text != second[i].Text {
			t.Fatalf("rerun changed chunk %d: %q vs %q", i, first[i].Text, second[i].Text)
		}
	}
}

func TestSentenceNormalizesDescriptionNoise(t *testing.T) {
	org := &models.Organization{
		Name:        "Acme",
		Description: "Acme\r\n\thelps founders\r\nnetwork.",
	}
	got := Sentence(org, "Culture")
	if got != "Acme operates in Culture. helps founders\nnetwork." {
		t.Fatalf("description not normalized: %q", got)
	}
}

func TestOrphanTags(t *testing.T) {
	orgs := []models.Organization{
		{ID: 1, Fields: []models.Field{
			{ID: 1, Name: "Networking", TypeID: 10},
			{ID: 2, Name: "Ghost", TypeID: 99},
		}},
		{ID: 2, Fields: []models.Field{
			{ID: 2, Name: "Ghost", TypeID: 99},
		}},
	}
	types := []models.FieldType{{ID: 10, Name: "Community"}}

	orphans := OrphanTags(orgs, types)
	if len(orphans) != 1 || orphans[0] != "Ghost" {
		t.Fatalf("unexpected orphans: %v", orphans)
	}
	if orphans = OrphanTags(orgs, append(types, models.FieldType{ID: 99, Name: "Other"})); len(orphans) != 0 {
		t.Fatalf("no orphans expected when all types resolve: %v", orphans)
	}
}

func TestWrapTextWordBoundaries(t *testing.T) {
	segs := WrapText("aa bb cc dd", 5)
	if len(segs) != 2 || segs[0] != "aa bb" || segs[1] != "cc dd" {
		t.Fatalf("unexpected segments: %v", segs)
	}
	segs = WrapText("abcdefgh", 3)
	if len(segs) != 3 || segs[0] != "abc" || segs[2] != "gh" {
		t.Fatalf("long word not hard-split: %v", segs)
	}
}
