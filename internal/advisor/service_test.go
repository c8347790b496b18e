package advisor

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/startuphub/startup-advisor/internal/common/models"
	"github.com/startuphub/startup-advisor/pkg/config"
)

type fakeRetriever struct {
	records []models.MetadataRecord
	byName  map[string]*models.MetadataRecord
	calls   int
}

func (f *fakeRetriever) NearestNeighbors(_ []float32, k int) ([]models.MetadataRecord, error) {
	f.calls++
	if k > len(f.records) {
		k = len(f.records)
	}
	return f.records[:k], nil
}

func (f *fakeRetriever) MetadataByName(name string) (*models.MetadataRecord, bool) {
	rec, ok := f.byName[name]
	return rec, ok
}

type fakeQueryEmbedder struct {
	calls int
	err   error
}

func (f *fakeQueryEmbedder) Embed(_ context.Context, inputs []string) ([][]float64, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float64, len(inputs))
	for i := range inputs {
		out[i] = []float64{1, 0, 0}
	}
	return out, nil
}

type fakeChat struct {
	content string
	err     error
	calls   int
	lastIn  []*schema.Message
}

func (f *fakeChat) Generate(_ context.Context, input []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	f.calls++
	f.lastIn = input
	if f.err != nil {
		return nil, f.err
	}
	return &schema.Message{Role: schema.Assistant, Content: f.content}, nil
}

func testConfig() config.AdvisorConfig {
	return config.AdvisorConfig{
		TopK:            2,
		StaticImagePath: "/static/images/",
		Groups:          []string{"Funding", "Mentoring", "Events"},
		Greetings: map[string]string{
			"hi": "Hello! Tell me about your startup idea.",
		},
	}
}

func testStore() *fakeRetriever {
	acme := &models.MetadataRecord{
		Name:         "Acme",
		Fields:       models.FieldList{"Funding"},
		WebsiteURL:   "https://acme.example",
		LogoImageURL: "acme.png",
		PreparedText: "Acme is associated with the fields: Funding. funds early ideas",
	}
	return &fakeRetriever{
		records: []models.MetadataRecord{*acme},
		byName:  map[string]*models.MetadataRecord{"Acme": acme},
	}
}

func TestSuggestEmptyPrompt(t *testing.T) {
	svc := NewService(testStore(), &fakeQueryEmbedder{}, &fakeChat{}, nil, testConfig(), nil)
	if _, err := svc.Suggest(context.Background(), "   ", "http://h.example"); err != ErrEmptyPrompt {
		t.Fatalf("expected ErrEmptyPrompt, got %v", err)
	}
}

func TestSuggestGreetingSkipsPipeline(t *testing.T) {
	embed := &fakeQueryEmbedder{}
	chat := &fakeChat{}
	store := testStore()
	svc := NewService(store, embed, chat, nil, testConfig(), nil)

	resp, err := svc.Suggest(context.Background(), "  Hi  ", "http://h.example")
	if err != nil {
		t.Fatalf("suggest: %v", err)
	}
	if resp.Message != "Hello! Tell me about your startup idea." {
		t.Fatalf("wrong greeting reply: %q", resp.Message)
	}
	if len(resp.Types) != 0 {
		t.Fatalf("greeting must carry no groups: %+v", resp.Types)
	}
	if embed.calls != 0 || chat.calls != 0 || store.calls != 0 {
		t.Fatalf("greeting must not touch the pipeline: embed=%d chat=%d store=%d", embed.calls, chat.calls, store.calls)
	}
}

func TestSuggestFullPipeline(t *testing.T) {
	chat := &fakeChat{content: `{"message":"these can help","types":[{"type":"Funding","companies":[{"name":"Acme","reason":"funds early ideas","fields":[]}]}]}`}
	svc := NewService(testStore(), &fakeQueryEmbedder{}, chat, nil, testConfig(), nil)

	resp, err := svc.Suggest(context.Background(), "an app for farmers", "http://h.example")
	if err != nil {
		t.Fatalf("suggest: %v", err)
	}
	if resp.Message != "these can help" {
		t.Fatalf("wrong message: %q", resp.Message)
	}
	if len(resp.Types) != 1 || resp.Types[0].Type != "Funding" {
		t.Fatalf("wrong grouping: %+v", resp.Types)
	}
	acme := resp.Types[0].Companies[0]
	if acme.WebsiteURL != "https://acme.example" || len(acme.Fields) != 1 {
		t.Fatalf("enrichment missing: %+v", acme)
	}
	if acme.LogoImageURL != "http://h.example/static/images/acme.png" {
		t.Fatalf("logo not qualified against request host: %q", acme.LogoImageURL)
	}

	// the model must have seen the retrieved context and the verbatim question
	if len(chat.lastIn) != 2 {
		t.Fatalf("expected system+user messages, got %d", len(chat.lastIn))
	}
	user := chat.lastIn[1].Content
	if !strings.Contains(user, "funds early ideas") || !strings.Contains(user, "an app for farmers") {
		t.Fatalf("context or question missing from user message: %q", user)
	}
}

func TestSuggestFallbackOnBadModelOutput(t *testing.T) {
	for name, chat := range map[string]*fakeChat{
		"prose":    {content: "Sure, here are some ideas..."},
		"upstream": {err: fmt.Errorf("model unavailable")},
	} {
		t.Run(name, func(t *testing.T) {
			svc := NewService(testStore(), &fakeQueryEmbedder{}, chat, nil, testConfig(), nil)
			resp, err := svc.Suggest(context.Background(), "an app for farmers", "http://h.example")
			if err != nil {
				t.Fatalf("fallback must not be an error: %v", err)
			}
			if resp.Message != FallbackMessage {
				t.Fatalf("expected fallback message, got %q", resp.Message)
			}
			if len(resp.Types) != 0 {
				t.Fatalf("fallback must carry no groups: %+v", resp.Types)
			}
		})
	}
}

func TestSuggestEmbedFailureIsError(t *testing.T) {
	embed := &fakeQueryEmbedder{err: fmt.Errorf("embedding service down")}
	svc := NewService(testStore(), embed, &fakeChat{}, nil, testConfig(), nil)
	if _, err := svc.Suggest(context.Background(), "an app for farmers", "http://h.example"); err == nil {
		t.Fatalf("embed failure must surface as error")
	}
}

// Cached answers store the model output before enrichment, so the
// logo host must always come from the request at hand, not from
// whichever request produced the entry.
func TestEnrichmentUsesRequestHost(t *testing.T) {
	svc := NewService(testStore(), &fakeQueryEmbedder{}, &fakeChat{}, nil, testConfig(), nil)
	stored := `{"message":"ok","types":[{"type":"Funding","companies":[{"name":"Acme","reason":"fits","fields":[]}]}]}`

	for _, base := range []string{"http://first.example", "https://second.example"} {
		var resp models.StructuredResponse
		if err := sonic.Unmarshal([]byte(stored), &resp); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		svc.enrichAndGroup(&resp, base)
		got := resp.Types[0].Companies[0].LogoImageURL
		want := base + "/static/images/acme.png"
		if got != want {
			t.Fatalf("logo qualified against wrong host: got %q, want %q", got, want)
		}
	}
}

func TestSuggestIncludeEmptyGroups(t *testing.T) {
	cfg := testConfig()
	cfg.IncludeEmptyGroups = true
	chat := &fakeChat{content: `{"message":"ok","types":[{"type":"Funding","companies":[{"name":"Acme","reason":"fits","fields":[]}]}]}`}
	svc := NewService(testStore(), &fakeQueryEmbedder{}, chat, nil, cfg, nil)

	resp, err := svc.Suggest(context.Background(), "an app for farmers", "http://h.example")
	if err != nil {
		t.Fatalf("suggest: %v", err)
	}
	if len(resp.Types) != 3 {
		t.Fatalf("expected all groups padded, got %+v", resp.Types)
	}
	if resp.Types[2].Type != "Events" || len(resp.Types[2].Companies) != 0 {
		t.Fatalf("empty group not padded: %+v", resp.Types[2])
	}
}
