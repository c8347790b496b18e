package advisor

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/redis/go-redis/v9"

	"github.com/startuphub/startup-advisor/internal/common/models"
	"github.com/startuphub/startup-advisor/internal/embedding"
	"github.com/startuphub/startup-advisor/internal/index"
	"github.com/startuphub/startup-advisor/pkg/config"
	"github.com/startuphub/startup-advisor/pkg/logger"
	"github.com/startuphub/startup-advisor/pkg/metrics"
	"github.com/startuphub/startup-advisor/pkg/utils"
)

// FallbackMessage is returned when the generative step fails or emits
// something that does not decode as the structured shape. The request
// still succeeds; the user gets an empty suggestion list.
const FallbackMessage = "AI failed to return valid JSON"

// Retriever is the slice of the runtime store the service needs.
type Retriever interface {
	MetadataLookup
	NearestNeighbors(vec []float32, k int) ([]models.MetadataRecord, error)
}

// ChatModel is the generative capability. Satisfied by the Ark chat
// model and by fakes in tests.
type ChatModel interface {
	Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error)
}

// Service runs the full suggestion pipeline: greeting shortcut, cache,
// embed, retrieve, generate, parse, enrich, group.
type Service struct {
	store   Retriever
	embed   embedding.Embedder
	chat    ChatModel
	redis   *redis.Client
	cfg     config.AdvisorConfig
	metrics *metrics.BusinessMetrics
}

func NewService(store Retriever, embed embedding.Embedder, chat ChatModel, rdb *redis.Client, cfg config.AdvisorConfig, bm *metrics.BusinessMetrics) *Service {
	return &Service{store: store, embed: embed, chat: chat, redis: rdb, cfg: cfg, metrics: bm}
}

// Suggest answers one startup-idea prompt. baseURL is the scheme and
// host the caller reached us on, used to qualify logo image URLs.
func (s *Service) Suggest(ctx context.Context, prompt, baseURL string) (*models.StructuredResponse, error) {
	start := time.Now()
	resp, err := s.suggest(ctx, prompt, baseURL)
	status := "success"
	if err != nil {
		status = "error"
	}
	if s.metrics != nil {
		s.metrics.SuggestTotal.WithLabelValues("advisor", status).Inc()
		s.metrics.SuggestDuration.WithLabelValues("advisor", status).Observe(time.Since(start).Seconds())
	}
	return resp, err
}

func (s *Service) suggest(ctx context.Context, prompt, baseURL string) (*models.StructuredResponse, error) {
	trimmed := strings.TrimSpace(prompt)
	if trimmed == "" {
		return nil, ErrEmptyPrompt
	}

	// Greetings and small talk never touch the pipeline.
	if reply, ok := s.cfg.Greetings[strings.ToLower(trimmed)]; ok {
		return &models.StructuredResponse{Message: reply, Types: []models.TypeGroup{}}, nil
	}

	// Cached entries hold the parsed model output before enrichment;
	// logo URLs are qualified against the requester's host, so that
	// step reruns on every hit.
	ckey := s.cacheKey(trimmed)
	if s.redis != nil {
		if val, err := s.redis.Get(ctx, ckey).Result(); err == nil && val != "" {
			var cached models.StructuredResponse
			if err := sonic.Unmarshal([]byte(val), &cached); err == nil {
				s.enrichAndGroup(&cached, baseURL)
				return &cached, nil
			}
		}
	}

	logger.Info(ctx, "running suggestion pipeline", "prompt_preview", utils.TruncateToRunes(trimmed, 80))

	vec, err := s.embedQuery(ctx, trimmed)
	if err != nil {
		return nil, &UpstreamError{Step: "embed query", Err: err}
	}

	records, err := s.retrieve(vec)
	if err != nil {
		return nil, &UpstreamError{Step: "retrieve context", Err: err}
	}

	contexts := make([]string, 0, len(records))
	for i := range records {
		contexts = append(contexts, records[i].ContextText())
	}
	msgs := BuildMessages(s.cfg.Groups, strings.Join(contexts, "\n"), trimmed)

	resp := s.generate(ctx, msgs)
	if s.redis != nil && resp.Message != FallbackMessage {
		if data, err := sonic.Marshal(resp); err == nil {
			_ = s.redis.Set(ctx, ckey, string(data), s.cfg.CacheTTL).Err()
		}
	}

	s.enrichAndGroup(resp, baseURL)
	return resp, nil
}

// enrichAndGroup finalizes an answer for one request. It runs on both
// fresh and cached answers because the logo host comes from the
// request.
func (s *Service) enrichAndGroup(resp *models.StructuredResponse, baseURL string) {
	Enrich(resp, s.store, baseURL, s.cfg.StaticImagePath)
	GroupAndFilter(resp, s.cfg.Groups, s.cfg.IncludeEmptyGroups)
}

func (s *Service) embedQuery(ctx context.Context, query string) ([]float32, error) {
	if s.cfg.EmbedTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.EmbedTimeout)
		defer cancel()
	}
	vectors, err := s.embed.Embed(ctx, []string{query})
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("embedder returned no vectors")
	}
	vec := index.Float64sToFloat32s(vectors[0])
	if s.cfg.NormalizeQuery {
		vec = index.Normalize(vec)
	}
	return vec, nil
}

func (s *Service) retrieve(vec []float32) ([]models.MetadataRecord, error) {
	start := time.Now()
	records, err := s.store.NearestNeighbors(vec, s.cfg.TopK)
	status := "success"
	if err != nil {
		status = "error"
	}
	if s.metrics != nil {
		s.metrics.RetrievalTotal.WithLabelValues("advisor", status).Inc()
		s.metrics.RetrievalDuration.WithLabelValues("advisor", status).Observe(time.Since(start).Seconds())
	}
	return records, err
}

// generate runs the chat model and parses its output. Both generation
// errors and malformed output degrade to the fallback answer so one
// flaky upstream call never turns into a 500.
func (s *Service) generate(ctx context.Context, msgs []*schema.Message) *models.StructuredResponse {
	if s.cfg.GenerateTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.GenerateTimeout)
		defer cancel()
	}

	start := time.Now()
	out, err := s.chat.Generate(ctx, msgs)
	status := "success"
	if err != nil {
		status = "error"
	}
	if s.metrics != nil {
		s.metrics.GenerationTotal.WithLabelValues("advisor", status).Inc()
		s.metrics.GenerationDuration.WithLabelValues("advisor", status).Observe(time.Since(start).Seconds())
	}
	if err != nil {
		logger.Error(ctx, "generation failed, returning fallback", "error", err)
		return fallbackResponse()
	}

	resp, err := ParseStructured(out.Content)
	if err != nil {
		logger.Error(ctx, "model output did not parse, returning fallback", "error", err)
		return fallbackResponse()
	}
	return resp
}

func fallbackResponse() *models.StructuredResponse {
	return &models.StructuredResponse{Message: FallbackMessage, Types: []models.TypeGroup{}}
}

func (s *Service) cacheKey(prompt string) string {
	h := sha256.Sum256([]byte(prompt))
	return "advisor:suggest:" + hex.EncodeToString(h[:8])
}
