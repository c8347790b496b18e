package advisor

import (
	"fmt"
	"strings"

	"github.com/bytedance/sonic"

	"github.com/startuphub/startup-advisor/internal/common/models"
)

// StripCodeFence removes a single surrounding markdown code fence,
// with or without a language tag. Content without a fence passes
// through untouched.
func StripCodeFence(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```")
	if nl := strings.IndexByte(trimmed, '\n'); nl >= 0 {
		first := strings.TrimSpace(trimmed[:nl])
		// language tag like "json" on the opening fence line
		if first != "" && !strings.ContainsAny(first, "{[") {
			trimmed = trimmed[nl+1:]
		}
	}
	trimmed = strings.TrimSpace(trimmed)
	trimmed = strings.TrimSuffix(trimmed, "```")
	return strings.TrimSpace(trimmed)
}

// ParseStructured decodes the model's answer into the structured
// response shape. Any decode failure is surfaced to the caller, which
// degrades to the fallback answer.
func ParseStructured(raw string) (*models.StructuredResponse, error) {
	cleaned := StripCodeFence(raw)
	if cleaned == "" {
		return nil, fmt.Errorf("empty model output")
	}
	var resp models.StructuredResponse
	if err := sonic.Unmarshal([]byte(cleaned), &resp); err != nil {
		return nil, fmt.Errorf("model output is not valid JSON: %w", err)
	}
	return &resp, nil
}
