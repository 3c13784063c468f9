// Package extractor derives a structured lead profile from a conversation
// transcript. The backend is prompted for strict JSON but its output is
// treated as hostile: everything is salvaged and normalized, and the
// extractor never fails outward. On any internal error the caller receives
// the fixed fallback record plus an error describing what went wrong, which
// the pipeline logs and moves past.
package extractor

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/MikeSquared-Agency/usher/internal/chat"
	"github.com/MikeSquared-Agency/usher/internal/openai"
	"github.com/MikeSquared-Agency/usher/internal/salvage"
)

type Extractor struct {
	llm    *openai.Client
	logger *slog.Logger
}

func New(llm *openai.Client, logger *slog.Logger) *Extractor {
	return &Extractor{llm: llm, logger: logger}
}

// Extract runs the extraction prompt over the full transcript and returns a
// total Lead. The returned error is informational: when it is non-nil the
// Lead is the fallback record (or a partially-defaulted one), never garbage.
// The full transcript goes to the backend each call so it can reconstruct
// cumulative state; previously collected fields are preserved by prompt rule,
// not by merging records here.
func (e *Extractor) Extract(ctx context.Context, messages []chat.Message) (Lead, error) {
	transcriptJSON, err := json.MarshalIndent(messages, "", "  ")
	if err != nil {
		return FallbackLead(), fmt.Errorf("marshal transcript: %w", err)
	}

	prompted := []chat.Message{
		{Role: chat.RoleSystem, Content: extractionSystemPrompt},
		{Role: chat.RoleUser, Content: fmt.Sprintf(extractionUserPrompt, transcriptJSON)},
	}

	raw, err := e.llm.Complete(ctx, prompted, 0)
	if err != nil {
		return FallbackLead(), fmt.Errorf("extraction backend: %w", err)
	}

	value, err := salvage.Object(raw)
	if err != nil {
		e.logger.Warn("could not salvage extraction output", "error", err, "raw_len", len(raw))
		return FallbackLead(), fmt.Errorf("salvage extraction: %w", err)
	}

	lead, ok := Normalize(value)
	if !ok {
		e.logger.Warn("extraction output had unusable shape", "raw_len", len(raw))
		return lead, fmt.Errorf("normalize extraction: unusable shape")
	}

	e.logger.Debug("lead extracted",
		"intent", lead.Intent,
		"lead_score", lead.LeadScore,
		"lead_temperature", lead.LeadTemperature,
	)
	return lead, nil
}

// Normalize collapses whatever shape the backend produced into a total Lead.
// Three variants: an object is decoded field by field, a list yields its
// first object element, anything else is unparseable and yields the fallback.
// The boolean reports whether a usable object was found.
func Normalize(value any) (Lead, bool) {
	switch v := value.(type) {
	case map[string]any:
		return leadFromMap(v), true
	case []any:
		for _, item := range v {
			if obj, ok := item.(map[string]any); ok {
				return leadFromMap(obj), true
			}
		}
		return FallbackLead(), false
	default:
		return FallbackLead(), false
	}
}

func leadFromMap(m map[string]any) Lead {
	return Lead{
		Name:            strField(m, "name", ValueUnknown),
		Email:           strField(m, "email", ValueUnknown),
		Phone:           strField(m, "phone", ValueUnknown),
		Intent:          strField(m, "intent", IntentOther),
		ServiceInterest: strField(m, "service_interest", ValueUnknown),
		BudgetRange:     strField(m, "budget_range", ValueUnknown),
		Timeline:        strField(m, "timeline", ValueUnknown),
		UrgencyLevel:    strField(m, "urgency_level", "medium"),
		LeadScore:       scoreField(m, "lead_score", 50),
		LeadTemperature: strField(m, "lead_temperature", TemperatureWarm),
		AISummary:       strField(m, "ai_summary", ""),
		SuggestedAction: strField(m, "suggested_action", "Review manually"),
	}
}

func strField(m map[string]any, key, fallback string) string {
	if s, ok := m[key].(string); ok && s != "" {
		return s
	}
	return fallback
}

// scoreField accepts a JSON number or a numeric string and clamps to 0..100.
func scoreField(m map[string]any, key string, fallback int) int {
	var score int
	switch v := m[key].(type) {
	case float64:
		score = int(v)
	case string:
		n := 0
		if _, err := fmt.Sscanf(v, "%d", &n); err != nil {
			return fallback
		}
		score = n
	default:
		return fallback
	}

	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
