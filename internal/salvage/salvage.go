// Package salvage recovers a JSON object from unreliable model output. The
// extraction backend is prompted to return strict JSON but routinely wraps it
// in markdown fences or surrounds it with commentary; this package handles
// those failure modes without attempting anything smarter.
package salvage

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrNoJSON is returned when no JSON object can be recovered from the text.
var ErrNoJSON = errors.New("no valid JSON object in text")

// Object recovers a JSON value from raw model output. Strategy, first success
// wins: strip code fences and parse the whole text, then parse the substring
// between the first '{' and last '}'.
//
// The decoded value is returned as produced by encoding/json — usually a
// map[string]any, but a fenced top-level array decodes to []any. Callers
// normalize the shape.
func Object(text string) (any, error) {
	cleaned := strings.TrimSpace(text)
	if cleaned == "" {
		return nil, fmt.Errorf("empty text: %w", ErrNoJSON)
	}

	if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```")
		cleaned = strings.TrimPrefix(cleaned, "json")
		cleaned = strings.TrimSuffix(strings.TrimSpace(cleaned), "```")
		cleaned = strings.TrimSpace(cleaned)
	}

	var v any
	if err := json.Unmarshal([]byte(cleaned), &v); err == nil {
		return v, nil
	}

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start != -1 && end != -1 && start < end {
		if err := json.Unmarshal([]byte(cleaned[start:end+1]), &v); err == nil {
			return v, nil
		}
	}

	return nil, ErrNoJSON
}
