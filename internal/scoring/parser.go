package scoring

import (
	"encoding/json"
	"strings"

	"github.com/hireflow/hireflow/internal/types"
)

// Fallback record contents, substituted whenever the model's output cannot
// be structurally parsed.
const (
	fallbackScore          = 30
	fallbackPositive       = "Basic info extracted"
	fallbackNegative       = "AI couldn't parse feedback"
	fallbackRecommendation = "Please review CV relevance manually"
)

// ParseRecord extracts a structured scoring record from raw model output.
// Generative text often wraps JSON in prose or markdown fencing, so the
// substring between the first '{' and the last '}' (inclusive) is parsed;
// only output with no braces at all is unlocatable. Parse degradation is
// data, not an error: malformed output resolves to a fixed fallback record
// so a bad completion never aborts the pipeline for a single candidate.
func ParseRecord(raw string) types.ScoringRecord {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end < start {
		return fallbackRecord(raw)
	}

	var parsed map[string]any
	if err := json.Unmarshal([]byte(raw[start:end+1]), &parsed); err != nil {
		return fallbackRecord(raw)
	}

	record := types.NewScoringRecord()
	if summary, ok := parsed["summary"].(string); ok {
		record.Summary = summary
	}
	// matchScore defaults to 0 when missing or not a number.
	if score, ok := parsed["matchScore"].(float64); ok {
		record.MatchScore = int(score)
	}
	if skills, ok := parsed["skills"].(map[string]any); ok {
		for name, value := range skills {
			if level, ok := value.(float64); ok {
				record.Skills[name] = level
			}
		}
	}
	record.Positives = stringSlice(parsed["positives"])
	record.Negatives = stringSlice(parsed["negatives"])
	record.Recommendations = stringSlice(parsed["recommendations"])

	return record
}

// fallbackRecord is the degraded-but-present result for unparseable output.
// The full raw text is preserved in the summary so a human can still review
// what the model said.
func fallbackRecord(raw string) types.ScoringRecord {
	return types.ScoringRecord{
		Summary:         raw,
		MatchScore:      fallbackScore,
		Skills:          map[string]float64{},
		Positives:       []string{fallbackPositive},
		Negatives:       []string{fallbackNegative},
		Recommendations: []string{fallbackRecommendation},
	}
}

// stringSlice coerces a parsed JSON value into a string slice, dropping
// entries of any other type. A missing or non-array value yields an empty
// slice, never nil.
func stringSlice(value any) []string {
	out := []string{}
	items, ok := value.([]any)
	if !ok {
		return out
	}
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
