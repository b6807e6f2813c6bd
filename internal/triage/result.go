package triage

import "encoding/json"

// Confidence is the generator's coarse self-reported reliability level.
type Confidence string

// Confidence levels, the only three values a valid response may carry.
const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// GenerationResult is the structured decision payload parsed from the
// generator's raw output. The fallback variant produced for malformed output
// is itself a valid value of this shape, so callers never see a parse error.
type GenerationResult struct {
	Answer     string     `json:"answer"`
	Tags       []string   `json:"tags"`
	Confidence Confidence `json:"confidence"`
}

// ParseGenerationResult converts raw generator text into a GenerationResult.
//
// The raw text must be a JSON object with answer (string), tags (array of
// strings) and confidence (one of high/medium/low); a conforming object is
// returned unchanged. Anything else — unparsable text, missing fields, wrong
// types, an unknown confidence value — yields the designated fallback: the
// raw text verbatim as the answer, no tags, confidence low. This function
// never fails; it is the recovery path for an unreliable upstream generator.
func ParseGenerationResult(raw string) GenerationResult {
	result, _ := parseGenerationResult(raw)
	return result
}

// parseGenerationResult additionally reports whether the raw text conformed
// to the response contract, for logging.
func parseGenerationResult(raw string) (GenerationResult, bool) {
	var probe struct {
		Answer     *string   `json:"answer"`
		Tags       *[]string `json:"tags"`
		Confidence *string   `json:"confidence"`
	}

	if err := json.Unmarshal([]byte(raw), &probe); err != nil {
		return fallbackResult(raw), false
	}
	if probe.Answer == nil || probe.Tags == nil || probe.Confidence == nil {
		return fallbackResult(raw), false
	}

	confidence := Confidence(*probe.Confidence)
	switch confidence {
	case ConfidenceHigh, ConfidenceMedium, ConfidenceLow:
	default:
		return fallbackResult(raw), false
	}

	return GenerationResult{
		Answer:     *probe.Answer,
		Tags:       *probe.Tags,
		Confidence: confidence,
	}, true
}

func fallbackResult(raw string) GenerationResult {
	return GenerationResult{
		Answer:     raw,
		Tags:       []string{},
		Confidence: ConfidenceLow,
	}
}
