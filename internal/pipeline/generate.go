// Package pipeline implements the generation core shared by the three
// agents: constrained generation with a single bounded repair retry, and
// tolerant normalization of the model's JSON into typed items.
package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/hyperjump/kyoshi/internal/models"
)

// Call performs one model invocation with the given user prompt and returns
// the raw reply. The system prompt and transport are bound by the caller.
type Call func(ctx context.Context, user string) (string, error)

// repairSuffix is appended to the user prompt for the single repair attempt.
const repairSuffix = "\n\nYour previous output was not valid JSON. Fix it and return VALID JSON only. No prose, no markdown."

// GenerateJSON runs call and requires the reply to parse as JSON. On a parse
// failure it retries exactly once with a repair instruction appended to the
// user prompt; a second parse failure fails the run. Transport errors are
// never repaired here, they surface immediately as a GenerationError.
func GenerateJSON(ctx context.Context, stage, user string, call Call) (json.RawMessage, error) {
	raw, err := call(ctx, user)
	if err != nil {
		return nil, &models.GenerationError{Stage: stage, Err: err}
	}
	if msg, ok := parseJSON(raw); ok {
		return msg, nil
	}

	raw, err = call(ctx, user+repairSuffix)
	if err != nil {
		return nil, &models.GenerationError{Stage: stage, Err: err}
	}
	if msg, ok := parseJSON(raw); ok {
		return msg, nil
	}
	return nil, &models.GenerationError{Stage: stage, Err: errors.New("model output is not valid JSON after repair retry")}
}

// parseJSON validates raw as a JSON value, tolerating markdown code fences
// and surrounding prose around a single object or array.
func parseJSON(raw string) (json.RawMessage, bool) {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
		s = strings.TrimSpace(s)
	}
	if json.Valid([]byte(s)) {
		return json.RawMessage(s), true
	}
	// Fall back to the outermost object delimiters.
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start >= 0 && end > start {
		candidate := s[start : end+1]
		if json.Valid([]byte(candidate)) {
			return json.RawMessage(candidate), true
		}
	}
	return nil, false
}
