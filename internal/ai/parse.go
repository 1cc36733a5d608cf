package ai

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// StripCodeFence removes a surrounding markdown code fence from the model's
// reply. Vendors frequently wrap JSON bodies in ```json fences even when
// asked not to.
func StripCodeFence(text string) string {
	s := strings.TrimSpace(text)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	if idx := strings.LastIndex(s, "```"); idx >= 0 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}

// DecodeObject applies the two-phase policy. Phase one: the text must be a
// single valid JSON document; anything else is a retryable PARSE_ERROR.
// Phase two: the document must fit v's shape (arrays where arrays are
// declared, numbers where numbers are declared); a mismatch is a terminal
// VALIDATION_ERROR, since valid-but-wrong JSON is not assumed to
// self-correct on the same prompt. Required-key and range checks remain with
// the caller, which sees v populated only when both phases pass.
func DecodeObject(text string, v any) *AgentError {
	cleaned := StripCodeFence(text)

	var raw json.RawMessage
	dec := json.NewDecoder(bytes.NewReader([]byte(cleaned)))
	if err := dec.Decode(&raw); err != nil {
		return ParseError(fmt.Sprintf("response is not valid JSON: %v", err))
	}
	if dec.More() {
		return ParseError("response contains trailing data after the JSON document")
	}

	if err := json.Unmarshal(raw, v); err != nil {
		return ValidationError(fmt.Sprintf("response shape mismatch: %v", err))
	}
	return nil
}

// RequireScore validates a 0-100 numeric field.
func RequireScore(field string, value int) *AgentError {
	if value < 0 || value > 100 {
		return ValidationError(fmt.Sprintf("%s %d out of range 0-100", field, value))
	}
	return nil
}

// RequireNonEmpty validates a required string field.
func RequireNonEmpty(field, value string) *AgentError {
	if strings.TrimSpace(value) == "" {
		return ValidationError(fmt.Sprintf("%s is required", field))
	}
	return nil
}

// RequireArray validates that a required array field was present. Missing
// keys decode as nil; an explicit empty array is accepted.
func RequireArray(field string, arr []string) *AgentError {
	if arr == nil {
		return ValidationError(fmt.Sprintf("%s is required and must be an array", field))
	}
	return nil
}

// RequireOneOf validates an enumerated field against its allowed set.
func RequireOneOf(field, value string, allowed []string) *AgentError {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return ValidationError(fmt.Sprintf("%s %q not in allowed set %v", field, value, allowed))
}
