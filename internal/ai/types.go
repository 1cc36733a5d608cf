// Package ai provides the model client, error taxonomy, and retry contract
// shared by every agent. Agents build a prompt, invoke the model through
// Invoke, and validate the JSON reply with a parser callback; failures are
// carried as typed AgentErrors inside Response, never as panics.
package ai

import "fmt"

// Request is a single immutable model call.
type Request struct {
	SystemPrompt  string
	UserMessage   string
	Temperature   float64
	MaxTokens     int
	StopSequences []string
}

// Usage reports token consumption for one call.
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// RawResponse is the vendor reply before any JSON parsing.
type RawResponse struct {
	Text       string
	Usage      Usage
	Model      string
	StopReason string
}

// Code identifies an AgentError class. Codes are the single source of truth
// for what the retry executor treats as transient vs. terminal.
type Code string

const (
	CodeRateLimit    Code = "RATE_LIMIT_ERROR"
	CodeAuth         Code = "AUTHENTICATION_ERROR"
	CodeValidation   Code = "VALIDATION_ERROR"
	CodeServer       Code = "SERVER_ERROR"
	CodeNetwork      Code = "NETWORK_ERROR"
	CodeParse        Code = "PARSE_ERROR"
	CodeInvalidInput Code = "INVALID_INPUT"
	CodeUnknown      Code = "UNKNOWN_ERROR"
)

// ErrorType is the coarse category surfaced to API callers.
type ErrorType string

const (
	TypeRateLimit  ErrorType = "rate_limit_error"
	TypeAuth       ErrorType = "auth_error"
	TypeValidation ErrorType = "validation_error"
	TypeServer     ErrorType = "server_error"
	TypeNetwork    ErrorType = "network_error"
	TypeAI         ErrorType = "ai_error"
	TypeUnknown    ErrorType = "unknown_error"
)

// AgentError is the tagged error used uniformly across all agents.
type AgentError struct {
	Code      Code           `json:"code"`
	Message   string         `json:"message"`
	Type      ErrorType      `json:"type"`
	Retryable bool           `json:"retryable"`
	Details   map[string]any `json:"details,omitempty"`
}

// Error implements the error interface.
func (e *AgentError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Response is the sum type returned by every agent call: either Success with
// Data and usage metadata, or a populated Error. Exactly one side is set.
type Response[T any] struct {
	Success    bool        `json:"success"`
	Data       T           `json:"data,omitempty"`
	Error      *AgentError `json:"error,omitempty"`
	Usage      Usage       `json:"usage"`
	Model      string      `json:"model,omitempty"`
	StopReason string      `json:"stop_reason,omitempty"`
}

// Ok builds a success Response carrying data and call metadata.
func Ok[T any](data T, raw *RawResponse) Response[T] {
	return Response[T]{
		Success:    true,
		Data:       data,
		Usage:      raw.Usage,
		Model:      raw.Model,
		StopReason: raw.StopReason,
	}
}

// Fail builds a failure Response carrying the typed error.
func Fail[T any](err *AgentError) Response[T] {
	return Response[T]{Success: false, Error: err}
}

// ParseError marks the vendor text as non-JSON. Retryable: a reprompt may
// yield valid JSON.
func ParseError(msg string) *AgentError {
	return &AgentError{
		Code:      CodeParse,
		Message:   msg,
		Type:      TypeAI,
		Retryable: true,
	}
}

// ValidationError marks valid JSON with the wrong shape. Not retryable:
// malformed structure is not assumed to self-correct on the same prompt.
func ValidationError(msg string) *AgentError {
	return &AgentError{
		Code:      CodeValidation,
		Message:   msg,
		Type:      TypeValidation,
		Retryable: false,
	}
}

// InvalidInput marks caller-supplied input as malformed. Never retried and
// never reaches the vendor.
func InvalidInput(msg string) *AgentError {
	return &AgentError{
		Code:      CodeInvalidInput,
		Message:   msg,
		Type:      TypeValidation,
		Retryable: false,
	}
}
