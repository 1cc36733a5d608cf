package ai

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
)

// APIError is a structured non-2xx reply from the vendor API.
type APIError struct {
	StatusCode int
	Message    string
	VendorType string // vendor error type, e.g. "rate_limit_error"
	RetryAfter int    // seconds, from the Retry-After header (0 if absent)
}

// Error returns the formatted vendor error with status context.
func (e *APIError) Error() string {
	return fmt.Sprintf("anthropic error (status %d): %s", e.StatusCode, e.Message)
}

// Classify maps a raw transport or vendor error to an AgentError. This
// taxonomy decides what the retry executor treats as transient:
//
//	429           → RATE_LIMIT_ERROR, retryable
//	401           → AUTHENTICATION_ERROR, terminal
//	400           → VALIDATION_ERROR, terminal
//	>= 500        → SERVER_ERROR, retryable
//	timeout/conn  → NETWORK_ERROR, retryable
//	anything else → UNKNOWN_ERROR, terminal
func Classify(err error) *AgentError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return classifyStatus(apiErr)
	}

	if isNetworkError(err) {
		return &AgentError{
			Code:      CodeNetwork,
			Message:   err.Error(),
			Type:      TypeNetwork,
			Retryable: true,
		}
	}

	return &AgentError{
		Code:      CodeUnknown,
		Message:   err.Error(),
		Type:      TypeUnknown,
		Retryable: false,
	}
}

func classifyStatus(apiErr *APIError) *AgentError {
	switch {
	case apiErr.StatusCode == http.StatusTooManyRequests:
		ae := &AgentError{
			Code:      CodeRateLimit,
			Message:   apiErr.Message,
			Type:      TypeRateLimit,
			Retryable: true,
		}
		if apiErr.RetryAfter > 0 {
			ae.Details = map[string]any{"retry_after": apiErr.RetryAfter}
		}
		return ae
	case apiErr.StatusCode == http.StatusUnauthorized:
		return &AgentError{
			Code:      CodeAuth,
			Message:   apiErr.Message,
			Type:      TypeAuth,
			Retryable: false,
		}
	case apiErr.StatusCode == http.StatusBadRequest:
		return &AgentError{
			Code:      CodeValidation,
			Message:   apiErr.Message,
			Type:      TypeValidation,
			Retryable: false,
		}
	case apiErr.StatusCode >= http.StatusInternalServerError:
		return &AgentError{
			Code:      CodeServer,
			Message:   apiErr.Message,
			Type:      TypeServer,
			Retryable: true,
		}
	default:
		return &AgentError{
			Code:      CodeUnknown,
			Message:   apiErr.Message,
			Type:      TypeUnknown,
			Retryable: false,
		}
	}
}

// isNetworkError reports whether err is a transport-level failure: timeout,
// connection refused, DNS, or a cancelled deadline.
func isNetworkError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr)
}
