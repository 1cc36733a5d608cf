package ai

import (
	"context"
	"errors"
	"net"
	"net/url"
	"testing"
)

func TestClassify_StatusCodes(t *testing.T) {
	tests := []struct {
		name          string
		status        int
		wantCode      Code
		wantType      ErrorType
		wantRetryable bool
	}{
		{name: "rate limited", status: 429, wantCode: CodeRateLimit, wantType: TypeRateLimit, wantRetryable: true},
		{name: "bad credentials", status: 401, wantCode: CodeAuth, wantType: TypeAuth, wantRetryable: false},
		{name: "invalid request", status: 400, wantCode: CodeValidation, wantType: TypeValidation, wantRetryable: false},
		{name: "internal error", status: 500, wantCode: CodeServer, wantType: TypeServer, wantRetryable: true},
		{name: "bad gateway", status: 502, wantCode: CodeServer, wantType: TypeServer, wantRetryable: true},
		{name: "overloaded", status: 529, wantCode: CodeServer, wantType: TypeServer, wantRetryable: true},
		{name: "forbidden is unknown", status: 403, wantCode: CodeUnknown, wantType: TypeUnknown, wantRetryable: false},
		{name: "not found is unknown", status: 404, wantCode: CodeUnknown, wantType: TypeUnknown, wantRetryable: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(&APIError{StatusCode: tt.status, Message: "m"})
			if got.Code != tt.wantCode {
				t.Errorf("Code = %s, want %s", got.Code, tt.wantCode)
			}
			if got.Type != tt.wantType {
				t.Errorf("Type = %s, want %s", got.Type, tt.wantType)
			}
			if got.Retryable != tt.wantRetryable {
				t.Errorf("Retryable = %v, want %v", got.Retryable, tt.wantRetryable)
			}
		})
	}
}

func TestClassify_RateLimitCarriesRetryAfter(t *testing.T) {
	got := Classify(&APIError{StatusCode: 429, Message: "slow down", RetryAfter: 30})
	if got.Details == nil {
		t.Fatal("Details is nil, want retry_after")
	}
	if ra, ok := got.Details["retry_after"].(int); !ok || ra != 30 {
		t.Errorf("Details[retry_after] = %v, want 30", got.Details["retry_after"])
	}
}

func TestClassify_RateLimitWithoutRetryAfter(t *testing.T) {
	got := Classify(&APIError{StatusCode: 429, Message: "slow down"})
	if got.Details != nil {
		t.Errorf("Details = %v, want nil when header absent", got.Details)
	}
}

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestClassify_NetworkErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{name: "deadline exceeded", err: context.DeadlineExceeded},
		{name: "net timeout", err: timeoutErr{}},
		{name: "url error", err: &url.Error{Op: "Post", URL: "https://api.anthropic.com/v1/messages", Err: errors.New("connection refused")}},
		{name: "op error", err: &net.OpError{Op: "dial", Err: errors.New("connection refused")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.err)
			if got.Code != CodeNetwork {
				t.Errorf("Code = %s, want %s", got.Code, CodeNetwork)
			}
			if !got.Retryable {
				t.Error("network errors must be retryable")
			}
		})
	}
}

func TestClassify_UnknownError(t *testing.T) {
	got := Classify(errors.New("something odd"))
	if got.Code != CodeUnknown {
		t.Errorf("Code = %s, want %s", got.Code, CodeUnknown)
	}
	if got.Retryable {
		t.Error("unknown errors must not be retryable")
	}
}

func TestAPIError_Message(t *testing.T) {
	err := &APIError{StatusCode: 500, Message: "overloaded"}
	want := "anthropic error (status 500): overloaded"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
