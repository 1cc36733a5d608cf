package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

const (
	defaultEndpoint    = "https://api.anthropic.com/v1"
	anthropicVersion   = "2023-06-01"
	defaultMaxTokens   = 4096
	defaultHTTPTimeout = 60 * time.Second
)

// Client is the narrow seam between agents and the vendor API. Tests and
// agents depend on this, not on AnthropicClient.
type Client interface {
	Complete(ctx context.Context, req Request) (*RawResponse, error)
	Model() string
}

// ClientOpts configures an AnthropicClient.
type ClientOpts struct {
	APIKey   string
	Model    string
	Endpoint string // defaults to the production API
	Timeout  time.Duration
	TopP     float64 // 0 means omit
	TopK     int     // 0 means omit
}

// AnthropicClient calls the Anthropic messages API over HTTP.
type AnthropicClient struct {
	opts       ClientOpts
	httpClient *http.Client
}

// NewAnthropicClient builds a client with a bounded request timeout.
func NewAnthropicClient(opts ClientOpts) *AnthropicClient {
	if opts.Endpoint == "" {
		opts.Endpoint = defaultEndpoint
	}
	if opts.Timeout == 0 {
		opts.Timeout = defaultHTTPTimeout
	}
	return &AnthropicClient{
		opts:       opts,
		httpClient: &http.Client{Timeout: opts.Timeout},
	}
}

// Model returns the configured model identifier.
func (c *AnthropicClient) Model() string {
	return c.opts.Model
}

type messagesRequest struct {
	Model         string         `json:"model"`
	Messages      []messageParam `json:"messages"`
	MaxTokens     int            `json:"max_tokens"`
	Temperature   float64        `json:"temperature"`
	System        string         `json:"system,omitempty"`
	StopSequences []string       `json:"stop_sequences,omitempty"`
	TopP          float64        `json:"top_p,omitempty"`
	TopK          int            `json:"top_k,omitempty"`
}

type messageParam struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Model      string `json:"model"`
	StopReason string `json:"stop_reason"`
	Usage      struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

// Complete performs one messages-API call and returns the raw reply.
// Non-2xx replies and transport failures come back as errors suitable for
// Classify.
func (c *AnthropicClient) Complete(ctx context.Context, req Request) (*RawResponse, error) {
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = defaultMaxTokens
	}

	body := messagesRequest{
		Model:         c.opts.Model,
		Messages:      []messageParam{{Role: "user", Content: req.UserMessage}},
		MaxTokens:     maxTokens,
		Temperature:   req.Temperature,
		System:        req.SystemPrompt,
		StopSequences: req.StopSequences,
		TopP:          c.opts.TopP,
		TopK:          c.opts.TopK,
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("ai: marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.opts.Endpoint+"/messages", bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("ai: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", c.opts.APIKey)
	httpReq.Header.Set("anthropic-version", anthropicVersion)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("ai: read response: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		return nil, parseAPIError(httpResp, respBody)
	}

	var resp messagesResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("ai: parse response: %w", err)
	}

	var text string
	if len(resp.Content) > 0 {
		text = resp.Content[0].Text
	}

	return &RawResponse{
		Text: text,
		Usage: Usage{
			InputTokens:  resp.Usage.InputTokens,
			OutputTokens: resp.Usage.OutputTokens,
		},
		Model:      resp.Model,
		StopReason: resp.StopReason,
	}, nil
}

// parseAPIError extracts the vendor's JSON error envelope, falling back to
// the raw body.
func parseAPIError(httpResp *http.Response, body []byte) error {
	apiErr := &APIError{StatusCode: httpResp.StatusCode, Message: string(body)}

	var envelope struct {
		Error struct {
			Type    string `json:"type"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Message != "" {
		apiErr.Message = envelope.Error.Message
		apiErr.VendorType = envelope.Error.Type
	}

	if ra := httpResp.Header.Get("Retry-After"); ra != "" {
		if secs, err := strconv.Atoi(ra); err == nil {
			apiErr.RetryAfter = secs
		}
	}
	return apiErr
}
