package ai

import (
	"context"
	"time"
)

// RetryOptions bounds the retry executor.
type RetryOptions struct {
	MaxRetries int           // total attempts; 1 means exactly one, no wait
	RetryDelay time.Duration // base delay; attempt N waits N * RetryDelay
}

// Retry invokes op up to MaxRetries times, strictly sequentially. It stops
// on the first success or the first non-retryable failure. Between retryable
// failures it waits RetryDelay * attemptNumber (linear backoff). After
// exhausting attempts it returns the last failure.
func Retry[T any](ctx context.Context, opts RetryOptions, op func(context.Context) Response[T]) Response[T] {
	if opts.MaxRetries < 1 {
		opts.MaxRetries = 1
	}

	var last Response[T]
	for attempt := 1; attempt <= opts.MaxRetries; attempt++ {
		last = op(ctx)
		if last.Success {
			return last
		}
		if last.Error == nil || !last.Error.Retryable {
			return last
		}
		if attempt == opts.MaxRetries {
			break
		}

		wait := opts.RetryDelay * time.Duration(attempt)
		select {
		case <-ctx.Done():
			return Fail[T](Classify(ctx.Err()))
		case <-time.After(wait):
		}
	}
	return last
}

// Invoke performs one validated model call under retry: call the client,
// classify transport failures, and hand the reply text to parse. The parse
// callback owns the two-phase policy: return a retryable PARSE_ERROR for
// non-JSON text and a terminal VALIDATION_ERROR for wrong-shape JSON.
func Invoke[T any](ctx context.Context, client Client, opts RetryOptions, req Request, parse func(text string) (T, *AgentError)) Response[T] {
	return Retry(ctx, opts, func(ctx context.Context) Response[T] {
		raw, err := client.Complete(ctx, req)
		if err != nil {
			return Fail[T](Classify(err))
		}
		data, aerr := parse(raw.Text)
		if aerr != nil {
			return Fail[T](aerr)
		}
		return Ok(data, raw)
	})
}
