// Package llm calls the external text-completion provider. The provider is
// treated as an opaque prompt-in, text-out function; this package owns the
// timeout and retry policy around it.
package llm

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"interviewprep/apperr"
)

const maxAttempts = 2

var (
	ErrEmptyResponse  = errors.New("empty response from provider")
	ErrAttemptTimeout = fmt.Errorf("provider call timed out: %w", context.DeadlineExceeded)
)

// Completer is a single text-completion backend.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

type Client struct {
	completer Completer
	timeout   time.Duration
	backoff   time.Duration
}

func NewClient(completer Completer, timeout, backoff time.Duration) *Client {
	return &Client{
		completer: completer,
		timeout:   timeout,
		backoff:   backoff,
	}
}

// Generate sends prompt to the provider and returns its raw text. Each attempt
// is bounded by the client timeout. Transient failures get one retry; anything
// else fails immediately. Failures are reported as apperr.ErrGenerationUnavailable.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		log.Printf("[INFO] Calling LLM provider (attempt %d/%d, prompt length %d)", attempt, maxAttempts, len(prompt))

		text, err := c.attempt(ctx, prompt)
		if err == nil {
			log.Printf("[INFO] LLM provider returned %d characters", len(text))
			return text, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			log.Printf("[WARN] LLM call abandoned, caller context done: %v", ctx.Err())
			break
		}
		if !IsTransient(err) {
			log.Printf("[ERROR] LLM provider failed with non-retryable error: %v", err)
			break
		}
		if attempt == maxAttempts {
			log.Printf("[ERROR] LLM provider failed after %d attempts: %v", attempt, err)
			break
		}

		log.Printf("[WARN] LLM provider transient failure, retrying in %s: %v", c.backoff, err)
		if err := sleep(ctx, c.backoff); err != nil {
			lastErr = err
			break
		}
	}

	return "", fmt.Errorf("%w: %v", apperr.ErrGenerationUnavailable, lastErr)
}

func (c *Client) attempt(ctx context.Context, prompt string) (string, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	text, err := c.completer.Complete(attemptCtx, prompt)
	if err != nil {
		if ctx.Err() == nil && errors.Is(attemptCtx.Err(), context.DeadlineExceeded) {
			return "", ErrAttemptTimeout
		}
		return "", err
	}

	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
