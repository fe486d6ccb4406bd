package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// ErrCircuitOpen is returned while the circuit breaker rejects deliveries
var ErrCircuitOpen = errors.New("circuit breaker is open")

// Config describes the webhook endpoint
type Config struct {
	URL     string
	Method  string
	Headers map[string]string
	Timeout time.Duration
	Retry   RetryConfig
}

// Dispatcher delivers completion notifications with retry logic
type Dispatcher struct {
	cfg            Config
	httpClient     *http.Client
	circuitBreaker *CircuitBreaker
	retry          *RetryStrategy
	sleep          func(ctx context.Context, d time.Duration) error
}

// NewDispatcher creates a new webhook dispatcher
func NewDispatcher(cfg Config) *Dispatcher {
	if cfg.Method == "" {
		cfg.Method = http.MethodPost
	}
	cfg.Method = strings.ToUpper(cfg.Method)

	return &Dispatcher{
		cfg:            cfg,
		httpClient:     newHTTPClient(cfg.Timeout),
		circuitBreaker: NewCircuitBreaker(),
		retry:          NewRetryStrategy(cfg.Retry),
		sleep:          sleepContext,
	}
}

// NotifyCompleted posts payload to the webhook, retrying transient failures
func (d *Dispatcher) NotifyCompleted(ctx context.Context, payload CompletionPayload) error {
	if !d.circuitBreaker.CanAttempt() {
		slog.Warn("Circuit breaker is open, skipping webhook delivery",
			"hash", payload.Hash,
			"correlation_id", payload.CorrelationID,
			"webhook_url", d.cfg.URL,
		)
		return ErrCircuitOpen
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal webhook payload: %w", err)
	}

	maxAttempts := d.retry.MaxAttempts()
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		statusCode, err := d.deliver(ctx, body)
		if err == nil {
			slog.Info("Webhook delivered",
				"hash", payload.Hash,
				"correlation_id", payload.CorrelationID,
				"attempt", attempt,
				"status_code", statusCode,
			)
			d.circuitBreaker.RecordSuccess()
			return nil
		}

		if !d.retry.ShouldRetry(attempt, statusCode, err) {
			d.circuitBreaker.RecordFailure()
			return fmt.Errorf("webhook delivery failed after %d attempts: %w", attempt, err)
		}

		delay := d.retry.CalculateDelay(attempt)
		slog.Warn("Webhook delivery failed, retrying",
			"hash", payload.Hash,
			"correlation_id", payload.CorrelationID,
			"attempt", attempt,
			"next_retry_ms", delay.Milliseconds(),
			"error", err,
		)

		if err := d.sleep(ctx, delay); err != nil {
			d.circuitBreaker.RecordFailure()
			return err
		}
	}

	// ShouldRetry stops at MaxAttempts, so the loop always returns above.
	return fmt.Errorf("webhook delivery failed after %d attempts", maxAttempts)
}

// CircuitState returns the breaker state name
func (d *Dispatcher) CircuitState() string {
	return d.circuitBreaker.State().String()
}

// deliver performs a single attempt and returns the response status code
func (d *Dispatcher) deliver(ctx context.Context, body []byte) (int, error) {
	req, err := http.NewRequestWithContext(ctx, d.cfg.Method, d.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	for key, value := range d.cfg.Headers {
		req.Header.Set(key, value)
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	// Drain a bounded amount so the connection can be reused.
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1024))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp.StatusCode, fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return resp.StatusCode, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
