package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"

	"hookrelay/internal/platform/models"
)

// ErrNotConfigured is reported when no downstream webhook URL is set.
const ErrNotConfigured = "downstream not configured"

// Forwarder POSTs formatted messages to a Discord webhook URL. Zero
// RetryAttempts means a single attempt.
type Forwarder struct {
	client        *http.Client
	retryAttempts int
}

func NewForwarder(timeout time.Duration, retryAttempts int) *Forwarder {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Forwarder{
		client:        &http.Client{Timeout: timeout},
		retryAttempts: retryAttempts,
	}
}

// Forward delivers one message. The downstream response body is logged
// on failure but never surfaced to the original sender.
func (f *Forwarder) Forward(ctx context.Context, msg *Message, webhookURL string) models.ForwardResult {
	if webhookURL == "" {
		return models.ForwardResult{ErrorDetail: ErrNotConfigured}
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return models.ForwardResult{ErrorDetail: err.Error()}
	}

	var result models.ForwardResult
	attempt := func() error {
		result = f.post(ctx, payload, webhookURL)
		if result.Succeeded {
			return nil
		}
		return fmt.Errorf("forward failed: %s", result.ErrorDetail)
	}

	if f.retryAttempts <= 0 {
		attempt()
		return result
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(f.retryAttempts)), ctx)
	backoff.Retry(attempt, policy)
	return result
}

func (f *Forwarder) post(ctx context.Context, payload []byte, webhookURL string) models.ForwardResult {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhookURL, bytes.NewReader(payload))
	if err != nil {
		return models.ForwardResult{ErrorDetail: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return models.ForwardResult{ErrorDetail: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		log.Error().
			Int("status", resp.StatusCode).
			Str("body", string(body)).
			Msg("discord webhook rejected message")
		return models.ForwardResult{
			StatusCode:  resp.StatusCode,
			ErrorDetail: fmt.Sprintf("HTTP %d", resp.StatusCode),
		}
	}

	return models.ForwardResult{Succeeded: true, StatusCode: resp.StatusCode}
}
