package analysis

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

const (
	remoteMaxRetries     = 3
	remoteInitialBackoff = 500 * time.Millisecond
	remoteUserAgent      = "eunoia-backend/1.0"
)

// RemoteClassifier calls a hosted text-classification endpoint using the
// Hugging Face inference API shape: POST {"inputs": text}, response
// [[{"label","score"}...]] or [{"label","score"}...].
type RemoteClassifier struct {
	model    string
	endpoint string
	token    string
	client   *http.Client
	retries  int
	backoff  time.Duration
}

// NewRemoteClassifier creates a classifier for baseURL/model
func NewRemoteClassifier(baseURL, model, token string, timeout time.Duration) *RemoteClassifier {
	return &RemoteClassifier{
		model:    model,
		endpoint: strings.TrimRight(baseURL, "/") + "/" + model,
		token:    token,
		client:   &http.Client{Timeout: timeout},
		retries:  remoteMaxRetries,
		backoff:  remoteInitialBackoff,
	}
}

func (c *RemoteClassifier) Name() string { return c.model }

func (c *RemoteClassifier) Classify(ctx context.Context, text string) (Prediction, error) {
	body, err := json.Marshal(map[string]string{"inputs": text})
	if err != nil {
		return Prediction{}, fmt.Errorf("failed to marshal input: %w", err)
	}

	respBody, err := c.postWithRetry(ctx, body)
	if err != nil {
		return Prediction{}, err
	}

	preds, err := decodePredictions(respBody)
	if err != nil {
		slog.Error("[RemoteClassifier] Failed to decode response",
			slog.String("model", c.model),
			slog.String("error", err.Error()),
			getPreview(respBody))
		return Prediction{}, err
	}
	return topPrediction(preds)
}

func (c *RemoteClassifier) postWithRetry(ctx context.Context, body []byte) ([]byte, error) {
	var lastErr error
	backoff := c.backoff

	for attempt := 0; attempt < c.retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		respBody, status, err := c.post(ctx, body)
		if err == nil && status < 300 {
			return respBody, nil
		}
		if err == nil {
			err = fmt.Errorf("status code %d", status)
			if status < 500 && status != http.StatusTooManyRequests {
				return nil, err
			}
		}
		lastErr = err

		slog.Warn("[RemoteClassifier] Request failed, will retry",
			slog.String("model", c.model),
			slog.Int("attempt", attempt+1),
			slog.String("error", err.Error()))
	}
	return nil, fmt.Errorf("request failed after retries: %w", lastErr)
}

func (c *RemoteClassifier) post(ctx context.Context, body []byte) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", remoteUserAgent)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to read response: %w", err)
	}
	return respBody, resp.StatusCode, nil
}

func decodePredictions(body []byte) ([]Prediction, error) {
	var nested [][]Prediction
	if err := json.Unmarshal(body, &nested); err == nil {
		if len(nested) == 0 {
			return nil, errors.New("empty prediction list")
		}
		return nested[0], nil
	}

	var flat []Prediction
	if err := json.Unmarshal(body, &flat); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return flat, nil
}

func topPrediction(preds []Prediction) (Prediction, error) {
	if len(preds) == 0 {
		return Prediction{}, errors.New("no labels in response")
	}
	best := preds[0]
	for _, p := range preds[1:] {
		if p.Score > best.Score {
			best = p
		}
	}
	return best, nil
}

func getPreview(respBody []byte) slog.Attr {
	raw := string(respBody)
	if len(raw) > 50 {
		raw = raw[:50]
	}
	return slog.String("raw_response", raw)
}
