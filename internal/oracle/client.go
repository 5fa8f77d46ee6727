package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/dom/league-draft-engine/internal/domain"
)

const defaultRequestTimeout = 20 * time.Second

// Client talks JSON over HTTP to a deployed oracle. Failures are wrapped
// in the recoverable sentinel for the operation so callers can scope the
// degradation without rolling back draft state.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates an oracle client against baseURL. A zero timeout uses
// the default; the timeout bounds a single fetch and is unrelated to the
// pick timer.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// GetRecommendations asks for ranked candidates for the acting side's
// current turn.
func (c *Client) GetRecommendations(ctx context.Context, req DraftRequest) ([]Recommendation, error) {
	var out struct {
		Recommendations []Recommendation `json:"recommendations"`
	}
	if err := c.post(ctx, "/recommend", req, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRecommendationUnavailable, err)
	}
	return out.Recommendations, nil
}

// Predict asks for win probabilities over a complete draft.
func (c *Client) Predict(ctx context.Context, req DraftRequest) (*Prediction, error) {
	var out Prediction
	if err := c.post(ctx, "/predict", req, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrPredictionUnavailable, err)
	}
	return &out, nil
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("oracle returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
