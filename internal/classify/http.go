package classify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/helpdesk-platform/intake-service/pkg/util/errorutil"
)

// HTTPClassifier calls a remote scoring service over JSON. The per-call
// deadline comes from the caller's context; the client timeout is a backstop.
type HTTPClassifier struct {
	url    string
	client *http.Client
}

// NewHTTPClassifier builds a client for the scoring service at url.
func NewHTTPClassifier(url string) *HTTPClassifier {
	return &HTTPClassifier{
		url:    url,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

type classifyRequest struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

// Classify posts the text and decodes the scored result.
func (c *HTTPClassifier) Classify(ctx context.Context, text, language string) (*Result, error) {
	payload, err := json.Marshal(classifyRequest{Text: text, Language: language})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errorutil.NewClassificationUnavailable(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errorutil.NewClassificationUnavailable(
			fmt.Errorf("classifier returned status %d", resp.StatusCode))
	}

	var result Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, errorutil.NewClassificationUnavailable(
			fmt.Errorf("decode classifier response: %w", err))
	}
	return &result, nil
}
