package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// InferenceClient calls the hosted text-inference model used as the
// fallback responder when no menu rule matches.
type InferenceClient struct {
	url   string
	token string
	http  *http.Client
	log   *slog.Logger
}

// NewInferenceClient builds a client with a bounded timeout. The caller is
// expected to map any returned error to a fixed apology string.
func NewInferenceClient(url, token string, timeout time.Duration, log *slog.Logger) *InferenceClient {
	return &InferenceClient{
		url:   url,
		token: token,
		http:  &http.Client{Timeout: timeout},
		log:   log,
	}
}

type inferenceRequest struct {
	Inputs string `json:"inputs"`
}

// Infer posts the raw text and returns the model's answer.
func (c *InferenceClient) Infer(ctx context.Context, text string) (string, error) {
	if c.url == "" {
		return "", fmt.Errorf("inference service not configured")
	}

	body, err := json.Marshal(inferenceRequest{Inputs: text})
	if err != nil {
		return "", fmt.Errorf("marshal inference payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewBuffer(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("inference request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("inference service returned %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read inference response: %w", err)
	}

	answer, err := parseInferenceResponse(data)
	if err != nil {
		return "", err
	}
	c.log.Info("inference answer received", "bytes", len(data))
	return answer, nil
}

// parseInferenceResponse accepts the Hugging Face generation array form or
// a bare JSON string. Anything else counts as a failure.
func parseInferenceResponse(data []byte) (string, error) {
	var generations []struct {
		GeneratedText string `json:"generated_text"`
	}
	if err := json.Unmarshal(data, &generations); err == nil && len(generations) > 0 && generations[0].GeneratedText != "" {
		return generations[0].GeneratedText, nil
	}

	var plain string
	if err := json.Unmarshal(data, &plain); err == nil && plain != "" {
		return plain, nil
	}

	return "", fmt.Errorf("malformed inference response")
}
