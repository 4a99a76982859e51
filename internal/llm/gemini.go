package llm

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const geminiEndpoint = "https://generativelanguage.googleapis.com/v1beta/models/%s:generateContent?key=%s"

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.0-flash"

var (
	ErrMissingAPIKey = errors.New("missing Gemini API key")
	ErrEmptyResponse = errors.New("empty Gemini response")
)

// GeminiClient calls the Gemini generateContent REST API with an inline
// image. It implements Client.
type GeminiClient struct {
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewGeminiClient creates a Gemini-backed extraction client.
// model defaults to DefaultModel when empty.
func NewGeminiClient(apiKey, model string) *GeminiClient {
	if model == "" {
		model = DefaultModel
	}
	return &GeminiClient{
		apiKey: apiKey,
		model:  model,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// ParseReceipt sends the image and extraction prompt to Gemini and
// returns the model's raw text output. The output is untrusted and may
// include prose around the JSON; callers extract and validate it.
func (g *GeminiClient) ParseReceipt(ctx context.Context, image []byte, mimeType string) (string, error) {
	if g.apiKey == "" {
		return "", ErrMissingAPIKey
	}
	if len(image) == 0 {
		return "", errors.New("empty image")
	}

	payload := map[string]any{
		"contents": []map[string]any{
			{
				"parts": []map[string]any{
					{"text": receiptPrompt},
					{
						"inline_data": map[string]string{
							"mime_type": mimeType,
							"data":      base64.StdEncoding.EncodeToString(image),
						},
					},
				},
			},
		},
		"generationConfig": map[string]any{
			"temperature":     0.2,
			"maxOutputTokens": 2048,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf(geminiEndpoint, g.model, g.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini api error (status %d): %s", resp.StatusCode, string(raw))
	}

	var result struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(raw, &result); err != nil {
		return "", fmt.Errorf("unexpected gemini response shape: %w", err)
	}
	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return "", ErrEmptyResponse
	}

	return result.Candidates[0].Content.Parts[0].Text, nil
}
