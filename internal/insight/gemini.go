package insight

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"rnimart-be/internal/analytics"
	"rnimart-be/internal/logger"
	"rnimart-be/internal/metrics"

	"go.uber.org/zap"
)

const geminiBaseURL = "https://generativelanguage.googleapis.com"

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type generateRequest struct {
	Contents []geminiContent `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

// GeminiClient calls the Gemini generateContent REST endpoint.
type GeminiClient struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
	metrics    *metrics.Metrics
}

func NewGeminiClient(apiKey, model string, m *metrics.Metrics) *GeminiClient {
	if apiKey == "" {
		logger.L().Warn("Gemini API key is empty, insights will use the fallback text")
	}
	return &GeminiClient{
		apiKey:     apiKey,
		model:      model,
		baseURL:    geminiBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		metrics:    m,
	}
}

func (g *GeminiClient) Generate(ctx context.Context, stats analytics.Stats) string {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "insight"),
		zap.String("model", g.model),
	)

	text, err := g.generate(ctx, BuildPrompt(stats))
	if err != nil {
		log.Error("gemini insight failed", zap.Error(err))
		g.metrics.ObserveInsight("fallback")
		return FallbackText
	}

	g.metrics.ObserveInsight("generated")
	return text
}

func (g *GeminiClient) generate(ctx context.Context, prompt string) (string, error) {
	if g.apiKey == "" {
		return "", fmt.Errorf("gemini api key not configured")
	}

	body, err := json.Marshal(generateRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
	})
	if err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent", g.baseURL, url.PathEscape(g.model))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.apiKey)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read gemini response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini returned %d: %s", resp.StatusCode, string(respBody))
	}

	var res generateResponse
	if err := json.Unmarshal(respBody, &res); err != nil {
		return "", fmt.Errorf("failed to decode gemini response: %w", err)
	}

	if len(res.Candidates) == 0 {
		return "", fmt.Errorf("gemini returned no candidates")
	}

	var b strings.Builder
	for _, p := range res.Candidates[0].Content.Parts {
		b.WriteString(p.Text)
	}

	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", fmt.Errorf("gemini returned no text")
	}
	return text, nil
}
