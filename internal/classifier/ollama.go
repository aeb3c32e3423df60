package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/seenimoa/finsense/internal/config"
	"github.com/seenimoa/finsense/pkg/models"
)

const ollamaSystemPrompt = `You are a financial sentiment classifier. Classify the sentiment of the user's text for investors as exactly one of "positive", "neutral" or "negative".
Reply with JSON only: {"label": "<positive|neutral|negative>", "score": <confidence between 0 and 1>}`

// Ollama classifies text with a local Ollama chat model in JSON mode.
type Ollama struct {
	baseURL string
	model   string
	client  *http.Client
}

// OllamaOption configures the Ollama classifier.
type OllamaOption func(*Ollama)

// WithOllamaModel sets the chat model.
func WithOllamaModel(model string) OllamaOption {
	return func(o *Ollama) {
		if model != "" {
			o.model = model
		}
	}
}

// WithOllamaTimeout sets the per-request timeout.
func WithOllamaTimeout(d time.Duration) OllamaOption {
	return func(o *Ollama) {
		if d > 0 {
			o.client = &http.Client{Timeout: d}
		}
	}
}

// WithOllamaHTTPClient sets a custom HTTP client.
func WithOllamaHTTPClient(client *http.Client) OllamaOption {
	return func(o *Ollama) { o.client = client }
}

// NewOllama creates an Ollama classifier.
// baseURL is the Ollama server URL (e.g., "http://localhost:11434").
func NewOllama(baseURL string, opts ...OllamaOption) *Ollama {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	o := &Ollama{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   "qwen2.5:7b",
		client:  &http.Client{Timeout: 120 * time.Second}, // longer timeout for local models
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *Ollama) Name() string { return config.ProviderOllama }

// Ping checks if the Ollama server is reachable.
func (o *Ollama) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.baseURL+"/api/tags", nil)
	if err != nil {
		return err
	}
	resp, err := o.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}
	return nil
}

// Classify sends text to /api/chat and parses the model's JSON verdict.
func (o *Ollama) Classify(ctx context.Context, text string) (models.SentimentResult, error) {
	body := ollamaChatRequest{
		Model: o.model,
		Messages: []ollamaMessage{
			{Role: "system", Content: ollamaSystemPrompt},
			{Role: "user", Content: text},
		},
		Stream:  false,
		Format:  "json",
		Options: &ollamaOptions{Temperature: 0},
	}
	data, err := json.Marshal(body)
	if err != nil {
		return models.SentimentResult{}, fmt.Errorf("ollama: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/api/chat", bytes.NewReader(data))
	if err != nil {
		return models.SentimentResult{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return models.SentimentResult{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return models.SentimentResult{}, fmt.Errorf("%w: ollama HTTP %d: %s", ErrUnavailable, resp.StatusCode, string(bodyBytes))
	}

	var result ollamaChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return models.SentimentResult{}, fmt.Errorf("%w: decode response: %v", ErrMalformedResponse, err)
	}

	return parseVerdict(result.Message.Content)
}

// ── Internal Types ──

type ollamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
	Format   string          `json:"format,omitempty"`
	Options  *ollamaOptions  `json:"options,omitempty"`
}

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature"`
}

type ollamaChatResponse struct {
	Model   string        `json:"model"`
	Message ollamaMessage `json:"message"`
	Done    bool          `json:"done"`
}

type ollamaVerdict struct {
	Label string   `json:"label"`
	Score *float64 `json:"score"`
}

// parseVerdict decodes {"label","score"}. A missing score is read as 1;
// a score given as a percentage is scaled down.
func parseVerdict(content string) (models.SentimentResult, error) {
	var v ollamaVerdict
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &v); err != nil {
		return models.SentimentResult{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	label, ok := models.ParseLabel(v.Label)
	if !ok {
		return models.SentimentResult{}, fmt.Errorf("%w: unknown label %q", ErrMalformedResponse, v.Label)
	}

	score := 1.0
	if v.Score != nil {
		score = *v.Score
	}
	if score > 1 && score <= 100 {
		score /= 100
	}
	if score < 0 || score > 1 {
		return models.SentimentResult{}, fmt.Errorf("%w: score %v out of range", ErrMalformedResponse, score)
	}
	return models.SentimentResult{Label: label, Score: score}, nil
}
