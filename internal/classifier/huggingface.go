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

// HuggingFace classifies text with the Hugging Face Inference API.
type HuggingFace struct {
	baseURL string
	model   string
	token   string
	task    string
	client  *http.Client
}

// HuggingFaceOption configures the Hugging Face classifier.
type HuggingFaceOption func(*HuggingFace)

// WithHuggingFaceBaseURL sets the inference endpoint root.
func WithHuggingFaceBaseURL(u string) HuggingFaceOption {
	return func(h *HuggingFace) {
		if u != "" {
			h.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithHuggingFaceToken sets the bearer token.
func WithHuggingFaceToken(token string) HuggingFaceOption {
	return func(h *HuggingFace) { h.token = token }
}

// WithHuggingFaceTask selects text-classification or zero-shot inference.
func WithHuggingFaceTask(task string) HuggingFaceOption {
	return func(h *HuggingFace) {
		if task != "" {
			h.task = task
		}
	}
}

// WithHuggingFaceTimeout sets the per-request timeout.
func WithHuggingFaceTimeout(d time.Duration) HuggingFaceOption {
	return func(h *HuggingFace) {
		if d > 0 {
			h.client = &http.Client{Timeout: d}
		}
	}
}

// WithHuggingFaceHTTPClient sets a custom HTTP client.
func WithHuggingFaceHTTPClient(client *http.Client) HuggingFaceOption {
	return func(h *HuggingFace) { h.client = client }
}

// NewHuggingFace creates a classifier for the given model id
// (e.g., "ProsusAI/finbert").
func NewHuggingFace(model string, opts ...HuggingFaceOption) *HuggingFace {
	if model == "" {
		model = "ProsusAI/finbert"
	}
	h := &HuggingFace{
		baseURL: "https://api-inference.huggingface.co/models",
		model:   model,
		task:    config.TaskTextClassification,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *HuggingFace) Name() string { return config.ProviderHuggingFace }

// Classify posts text to {baseURL}/{model} and returns the top label.
func (h *HuggingFace) Classify(ctx context.Context, text string) (models.SentimentResult, error) {
	body := hfRequest{Inputs: text, Options: &hfOptions{WaitForModel: true}}
	if h.task == config.TaskZeroShot {
		labels := make([]string, 0, 3)
		for _, l := range models.Labels() {
			labels = append(labels, string(l))
		}
		body.Parameters = &hfParameters{CandidateLabels: labels}
	}

	data, err := json.Marshal(body)
	if err != nil {
		return models.SentimentResult{}, fmt.Errorf("huggingface: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.baseURL+"/"+h.model, bytes.NewReader(data))
	if err != nil {
		return models.SentimentResult{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	if h.token != "" {
		req.Header.Set("Authorization", "Bearer "+h.token)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return models.SentimentResult{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return models.SentimentResult{}, fmt.Errorf("%w: read body: %v", ErrUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK {
		msg := strings.TrimSpace(string(raw))
		var e hfError
		if json.Unmarshal(raw, &e) == nil && e.Error != "" {
			msg = e.Error
		}
		return models.SentimentResult{}, fmt.Errorf("%w: huggingface HTTP %d: %s", ErrUnavailable, resp.StatusCode, msg)
	}

	if h.task == config.TaskZeroShot {
		return parseZeroShot(raw)
	}
	return parseClassification(raw)
}

// ── Internal Types ──

type hfRequest struct {
	Inputs     string        `json:"inputs"`
	Parameters *hfParameters `json:"parameters,omitempty"`
	Options    *hfOptions    `json:"options,omitempty"`
}

type hfParameters struct {
	CandidateLabels []string `json:"candidate_labels,omitempty"`
}

type hfOptions struct {
	WaitForModel bool `json:"wait_for_model"`
}

type hfLabelScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

type hfZeroShot struct {
	Labels []string  `json:"labels"`
	Scores []float64 `json:"scores"`
}

type hfError struct {
	Error string `json:"error"`
}

// parseClassification accepts both the batched [[{label,score}]] and the
// flat [{label,score}] response shapes.
func parseClassification(raw []byte) (models.SentimentResult, error) {
	var batched [][]hfLabelScore
	if err := json.Unmarshal(raw, &batched); err == nil && len(batched) > 0 {
		return pickLabel(batched[0])
	}
	var flat []hfLabelScore
	if err := json.Unmarshal(raw, &flat); err != nil {
		return models.SentimentResult{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return pickLabel(flat)
}

func parseZeroShot(raw []byte) (models.SentimentResult, error) {
	var zs hfZeroShot
	if err := json.Unmarshal(raw, &zs); err != nil {
		// some deployments wrap the object in a list
		var list []hfZeroShot
		if err2 := json.Unmarshal(raw, &list); err2 != nil || len(list) == 0 {
			return models.SentimentResult{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
		}
		zs = list[0]
	}
	return winner(zs.Labels, zs.Scores)
}

func pickLabel(items []hfLabelScore) (models.SentimentResult, error) {
	labels := make([]string, len(items))
	scores := make([]float64, len(items))
	for i, it := range items {
		labels[i], scores[i] = it.Label, it.Score
	}
	return winner(labels, scores)
}
