package classifier

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/seenimoa/finsense/internal/config"
	"github.com/seenimoa/finsense/internal/logger"
	"github.com/seenimoa/finsense/pkg/models"
)

// ── Hugging Face ──

type hfCapture struct {
	mu     sync.Mutex
	path   string
	auth   string
	body   map[string]any
	status int
	reply  string
}

func (c *hfCapture) server(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.path = r.URL.Path
		c.auth = r.Header.Get("Authorization")
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &c.body)
		if c.status != 0 {
			w.WriteHeader(c.status)
		}
		_, _ = w.Write([]byte(c.reply))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestHuggingFaceClassify(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  models.SentimentResult
	}{
		{
			"batched",
			`[[{"label":"positive","score":0.92},{"label":"neutral","score":0.05},{"label":"negative","score":0.03}]]`,
			models.SentimentResult{Label: models.LabelPositive, Score: 0.92},
		},
		{
			"flat unordered",
			`[{"label":"neutral","score":0.2},{"label":"Negative","score":0.7},{"label":"positive","score":0.1}]`,
			models.SentimentResult{Label: models.LabelNegative, Score: 0.7},
		},
		{
			"unknown labels ignored",
			`[[{"label":"LABEL_9","score":0.99},{"label":"neutral","score":0.01}]]`,
			models.SentimentResult{Label: models.LabelNeutral, Score: 0.01},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &hfCapture{reply: tt.reply}
			srv := c.server(t)

			hf := NewHuggingFace("ProsusAI/finbert",
				WithHuggingFaceBaseURL(srv.URL+"/models/"),
				WithHuggingFaceToken("hf_secret"),
			)
			got, err := hf.Classify(context.Background(), "Revenue beat expectations")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			assert.Equal(t, "/models/ProsusAI/finbert", c.path)
			assert.Equal(t, "Bearer hf_secret", c.auth)
			assert.Equal(t, "Revenue beat expectations", c.body["inputs"])
			assert.NotContains(t, c.body, "parameters")
		})
	}
}

func TestHuggingFaceZeroShot(t *testing.T) {
	c := &hfCapture{reply: `{"sequence":"x","labels":["negative","neutral","positive"],"scores":[0.8,0.15,0.05]}`}
	srv := c.server(t)

	hf := NewHuggingFace("facebook/bart-large-mnli",
		WithHuggingFaceBaseURL(srv.URL),
		WithHuggingFaceTask(config.TaskZeroShot),
	)
	got, err := hf.Classify(context.Background(), "Layoffs announced")
	require.NoError(t, err)
	assert.Equal(t, models.SentimentResult{Label: models.LabelNegative, Score: 0.8}, got)

	params, ok := c.body["parameters"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, []any{"positive", "neutral", "negative"}, params["candidate_labels"])
	assert.Empty(t, c.auth)
}

func TestHuggingFaceErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		reply  string
		want   error
	}{
		{"model loading", http.StatusServiceUnavailable, `{"error":"Model ProsusAI/finbert is currently loading","estimated_time":20}`, ErrUnavailable},
		{"unauthorized", http.StatusUnauthorized, `{"error":"Invalid credentials in Authorization header"}`, ErrUnavailable},
		{"not json", http.StatusOK, `<html>oops</html>`, ErrMalformedResponse},
		{"empty list", http.StatusOK, `[]`, ErrMalformedResponse},
		{"no known label", http.StatusOK, `[{"label":"LABEL_0","score":1}]`, ErrMalformedResponse},
		{"score out of range", http.StatusOK, `[{"label":"positive","score":7}]`, ErrMalformedResponse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &hfCapture{status: tt.status, reply: tt.reply}
			srv := c.server(t)

			_, err := NewHuggingFace("m", WithHuggingFaceBaseURL(srv.URL)).Classify(context.Background(), "x")
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestHuggingFaceErrorMessage(t *testing.T) {
	c := &hfCapture{status: http.StatusServiceUnavailable, reply: `{"error":"Model is currently loading"}`}
	srv := c.server(t)

	_, err := NewHuggingFace("m", WithHuggingFaceBaseURL(srv.URL)).Classify(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 503")
	assert.Contains(t, err.Error(), "Model is currently loading")
}

func TestHuggingFaceUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewHuggingFace("m", WithHuggingFaceBaseURL(url)).Classify(context.Background(), "x")
	assert.ErrorIs(t, err, ErrUnavailable)
}

// ── Ollama ──

func TestOllamaClassify(t *testing.T) {
	var got ollamaChatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			http.NotFound(w, r)
			return
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		_ = json.NewEncoder(w).Encode(ollamaChatResponse{
			Model:   got.Model,
			Message: ollamaMessage{Role: "assistant", Content: `{"label": "Positive", "score": 0.87}`},
			Done:    true,
		})
	}))
	defer srv.Close()

	o := NewOllama(srv.URL+"/", WithOllamaModel("llama3.1:8b"))
	res, err := o.Classify(context.Background(), "Margins expanded")
	require.NoError(t, err)
	assert.Equal(t, models.SentimentResult{Label: models.LabelPositive, Score: 0.87}, res)

	assert.Equal(t, "llama3.1:8b", got.Model)
	assert.Equal(t, "json", got.Format)
	assert.False(t, got.Stream)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "Margins expanded", got.Messages[1].Content)
}

func TestOllamaHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewOllama(srv.URL).Classify(context.Background(), "x")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestOllamaPing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/tags" {
			_, _ = w.Write([]byte(`{"models":[]}`))
			return
		}
		http.NotFound(w, r)
	}))
	defer srv.Close()

	assert.NoError(t, NewOllama(srv.URL).Ping(context.Background()))
}

func TestParseVerdict(t *testing.T) {
	tests := []struct {
		content string
		want    models.SentimentResult
		wantErr bool
	}{
		{`{"label":"negative","score":0.6}`, models.SentimentResult{Label: models.LabelNegative, Score: 0.6}, false},
		{` {"label":"NEUTRAL"} `, models.SentimentResult{Label: models.LabelNeutral, Score: 1}, false},
		{`{"label":"positive","score":87}`, models.SentimentResult{Label: models.LabelPositive, Score: 0.87}, false},
		{`{"label":"bullish","score":0.9}`, models.SentimentResult{}, true},
		{`{"label":"positive","score":-0.2}`, models.SentimentResult{}, true},
		{`{"label":"positive","score":250}`, models.SentimentResult{}, true},
		{`positive`, models.SentimentResult{}, true},
	}
	for _, tt := range tests {
		got, err := parseVerdict(tt.content)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrMalformedResponse, tt.content)
			continue
		}
		require.NoError(t, err, tt.content)
		assert.Equal(t, tt.want.Label, got.Label, tt.content)
		assert.InDelta(t, tt.want.Score, got.Score, 1e-9, tt.content)
	}
}

// ── Lexicon ──

func TestLexiconClassify(t *testing.T) {
	tests := []struct {
		text  string
		label models.SentimentLabel
		score float64
	}{
		{"Stock rally continues with strong growth", models.LabelPositive, 0.65},
		{"Company faces fraud investigation and lawsuit", models.LabelNegative, 0.65},
		{"The meeting is on Tuesday", models.LabelNeutral, noSignalScore},
		{"Buy or sell?", models.LabelNeutral, 0.5},
	}
	lex := NewLexicon()
	for _, tt := range tests {
		got, err := lex.Classify(context.Background(), tt.text)
		require.NoError(t, err)
		assert.Equal(t, tt.label, got.Label, tt.text)
		assert.InDelta(t, tt.score, got.Score, 1e-9, tt.text)
	}
}

func TestLexiconScoreCapped(t *testing.T) {
	got, err := NewLexicon().Classify(context.Background(),
		"Bullish rally, surge and breakout: record high, strong growth, upgrade, dividend")
	require.NoError(t, err)
	assert.Equal(t, models.LabelPositive, got.Label)
	assert.Equal(t, maxLexiconScore, got.Score)
}

// ── Wrappers ──

type recordingClassifier struct {
	got string
	err error
}

func (r *recordingClassifier) Name() string { return "recording" }

func (r *recordingClassifier) Classify(_ context.Context, text string) (models.SentimentResult, error) {
	r.got = text
	if r.err != nil {
		return models.SentimentResult{}, r.err
	}
	return models.SentimentResult{Label: models.LabelNeutral, Score: 0.5}, nil
}

func TestTruncate(t *testing.T) {
	rec := &recordingClassifier{}
	c := Truncate(rec, 4)
	_, err := c.Classify(context.Background(), "héllo wörld")
	require.NoError(t, err)
	assert.Equal(t, "héll", rec.got)
	assert.Equal(t, "recording", c.Name())

	rec2 := &recordingClassifier{}
	_, _ = Truncate(rec2, 0).Classify(context.Background(), strings.Repeat("a", 600))
	assert.Len(t, rec2.got, models.MaxClassifierInput)
}

func TestObserveLogs(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger.SetGlobal(zap.New(core))
	t.Cleanup(func() { logger.SetGlobal(nil) })

	ok := Observe(&recordingClassifier{})
	_, err := ok.Classify(context.Background(), "text")
	require.NoError(t, err)
	assert.Equal(t, 1, logs.FilterMessage("classified").Len())

	failing := Observe(&recordingClassifier{err: ErrUnavailable})
	_, err = failing.Classify(context.Background(), "text")
	assert.ErrorIs(t, err, ErrUnavailable)
	entries := logs.FilterMessage("classification failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)

	// wrapping twice is a no-op
	assert.Same(t, ok, Observe(ok))
}

// ── NewFromConfig ──

func TestNewFromConfig(t *testing.T) {
	t.Setenv("FINSENSE_CLASSIFIER_HF_TOKEN", "")
	t.Setenv("HF_TOKEN", "")

	tests := []struct {
		name     string
		mutate   func(*config.Config)
		wantName string
		wantErr  error
	}{
		{"lexicon", func(c *config.Config) { c.Classifier.Provider = config.ProviderLexicon }, config.ProviderLexicon, nil},
		{"ollama", func(c *config.Config) { c.Classifier.Provider = config.ProviderOllama }, config.ProviderOllama, nil},
		{"huggingface", func(c *config.Config) { c.Classifier.HFToken = "hf_x" }, config.ProviderHuggingFace, nil},
		{"huggingface without token", func(c *config.Config) {}, "", ErrNoAPIKey},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(cfg)
			c, err := NewFromConfig(cfg)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, c.Name())
		})
	}

	cfg := config.Default()
	cfg.Classifier.Provider = "openai"
	_, err := NewFromConfig(cfg)
	assert.Error(t, err)
}
