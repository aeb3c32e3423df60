// Package classifier turns a span of text into a three-way financial
// sentiment label. Backends are a hosted Hugging Face model (FinBERT by
// default), a local Ollama chat model and an offline keyword lexicon.
package classifier

import (
	"context"
	"errors"

	"github.com/seenimoa/finsense/internal/config"
	"github.com/seenimoa/finsense/pkg/models"
	"github.com/seenimoa/finsense/pkg/utils"
)

// Common errors returned by classifiers.
var (
	ErrUnavailable       = errors.New("classifier: backend unavailable")
	ErrMalformedResponse = errors.New("classifier: malformed response")
	ErrNoAPIKey          = errors.New("classifier: API token not configured")
)

// Classifier labels a text span as positive, neutral or negative with a
// score in [0, 1].
type Classifier interface {
	// Name returns the backend identifier (e.g., "huggingface").
	Name() string

	// Classify returns the winning label for text. Callers keep text
	// within the backend's input limit.
	Classify(ctx context.Context, text string) (models.SentimentResult, error)
}

// NewFromConfig builds the configured backend, bounded to the configured
// input length and instrumented with logs and spans.
func NewFromConfig(cfg *config.Config) (Classifier, error) {
	cc := cfg.Classifier

	var c Classifier
	switch cc.Provider {
	case config.ProviderHuggingFace:
		if cc.HFToken == "" {
			return nil, ErrNoAPIKey
		}
		c = NewHuggingFace(cc.Model,
			WithHuggingFaceBaseURL(cc.HuggingFaceURL),
			WithHuggingFaceToken(cc.HFToken),
			WithHuggingFaceTask(cc.Task),
			WithHuggingFaceTimeout(cc.Timeout()),
		)
	case config.ProviderOllama:
		c = NewOllama(cc.OllamaURL,
			WithOllamaModel(cc.OllamaModel),
			WithOllamaTimeout(cc.Timeout()),
		)
	case config.ProviderLexicon:
		c = NewLexicon()
	default:
		return nil, errors.New("classifier: unknown provider " + cc.Provider)
	}

	return Observe(Truncate(c, cc.MaxInputChars)), nil
}

// Truncate bounds every input to at most n characters before it reaches c.
func Truncate(c Classifier, n int) Classifier {
	if n <= 0 {
		n = models.MaxClassifierInput
	}
	return &truncating{next: c, max: n}
}

type truncating struct {
	next Classifier
	max  int
}

func (t *truncating) Name() string { return t.next.Name() }

func (t *truncating) Classify(ctx context.Context, text string) (models.SentimentResult, error) {
	return t.next.Classify(ctx, utils.Truncate(text, t.max))
}

// winner picks the highest-scoring recognised label.
func winner(labels []string, scores []float64) (models.SentimentResult, error) {
	if len(labels) == 0 || len(labels) != len(scores) {
		return models.SentimentResult{}, ErrMalformedResponse
	}
	best := models.SentimentResult{Score: -1}
	for i, raw := range labels {
		label, ok := models.ParseLabel(raw)
		if !ok {
			continue
		}
		if scores[i] > best.Score {
			best = models.SentimentResult{Label: label, Score: scores[i]}
		}
	}
	if best.Label == "" || best.Score < 0 || best.Score > 1 {
		return models.SentimentResult{}, ErrMalformedResponse
	}
	return best, nil
}
