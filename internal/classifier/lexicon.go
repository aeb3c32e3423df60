package classifier

import (
	"context"
	"math"
	"strings"

	"github.com/seenimoa/finsense/internal/config"
	"github.com/seenimoa/finsense/pkg/models"
)

// Keyword-based classifier (offline, no model needed).
// Weights are per-phrase strengths; matching is substring-based on the
// lower-cased text.

var positiveWords = map[string]float64{
	"bullish": 0.7, "rally": 0.6, "surge": 0.7, "soar": 0.7, "upbeat": 0.5,
	"positive": 0.4, "growth": 0.4, "upgrade": 0.6, "outperform": 0.6,
	"buy": 0.5, "strong": 0.4, "recovery": 0.5, "breakout": 0.6,
	"record high": 0.7, "all-time high": 0.7, "beat": 0.5, "record": 0.3,
	"exceed": 0.5, "beats estimate": 0.6, "expansion": 0.4, "optimistic": 0.5,
	"profit": 0.3, "dividend": 0.4, "gain": 0.4, "rise": 0.3,
}

var negativeWords = map[string]float64{
	"bearish": 0.7, "crash": 0.8, "plunge": 0.7, "slump": 0.6,
	"negative": 0.4, "downgrade": 0.6, "underperform": 0.6,
	"sell": 0.5, "weak": 0.4, "decline": 0.5, "loss": 0.4,
	"selloff": 0.7, "fall": 0.4, "correction": 0.5, "layoff": 0.6,
	"default": 0.7, "fraud": 0.8, "scam": 0.8, "investigation": 0.5,
	"cut": 0.3, "miss": 0.5, "warning": 0.5, "concern": 0.3,
	"bankruptcy": 0.8, "lawsuit": 0.5, "recession": 0.6, "drop": 0.4,
}

const (
	netThreshold      = 0.1
	noSignalScore     = 0.5
	maxLexiconScore   = 0.85
	perMatchIncrement = 0.15
)

// Lexicon is a deterministic keyword classifier.
type Lexicon struct{}

// NewLexicon returns the offline keyword classifier.
func NewLexicon() *Lexicon { return &Lexicon{} }

func (*Lexicon) Name() string { return config.ProviderLexicon }

// Classify never fails; text with no keywords is neutral.
func (*Lexicon) Classify(_ context.Context, text string) (models.SentimentResult, error) {
	net, matches := scoreText(text)
	if matches == 0 {
		return models.SentimentResult{Label: models.LabelNeutral, Score: noSignalScore}, nil
	}

	// Confidence based on number of keyword matches.
	score := math.Min(float64(matches)*perMatchIncrement+0.2, maxLexiconScore)

	switch {
	case net > netThreshold:
		return models.SentimentResult{Label: models.LabelPositive, Score: score}, nil
	case net < -netThreshold:
		return models.SentimentResult{Label: models.LabelNegative, Score: score}, nil
	default:
		return models.SentimentResult{Label: models.LabelNeutral, Score: score}, nil
	}
}

// scoreText returns the net polarity in -1..+1 and the number of matched
// phrases.
func scoreText(text string) (net float64, matches int) {
	lower := strings.ToLower(text)

	pos, neg := 0.0, 0.0
	for word, weight := range positiveWords {
		if strings.Contains(lower, word) {
			pos += weight
			matches++
		}
	}
	for word, weight := range negativeWords {
		if strings.Contains(lower, word) {
			neg += weight
			matches++
		}
	}

	total := pos + neg
	if total == 0 {
		return 0, matches
	}
	return (pos - neg) / total, matches
}
