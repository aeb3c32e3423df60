// Package models defines the core data structures used throughout FinSense.
package models

import "strings"

// MaxClassifierInput is the longest text span (in characters) handed to the
// sentiment model in a single call.
const MaxClassifierInput = 512

// SentimentLabel is the classifier output category for a text span.
type SentimentLabel string

const (
	LabelPositive SentimentLabel = "positive"
	LabelNeutral  SentimentLabel = "neutral"
	LabelNegative SentimentLabel = "negative"
)

// Labels returns the target label set in a stable order.
func Labels() []SentimentLabel {
	return []SentimentLabel{LabelPositive, LabelNeutral, LabelNegative}
}

// ParseLabel maps raw classifier output to a SentimentLabel.
// Matching is case-insensitive and ignores surrounding whitespace.
func ParseLabel(s string) (SentimentLabel, bool) {
	switch SentimentLabel(strings.ToLower(strings.TrimSpace(s))) {
	case LabelPositive:
		return LabelPositive, true
	case LabelNeutral:
		return LabelNeutral, true
	case LabelNegative:
		return LabelNegative, true
	}
	return "", false
}

// Polarity maps positive/neutral/negative to +1/0/-1.
func (l SentimentLabel) Polarity() int {
	switch l {
	case LabelPositive:
		return 1
	case LabelNegative:
		return -1
	default:
		return 0
	}
}

// Title returns the label with its first letter upper-cased ("Positive").
func (l SentimentLabel) Title() string {
	if l == "" {
		return ""
	}
	s := string(l)
	return strings.ToUpper(s[:1]) + s[1:]
}

// Prediction maps the label to a market direction.
func (l SentimentLabel) Prediction() string {
	switch l {
	case LabelPositive:
		return PredictionBullish
	case LabelNegative:
		return PredictionBearish
	default:
		return PredictionNeutral
	}
}

// Market direction names shared by predictions and impact levels.
const (
	PredictionBullish = "Bullish"
	PredictionBearish = "Bearish"
	PredictionNeutral = "Neutral"
)

// SentimentResult is one classifier invocation's output for one text span.
type SentimentResult struct {
	Label SentimentLabel `json:"label"`
	Score float64        `json:"score"` // 0..1
}

// ConfidenceLevel is a display bucket for a confidence percentage.
type ConfidenceLevel struct {
	Level string `json:"level"`
	Color string `json:"color"`
}

// ImpactScore is the heuristic market-impact estimate for a text.
type ImpactScore struct {
	Score          float64 `json:"score"` // -100..100
	Level          string  `json:"level"` // e.g. "Strong Bullish"
	BullishSignals int     `json:"bullish_signals"`
	BearishSignals int     `json:"bearish_signals"`
}

// Trend is the direction of sentiment change across segments of a text.
type Trend string

const (
	TrendImproving Trend = "Improving"
	TrendDeclining Trend = "Declining"
	TrendStable    Trend = "Stable"
)

// Emoji returns the chart glyph shown next to the trend.
func (t Trend) Emoji() string {
	switch t {
	case TrendImproving:
		return "📈"
	case TrendDeclining:
		return "📉"
	default:
		return "➡️"
	}
}

// TrendResult compares early and late segment sentiment of one text.
type TrendResult struct {
	Trend            Trend  `json:"trend"`
	Emoji            string `json:"emoji"`
	Previous         string `json:"previous"`
	Current          string `json:"current"`
	SegmentsAnalyzed int    `json:"segments_analyzed"`
}
