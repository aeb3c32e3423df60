package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── Sentiment label tests ──

func TestParseLabel(t *testing.T) {
	tests := []struct {
		in   string
		want SentimentLabel
		ok   bool
	}{
		{"positive", LabelPositive, true},
		{"Negative", LabelNegative, true},
		{"  NEUTRAL \n", LabelNeutral, true},
		{"bullish", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseLabel(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLabelMappings(t *testing.T) {
	tests := []struct {
		label      SentimentLabel
		polarity   int
		title      string
		prediction string
	}{
		{LabelPositive, 1, "Positive", PredictionBullish},
		{LabelNeutral, 0, "Neutral", PredictionNeutral},
		{LabelNegative, -1, "Negative", PredictionBearish},
		{"", 0, "", PredictionNeutral},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.polarity, tt.label.Polarity(), tt.label)
		assert.Equal(t, tt.title, tt.label.Title(), tt.label)
		assert.Equal(t, tt.prediction, tt.label.Prediction(), tt.label)
	}
}

func TestLabelsOrder(t *testing.T) {
	assert.Equal(t, []SentimentLabel{LabelPositive, LabelNeutral, LabelNegative}, Labels())
}

func TestTrendEmoji(t *testing.T) {
	assert.Equal(t, "📈", TrendImproving.Emoji())
	assert.Equal(t, "📉", TrendDeclining.Emoji())
	assert.Equal(t, "➡️", TrendStable.Emoji())
}

// ── Wire shape tests ──

func TestAnalysisResponseJSONShape(t *testing.T) {
	resp := AnalysisResponse{
		Sentiment:       "Neutral",
		Confidence:      55.5,
		ConfidenceLevel: ConfidenceLevel{Level: "Medium", Color: "#ffb74d"},
		Prediction:      PredictionNeutral,
		Scores:          map[string]float64{"positive": 0, "neutral": 0.555, "negative": 0},
		Impact:          ImpactScore{Level: "Mild Neutral"},
		Insight:         "Mixed market signals.",
	}

	data, err := json.Marshal(resp)
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "null", string(raw["trend"]))
	assert.Equal(t, "null", string(raw["stock"]))
	assert.NotContains(t, raw, "ticker")
	assert.Contains(t, raw, "confidenceLevel")

	var impact map[string]any
	require.NoError(t, json.Unmarshal(raw["impact"], &impact))
	assert.Contains(t, impact, "bullish_signals")
	assert.Contains(t, impact, "bearish_signals")
}

func TestNewsItemFlattensArticle(t *testing.T) {
	item := NewsItem{
		NewsArticle: NewsArticle{
			Title:       "Apple beats",
			URL:         "https://example.com/a",
			Source:      "Yahoo Finance",
			PublishedAt: time.Date(2024, 1, 2, 15, 0, 0, 0, time.UTC),
		},
		Sentiment:  "Positive",
		Confidence: 81.25,
	}

	data, err := json.Marshal(item)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "Apple beats", raw["title"])
	assert.Equal(t, "2024-01-02T15:00:00Z", raw["published_at"])
	assert.Equal(t, "Positive", raw["sentiment"])
	assert.NotContains(t, raw, "summary")
}
