package sentiment

import (
	"fmt"

	"github.com/seenimoa/finsense/pkg/models"
)

// fallbackInsight is returned for a (label, level) pair outside the table.
const fallbackInsight = "Analysis complete. Monitor market conditions for updates."

type insightKey struct {
	label models.SentimentLabel
	level string
}

// insightFunc renders an advisory sentence for a confidence percentage.
type insightFunc func(confidence float64) string

func fixed(s string) insightFunc {
	return func(float64) string { return s }
}

var insights = map[insightKey]insightFunc{
	{models.LabelPositive, LevelVeryHigh}: func(c float64) string {
		return fmt.Sprintf("Strong bullish sentiment detected with %.1f%% confidence. Market conditions favor upward momentum. Consider monitoring entry points while staying aware of macroeconomic factors.", c)
	},
	{models.LabelPositive, LevelHigh}:   fixed("Positive market sentiment with solid confidence. Short-term outlook appears favorable, but prudent investors should maintain diversified positions."),
	{models.LabelPositive, LevelMedium}: fixed("Moderately positive signals present. Market sentiment leans bullish but with some uncertainty. Consider waiting for confirmation before major positions."),
	{models.LabelPositive, LevelLow}:    fixed("Weak positive sentiment detected. Insufficient confidence for actionable insights. Recommend further research."),

	{models.LabelNegative, LevelVeryHigh}: func(c float64) string {
		return fmt.Sprintf("Strong bearish signals detected with %.1f%% confidence. Consider risk mitigation strategies and review portfolio exposure.", c)
	},
	{models.LabelNegative, LevelHigh}:   fixed("Significant negative sentiment identified. Short-term headwinds expected. Defensive positioning may be warranted."),
	{models.LabelNegative, LevelMedium}: fixed("Moderate bearish indicators present. Exercise caution and monitor for trend confirmation."),
	{models.LabelNegative, LevelLow}:    fixed("Mild negative sentiment with low confidence. Market impact likely minimal. Continue regular monitoring."),

	{models.LabelNeutral, LevelVeryHigh}: fixed("Market sentiment is neutral with high confidence. Sideways movement expected. Range-bound trading strategies may be appropriate."),
	{models.LabelNeutral, LevelHigh}:     fixed("Balanced sentiment signals. No strong directional bias detected. Hold current positions pending clearer signals."),
	{models.LabelNeutral, LevelMedium}:   fixed("Mixed market signals. Insufficient data for directional call. Await further developments."),
	{models.LabelNeutral, LevelLow}:      fixed("Unclear market sentiment. Recommend gathering additional data points before making decisions."),
}

// GenerateInsight returns the advisory sentence for a classification.
// The impact score and prediction are accepted for callers that have them
// at hand but do not influence the selection.
func GenerateInsight(label models.SentimentLabel, confidence float64, _ models.ImpactScore, _ string) string {
	key := insightKey{label: label, level: ClassifyConfidence(confidence).Level}
	if render, ok := insights[key]; ok {
		return render(confidence)
	}
	return fallbackInsight
}
