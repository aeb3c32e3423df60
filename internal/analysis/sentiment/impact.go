package sentiment

import (
	"math"
	"strings"

	"github.com/seenimoa/finsense/pkg/models"
	"github.com/seenimoa/finsense/pkg/utils"
)

const (
	keywordWeight   = 5.0
	lengthRamp      = 500.0 // characters for a full length boost
	maxLengthFactor = 0.2
	maxImpact       = 100.0
)

// ScoreImpact estimates how market-moving text is on a -100..+100 scale.
//
// The classifier's signed confidence is the base, each distinct bullish or
// bearish keyword present shifts it by 5 points, and longer texts get up to
// a 20% boost. The result is clamped and rounded to one decimal.
func ScoreImpact(text string, label models.SentimentLabel, confidence float64) models.ImpactScore {
	lower := strings.ToLower(text)

	var base float64
	switch label {
	case models.LabelPositive:
		base = confidence
	case models.LabelNegative:
		base = -confidence
	}

	bullish := countKeywords(lower, BullishKeywords)
	bearish := countKeywords(lower, BearishKeywords)
	boost := float64(bullish-bearish) * keywordWeight

	lengthFactor := math.Min(float64(utils.CharLen(text))/lengthRamp, maxLengthFactor)

	score := (base + boost) * (1 + lengthFactor)
	score = math.Max(-maxImpact, math.Min(maxImpact, score))
	score = utils.Round(score, 1)

	return models.ImpactScore{
		Score:          score,
		Level:          impactTier(score) + " " + impactDirection(score),
		BullishSignals: bullish,
		BearishSignals: bearish,
	}
}

// countKeywords reports how many of keywords occur in lower.
func countKeywords(lower string, keywords []string) int {
	n := 0
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			n++
		}
	}
	return n
}

func impactTier(score float64) string {
	abs := math.Abs(score)
	switch {
	case abs >= 70:
		return "Strong"
	case abs >= 40:
		return "Moderate"
	default:
		return "Mild"
	}
}

func impactDirection(score float64) string {
	switch {
	case score > 0:
		return models.PredictionBullish
	case score < 0:
		return models.PredictionBearish
	default:
		return models.PredictionNeutral
	}
}
