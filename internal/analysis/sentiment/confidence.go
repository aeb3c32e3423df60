package sentiment

import "github.com/seenimoa/finsense/pkg/models"

// Confidence level names.
const (
	LevelVeryHigh = "Very High"
	LevelHigh     = "High"
	LevelMedium   = "Medium"
	LevelLow      = "Low"
)

// ClassifyConfidence buckets a confidence percentage (0-100).
// Each bucket includes its lower bound.
func ClassifyConfidence(confidence float64) models.ConfidenceLevel {
	switch {
	case confidence >= 80:
		return models.ConfidenceLevel{Level: LevelVeryHigh, Color: "#00d48a"}
	case confidence >= 60:
		return models.ConfidenceLevel{Level: LevelHigh, Color: "#667eea"}
	case confidence >= 40:
		return models.ConfidenceLevel{Level: LevelMedium, Color: "#ffb74d"}
	default:
		return models.ConfidenceLevel{Level: LevelLow, Color: "#ff5252"}
	}
}
