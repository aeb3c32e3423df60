package sentiment

import (
	"context"
	"regexp"
	"strings"

	"github.com/seenimoa/finsense/pkg/models"
	"github.com/seenimoa/finsense/pkg/utils"
)

const (
	// MaxTrendSegments caps the classifier calls made per trend analysis.
	MaxTrendSegments = 5

	minSentenceChars = 20
	trendThreshold   = 0.3
)

var sentenceBreak = regexp.MustCompile(`[.!?]+`)

// SegmentClassifier classifies a single text span.
type SegmentClassifier interface {
	Classify(ctx context.Context, text string) (models.SentimentResult, error)
}

// SplitSegments breaks text into paragraphs, falling back to sentences
// longer than 20 characters when there is only one paragraph.
func SplitSegments(text string) []string {
	var segments []string
	for _, p := range strings.Split(text, "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			segments = append(segments, p)
		}
	}
	if len(segments) >= 2 {
		return segments
	}

	segments = segments[:0]
	for _, s := range sentenceBreak.Split(text, -1) {
		if s = strings.TrimSpace(s); utils.CharLen(s) > minSentenceChars {
			segments = append(segments, s)
		}
	}
	return segments
}

// AnalyzeTrend compares the sentiment of the first half of text with the
// second half. It returns nil when fewer than two segments can be
// classified.
//
// Up to MaxTrendSegments segments are classified one after another. A
// segment whose classification fails is skipped and the rest still run.
func AnalyzeTrend(ctx context.Context, text string, c SegmentClassifier) *models.TrendResult {
	segments := SplitSegments(text)
	if len(segments) < 2 {
		return nil
	}
	if len(segments) > MaxTrendSegments {
		segments = segments[:MaxTrendSegments]
	}

	labels := make([]models.SentimentLabel, 0, len(segments))
	for _, seg := range segments {
		res, err := c.Classify(ctx, utils.Truncate(seg, models.MaxClassifierInput))
		if err != nil {
			continue
		}
		labels = append(labels, res.Label)
	}
	if len(labels) < 2 {
		return nil
	}

	mid := len(labels) / 2
	diff := meanPolarity(labels[mid:]) - meanPolarity(labels[:mid])

	trend := models.TrendStable
	switch {
	case diff > trendThreshold:
		trend = models.TrendImproving
	case diff < -trendThreshold:
		trend = models.TrendDeclining
	}

	return &models.TrendResult{
		Trend:            trend,
		Emoji:            trend.Emoji(),
		Previous:         labels[0].Title(),
		Current:          labels[len(labels)-1].Title(),
		SegmentsAnalyzed: len(labels),
	}
}

// meanPolarity averages label polarities; an empty slice averages to 0.
func meanPolarity(labels []models.SentimentLabel) float64 {
	sum := 0
	for _, l := range labels {
		sum += l.Polarity()
	}
	n := len(labels)
	if n == 0 {
		n = 1
	}
	return float64(sum) / float64(n)
}
