package classifier

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/seenimoa/finsense/internal/logger"
	"github.com/seenimoa/finsense/internal/trace"
	"github.com/seenimoa/finsense/pkg/models"
)

// Observe wraps c so every call runs inside a span and is logged through
// the process-wide logger.
func Observe(c Classifier) Classifier {
	if _, ok := c.(*observed); ok {
		return c
	}
	return &observed{next: c}
}

type observed struct {
	next Classifier
}

func (o *observed) Name() string { return o.next.Name() }

// Unwrap returns the instrumented classifier.
func (o *observed) Unwrap() Classifier { return o.next }

func (o *observed) Classify(ctx context.Context, text string) (models.SentimentResult, error) {
	ctx, span := trace.StartSpan(ctx, "classifier.classify")
	defer span.End()
	span.SetAttributes(
		attribute.String("classifier.provider", o.next.Name()),
		attribute.Int("classifier.input_chars", len([]rune(text))),
	)

	start := time.Now()
	res, err := o.next.Classify(ctx, text)
	latency := time.Since(start)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.L().Warn("classification failed",
			zap.String("provider", o.next.Name()),
			zap.Duration("latency", latency),
			zap.Error(err),
		)
		return res, err
	}

	span.SetAttributes(
		attribute.String("sentiment.label", string(res.Label)),
		attribute.Float64("sentiment.score", res.Score),
	)
	logger.L().Debug("classified",
		zap.String("provider", o.next.Name()),
		zap.String("label", string(res.Label)),
		zap.Float64("score", res.Score),
		zap.Duration("latency", latency),
	)
	return res, nil
}
