// Package pipeline runs one analysis end to end: classify the text, derive
// the heuristic analytics from the classification and enrich the result
// with market data for a mentioned ticker.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/seenimoa/finsense/internal/analysis/sentiment"
	"github.com/seenimoa/finsense/internal/classifier"
	"github.com/seenimoa/finsense/internal/datasource"
	"github.com/seenimoa/finsense/internal/logger"
	"github.com/seenimoa/finsense/internal/trace"
	"github.com/seenimoa/finsense/pkg/models"
	"github.com/seenimoa/finsense/pkg/utils"
)

var (
	// ErrEmptyText is returned for missing or whitespace-only input.
	ErrEmptyText = errors.New("pipeline: text input is required")

	// ErrClassification wraps a classifier failure on the whole text.
	ErrClassification = errors.New("pipeline: sentiment classification failed")

	// ErrNoNewsSource is returned by AnalyzeNews when no feed is wired.
	ErrNoNewsSource = errors.New("pipeline: news source not configured")
)

// Config wires an Analyzer to its collaborators.
type Config struct {
	Classifier classifier.Classifier

	// Stocks enriches responses with market data; nil disables it.
	Stocks datasource.StockSource

	// News supplies headlines for AnalyzeNews; nil disables it.
	News datasource.NewsSource

	// Period is the history range used for enrichment (default "1mo").
	Period string

	// MaxInputChars bounds the text handed to the classifier (default 512).
	MaxInputChars int
}

// Analyzer is safe for concurrent use.
type Analyzer struct {
	classifier classifier.Classifier
	stocks     datasource.StockSource
	news       datasource.NewsSource
	period     string
	maxInput   int
}

// New creates an Analyzer. cfg.Classifier is required.
func New(cfg Config) *Analyzer {
	a := &Analyzer{
		classifier: cfg.Classifier,
		stocks:     cfg.Stocks,
		news:       cfg.News,
		period:     cfg.Period,
		maxInput:   cfg.MaxInputChars,
	}
	if a.period == "" {
		a.period = datasource.DefaultPeriod
	}
	if a.maxInput <= 0 {
		a.maxInput = models.MaxClassifierInput
	}
	return a
}

// ClassifierName reports the active classifier backend.
func (a *Analyzer) ClassifierName() string { return a.classifier.Name() }

// StockEnabled reports whether stock enrichment is configured.
func (a *Analyzer) StockEnabled() bool { return a.stocks != nil }

// Analyze classifies text and assembles the combined response.
//
// The first MaxInputChars characters decide the overall label, while the
// keyword and length signals of the impact score use the entire text.
// A failed stock lookup is logged and leaves Stock nil.
func (a *Analyzer) Analyze(ctx context.Context, text string) (*models.AnalysisResponse, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}
	if utils.LooksLikeHTML(text) {
		text = utils.CleanHTML(text)
		if text == "" {
			return nil, ErrEmptyText
		}
	}

	ctx, span := trace.StartSpan(ctx, "pipeline.analyze")
	defer span.End()
	span.SetAttributes(attribute.Int("input.chars", utils.CharLen(text)))

	res, err := a.classifier.Classify(ctx, utils.Truncate(text, a.maxInput))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrClassification, err)
	}

	confidence := utils.Round(res.Score*100, 2)
	prediction := res.Label.Prediction()
	impact := sentiment.ScoreImpact(text, res.Label, confidence)

	resp := &models.AnalysisResponse{
		Sentiment:       res.Label.Title(),
		Confidence:      confidence,
		ConfidenceLevel: sentiment.ClassifyConfidence(confidence),
		Prediction:      prediction,
		Scores:          scoreMap(res),
		Impact:          impact,
		Insight:         sentiment.GenerateInsight(res.Label, confidence, impact, prediction),
		Trend:           sentiment.AnalyzeTrend(ctx, text, a.classifier),
	}

	if ticker, ok := sentiment.ExtractTicker(text); ok {
		resp.Ticker = ticker
		resp.Stock = a.lookupStock(ctx, ticker)
	}

	span.SetAttributes(
		attribute.String("sentiment.label", string(res.Label)),
		attribute.String("ticker", resp.Ticker),
	)
	return resp, nil
}

// AnalyzeNews scores up to limit recent headlines for symbol. Headlines
// are classified one after another; one whose classification fails is
// skipped. An empty feed yields datasource.ErrNoData.
func (a *Analyzer) AnalyzeNews(ctx context.Context, symbol string, limit int) ([]models.NewsItem, error) {
	if a.news == nil {
		return nil, ErrNoNewsSource
	}

	ctx, span := trace.StartSpan(ctx, "pipeline.analyze_news")
	defer span.End()

	articles, err := a.news.GetCompanyNews(ctx, symbol, limit)
	if err != nil {
		return nil, err
	}
	if len(articles) == 0 {
		return nil, fmt.Errorf("%w: no headlines for %s", datasource.ErrNoData, symbol)
	}

	items := make([]models.NewsItem, 0, len(articles))
	for _, art := range articles {
		text := art.Title
		if art.Summary != "" && art.Summary != art.Title {
			text += ". " + art.Summary
		}

		res, err := a.classifier.Classify(ctx, utils.Truncate(text, a.maxInput))
		if err != nil {
			logger.L().Warn("headline skipped", zap.String("symbol", symbol), zap.String("title", art.Title), zap.Error(err))
			continue
		}

		confidence := utils.Round(res.Score*100, 2)
		items = append(items, models.NewsItem{
			NewsArticle: art,
			Sentiment:   res.Label.Title(),
			Confidence:  confidence,
			Impact:      sentiment.ScoreImpact(text, res.Label, confidence),
		})
	}
	span.SetAttributes(attribute.Int("news.items", len(items)))
	return items, nil
}

func (a *Analyzer) lookupStock(ctx context.Context, ticker string) *models.StockData {
	if a.stocks == nil {
		return nil
	}
	sd, err := a.stocks.GetStockData(ctx, ticker, a.period)
	if err != nil {
		logger.L().Error("error fetching stock data", zap.String("ticker", ticker), zap.Error(err))
		return nil
	}
	return sd
}

// scoreMap reports the winning label's raw score; the others are zero.
func scoreMap(res models.SentimentResult) map[string]float64 {
	scores := make(map[string]float64, 3)
	for _, l := range models.Labels() {
		scores[string(l)] = 0
	}
	scores[string(res.Label)] = res.Score
	return scores
}
