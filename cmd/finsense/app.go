package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/seenimoa/finsense/internal/classifier"
	"github.com/seenimoa/finsense/internal/config"
	"github.com/seenimoa/finsense/internal/datasource"
	"github.com/seenimoa/finsense/internal/logger"
	"github.com/seenimoa/finsense/internal/pipeline"
)

// buildClassifier returns the configured backend. A Hugging Face setup
// without a token falls back to the offline lexicon.
func buildClassifier(cfg *config.Config) (classifier.Classifier, error) {
	c, err := classifier.NewFromConfig(cfg)
	if errors.Is(err, classifier.ErrNoAPIKey) {
		logger.L().Warn("no Hugging Face token configured, using the lexicon classifier",
			zap.String("env", "FINSENSE_CLASSIFIER_HF_TOKEN"))
		fallback := *cfg
		fallback.Classifier.Provider = config.ProviderLexicon
		return classifier.NewFromConfig(&fallback)
	}
	return c, err
}

// buildStocks returns the Yahoo Finance client, or nil when stock data is
// disabled.
func buildStocks(cfg *config.Config) datasource.StockSource {
	if !cfg.Stock.Enabled {
		return nil
	}
	return datasource.NewYFinanceFromConfig(cfg.Stock)
}

func buildAnalyzer(cfg *config.Config) (*pipeline.Analyzer, error) {
	c, err := buildClassifier(cfg)
	if err != nil {
		return nil, err
	}
	return pipeline.New(pipeline.Config{
		Classifier:    c,
		Stocks:        buildStocks(cfg),
		News:          datasource.NewNewsFromConfig(cfg.News),
		Period:        cfg.Stock.DefaultPeriod,
		MaxInputChars: cfg.Classifier.MaxInputChars,
	}), nil
}

// readText picks the analyze input: arguments first, then --file, then
// stdin.
func readText(args []string, file string, stdin io.Reader) (string, error) {
	switch {
	case len(args) > 0:
		return strings.Join(args, " "), nil
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", file, err)
		}
		return string(data), nil
	case stdin != nil:
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	return "", pipeline.ErrEmptyText
}
