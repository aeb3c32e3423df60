package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seenimoa/finsense/internal/config"
	"github.com/seenimoa/finsense/internal/pipeline"
)

func TestReadText(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "note.txt")
	require.NoError(t, os.WriteFile(path, []byte("from file"), 0o600))

	tests := []struct {
		name  string
		args  []string
		file  string
		stdin string
		want  string
	}{
		{"args joined", []string{"AAPL", "beats", "estimates"}, path, "ignored", "AAPL beats estimates"},
		{"file", nil, path, "ignored", "from file"},
		{"stdin", nil, "", "from stdin\n", "from stdin\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := readText(tt.args, tt.file, strings.NewReader(tt.stdin))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReadTextErrors(t *testing.T) {
	_, err := readText(nil, filepath.Join(t.TempDir(), "missing.txt"), nil)
	assert.Error(t, err)

	_, err = readText(nil, "", nil)
	assert.ErrorIs(t, err, pipeline.ErrEmptyText)
}

func TestBuildClassifierFallsBackToLexicon(t *testing.T) {
	cfg := &config.Config{Classifier: config.ClassifierConfig{
		Provider:      config.ProviderHuggingFace,
		Model:         "ProsusAI/finbert",
		MaxInputChars: 512,
	}}

	c, err := buildClassifier(cfg)
	require.NoError(t, err)
	assert.Equal(t, config.ProviderLexicon, c.Name())
	assert.Equal(t, config.ProviderHuggingFace, cfg.Classifier.Provider, "caller config must not change")
}

func TestBuildClassifierUnknownProvider(t *testing.T) {
	_, err := buildClassifier(&config.Config{Classifier: config.ClassifierConfig{Provider: "bogus"}})
	assert.Error(t, err)
}

func TestBuildAnalyzer(t *testing.T) {
	cfg := &config.Config{
		Classifier: config.ClassifierConfig{Provider: config.ProviderLexicon},
		Stock:      config.StockConfig{Enabled: false},
	}

	a, err := buildAnalyzer(cfg)
	require.NoError(t, err)
	assert.Equal(t, config.ProviderLexicon, a.ClassifierName())
	assert.False(t, a.StockEnabled())
	assert.Nil(t, buildStocks(cfg))

	cfg.Stock.Enabled = true
	assert.NotNil(t, buildStocks(cfg))
}
