package report

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"strings"

	"github.com/seenimoa/finsense/pkg/models"
	"github.com/seenimoa/finsense/pkg/utils"
)

// ErrNilAnalysis is returned when there is nothing to render.
var ErrNilAnalysis = errors.New("report: analysis is nil")

// excerptChars bounds the quoted input shown at the top of a report.
const excerptChars = 600

// Config controls report rendering.
type Config struct {
	Title    string      // custom report title (optional)
	Author   string      // author line (default: "FinSense")
	Excerpt  string      // analyzed text, quoted in the report (optional)
	ChartCfg ChartConfig // price chart rendering config
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Author:   "FinSense",
		ChartCfg: DefaultChartConfig(),
	}
}

// Data is the template model passed to the HTML template.
type Data struct {
	Title       string
	Author      string
	GeneratedAt string
	Excerpt     string

	Sentiment       string
	SentimentClass  string // CSS class: positive, neutral, negative
	Confidence      string
	ConfidenceLevel string
	ConfidenceColor string
	Prediction      string
	Insight         string

	ImpactScore    string
	ImpactLevel    string
	BullishSignals int
	BearishSignals int

	HasTrend bool
	Trend    string
	TrendEmo string
	Previous string
	Current  string
	Segments int

	Ticker     string
	HasStock   bool
	StockName  string
	Price      string
	Change     string
	ChangePct  string
	ChangeUp   bool
	Sector     string
	MarketCap  string
	PriceChart template.HTML

	ImpactGauge template.HTML
}

// GenerateHTML renders a standalone HTML report for an analysis.
func GenerateHTML(a *models.AnalysisResponse, cfg Config) (string, error) {
	if a == nil {
		return "", ErrNilAnalysis
	}

	tmpl, err := template.New("report").Parse(htmlTemplate)
	if err != nil {
		return "", fmt.Errorf("parsing template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, buildData(a, cfg)); err != nil {
		return "", fmt.Errorf("executing template: %w", err)
	}
	return buf.String(), nil
}

// GenerateText renders a plain-text report (terminal / CLI friendly).
func GenerateText(a *models.AnalysisResponse, cfg Config) (string, error) {
	if a == nil {
		return "", ErrNilAnalysis
	}
	return renderText(buildData(a, cfg)), nil
}

func buildData(a *models.AnalysisResponse, cfg Config) Data {
	if cfg.ChartCfg.Width == 0 {
		cfg.ChartCfg = DefaultChartConfig()
	}

	d := Data{
		Title:       cfg.Title,
		Author:      cfg.Author,
		GeneratedAt: utils.FormatDateTimeET(utils.NowET()),
		Excerpt:     excerpt(cfg.Excerpt),

		Sentiment:       a.Sentiment,
		SentimentClass:  strings.ToLower(a.Sentiment),
		Confidence:      fmt.Sprintf("%.2f%%", a.Confidence),
		ConfidenceLevel: a.ConfidenceLevel.Level,
		ConfidenceColor: a.ConfidenceLevel.Color,
		Prediction:      a.Prediction,
		Insight:         a.Insight,

		ImpactScore:    fmt.Sprintf("%+.1f", a.Impact.Score),
		ImpactLevel:    a.Impact.Level,
		BullishSignals: a.Impact.BullishSignals,
		BearishSignals: a.Impact.BearishSignals,
		ImpactGauge:    template.HTML(ImpactGauge(a.Impact.Score, a.Impact.Level, 0)), //nolint:gosec // generated SVG, labels escaped

		Ticker: a.Ticker,
	}
	if d.Author == "" {
		d.Author = "FinSense"
	}
	if d.Title == "" {
		d.Title = "Sentiment Analysis Report"
		if a.Ticker != "" {
			d.Title = a.Ticker + " " + d.Title
		}
	}

	if t := a.Trend; t != nil {
		d.HasTrend = true
		d.Trend = string(t.Trend)
		d.TrendEmo = t.Emoji
		d.Previous = t.Previous
		d.Current = t.Current
		d.Segments = t.SegmentsAnalyzed
	}

	if s := a.Stock; s != nil {
		d.HasStock = true
		d.StockName = s.Name
		d.Price = utils.FormatUSD(s.Price)
		d.Change = fmt.Sprintf("%+.2f", s.Change)
		d.ChangePct = utils.FormatPct(s.ChangePercent)
		d.ChangeUp = s.Change >= 0
		d.Sector = strings.Trim(s.Sector+" / "+s.Industry, " /")
		if s.MarketCap > 0 {
			d.MarketCap = utils.FormatCompact(s.MarketCap)
		}
		chartCfg := cfg.ChartCfg
		chartCfg.Title = s.Symbol + " Price History"
		d.PriceChart = template.HTML(PriceChart(s.Prices, s.Dates, chartCfg)) //nolint:gosec // generated SVG, labels escaped
	}
	return d
}

func excerpt(text string) string {
	text = strings.TrimSpace(text)
	if utils.CharLen(text) <= excerptChars {
		return text
	}
	return strings.TrimSpace(utils.Truncate(text, excerptChars)) + "…"
}

func renderText(d Data) string {
	var sb strings.Builder
	line := strings.Repeat("═", 56)

	sb.WriteString(line + "\n")
	sb.WriteString("  " + d.Title + "\n")
	sb.WriteString("  Generated " + d.GeneratedAt + " by " + d.Author + "\n")
	sb.WriteString(line + "\n\n")

	if d.Excerpt != "" {
		sb.WriteString("  \"" + d.Excerpt + "\"\n\n")
	}

	fmt.Fprintf(&sb, "  Sentiment:   %s (%s, %s)\n", d.Sentiment, d.Confidence, d.ConfidenceLevel)
	fmt.Fprintf(&sb, "  Prediction:  %s\n", d.Prediction)
	fmt.Fprintf(&sb, "  Impact:      %s %s (%d bullish / %d bearish)\n",
		d.ImpactScore, d.ImpactLevel, d.BullishSignals, d.BearishSignals)
	if d.HasTrend {
		fmt.Fprintf(&sb, "  Trend:       %s %s (%s → %s, %d segments)\n",
			d.TrendEmo, d.Trend, d.Previous, d.Current, d.Segments)
	}
	sb.WriteString("\n  " + d.Insight + "\n")

	if d.HasStock {
		sb.WriteString("\n")
		fmt.Fprintf(&sb, "  %s (%s): %s %s (%s)\n", d.StockName, d.Ticker, d.Price, d.Change, d.ChangePct)
		if d.Sector != "" {
			fmt.Fprintf(&sb, "  Sector:      %s\n", d.Sector)
		}
		if d.MarketCap != "" {
			fmt.Fprintf(&sb, "  Market Cap:  %s\n", d.MarketCap)
		}
	} else if d.Ticker != "" {
		fmt.Fprintf(&sb, "\n  %s: stock data unavailable\n", d.Ticker)
	}

	sb.WriteString("\n" + line + "\n")
	return sb.String()
}
