// FinSense — Financial news sentiment analysis with market context.
//
// Main CLI entrypoint using cobra command framework.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/seenimoa/finsense/api"
	"github.com/seenimoa/finsense/internal/config"
	"github.com/seenimoa/finsense/internal/logger"
	"github.com/seenimoa/finsense/internal/report"
	"github.com/seenimoa/finsense/internal/trace"
	"github.com/seenimoa/finsense/pkg/models"
	"github.com/seenimoa/finsense/pkg/utils"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Global config
var cfg *config.Config

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "finsense",
	Short: "FinSense — Financial sentiment analysis with market context",
	Long: `FinSense classifies financial text as positive, neutral or negative,
estimates its market impact, detects the sentiment trend across the text
and enriches the result with stock data for any company it mentions.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load()

		var err error
		configFile, _ := cmd.Flags().GetString("config")
		if configFile != "" {
			cfg, err = config.LoadFromFile(configFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
			cfg.Logging.Level = lvl
		}
		l, err := logger.New(cfg.Logging)
		if err != nil {
			return err
		}
		logger.SetGlobal(l)

		return trace.Init(cfg.Tracing.Enabled, version)
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = logger.L().Sync()
		return trace.Shutdown(ctx)
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level override (debug, info, warn, error)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(stockCmd)
	rootCmd.AddCommand(newsCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(statusCmd)
}

// --- Version Command ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("FinSense %s\n", version)
		fmt.Printf("  commit:  %s\n", commit)
		fmt.Printf("  built:   %s\n", date)
	},
}

// --- Analyze Command ---

var analyzeCmd = &cobra.Command{
	Use:   "analyze [text...]",
	Short: "Analyze the sentiment of financial text",
	Long: `Analyze financial text the same way POST /analyze does.

The text is taken from the arguments, from --file, or from stdin.

Examples:
  finsense analyze "Tesla reported record profit and strong growth"
  finsense analyze --file earnings.txt
  cat article.html | finsense analyze --json
  finsense analyze --report tesla.html "Tesla beats estimates"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")
		asJSON, _ := cmd.Flags().GetBool("json")
		reportPath, _ := cmd.Flags().GetString("report")

		text, err := readText(args, file, os.Stdin)
		if err != nil {
			return err
		}

		analyzer, err := buildAnalyzer(cfg)
		if err != nil {
			return err
		}

		resp, err := analyzer.Analyze(cmd.Context(), text)
		if err != nil {
			return err
		}

		rcfg := report.DefaultConfig()
		rcfg.Excerpt = text
		if reportPath != "" {
			html, err := report.GenerateHTML(resp, rcfg)
			if err != nil {
				return err
			}
			if err := os.WriteFile(reportPath, []byte(html), 0o644); err != nil {
				return fmt.Errorf("write report: %w", err)
			}
			fmt.Printf("📄 Report written to %s\n", reportPath)
		}

		if asJSON {
			return printJSON(resp)
		}
		out, err := report.GenerateText(resp, rcfg)
		if err != nil {
			return err
		}
		fmt.Print(out)
		return nil
	},
}

func init() {
	analyzeCmd.Flags().String("file", "", "read the text from a file")
	analyzeCmd.Flags().Bool("json", false, "print the raw JSON response")
	analyzeCmd.Flags().String("report", "", "also write an HTML report to this path")
}

// --- Stock Command ---

var stockCmd = &cobra.Command{
	Use:   "stock [symbol]",
	Short: "Show price history for a stock",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		period, _ := cmd.Flags().GetString("period")
		asJSON, _ := cmd.Flags().GetBool("json")
		if period == "" {
			period = cfg.Stock.DefaultPeriod
		}

		sd, err := buildStocks(cfg).GetStockData(cmd.Context(), utils.NormalizeTicker(args[0]), period)
		if err != nil {
			return err
		}
		if asJSON {
			return printJSON(sd)
		}
		printStock(sd)
		return nil
	},
}

func init() {
	stockCmd.Flags().String("period", "", "history range (1d, 5d, 1mo, 3mo, 6mo, 1y, 2y, 5y, 10y, ytd, max)")
	stockCmd.Flags().Bool("json", false, "print the raw JSON response")
}

// --- News Command ---

var newsCmd = &cobra.Command{
	Use:   "news [symbol]",
	Short: "Score recent headlines for a company",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		asJSON, _ := cmd.Flags().GetBool("json")
		if limit <= 0 {
			limit = cfg.News.Limit
		}

		analyzer, err := buildAnalyzer(cfg)
		if err != nil {
			return err
		}

		symbol := utils.NormalizeTicker(args[0])
		items, err := analyzer.AnalyzeNews(cmd.Context(), symbol, limit)
		if err != nil {
			return err
		}
		if asJSON {
			return printJSON(items)
		}
		printNews(symbol, items)
		return nil
	},
}

func init() {
	newsCmd.Flags().Int("limit", 0, "maximum number of headlines (default from config)")
	newsCmd.Flags().Bool("json", false, "print the raw JSON response")
}

// --- Serve Command (API Server) ---

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		if port, _ := cmd.Flags().GetInt("port"); port > 0 {
			cfg.Server.Port = port
		}
		noUI, _ := cmd.Flags().GetBool("no-ui")

		analyzer, err := buildAnalyzer(cfg)
		if err != nil {
			return err
		}

		opts := []api.Option{api.WithVersion(version)}
		if stocks := buildStocks(cfg); stocks != nil {
			opts = append(opts, api.WithStocks(stocks))
		}
		if noUI {
			opts = append(opts, api.WithoutUI())
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		logger.L().Info("starting FinSense",
			zap.String("version", version),
			zap.String("classifier", analyzer.ClassifierName()),
			zap.Bool("stock_enabled", analyzer.StockEnabled()),
		)
		fmt.Printf("🌐 FinSense API listening on http://%s\n", cfg.Server.Addr())
		return api.NewServer(cfg, analyzer, opts...).ListenAndServe(ctx)
	},
}

func init() {
	serveCmd.Flags().Int("port", 0, "listen port (default from config)")
	serveCmd.Flags().Bool("no-ui", false, "do not serve the embedded web UI")
}

// --- Status Command ---

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show system status and configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("═══════════════════════════════════════")
		fmt.Println("  FinSense — System Status")
		fmt.Println("═══════════════════════════════════════")
		fmt.Printf("  Version:       %s (%s)\n", version, commit)
		fmt.Printf("  Market Status: %s\n", utils.MarketStatus())
		fmt.Printf("  Time (ET):     %s\n", utils.FormatDateTimeET(utils.NowET()))
		fmt.Println()

		fmt.Println("  Configuration:")
		fmt.Printf("    Classifier:    %s (model: %s)\n", cfg.Classifier.Provider, classifierModel(cfg.Classifier))
		fmt.Printf("    Stock Data:    %s\n", enabled(cfg.Stock.Enabled))
		fmt.Printf("    Tracing:       %s\n", enabled(cfg.Tracing.Enabled))
		fmt.Printf("    API Server:    %s\n", cfg.Server.Addr())
		fmt.Println()

		fmt.Println("  API Keys:")
		for _, k := range config.CheckAPIKeys(cfg) {
			status := "❌ not set"
			if k.IsSet {
				status = fmt.Sprintf("✅ set (%s: %s)", k.Source, k.Masked)
			} else if !k.Required {
				status = "➖ not set (not required)"
			}
			fmt.Printf("    %-25s %s\n", k.Name+":", status)
		}

		fmt.Println("═══════════════════════════════════════")
		return nil
	},
}

// --- Output helpers ---

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printStock(sd *models.StockData) {
	printStockLine(sd)
	if sd.Sector != "" {
		fmt.Printf("  Sector:      %s / %s\n", sd.Sector, sd.Industry)
	}
	if sd.MarketCap > 0 {
		fmt.Printf("  Market Cap:  %s\n", utils.FormatCompact(sd.MarketCap))
	}
	if sd.PE > 0 {
		fmt.Printf("  P/E:         %.2f\n", sd.PE)
	}
	fmt.Println()
	for i, d := range sd.Dates {
		fmt.Printf("  %s  %10s  vol %d\n", d, utils.FormatUSD(sd.Prices[i]), sd.Volume[i])
	}
}

func printStockLine(sd *models.StockData) {
	fmt.Printf("  📈 %s (%s): %s %s (%s)\n", sd.Name, sd.Symbol,
		utils.FormatUSD(sd.Price), signed(sd.Change), utils.FormatPct(sd.ChangePercent))
}

func printNews(symbol string, items []models.NewsItem) {
	fmt.Printf("📰 %s headlines\n\n", symbol)
	for _, it := range items {
		fmt.Printf("  [%-8s %6.2f%%] %s\n", it.Sentiment, it.Confidence, it.Title)
		fmt.Printf("              impact %.1f %s\n", it.Impact.Score, it.Impact.Level)
	}
}

func signed(v float64) string {
	if v >= 0 {
		return fmt.Sprintf("+%.2f", v)
	}
	return fmt.Sprintf("%.2f", v)
}

func enabled(b bool) string {
	if b {
		return "enabled"
	}
	return "disabled"
}

func classifierModel(cc config.ClassifierConfig) string {
	switch cc.Provider {
	case config.ProviderOllama:
		return cc.OllamaModel
	case config.ProviderLexicon:
		return "built-in"
	default:
		return strings.TrimSpace(cc.Model)
	}
}
