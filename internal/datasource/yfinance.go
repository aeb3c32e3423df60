package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/seenimoa/finsense/internal/config"
	"github.com/seenimoa/finsense/internal/logger"
	"github.com/seenimoa/finsense/pkg/models"
	"github.com/seenimoa/finsense/pkg/utils"
)

const (
	// DefaultYahooURL is the Yahoo Finance query host.
	DefaultYahooURL = "https://query1.finance.yahoo.com"

	// DefaultPeriod is the history range used when none is given.
	DefaultPeriod = "1mo"

	// DefaultRateLimit is the default rate limit (requests per second).
	DefaultRateLimit = 5
)

// ValidPeriods lists the history ranges accepted by the chart endpoint.
var ValidPeriods = []string{"1d", "5d", "1mo", "3mo", "6mo", "1y", "2y", "5y", "10y", "ytd", "max"}

// ValidPeriod reports whether p is an accepted history range.
func ValidPeriod(p string) bool {
	return slices.Contains(ValidPeriods, p)
}

// YFinance fetches quotes, daily history and company profiles from the
// Yahoo Finance query API.
type YFinance struct {
	baseURL string
	client  *http.Client
	cache   *Cache
	limiter *rate.Limiter
}

// YFinanceOption configures the YFinance client.
type YFinanceOption func(*YFinance)

// WithBaseURL sets a custom base URL.
func WithBaseURL(baseURL string) YFinanceOption {
	return func(y *YFinance) {
		if baseURL != "" {
			y.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) YFinanceOption {
	return func(y *YFinance) {
		y.client = httpClient
	}
}

// WithRateLimit sets a custom rate limit.
func WithRateLimit(requestsPerSecond float64) YFinanceOption {
	return func(y *YFinance) {
		if requestsPerSecond > 0 {
			y.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), max(1, int(requestsPerSecond)))
		}
	}
}

// WithCacheTTL sets how long responses are reused. Zero disables caching.
func WithCacheTTL(ttl time.Duration) YFinanceOption {
	return func(y *YFinance) {
		y.cache = NewCache(ttl)
	}
}

// NewYFinance creates a new Yahoo Finance data source.
func NewYFinance(opts ...YFinanceOption) *YFinance {
	y := &YFinance{
		baseURL: DefaultYahooURL,
		client:  &http.Client{Timeout: DefaultTimeout},
		cache:   NewCache(5 * time.Minute),
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
	}
	for _, opt := range opts {
		opt(y)
	}
	return y
}

// NewYFinanceFromConfig creates a Yahoo Finance source from the stock config.
func NewYFinanceFromConfig(cfg config.StockConfig) *YFinance {
	return NewYFinance(
		WithBaseURL(cfg.BaseURL),
		WithRateLimit(cfg.RateLimit),
		WithCacheTTL(cfg.CacheTTL()),
	)
}

// Name returns the data source name.
func (y *YFinance) Name() string { return "Yahoo Finance" }

// History is a daily price series plus the chart metadata that came with it.
type History struct {
	Symbol    string
	Name      string
	Currency  string
	Price     float64 // regular market price from the chart meta
	Bars      []models.OHLCV
	GMTOffset int // exchange offset from UTC, seconds
}

// --- Yahoo Finance API types ---

type yfQuoteResponse struct {
	QuoteResponse struct {
		Result []yfQuoteResult `json:"result"`
		Error  *yfError        `json:"error"`
	} `json:"quoteResponse"`
}

type yfQuoteResult struct {
	Symbol                     string  `json:"symbol"`
	ShortName                  string  `json:"shortName"`
	LongName                   string  `json:"longName"`
	Currency                   string  `json:"currency"`
	RegularMarketPrice         float64 `json:"regularMarketPrice"`
	RegularMarketPreviousClose float64 `json:"regularMarketPreviousClose"`
	MarketCap                  float64 `json:"marketCap"`
	TrailingPE                 float64 `json:"trailingPE"`
}

type yfChartResponse struct {
	Chart struct {
		Result []yfChartResult `json:"result"`
		Error  *yfError        `json:"error"`
	} `json:"chart"`
}

type yfChartResult struct {
	Meta       yfChartMeta  `json:"meta"`
	Timestamp  []int64      `json:"timestamp"`
	Indicators yfIndicators `json:"indicators"`
}

type yfChartMeta struct {
	Symbol             string  `json:"symbol"`
	ShortName          string  `json:"shortName"`
	LongName           string  `json:"longName"`
	Currency           string  `json:"currency"`
	RegularMarketPrice float64 `json:"regularMarketPrice"`
	GMTOffset          int     `json:"gmtoffset"`
}

type yfIndicators struct {
	Quote []yfOHLCV `json:"quote"`
}

type yfOHLCV struct {
	Open   []*float64 `json:"open"`
	High   []*float64 `json:"high"`
	Low    []*float64 `json:"low"`
	Close  []*float64 `json:"close"`
	Volume []*int64   `json:"volume"`
}

type yfSummaryResponse struct {
	QuoteSummary struct {
		Result []yfSummaryResult `json:"result"`
		Error  *yfError          `json:"error"`
	} `json:"quoteSummary"`
}

type yfSummaryResult struct {
	AssetProfile *struct {
		Sector   string `json:"sector"`
		Industry string `json:"industry"`
	} `json:"assetProfile"`
}

type yfError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// --- Public methods ---

// GetQuote returns a near-real-time quote from Yahoo Finance.
func (y *YFinance) GetQuote(ctx context.Context, ticker string) (*models.Quote, error) {
	symbol := utils.NormalizeTicker(ticker)

	cacheKey := "quote:" + symbol
	if cached, ok := y.cache.Get(cacheKey); ok {
		return cached.(*models.Quote), nil
	}

	var resp yfQuoteResponse
	u := fmt.Sprintf("%s/v7/finance/quote?symbols=%s", y.baseURL, url.QueryEscape(symbol))
	if err := y.getJSON(ctx, u, symbol, &resp); err != nil {
		return nil, fmt.Errorf("yfinance quote %s: %w", symbol, err)
	}

	if resp.QuoteResponse.Error != nil {
		return nil, fmt.Errorf("yfinance API error: %s", resp.QuoteResponse.Error.Description)
	}
	if len(resp.QuoteResponse.Result) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrTickerNotFound, symbol)
	}

	r := resp.QuoteResponse.Result[0]
	quote := &models.Quote{
		Symbol:    coalesce(r.Symbol, symbol),
		Name:      coalesce(r.ShortName, r.LongName),
		Price:     r.RegularMarketPrice,
		PrevClose: r.RegularMarketPreviousClose,
		Currency:  r.Currency,
		MarketCap: r.MarketCap,
		PE:        r.TrailingPE,
	}

	y.cache.Set(cacheKey, quote)
	return quote, nil
}

// GetHistory returns daily bars for the given range (e.g., "1mo").
func (y *YFinance) GetHistory(ctx context.Context, ticker, period string) (*History, error) {
	symbol := utils.NormalizeTicker(ticker)
	if period == "" {
		period = DefaultPeriod
	}
	if !ValidPeriod(period) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPeriod, period)
	}

	cacheKey := "hist:" + symbol + ":" + period
	if cached, ok := y.cache.Get(cacheKey); ok {
		return cached.(*History), nil
	}

	var resp yfChartResponse
	u := fmt.Sprintf("%s/v8/finance/chart/%s?range=%s&interval=1d", y.baseURL, url.PathEscape(symbol), period)
	if err := y.getJSON(ctx, u, symbol, &resp); err != nil {
		return nil, fmt.Errorf("yfinance chart %s: %w", symbol, err)
	}

	if resp.Chart.Error != nil {
		if resp.Chart.Error.Code == "Not Found" {
			return nil, fmt.Errorf("%w: %s", ErrTickerNotFound, symbol)
		}
		return nil, fmt.Errorf("yfinance chart error: %s", resp.Chart.Error.Description)
	}
	if len(resp.Chart.Result) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrTickerNotFound, symbol)
	}

	result := resp.Chart.Result[0]
	h := &History{
		Symbol:    coalesce(result.Meta.Symbol, symbol),
		Name:      coalesce(result.Meta.ShortName, result.Meta.LongName),
		Currency:  result.Meta.Currency,
		Price:     result.Meta.RegularMarketPrice,
		Bars:      parseYFCandles(result),
		GMTOffset: result.Meta.GMTOffset,
	}

	y.cache.Set(cacheKey, h)
	return h, nil
}

// GetProfile returns the sector and industry of a listed company.
func (y *YFinance) GetProfile(ctx context.Context, ticker string) (*models.CompanyProfile, error) {
	symbol := utils.NormalizeTicker(ticker)

	cacheKey := "profile:" + symbol
	if cached, ok := y.cache.Get(cacheKey); ok {
		return cached.(*models.CompanyProfile), nil
	}

	var resp yfSummaryResponse
	u := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?modules=assetProfile", y.baseURL, url.PathEscape(symbol))
	if err := y.getJSON(ctx, u, symbol, &resp); err != nil {
		return nil, fmt.Errorf("yfinance profile %s: %w", symbol, err)
	}

	if resp.QuoteSummary.Error != nil {
		return nil, fmt.Errorf("yfinance API error: %s", resp.QuoteSummary.Error.Description)
	}
	if len(resp.QuoteSummary.Result) == 0 || resp.QuoteSummary.Result[0].AssetProfile == nil {
		return nil, fmt.Errorf("%w: %s", ErrTickerNotFound, symbol)
	}

	ap := resp.QuoteSummary.Result[0].AssetProfile
	profile := &models.CompanyProfile{Sector: ap.Sector, Industry: ap.Industry}

	y.cache.Set(cacheKey, profile)
	return profile, nil
}

// GetStockData assembles the enriched stock payload. History is required;
// the quote and profile are fetched concurrently and only enrich it.
//
// Price is the quote's regular-market price, falling back to the chart
// price and then the last close. The previous close falls back to the
// price, which yields a zero change.
func (y *YFinance) GetStockData(ctx context.Context, ticker, period string) (*models.StockData, error) {
	symbol := utils.NormalizeTicker(ticker)
	if !utils.IsValidTicker(symbol) {
		return nil, fmt.Errorf("%w: %q", ErrTickerNotFound, ticker)
	}
	if period == "" {
		period = DefaultPeriod
	}
	if !ValidPeriod(period) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPeriod, period)
	}

	var (
		hist    *History
		quote   *models.Quote
		profile *models.CompanyProfile
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		h, err := y.GetHistory(gctx, symbol, period)
		hist = h
		return err
	})
	g.Go(func() error {
		q, err := y.GetQuote(gctx, symbol)
		if err != nil {
			logger.L().Debug("quote unavailable", zap.String("symbol", symbol), zap.Error(err))
			return nil
		}
		quote = q
		return nil
	})
	g.Go(func() error {
		p, err := y.GetProfile(gctx, symbol)
		if err != nil {
			logger.L().Debug("profile unavailable", zap.String("symbol", symbol), zap.Error(err))
			return nil
		}
		profile = p
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if len(hist.Bars) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoData, symbol)
	}

	return buildStockData(symbol, hist, quote, profile), nil
}

// --- Helpers ---

func buildStockData(symbol string, hist *History, quote *models.Quote, profile *models.CompanyProfile) *models.StockData {
	n := len(hist.Bars)
	sd := &models.StockData{
		Symbol:   symbol,
		Name:     hist.Name,
		Currency: hist.Currency,
		Dates:    make([]string, n),
		Prices:   make([]float64, n),
		Volume:   make([]int64, n),
		High:     make([]float64, n),
		Low:      make([]float64, n),
	}

	loc := time.FixedZone("exchange", hist.GMTOffset)
	for i, b := range hist.Bars {
		sd.Dates[i] = b.Timestamp.In(loc).Format(time.DateOnly)
		sd.Prices[i] = utils.Round(b.Close, 2)
		sd.Volume[i] = b.Volume
		sd.High[i] = utils.Round(b.High, 2)
		sd.Low[i] = utils.Round(b.Low, 2)
	}

	price := hist.Price
	if price == 0 {
		price = hist.Bars[n-1].Close
	}
	prevClose := 0.0
	if quote != nil {
		if quote.Price > 0 {
			price = quote.Price
		}
		prevClose = quote.PrevClose
		sd.Name = coalesce(quote.Name, sd.Name)
		sd.Currency = coalesce(quote.Currency, sd.Currency)
		sd.MarketCap = quote.MarketCap
		sd.PE = quote.PE
	}
	if prevClose == 0 {
		prevClose = price
	}
	sd.Name = coalesce(sd.Name, symbol)

	change := price - prevClose
	pct := 0.0
	if prevClose != 0 {
		pct = change / prevClose * 100
	}
	sd.Price = utils.Round(price, 2)
	sd.Change = utils.Round(change, 2)
	sd.ChangePercent = utils.Round(pct, 2)

	if profile != nil {
		sd.Sector = profile.Sector
		sd.Industry = profile.Industry
	}
	return sd
}

// getJSON waits for the limiter, fetches u and decodes the body into out.
func (y *YFinance) getJSON(ctx context.Context, u, symbol string, out any) error {
	if err := y.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	body, _, err := doGet(ctx, y.client, u, map[string]string{
		"Accept": "application/json",
	})
	if err != nil {
		return classifyHTTP(err, symbol)
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}

// parseYFCandles converts the chart columns into bars. Rows without a
// close (holidays, halted sessions) are dropped.
func parseYFCandles(result yfChartResult) []models.OHLCV {
	if len(result.Indicators.Quote) == 0 {
		return nil
	}

	q := result.Indicators.Quote[0]
	candles := make([]models.OHLCV, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(q.Close) || q.Close[i] == nil {
			continue
		}
		c := models.OHLCV{
			Timestamp: time.Unix(ts, 0).UTC(),
			Close:     *q.Close[i],
		}
		if i < len(q.Open) && q.Open[i] != nil {
			c.Open = *q.Open[i]
		}
		if i < len(q.High) && q.High[i] != nil {
			c.High = *q.High[i]
		}
		if i < len(q.Low) && q.Low[i] != nil {
			c.Low = *q.Low[i]
		}
		if i < len(q.Volume) && q.Volume[i] != nil {
			c.Volume = *q.Volume[i]
		}
		candles = append(candles, c)
	}
	return candles
}

func coalesce(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
