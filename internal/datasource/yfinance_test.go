package datasource

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const chartFixture = `{"chart":{"result":[{
  "meta":{"symbol":"AAPL","longName":"Apple Inc. (chart)","currency":"USD","regularMarketPrice":190.0,"gmtoffset":-18000},
  "timestamp":[1700000000,1700086400,1700172800],
  "indicators":{"quote":[{
    "open":[188.0,189.5,null],
    "high":[190.0,191.0,null],
    "low":[187.5,188.9,null],
    "close":[189.1049,190.2,null],
    "volume":[1000,2000,null]
  }]}
}],"error":null}}`

const emptyChartFixture = `{"chart":{"result":[{"meta":{"symbol":"AAPL","regularMarketPrice":190.0},"indicators":{"quote":[{}]}}],"error":null}}`

const notFoundChartFixture = `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`

const quoteFixture = `{"quoteResponse":{"result":[{
  "symbol":"AAPL","shortName":"Apple","longName":"Apple Inc.","currency":"USD",
  "regularMarketPrice":190.5,"regularMarketPreviousClose":188.0,
  "marketCap":2950000000000,"trailingPE":31.2
}],"error":null}}`

const profileFixture = `{"quoteSummary":{"result":[{"assetProfile":{"sector":"Technology","industry":"Consumer Electronics"}}],"error":null}}`

type fakeYahoo struct {
	mu      sync.Mutex
	hits    map[string]int
	chart   string
	status  map[string]int // by endpoint: chart, quote, profile
	lastRaw string
}

func newFakeYahoo(t *testing.T) (*fakeYahoo, *httptest.Server) {
	t.Helper()
	f := &fakeYahoo{hits: map[string]int{}, chart: chartFixture, status: map[string]int{}}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		var endpoint, body string
		switch {
		case strings.HasPrefix(r.URL.Path, "/v8/finance/chart/"):
			endpoint, body = "chart", f.chart
			f.lastRaw = r.URL.RawQuery
		case r.URL.Path == "/v7/finance/quote":
			endpoint, body = "quote", quoteFixture
		case strings.HasPrefix(r.URL.Path, "/v10/finance/quoteSummary/"):
			endpoint, body = "profile", profileFixture
		default:
			http.NotFound(w, r)
			return
		}
		f.hits[endpoint]++
		if code := f.status[endpoint]; code != 0 {
			w.WriteHeader(code)
			if code == http.StatusNotFound && endpoint == "chart" {
				_, _ = w.Write([]byte(notFoundChartFixture))
			}
			return
		}
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return f, srv
}

func newTestYFinance(srv *httptest.Server, ttl time.Duration) *YFinance {
	return NewYFinance(
		WithBaseURL(srv.URL+"/"),
		WithHTTPClient(srv.Client()),
		WithRateLimit(1000),
		WithCacheTTL(ttl),
	)
}

func TestGetStockData(t *testing.T) {
	f, srv := newFakeYahoo(t)
	yf := newTestYFinance(srv, 0)

	sd, err := yf.GetStockData(context.Background(), " aapl ", "")
	require.NoError(t, err)

	assert.Equal(t, "AAPL", sd.Symbol)
	assert.Equal(t, "Apple", sd.Name)
	assert.Equal(t, 190.5, sd.Price)
	assert.Equal(t, 2.5, sd.Change)
	assert.Equal(t, 1.33, sd.ChangePercent)
	assert.Equal(t, []string{"2023-11-14", "2023-11-15"}, sd.Dates)
	assert.Equal(t, []float64{189.1, 190.2}, sd.Prices)
	assert.Equal(t, []int64{1000, 2000}, sd.Volume)
	assert.Equal(t, []float64{190.0, 191.0}, sd.High)
	assert.Equal(t, []float64{187.5, 188.9}, sd.Low)
	assert.Equal(t, "USD", sd.Currency)
	assert.Equal(t, "Technology", sd.Sector)
	assert.Equal(t, "Consumer Electronics", sd.Industry)
	assert.Equal(t, 2.95e12, sd.MarketCap)
	assert.Equal(t, 31.2, sd.PE)

	assert.Equal(t, "range=1mo&interval=1d", f.lastRaw)
}

func TestGetStockDataQuoteFallback(t *testing.T) {
	f, srv := newFakeYahoo(t)
	f.status["quote"] = http.StatusUnauthorized
	f.status["profile"] = http.StatusInternalServerError
	yf := newTestYFinance(srv, 0)

	sd, err := yf.GetStockData(context.Background(), "AAPL", "5d")
	require.NoError(t, err)

	// chart meta price; previous close falls back to it
	assert.Equal(t, 190.0, sd.Price)
	assert.Zero(t, sd.Change)
	assert.Zero(t, sd.ChangePercent)
	assert.Equal(t, "Apple Inc. (chart)", sd.Name)
	assert.Empty(t, sd.Sector)
	assert.Zero(t, sd.MarketCap)
	assert.Equal(t, "range=5d&interval=1d", f.lastRaw)
}

func TestGetStockDataErrors(t *testing.T) {
	tests := []struct {
		name    string
		symbol  string
		period  string
		setup   func(f *fakeYahoo)
		want    error
		noCalls bool
	}{
		{"empty history", "AAPL", "1mo", func(f *fakeYahoo) { f.chart = emptyChartFixture }, ErrNoData, false},
		{"unknown ticker", "ZZZZ", "1mo", func(f *fakeYahoo) { f.status["chart"] = http.StatusNotFound }, ErrTickerNotFound, false},
		{"invalid period", "AAPL", "2mo", nil, ErrInvalidPeriod, true},
		{"malformed symbol", "TOOLONG", "1mo", nil, ErrTickerNotFound, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, srv := newFakeYahoo(t)
			if tt.setup != nil {
				tt.setup(f)
			}
			_, err := newTestYFinance(srv, 0).GetStockData(context.Background(), tt.symbol, tt.period)
			assert.ErrorIs(t, err, tt.want)
			if tt.noCalls {
				assert.Empty(t, f.hits)
			}
		})
	}
}

func TestGetStockDataServerError(t *testing.T) {
	f, srv := newFakeYahoo(t)
	f.status["chart"] = http.StatusBadGateway

	_, err := newTestYFinance(srv, 0).GetStockData(context.Background(), "AAPL", "1mo")
	require.Error(t, err)
	var he *ErrHTTP
	assert.ErrorAs(t, err, &he)
	assert.NotErrorIs(t, err, ErrTickerNotFound)
}

func TestYFinanceCaches(t *testing.T) {
	f, srv := newFakeYahoo(t)
	yf := newTestYFinance(srv, time.Minute)

	for i := 0; i < 3; i++ {
		_, err := yf.GetStockData(context.Background(), "AAPL", "1mo")
		require.NoError(t, err)
	}
	assert.Equal(t, map[string]int{"chart": 1, "quote": 1, "profile": 1}, f.hits)
}

func TestGetQuote(t *testing.T) {
	_, srv := newFakeYahoo(t)
	q, err := newTestYFinance(srv, 0).GetQuote(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, "AAPL", q.Symbol)
	assert.Equal(t, "Apple", q.Name)
	assert.Equal(t, 190.5, q.Price)
	assert.Equal(t, 188.0, q.PrevClose)
}

func TestValidPeriod(t *testing.T) {
	for _, p := range []string{"1d", "5d", "1mo", "3mo", "6mo", "1y", "2y", "5y", "10y", "ytd", "max"} {
		assert.True(t, ValidPeriod(p), p)
	}
	for _, p := range []string{"", "1w", "2mo", "1MO", "forever"} {
		assert.False(t, ValidPeriod(p), p)
	}
}

func TestParseYFCandlesEmpty(t *testing.T) {
	assert.Nil(t, parseYFCandles(yfChartResult{}))
}

func TestParseYFCandlesNilPointers(t *testing.T) {
	// Some entries may be nil (market holidays, etc.)
	open, closePrice := 100.0, 101.0
	result := yfChartResult{
		Timestamp: []int64{1700000000, 1700086400},
		Indicators: yfIndicators{
			Quote: []yfOHLCV{{
				Open:   []*float64{&open, &open},
				High:   []*float64{nil, nil},
				Low:    []*float64{nil, nil},
				Close:  []*float64{&closePrice, nil},
				Volume: []*int64{nil, nil},
			}},
		},
	}

	candles := parseYFCandles(result)
	require.Len(t, candles, 1)
	assert.Equal(t, 100.0, candles[0].Open)
	assert.Equal(t, 101.0, candles[0].Close)
	assert.Zero(t, candles[0].High)
	assert.Zero(t, candles[0].Volume)
}

func TestYFinanceName(t *testing.T) {
	assert.Equal(t, "Yahoo Finance", NewYFinance().Name())
}
