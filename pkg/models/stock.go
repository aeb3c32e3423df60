package models

import "time"

// OHLCV represents a single daily bar of price data.
type OHLCV struct {
	Timestamp time.Time `json:"timestamp"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    int64     `json:"volume"`
}

// Quote represents a near-real-time stock quote.
type Quote struct {
	Symbol    string  `json:"symbol"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	PrevClose float64 `json:"prev_close"`
	Currency  string  `json:"currency,omitempty"`
	MarketCap float64 `json:"market_cap,omitempty"`
	PE        float64 `json:"pe,omitempty"`
}

// CompanyProfile carries descriptive metadata for a listed company.
type CompanyProfile struct {
	Sector   string `json:"sector,omitempty"`
	Industry string `json:"industry,omitempty"`
}

// StockData is the enriched stock payload returned by /stock and embedded
// in /analyze responses. Series are aligned by index.
type StockData struct {
	Symbol        string    `json:"symbol"`
	Name          string    `json:"name"`
	Price         float64   `json:"price"`
	Change        float64   `json:"change"`
	ChangePercent float64   `json:"changePercent"`
	Dates         []string  `json:"dates"`
	Prices        []float64 `json:"prices"`
	Volume        []int64   `json:"volume"`
	High          []float64 `json:"high"`
	Low           []float64 `json:"low"`
	Currency      string    `json:"currency,omitempty"`
	Sector        string    `json:"sector,omitempty"`
	Industry      string    `json:"industry,omitempty"`
	MarketCap     float64   `json:"marketCap,omitempty"`
	PE            float64   `json:"pe,omitempty"`
}

// NewsArticle represents a headline pulled from a news feed.
type NewsArticle struct {
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Source      string    `json:"source"`
	Summary     string    `json:"summary,omitempty"`
	PublishedAt time.Time `json:"published_at"`
}
