package models

// AnalysisResponse is the combined result of one /analyze request.
type AnalysisResponse struct {
	Sentiment       string             `json:"sentiment"`
	Confidence      float64            `json:"confidence"` // 0..100, 2 dp
	ConfidenceLevel ConfidenceLevel    `json:"confidenceLevel"`
	Prediction      string             `json:"prediction"`
	Scores          map[string]float64 `json:"scores"`
	Impact          ImpactScore        `json:"impact"`
	Insight         string             `json:"insight"`
	Trend           *TrendResult       `json:"trend"`
	Ticker          string             `json:"ticker,omitempty"`
	Stock           *StockData         `json:"stock"`
}

// NewsItem is a headline annotated with its sentiment and impact.
type NewsItem struct {
	NewsArticle
	Sentiment  string      `json:"sentiment"`
	Confidence float64     `json:"confidence"`
	Impact     ImpactScore `json:"impact"`
}
