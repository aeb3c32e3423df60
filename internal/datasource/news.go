package datasource

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"golang.org/x/time/rate"

	"github.com/seenimoa/finsense/internal/config"
	"github.com/seenimoa/finsense/pkg/models"
	"github.com/seenimoa/finsense/pkg/utils"
)

// DefaultFeedURL is the Yahoo Finance company headline feed; %s is the symbol.
const DefaultFeedURL = "https://feeds.finance.yahoo.com/rss/2.0/headline?s=%s&region=US&lang=en-US"

// News fetches company headlines from an RSS feed.
type News struct {
	feedURL string
	cache   *Cache
	limiter *rate.Limiter
	parser  *gofeed.Parser
}

// NewsOption configures the news source.
type NewsOption func(*News)

// WithFeedURL sets the feed URL template. It must contain one %s.
func WithFeedURL(tmpl string) NewsOption {
	return func(n *News) {
		if tmpl != "" {
			n.feedURL = tmpl
		}
	}
}

// WithFeedHTTPClient sets the HTTP client used by the feed parser.
func WithFeedHTTPClient(client *http.Client) NewsOption {
	return func(n *News) { n.parser.Client = client }
}

// WithNewsCacheTTL sets how long parsed feeds are reused.
func WithNewsCacheTTL(ttl time.Duration) NewsOption {
	return func(n *News) { n.cache = NewCache(ttl) }
}

// NewNews creates a new news data source for the Yahoo headline feed.
func NewNews(opts ...NewsOption) *News {
	parser := gofeed.NewParser()
	parser.UserAgent = DefaultUserAgent
	parser.Client = &http.Client{Timeout: DefaultTimeout}

	n := &News{
		feedURL: DefaultFeedURL,
		cache:   NewCache(10 * time.Minute),
		limiter: rate.NewLimiter(rate.Limit(2), 2), // conservative: 2 req/s
		parser:  parser,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// NewNewsFromConfig creates a news source from the news config.
func NewNewsFromConfig(cfg config.NewsConfig) *News {
	return NewNews(WithFeedURL(cfg.FeedURL))
}

// Name returns the data source name.
func (n *News) Name() string { return "Yahoo Finance News" }

// GetCompanyNews returns up to limit headlines for ticker, newest first.
// A limit of zero or less returns every item in the feed.
func (n *News) GetCompanyNews(ctx context.Context, ticker string, limit int) ([]models.NewsArticle, error) {
	symbol := utils.NormalizeTicker(ticker)
	if !utils.IsValidTicker(symbol) {
		return nil, fmt.Errorf("%w: %q", ErrTickerNotFound, ticker)
	}

	cacheKey := "news:" + symbol
	articles, ok := n.cached(cacheKey)
	if !ok {
		var err error
		articles, err = n.fetchRSS(ctx, symbol)
		if err != nil {
			return nil, err
		}
		n.cache.Set(cacheKey, articles)
	}

	if limit > 0 && len(articles) > limit {
		articles = articles[:limit]
	}
	return slices.Clone(articles), nil
}

func (n *News) cached(key string) ([]models.NewsArticle, bool) {
	v, ok := n.cache.Get(key)
	if !ok {
		return nil, false
	}
	return v.([]models.NewsArticle), true
}

// --- Internal helpers ---

// fetchRSS parses the feed for symbol and returns its articles sorted by
// published date, newest first.
func (n *News) fetchRSS(ctx context.Context, symbol string) ([]models.NewsArticle, error) {
	if err := n.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	feedURL := fmt.Sprintf(n.feedURL, symbol)
	feed, err := n.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse RSS %s: %w", symbol, err)
	}

	source := strings.TrimSpace(feed.Title)
	if source == "" {
		source = "Yahoo Finance"
	}

	articles := make([]models.NewsArticle, 0, len(feed.Items))
	for _, item := range feed.Items {
		title := strings.TrimSpace(utils.CleanHTML(item.Title))
		if title == "" {
			continue
		}
		a := models.NewsArticle{
			Title:   title,
			URL:     item.Link,
			Source:  source,
			Summary: utils.CleanHTML(item.Description),
		}
		if item.PublishedParsed != nil {
			a.PublishedAt = item.PublishedParsed.UTC()
		}
		articles = append(articles, a)
	}

	sortArticlesByDate(articles)
	return articles, nil
}

// sortArticlesByDate sorts articles by published date (newest first).
func sortArticlesByDate(articles []models.NewsArticle) {
	slices.SortStableFunc(articles, func(a, b models.NewsArticle) int {
		return b.PublishedAt.Compare(a.PublishedAt)
	})
}
