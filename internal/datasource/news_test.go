package datasource

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seenimoa/finsense/pkg/models"
)

const rssFixture = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
  <title>Yahoo! Finance: AAPL News</title>
  <link>https://finance.yahoo.com/quote/AAPL</link>
  <description>Latest Financial News for AAPL</description>
  <item>
    <title>Apple shares slip on weak iPhone demand</title>
    <link>https://finance.yahoo.com/news/older</link>
    <description>&lt;p&gt;Analysts flagged &lt;b&gt;weak&lt;/b&gt; demand.&lt;/p&gt;</description>
    <pubDate>Mon, 13 Nov 2023 14:00:00 +0000</pubDate>
  </item>
  <item>
    <title>Apple posts record services revenue</title>
    <link>https://finance.yahoo.com/news/newer</link>
    <description>Services hit a record.</description>
    <pubDate>Tue, 14 Nov 2023 09:30:00 +0000</pubDate>
  </item>
  <item>
    <title>   </title>
    <link>https://finance.yahoo.com/news/blank</link>
  </item>
</channel>
</rss>`

func newFakeFeed(t *testing.T, status int, body string) (*httptest.Server, *atomic.Int32, *atomic.Value) {
	t.Helper()
	var hits atomic.Int32
	var symbol atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		symbol.Store(r.URL.Query().Get("s"))
		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &hits, &symbol
}

func TestGetCompanyNews(t *testing.T) {
	srv, _, symbol := newFakeFeed(t, http.StatusOK, rssFixture)
	n := NewNews(WithFeedURL(srv.URL+"/rss?s=%s"), WithFeedHTTPClient(srv.Client()))

	articles, err := n.GetCompanyNews(context.Background(), "aapl", 0)
	require.NoError(t, err)
	assert.Equal(t, "AAPL", symbol.Load())

	require.Len(t, articles, 2)
	assert.Equal(t, "Apple posts record services revenue", articles[0].Title)
	assert.Equal(t, "https://finance.yahoo.com/news/newer", articles[0].URL)
	assert.Equal(t, "Yahoo! Finance: AAPL News", articles[0].Source)
	assert.Equal(t, time.Date(2023, 11, 14, 9, 30, 0, 0, time.UTC), articles[0].PublishedAt)

	assert.Equal(t, "Apple shares slip on weak iPhone demand", articles[1].Title)
	assert.Equal(t, "Analysts flagged weak demand.", articles[1].Summary)
}

func TestGetCompanyNewsLimitAndCache(t *testing.T) {
	srv, hits, _ := newFakeFeed(t, http.StatusOK, rssFixture)
	n := NewNews(WithFeedURL(srv.URL+"/rss?s=%s"), WithFeedHTTPClient(srv.Client()))

	one, err := n.GetCompanyNews(context.Background(), "AAPL", 1)
	require.NoError(t, err)
	require.Len(t, one, 1)

	all, err := n.GetCompanyNews(context.Background(), "AAPL", 10)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.EqualValues(t, 1, hits.Load())

	// callers get their own copy
	one[0].Title = "changed"
	again, _ := n.GetCompanyNews(context.Background(), "AAPL", 1)
	assert.Equal(t, "Apple posts record services revenue", again[0].Title)
}

func TestGetCompanyNewsEmptyFeed(t *testing.T) {
	empty := `<?xml version="1.0"?><rss version="2.0"><channel><title>t</title></channel></rss>`
	srv, _, _ := newFakeFeed(t, http.StatusOK, empty)
	n := NewNews(WithFeedURL(srv.URL+"/rss?s=%s"), WithFeedHTTPClient(srv.Client()))

	articles, err := n.GetCompanyNews(context.Background(), "AAPL", 5)
	require.NoError(t, err)
	assert.Empty(t, articles)
}

func TestGetCompanyNewsErrors(t *testing.T) {
	srv, hits, _ := newFakeFeed(t, http.StatusInternalServerError, "")
	n := NewNews(WithFeedURL(srv.URL+"/rss?s=%s"), WithFeedHTTPClient(srv.Client()))

	_, err := n.GetCompanyNews(context.Background(), "AAPL", 5)
	assert.Error(t, err)

	_, err = n.GetCompanyNews(context.Background(), "NOT A TICKER", 5)
	assert.ErrorIs(t, err, ErrTickerNotFound)
	assert.EqualValues(t, 1, hits.Load())
}

func TestSortArticlesByDate(t *testing.T) {
	now := time.Now()
	in := []models.NewsArticle{
		{Title: "old", PublishedAt: now.Add(-2 * time.Hour)},
		{Title: "new", PublishedAt: now},
		{Title: "undated"},
		{Title: "mid", PublishedAt: now.Add(-time.Hour)},
	}
	sortArticlesByDate(in)

	titles := make([]string, len(in))
	for i, a := range in {
		titles[i] = a.Title
	}
	assert.Equal(t, []string{"new", "mid", "old", "undated"}, titles)
}
