package report

// htmlTemplate is the standalone HTML report layout.
const htmlTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{.Title}}</title>
<style>
  :root {
    --text: #1a1a2e;
    --muted: #6b7280;
    --border: #e5e7eb;
    --accent: #667eea;
    --green: #16a34a;
    --red: #dc2626;
    --section-bg: #f8fafc;
  }
  * { margin: 0; padding: 0; box-sizing: border-box; }
  body {
    font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
    color: var(--text);
    line-height: 1.6;
    max-width: 860px;
    margin: 0 auto;
    padding: 20px;
  }
  h1 { font-size: 1.5rem; color: var(--accent); }
  h2 { font-size: 1.15rem; margin: 24px 0 12px; padding-bottom: 6px; border-bottom: 2px solid var(--accent); }
  .muted { color: var(--muted); font-size: 0.85rem; }
  .header { border-bottom: 3px solid var(--accent); padding-bottom: 12px; margin-bottom: 16px; }
  blockquote { background: var(--section-bg); border-left: 4px solid var(--accent); padding: 10px 14px; white-space: pre-wrap; }
  .grid { display: grid; grid-template-columns: repeat(auto-fit, minmax(180px, 1fr)); gap: 12px; }
  .metric { background: var(--section-bg); border: 1px solid var(--border); border-radius: 6px; padding: 10px 12px; }
  .metric .label { font-size: 0.75rem; text-transform: uppercase; color: var(--muted); }
  .metric .value { font-size: 1.2rem; font-weight: 700; }
  .positive { color: var(--green); }
  .negative { color: var(--red); }
  .neutral { color: var(--muted); }
  .badge { display: inline-block; padding: 1px 8px; border-radius: 10px; color: #fff; font-size: 0.75rem; }
  .insight { margin-top: 12px; }
  .charts { display: flex; gap: 16px; align-items: center; flex-wrap: wrap; }
  footer { margin-top: 32px; font-size: 0.75rem; color: var(--muted); }
</style>
</head>
<body>
<div class="header">
  <h1>{{.Title}}</h1>
  <p class="muted">Generated {{.GeneratedAt}} by {{.Author}}</p>
</div>

{{if .Excerpt}}<blockquote>{{.Excerpt}}</blockquote>{{end}}

<h2>Sentiment</h2>
<div class="grid">
  <div class="metric"><div class="label">Sentiment</div><div class="value {{.SentimentClass}}">{{.Sentiment}}</div></div>
  <div class="metric"><div class="label">Confidence</div><div class="value">{{.Confidence}}</div>
    <span class="badge" style="background: {{.ConfidenceColor}}">{{.ConfidenceLevel}}</span></div>
  <div class="metric"><div class="label">Prediction</div><div class="value">{{.Prediction}}</div></div>
  <div class="metric"><div class="label">Signals</div><div class="value">{{.BullishSignals}} / {{.BearishSignals}}</div>
    <span class="muted">bullish / bearish</span></div>
</div>
<p class="insight">{{.Insight}}</p>

<h2>Market Impact</h2>
<div class="charts">
  {{.ImpactGauge}}
  <div>
    <div class="metric"><div class="label">Impact score</div><div class="value">{{.ImpactScore}}</div><span class="muted">{{.ImpactLevel}}</span></div>
    {{if .HasTrend}}
    <div class="metric"><div class="label">Trend</div><div class="value">{{.TrendEmo}} {{.Trend}}</div>
      <span class="muted">{{.Previous}} → {{.Current}} over {{.Segments}} segments</span></div>
    {{end}}
  </div>
</div>

{{if .HasStock}}
<h2>{{.StockName}} ({{.Ticker}})</h2>
<div class="grid">
  <div class="metric"><div class="label">Price</div><div class="value">{{.Price}}</div></div>
  <div class="metric"><div class="label">Change</div>
    <div class="value {{if .ChangeUp}}positive{{else}}negative{{end}}">{{.Change}} ({{.ChangePct}})</div></div>
  {{if .Sector}}<div class="metric"><div class="label">Sector</div><div class="value">{{.Sector}}</div></div>{{end}}
  {{if .MarketCap}}<div class="metric"><div class="label">Market cap</div><div class="value">{{.MarketCap}}</div></div>{{end}}
</div>
<div class="charts">{{.PriceChart}}</div>
{{else if .Ticker}}
<h2>{{.Ticker}}</h2>
<p class="muted">Stock data unavailable.</p>
{{end}}

<footer>Sentiment scores are model estimates and are not investment advice.</footer>
</body>
</html>
`
