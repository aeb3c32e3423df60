// Package api provides the HTTP server for FinSense.
//
// It exposes text analysis, stock data and company-news endpoints, a
// WebSocket event stream and the embedded web UI.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/seenimoa/finsense/internal/config"
	"github.com/seenimoa/finsense/internal/datasource"
	"github.com/seenimoa/finsense/internal/logger"
	"github.com/seenimoa/finsense/internal/pipeline"
	"github.com/seenimoa/finsense/internal/report"
	"github.com/seenimoa/finsense/pkg/utils"
	"github.com/seenimoa/finsense/web"
)

// Server is the HTTP API server.
type Server struct {
	router   chi.Router
	cfg      *config.Config
	analyzer *pipeline.Analyzer
	stocks   datasource.StockSource
	wsHub    *WSHub
	validate *validator.Validate
	version  string
	serveUI  bool // when true, serve the embedded web UI at /
}

// Option configures a Server.
type Option func(*Server)

// WithStocks enables GET /stock/{symbol}.
func WithStocks(src datasource.StockSource) Option {
	return func(s *Server) { s.stocks = src }
}

// WithVersion sets the version reported by /health.
func WithVersion(v string) Option {
	return func(s *Server) { s.version = v }
}

// WithoutUI disables the embedded web UI.
func WithoutUI() Option {
	return func(s *Server) { s.serveUI = false }
}

// NewServer creates a configured API server with all routes and middleware.
func NewServer(cfg *config.Config, analyzer *pipeline.Analyzer, opts ...Option) *Server {
	srv := &Server{
		cfg:      cfg,
		analyzer: analyzer,
		wsHub:    NewWSHub(),
		validate: validator.New(),
		version:  "dev",
		serveUI:  true,
	}
	for _, o := range opts {
		o(srv)
	}
	srv.router = srv.buildRouter()
	return srv
}

// Router returns the chi router for testing.
func (s *Server) Router() chi.Router {
	return s.router
}

// Hub returns the WebSocket hub.
func (s *Server) Hub() *WSHub {
	return s.wsHub
}

// ListenAndServe serves on the configured address until ctx is cancelled,
// then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	httpSrv := &http.Server{
		Addr:              s.cfg.Server.Addr(),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      s.cfg.Server.RequestTimeout() + 10*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	hubCtx, stopHub := context.WithCancel(ctx)
	defer stopHub()
	go s.wsHub.Run(hubCtx)

	errCh := make(chan error, 1)
	go func() {
		logger.L().Info("http server listening", zap.String("addr", httpSrv.Addr))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.L().Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return httpSrv.Shutdown(shutdownCtx)
}

// buildRouter configures all routes and middleware.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logger.Middleware(logger.L()))
	r.Use(middleware.Recoverer)
	if d := s.cfg.Server.RequestTimeout(); d > 0 {
		r.Use(middleware.Timeout(d))
	}

	origins := []string{"*"}
	if len(s.cfg.Server.CORSOrigins) > 0 {
		origins = s.cfg.Server.CORSOrigins
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)
	r.Post("/analyze", s.handleAnalyze)
	r.Post("/report", s.handleReport)
	r.Get("/stock/{symbol}", s.handleStock)
	r.Get("/news/{symbol}", s.handleNews)
	r.Get("/config", s.handleGetConfig)
	r.Get("/config/keys", s.handleGetConfigKeys)
	r.Get("/ws", s.handleWebSocket)

	if s.serveUI {
		s.mountSPA(r, web.StaticFS())
	}

	return r
}

// mountSPA serves the embedded frontend. Unknown paths fall back to
// index.html.
func (s *Server) mountSPA(r chi.Router, staticFS fs.FS) {
	fileServer := http.FileServerFS(staticFS)

	r.Get("/*", func(w http.ResponseWriter, r *http.Request) {
		rPath := strings.TrimPrefix(r.URL.Path, "/")
		if rPath == "" {
			rPath = "index.html"
		}

		f, err := staticFS.Open(rPath)
		if err != nil {
			serveIndexHTML(w, staticFS)
			return
		}
		f.Close()

		if strings.HasSuffix(rPath, ".html") {
			w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		}
		fileServer.ServeHTTP(w, r)
	})
}

// serveIndexHTML reads and serves the embedded index.html for SPA fallback.
func serveIndexHTML(w http.ResponseWriter, staticFS fs.FS) {
	data, err := fs.ReadFile(staticFS, "index.html")
	if err != nil {
		http.Error(w, "web UI not available", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.WriteHeader(http.StatusOK)
	w.Write(data) //nolint:errcheck
}

// ============================================================
// Request / Response types
// ============================================================

// AnalyzeRequest is the body for POST /analyze.
type AnalyzeRequest struct {
	Text string `json:"text" validate:"required"`
}

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse is the body for GET /health.
type HealthResponse struct {
	Status       string `json:"status"`
	Version      string `json:"version"`
	Classifier   string `json:"classifier"`
	StockEnabled bool   `json:"stock_enabled"`
	WSClients    int    `json:"ws_clients"`
	MarketStatus string `json:"market_status"`
	TimeET       string `json:"time_et"`
}

// Error messages shown to API clients.
const (
	msgTextRequired       = "Text input is required"
	msgInvalidBody        = "invalid request body"
	msgNoData             = "No data found for symbol"
	msgServiceUnavailable = "Sentiment service unavailable"
	msgStockDisabled      = "stock data is disabled"
	msgNewsDisabled       = "news feed is disabled"
)

// ============================================================
// Handlers
// ============================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:       "ok",
		Version:      s.version,
		Classifier:   s.analyzer.ClassifierName(),
		StockEnabled: s.stocks != nil,
		WSClients:    s.wsHub.ClientCount(),
		MarketStatus: utils.MarketStatus(),
		TimeET:       utils.FormatDateTimeET(utils.NowET()),
	})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, msgTextRequired)
		return
	}

	resp, err := s.analyzer.Analyze(r.Context(), req.Text)
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}

	s.wsHub.Broadcast(WSMessage{
		Type: "analysis_complete",
		Data: map[string]interface{}{
			"sentiment":  resp.Sentiment,
			"confidence": resp.Confidence,
			"prediction": resp.Prediction,
			"impact":     resp.Impact.Score,
			"ticker":     resp.Ticker,
		},
	})

	writeJSON(w, http.StatusOK, resp)
}

// handleReport analyzes the text and returns the result as a standalone
// HTML report.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, msgTextRequired)
		return
	}

	resp, err := s.analyzer.Analyze(r.Context(), req.Text)
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}

	cfg := report.DefaultConfig()
	cfg.Excerpt = req.Text
	html, err := report.GenerateHTML(resp, cfg)
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(html)) //nolint:errcheck
}

func (s *Server) handleStock(w http.ResponseWriter, r *http.Request) {
	if s.stocks == nil {
		writeError(w, http.StatusServiceUnavailable, msgStockDisabled)
		return
	}

	symbol := utils.NormalizeTicker(chi.URLParam(r, "symbol"))
	period := r.URL.Query().Get("period")
	if period == "" {
		period = s.cfg.Stock.DefaultPeriod
	}

	sd, err := s.stocks.GetStockData(r.Context(), symbol, period)
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sd)
}

func (s *Server) handleNews(w http.ResponseWriter, r *http.Request) {
	symbol := utils.NormalizeTicker(chi.URLParam(r, "symbol"))

	limit := s.cfg.News.Limit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	items, err := s.analyzer.AnalyzeNews(r.Context(), symbol, limit)
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// statusFor maps a pipeline or datasource error to an HTTP status and the
// message shown to the client.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, pipeline.ErrEmptyText):
		return http.StatusBadRequest, msgTextRequired
	case errors.Is(err, pipeline.ErrClassification):
		return http.StatusServiceUnavailable, msgServiceUnavailable
	case errors.Is(err, pipeline.ErrNoNewsSource):
		return http.StatusServiceUnavailable, msgNewsDisabled
	case errors.Is(err, datasource.ErrInvalidPeriod):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, datasource.ErrTickerNotFound), errors.Is(err, datasource.ErrNoData):
		return http.StatusNotFound, msgNoData
	case errors.Is(err, datasource.ErrRateLimited):
		return http.StatusTooManyRequests, err.Error()
	default:
		return http.StatusInternalServerError, err.Error()
	}
}

func (s *Server) writeFailure(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.L().Error("request failed",
			zap.String("path", r.URL.Path),
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Error(err),
		)
	}
	writeError(w, status, msg)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.L().Warn("failed to write JSON response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}
