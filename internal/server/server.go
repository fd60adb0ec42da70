// Package server exposes charts over HTTP: the pre-rendered chart of the
// configured snapshot, its Vimshottari calendar feed, and ad-hoc computation
// of charts posted by clients.
package server

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rabank/astro-calculator/internal/calendar"
	"github.com/rabank/astro-calculator/internal/config"
	"github.com/rabank/astro-calculator/internal/engine"
)

// cacheItem stores a rendered document and its metadata for HTTP caching.
type cacheItem struct {
	data         []byte
	contentType  string
	etag         string
	lastModified string // RFC1123 format required by HTTP headers
}

// ChartServer serves the published chart and computes posted ones.
type ChartServer struct {
	// chart and ics use atomic.Pointer for lock-free reads. They are read on
	// every GET but only replaced when a chart is published.
	chart atomic.Pointer[cacheItem]
	ics   atomic.Pointer[cacheItem]

	Port  string
	Clock engine.Clock // decides the current period and stamps the calendar
	Name  string       // calendar label
}

// NewChartServer creates a new instance of the server.
func NewChartServer(port string, clock engine.Clock) *ChartServer {
	if clock == nil {
		clock = engine.RealClock{}
	}
	return &ChartServer{
		Port:  port,
		Clock: clock,
	}
}

// Handler returns the routed handler, wrapped with the common headers.
func (s *ChartServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(config.RouteRoot, s.handleRoot)
	mux.HandleFunc(config.RouteChart, s.handleCached(&s.chart))
	mux.HandleFunc(config.RouteDashaICS, s.handleCached(&s.ics))
	mux.HandleFunc(config.RouteCalculate, s.handleCalculate)
	return withCommonHeaders(mux)
}

// Start initializes the HTTP server and blocks until the context is cancelled.
func (s *ChartServer) Start(ctx context.Context) error {
	if err := config.ValidatePort(s.Port); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         config.BindAddr + config.AddrSeparator + s.Port,
		Handler:      s.Handler(),
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: config.ServerWriteTimeout,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	serverError := make(chan error, config.ChannelBufferSize)

	go func() {
		slog.Info(config.MsgServerListen,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyPort, s.Port,
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverError <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info(config.MsgServerStop, config.LogKeyComponent, config.CompServer)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("%s: %w", config.ErrServerShutdown, err)
		}
		return nil

	case err := <-serverError:
		return fmt.Errorf("%s: %w", config.ErrServerStartup, err)
	}
}

// Publish renders chart as JSON and as a calendar and replaces both cached
// documents.
func (s *ChartServer) Publish(chart *engine.Chart) error {
	body, err := s.render(chart)
	if err != nil {
		return err
	}
	ics, err := calendar.Build(chart.Dasha, s.Name, s.Clock.Now())
	if err != nil {
		return err
	}

	store(&s.chart, body, config.MimeJSON)
	store(&s.ics, ics, config.MimeTextCalendar)
	return nil
}

func (s *ChartServer) render(chart *engine.Chart) ([]byte, error) {
	maha, antar, ok := chart.Dasha.At(s.Clock.Now())
	data, err := json.Marshal(chart.Response().WithCurrent(maha, antar, ok))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrJSONEncode, err)
	}
	return data, nil
}

// store atomically replaces the content of slot.
func store(slot *atomic.Pointer[cacheItem], data []byte, contentType string) {
	hash := sha256.Sum256(data)
	etag := fmt.Sprintf(config.FormatETag, hex.EncodeToString(hash[:]))

	item := &cacheItem{
		data:         data,
		contentType:  contentType,
		etag:         etag,
		lastModified: time.Now().UTC().Format(http.TimeFormat),
	}

	// Any concurrent reader sees either the old or the new complete item.
	slot.Store(item)

	slog.Debug(config.MsgCacheUpdated,
		config.LogKeyComponent, config.CompServer,
		config.LogKeySizeBytes, len(data),
		config.LogKeyETag, etag,
	)
}

func (s *ChartServer) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != config.RouteRoot {
		http.Error(w, config.HTTPMsgNotFound, http.StatusNotFound)
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set(config.HeaderAllow, config.AllowedMethodsGet)
		http.Error(w, config.HTTPMsgMethodNotAll, http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set(config.HeaderContentType, config.MimeText)
	_, _ = io.WriteString(w, config.HTTPMsgRunning)
}

// handleCached serves a cached document with HTTP caching support.
func (s *ChartServer) handleCached(slot *atomic.Pointer[cacheItem]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set(config.HeaderAllow, config.AllowedMethodsGet)
			http.Error(w, config.HTTPMsgMethodNotAll, http.StatusMethodNotAllowed)
			return
		}

		item := slot.Load()
		if item == nil {
			w.Header().Set(config.HeaderRetryAfter, config.RetryAfterSeconds)
			http.Error(w, config.HTTPMsgInitializing, http.StatusServiceUnavailable)
			return
		}

		w.Header().Set(config.HeaderContentType, item.contentType)
		w.Header().Set(config.HeaderXContentType, config.MimeNoSniff)
		w.Header().Set(config.HeaderCacheControl, config.CacheControlPrivate)
		w.Header().Set(config.HeaderETag, item.etag)
		w.Header().Set(config.HeaderLastModified, item.lastModified)

		if match := r.Header.Get(config.HeaderIfNoneMatch); match == item.etag {
			w.WriteHeader(http.StatusNotModified)
			return
		}

		if since := r.Header.Get(config.HeaderIfModifiedSince); since != "" {
			if clientTime, err := time.Parse(http.TimeFormat, since); err == nil {
				if serverTime, err := time.Parse(http.TimeFormat, item.lastModified); err == nil {
					if !serverTime.After(clientTime) {
						w.WriteHeader(http.StatusNotModified)
						return
					}
				}
			}
		}

		if r.Method == http.MethodGet {
			if _, err := io.Copy(w, bytes.NewReader(item.data)); err != nil {
				slog.Error(config.ErrWriteResp,
					config.LogKeyComponent, config.CompServer,
					config.LogKeyError, err,
				)
			}
		}
	}
}

// calculateRequest is the body of POST /calculate.
type calculateRequest struct {
	engine.Input
	HorizonYears float64 `json:"horizon_years,omitempty"`
}

// handleCalculate derives a chart from a posted input.
func (s *ChartServer) handleCalculate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set(config.HeaderAllow, config.AllowedMethodsPost)
		http.Error(w, config.HTTPMsgMethodNotAll, http.StatusMethodNotAllowed)
		return
	}

	var req calculateRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, config.MaxRequestBodySize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		reject(w, r, http.StatusBadRequest, fmt.Errorf("%s: %w", config.ErrRequestDecode, err))
		return
	}

	opts := engine.DefaultOptions()
	if req.HorizonYears != 0 {
		opts.HorizonYears = req.HorizonYears
	}

	chart, err := engine.Compute(req.Input, opts)
	if err != nil {
		if errors.Is(err, engine.ErrInvalidInput) {
			reject(w, r, http.StatusBadRequest, err)
			return
		}
		reject(w, r, http.StatusInternalServerError, err)
		return
	}

	data, err := s.render(chart)
	if err != nil {
		reject(w, r, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set(config.HeaderContentType, config.MimeJSON)
	if _, err := w.Write(data); err != nil {
		slog.Error(config.ErrWriteResp,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyError, err,
		)
	}
}

// errorBody is the JSON shape of a rejected request.
type errorBody struct {
	Error string `json:"error"`
}

func reject(w http.ResponseWriter, r *http.Request, status int, err error) {
	msg := err.Error()
	if status >= http.StatusInternalServerError {
		msg = config.HTTPMsgInternalErr
	}

	slog.Warn(config.MsgRequestFailed,
		config.LogKeyComponent, config.CompServer,
		config.LogKeyRequestID, w.Header().Get(config.HeaderRequestID),
		config.LogKeyPath, r.URL.Path,
		config.LogKeyStatus, status,
		config.LogKeyError, err,
	)

	w.Header().Set(config.HeaderContentType, config.MimeJSON)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorBody{Error: msg})
}

// statusRecorder remembers the status code written through it.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

// withCommonHeaders tags every response with the server name, a request ID
// and the CORS headers, and answers preflight requests.
func withCommonHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(config.HeaderRequestID)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}

		h := w.Header()
		h.Set(config.HeaderServer, config.ServerHeader)
		h.Set(config.HeaderRequestID, id)
		h.Set(config.HeaderAllowOrigin, config.CORSOrigin)
		h.Set(config.HeaderAllowHeaders, config.CORSHeaders)
		h.Set(config.HeaderAllowMethods, config.CORSMethods)

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		slog.Debug(config.MsgRequestServed,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyRequestID, id,
			config.LogKeyMethod, r.Method,
			config.LogKeyPath, r.URL.Path,
			config.LogKeyStatus, rec.status,
			config.LogKeyDuration, time.Since(start).Milliseconds(),
		)
	})
}
