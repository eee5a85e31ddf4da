package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/chambtai-sys/Daily-Briefing-AI/internal/config"
	"github.com/chambtai-sys/Daily-Briefing-AI/internal/metrics"
	"github.com/chambtai-sys/Daily-Briefing-AI/internal/music"
	"github.com/chambtai-sys/Daily-Briefing-AI/internal/pipeline"
	"github.com/chambtai-sys/Daily-Briefing-AI/internal/resource"
)

const maxMixRequestBytes = 64 << 20 // generous cap for long briefings

// HTTPServer provides the mix API plus monitoring endpoints.
type HTTPServer struct {
	server  *http.Server
	logger  *slog.Logger
	config  *config.Config
	pipe    *pipeline.Pipeline
	store   *resource.Store
	metrics *metrics.Metrics

	startTime time.Time
}

// NewHTTPServer creates the HTTP API server.
func NewHTTPServer(cfg *config.Config, logger *slog.Logger, pipe *pipeline.Pipeline,
	store *resource.Store, m *metrics.Metrics) *HTTPServer {

	h := &HTTPServer{
		logger:    logger,
		config:    cfg,
		pipe:      pipe,
		store:     store,
		metrics:   m,
		startTime: time.Now(),
	}

	mux := http.NewServeMux()
	h.setupRoutes(mux)

	h.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.HTTP.Address, cfg.HTTP.Port),
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return h
}

// setupRoutes configures HTTP API routes.
func (h *HTTPServer) setupRoutes(mux *http.ServeMux) {
	// Mix pipeline endpoint
	mux.HandleFunc("/v1/mix", h.withMetrics("/v1/mix", h.handleMix))

	// Encoded resource endpoints
	mux.HandleFunc("/v1/resources/", h.withMetrics("/v1/resources/{id}", h.handleResource))

	// Health check endpoint
	mux.HandleFunc("/health", h.withMetrics("/health", h.handleHealth))

	// Configuration endpoint
	mux.HandleFunc("/config", h.withMetrics("/config", h.handleConfig))

	// Statistics endpoint
	mux.HandleFunc("/stats", h.withMetrics("/stats", h.handleStats))

	// Prometheus metrics endpoint
	mux.Handle("/metrics", promhttp.Handler())

	// Root endpoint with API documentation
	mux.HandleFunc("/", h.withMetrics("/", h.handleRoot))
}

// withMetrics wraps an HTTP handler with metrics collection.
func (h *HTTPServer) withMetrics(endpoint string, handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		startTime := time.Now()

		ww := &responseWriter{ResponseWriter: w, statusCode: 200}
		handler(ww, r)

		duration := time.Since(startTime).Seconds()
		statusCode := fmt.Sprintf("%d", ww.statusCode)

		h.metrics.RecordHTTPRequest(r.Method, endpoint, statusCode, duration)

		if ww.statusCode >= 400 {
			errorType := "client_error"
			if ww.statusCode >= 500 {
				errorType = "server_error"
			}
			h.metrics.RecordHTTPError(r.Method, endpoint, errorType)
		}
	}
}

// responseWriter wraps http.ResponseWriter to capture status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Start starts the HTTP server.
func (h *HTTPServer) Start() error {
	h.logger.Info("Starting HTTP API server",
		slog.String("address", h.server.Addr),
	)

	go func() {
		if err := h.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			h.logger.Error("HTTP server error", slog.String("error", err.Error()))
		}
	}()

	return nil
}

// Stop gracefully stops the HTTP server.
func (h *HTTPServer) Stop(ctx context.Context) error {
	h.logger.Info("Stopping HTTP API server...")

	return h.server.Shutdown(ctx)
}

// mixRequest is the POST /v1/mix request body.
type mixRequest struct {
	AudioBase64 string `json:"audio_base64"`
	Style       string `json:"style"`
	Title       string `json:"title"`
}

// mixResponse is the POST /v1/mix response body.
type mixResponse struct {
	ResourceID      string  `json:"resource_id"`
	URL             string  `json:"url"`
	MimeType        string  `json:"mime_type"`
	Filename        string  `json:"filename"`
	SizeBytes       int     `json:"size_bytes"`
	DurationSeconds float64 `json:"duration_seconds"`
	Style           string  `json:"style"`
}

// handleMix implements the POST /v1/mix endpoint.
func (h *HTTPServer) handleMix(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req mixRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxMixRequestBytes))
	if err := dec.Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	style, err := music.ParseStyle(req.Style)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.metrics.RecordMixRequest(style.String())

	result, err := h.pipe.MixBriefing(r.Context(), req.AudioBase64, style, req.Title)
	if err != nil {
		h.metrics.RecordMixFailure()
		h.logger.Warn("mix request failed",
			slog.String("style", style.String()),
			slog.String("error", err.Error()),
		)
		if errors.Is(err, pipeline.ErrMissingAudio) || errors.Is(err, pipeline.ErrMalformedAudio) {
			http.Error(w, err.Error(), http.StatusBadRequest)
		} else {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	h.metrics.RecordMixComplete(result.Elapsed.Seconds(), result.DurationSeconds, result.Resource.SizeBytes)
	h.metrics.SetActiveResources(h.store.Count())

	resp := mixResponse{
		ResourceID:      result.Resource.ID,
		URL:             "/v1/resources/" + result.Resource.ID,
		MimeType:        result.Resource.MimeType,
		Filename:        result.Resource.Filename,
		SizeBytes:       result.Resource.SizeBytes,
		DurationSeconds: result.DurationSeconds,
		Style:           result.Style.String(),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(resp)
}

// handleResource implements GET and DELETE on /v1/resources/{id}.
func (h *HTTPServer) handleResource(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/v1/resources/")
	if id == "" || strings.Contains(id, "/") {
		http.Error(w, "Resource ID required", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodGet:
		res, err := h.store.Get(id)
		if err != nil {
			http.Error(w, "Resource not found", http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", res.MimeType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", res.Filename))
		w.Header().Set("Content-Length", fmt.Sprintf("%d", res.SizeBytes))
		w.Write(res.Data)

	case http.MethodDelete:
		if !h.store.Release(id) {
			http.Error(w, "Resource not found", http.StatusNotFound)
			return
		}
		h.metrics.RecordResourceReleased()
		h.metrics.SetActiveResources(h.store.Count())
		w.WriteHeader(http.StatusNoContent)

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleHealth implements the /health endpoint.
func (h *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(h.startTime)

	health := map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"uptime":    uptime.String(),
		"service": map[string]interface{}{
			"name":    "briefing-audio-service",
			"version": "1.0.0",
		},
		"components": map[string]interface{}{
			"resource_store": map[string]interface{}{
				"status":           "running",
				"active_resources": h.store.Count(),
				"total_bytes":      h.store.TotalBytes(),
			},
		},
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(health)
}

// handleConfig implements the /config endpoint.
func (h *HTTPServer) handleConfig(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sanitizedConfig := map[string]interface{}{
		"http": map[string]interface{}{
			"port":    h.config.HTTP.Port,
			"address": h.config.HTTP.Address,
			"enabled": h.config.HTTP.Enabled,
		},
		"audio": map[string]interface{}{
			"voice_sample_rate": h.config.Audio.VoiceSampleRate,
			"channels":          h.config.Audio.Channels,
			"bit_depth":         h.config.Audio.BitDepth,
		},
		"mix": map[string]interface{}{
			"render_sample_rate": h.config.Mix.RenderSampleRate,
			"music_gain":         h.config.Mix.MusicGain,
			"fade_in_seconds":    h.config.Mix.FadeInSeconds,
			"fade_out_seconds":   h.config.Mix.FadeOutSeconds,
		},
		"logging": map[string]interface{}{
			"level":  h.config.Logging.Level,
			"format": h.config.Logging.Format,
			"output": h.config.Logging.Output,
		},
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(sanitizedConfig)
}

// handleStats implements the /stats endpoint.
func (h *HTTPServer) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(h.startTime)

	stats := map[string]interface{}{
		"uptime":    uptime.String(),
		"timestamp": time.Now().UTC(),
		"resources": map[string]interface{}{
			"active_count": h.store.Count(),
			"total_bytes":  h.store.TotalBytes(),
		},
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}

// handleRoot implements the / endpoint with API documentation.
func (h *HTTPServer) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	apiDoc := map[string]interface{}{
		"service": "Briefing Audio Service",
		"version": "1.0.0",
		"endpoints": map[string]interface{}{
			"GET /":                        "API documentation",
			"POST /v1/mix":                 "Mix speech audio with a background music bed",
			"GET /v1/resources/{id}":       "Download an encoded audio resource",
			"DELETE /v1/resources/{id}":    "Release an encoded audio resource",
			"GET /health":                  "Service health check",
			"GET /config":                  "Get service configuration",
			"GET /stats":                   "Get service statistics",
			"GET /metrics":                 "Prometheus metrics",
		},
		"timestamp": time.Now().UTC(),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(apiDoc)
}
