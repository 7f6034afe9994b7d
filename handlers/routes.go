package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/alorle/hls-sorter/api"
	"github.com/alorle/hls-sorter/logging"
)

// RequestIDHeader carries the request identifier in both directions
const RequestIDHeader = "X-Request-ID"

// maxRequestIDLength bounds incoming identifiers; longer ones are replaced
const maxRequestIDLength = 128

// SetupRoutes configures all HTTP routes and handlers
func SetupRoutes(deps Dependencies) (http.Handler, error) {
	logger := deps.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	validate, err := api.RequestValidator(func(w http.ResponseWriter, message string, statusCode int) {
		logging.WriteJSONError(w, logger, message, statusCode)
	})
	if err != nil {
		return nil, err
	}

	handler := http.NewServeMux()

	handler.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			logger.Warn("Error writing health response", "error", err)
		}
	})

	// Prometheus metrics endpoint
	handler.Handle("GET /metrics", promhttp.Handler())

	handler.HandleFunc("GET /openapi.json", CreateDocumentationHandler(logger))

	handler.HandleFunc("GET /attributes", CreateAttributesHandler(logger))

	playlistHandler := CreatePlaylistHandler(PlaylistDependencies{
		Logger:   logger,
		Fetcher:  deps.Fetcher,
		Rewriter: deps.Rewriter,
	})
	handler.Handle("GET /playlist.m3u8", validate(playlistHandler))

	return withRequestID(logger, handler), nil
}

// CreateDocumentationHandler serves the OpenAPI document as JSON
func CreateDocumentationHandler(logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, err := api.GetSwagger()
		if err != nil {
			logging.WriteJSONError(w, logging.WithContext(r.Context(), logger), "failed to load API document",
				http.StatusInternalServerError, "error", err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if err := json.NewEncoder(w).Encode(doc); err != nil {
			logger.Warn("Failed to encode API document", "error", err)
		}
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// withRequestID tags every request with an identifier, echoes it in the
// response and logs one line per request.
func withRequestID(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" || len(id) > maxRequestIDLength {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)

		ctx := logging.WithRequestID(r.Context(), id)
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(rec, r.WithContext(ctx))

		logging.WithContext(ctx, logger).Info("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}
