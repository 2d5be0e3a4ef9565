package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ekomapa/geolayers/internal/core/observability"
	"github.com/ekomapa/geolayers/internal/geojson"
	"github.com/ekomapa/geolayers/internal/layers"
	mylog "github.com/ekomapa/geolayers/internal/logger"
	"github.com/ekomapa/geolayers/internal/query"
)

// LayerProvider serves a layer's FeatureCollection as serialized JSON.
type LayerProvider interface {
	LayerCollection(ctx context.Context, layer layers.Layer) ([]byte, error)
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// LayerHandler resolves the layer slug and writes the feature collection.
// Failures always map to a non-2xx status with a structured body.
func LayerHandler(logger *slog.Logger, svc LayerProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, code: http.StatusOK}
		slug := chi.URLParam(r, "layer")
		ctx := mylog.WithLayer(r.Context(), slug)

		layer, err := layers.Lookup(slug)
		if err != nil {
			writeError(sw, http.StatusNotFound, "unknown_layer", err.Error())
			observability.ObserveHTTP(r.Method, "/api/layers/{layer}/", sw.code, time.Since(start).Seconds())
			return
		}

		body, err := svc.LayerCollection(ctx, layer)
		if err != nil {
			status, kind := classify(err)
			logger.LogAttrs(ctx, slog.LevelError, "layer request failed",
				slog.String("layer", slug),
				slog.String("kind", kind),
				slog.String("err", err.Error()),
			)
			writeError(sw, status, kind, "error occurred while processing layer data")
			observability.ObserveHTTP(r.Method, "/api/layers/{layer}/", sw.code, time.Since(start).Seconds())
			return
		}

		sw.Header().Set("Content-Type", "application/json")
		sw.WriteHeader(http.StatusOK)
		_, _ = sw.Write(body)
		observability.ObserveHTTP(r.Method, "/api/layers/{layer}/", sw.code, time.Since(start).Seconds())
	}
}

func classify(err error) (int, string) {
	var qe *query.QueryError
	if errors.As(err, &qe) {
		if query.Unavailable(qe) {
			return http.StatusServiceUnavailable, "query_failure"
		}
		return http.StatusInternalServerError, "query_failure"
	}
	var me *geojson.MalformedGeometryError
	if errors.As(err, &me) {
		return http.StatusInternalServerError, "malformed_geometry"
	}
	return http.StatusInternalServerError, "internal"
}

func writeError(w http.ResponseWriter, status int, kind, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorBody{Error: kind, Message: msg})
}

type statusWriter struct {
	http.ResponseWriter
	code int
}

func (w *statusWriter) WriteHeader(code int) {
	w.code = code
	w.ResponseWriter.WriteHeader(code)
}
