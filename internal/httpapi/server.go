// Package httpapi serves a staged release over HTTP for local consumption by
// the higher-level runtime: the JSON manifest, the checksum file and the
// artifacts themselves.
package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"llamapack/pkg/types"
)

// Service defines the methods required by the HTTP API layer.
type Service interface {
	Manifest() (types.Manifest, error)
	Checksums() (string, error)
	ArtifactPath(rel string) (string, error)
	Status() types.StatusResponse
	Ready() bool
}

// NewMux registers /manifest, /checksums, /artifacts/*, /status, /healthz,
// /readyz and /metrics.
func NewMux(svc Service) http.Handler {
	r := chi.NewRouter()
	// Basic middlewares: request id, real ip, recoverer
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(MetricsMiddleware)
	// Compression for JSON endpoints; artifacts are already binary-packed.
	r.Use(middleware.Compress(5, "application/json", "text/plain"))
	// The consuming runtime may fetch from a dev origin in a browser context.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodHead},
	}))
	// Security headers
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})

	// getManifest godoc
	// @Summary  Release manifest
	// @Produce  json
	// @Success  200 {object} types.Manifest
	// @Router   /manifest [get]
	r.Get("/manifest", func(w http.ResponseWriter, r *http.Request) {
		m, err := svc.Manifest()
		if err != nil {
			writeJSONError(w, http.StatusServiceUnavailable, err.Error())
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(m); err != nil {
			writeJSONError(w, http.StatusInternalServerError, "failed to encode response")
		}
	})

	r.Get("/checksums", func(w http.ResponseWriter, r *http.Request) {
		sums, err := svc.Checksums()
		if err != nil {
			writeJSONError(w, http.StatusServiceUnavailable, err.Error())
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte(sums))
	})

	// getArtifact godoc
	// @Summary  Download one prebuilt library
	// @Produce  application/octet-stream
	// @Param    path path string true "manifest-relative artifact path"
	// @Success  200 {file} binary
	// @Failure  404 {object} types.ErrorResponse
	// @Router   /artifacts/{path} [get]
	r.Get("/artifacts/*", func(w http.ResponseWriter, r *http.Request) {
		rel := chi.URLParam(r, "*")
		abs, err := svc.ArtifactPath(rel)
		if err != nil {
			writeJSONError(w, http.StatusNotFound, err.Error())
			return
		}
		start := time.Now()
		w.Header().Set("Content-Type", "application/octet-stream")
		http.ServeFile(w, r, abs)
		logDownload(r, rel, time.Since(start))
		countDownload(rel)
	})

	r.Get("/status", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(svc.Status()); err != nil {
			writeJSONError(w, http.StatusInternalServerError, "failed to encode response")
		}
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if svc.Ready() {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("ready"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("staging"))
	})

	// Prometheus metrics endpoint
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	MountSwagger(r)

	return r
}
