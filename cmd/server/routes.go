package main

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/RishiReddii/AgreementHub/internal/engine"
	"github.com/RishiReddii/AgreementHub/pkg/domain"
	"github.com/RishiReddii/AgreementHub/pkg/httpx"
)

type api struct {
	eng *engine.Engine
}

func newRouter(a *api, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(requestLogger(logger))
	r.Use(metricsMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(api chi.Router) {
		api.Route("/blueprints", func(b chi.Router) {
			b.Get("/", a.listBlueprints)
			b.Post("/", a.createBlueprint)
			b.Get("/{id}", a.getBlueprint)
			b.Put("/{id}", a.updateBlueprint)
			b.Delete("/{id}", a.deleteBlueprint)
		})
		api.Route("/contracts", func(c chi.Router) {
			c.Get("/", a.listContracts)
			c.Post("/", a.createContract)
			c.Get("/{id}", a.getContract)
			c.Put("/{id}", a.updateContract)
			c.Delete("/{id}", a.deleteContract)
			c.Post("/{id}/transition", a.transitionContract)
		})
		api.Get("/stats", a.getStats)
	})
	return r
}

// writeErr maps the engine's error taxonomy onto HTTP statuses. Anything
// outside the taxonomy is a storage failure and stays generic.
func writeErr(w http.ResponseWriter, err error) {
	var ve *domain.ValidationError
	var nf *domain.NotFoundError
	var re *domain.RuleError
	var ce *domain.ConflictError
	switch {
	case errors.As(err, &ve):
		httpx.WriteError(w, http.StatusBadRequest, ve.Error())
	case errors.As(err, &re):
		httpx.WriteError(w, http.StatusBadRequest, re.Error())
	case errors.As(err, &nf):
		httpx.WriteError(w, http.StatusNotFound, nf.Error())
	case errors.As(err, &ce):
		httpx.WriteError(w, http.StatusConflict, ce.Error())
	default:
		httpx.WriteError(w, http.StatusInternalServerError, "Internal server error")
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(status int) {
	sr.status = status
	sr.ResponseWriter.WriteHeader(status)
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			logger.Info("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", rec.status),
				zap.Duration("duration", time.Since(start)))
		})
	}
}
