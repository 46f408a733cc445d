package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

// NewRouter mounts the page, the API and the metrics endpoint
func NewRouter(page *Page, businesses *BusinessHandler, limiter *RateLimiter, allowedOrigin string) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Method(http.MethodGet, "/", page)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(CORS(allowedOrigin))

		r.With(limiter.Middleware).Get("/businesses", businesses.HandleTrigger)
		r.Get("/businesses.json", businesses.HandleContainer)
		r.Get("/history", businesses.HandleHistory)
		r.Get("/health", HandleHealth(businesses.loader.Container()))
	})

	return r
}

// requestLogger writes one zerolog line per request
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		log.Debug().
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("🌐 Request handled")
	})
}
