package middleware

import (
	"net/http"
	"time"

	"github.com/webcarros/listing-service/internal/platform/logger"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Logging records method, path, status and duration for every request.
func Logging(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			duration := time.Since(start)
			if rec.status >= http.StatusInternalServerError {
				log.Error("HTTP request failed", "method", r.Method, "path", r.URL.Path, "status", rec.status, "duration", duration.String())
			} else {
				log.Info("HTTP request completed", "method", r.Method, "path", r.URL.Path, "status", rec.status, "duration", duration.String())
			}
		})
	}
}
