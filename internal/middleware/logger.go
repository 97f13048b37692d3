package middleware

import (
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// statusRecorder captures the status code written by the wrapped handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// RequestLogger logs basic information about each HTTP request,
// including method, path, status, remote address and how long it took to serve.
func RequestLogger(log *logrus.Entry) func(http.Handler) http.Handler {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			entry := log.WithFields(logrus.Fields{
				"method":   r.Method,
				"path":     r.URL.Path,
				"status":   rec.status,
				"remote":   r.RemoteAddr,
				"duration": time.Since(start).String(),
			})

			switch {
			case rec.status >= http.StatusInternalServerError:
				entry.Error("request served")
			case rec.status >= http.StatusBadRequest:
				entry.Warn("request served")
			default:
				entry.Info("request served")
			}
		})
	}
}
