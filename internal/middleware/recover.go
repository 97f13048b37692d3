package middleware

import (
	"net/http"

	"github.com/oggyb/skebby-gateway/internal/response"
	"github.com/sirupsen/logrus"
)

// Recover turns a handler panic into a 500 envelope and logs it.
func Recover(log *logrus.Entry) func(http.Handler) http.Handler {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				log.WithFields(logrus.Fields{
					"method": r.Method,
					"path":   r.URL.Path,
					"panic":  rec,
				}).Error("handler panicked")
				response.RespondError(w, http.StatusInternalServerError, "internal server error")
			}()

			next.ServeHTTP(w, r)
		})
	}
}
