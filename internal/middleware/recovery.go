package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/2beens/workouts/internal/telemetry/metrics"

	log "github.com/sirupsen/logrus"
)

// PanicRecovery logs the stack of a panicking handler and answers with 500 instead
// of dropping the connection.
func PanicRecovery(metricsManager *metrics.Manager) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(respWriter http.ResponseWriter, req *http.Request) {
			defer func() {
				if r := recover(); r != nil {
					if r == http.ErrAbortHandler {
						panic(r)
					}
					log.Errorf("http: panic serving %s %s [req id: %s]: %v\n%s", req.Method, req.URL.Path, RequestID(req.Context()), r, debug.Stack())
					if metricsManager != nil {
						metricsManager.CounterHandleRequestPanic.Inc()
					}
					http.Error(respWriter, "internal server error", http.StatusInternalServerError)
				}
			}()

			// handler call
			next.ServeHTTP(respWriter, req)
		})
	}
}
