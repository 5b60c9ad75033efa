package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/okian/arthouse/pkg/logger"
	"github.com/okian/arthouse/pkg/metrics"
)

const defaultSlowRequest = 500 * time.Millisecond

// instrument records request count, latency and error class for one route,
// and logs requests slower than the server's threshold.
func (s *Server) instrument(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rec, r)

		took := time.Since(start)
		status := strconv.Itoa(rec.status)
		metrics.RecordHTTPRequest(endpoint, r.Method, status)
		metrics.RecordHTTPRequestDuration(endpoint, r.Method, status, float64(took.Microseconds())/1000)
		if class := errorClass(rec.status); class != "" {
			metrics.RecordErrorByEndpoint(endpoint, r.Method, class)
		}

		if s.slowRequest > 0 && took >= s.slowRequest {
			s.logger.Warn(r.Context(), "slow request",
				logger.String("endpoint", endpoint),
				logger.String("query", r.URL.RawQuery),
				logger.Int("status", rec.status),
				logger.Duration("took", took),
			)
		}
	}
}

// errorClass buckets a status code for the error counter; "" for success.
func errorClass(status int) string {
	switch {
	case status >= http.StatusInternalServerError:
		return "server_error"
	case status == http.StatusTooManyRequests:
		return "rate_limit"
	case status == http.StatusNotFound:
		return "not_found"
	case status >= http.StatusBadRequest:
		return "client_error"
	default:
		return ""
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
