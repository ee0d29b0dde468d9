package middleware

import (
	"bufio"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/tahcohcat/eventquest-web/internal/logger"
)

// Logging logs every request with its status and duration.
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		log := logger.New().
			WithField("method", r.Method).
			WithField("path", r.URL.Path).
			WithField("status", wrapped.statusCode).
			WithField("duration", time.Since(start).String())

		msg := fmt.Sprintf("%s %s", r.Method, r.URL.Path)
		switch {
		case wrapped.statusCode >= 500:
			log.Error(msg)
		case wrapped.statusCode >= 400:
			log.Warn(msg)
		default:
			log.Info(msg)
		}
	})
}

// responseWriter captures the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Hijack lets websocket upgrades through the wrapper.
func (rw *responseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := rw.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	rw.statusCode = http.StatusSwitchingProtocols
	return h.Hijack()
}
