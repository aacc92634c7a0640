package middlewarex

import (
	"net/http"
	"regexp"

	"github.com/rs/xid"

	"mystic_market/pkg/contextx"
)

const headerNameTraceID = "X-Trace-Id"

// Incoming ids end up in every log line, so only short plain tokens are kept.
var traceIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`) //nolint:gochecknoglobals

// TraceID reuses a well-formed X-Trace-Id from the caller or starts a new one,
// and echoes it back on the response.
func TraceID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get(headerNameTraceID)
		if !traceIDPattern.MatchString(traceID) {
			traceID = xid.New().String()
		}

		w.Header().Set(headerNameTraceID, traceID)

		next.ServeHTTP(w, r.WithContext(contextx.WithTraceID(r.Context(), contextx.TraceID(traceID))))
	})
}
