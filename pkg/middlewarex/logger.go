package middlewarex

import (
	"log/slog"
	"net/http"

	"mystic_market/pkg/contextx"
	"mystic_market/pkg/logx"
)

// Logger scopes the request logger to the request line and trace id. The
// query string is left out since it may carry paging only.
func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		attrs := []any{
			slog.String(logx.FieldHTTPMethod, r.Method),
			slog.String(logx.FieldURL, r.URL.Path),
			slog.String(logx.FieldIP, r.RemoteAddr),
		}

		if traceID, err := contextx.TraceIDFromContext(ctx); err == nil {
			attrs = append(attrs, logx.Stringer(logx.FieldTraceID, traceID))
		}

		next.ServeHTTP(w, r.WithContext(contextx.WithLogger(ctx, logger(ctx).With(attrs...))))
	})
}
