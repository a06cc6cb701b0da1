package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"motoreg/pkg/requestcontext"
)

const requestIDHeader = "X-Request-Id"

// RequestID attaches a request identifier to the context and response,
// honoring an inbound X-Request-Id header when present.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		ctx := requestcontext.WithRequestID(r.Context(), id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
