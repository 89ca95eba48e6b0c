package httpx

import (
	"net/http"

	"github.com/google/uuid"
)

// The header is echoed back so clients can quote the id when reporting a
// failed call.
const requestIDHeader = "X-Request-Id"

// RequestIDMiddleware tags every request with an id, honoring one supplied
// upstream (e.g. by a reverse proxy) over minting a fresh UUID.
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}

		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(ContextWithRequestID(r.Context(), id)))
	})
}
