// Package requestid assigns a correlation id to each request.
package requestid

import (
	"net/http"

	"github.com/google/uuid"

	"turnero/pkg/requestcontext"
)

// Header is echoed back on every response and honoured when the caller sets it.
const Header = "X-Request-ID"

const maxInboundLength = 64

// Middleware reuses a sane inbound X-Request-ID or generates a UUID.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(Header)
		if id == "" || len(id) > maxInboundLength {
			id = uuid.NewString()
		}
		w.Header().Set(Header, id)
		ctx := requestcontext.WithRequestID(r.Context(), id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
