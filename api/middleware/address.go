package middleware

import (
	"net/http"
	"strings"

	"github.com/gptx-exchange/gptx-backend/pkg/logger"
)

// addressQueryParams are checked in order; trade requests name the caller
// buyer_address while everything else uses user_address.
var addressQueryParams = []string{"user_address", "buyer_address"}

// CallerAddress lifts the caller's address off the query string into the
// request context and the context logger. Requests without one pass through
// untouched; the controllers decide whether an address is mandatory.
func CallerAddress(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			address := ""
			for _, param := range addressQueryParams {
				if v := strings.TrimSpace(r.URL.Query().Get(param)); v != "" {
					address = v
					break
				}
			}
			if address == "" {
				next.ServeHTTP(w, r)
				return
			}

			ctx := WithUserAddress(r.Context(), address)
			if logg != nil {
				ctx = logg.WithUserAddress(ctx, address)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
