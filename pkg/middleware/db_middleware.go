package middleware

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/riskdesk/riskdesk/pkg/composables"
)

// WithTransaction wraps the request in a database transaction committed after
// the handler returns. Import runs manage their own transaction and must not
// be mounted behind this.
func WithTransaction() mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			err := composables.InTx(r.Context(), func(txCtx context.Context) error {
				next.ServeHTTP(w, r.WithContext(txCtx))
				return nil
			})
			if err != nil {
				composables.UseLogger(r.Context()).WithError(err).Error("request transaction failed")
				http.Error(w, err.Error(), http.StatusInternalServerError)
			}
		})
	}
}
