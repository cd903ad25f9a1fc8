package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/riskdesk/riskdesk/pkg/composables"
	"github.com/riskdesk/riskdesk/pkg/configuration"
	"github.com/riskdesk/riskdesk/pkg/httpapi"
)

// TenantFromHeader trusts the tenant header set by the host platform's
// authenticating proxy and stores the tenant id in the request context.
// Requests without a valid tenant pass through; handlers that need a tenant
// reject via RequireTenant.
func TenantFromHeader() mux.MiddlewareFunc {
	conf := configuration.Use()
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get(conf.TenantIDHeader))
			if raw != "" {
				if tenantID, err := uuid.Parse(raw); err == nil {
					r = r.WithContext(composables.WithTenantID(r.Context(), tenantID))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireTenant rejects requests whose context carries no tenant.
func RequireTenant() mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, err := composables.UseTenantID(r.Context()); err != nil {
				_ = httpapi.WriteError(w, http.StatusUnauthorized, "TENANT_REQUIRED", "tenant context required", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
