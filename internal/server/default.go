package server

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/riskdesk/riskdesk/pkg/application"
	"github.com/riskdesk/riskdesk/pkg/configuration"
	"github.com/riskdesk/riskdesk/pkg/constants"
	"github.com/riskdesk/riskdesk/pkg/httpapi"
	"github.com/riskdesk/riskdesk/pkg/middleware"
	"github.com/riskdesk/riskdesk/pkg/server"
)

type DefaultOptions struct {
	Logger        *logrus.Logger
	Configuration *configuration.Configuration
	Application   application.Application
	Pool          *pgxpool.Pool
}

// Default assembles the middleware stack and returns a ready-to-start
// server. The tenant travels from the auth proxy's header into the request
// context before any controller runs.
func Default(options *DefaultOptions) (*server.HTTPServer, error) {
	app := options.Application

	middlewares := []mux.MiddlewareFunc{
		middleware.WithLogger(options.Logger),

		middleware.TracedMiddleware("database"),
		middleware.Provide(constants.AppKey, app),
		middleware.Provide(constants.PoolKey, options.Pool),

		middleware.TracedMiddleware("cors"),
		middleware.Cors(options.Configuration.Origin),

		middleware.TracedMiddleware("tenant"),
		middleware.TenantFromHeader(),

		middleware.TracedMiddleware("requestParams"),
		middleware.RequestParams(),
	}
	app.RegisterMiddleware(middlewares...)

	return server.NewHTTPServer(app, notFound(), methodNotAllowed()), nil
}

func notFound() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = httpapi.WriteError(w, http.StatusNotFound, "NOT_FOUND", "resource not found", nil)
	})
}

func methodNotAllowed() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = httpapi.WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed", nil)
	})
}
