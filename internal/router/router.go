package router

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-demo-go-stdlib/internal/envelope"
	"github.com/ovaphlow/pitchfork/service-demo-go-stdlib/internal/frontend"
	"github.com/ovaphlow/pitchfork/service-demo-go-stdlib/internal/metrics"
	"github.com/ovaphlow/pitchfork/service-demo-go-stdlib/internal/status"
	"github.com/ovaphlow/pitchfork/service-demo-go-stdlib/internal/user"
	"github.com/ovaphlow/pitchfork/service-demo-go-stdlib/pkg/database"
	"github.com/ovaphlow/pitchfork/service-demo-go-stdlib/pkg/utilities"
)

const (
	apiCSP       = "default-src 'none'; frame-ancestors 'none';"
	dashboardCSP = "default-src 'self'; style-src 'self' 'unsafe-inline'; object-src 'none'; base-uri 'self';"
)

// APIDeps are the collaborators the API routes need.
type APIDeps struct {
	Logger      *zap.SugaredLogger
	Gateway     *database.Gateway
	Metrics     *metrics.Metrics
	IDs         *utilities.IDGenerator
	ServiceName string
	HealthName  string
	StatusOpts  []status.Option
}

// RegisterRoutes mounts the API handlers on the standard library's http.ServeMux.
func RegisterRoutes(d APIDeps) http.Handler {
	mux := http.NewServeMux()

	userSvc := user.NewUserService(nil, d.Logger)
	opts := append([]status.Option{status.WithHealthName(d.HealthName)}, d.StatusOpts...)
	agg := status.NewAggregator(d.ServiceName, d.Gateway, userSvc, d.Logger, opts...)

	statusHandler := status.NewHandler(agg)
	mux.HandleFunc("GET /{$}", statusHandler.Root)
	mux.HandleFunc("GET /health", statusHandler.Health)

	userHandler := user.NewHandler(d.Gateway, userSvc, d.Logger)
	mux.HandleFunc("GET /users", userHandler.List)

	mux.Handle("GET /metrics", d.Metrics.Handler())

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		envelope.WriteError(w, http.StatusNotFound, "not found")
	})

	return chain(mux, d.Logger, d.Metrics, d.IDs, apiCSP)
}

// FrontendDeps are the collaborators the dashboard routes need.
type FrontendDeps struct {
	Logger  *zap.SugaredLogger
	Client  *frontend.Client
	Metrics *metrics.Metrics
	IDs     *utilities.IDGenerator
}

// RegisterFrontendRoutes mounts the dashboard.
func RegisterFrontendRoutes(d FrontendDeps) http.Handler {
	mux := http.NewServeMux()

	dashboard := frontend.NewHandler(d.Client, d.Logger)
	mux.HandleFunc("GET /{$}", dashboard.Dashboard)
	mux.Handle("GET /metrics", d.Metrics.Handler())

	return chain(mux, d.Logger, d.Metrics, d.IDs, dashboardCSP)
}

// chain wraps with request id, panic recovery, logging then security headers.
func chain(h http.Handler, logger *zap.SugaredLogger, m *metrics.Metrics, ids *utilities.IDGenerator, csp string) http.Handler {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	h = SecurityHeadersMiddleware(csp)(h)
	h = LoggingMiddleware(logger, m)(h)
	h = RecoveryMiddleware(logger)(h)
	return RequestIDMiddleware(ids)(h)
}
