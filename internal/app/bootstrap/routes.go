// internal/app/bootstrap/routes.go
package bootstrap

import (
	"errors"
	"net/http"

	errorsfeature "github.com/dalemusser/shoppingo/internal/app/features/errors"
	healthfeature "github.com/dalemusser/shoppingo/internal/app/features/health"
	listsfeature "github.com/dalemusser/shoppingo/internal/app/features/lists"
	"github.com/dalemusser/shoppingo/internal/app/lists"
	"github.com/dalemusser/shoppingo/internal/app/system/authclient"
	"github.com/dalemusser/shoppingo/internal/app/system/idgen"
	"github.com/dalemusser/shoppingo/internal/app/system/metrics"
	"github.com/dalemusser/shoppingo/internal/app/system/reqlog"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. At this point you have access to:
//   - coreCfg: WAFFLE core configuration (ports, env, timeouts, etc.)
//   - appCfg: app-specific configuration defined in AppConfig
//   - deps: the list repository, the rate limiter and, for the mongo store, the client
//   - logger: the fully configured zap.Logger for this app
//
// Shoppingo mounts the list API under /lists behind the per-client rate
// limiter, plus /health and (when enabled) /metrics.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	if deps.Limiter == nil {
		return nil, errors.New("rate limiter not initialized")
	}

	ids, err := idgen.New(appCfg.IDStrategy)
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(reqlog.Middleware(logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: appCfg.CORSAllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"Retry-After"},
		MaxAge:         300,
	}))

	var authOpts []authclient.Option
	if appCfg.MetricsEnabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		collector := metrics.NewCollector(reg)
		r.Use(collector.Middleware)
		r.Handle("/metrics", metrics.Handler(reg))
		authOpts = append(authOpts, authclient.WithObserver(collector))
	}

	// Only assign a resolver when configured so the service sees a true nil.
	var resolver lists.UserResolver
	if appCfg.AuthURL != "" {
		resolver = authclient.New(appCfg.AuthURL, appCfg.AuthTimeout, logger.Named("authclient"), authOpts...)
	}

	svc := lists.NewService(deps.Lists, ids, resolver, logger.Named("lists"))
	errLog := errorsfeature.NewErrorLogger(logger)

	errH := errorsfeature.NewHandler()
	r.NotFound(errH.NotFound)
	r.MethodNotAllowed(errH.MethodNotAllowed)

	var pinger healthfeature.Pinger
	if deps.MongoClient != nil {
		pinger = deps.MongoClient
	}
	r.Mount("/health", healthfeature.Routes(healthfeature.NewHandler(pinger, resolver != nil, logger)))

	r.Group(func(api chi.Router) {
		api.Use(deps.Limiter.Middleware(logger))
		api.Mount("/lists", listsfeature.Routes(listsfeature.NewHandler(svc, errLog, logger)))
	})

	logger.Info("routes mounted",
		zap.Bool("metrics", appCfg.MetricsEnabled),
		zap.Bool("auth_configured", resolver != nil),
		zap.Strings("cors_origins", appCfg.CORSAllowedOrigins))
	return r, nil
}
