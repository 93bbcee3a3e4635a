// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/dalemusser/shoppingo/internal/app/system/authclient"
	"github.com/dalemusser/shoppingo/internal/app/system/idgen"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for Shoppingo.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, auth_url, etc.
//   - Environment variables: SHOPPINGO_MONGO_URI, SHOPPINGO_AUTH_URL, etc.
//   - Command-line flags: --mongo_uri, --auth_url, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "shoppingo", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 5, Desc: "MongoDB min connection pool size (default: 5)"},

	{Name: "store_type", Default: StoreMongo, Desc: "List storage: 'mongo' or 'memory'"},
	{Name: "id_strategy", Default: idgen.StrategyUUID, Desc: "Id format for lists and items: 'uuid' or 'objectid'"},

	// External auth service
	{Name: "auth_url", Default: "", Desc: "Base URL of the auth service (blank disables list sharing)"},
	{Name: "auth_timeout", Default: "5s", Desc: "Timeout for one auth service call (e.g., 5s, 500ms)"},

	// HTTP edge
	{Name: "cors_allowed_origins", Default: "*", Desc: "Comma-separated list of allowed CORS origins"},
	{Name: "rate_limit_rps", Default: 20, Desc: "Sustained requests per second per client IP"},
	{Name: "rate_limit_burst", Default: 40, Desc: "Burst size per client IP"},
	{Name: "metrics_enabled", Default: true, Desc: "Expose Prometheus metrics at /metrics"},

	// Handler timeouts
	{Name: "timeout_short", Default: "5s", Desc: "Timeout for single-list reads and appends"},
	{Name: "timeout_medium", Default: "10s", Desc: "Timeout for read-modify-write operations"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles .env files, config files,
// environment variables (WAFFLE_* for core, SHOPPINGO_* for app) and flags,
// merged with precedence flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "SHOPPINGO", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		StoreType:  strings.ToLower(strings.TrimSpace(appValues.String("store_type"))),
		IDStrategy: strings.ToLower(strings.TrimSpace(appValues.String("id_strategy"))),

		AuthURL:     strings.TrimSpace(appValues.String("auth_url")),
		AuthTimeout: appValues.Duration("auth_timeout", authclient.DefaultTimeout),

		CORSAllowedOrigins: splitList(appValues.String("cors_allowed_origins")),
		RateLimitRPS:       appValues.Int("rate_limit_rps"),
		RateLimitBurst:     appValues.Int("rate_limit_burst"),
		MetricsEnabled:     appValues.Bool("metrics_enabled"),

		TimeoutShort:  appValues.Duration("timeout_short", 5*time.Second),
		TimeoutMedium: appValues.Duration("timeout_medium", 10*time.Second),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// The MongoDB URI is only checked when the mongo store is selected.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	switch appCfg.StoreType {
	case StoreMongo:
		if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
			logger.Error("invalid MongoDB URI", zap.Error(err))
			return fmt.Errorf("invalid MongoDB URI: %w", err)
		}
		if strings.TrimSpace(appCfg.MongoDatabase) == "" {
			return fmt.Errorf("mongo_database is required when store_type is %q", StoreMongo)
		}
	case StoreMemory:
		logger.Warn("using in-memory list store; data is lost on restart")
	default:
		return fmt.Errorf("store_type must be %q or %q, got %q", StoreMongo, StoreMemory, appCfg.StoreType)
	}

	if _, err := idgen.New(appCfg.IDStrategy); err != nil {
		return err
	}

	if appCfg.AuthURL != "" {
		u, err := url.Parse(appCfg.AuthURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("auth_url must be an absolute http(s) URL, got %q", appCfg.AuthURL)
		}
	} else {
		logger.Warn("auth_url not set; lists cannot be shared with other users")
	}

	if appCfg.RateLimitRPS <= 0 || appCfg.RateLimitBurst <= 0 {
		return fmt.Errorf("rate_limit_rps and rate_limit_burst must be positive")
	}

	return nil
}

// splitList splits a comma-separated value, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
