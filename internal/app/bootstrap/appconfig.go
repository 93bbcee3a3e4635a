// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// Store backends selectable with store_type.
const (
	StoreMongo  = "mongo"
	StoreMemory = "memory"
)

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig covers the
// framework-level settings (ports, TLS, log level); everything specific to
// the list service lives here.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// List storage and identity
	StoreType  string // "mongo" or "memory"
	IDStrategy string // "uuid" or "objectid"

	// External auth service used to resolve shared usernames.
	// Blank AuthURL leaves the service unconfigured.
	AuthURL     string
	AuthTimeout time.Duration

	// HTTP edge
	CORSAllowedOrigins []string
	RateLimitRPS       int
	RateLimitBurst     int
	MetricsEnabled     bool

	// Handler timeouts (zero keeps the defaults)
	TimeoutShort  time.Duration
	TimeoutMedium time.Duration
}
