// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/dalemusser/shoppingo/internal/app/lists"
	"github.com/dalemusser/shoppingo/internal/app/system/ratelimit"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database/back-end dependencies for the app.
// MongoClient and MongoDatabase are nil when the memory store is selected.
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database

	// Lists is the repository the list service runs on.
	Lists lists.Repository

	// Limiter throttles /lists per client IP. Its cleanup goroutine runs
	// until Shutdown stops it.
	Limiter *ratelimit.Limiter
}
