// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/shoppingo/internal/app/system/indexes"
	"github.com/dalemusser/shoppingo/internal/app/system/validators"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// EnsureSchema creates the lists collection, its validator and its indexes.
// Nothing to do for the memory store.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if deps.MongoDatabase == nil {
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return validators.EnsureAll(gctx, deps.MongoDatabase) })
	g.Go(func() error { return indexes.EnsureAll(gctx, deps.MongoDatabase) })
	if err := g.Wait(); err != nil {
		logger.Error("schema setup failed", zap.Error(err))
		return err
	}

	logger.Info("schema ready", zap.String("database", deps.MongoDatabase.Name()))
	return nil
}
