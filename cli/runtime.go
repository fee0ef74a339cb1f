package cli

import (
	"fmt"

	"github.com/kutbudev/foodgram/internal/logger"
	"github.com/kutbudev/foodgram/pkg/config"
	"github.com/kutbudev/foodgram/pkg/repository"
	"go.uber.org/zap"
)

// runtime is what every server command needs: configuration, a logger and
// an open database.
type runtime struct {
	cfg *config.Config
	log *zap.Logger
	db  *repository.Database
}

func openRuntime() (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Env)
	if err != nil {
		return nil, err
	}

	db, err := repository.NewDatabase(cfg)
	if err != nil {
		logger.Sync(log)
		return nil, err
	}

	return &runtime{cfg: cfg, log: log, db: db}, nil
}

func (r *runtime) Close() {
	if err := r.db.Close(); err != nil {
		r.log.Warn("failed to close database", zap.Error(err))
	}
	logger.Sync(r.log)
}
