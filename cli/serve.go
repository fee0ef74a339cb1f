package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kutbudev/foodgram/api"
	"github.com/kutbudev/foodgram/internal/auth"
	"github.com/kutbudev/foodgram/internal/media"
	"github.com/kutbudev/foodgram/pkg/repository"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	shutdownTimeout    = 10 * time.Second
	tokenPurgeInterval = time.Hour
)

// NewServeCommand runs the HTTP API until SIGINT or SIGTERM.
func NewServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime()
			if err != nil {
				return err
			}
			defer rt.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if rt.cfg.Database.AutoMigrate {
				if err := rt.db.Migrate(); err != nil {
					return err
				}
			}

			store, err := media.New(ctx, rt.cfg.Media)
			if err != nil {
				return err
			}

			gin.SetMode(rt.cfg.Server.Mode)
			srv := api.NewServer(rt.cfg, api.Dependencies{
				Database: rt.db,
				Issuer:   auth.NewTokenIssuer(rt.cfg.Auth.Secret, rt.cfg.Auth.TokenTTL),
				Media:    store,
				Logger:   rt.log,
			})

			go purgeExpiredTokens(ctx, repository.NewTokenRepository(rt.db.DB), rt.log)

			errCh := make(chan error, 1)
			go func() {
				rt.log.Info("api server listening", zap.String("addr", srv.Addr), zap.String("media", rt.cfg.Media.Driver))
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			case <-ctx.Done():
			}

			rt.log.Info("shutting down api server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
}

func purgeExpiredTokens(ctx context.Context, tokens *repository.TokenRepository, log *zap.Logger) {
	ticker := time.NewTicker(tokenPurgeInterval)
	defer ticker.Stop()

	for {
		n, err := tokens.DeleteExpired(ctx, time.Now())
		if err != nil && ctx.Err() == nil {
			log.Warn("failed to purge expired tokens", zap.Error(err))
		} else if n > 0 {
			log.Info("purged expired tokens", zap.Int64("count", n))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
