package cli

import (
	"fmt"
	"io"

	"github.com/kutbudev/foodgram/pkg/config"
	"github.com/spf13/cobra"
)

// NewConfigCommand groups the configuration helpers.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the server configuration",
		Long:  `Shows the configuration the server would run with after config.yaml, .env and FOODGRAM_* variables are applied.`,
	}

	cmd.AddCommand(newConfigShowCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration with secrets masked",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			printConfig(cmd.OutOrStdout(), cfg)
			return nil
		},
	}
}

func printConfig(w io.Writer, cfg *config.Config) {
	rows := []struct{ key, value string }{
		{"database.driver", cfg.Database.Driver},
		{"database.host", cfg.Database.Host},
		{"database.port", fmt.Sprint(cfg.Database.Port)},
		{"database.user", cfg.Database.User},
		{"database.password", mask(cfg.Database.Password)},
		{"database.name", cfg.Database.Name},
		{"database.ssl_mode", cfg.Database.SSLMode},
		{"database.auto_migrate", fmt.Sprint(cfg.Database.AutoMigrate)},
		{"server.addr", cfg.Server.Addr()},
		{"server.mode", cfg.Server.Mode},
		{"server.allowed_origins", fmt.Sprint(cfg.Server.AllowedOrigins)},
		{"auth.secret", mask(cfg.Auth.Secret)},
		{"auth.token_ttl", cfg.Auth.TokenTTL.String()},
		{"media.driver", cfg.Media.Driver},
		{"media.root", cfg.Media.Root},
		{"media.base_url", cfg.Media.BaseURL},
		{"media.bucket", cfg.Media.Bucket},
		{"media.region", cfg.Media.Region},
		{"log.level", cfg.Log.Level},
		{"log.env", cfg.Log.Env},
		{"pagination.page_size", fmt.Sprint(cfg.Pagination.PageSize)},
		{"pagination.max_page_size", fmt.Sprint(cfg.Pagination.MaxPageSize)},
	}
	for _, row := range rows {
		fmt.Fprintf(w, "%-26s %s\n", row.key, row.value)
	}
}

func mask(secret string) string {
	if secret == "" {
		return "(unset)"
	}
	return "********"
}
