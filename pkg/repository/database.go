package repository

import (
	"context"
	"fmt"

	"github.com/kutbudev/foodgram/pkg/config"
	"github.com/kutbudev/foodgram/pkg/models"
	_ "github.com/lib/pq" // registers the "postgres" database/sql driver used by database.driver=pq
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Database manages the gorm handle shared by all repositories
type Database struct {
	DB *gorm.DB
}

// Options tune the connection returned by Open
type Options struct {
	LogLevel     logger.LogLevel
	MaxIdleConns int
	MaxOpenConns int
}

// NewDatabase creates a new PostgreSQL connection from configuration
func NewDatabase(cfg *config.Config) (*Database, error) {
	dialector, err := Dialector(cfg.Database)
	if err != nil {
		return nil, err
	}

	logLevel := logger.Warn
	if cfg.Log.Level == "debug" {
		logLevel = logger.Info
	}

	return Open(dialector, Options{
		LogLevel:     logLevel,
		MaxIdleConns: cfg.Database.MaxIdleConns,
		MaxOpenConns: cfg.Database.MaxOpenConns,
	})
}

// Dialector picks the postgres driver: pgx (default) or lib/pq.
func Dialector(cfg config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case "", "pgx":
		return postgres.Open(cfg.DSN()), nil
	case "pq":
		return postgres.New(postgres.Config{
			DriverName: "postgres",
			DSN:        cfg.DSN(),
		}), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// Open connects through any gorm dialector. Tests use it with SQLite.
func Open(dialector gorm.Dialector, opts Options) (*Database, error) {
	if opts.LogLevel == 0 {
		opts.LogLevel = logger.Silent
	}

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(opts.LogLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := gormDB.SetupJoinTable(&models.Recipe{}, "Tags", &models.RecipeTag{}); err != nil {
		return nil, fmt.Errorf("failed to set up recipe_tags join table: %w", err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get SQL DB: %w", err)
	}
	if opts.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(opts.MaxIdleConns)
	}
	if opts.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
	}

	return &Database{DB: gormDB}, nil
}

// Migrate creates or updates the schema
func (d *Database) Migrate() error {
	return d.DB.AutoMigrate(
		&models.User{},
		&models.Subscription{},
		&models.AuthToken{},
		&models.Tag{},
		&models.Ingredient{},
		&models.Recipe{},
		&models.RecipeTag{},
		&models.IngredientInRecipe{},
		&models.Favorite{},
		&models.ShoppingCartItem{},
	)
}

// Close closes the database connection
func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Health checks the database connection
func (d *Database) Health(ctx context.Context) error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
