package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/frahmantamala/feedback-collector/db/migrations"
	"github.com/frahmantamala/feedback-collector/internal"
	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx" for sqlx and goose
	"github.com/pressly/goose/v3"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const migrationTable = "schema_migrations"

// Open connects gorm to the configured driver and applies pool settings.
func Open(cfg internal.DatabaseConfig, lg *slog.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case internal.DriverSQLite, "":
		dialector = sqlite.Open(cfg.Source)
	case internal.DriverPostgres:
		dialector = postgres.Open(cfg.Source)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	gormCfg := &gorm.Config{Logger: gormlogger.Discard}
	if lg != nil {
		gormCfg.Logger = gormlogger.New(
			slog.NewLogLogger(lg.Handler(), slog.LevelWarn),
			gormlogger.Config{
				SlowThreshold:             200 * time.Millisecond,
				LogLevel:                  gormlogger.Warn,
				IgnoreRecordNotFoundError: true,
			},
		)
	}

	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// SQLDriverName maps a configured driver to the database/sql driver gorm registered.
func SQLDriverName(driver string) string {
	if driver == internal.DriverPostgres {
		return "pgx"
	}
	return "sqlite3"
}

func gooseDialect(driver string) string {
	if driver == internal.DriverPostgres {
		return "postgres"
	}
	return "sqlite3"
}

// Migrate applies every pending embedded migration for driver.
func Migrate(ctx context.Context, db *sql.DB, driver string) error {
	if err := prepareGoose(driver); err != nil {
		return err
	}
	if err := goose.UpContext(ctx, db, migrationDir(driver)); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}

// Rollback reverts the latest applied migration.
func Rollback(ctx context.Context, db *sql.DB, driver string) error {
	if err := prepareGoose(driver); err != nil {
		return err
	}
	if err := goose.DownContext(ctx, db, migrationDir(driver)); err != nil {
		return fmt.Errorf("goose down: %w", err)
	}
	return nil
}

func prepareGoose(driver string) error {
	goose.SetBaseFS(migrations.FS)
	goose.SetTableName(migrationTable)
	if err := goose.SetDialect(gooseDialect(driver)); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	return nil
}

func migrationDir(driver string) string {
	if driver == internal.DriverPostgres {
		return "postgres"
	}
	return "sqlite"
}
