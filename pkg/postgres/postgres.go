package postgres

import (
	"fmt"
	"time"

	"github.com/ekant1999/StrategyEvolve/config"
	"github.com/ekant1999/StrategyEvolve/pkg/logger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// DB wraps the gorm client for PostgreSQL.
type DB struct {
	*gorm.DB
	log *logger.Logger
}

// DSN builds the libpq connection string; the migrate command reuses it as a URL.
func DSN(cfg config.Database) string {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s",
		cfg.Host, cfg.User, cfg.Password, cfg.DBName, cfg.Port, cfg.SSLMode)
	if cfg.TimeZone != "" {
		dsn += fmt.Sprintf(" TimeZone=%s", cfg.TimeZone)
	}
	return dsn
}

// URL is the postgres:// form golang-migrate expects.
func URL(cfg config.Database) string {
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.DBName, sslMode)
}

func gormLogLevel(level string) gormlogger.LogLevel {
	switch level {
	case "Silent":
		return gormlogger.Silent
	case "Error":
		return gormlogger.Error
	case "Info":
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}

func NewDB(cfg config.Database, log *logger.Logger) (*DB, error) {
	db, err := gorm.Open(postgres.Open(DSN(cfg)), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormLogLevel(cfg.LogLevel)),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database using GORM: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB from GORM: %w", err)
	}

	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.ConnMaxLifetime != "" {
		duration, err := time.ParseDuration(cfg.ConnMaxLifetime)
		if err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("invalid connection max lifetime %q: %w", cfg.ConnMaxLifetime, err)
		}
		sqlDB.SetConnMaxLifetime(duration)
	}

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping PostgreSQL at %s:%d: %w", cfg.Host, cfg.Port, err)
	}

	log.Info("Connected to database",
		logger.StringField("host", cfg.Host),
		logger.StringField("database", cfg.DBName),
	)
	return &DB{DB: db, log: log}, nil
}

func (d *DB) Close() error {
	if d.DB == nil {
		return nil
	}
	sqlDB, err := d.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB from GORM for closing: %w", err)
	}
	d.log.Info("Closing database connection")
	return sqlDB.Close()
}
