package db

import (
	"fmt"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"network-dashboard/internal/config"
)

func New(cfg *config.Config, log zerolog.Logger) (*gorm.DB, Dialect, error) {
	dialect, err := DialectFor(cfg.DB.Driver)
	if err != nil {
		return nil, Dialect{}, err
	}

	var dialector gorm.Dialector
	switch dialect {
	case Postgres:
		dialector = postgres.Open(postgresDSN(cfg.DB))
	default:
		dialector = mysql.Open(mysqlDSN(cfg.DB))
	}

	gormLogger := logger.Default.LogMode(logger.Warn)
	if cfg.Environment == config.EnvProduction {
		gormLogger = logger.Default.LogMode(logger.Error)
	}

	database, err := gorm.Open(dialector, &gorm.Config{Logger: gormLogger})
	if err != nil {
		return nil, Dialect{}, fmt.Errorf("open %s: %w", dialect.Name(), err)
	}

	sqlDB, err := database.DB()
	if err != nil {
		return nil, Dialect{}, err
	}
	if cfg.DB.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.DB.MaxOpenConns)
	}
	if cfg.DB.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.DB.MaxIdleConns)
	}
	if cfg.DB.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.DB.ConnMaxLifetime)
	}

	if cfg.DB.AutoMigrate {
		if err := runMigrations(database, dialect); err != nil {
			return nil, Dialect{}, err
		}
		log.Info().Str("driver", dialect.Name()).Msg("source schema ensured")
	}

	return database, dialect, nil
}

func mysqlDSN(cfg config.DBConfig) string {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&loc=UTC&timeout=%s",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Name, 10*time.Second)
	return dsn
}

func postgresDSN(cfg config.DBConfig) string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Path:     "/" + cfg.Name,
		RawQuery: "sslmode=prefer&TimeZone=UTC",
	}
	return u.String()
}
