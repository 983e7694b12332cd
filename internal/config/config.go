package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"network-dashboard/internal/model"
	"network-dashboard/internal/secret"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

const (
	SourceDatabase    = "database"
	SourceSpreadsheet = "spreadsheet"
	SourceRemote      = "remote"
)

const (
	ModeQuery  = "query"
	ModeMemory = "memory"
)

const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

type HTTPConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type LogConfig struct {
	Level string
}

type DBConfig struct {
	Driver          string
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	AutoMigrate     bool
}

// DataConfig selects where the dashboard table comes from.
type DataConfig struct {
	Source        string
	Variant       model.QueryVariant
	Mode          string
	File          string
	EndpointURL   string
	EndpointToken string
	RemoteTimeout time.Duration
}

type CacheConfig struct {
	Backend       string
	TTL           time.Duration
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

type AuthConfig struct {
	AccessSecret string
}

type Config struct {
	Environment string
	HTTP        HTTPConfig
	Log         LogConfig
	DB          DBConfig
	Data        DataConfig
	Cache       CacheConfig
	Auth        AuthConfig
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("./deploy")

	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{
		Environment: v.GetString("APP_ENV"),
		HTTP: HTTPConfig{
			Host:         v.GetString("HTTP_HOST"),
			Port:         v.GetInt("HTTP_PORT"),
			ReadTimeout:  v.GetDuration("HTTP_READ_TIMEOUT"),
			WriteTimeout: v.GetDuration("HTTP_WRITE_TIMEOUT"),
		},
		Log: LogConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
		DB: DBConfig{
			Driver:          strings.ToLower(v.GetString("DB_DRIVER")),
			Port:            v.GetInt("DB_PORT"),
			Name:            v.GetString("DB_NAME"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetDuration("DB_CONN_MAX_LIFETIME"),
			AutoMigrate:     v.GetBool("DB_AUTO_MIGRATE"),
		},
		Data: DataConfig{
			Source:        strings.ToLower(v.GetString("DATA_SOURCE")),
			Variant:       model.QueryVariant(strings.ToLower(v.GetString("QUERY_VARIANT"))),
			Mode:          strings.ToLower(v.GetString("AGGREGATION_MODE")),
			File:          v.GetString("DATA_FILE"),
			EndpointURL:   v.GetString("DATA_ENDPOINT_URL"),
			EndpointToken: v.GetString("DATA_ENDPOINT_TOKEN"),
			RemoteTimeout: v.GetDuration("REMOTE_TIMEOUT"),
		},
		Cache: CacheConfig{
			Backend:       strings.ToLower(v.GetString("CACHE_BACKEND")),
			TTL:           v.GetDuration("CACHE_TTL"),
			RedisAddr:     v.GetString("REDIS_ADDR"),
			RedisPassword: v.GetString("REDIS_PASSWORD"),
			RedisDB:       v.GetInt("REDIS_DB"),
		},
		Auth: AuthConfig{
			AccessSecret: v.GetString("AUTH_ACCESS_SECRET"),
		},
	}

	if cfg.Data.Source == "" {
		cfg.Data.Source = SourceDatabase
		if cfg.Data.EndpointURL != "" {
			cfg.Data.Source = SourceRemote
		}
	}

	if cfg.DB.Port == 0 {
		cfg.DB.Port = 3306
		if cfg.DB.Driver == "postgres" {
			cfg.DB.Port = 5432
		}
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	if cfg.Data.Source == SourceDatabase {
		if err := loadCredentials(v, cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", EnvDevelopment)
	v.SetDefault("HTTP_HOST", "0.0.0.0")
	v.SetDefault("HTTP_PORT", 8000)
	v.SetDefault("HTTP_READ_TIMEOUT", "15s")
	v.SetDefault("HTTP_WRITE_TIMEOUT", "60s")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DB_DRIVER", "mysql")
	v.SetDefault("DB_MAX_OPEN_CONNS", 5)
	v.SetDefault("DB_MAX_IDLE_CONNS", 2)
	v.SetDefault("DB_CONN_MAX_LIFETIME", "30m")
	v.SetDefault("QUERY_VARIANT", string(model.QueryV2))
	v.SetDefault("AGGREGATION_MODE", ModeQuery)
	v.SetDefault("DATA_FILE", "data.xlsx")
	v.SetDefault("REMOTE_TIMEOUT", "30s")
	v.SetDefault("CACHE_BACKEND", CacheMemory)
	v.SetDefault("CACHE_TTL", "1h")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
}

// loadCredentials resolves the database credentials, decrypting them when an
// ENCRYPTION_KEY is configured.
func loadCredentials(v *viper.Viper, cfg *Config) error {
	var provider secret.Provider = secret.NewEnvProvider(v.GetString)
	if key := v.GetString("ENCRYPTION_KEY"); key != "" {
		fernetProvider, err := secret.NewFernetProvider(provider, key)
		if err != nil {
			return err
		}
		provider = fernetProvider
	}

	host, err := provider.Get("DB_HOST")
	if err != nil {
		return err
	}
	user, err := provider.Get("DB_USER")
	if err != nil {
		return err
	}
	password, err := provider.Get("DB_PASSWORD")
	if err != nil && !errors.Is(err, secret.ErrMissing) {
		return err
	}

	cfg.DB.Host = host
	cfg.DB.User = user
	cfg.DB.Password = password
	return nil
}

func validate(cfg *Config) error {
	switch cfg.Data.Source {
	case SourceDatabase:
		if cfg.DB.Driver != "mysql" && cfg.DB.Driver != "postgres" {
			return fmt.Errorf("DB_DRIVER must be mysql or postgres, got %q", cfg.DB.Driver)
		}
		if cfg.Data.Mode != ModeQuery && cfg.Data.Mode != ModeMemory {
			return fmt.Errorf("AGGREGATION_MODE must be query or memory, got %q", cfg.Data.Mode)
		}
	case SourceSpreadsheet:
		if cfg.Data.File == "" {
			return fmt.Errorf("DATA_FILE is required for the spreadsheet source")
		}
	case SourceRemote:
		if cfg.Data.EndpointURL == "" {
			return fmt.Errorf("DATA_ENDPOINT_URL is required for the remote source")
		}
	default:
		return fmt.Errorf("DATA_SOURCE must be database, spreadsheet or remote, got %q", cfg.Data.Source)
	}
	if !cfg.Data.Variant.Valid() {
		return fmt.Errorf("QUERY_VARIANT must be v1 or v2, got %q", cfg.Data.Variant)
	}
	if cfg.Cache.Backend != CacheMemory && cfg.Cache.Backend != CacheRedis {
		return fmt.Errorf("CACHE_BACKEND must be memory or redis, got %q", cfg.Cache.Backend)
	}
	if cfg.Cache.TTL < 0 {
		return fmt.Errorf("CACHE_TTL must not be negative")
	}
	return nil
}
