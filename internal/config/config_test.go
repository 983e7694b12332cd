package config

import (
	"testing"
	"time"

	"github.com/fernet/fernet-go"
	"github.com/stretchr/testify/require"

	"network-dashboard/internal/model"
	"network-dashboard/internal/secret"
)

func TestLoadDefaultsForDatabaseSource(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_USER", "reporter")
	t.Setenv("DB_PASSWORD", "pw")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, EnvDevelopment, cfg.Environment)
	require.Equal(t, SourceDatabase, cfg.Data.Source)
	require.Equal(t, "mysql", cfg.DB.Driver)
	require.Equal(t, 3306, cfg.DB.Port)
	require.Equal(t, model.QueryV2, cfg.Data.Variant)
	require.Equal(t, ModeQuery, cfg.Data.Mode)
	require.Equal(t, time.Hour, cfg.Cache.TTL)
	require.Equal(t, "db.internal", cfg.DB.Host)
	require.Equal(t, "reporter", cfg.DB.User)
	require.Equal(t, "pw", cfg.DB.Password)
}

func TestLoadDecryptsCredentials(t *testing.T) {
	var key fernet.Key
	require.NoError(t, key.Generate())
	encoded := key.Encode()

	for name, plain := range map[string]string{"DB_HOST": "10.0.0.5", "DB_USER": "svc", "DB_PASSWORD": "hunter2"} {
		token, err := secret.Encrypt(encoded, plain)
		require.NoError(t, err)
		t.Setenv(name, token)
	}
	t.Setenv("ENCRYPTION_KEY", encoded)
	t.Setenv("DB_DRIVER", "postgres")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "10.0.0.5", cfg.DB.Host)
	require.Equal(t, "svc", cfg.DB.User)
	require.Equal(t, "hunter2", cfg.DB.Password)
	require.Equal(t, 5432, cfg.DB.Port)
}

func TestLoadRemoteSourceSkipsCredentials(t *testing.T) {
	t.Setenv("DATA_ENDPOINT_URL", "http://api:8000/data")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, SourceRemote, cfg.Data.Source)
	require.Empty(t, cfg.DB.Host)
}

func TestLoadValidation(t *testing.T) {
	t.Setenv("DATA_SOURCE", "spreadsheet")
	t.Setenv("QUERY_VARIANT", "v3")

	_, err := Load()
	require.ErrorContains(t, err, "QUERY_VARIANT")
}

func TestLoadRequiresDatabaseUser(t *testing.T) {
	t.Setenv("DB_HOST", "db")

	_, err := Load()
	require.ErrorIs(t, err, secret.ErrMissing)
}
