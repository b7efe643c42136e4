package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/equipamentos-api/pkg/config"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cr3t")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "equipamentos-api", cfg.App.Name)
	assert.Equal(t, "America/Sao_Paulo", cfg.App.Timezone)
	assert.Equal(t, config.StorageDriverPostgres, cfg.Storage.Driver)
	assert.Equal(t, "authenticated", cfg.JWT.Audience)
	assert.Equal(t, 5*time.Minute, cfg.Redis.ProfileCacheTTL)
	assert.False(t, cfg.Redis.Enabled())
	assert.Equal(t, 10<<20, cfg.Import.MaxBytes)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.Equal(t, 10, cfg.DB.MaxConns)
	assert.True(t, cfg.DB.PreferIPv4)
}

func TestLoad_VariablesDeEntorno(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cr3t")
	t.Setenv("STORAGE_DRIVER", "MEMORY")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("PROFILE_CACHE_TTL_SECONDS", "30")
	t.Setenv("APP_TIMEZONE", "UTC")
	t.Setenv("DB_PREFER_IPV4", "false")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, config.StorageDriverMemory, cfg.Storage.Driver)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, 30*time.Second, cfg.Redis.ProfileCacheTTL)
	assert.Equal(t, time.UTC, cfg.App.Location())
	assert.False(t, cfg.DB.PreferIPv4)
}

func TestLoad_Errores(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	_, err := config.Load()
	assert.Error(t, err)

	t.Setenv("JWT_SECRET", "s3cr3t")
	t.Setenv("STORAGE_DRIVER", "mongo")
	_, err = config.Load()
	assert.Error(t, err)

	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("DB_MAX_CONNS", "0")
	_, err = config.Load()
	assert.Error(t, err)

	t.Setenv("DB_MAX_CONNS", "4")
	t.Setenv("APP_TIMEZONE", "Marte/Olympus")
	_, err = config.Load()
	assert.Error(t, err)
}

func TestDBConfig_ConnectionString(t *testing.T) {
	db := config.DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss:w", DBName: "inv", SSLMode: "require"}
	assert.Equal(t, "postgres://app:p%40ss%3Aw@db:5432/inv?sslmode=require", db.ConnectionString())

	db.DatabaseURL = "postgresql://u:p@h:6543/postgres"
	assert.Equal(t, db.DatabaseURL, db.ConnectionString())
}
