package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_ValoresPorDefecto(t *testing.T) {
	cfg := fromViper(viper.New())

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.Equal(t, 480, cfg.JWT.Expiration)
	assert.False(t, cfg.Redis.Enabled(), "sin REDIS_ADDR la caché queda deshabilitada")
	assert.Equal(t, 5*time.Minute, cfg.Redis.StockTTL())
}

func TestFromViper_EnteroInvalidoUsaDefault(t *testing.T) {
	v := viper.New()
	v.Set("HTTP_PORT", "no-es-numero")
	v.Set("REDIS_ADDR", "localhost:6379")

	cfg := fromViper(v)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.True(t, cfg.Redis.Enabled())
}

func TestDBConfig_DSNEscapaPassword(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "cafe", Password: "p@ss:wd", DBName: "cafeteria", SSLMode: "disable"}
	assert.Equal(t, "postgres://cafe:p%40ss%3Awd@db:5432/cafeteria?sslmode=disable", c.DSN())

	c.DatabaseURL = "postgres://x@y/z"
	assert.Equal(t, "postgres://x@y/z", c.ConnectionString())
}

func TestValidate_ProduccionSinSecret(t *testing.T) {
	cfg := fromViper(viper.New())
	cfg.App.Env = "production"
	require.Error(t, cfg.validate())

	cfg.JWT.Secret = "s3cr3t"
	require.NoError(t, cfg.validate())
}

func TestAppConfig_LocationInvalidaCaeEnUTC(t *testing.T) {
	assert.Equal(t, time.UTC, AppConfig{Timezone: "Marte/Olympus"}.Location())
	assert.Equal(t, time.UTC, AppConfig{}.Location())
}

func TestValidate_ZonaHorariaYTTL(t *testing.T) {
	cfg := fromViper(viper.New())
	require.NoError(t, cfg.validate())
	assert.Equal(t, "America/Bogota", cfg.App.Location().String())

	cfg.App.Timezone = "Marte/Olympus"
	assert.ErrorContains(t, cfg.validate(), "APP_TIMEZONE")

	cfg.App.Timezone = ""
	cfg.Redis.StockCacheTTL = -1
	assert.ErrorContains(t, cfg.validate(), "STOCK_CACHE_TTL_SECONDS")
}
