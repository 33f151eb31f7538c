package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestFromViper_Defaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	cfg := fromViper(v)

	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 720*time.Hour, cfg.JWT.ExpiryHours)
	assert.Equal(t, ".document-container", cfg.Renderer.RootSelector)
	assert.Equal(t, 60*time.Second, cfg.Renderer.SettleTimeout)
	assert.Equal(t, 500*time.Millisecond, cfg.Renderer.NetworkIdle)
	assert.Equal(t, -5, cfg.Renderer.OffsetQuote)
	assert.Equal(t, 10, cfg.Renderer.OffsetDelivery)
	assert.Equal(t, 786, cfg.Renderer.PageWidth)
	assert.False(t, cfg.IsProduction())
}

func TestFromViper_Overrides(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("DB_DRIVER", "SQLite")
	v.Set("APP_ENV", "production")
	v.Set("RENDERER_OFFSET_DELIVERY", 12)

	cfg := fromViper(v)

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 12, cfg.Renderer.OffsetDelivery)
}

func TestDSN(t *testing.T) {
	db := DatabaseConfig{Host: "db", User: "u", Password: "p", Name: "n", Port: "5432", SSLMode: "disable", Timezone: "UTC"}
	assert.Equal(t, "host=db user=u password=p dbname=n port=5432 sslmode=disable TimeZone=UTC", db.DSN())
}
