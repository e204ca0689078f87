package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{
		"TURNERO_ADDR", "TURNERO_STORAGE_DRIVER", "TURNERO_STORAGE_KEY",
		"TURNERO_SLOT_DURATION", "TURNERO_TIME_LAYOUT", "TURNERO_TIMEZONE",
		"TURNERO_CATALOG", "TURNERO_POSTGRES_TABLE",
	} {
		t.Setenv(key, "")
	}

	cfg := FromEnv()

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "file", cfg.Storage.Driver)
	assert.Equal(t, "turnos", cfg.Storage.Key)
	assert.Equal(t, "kv_blobs", cfg.Storage.PostgresTable)
	assert.Equal(t, "especialidades.json", cfg.CatalogSource)
	assert.Equal(t, 15*time.Minute, cfg.Queue.SlotDuration)
	assert.Equal(t, "15:04:05", cfg.Queue.TimeLayout)
	assert.Equal(t, time.Local, cfg.Queue.Location)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("TURNERO_STORAGE_DRIVER", "redis")
	t.Setenv("TURNERO_REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("TURNERO_REDIS_POOL_SIZE", "4")
	t.Setenv("TURNERO_SLOT_DURATION", "20m")
	t.Setenv("TURNERO_TIMEZONE", "UTC")
	t.Setenv("TURNERO_S3_PATH_STYLE", "TRUE")

	cfg := FromEnv()

	assert.Equal(t, "redis", cfg.Storage.Driver)
	assert.Equal(t, "redis://localhost:6379/0", cfg.Storage.Redis.URL)
	assert.Equal(t, 4, cfg.Storage.Redis.PoolSize)
	assert.Equal(t, 20*time.Minute, cfg.Queue.SlotDuration)
	assert.Equal(t, "UTC", cfg.Queue.Location.String())
	assert.True(t, cfg.Storage.S3.PathStyle)
}

func TestFromEnvIgnoresInvalidValues(t *testing.T) {
	t.Setenv("TURNERO_SLOT_DURATION", "soon")
	t.Setenv("TURNERO_REDIS_POOL_SIZE", "-3")
	t.Setenv("TURNERO_TIMEZONE", "Mars/Olympus_Mons")

	cfg := FromEnv()

	assert.Equal(t, DefaultSlotDuration, cfg.Queue.SlotDuration)
	assert.Equal(t, 10, cfg.Storage.Redis.PoolSize)
	assert.Equal(t, time.Local, cfg.Queue.Location)
}
