package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Server captures process level configuration.
type Server struct {
	Addr      string
	LogLevel  string
	LogFormat string

	// CatalogSource is a file path or an http(s) URL to the specialty catalog.
	CatalogSource string

	Queue   Queue
	Storage Storage
}

// Queue holds the knobs of the appointment queue itself.
type Queue struct {
	SlotDuration time.Duration
	TimeLayout   string
	Location     *time.Location
}

// Storage selects and configures the blob backend holding the persisted queue.
type Storage struct {
	Driver string
	Key    string

	FileRoot      string
	SQLitePath    string
	PostgresDSN   string
	PostgresTable string

	Redis RedisConfig
	S3    S3Config
}

// RedisConfig configures the shared go-redis client.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// S3Config configures the S3 / MinIO blob driver.
type S3Config struct {
	Bucket          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	PathStyle       bool
}

const (
	DefaultStorageKey   = "turnos"
	DefaultSlotDuration = 15 * time.Minute
	DefaultTimeLayout   = "15:04:05"
)

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	return Server{
		Addr:          envOr("TURNERO_ADDR", ":8080"),
		LogLevel:      envOr("TURNERO_LOG_LEVEL", "info"),
		LogFormat:     envOr("TURNERO_LOG_FORMAT", "json"),
		CatalogSource: envOr("TURNERO_CATALOG", "especialidades.json"),
		Queue: Queue{
			SlotDuration: envDuration("TURNERO_SLOT_DURATION", DefaultSlotDuration),
			TimeLayout:   envOr("TURNERO_TIME_LAYOUT", DefaultTimeLayout),
			Location:     envLocation("TURNERO_TIMEZONE"),
		},
		Storage: Storage{
			Driver:        envOr("TURNERO_STORAGE_DRIVER", "file"),
			Key:           envOr("TURNERO_STORAGE_KEY", DefaultStorageKey),
			FileRoot:      envOr("TURNERO_FILE_ROOT", "./data"),
			SQLitePath:    envOr("TURNERO_SQLITE_PATH", "turnero.db"),
			PostgresDSN:   os.Getenv("TURNERO_POSTGRES_DSN"),
			PostgresTable: envOr("TURNERO_POSTGRES_TABLE", "kv_blobs"),
			Redis: RedisConfig{
				URL:          os.Getenv("TURNERO_REDIS_URL"),
				PoolSize:     envInt("TURNERO_REDIS_POOL_SIZE", 10),
				MinIdleConns: envInt("TURNERO_REDIS_MIN_IDLE_CONNS", 1),
				DialTimeout:  envDuration("TURNERO_REDIS_DIAL_TIMEOUT", 5*time.Second),
				ReadTimeout:  envDuration("TURNERO_REDIS_READ_TIMEOUT", 3*time.Second),
				WriteTimeout: envDuration("TURNERO_REDIS_WRITE_TIMEOUT", 3*time.Second),
			},
			S3: S3Config{
				Bucket:          os.Getenv("TURNERO_S3_BUCKET"),
				Region:          envOr("TURNERO_S3_REGION", "us-east-1"),
				Endpoint:        os.Getenv("TURNERO_S3_ENDPOINT"),
				AccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
				SecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
				PathStyle:       strings.EqualFold(os.Getenv("TURNERO_S3_PATH_STYLE"), "true"),
			},
		},
	}
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

// envLocation falls back to the process local zone on unknown names.
func envLocation(key string) *time.Location {
	name := os.Getenv(key)
	if name == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.Local
	}
	return loc
}
