package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store drivers selectable through STORE_DRIVER.
const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
	DriverMemory   = "memory"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App      AppConfig
	Store    StoreConfig
	Mongo    MongoConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	Auth     AuthConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
	CORSAllowOrigins      string
}

// StoreConfig selects the collection store backend.
type StoreConfig struct {
	Driver string
}

// MongoConfig holds document database connection values.
type MongoConfig struct {
	URI      string
	User     string
	Password string
	Host     string
	Database string
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines token signing parameters. Token lifetime is fixed.
type AuthConfig struct {
	JWTSecret string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	driver := strings.ToLower(getEnv("STORE_DRIVER", DriverMongo))
	switch driver {
	case DriverMongo, DriverPostgres, DriverRedis, DriverMemory:
	default:
		return nil, fmt.Errorf("invalid STORE_DRIVER %q", driver)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "dine-service"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("PORT", "5000"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
			CORSAllowOrigins:      getEnv("CORS_ALLOW_ORIGINS", "*"),
		},
		Store: StoreConfig{
			Driver: driver,
		},
		Mongo: MongoConfig{
			URI:      os.Getenv("MONGODB_URI"),
			User:     os.Getenv("DB_USER"),
			Password: os.Getenv("DB_PASS"),
			Host:     getEnv("MONGODB_HOST", "localhost:27017"),
			Database: getEnv("MONGODB_DATABASE", "dineDB"),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:      getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password:  os.Getenv("REDIS_PASSWORD"),
			DB:        redisDB,
			KeyPrefix: getEnv("REDIS_KEY_PREFIX", "dine"),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("ACCESS_TOKEN", "dev-secret"),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// ConnectionURI returns MONGODB_URI when set, otherwise a URI built from the
// DB_USER/DB_PASS credentials and host. SRV records cannot carry a port or a
// host list, so such hosts get a plain mongodb:// URI.
func (m MongoConfig) ConnectionURI() string {
	if m.URI != "" {
		return m.URI
	}
	if m.User == "" {
		return fmt.Sprintf("mongodb://%s", m.Host)
	}
	creds := url.UserPassword(m.User, m.Password)
	scheme := "mongodb+srv"
	if strings.ContainsAny(m.Host, ":,") {
		scheme = "mongodb"
	}
	return fmt.Sprintf("%s://%s@%s/?retryWrites=true&w=majority", scheme, creds.String(), m.Host)
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
