package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Store    StoreConfig
	Postgres PostgresConfig
	Auth     AuthConfig
	CORS     CORSConfig
	Storage  StorageConfig
	Log      LogConfig
}

type ServerConfig struct {
	Port string
}

// Addr returns the listen address for net/http.
func (c ServerConfig) Addr() string {
	return ":" + c.Port
}

type StoreConfig struct {
	Driver string
}

type PostgresConfig struct {
	DatabaseURL string
	Host        string
	Port        string
	User        string
	Password    string
	Database    string
	SSLMode     string
}

// AuthConfig holds raw values; the auth and token services parse and validate them.
type AuthConfig struct {
	AccessTokenSecret  string
	RefreshTokenSecret string
	AccessTokenTTL     string
	RefreshTokenTTL    string
	CookieMaxAge       string
	CookieSecure       string
	CookieSameSite     string
	CookiePath         string
	CookieDomain       string
	BcryptCost         string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type StorageConfig struct {
	Dir       string
	PublicURL string
}

type LogConfig struct {
	Level  string
	Format string
}

// Load reads the configuration from the environment. A .env file in the
// working directory is loaded first when present.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Server: ServerConfig{
			Port: getenv("PORT", "5000"),
		},
		Store: StoreConfig{
			Driver: getenv("STORE_DRIVER", "postgres"),
		},
		Postgres: PostgresConfig{
			DatabaseURL: os.Getenv("DATABASE_URL"),
			Host:        getenv("PGHOST", "localhost"),
			Port:        getenv("PGPORT", "5432"),
			User:        os.Getenv("PGUSER"),
			Password:    os.Getenv("PGPASSWORD"),
			Database:    os.Getenv("PGDATABASE"),
			SSLMode:     getenv("PGSSLMODE", "disable"),
		},
		Auth: AuthConfig{
			AccessTokenSecret:  os.Getenv("ACCESS_TOKEN_SECRET"),
			RefreshTokenSecret: os.Getenv("REFRESH_TOKEN_SECRET"),
			AccessTokenTTL:     getenv("JWT_ACCESS_TTL", "30m"),
			RefreshTokenTTL:    getenv("JWT_REFRESH_TTL", "60m"),
			CookieMaxAge:       getenv("AUTH_COOKIE_MAX_AGE", "24h"),
			CookieSecure:       os.Getenv("AUTH_COOKIE_SECURE"),
			CookieSameSite:     os.Getenv("AUTH_COOKIE_SAMESITE"),
			CookiePath:         getenv("AUTH_COOKIE_PATH", "/"),
			CookieDomain:       os.Getenv("AUTH_COOKIE_DOMAIN"),
			BcryptCost:         getenv("BCRYPT_COST", "10"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
		},
		Storage: StorageConfig{
			Dir:       getenv("STORAGE_DIR", "storage"),
			PublicURL: strings.TrimRight(getenv("BACKEND_SERVER_PATH", "http://localhost:5000"), "/"),
		},
		Log: LogConfig{
			Level:  getenv("LOG_LEVEL", "info"),
			Format: getenv("LOG_FORMAT", "json"),
		},
	}
}

func getenv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func splitList(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
