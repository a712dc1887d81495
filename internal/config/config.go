package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Database drivers supported by database.Manager.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// DevJWTSecret signs tokens when no secret is configured. It is refused in
// production.
const DevJWTSecret = "fallback-secret-key-for-dev-only"

// ErrDevSecretInProduction is returned by Load when ENV=production runs
// without JWT_SECRET or SECRET_KEY.
var ErrDevSecretInProduction = errors.New("JWT_SECRET must be set when ENV=production")

// Config holds application configuration
type Config struct {
	// Server
	Port               string
	Env                string
	CORSAllowedOrigins []string

	// Database
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	SQLitePath string

	// JWT
	JWTSecret               string
	JWTExpirationDur        time.Duration
	JWTRefreshExpirationDur time.Duration

	// Login throttling. An empty RedisURL disables it.
	RedisURL        string
	LoginRateLimit  int
	LoginRateWindow time.Duration
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if not already loaded
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		// Server
		Port:               getEnv("PORT", "8080"),
		Env:                getEnv("ENV", "development"),
		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),

		// Database
		DBDriver:   strings.ToLower(getEnv("DB_DRIVER", DriverSQLite)),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "taskboard"),
		DBPassword: getEnv("DB_PASSWORD", "taskboard"),
		DBName:     getEnv("DB_NAME", "taskboard"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),
		SQLitePath: getEnv("SQLITE_PATH", "taskboard.db"),

		// JWT. SECRET_KEY is what cmd/gensecret writes.
		JWTSecret: getEnv("JWT_SECRET", getEnv("SECRET_KEY", DevJWTSecret)),

		RedisURL: getEnv("REDIS_URL", ""),
	}

	config.JWTExpirationDur = getDuration("JWT_EXPIRES_IN", 15*time.Minute)
	config.JWTRefreshExpirationDur = getDuration("JWT_REFRESH_EXPIRES_IN", 7*24*time.Hour)
	config.LoginRateWindow = getDuration("LOGIN_RATE_WINDOW", time.Minute)
	config.LoginRateLimit = getInt("LOGIN_RATE_LIMIT", 10)

	if config.DBDriver != DriverPostgres && config.DBDriver != DriverSQLite {
		log.Printf("Warning: unknown DB_DRIVER '%s', falling back to %s\n", config.DBDriver, DriverSQLite)
		config.DBDriver = DriverSQLite
	}

	if config.IsProduction() && config.JWTSecret == DevJWTSecret {
		return nil, ErrDevSecretInProduction
	}

	return config, nil
}

// IsProduction reports whether the service runs with ENV=production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue
	}
	dur, err := time.ParseDuration(raw)
	if err != nil || dur <= 0 {
		log.Printf("Warning: invalid %s value '%s', falling back to %s\n", key, raw, defaultValue)
		return defaultValue
	}
	return dur
}

func getInt(key string, defaultValue int) int {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		log.Printf("Warning: invalid %s value '%s', falling back to %d\n", key, raw, defaultValue)
		return defaultValue
	}
	return n
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
