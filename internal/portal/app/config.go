package app

import (
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DriverSQLite = "sqlite"
	DriverMongo  = "mongo"
)

type Config struct {
	Issuer         string // issuer claim for access tokens (default: barangay-portal)
	BootstrapToken string // Optional: enables POST /v1/bootstrap when set

	StoreDriver   string // sqlite or mongo (default: sqlite)
	DatabaseFile  string // sqlite database path (default: ./portal.db)
	MongoURI      string // required when StoreDriver is mongo
	MongoDatabase string // default: barangay

	PepperFile     string // path to the password pepper (default: ./pepper)
	SigningKeyFile string // Optional: Ed25519 PEM, generated on first start. Empty means ephemeral.
	AccessTokenTTL time.Duration

	IDYearlyReset bool // restart resident and family head sequences each year
	QRSize        int  // QR image edge in pixels (default: 300)

	Env                 string // dev, test, prod (default: dev)
	LogLevel            string // debug, info, warn, error (default: info)
	LogFormat           string // json, text (default: json)
	Port                int
	ShutdownGracePeriod time.Duration
}

func LoadConfig() Config {
	return Config{
		Issuer:         getEnvOrDefault("TOKEN_ISSUER", "barangay-portal"),
		BootstrapToken: os.Getenv("BOOTSTRAP_TOKEN"),

		StoreDriver:   strings.ToLower(getEnvOrDefault("STORE_DRIVER", DriverSQLite)),
		DatabaseFile:  getEnvOrDefault("DATABASE_FILE", "portal.db"),
		MongoURI:      os.Getenv("MONGO_URI"),
		MongoDatabase: getEnvOrDefault("MONGO_DATABASE", "barangay"),

		PepperFile:     getEnvOrDefault("PEPPER_FILE", "pepper"),
		SigningKeyFile: os.Getenv("SIGNING_KEY_FILE"),
		AccessTokenTTL: getEnvDurationOrDefault("ACCESS_TOKEN_TTL", 15*time.Minute),

		IDYearlyReset: getEnvBoolOrDefault("ID_YEARLY_RESET", false),
		QRSize:        getEnvIntOrDefault("QR_SIZE", 300),

		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if b, err := strconv.ParseBool(value); err == nil {
		return b
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// "15m", "1h", ...
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are minutes.
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
