package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/leca/dt-restcountries/internal/countries"
	"github.com/leca/dt-restcountries/internal/contract"
)

type Config struct {
	// Twin server.
	ListenAddr   string
	DBPath       string
	StoragePath  string
	SeedSnapshot string

	// Contract harness.
	Target         string
	SchemaPath     string
	HTTPTimeout    time.Duration
	ExpectedCount  int
	TargetCode     string
	TargetLanguage string

	LogFormat string
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present; variables already set win. A
// .env that exists but cannot be parsed is logged and skipped.
func Load() *Config {
	if err := loadDotEnv(".env"); err != nil {
		slog.Warn("ignoring .env", "path", ".env", "error", err)
	}

	return &Config{
		ListenAddr:   getEnv("DT_LISTEN_ADDR", ":8080"),
		DBPath:       getEnv("DT_DB_PATH", "/data/db/countries.db"),
		StoragePath:  getEnv("DT_STORAGE_PATH", "/data/snapshots"),
		SeedSnapshot: getEnv("DT_SEED_SNAPSHOT", ""),

		Target:         getEnv("DT_TARGET", countries.DefaultEndpoint),
		SchemaPath:     getEnv("DT_SCHEMA_PATH", ""),
		HTTPTimeout:    getEnvDuration("DT_HTTP_TIMEOUT", 30*time.Second),
		ExpectedCount:  getEnvInt("DT_EXPECTED_COUNT", contract.ExpectedCountryCount),
		TargetCode:     getEnv("DT_TARGET_CODE", contract.TargetCountryCode),
		TargetLanguage: getEnv("DT_TARGET_LANGUAGE", contract.TargetLanguage),

		LogFormat: getEnv("DT_LOG_FORMAT", ""),
	}
}

// ContractOptions returns the expectations for the contract suite.
func (c *Config) ContractOptions() contract.Options {
	return contract.Options{
		ExpectedCount: c.ExpectedCount,
		CountryCode:   c.TargetCode,
		Language:      c.TargetLanguage,
	}
}

// loadDotEnv applies path to the environment. A missing file is not an error.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	var result int
	for _, c := range v {
		if c < '0' || c > '9' {
			return defaultValue
		}
		result = result*10 + int(c-'0')
	}
	return result
}

// getEnvDuration accepts plain integers as seconds or Go duration strings.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	return defaultValue
}
