package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

var DefaultEnvConfig *envConfig

type envConfig struct {
	// gateway config
	APP_PORT              string
	BACKEND_URL           string
	RATE_LIMIT_PER_MINUTE int
	RATE_LIMIT_BURST      int
	// client config
	API_BASE_URL string
	PAGE_SIZE    int
	HTTP_TIMEOUT time.Duration
	// export config
	EXPORT_LAYOUT_PATH string
	// logger config
	LOG_FILE_PATH string
	LOG_LEVEL     string
}

// LoadEnvConfig reads the optional .env files and fills DefaultEnvConfig.
// A missing .env is not an error; the process environment still applies.
func LoadEnvConfig(files ...string) error {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	DefaultEnvConfig = &envConfig{
		APP_PORT:              getEnvString("APP_PORT", "8080"),
		BACKEND_URL:           getEnvString("BACKEND_URL", "https://employee-directory-backend.vercel.app"),
		RATE_LIMIT_PER_MINUTE: getEnvInt("RATE_LIMIT_PER_MINUTE", 60),
		RATE_LIMIT_BURST:      getEnvInt("RATE_LIMIT_BURST", 10),
		API_BASE_URL:          getEnvString("API_BASE_URL", "http://localhost:8080/api/proxy"),
		PAGE_SIZE:             getEnvInt("PAGE_SIZE", 9),
		HTTP_TIMEOUT:          getEnvDuration("HTTP_TIMEOUT", 0),
		EXPORT_LAYOUT_PATH:    getEnvString("EXPORT_LAYOUT_PATH", ""),
		LOG_FILE_PATH:         getEnvString("LOG_FILE_PATH", ""),
		LOG_LEVEL:             getEnvString("LOG_LEVEL", "info"),
	}
	return nil
}

func getEnvString(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
		if i, err := strconv.Atoi(val); err == nil {
			return time.Duration(i) * time.Second
		}
	}
	return fallback
}
