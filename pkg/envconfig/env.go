package envconfig

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/manish-terminal/Elastomechwork/pkg/logger"
)

// LoadEnvFile loads environment variables from the given file. A missing
// file is reported as an error so the caller can log a warning; variables
// already set in the environment win over file values.
func LoadEnvFile(path string) error {
	return godotenv.Load(path)
}

// GetEnv returns the value of key, or fallback when unset or empty.
func GetEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// GetLogLevel reads LOG_LEVEL and normalizes it to a logger level.
func GetLogLevel() logger.LogLevel {
	switch GetEnv("LOG_LEVEL", "info") {
	case "debug":
		return logger.LevelDebug
	case "warn":
		return logger.LevelWarn
	case "error":
		return logger.LevelError
	default:
		return logger.LevelInfo
	}
}
