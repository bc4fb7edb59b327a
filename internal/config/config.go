package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// AppConfig holds the complete application configuration. It is constructed
// once at process start and passed explicitly; core packages never read
// environment variables themselves.
type AppConfig struct {
	// APIToken authenticates against the Linear GraphQL API.
	APIToken string
	// Environment scopes the cache directory (test/development/production).
	Environment string
	// CacheRoot is the parent of the environment-scoped cache directories.
	CacheRoot string
	// CacheDirOverride, when set, bypasses environment scoping entirely.
	CacheDirOverride string
	// Debug enables debug-level logging.
	Debug bool
}

// Load loads the configuration from .env files and environment variables.
func Load() (*AppConfig, error) {
	// Try the executable's directory first, then the working directory.
	exePath, err := os.Executable()
	exeDir := ""
	if err == nil {
		exeDir = filepath.Dir(exePath)
		envPath := filepath.Join(exeDir, ".env")
		if err := godotenv.Load(envPath); err == nil {
			log.Debug().Str("path", envPath).Msg("Loaded configuration from binary directory")
		}
	}
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found in working directory, relying on environment variables")
	}

	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		if exeDir != "" {
			dataPath = exeDir
		} else {
			dataPath = "."
		}
	}

	cfg := &AppConfig{
		APIToken:         getEnv("LINEAR_API_KEY", ""),
		Environment:      getEnv("LINEARFLOW_ENV", "development"),
		CacheRoot:        filepath.Join(dataPath, "cache"),
		CacheDirOverride: getEnv("CACHE_DIR", ""),
		Debug:            getEnvBool("DEBUG", false),
	}

	if cfg.APIToken == "" {
		return nil, fmt.Errorf("LINEAR_API_KEY is not set")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}
