package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	apperrors "github.com/killallgit/fraza-api/pkg/errors"
)

var (
	once    sync.Once
	initErr error
)

// legacyEnv maps config keys to the environment variable names the platform
// has always been deployed with. The FRAZA_ prefixed names work as well.
var legacyEnv = map[string]string{
	"server.port":               "PORT",
	"environment":               "NODE_ENV",
	"database.url":              "DATABASE_URL",
	"llm.api_key":               "AZURE_OPENAI_KEY",
	"llm.endpoint":              "AZURE_OPENAI_ENDPOINT",
	"llm.deployment":            "AZURE_OPENAI_DEPLOYMENT",
	"speech.key":                "AZURE_TTS_KEY",
	"speech.region":             "AZURE_TTS_REGION",
	"storage.connection_string": "AZURE_STORAGE_CONNECTION_STRING",
	"auth.firebase_project_id":  "FIREBASE_PROJECT_ID",
}

// Init initializes the configuration system
// This should be called once at application startup
func Init() error {
	once.Do(func() {
		// A missing .env is normal outside local development
		_ = godotenv.Load()

		setDefaults()

		viper.SetEnvPrefix("FRAZA")
		viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		viper.AutomaticEnv()

		for key, env := range legacyEnv {
			_ = viper.BindEnv(key, "FRAZA_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")), env)
		}

		configPath := filepath.Clean("./config/settings.yaml")
		viper.SetConfigFile(configPath)

		if err := viper.ReadInConfig(); err != nil {
			if !os.IsNotExist(err) {
				initErr = apperrors.Wrapf(err, apperrors.ErrCodeConfigInvalid, "error reading config file %s", configPath)
				return
			}
		}

		if err := validate(); err != nil {
			initErr = fmt.Errorf("invalid configuration: %w", err)
		}
	})

	return initErr
}

// GetConfig returns the current configuration as a struct
// Init() must be called before using this
func GetConfig() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return &config, nil
}

// GetString returns a string config value
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetDuration returns a time.Duration config value
func GetDuration(key string) time.Duration {
	return viper.GetDuration(key)
}

func isProductionEnv(env string) bool {
	return env == "production" || env == "prod"
}

// validate validates the configuration using Viper values
func validate() error {
	port := viper.GetInt("server.port")
	if port <= 0 || port > 65535 {
		return apperrors.ConfigError("server.port", fmt.Sprintf("invalid server port: %d", port))
	}

	return validateCredentials(isProductionEnv(viper.GetString("environment")))
}

var placeholders = []string{
	"YOUR_KEY_HERE",
	"YOUR_API_KEY",
	"YOUR_CONNECTION_STRING",
	"changeme",
	"CHANGEME",
}

// validateCredentials rejects placeholder credentials in production and warns otherwise.
// Empty values are allowed: each adapter fails at call time when its credential is missing.
func validateCredentials(isProduction bool) error {
	keys := []struct {
		key  string
		name string
	}{
		{"llm.api_key", "Azure OpenAI key"},
		{"speech.key", "Azure Speech key"},
		{"storage.connection_string", "Azure Storage connection string"},
	}

	for _, k := range keys {
		value := viper.GetString(k.key)
		for _, placeholder := range placeholders {
			if value != placeholder {
				continue
			}
			if isProduction {
				return apperrors.ConfigError(k.key, fmt.Sprintf("invalid %s: cannot use placeholder values in production", k.name))
			}
			fmt.Printf("Warning: %s is using a placeholder value\n", k.name)
			break
		}
	}

	if isProduction && viper.GetBool("auth.dev_enabled") {
		return apperrors.ConfigError("auth.dev_enabled", "cannot be set in production")
	}

	return nil
}

// Validate validates a Config struct (for testing)
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return apperrors.ConfigError("server.port", fmt.Sprintf("invalid server port: %d", c.Server.Port))
	}

	if c.IsProduction() && c.Auth.DevEnabled {
		return apperrors.ConfigError("auth.dev_enabled", "cannot be set in production")
	}

	if c.Storage.Container == "" {
		c.Storage.Container = "audio-files"
	}

	return nil
}

// setDefaults sets default configuration values
func setDefaults() {
	viper.SetDefault("environment", "development")

	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 3000)
	viper.SetDefault("server.read_timeout", 30*time.Second)
	viper.SetDefault("server.write_timeout", 5*time.Minute)
	viper.SetDefault("server.shutdown_timeout", 10*time.Second)
	viper.SetDefault("server.max_header_bytes", 1048576)
	viper.SetDefault("server.max_body_bytes", 1<<20)

	// Database defaults
	viper.SetDefault("database.url", "")
	viper.SetDefault("database.path", "./data/fraza.db")
	viper.SetDefault("database.max_connections", 10)
	viper.SetDefault("database.max_idle_connections", 5)
	viper.SetDefault("database.connection_max_lifetime", 30*time.Minute)
	viper.SetDefault("database.log_queries", false)

	// Azure OpenAI defaults
	viper.SetDefault("llm.api_key", "")
	viper.SetDefault("llm.endpoint", "")
	viper.SetDefault("llm.deployment", "gpt-4o")
	viper.SetDefault("llm.api_version", "2024-04-01-preview")
	viper.SetDefault("llm.timeout", 2*time.Minute)

	// Azure Speech defaults
	viper.SetDefault("speech.key", "")
	viper.SetDefault("speech.region", "swedencentral")
	viper.SetDefault("speech.output_format", "audio-16khz-128kbitrate-mono-mp3")
	viper.SetDefault("speech.user_agent", "FrazaWeb")
	viper.SetDefault("speech.timeout", 30*time.Second)

	// Blob storage defaults
	viper.SetDefault("storage.connection_string", "")
	viper.SetDefault("storage.container", "audio-files")
	viper.SetDefault("storage.sas_expiry", 10*365*24*time.Hour)

	// Auth defaults
	viper.SetDefault("auth.firebase_project_id", "")
	viper.SetDefault("auth.jwks_url", "https://www.googleapis.com/service_accounts/v1/jwk/securetoken@system.gserviceaccount.com")
	viper.SetDefault("auth.jwks_cache_ttl", 1*time.Hour)
	viper.SetDefault("auth.dev_enabled", false)
	viper.SetDefault("auth.dev_token", "dev-token")

	// Rate limiting defaults
	viper.SetDefault("rate_limiting.enabled", true)
	viper.SetDefault("rate_limiting.endpoints", map[string]int{
		"chat":    30,
		"script":  10,
		"studio":  10,
		"default": 120,
	})

	// Response cache defaults
	viper.SetDefault("cache.enabled", true)
	viper.SetDefault("cache.max_size_mb", 64)
	viper.SetDefault("cache.script_ttl", 1*time.Hour)

	// Security defaults
	viper.SetDefault("security.enable_cors", true)
	viper.SetDefault("security.cors_origins", []string{"*"})
	viper.SetDefault("security.cors_methods", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"})
	viper.SetDefault("security.cors_headers", []string{"Content-Type", "Authorization", "X-Request-ID"})
	viper.SetDefault("security.enable_request_id", true)
	viper.SetDefault("security.enable_recovery", true)

	// Logging defaults
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")
	viper.SetDefault("logging.enable_caller", false)
	viper.SetDefault("logging.enable_stacktrace", true)
}
