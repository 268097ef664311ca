package config

import "time"

// Config represents the complete application configuration
type Config struct {
	Environment  string          `mapstructure:"environment"`
	Server       ServerConfig    `mapstructure:"server"`
	Database     DatabaseConfig  `mapstructure:"database"`
	LLM          LLMConfig       `mapstructure:"llm"`
	Speech       SpeechConfig    `mapstructure:"speech"`
	Storage      StorageConfig   `mapstructure:"storage"`
	Auth         AuthConfig      `mapstructure:"auth"`
	RateLimiting RateLimitConfig `mapstructure:"rate_limiting"`
	Cache        CacheConfig     `mapstructure:"cache"`
	Security     SecurityConfig  `mapstructure:"security"`
	Logging      LoggingConfig   `mapstructure:"logging"`
}

// IsProduction reports whether the service runs with production error masking
func (c *Config) IsProduction() bool {
	return isProductionEnv(c.Environment)
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxHeaderBytes  int           `mapstructure:"max_header_bytes"`
	MaxBodyBytes    int64         `mapstructure:"max_body_bytes"`
}

// DatabaseConfig contains database settings.
// URL takes precedence over Path and selects the postgres driver.
type DatabaseConfig struct {
	URL                   string        `mapstructure:"url"`
	Path                  string        `mapstructure:"path"`
	MaxConnections        int           `mapstructure:"max_connections"`
	MaxIdleConnections    int           `mapstructure:"max_idle_connections"`
	ConnectionMaxLifetime time.Duration `mapstructure:"connection_max_lifetime"`
	LogQueries            bool          `mapstructure:"log_queries"`
}

// Driver names the database driver the settings select
func (c DatabaseConfig) Driver() string {
	if c.URL != "" {
		return "postgres"
	}
	return "sqlite"
}

// LLMConfig contains Azure OpenAI settings
type LLMConfig struct {
	APIKey     string        `mapstructure:"api_key"`
	Endpoint   string        `mapstructure:"endpoint"`
	Deployment string        `mapstructure:"deployment"`
	APIVersion string        `mapstructure:"api_version"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// SpeechConfig contains Azure Speech settings
type SpeechConfig struct {
	Key          string        `mapstructure:"key"`
	Region       string        `mapstructure:"region"`
	OutputFormat string        `mapstructure:"output_format"`
	UserAgent    string        `mapstructure:"user_agent"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

// StorageConfig contains Azure Blob Storage settings
type StorageConfig struct {
	ConnectionString string        `mapstructure:"connection_string"`
	Container        string        `mapstructure:"container"`
	SASExpiry        time.Duration `mapstructure:"sas_expiry"`
}

// AuthConfig contains identity verification settings
type AuthConfig struct {
	FirebaseProjectID string        `mapstructure:"firebase_project_id"`
	JWKSURL           string        `mapstructure:"jwks_url"`
	JWKSCacheTTL      time.Duration `mapstructure:"jwks_cache_ttl"`
	DevEnabled        bool          `mapstructure:"dev_enabled"`
	DevToken          string        `mapstructure:"dev_token"`
}

// RateLimitConfig contains rate limiting settings, in requests per minute per client
type RateLimitConfig struct {
	Enabled   bool           `mapstructure:"enabled"`
	Endpoints map[string]int `mapstructure:"endpoints"`
}

// CacheConfig contains response cache settings
type CacheConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	MaxSizeMB int64         `mapstructure:"max_size_mb"`
	ScriptTTL time.Duration `mapstructure:"script_ttl"`
}

// SecurityConfig contains security settings
type SecurityConfig struct {
	EnableCORS      bool     `mapstructure:"enable_cors"`
	CORSOrigins     []string `mapstructure:"cors_origins"`
	CORSMethods     []string `mapstructure:"cors_methods"`
	CORSHeaders     []string `mapstructure:"cors_headers"`
	EnableRequestID bool     `mapstructure:"enable_request_id"`
	EnableRecovery  bool     `mapstructure:"enable_recovery"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level            string `mapstructure:"level"`
	Format           string `mapstructure:"format"`
	EnableCaller     bool   `mapstructure:"enable_caller"`
	EnableStacktrace bool   `mapstructure:"enable_stacktrace"`
}
