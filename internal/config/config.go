package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	BackendDeepSeek = "deepseek"
	BackendGemini   = "gemini"
)

// RequiredCredentials maps every backend to the environment variable holding its key.
// Startup fails when any of them is missing.
var RequiredCredentials = map[string]string{
	BackendDeepSeek: "DEEPSEEK_API_KEY",
	BackendGemini:   "GEMINI_API_KEY",
}

type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Server     ServerConfig     `mapstructure:"server"`
	Gateway    GatewayConfig    `mapstructure:"gateway"`
	Generation GenerationConfig `mapstructure:"generation"`
	Sandbox    SandboxConfig    `mapstructure:"sandbox"`
	CORS       CORSConfig       `mapstructure:"cors"`
	Log        LogConfig        `mapstructure:"log"`
	Session    SessionConfig    `mapstructure:"session"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Telemetry  TelemetryConfig  `mapstructure:"telemetry"`
}

type AppConfig struct {
	Name string `mapstructure:"name"`
	Env  string `mapstructure:"env"` // development | production
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	MaxHeaderBytes  int           `mapstructure:"max_header_bytes"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type GatewayConfig struct {
	Path             string        `mapstructure:"path"`
	HandshakeTimeout time.Duration `mapstructure:"handshake_timeout"`
	WriteWait        time.Duration `mapstructure:"write_wait"`
	PongWait         time.Duration `mapstructure:"pong_wait"`
	PingPeriod       time.Duration `mapstructure:"ping_period"`
	MaxMessageSize   int64         `mapstructure:"max_message_size"`
	QueueSize        int           `mapstructure:"queue_size"`
}

type GenerationConfig struct {
	Timeout      time.Duration            `mapstructure:"timeout"`
	SystemPrompt string                   `mapstructure:"system_prompt"`
	CacheTTL     time.Duration            `mapstructure:"cache_ttl"`
	Backends     map[string]BackendConfig `mapstructure:"backends"`
}

type BackendConfig struct {
	Provider     string  `mapstructure:"provider"` // openai | qwen | ark
	APIKey       string  `mapstructure:"api_key"`
	BaseURL      string  `mapstructure:"base_url"`
	Model        string  `mapstructure:"model"`
	MaxTokens    int     `mapstructure:"max_tokens"`
	Temperature  float32 `mapstructure:"temperature"`
	DebugRequest bool    `mapstructure:"debug_request"`
}

type SandboxConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	ExposedHeaders   []string `mapstructure:"exposed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

type SessionConfig struct {
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

type StorageConfig struct {
	Type      string `mapstructure:"type"` // memory | disk | sqlite
	DataDir   string `mapstructure:"data_dir"`
	CacheSize int    `mapstructure:"cache_size"`
	DSN       string `mapstructure:"dsn"`
}

type TelemetryConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	Dir            string        `mapstructure:"dir"`
	ServiceName    string        `mapstructure:"service_name"`
	MetricInterval time.Duration `mapstructure:"metric_interval"`
}

// ConfigurationError reports a missing or invalid setting. It is fatal at startup.
type ConfigurationError struct {
	Key    string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s %s", e.Key, e.Reason)
}

var cfg *Config

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "genesis")
	v.SetDefault("app.env", "production")

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 60*time.Second)
	v.SetDefault("server.write_timeout", 60*time.Second)
	v.SetDefault("server.max_header_bytes", 1<<20)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("gateway.path", "/ws")
	v.SetDefault("gateway.handshake_timeout", 2*time.Second)
	v.SetDefault("gateway.write_wait", 10*time.Second)
	v.SetDefault("gateway.pong_wait", 60*time.Second)
	v.SetDefault("gateway.ping_period", 54*time.Second)
	v.SetDefault("gateway.max_message_size", 64*1024)
	v.SetDefault("gateway.queue_size", 16)

	v.SetDefault("generation.timeout", 30*time.Second)
	v.SetDefault("generation.cache_ttl", time.Duration(0))
	v.SetDefault("generation.backends.deepseek.provider", "openai")
	v.SetDefault("generation.backends.deepseek.base_url", "https://api.deepseek.com/v1")
	v.SetDefault("generation.backends.deepseek.model", "deepseek-coder")
	v.SetDefault("generation.backends.deepseek.max_tokens", 4000)
	v.SetDefault("generation.backends.deepseek.temperature", 0.2)
	v.SetDefault("generation.backends.deepseek.api_key", "")
	v.SetDefault("generation.backends.gemini.provider", "openai")
	v.SetDefault("generation.backends.gemini.base_url", "https://generativelanguage.googleapis.com/v1beta/openai/")
	v.SetDefault("generation.backends.gemini.model", "gemini-1.5-flash")
	v.SetDefault("generation.backends.gemini.max_tokens", 4000)
	v.SetDefault("generation.backends.gemini.temperature", 0.2)
	v.SetDefault("generation.backends.gemini.api_key", "")

	v.SetDefault("sandbox.timeout", 2*time.Second)

	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "DELETE", "OPTIONS"})
	v.SetDefault("cors.allowed_headers", []string{"Origin", "Content-Type", "Accept"})
	v.SetDefault("cors.max_age", 3600)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 28)
	v.SetDefault("log.compress", true)

	v.SetDefault("session.ttl", 24*time.Hour)
	v.SetDefault("session.cleanup_interval", 10*time.Minute)

	v.SetDefault("storage.type", "memory")
	v.SetDefault("storage.data_dir", "./data")
	v.SetDefault("storage.cache_size", 100)
	v.SetDefault("storage.dsn", "./data/genesis.db")

	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.dir", "logs")
	v.SetDefault("telemetry.service_name", "genesis")
	v.SetDefault("telemetry.metric_interval", 10*time.Second)
}

// Load reads the YAML file at configPath (optional when it does not exist), then
// environment variables prefixed with GENESIS_, then the well-known credential variables.
func Load(configPath string) (*Config, error) {
	// A missing .env is normal outside development.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("GENESIS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, err
			}
		}
	}

	loaded := &Config{}
	if err := v.Unmarshal(loaded); err != nil {
		return nil, err
	}

	// Config file wins; the credential variables fill the gaps.
	for name, env := range RequiredCredentials {
		backend := loaded.Generation.Backends[name]
		if backend.APIKey == "" {
			backend.APIKey = os.Getenv(env)
		}
		if loaded.Generation.Backends == nil {
			loaded.Generation.Backends = make(map[string]BackendConfig)
		}
		loaded.Generation.Backends[name] = backend
	}

	cfg = loaded
	return cfg, nil
}

// Validate enforces the startup contract: both credentials present and sane bounds.
func (c *Config) Validate() error {
	for name, env := range RequiredCredentials {
		if c.Generation.Backends[name].APIKey == "" {
			return &ConfigurationError{Key: env, Reason: "is not set"}
		}
	}
	if c.Server.Port <= 0 {
		return &ConfigurationError{Key: "server.port", Reason: "must be positive"}
	}
	if c.Gateway.HandshakeTimeout <= 0 {
		return &ConfigurationError{Key: "gateway.handshake_timeout", Reason: "must be positive"}
	}
	if c.Generation.Timeout <= 0 {
		return &ConfigurationError{Key: "generation.timeout", Reason: "must be positive"}
	}
	switch c.Storage.Type {
	case "memory", "disk", "sqlite":
	default:
		return &ConfigurationError{Key: "storage.type", Reason: fmt.Sprintf("unsupported value %q", c.Storage.Type)}
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

func Get() *Config {
	return cfg
}
