package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// this is a pointer so that if someone attempts to use it before loading it will
// panic and force them to load it first.
// it is also private so that it cannot be modified after loading.
var _loaded *Config

// Config is the main configuration structure
type Config struct {
	Common Common `yaml:"common"`
}

// Load loads the configuration following proper precedence: defaults → config file → environment variables.
// The merged result is validated; on failure the defaults stay loaded and the error is returned.
func Load() error {
	LoadDefault()

	configFile := os.Getenv("ACCOUNTS_CONFIG_FILE")
	if configFile == "" {
		configFile = "accounts.yaml"
	}

	log.Printf("Attempting to load config file: %s", configFile)

	if err := LoadFromFile(configFile); err != nil {
		log.Printf("Failed to load config file: %v, using defaults", err)
	} else {
		log.Printf("Successfully loaded config from file: %s", configFile)
	}

	// environment variables have the highest priority
	ApplyEnvOverrides()

	if err := validateLoaded(); err != nil {
		return err
	}

	log.Printf("Final config - HTTP: %s:%d, log level: %s",
		_loaded.Common.Http.Host,
		_loaded.Common.Http.Port,
		_loaded.Common.Log.Level)
	return nil
}

func LoadDefault() {
	config := defaultConfig()
	_loaded = &config
}

// LoadFromFile loads configuration from a YAML file, merged over the defaults
func LoadFromFile(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := defaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config file: %w", err)
	}

	_loaded = &cfg
	return nil
}

// LoadFromEnv loads the defaults and applies environment variable overrides only
func LoadFromEnv() error {
	LoadDefault()
	ApplyEnvOverrides()
	return validateLoaded()
}

// validateLoaded checks the loaded config and falls back to the defaults when it is invalid
func validateLoaded() error {
	if err := _loaded.Validate(); err != nil {
		LoadDefault()
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// set sane defaults for all of the config options. when loading the config from
// the file, any options that are not set will be set to these defaults.
func defaultConfig() Config {
	return Config{
		Common: Common{
			Log: logConfig{
				Level:  "info",
				Format: "json",
			},
			Http: httpConfig{
				Host:            "0.0.0.0",
				Port:            8080,
				MaxRequestSize:  1048576,
				ShutdownTimeout: 30,
			},
			Cors: corsConfig{
				AllowedOrigins: []string{"*"},
			},
		},
	}
}

type Common struct {
	Log  logConfig  `yaml:"log"`
	Http httpConfig `yaml:"http"`
	Cors corsConfig `yaml:"cors"`
}

type logConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn or error
	Format string `yaml:"format"` // "json" or "console"
}

type httpConfig struct {
	Host            string `yaml:"host"`
	Port            int    `yaml:"port"`
	MaxRequestSize  int64  `yaml:"max_request_size"`
	ShutdownTimeout int    `yaml:"shutdown_timeout"` // seconds
}

// Addr returns the listen address of the HTTP server
func (c httpConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type corsConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// AllowAll reports whether every origin is allowed
func (c corsConfig) AllowAll() bool {
	for _, origin := range c.AllowedOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

// Validate checks values that would stop the server from starting
func (c *Config) Validate() error {
	switch c.Common.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error: %q", c.Common.Log.Level)
	}
	if c.Common.Log.Format != "json" && c.Common.Log.Format != "console" {
		return fmt.Errorf("log.format must be json or console: %q", c.Common.Log.Format)
	}
	if c.Common.Http.Port <= 0 || c.Common.Http.Port > 65535 {
		return fmt.Errorf("http.port out of range: %d", c.Common.Http.Port)
	}
	if c.Common.Http.MaxRequestSize <= 0 {
		return fmt.Errorf("http.max_request_size must be positive")
	}
	if len(c.Common.Cors.AllowedOrigins) == 0 {
		return fmt.Errorf("cors.allowed_origins must not be empty")
	}
	for _, origin := range c.Common.Cors.AllowedOrigins {
		if err := validateOrigin(origin); err != nil {
			return err
		}
	}
	return nil
}

// validateOrigin accepts "*" or an absolute http(s) origin
func validateOrigin(origin string) error {
	if origin == "*" {
		return nil
	}
	u, err := url.Parse(origin)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("cors.allowed_origins: %q must be \"*\" or an http:// or https:// origin", origin)
	}
	return nil
}

// there should be a getter for each top level field in the config struct.
// these getters will panic if the config has not been loaded.

func Logger() logConfig {
	if _loaded == nil {
		panic("config not loaded - call Load() first")
	}
	return _loaded.Common.Log
}

func Http() httpConfig {
	if _loaded == nil {
		panic("config not loaded - call Load() first")
	}
	return _loaded.Common.Http
}

func Cors() corsConfig {
	if _loaded == nil {
		panic("config not loaded - call Load() first")
	}
	return _loaded.Common.Cors
}

func Get() *Config {
	if _loaded == nil {
		panic("config not loaded - call Load() first")
	}
	return _loaded
}

func ApplyEnvOverrides() {
	if _loaded == nil {
		return
	}

	if logLevel := os.Getenv("ACCOUNTS_LOG_LEVEL"); logLevel != "" {
		_loaded.Common.Log.Level = logLevel
	}
	if logFormat := os.Getenv("ACCOUNTS_LOG_FORMAT"); logFormat != "" {
		_loaded.Common.Log.Format = logFormat
	}

	if httpHost := os.Getenv("ACCOUNTS_HTTP_HOST"); httpHost != "" {
		_loaded.Common.Http.Host = httpHost
	}
	if httpPort := os.Getenv("ACCOUNTS_HTTP_PORT"); httpPort != "" {
		if port, err := strconv.Atoi(httpPort); err == nil {
			_loaded.Common.Http.Port = port
		}
	}
	if maxSize := os.Getenv("ACCOUNTS_HTTP_MAX_REQUEST_SIZE"); maxSize != "" {
		if size, err := strconv.ParseInt(maxSize, 10, 64); err == nil && size > 0 {
			_loaded.Common.Http.MaxRequestSize = size
		}
	}

	if origins := os.Getenv("ACCOUNTS_CORS_ALLOWED_ORIGINS"); origins != "" {
		var allowed []string
		for _, origin := range strings.Split(origins, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				allowed = append(allowed, origin)
			}
		}
		if len(allowed) > 0 {
			_loaded.Common.Cors.AllowedOrigins = allowed
		}
	}
}
