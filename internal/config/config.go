// Package config manages environment variables.
//
// It reads variables from the process environment (and a `.env` file when
// one exists), loads them into structured Go types, and validates them so
// the service fails fast on bad configuration.
//
// Responsibilities:
//   - Load environment variables (optionally from a `.env` file).
//   - Map env vars into a structured Go config (structs).
//   - Provide sane defaults for every block.
//   - Validate values so the app fails fast on bad config.
package config

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/go-playground/validator/v10"
	// Side-effect import: if a `.env` file exists, it is loaded into the
	// process env before anything below reads it.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

/*
	Env vars are read using the prefix FIB_. Keys are lowercased, the prefix
	is removed, and a double underscore separates nesting levels:

	  FIB_SERVER__PORT                      -> server.port
	  FIB_OBSERVABILITY__LOGGING__LEVEL     -> observability.logging.level
	  FIB_FIBONACCI__MAX_INDEX              -> fibonacci.max_index

	Single underscores stay part of the key name.
*/

// EnvPrefix is the prefix every configuration variable must carry.
const EnvPrefix = "FIB_"

// ServiceName tags logs and New Relic data.
const ServiceName = "fibonacci-api"

// Config is the root configuration object for the application.
type Config struct {
	Primary       Primary             `koanf:"primary" validate:"required"`
	Server        ServerConfig        `koanf:"server" validate:"required"`
	Fibonacci     FibonacciConfig     `koanf:"fibonacci" validate:"required"`
	Observability ObservabilityConfig `koanf:"observability" validate:"required"`
}

// Primary holds top-level information about the runtime environment.
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig groups settings for the HTTP server runtime.
//
// Timeouts are whole seconds.
type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required,numeric"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"required,min=1"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"required,min=1"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"required,min=1"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" validate:"required,min=1"`

	// RateLimit is the sustained number of requests per second allowed per
	// client IP. Zero disables rate limiting.
	RateLimit      float64 `koanf:"rate_limit" validate:"min=0"`
	RateLimitBurst int     `koanf:"rate_limit_burst" validate:"min=0"`
}

// FibonacciConfig bounds the work a single process will take on.
type FibonacciConfig struct {
	// MaxIndex is the largest index the service will compute. Zero means
	// no limit beyond what fits in a uint64.
	MaxIndex uint64 `koanf:"max_index"`

	// MaxConcurrent is the number of computations that may run at once.
	MaxConcurrent int `koanf:"max_concurrent" validate:"required,min=1"`
}

// DefaultConfig returns the configuration used when no env vars are set.
func DefaultConfig() *Config {
	return &Config{
		Primary: Primary{
			Env: "development",
		},
		Server: ServerConfig{
			Port:               "8080",
			ReadTimeout:        30,
			WriteTimeout:       30,
			IdleTimeout:        60,
			CORSAllowedOrigins: []string{"*"},
			RateLimit:          0,
			RateLimitBurst:     20,
		},
		Fibonacci: FibonacciConfig{
			MaxIndex:      0,
			MaxConcurrent: 2 * runtime.GOMAXPROCS(0),
		},
		Observability: *DefaultObservabilityConfig(),
	}
}

// LoadConfig loads configuration from FIB_ environment variables on top of
// DefaultConfig, validates it and returns the result.
//
// Behavior summary:
//   - Loads env vars with prefix FIB_
//   - Converts env keys into koanf keys using "." nesting
//   - Unmarshals into a Config pre-populated with defaults
//   - Forces observability service name + environment
//   - Validates struct tags, then observability rules
func LoadConfig() (*Config, error) {
	k := koanf.New(".")

	err := k.Load(env.ProviderWithValue(EnvPrefix, ".", func(s, value string) (string, interface{}) {
		key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		key = strings.ReplaceAll(key, "__", ".")

		if listKeys[key] {
			return key, splitList(value)
		}
		return key, value
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("could not load env variables: %w", err)
	}

	mainConfig := DefaultConfig()

	// Keys absent from the environment keep their default values.
	if err := k.Unmarshal("", mainConfig); err != nil {
		return nil, fmt.Errorf("could not unmarshal config: %w", err)
	}

	// Service name and environment are not user-configurable; they always
	// follow the binary and primary.env so telemetry stays consistent.
	mainConfig.Observability.ServiceName = ServiceName
	mainConfig.Observability.Environment = mainConfig.Primary.Env

	if err := mainConfig.Validate(); err != nil {
		return nil, err
	}

	return mainConfig, nil
}

// listKeys are the keys whose env value is a comma-separated list.
var listKeys = map[string]bool{
	"server.cors_allowed_origins": true,
}

func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// Validate checks struct tags on the whole config and then the
// observability rules that tags cannot express.
func (c *Config) Validate() error {
	validate := validator.New()

	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if err := c.Observability.Validate(); err != nil {
		return fmt.Errorf("invalid observability config: %w", err)
	}

	return nil
}
