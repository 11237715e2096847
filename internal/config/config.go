// Package config loads the application configuration for the ingestion
// server and the simulator CLI.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/AscenderGrey/EcomDashQ1BetaCohort/internal/session"
)

// Config is the top-level configuration.
type Config struct {
	Environment string          `mapstructure:"environment"`
	Server      ServerConfig    `mapstructure:"server"`
	Kafka       KafkaConfig     `mapstructure:"kafka"`
	Simulator   SimulatorConfig `mapstructure:"simulator"`
	Commerce    CommerceConfig  `mapstructure:"commerce"`
}

// ServerConfig holds ingestion HTTP server settings.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// KafkaConfig holds the optional event fan-out settings.
type KafkaConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Brokers      []string      `mapstructure:"brokers"`
	Topic        string        `mapstructure:"topic"`
	BatchSize    int           `mapstructure:"batch_size"`
	BatchTimeout time.Duration `mapstructure:"batch_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// SimulatorConfig holds session simulation settings.
type SimulatorConfig struct {
	TargetURL      string        `mapstructure:"target_url"`
	Sessions       int           `mapstructure:"sessions"`
	EventDelay     time.Duration `mapstructure:"event_delay"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	Seed           int64         `mapstructure:"seed"`
}

// CommerceConfig holds commerce data generation settings.
type CommerceConfig struct {
	ShopID    string `mapstructure:"shop_id"`
	Products  int    `mapstructure:"products"`
	Customers int    `mapstructure:"customers"`
	Orders    int    `mapstructure:"orders"`
}

// Load reads configuration from the optional YAML file at path, environment
// variables prefixed with SIMULATOR_, and built-in defaults, in that order of
// precedence (env over file over defaults).
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("SIMULATOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")

	v.SetDefault("server.port", 8000)
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 10*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.shutdown_timeout", 15*time.Second)

	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.brokers", []string{"localhost:9092"})
	v.SetDefault("kafka.topic", "analytics.events")
	v.SetDefault("kafka.batch_size", 100)
	v.SetDefault("kafka.batch_timeout", time.Second)
	v.SetDefault("kafka.write_timeout", 10*time.Second)

	v.SetDefault("simulator.target_url", "http://localhost:8000")
	v.SetDefault("simulator.sessions", 50)
	v.SetDefault("simulator.event_delay", session.DefaultEventDelay)
	v.SetDefault("simulator.request_timeout", 10*time.Second)
	v.SetDefault("simulator.seed", 0)

	v.SetDefault("commerce.shop_id", "demo-shop-id")
	v.SetDefault("commerce.products", 20)
	v.SetDefault("commerce.customers", 100)
	v.SetDefault("commerce.orders", 200)
}

// Validate checks the loaded configuration for unusable values.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config: invalid server port %d", c.Server.Port)
	}
	if c.Simulator.TargetURL == "" {
		return fmt.Errorf("config: simulator target URL is required")
	}
	if c.Simulator.Sessions < 0 {
		return fmt.Errorf("config: simulator sessions must be non-negative")
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("config: kafka enabled but no brokers configured")
	}
	return nil
}
