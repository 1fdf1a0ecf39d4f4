// Package config loads simulation configuration from defaults, an
// optional YAML file, and environment variables, in that order of
// increasing precedence, mirroring the layered loader used elsewhere in
// the example pack.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/arkhadem/ramulator2/internal/constants"
)

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	// Level is the minimum log level to emit: debug, info, warn, error.
	Level string `mapstructure:"level" yaml:"level"`
	// JSON selects structured JSON output over the default text formatter.
	JSON bool `mapstructure:"json" yaml:"json"`
}

// MetricsConfig controls the optional Prometheus metrics endpoint.
type MetricsConfig struct {
	// Enabled starts an HTTP listener serving /metrics.
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
	// BindAddr is the listener address, e.g. ":9090".
	BindAddr string `mapstructure:"bind_addr" yaml:"bind_addr"`
}

// MemorySystemConfig controls the simulated memory system topology.
type MemorySystemConfig struct {
	// ChannelCount is the number of reference controllers to construct.
	ChannelCount int `mapstructure:"channel_count" yaml:"channel_count"`
	// ControllerDepth is each reference controller's in-flight command
	// capacity.
	ControllerDepth int `mapstructure:"controller_depth" yaml:"controller_depth"`
	// ControllerLatency is the number of ticks a controller holds a command
	// before retiring it.
	ControllerLatency int `mapstructure:"controller_latency" yaml:"controller_latency"`
	// QueueCapacity overrides the default ISR_SIZE host-queue bound; zero
	// means use the built-in default.
	QueueCapacity int `mapstructure:"queue_capacity" yaml:"queue_capacity"`
}

// Config is the root simulator configuration.
type Config struct {
	Logging      LoggingConfig      `mapstructure:"logging" yaml:"logging"`
	Metrics      MetricsConfig      `mapstructure:"metrics" yaml:"metrics"`
	MemorySystem MemorySystemConfig `mapstructure:"memory_system" yaml:"memory_system"`
}

// envPrefix namespaces environment variable overrides, e.g.
// AIMSIM_LOGGING_LEVEL=debug.
const envPrefix = "AIMSIM"

// Defaults returns a Config populated with the simulator's built-in
// defaults, used whenever no config file is found and as the base that a
// file or environment overrides layer on top of.
func Defaults() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level: "info",
			JSON:  false,
		},
		Metrics: MetricsConfig{
			Enabled:  false,
			BindAddr: constants.DefaultMetricsBindAddr,
		},
		MemorySystem: MemorySystemConfig{
			ChannelCount:      constants.DefaultChannelCount,
			ControllerDepth:   constants.DefaultControllerDepth,
			ControllerLatency: 1,
			QueueCapacity:     0,
		},
	}
}

// Load builds a Config from defaults, overridden by configPath (if
// non-empty and present) and by AIMSIM_* environment variables, in that
// order of increasing precedence.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setupViper(v, configPath)

	cfg := Defaults()
	bindDefaults(v, cfg)

	found, err := readConfigFile(v, configPath)
	if err != nil {
		return nil, err
	}
	if !found && configPath != "" {
		return nil, fmt.Errorf("config: file not found: %s", configPath)
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal: %w", err)
	}
	return cfg, nil
}

func setupViper(v *viper.Viper, configPath string) {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	}
}

// bindDefaults seeds viper with cfg's zero-override values so that
// Unmarshal produces them when neither a file nor the environment sets a
// given key.
func bindDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.json", cfg.Logging.JSON)
	v.SetDefault("metrics.enabled", cfg.Metrics.Enabled)
	v.SetDefault("metrics.bind_addr", cfg.Metrics.BindAddr)
	v.SetDefault("memory_system.channel_count", cfg.MemorySystem.ChannelCount)
	v.SetDefault("memory_system.controller_depth", cfg.MemorySystem.ControllerDepth)
	v.SetDefault("memory_system.controller_latency", cfg.MemorySystem.ControllerLatency)
	v.SetDefault("memory_system.queue_capacity", cfg.MemorySystem.QueueCapacity)
}

func readConfigFile(v *viper.Viper, configPath string) (bool, error) {
	if configPath == "" {
		return true, nil
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return false, nil
	}
	if err := v.ReadInConfig(); err != nil {
		return false, fmt.Errorf("config: failed to read %s: %w", configPath, err)
	}
	return true, nil
}
