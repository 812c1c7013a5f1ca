package config

import (
	"strings"

	"github.com/spf13/viper"
)

/**
 * Logging configuration
 * @property {string} level - Log level (debug/info/warn/error)
 * @property {string} path - Log file path, "console" or empty for stdout
 */
type LogConfig struct {
	Level string `mapstructure:"level"`
	Path  string `mapstructure:"path"`
}

/**
 * Status server configuration
 * @property {string} address - Listening address (e.g. "127.0.0.1:9090"), empty disables the server
 */
type StatusConfig struct {
	Address string `mapstructure:"address"`
}

/**
 * Launcher settings, resolved from flags, LAUNCHER_* environment variables and defaults
 * @property {string} configFile - Path of the server configuration document
 * @property {string} baseDir - Base directory of the directory layout
 */
type AppConfig struct {
	ConfigFile string       `mapstructure:"config"`
	BaseDir    string       `mapstructure:"base_dir"`
	Log        LogConfig    `mapstructure:"log"`
	Status     StatusConfig `mapstructure:"status"`
}

const (
	DefaultConfigFile = "config.json"
	EnvPrefix         = "LAUNCHER"
)

var Config AppConfig

/**
 * Register defaults and environment binding on a viper instance
 * @param {*viper.Viper} v - Viper instance that flags are (or will be) bound to
 * @description
 * - Every key gets a default so AutomaticEnv can resolve it during Unmarshal
 * - "log.level" maps to LAUNCHER_LOG_LEVEL, "status.address" to LAUNCHER_STATUS_ADDRESS
 */
func SetupSettings(v *viper.Viper) {
	v.SetDefault("config", DefaultConfigFile)
	v.SetDefault("base_dir", ".")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.path", "console")
	v.SetDefault("status.address", "")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

/**
 * Resolve launcher settings
 * @param {*viper.Viper} v - Viper instance prepared with SetupSettings
 * @returns {*AppConfig} Resolved settings, also stored in Config
 */
func LoadSettings(v *viper.Viper) (*AppConfig, error) {
	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	collectConfig(&cfg)
	Config = cfg
	return &cfg, nil
}

func collectConfig(cfg *AppConfig) *AppConfig {
	if cfg.ConfigFile == "" {
		cfg.ConfigFile = DefaultConfigFile
	}
	if cfg.BaseDir == "" {
		cfg.BaseDir = "."
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	return cfg
}
