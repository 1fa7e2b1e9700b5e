// Package config loads the rpmsync settings.
//
// Settings come, by order of precedence, from command line flags, RPMSYNC_*
// environment variables, an rpmsync.yaml file and defaults.
package config

import (
	"fmt"
	"strings"

	"github.com/oneconcern/rpmsync/pkg/dlogger"
	"github.com/oneconcern/rpmsync/pkg/stages"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"
)

// Keys of the settings
const (
	KeyStoreDir       = "store-dir"
	KeyPostgresDSN    = "postgres-dsn"
	KeyPostgresSchema = "postgres-schema"
	KeyLogLevel       = "log-level"
	KeyBatchSize      = "batch-size"
	KeyMetricsFile    = "metrics-file"
	KeyRoot           = "root"
	KeyJaegerAgent    = "jaeger-agent"

	envPrefix = "RPMSYNC"
	fileName  = "rpmsync"
)

// Keys lists all settings
var Keys = []string{KeyStoreDir, KeyPostgresDSN, KeyPostgresSchema, KeyLogLevel, KeyBatchSize, KeyMetricsFile, KeyRoot, KeyJaegerAgent}

// Config holds the rpmsync settings
type Config struct {
	// StoreDir is where the embedded database lives, unless PostgresDSN is set
	StoreDir       string `mapstructure:"store-dir" yaml:"store-dir"`
	PostgresDSN    string `mapstructure:"postgres-dsn" yaml:"postgres-dsn,omitempty"`
	PostgresSchema string `mapstructure:"postgres-schema" yaml:"postgres-schema,omitempty"`
	LogLevel       string `mapstructure:"log-level" yaml:"log-level"`
	BatchSize      int    `mapstructure:"batch-size" yaml:"batch-size"`
	MetricsFile    string `mapstructure:"metrics-file" yaml:"metrics-file,omitempty"`

	// Root of the local repository tree holding module documents and batches
	Root string `mapstructure:"root" yaml:"root,omitempty"`

	// JaegerAgent is the host:port of a jaeger agent. Tracing is off when empty.
	JaegerAgent string `mapstructure:"jaeger-agent" yaml:"jaeger-agent,omitempty"`
}

// SetDefaults registers the default settings
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyStoreDir, ".rpmsync")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyBatchSize, stages.DefaultBatchSize)
}

// BindFlags binds the command line flags named after a setting key
func BindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for _, key := range Keys {
		flag := flags.Lookup(key)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return err
		}
	}
	return nil
}

// Load reads the settings. An empty file means looking for rpmsync.yaml in
// the usual places; a missing file is not an error in that case.
func Load(v *viper.Viper, file string) (*Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	for _, key := range Keys {
		// keys without default are only seen by Unmarshal when bound
		_ = v.BindEnv(key)
	}

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", file, err)
		}
	} else {
		v.SetConfigName(fileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.rpmsync")
		v.AddConfigPath("/etc/rpmsync")
		if err := v.ReadInConfig(); err != nil {
			if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
				return nil, fmt.Errorf("reading config: %w", err)
			}
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate the settings
func (c *Config) Validate() error {
	if c.BatchSize <= 0 {
		return fmt.Errorf("batch size must be positive, got %d", c.BatchSize)
	}
	if c.PostgresDSN == "" && c.StoreDir == "" {
		return fmt.Errorf("either a store directory or a postgres connection string is required")
	}
	if !dlogger.ValidLevel(c.LogLevel) {
		return fmt.Errorf("invalid log level %q", c.LogLevel)
	}
	return nil
}

// YAML renders the settings as a config file
func (c *Config) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}
