// Package config loads the schemalive tool configuration from schemalive.yaml,
// SCHEMALIVE_* environment variables and a .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultConnection is the connection name given to DATABASE_URL
const DefaultConnection = "default"

// Inspectors and output formats accepted in the configuration
var (
	Inspectors    = []string{"native", "atlas"}
	OutputFormats = []string{"text", "markdown", "json", "yaml"}
)

// Config represents the schemalive configuration
type Config struct {
	Namespace     string            `mapstructure:"namespace"`
	Models        []string          `mapstructure:"models"`
	Inspector     string            `mapstructure:"inspector"`
	SchemaName    string            `mapstructure:"schema"`
	Connections   map[string]string `mapstructure:"connections"`
	Tables        []string          `mapstructure:"tables"`
	ExcludeTables []string          `mapstructure:"exclude_tables"`
	Output        OutputConfig      `mapstructure:"output"`
}

// OutputConfig represents output configuration
type OutputConfig struct {
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
	Dir    string `mapstructure:"dir"`
}

// Load loads the configuration. path is a config file, or a directory searched
// for schemalive.yaml / schemalive.yml; "" means the current directory. A .env
// file next to the configuration is loaded first without overriding the environment.
func Load(path string) (*Config, error) {
	if path == "" {
		path = "."
	}

	v := viper.New()

	v.SetDefault("namespace", "")
	v.SetDefault("models", []string{})
	v.SetDefault("inspector", "native")
	v.SetDefault("schema", "")
	v.SetDefault("output.format", "text")
	v.SetDefault("output.file", "")
	v.SetDefault("output.dir", "")

	dir := path
	info, err := os.Stat(path)
	switch {
	case err == nil && !info.IsDir():
		dir = filepath.Dir(path)
		v.SetConfigFile(path)
	case err == nil:
		v.SetConfigName("schemalive")
		v.SetConfigType("yaml")
		v.AddConfigPath(path)
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := loadDotEnv(dir); err != nil {
		return nil, err
	}

	v.SetEnvPrefix("SCHEMALIVE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if len(cfg.Connections) == 0 {
		if url := os.Getenv("DATABASE_URL"); url != "" {
			cfg.Connections = map[string]string{DefaultConnection: url}
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func loadDotEnv(dir string) error {
	err := godotenv.Load(filepath.Join(dir, ".env"))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}
	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if !slices.Contains(Inspectors, c.Inspector) {
		return fmt.Errorf("inspector must be one of %s, got: %s", strings.Join(Inspectors, ", "), c.Inspector)
	}
	if !slices.Contains(OutputFormats, c.Output.Format) {
		return fmt.Errorf("output.format must be one of %s, got: %s", strings.Join(OutputFormats, ", "), c.Output.Format)
	}
	if c.Output.File != "" && c.Output.Dir != "" {
		return fmt.Errorf("output.file and output.dir are mutually exclusive")
	}
	for name, url := range c.Connections {
		if url == "" {
			return fmt.Errorf("connection %s has no URL", name)
		}
	}
	return nil
}

// ConnectionNames returns the configured connection names in sorted order
func (c *Config) ConnectionNames() []string {
	names := make([]string, 0, len(c.Connections))
	for name := range c.Connections {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
