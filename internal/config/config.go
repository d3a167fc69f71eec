package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Input     InputConfig     `yaml:"input" envconfig:"INPUT"`
	Output    OutputConfig    `yaml:"output" envconfig:"OUTPUT"`
	Narrative NarrativeConfig `yaml:"narrative" envconfig:"NARRATIVE"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
}

// InputConfig locates the source report workbook
type InputConfig struct {
	WorkbookPath string `yaml:"workbook_path" envconfig:"WORKBOOK_PATH" validate:"required"`
	// Sheet overrides the default of processing the first sheet in the workbook
	Sheet string `yaml:"sheet" envconfig:"SHEET"`
}

// OutputConfig locates the annotated output workbook
type OutputConfig struct {
	WorkbookPath string `yaml:"workbook_path" envconfig:"WORKBOOK_PATH" validate:"required"`
}

// NarrativeConfig configures the text-generation service used for
// per-section executive summaries
type NarrativeConfig struct {
	APIKey      string  `yaml:"api_key" envconfig:"API_KEY"`
	Model       string  `yaml:"model" envconfig:"MODEL"`
	Temperature float64 `yaml:"temperature" envconfig:"TEMPERATURE" validate:"gte=0,lte=2"`
	// Disabled skips the remote service entirely and uses the deterministic
	// fallback summaries; useful for offline runs
	Disabled bool `yaml:"disabled" envconfig:"DISABLED"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Format   string `yaml:"format" envconfig:"FORMAT"`
	Output   string `yaml:"output" envconfig:"OUTPUT"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// Load loads configuration from environment variables and config file
func Load() (*Config, error) {
	return LoadFrom(getConfigFilePath())
}

// LoadFrom loads configuration from the given YAML file path merged with
// environment variables; env vars take precedence
func LoadFrom(configFile string) (*Config, error) {
	var cfg Config

	if configFile != "" {
		if _, err := os.Stat(configFile); err == nil {
			fileConfig, err := loadFromFile(configFile)
			if err != nil {
				return nil, fmt.Errorf("failed to load config from file: %w", err)
			}
			cfg = *fileConfig
		}
	}

	// Environment overrides file values and fills defaults
	if err := envconfig.Process("TP", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile loads configuration from YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// applyDefaults fills values that neither the config file nor the
// environment provided
func (c *Config) applyDefaults() {
	if c.Narrative.Model == "" {
		c.Narrative.Model = "gemini-2.0-flash"
	}
	if c.Narrative.Temperature == 0 {
		c.Narrative.Temperature = 0.3
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "json"
	}
	if c.Logging.Output == "" {
		c.Logging.Output = "console"
	}
	if c.Logging.FilePath == "" {
		c.Logging.FilePath = "logs/trendreport.log"
	}
}

// Validate validates the configuration using struct tags plus the
// cross-field rules the tags can't express
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return err
	}

	if !c.Narrative.Disabled && c.Narrative.APIKey == "" {
		return fmt.Errorf("narrative api_key is required unless the narrative service is disabled")
	}

	return nil
}

// EnsureOutputDir creates the directory holding the output workbook
func (c *Config) EnsureOutputDir() error {
	dir := filepath.Dir(c.Output.WorkbookPath)
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0755)
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	// Check for config file in common locations
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Narrative: NarrativeConfig{
			Model:       "gemini-2.0-flash",
			Temperature: 0.3,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: "logs/trendreport.log",
		},
	}
}
