package config

import (
	"fmt"
	"os"

	"portfolio-simulator/src/models"

	"gopkg.in/yaml.v3"
)

// -----------------------------------------------------------------------------

// Config wraps models.MConfig and provides business logic methods
type Config struct {
	*models.MConfig
}

// -----------------------------------------------------------------------------

// NewConfig creates a new MConfig instance from YAML file
func NewConfig(configPath string) (*Config, error) {
	// 1. Read the YAML file content
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", configPath, err)
	}

	// 2. Unmarshal data into the models struct
	var modelConfig models.MConfig
	if err := yaml.Unmarshal(data, &modelConfig); err != nil {
		return nil, fmt.Errorf("failed to parse config from YAML: %w", err)
	}

	config := &Config{MConfig: &modelConfig}
	config.applyDefaults()

	// 3. Validate the loaded configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// -----------------------------------------------------------------------------

// applyDefaults fills the analysis tunables the YAML may omit.
// Bounds mirror the dashboard sliders of the original application.
func (c *Config) applyDefaults() {
	if c.Analysis.Simulations == (models.MBoundedInt{}) {
		c.Analysis.Simulations = models.MBoundedInt{Min: 500, Max: 5000, Default: 1000}
	}
	if c.Analysis.HorizonDays == (models.MBoundedInt{}) {
		c.Analysis.HorizonDays = models.MBoundedInt{Min: 30, Max: 504, Default: 252}
	}
	if c.Analysis.FrontierCandidates == 0 {
		c.Analysis.FrontierCandidates = 5000
	}
	if c.DataSource.LookbackDays == 0 {
		c.DataSource.LookbackDays = 730 // Two calendar years
	}
	if c.DataSource.CacheMaxSymbols == 0 {
		c.DataSource.CacheMaxSymbols = 256
	}
	if c.Storage.RetentionDays == 0 {
		c.Storage.RetentionDays = 90
	}
}

// -----------------------------------------------------------------------------

// Validate performs basic configuration validation
func (c *Config) Validate() error {
	// Validate App configuration (Flattened)
	if c.Name == "" {
		return fmt.Errorf("application name cannot be empty")
	}

	// Validate Server configuration (Flattened)
	if c.Host == "" {
		return fmt.Errorf("server host cannot be empty")
	}
	if c.Port <= 1024 || c.Port > 65535 {
		return fmt.Errorf("invalid server port number: %d (must be between 1025 and 65535)", c.Port)
	}

	// Validate Storage configuration
	if c.Storage.DBType == "" {
		return fmt.Errorf("database type cannot be empty")
	}
	if c.Storage.DBType == "sqlite" && c.Storage.DBPath == "" {
		return fmt.Errorf("database path cannot be empty for sqlite")
	}
	if c.Storage.RetentionDays <= 0 {
		return fmt.Errorf("retention days must be greater than 0")
	}

	// Validate Network configuration
	if c.Network.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be greater than 0")
	}
	if c.Network.MaxRetries < 0 {
		return fmt.Errorf("max retries cannot be negative")
	}
	if c.Network.ConcurrentRequests <= 0 {
		return fmt.Errorf("concurrent requests must be greater than 0")
	}

	// Validate DataSource configuration
	if c.DataSource.Provider == "" {
		return fmt.Errorf("data source provider cannot be empty")
	}
	if c.DataSource.LookbackDays <= 0 {
		return fmt.Errorf("lookback days must be greater than 0")
	}

	// Validate Analysis configuration
	if err := validateBounds("simulations", c.Analysis.Simulations); err != nil {
		return err
	}
	if err := validateBounds("horizon_days", c.Analysis.HorizonDays); err != nil {
		return err
	}
	if c.Analysis.FrontierCandidates <= 0 {
		return fmt.Errorf("frontier candidates must be greater than 0")
	}
	if c.Analysis.Workers < 0 {
		return fmt.Errorf("workers cannot be negative")
	}

	return nil
}

// -----------------------------------------------------------------------------

func validateBounds(name string, b models.MBoundedInt) error {
	if b.Min <= 0 || b.Max < b.Min {
		return fmt.Errorf("invalid %s bounds: min=%d max=%d", name, b.Min, b.Max)
	}
	if b.Default < b.Min || b.Default > b.Max {
		return fmt.Errorf("%s default %d outside [%d, %d]", name, b.Default, b.Min, b.Max)
	}
	return nil
}

// -----------------------------------------------------------------------------

// Save persists the current configuration to the specified YAML file path
func (c *Config) Save(configPath string) error {
	// 1. Marshal the struct to YAML
	data, err := yaml.Marshal(c.MConfig)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	// 2. Write to file (0644 permissions)
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config to file '%s': %w", configPath, err)
	}

	return nil
}
