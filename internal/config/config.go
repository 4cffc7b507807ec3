package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"

	"github.com/garyjia/expense-audit/internal/audit"
)

// Config holds all application configuration
type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Audit  AuditConfig  `mapstructure:"audit"`
	Export ExportConfig `mapstructure:"export"`
	Logger LoggerConfig `mapstructure:"logger"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host          string        `mapstructure:"host"`
	Port          int           `mapstructure:"port"`
	ReadTimeout   time.Duration `mapstructure:"read_timeout"`
	WriteTimeout  time.Duration `mapstructure:"write_timeout"`
	MaxUploadSize int64         `mapstructure:"max_upload_size"`
}

// AuditConfig holds the rule thresholds and reference data locations
type AuditConfig struct {
	HighAmountThreshold float64           `mapstructure:"high_amount_threshold"`
	WeekendDays         []string          `mapstructure:"weekend_days"`
	VendorListPath      string            `mapstructure:"vendor_list_path"`
	GSTRateByCategory   map[string]string `mapstructure:"gst_rate_by_category"`
	TopVendors          int               `mapstructure:"top_vendors"`
}

// ExportConfig holds CSV export configuration
type ExportConfig struct {
	OutputDir     string `mapstructure:"output_dir"`
	WriteSideFile bool   `mapstructure:"write_side_file"`
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"`
}

// Load loads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")
	viper.AutomaticEnv()

	// Set defaults
	setDefaults()

	// Read config file; a missing file just means defaults apply
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Override with environment variables
	bindEnvVars()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", 30*time.Second)
	viper.SetDefault("server.write_timeout", 30*time.Second)
	viper.SetDefault("server.max_upload_size", int64(16<<20))

	// Audit rule defaults
	defaults := audit.DefaultRuleConfig()
	viper.SetDefault("audit.high_amount_threshold", defaults.HighAmountThreshold)
	viper.SetDefault("audit.weekend_days", defaults.WeekendDays)
	viper.SetDefault("audit.vendor_list_path", "vendor_master_list.csv")
	viper.SetDefault("audit.gst_rate_by_category", defaults.GSTRateByCategory)
	viper.SetDefault("audit.top_vendors", 5)

	// Export defaults
	viper.SetDefault("export.output_dir", "output")
	viper.SetDefault("export.write_side_file", true)

	// Logger defaults
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.output_path", "stdout")
	viper.SetDefault("logger.format", "json")
}

// bindEnvVars binds environment variables to configuration
func bindEnvVars() {
	viper.BindEnv("server.port", "SERVER_PORT")
	viper.BindEnv("audit.high_amount_threshold", "AUDIT_HIGH_AMOUNT_THRESHOLD")
	viper.BindEnv("audit.vendor_list_path", "AUDIT_VENDOR_LIST_PATH")
	viper.BindEnv("export.output_dir", "EXPORT_OUTPUT_DIR")
	viper.BindEnv("logger.level", "LOG_LEVEL")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.MaxUploadSize <= 0 {
		return fmt.Errorf("server.max_upload_size must be positive")
	}
	if c.Audit.VendorListPath == "" {
		return fmt.Errorf("audit.vendor_list_path is required")
	}
	if c.Audit.TopVendors <= 0 {
		return fmt.Errorf("audit.top_vendors must be positive, got %d", c.Audit.TopVendors)
	}
	if err := c.RuleConfig().Validate(); err != nil {
		return err
	}
	return nil
}

// RuleConfig converts the audit section into the engine's rule configuration.
func (c *Config) RuleConfig() audit.RuleConfig {
	return audit.RuleConfig{
		HighAmountThreshold: c.Audit.HighAmountThreshold,
		WeekendDays:         c.Audit.WeekendDays,
		GSTRateByCategory:   c.Audit.GSTRateByCategory,
	}
}
