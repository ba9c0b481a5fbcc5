package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// Stock-number label variants
	LabelNSN = "NSN"
	LabelSN  = "SN"

	// Default values
	DefaultOutputPath  = "DD1750_filled.pdf"
	DefaultProfile     = "dd1750"
	DefaultLogLevel    = "info"
	DefaultMaxFileSize = 100 * 1024 * 1024 // 100MB
)

// Config holds all configuration for the DD1750 generator.
type Config struct {
	// Conversion inputs
	BOMPath      string
	TemplatePath string
	OutputPath   string

	// StartPage is the 0-based BOM page the parser starts at, used to
	// skip leading cover or summary pages.
	StartPage int

	// Rendering configuration
	StockLabel string // "NSN" or "SN"
	Profile    string // template profile name

	// Application configuration
	Version     string
	ServerName  string
	LogLevel    string
	MaxFileSize int64 // Maximum input PDF size in bytes
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		OutputPath:  DefaultOutputPath,
		StartPage:   0,
		StockLabel:  LabelNSN,
		Profile:     DefaultProfile,
		Version:     "1.0.0",
		ServerName:  "dd1750",
		LogLevel:    DefaultLogLevel,
		MaxFileSize: DefaultMaxFileSize,
	}
}

// LoadFromFlags parses command line flags and returns a configuration.
func LoadFromFlags() (*Config, error) {
	cfg := DefaultConfig()

	setupViperEnvironment(cfg)
	defineCommandLineFlags(cfg)
	bindFlagsToViper()
	setupUsageMessage()

	pflag.Parse()

	populateConfigFromViper(cfg)

	cfg.BOMPath = expandPath(cfg.BOMPath)
	cfg.TemplatePath = expandPath(cfg.TemplatePath)
	cfg.OutputPath = expandPath(cfg.OutputPath)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func expandPath(path string) string {
	if path == "" {
		return path
	}
	if expanded, err := filepath.Abs(path); err == nil {
		return expanded
	}
	return path
}

// setupViperEnvironment configures viper with environment variables and defaults.
func setupViperEnvironment(cfg *Config) {
	viper.SetEnvPrefix("DD1750")
	viper.AutomaticEnv()

	viper.SetDefault("bom", cfg.BOMPath)
	viper.SetDefault("template", cfg.TemplatePath)
	viper.SetDefault("out", cfg.OutputPath)
	viper.SetDefault("startpage", cfg.StartPage)
	viper.SetDefault("label", cfg.StockLabel)
	viper.SetDefault("profile", cfg.Profile)
	viper.SetDefault("loglevel", cfg.LogLevel)
	viper.SetDefault("maxfilesize", cfg.MaxFileSize)
}

// defineCommandLineFlags sets up all command line flags.
func defineCommandLineFlags(cfg *Config) {
	pflag.String("bom", cfg.BOMPath, "Path to the BOM PDF (must contain extractable text)")
	pflag.String("template", cfg.TemplatePath, "Path to the blank DD1750 template PDF")
	pflag.String("out", cfg.OutputPath, "Output path for the filled DD1750 PDF")
	pflag.Int("startpage", cfg.StartPage, "0-based BOM page to start parsing at")
	pflag.String("label", cfg.StockLabel, "Stock number label: 'NSN' or 'SN'")
	pflag.String("profile", cfg.Profile, "Template profile name")
	pflag.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
	pflag.Int64("maxfilesize", cfg.MaxFileSize, "Maximum input PDF size in bytes")
}

// bindFlagsToViper binds command line flags to viper configuration.
func bindFlagsToViper() {
	_ = viper.BindPFlag("bom", pflag.Lookup("bom"))
	_ = viper.BindPFlag("template", pflag.Lookup("template"))
	_ = viper.BindPFlag("out", pflag.Lookup("out"))
	_ = viper.BindPFlag("startpage", pflag.Lookup("startpage"))
	_ = viper.BindPFlag("label", pflag.Lookup("label"))
	_ = viper.BindPFlag("profile", pflag.Lookup("profile"))
	_ = viper.BindPFlag("loglevel", pflag.Lookup("loglevel"))
	_ = viper.BindPFlag("maxfilesize", pflag.Lookup("maxfilesize"))
}

// setupUsageMessage configures the custom usage message.
func setupUsageMessage() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nDD1750 Generator - fills a DD1750 packing list from a BOM PDF\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s --bom=bom.pdf --template=dd1750.pdf --out=filled.pdf\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --bom=bom.pdf --template=dd1750.pdf --startpage=2 --label=SN\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  DD1750_BOM          BOM PDF path\n")
		fmt.Fprintf(os.Stderr, "  DD1750_TEMPLATE     Template PDF path\n")
		fmt.Fprintf(os.Stderr, "  DD1750_OUT          Output PDF path\n")
		fmt.Fprintf(os.Stderr, "  DD1750_STARTPAGE    0-based start page\n")
		fmt.Fprintf(os.Stderr, "  DD1750_LABEL        Stock number label\n")
		fmt.Fprintf(os.Stderr, "  DD1750_PROFILE      Template profile\n")
		fmt.Fprintf(os.Stderr, "  DD1750_LOGLEVEL     Log level\n")
		fmt.Fprintf(os.Stderr, "  DD1750_MAXFILESIZE  Maximum file size\n")
	}
}

// populateConfigFromViper fills the config struct with values from viper.
func populateConfigFromViper(cfg *Config) {
	cfg.BOMPath = viper.GetString("bom")
	cfg.TemplatePath = viper.GetString("template")
	cfg.OutputPath = viper.GetString("out")
	cfg.StartPage = viper.GetInt("startpage")
	cfg.StockLabel = viper.GetString("label")
	cfg.Profile = viper.GetString("profile")
	cfg.LogLevel = viper.GetString("loglevel")
	cfg.MaxFileSize = viper.GetInt64("maxfilesize")
}

// Validate checks if the configuration is valid. Existence of the input
// documents is checked per conversion, not here, so the MCP server can
// start before any documents exist.
func (c *Config) Validate() error {
	if c.StartPage < 0 {
		return errors.New("start page cannot be negative")
	}

	if c.StockLabel != LabelNSN && c.StockLabel != LabelSN {
		return fmt.Errorf("stock label must be %q or %q", LabelNSN, LabelSN)
	}

	if c.Profile == "" {
		return errors.New("template profile cannot be empty")
	}

	if c.MaxFileSize <= 0 {
		return errors.New("maximum file size must be positive")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	return nil
}

// IsDebug returns true if debug logging is enabled.
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// String returns a string representation of the configuration.
func (c *Config) String() string {
	return fmt.Sprintf("Config{BOM: %s, Template: %s, Out: %s, StartPage: %d, Label: %s, Profile: %s, LogLevel: %s, MaxFileSize: %d}",
		c.BOMPath, c.TemplatePath, c.OutputPath, c.StartPage, c.StockLabel, c.Profile, c.LogLevel, c.MaxFileSize)
}
