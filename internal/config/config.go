package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jengzang/valvecheck-backend-go/internal/analysis/slope"
	"github.com/jengzang/valvecheck-backend-go/internal/models"
)

// Config holds application configuration
type Config struct {
	Port               string
	DBPath             string
	JWTSecret          string
	TokenTTL           time.Duration
	AuthRequired       bool
	DefaultMachineType string
	RateLimit          int // Requests per operator or client IP per RateWindow
	RateWindow         time.Duration
	AllowOrigins       []string
	Detection          slope.DetectionThresholds
	Machines           []models.MachineParams // Extra tolerance bands
}

// fileConfig is the layout of the optional YAML file
type fileConfig struct {
	Server struct {
		Port               string   `yaml:"port"`
		DBPath             string   `yaml:"db_path"`
		AuthRequired       *bool    `yaml:"auth_required"`
		DefaultMachineType string   `yaml:"default_machine_type"`
		RateLimit          int      `yaml:"rate_limit"`
		TokenTTL           string   `yaml:"token_ttl"`
		AllowOrigins       []string `yaml:"allow_origins"`
	} `yaml:"server"`
	Detection slope.DetectionThresholds `yaml:"detection"`
	Machines  []models.MachineParams    `yaml:"machines"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Port:               ":8080",
		DBPath:             "./data/valvecheck.db",
		JWTSecret:          "your-secret-key-change-in-production",
		TokenTTL:           12 * time.Hour,
		DefaultMachineType: "standard",
		RateLimit:          300,
		RateWindow:         time.Minute,
		AllowOrigins:       []string{"*"},
		Detection:          slope.DefaultThresholds,
	}
}

// Load builds the configuration: defaults, then the YAML file named by
// CONFIG_FILE, then environment variables
func Load() (*Config, error) {
	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return nil, err
		}
	}

	if port := os.Getenv("PORT"); port != "" {
		cfg.Port = port
	}
	if dbPath := os.Getenv("DB_PATH"); dbPath != "" {
		cfg.DBPath = dbPath
	}
	if jwtSecret := os.Getenv("JWT_SECRET"); jwtSecret != "" {
		cfg.JWTSecret = jwtSecret
	}
	if machine := os.Getenv("DEFAULT_MACHINE_TYPE"); machine != "" {
		cfg.DefaultMachineType = machine
	}
	if raw := os.Getenv("AUTH_REQUIRED"); raw != "" {
		required, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid AUTH_REQUIRED %q: %w", raw, err)
		}
		cfg.AuthRequired = required
	}

	return cfg, nil
}

// LoadFile overlays the YAML file at path onto cfg
func (cfg *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if fc.Server.Port != "" {
		cfg.Port = fc.Server.Port
	}
	if fc.Server.DBPath != "" {
		cfg.DBPath = fc.Server.DBPath
	}
	if fc.Server.AuthRequired != nil {
		cfg.AuthRequired = *fc.Server.AuthRequired
	}
	if fc.Server.DefaultMachineType != "" {
		cfg.DefaultMachineType = fc.Server.DefaultMachineType
	}
	if fc.Server.RateLimit > 0 {
		cfg.RateLimit = fc.Server.RateLimit
	}
	if fc.Server.TokenTTL != "" {
		ttl, err := time.ParseDuration(fc.Server.TokenTTL)
		if err != nil {
			return fmt.Errorf("invalid token_ttl %q: %w", fc.Server.TokenTTL, err)
		}
		cfg.TokenTTL = ttl
	}
	if len(fc.Server.AllowOrigins) > 0 {
		cfg.AllowOrigins = fc.Server.AllowOrigins
	}

	// Zero-valued thresholds keep their defaults
	d := fc.Detection
	if d.MinRSquared > 0 {
		cfg.Detection.MinRSquared = d.MinRSquared
	}
	if d.MinMonotonicFraction > 0 {
		cfg.Detection.MinMonotonicFraction = d.MinMonotonicFraction
	}
	if d.MinAmplitudeFraction > 0 {
		cfg.Detection.MinAmplitudeFraction = d.MinAmplitudeFraction
	}
	if d.PlateauTolerance > 0 {
		cfg.Detection.PlateauTolerance = d.PlateauTolerance
	}
	if d.SmoothingWindow > 0 {
		cfg.Detection.SmoothingWindow = d.SmoothingWindow
	}

	cfg.Machines = append(cfg.Machines, fc.Machines...)
	return nil
}
