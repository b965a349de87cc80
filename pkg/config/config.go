// Package config provides configuration loading and management for
// voxelshape. It handles loading configuration from YAML files and
// provides default values.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration loaded from YAML
type Config struct {
	// Processing parameters
	Processing struct {
		// NumWorkers specifies how many parallel cluster workers to run
		NumWorkers int `yaml:"numWorkers"`

		// PixelSize is the camera pixel size in nanometers
		PixelSize float64 `yaml:"pixelSize"`

		// BinXY is the lateral voxel bin size in nanometers
		BinXY float64 `yaml:"binXY"`

		// BinZ is the axial voxel bin size in nanometers
		BinZ float64 `yaml:"binZ"`

		// Cutoff drops clusters with fewer localizations
		Cutoff int `yaml:"cutoff"`
	} `yaml:"processing"`

	// Cleaning filters applied before analysis; a zero bound disables
	// its filter
	Cleaning struct {
		// MaxLp is the maximum lateral localization precision in pixels
		MaxLp float64 `yaml:"maxLp"`

		// MinZ and MaxZ bound the axial range in nanometers
		MinZ float64 `yaml:"minZ"`
		MaxZ float64 `yaml:"maxZ"`

		// MaxPhotons drops abnormally bright events
		MaxPhotons float64 `yaml:"maxPhotons"`
	} `yaml:"cleaning"`

	// Sweep parameters for the multi-scale scan
	Sweep struct {
		// BinMin is the smallest bin size in nanometers (inclusive)
		BinMin int `yaml:"binMin"`

		// BinMax is the upper bound of the scan in nanometers (exclusive)
		BinMax int `yaml:"binMax"`

		// BinStep is the scan step in nanometers
		BinStep int `yaml:"binStep"`
	} `yaml:"sweep"`

	// Output parameters
	Output struct {
		// Postfix is appended to generated report file names
		Postfix string `yaml:"postfix"`

		// PlotsDir enables compactness-curve plots when non-empty
		PlotsDir string `yaml:"plotsDir"`

		// DatabasePath enables the SQLite result sink when non-empty
		DatabasePath string `yaml:"databasePath"`

		// Verbose controls the level of logging output
		Verbose bool `yaml:"verbose"`
	} `yaml:"output"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	// Set default processing parameters
	cfg.Processing.NumWorkers = runtime.NumCPU() // Use all available cores by default
	cfg.Processing.PixelSize = 65.0
	cfg.Processing.BinXY = 50.0
	cfg.Processing.BinZ = 50.0
	cfg.Processing.Cutoff = 500

	// Set default cleaning parameters
	cfg.Cleaning.MaxLp = 0.0
	cfg.Cleaning.MinZ = 0.0
	cfg.Cleaning.MaxZ = 0.0
	cfg.Cleaning.MaxPhotons = 0.0

	// Set default sweep parameters
	cfg.Sweep.BinMin = 10
	cfg.Sweep.BinMax = 130
	cfg.Sweep.BinStep = 5

	// Set default output parameters
	cfg.Output.Postfix = "analyzed"
	cfg.Output.Verbose = true

	return cfg
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	// Read config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Parse YAML
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	// Marshal config to YAML
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	// Write to file
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the specified path
func CreateDefaultConfigFile(configPath string) error {
	cfg := DefaultConfig()
	return SaveConfig(cfg, configPath)
}
