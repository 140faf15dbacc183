// Package config provides configuration loading and management for neutronrefl.
// It handles loading configuration from YAML files and provides default values.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"

	"neutronrefl/internal/models"
)

// Layer describes one material layer of the stack in the configuration
// file. Layers are listed top to bottom, the ambient medium first and the
// substrate last.
type Layer struct {
	// Name is a free-form label used in reports
	Name string `yaml:"name"`

	// ScatteringLength is the scattering length density of the layer
	ScatteringLength float64 `yaml:"scatteringLength"`

	// TrueAbsLength is the true absorption cross-section term
	TrueAbsLength float64 `yaml:"trueAbsLength"`

	// IncAbsLength is the incoherent absorption cross-section term
	IncAbsLength float64 `yaml:"incAbsLength"`

	// Thickness is the layer thickness in angstroms; ignored for the
	// ambient medium and the substrate
	Thickness float64 `yaml:"thickness"`

	// Roughness is the width of the interface on top of the layer in
	// angstroms
	Roughness float64 `yaml:"roughness"`
}

// Config represents the application configuration loaded from YAML
type Config struct {
	// Beam parameters
	Beam struct {
		// Wavelength of the incident neutrons in angstroms
		Wavelength float64 `yaml:"wavelength"`

		// DeltaQ0 is the constant term of the instrument resolution width
		DeltaQ0 float64 `yaml:"deltaQ0"`

		// DeltaQ1ByQ is the resolution term proportional to the wave vector
		DeltaQ1ByQ float64 `yaml:"deltaQ1ByQ"`
	} `yaml:"beam"`

	// Grid parameters for the default wave vector
	Grid struct {
		// QMin is the first wave vector value in inverse angstroms
		QMin float64 `yaml:"qMin"`

		// QMax is the last wave vector value in inverse angstroms
		QMax float64 `yaml:"qMax"`

		// NumPoints is the number of evenly spaced grid points
		NumPoints int `yaml:"numPoints"`
	} `yaml:"grid"`

	// Computation parameters
	Computation struct {
		// NumRough is the number of roughness discretization steps per
		// interface
		NumRough int `yaml:"numRough"`

		// NumCores specifies how many CPU cores to use for the per-point
		// evaluation
		NumCores int `yaml:"numCores"`

		// RQ4 scales the output curve by the fourth power of the wave
		// vector
		RQ4 bool `yaml:"rq4"`
	} `yaml:"computation"`

	// Layers of the material stack
	Layers []Layer `yaml:"layers"`

	// Output parameters
	Output struct {
		// ReflectivityFile is the path of the computed curve
		ReflectivityFile string `yaml:"reflectivityFile"`

		// DensityFile is the path of the scattering density profile
		DensityFile string `yaml:"densityFile"`

		// Verbose controls progress output during the computation
		Verbose bool `yaml:"verbose"`
	} `yaml:"output"`
}

// DefaultConfig returns a configuration with default values: a nickel film
// on a silicon substrate under air, on a linear grid over the typical
// measurement range of a monochromatic reflectometer.
func DefaultConfig() *Config {
	cfg := &Config{}

	// Set default beam parameters
	cfg.Beam.Wavelength = 4.75
	cfg.Beam.DeltaQ0 = 2.5e-4
	cfg.Beam.DeltaQ1ByQ = 0.02

	// Set default grid parameters
	cfg.Grid.QMin = 0.008
	cfg.Grid.QMax = 0.35
	cfg.Grid.NumPoints = 350

	// Set default computation parameters
	cfg.Computation.NumRough = 21
	cfg.Computation.NumCores = runtime.NumCPU() // Use all available cores by default
	cfg.Computation.RQ4 = false

	// Set the default demo stack
	cfg.Layers = []Layer{
		{Name: "air", ScatteringLength: 0.0, Thickness: 0.0, Roughness: 0.0},
		{Name: "nickel", ScatteringLength: 9.41e-6, Thickness: 550.0, Roughness: 6.0},
		{Name: "silicon", ScatteringLength: 2.07e-6, Thickness: 50.0, Roughness: 3.5},
	}

	// Set default output parameters
	cfg.Output.ReflectivityFile = "reflectivity.csv"
	cfg.Output.DensityFile = "density_profile.csv"
	cfg.Output.Verbose = true

	return cfg
}

// Slabs converts the configured layers into the slab records consumed by the
// calculator.
func (cfg *Config) Slabs() []models.Slab {
	slabs := make([]models.Slab, len(cfg.Layers))
	for i, layer := range cfg.Layers {
		slabs[i] = models.Slab{
			ScatteringLength: layer.ScatteringLength,
			TrueAbsLength:    layer.TrueAbsLength,
			IncAbsLength:     layer.IncAbsLength,
			Thickness:        layer.Thickness,
			InterfaceWidth:   layer.Roughness,
		}
	}
	return slabs
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
