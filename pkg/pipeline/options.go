package pipeline

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/deadcoast/hunt/pkg/grid"
)

// Options specifies all pipeline parameters. It supports YAML parsing and
// validates before use.
type Options struct {
	// StrictAlignment makes CBHS bracket misalignment fatal instead of
	// recoverable.
	StrictAlignment bool `yaml:"strictAlignment" json:"strictAlignment"`

	// DefaultThreshold is the confidence threshold for patterns that do
	// not set their own (0 means 0.5).
	DefaultThreshold float64 `yaml:"defaultThreshold" json:"defaultThreshold"`

	// Incremental enables delta runs via RunIncremental.
	Incremental bool `yaml:"incremental" json:"incremental"`

	// SpatialCellSize is the spatial index cell edge (0 means default).
	SpatialCellSize int `yaml:"spatialCellSize" json:"spatialCellSize"`

	// Generator names the back-end to run in the generate stage; empty
	// skips generation.
	Generator string `yaml:"generator,omitempty" json:"generator,omitempty"`

	// GeneratorTitle is passed to the back-end as the document title.
	GeneratorTitle string `yaml:"generatorTitle,omitempty" json:"generatorTitle,omitempty"`

	// LogLevel is debug, info, warn, or error (empty means warn).
	LogLevel string `yaml:"logLevel,omitempty" json:"logLevel,omitempty"`
}

// DefaultOptions returns the standard pipeline configuration.
func DefaultOptions() Options {
	return Options{
		DefaultThreshold: 0.5,
		SpatialCellSize:  grid.DefaultCellSize,
	}
}

// Validate checks option ranges, filling defaults for zero values.
func (o *Options) Validate() error {
	if o.DefaultThreshold == 0 {
		o.DefaultThreshold = 0.5
	}
	if o.DefaultThreshold < 0 || o.DefaultThreshold > 1 {
		return fmt.Errorf("defaultThreshold %v out of range [0,1]", o.DefaultThreshold)
	}
	if o.SpatialCellSize == 0 {
		o.SpatialCellSize = grid.DefaultCellSize
	}
	if o.SpatialCellSize < 1 {
		return fmt.Errorf("spatialCellSize %d must be positive", o.SpatialCellSize)
	}
	switch o.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown logLevel %q", o.LogLevel)
	}
	return nil
}

// LoadOptions reads and validates options from a YAML file.
func LoadOptions(path string) (*Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read options file: %w", err)
	}

	opts := DefaultOptions()
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return nil, fmt.Errorf("failed to parse options file: %w", err)
	}
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	return &opts, nil
}
