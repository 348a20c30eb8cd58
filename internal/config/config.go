// Package config holds the process configuration recognized by the
// emitter. The core never reads the environment itself: callers load a
// Config here and hand it to the generator.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// DANFE orientations.
const (
	OrientationPortrait  = 1
	OrientationLandscape = 2
)

// Emission environments (tpAmb).
const (
	EnvironmentProduction   = 1
	EnvironmentHomologation = 2
)

// Config carries the NFE_* parameters consumed by the document assembler.
type Config struct {
	// SerialNumber is the invoice series (NFE_SERIAL_NUMBER).
	SerialNumber int
	// DanfeOrientation is 1 portrait, 2 landscape (NFE_DANFE_ORIENTATION).
	DanfeOrientation int
	// FiscoInformation is appended to the infAdFisco text
	// (NFE_FISCO_INFORMATION).
	FiscoInformation string
	// Environment is the tpAmb value (NFE_ENVIRONMENT).
	Environment int
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		SerialNumber:     0,
		DanfeOrientation: OrientationPortrait,
		Environment:      EnvironmentHomologation,
	}
}

// Load reads the configuration from the environment, first merging an
// optional .env file into it.
func Load() (Config, error) {
	// .env is optional; only a malformed file is an error.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := Default()
	if v := os.Getenv("NFE_SERIAL_NUMBER"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid NFE_SERIAL_NUMBER %q: %w", v, err)
		}
		cfg.SerialNumber = n
	}
	if v := os.Getenv("NFE_DANFE_ORIENTATION"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || (n != OrientationPortrait && n != OrientationLandscape) {
			return Config{}, fmt.Errorf("invalid NFE_DANFE_ORIENTATION %q", v)
		}
		cfg.DanfeOrientation = n
	}
	if v := os.Getenv("NFE_FISCO_INFORMATION"); v != "" {
		cfg.FiscoInformation = v
	}
	if v := os.Getenv("NFE_ENVIRONMENT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || (n != EnvironmentProduction && n != EnvironmentHomologation) {
			return Config{}, fmt.Errorf("invalid NFE_ENVIRONMENT %q", v)
		}
		cfg.Environment = n
	}
	return cfg, nil
}
