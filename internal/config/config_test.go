package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/nfe-emitter/internal/config"
)

func TestDefault(t *testing.T) {
	cfg := config.Default()
	assert.Equal(t, 0, cfg.SerialNumber)
	assert.Equal(t, config.OrientationPortrait, cfg.DanfeOrientation)
	assert.Equal(t, config.EnvironmentHomologation, cfg.Environment)
	assert.Empty(t, cfg.FiscoInformation)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("NFE_SERIAL_NUMBER", "3")
	t.Setenv("NFE_DANFE_ORIENTATION", "2")
	t.Setenv("NFE_FISCO_INFORMATION", "Documento emitido por ME")
	t.Setenv("NFE_ENVIRONMENT", "1")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.SerialNumber)
	assert.Equal(t, config.OrientationLandscape, cfg.DanfeOrientation)
	assert.Equal(t, "Documento emitido por ME", cfg.FiscoInformation)
	assert.Equal(t, config.EnvironmentProduction, cfg.Environment)
}

func TestLoad_UnsetKeepsDefaults(t *testing.T) {
	t.Setenv("NFE_SERIAL_NUMBER", "")
	t.Setenv("NFE_DANFE_ORIENTATION", "")
	t.Setenv("NFE_FISCO_INFORMATION", "")
	t.Setenv("NFE_ENVIRONMENT", "")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoad_InvalidValues(t *testing.T) {
	cases := map[string]struct {
		key, value string
	}{
		"serial not a number":   {"NFE_SERIAL_NUMBER", "abc"},
		"orientation range":     {"NFE_DANFE_ORIENTATION", "3"},
		"environment range":     {"NFE_ENVIRONMENT", "0"},
		"environment not a set": {"NFE_ENVIRONMENT", "production"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv(tc.key, tc.value)
			_, err := config.Load()
			assert.Error(t, err)
		})
	}
}
