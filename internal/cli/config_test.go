package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fortiblox/x1-genesis/pkg/features"
	"github.com/fortiblox/x1-genesis/pkg/rent"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "genesis.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, ""))
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, rent.Default(), cfg.Rent)
	assert.Equal(t, -1, cfg.Features.Len())
}

func TestLoadConfigOverlay(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, `
log_level = "debug"

[rent]
lamports_per_byte_year = 1000

[features]
active = ["migrate_config_program_to_core_bpf"]
`))
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, uint64(1000), cfg.Rent.LamportsPerByteYear)
	assert.Equal(t, rent.DefaultExemptionThreshold, cfg.Rent.ExemptionThreshold)
	assert.Equal(t, uint8(rent.DefaultBurnPercent), cfg.Rent.BurnPercent)

	assert.Equal(t, 1, cfg.Features.Len())
	assert.True(t, cfg.Features.IsActive(features.MigrateConfigProgramToCoreBPF))
	assert.False(t, cfg.Features.IsActive(features.MigrateFeatureGateProgramToCoreBPF))
}

func TestLoadConfigFreeRent(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, `
[rent]
lamports_per_byte_year = 0
exemption_threshold = 0.0
`))
	require.NoError(t, err)
	assert.Zero(t, cfg.Rent.MinimumBalance(1000))
}

func TestLoadConfigFeaturesAllFalse(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "[features]\nall = false\n"))
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.Features.Len())
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"syntax", "[rent\n"},
		{"unknown key", "[rent]\nlamports = 1\n"},
		{"negative threshold", "[rent]\nexemption_threshold = -1.0\n"},
		{"burn over 100", "[rent]\nburn_percent = 150\n"},
		{"unknown feature", "[features]\nactive = [\"not_a_feature\"]\n"},
		{"all and active", "[features]\nall = true\nactive = [\"migrate_config_program_to_core_bpf\"]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestParseFeatures(t *testing.T) {
	set, err := ParseFeatures("all")
	require.NoError(t, err)
	assert.Equal(t, -1, set.Len())

	set, err = ParseFeatures("NONE")
	require.NoError(t, err)
	assert.Equal(t, 0, set.Len())

	set, err = ParseFeatures("migrate_feature_gate_program_to_core_bpf, " + features.MigrateConfigProgramToCoreBPF.String())
	require.NoError(t, err)
	assert.Equal(t, 2, set.Len())
	assert.True(t, set.IsActive(features.MigrateFeatureGateProgramToCoreBPF))
	assert.True(t, set.IsActive(features.MigrateConfigProgramToCoreBPF))

	_, err = ParseFeatures("bogus")
	assert.Error(t, err)
}
