package features

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fortiblox/x1-genesis/internal/types"
)

func TestSet(t *testing.T) {
	s := NewSet(MigrateConfigProgramToCoreBPF)
	assert.True(t, s.IsActive(MigrateConfigProgramToCoreBPF))
	assert.False(t, s.IsActive(MigrateFeatureGateProgramToCoreBPF))
	assert.Equal(t, 1, s.Len())

	assert.True(t, All().IsActive(types.TokenProgramAddr))
	assert.Equal(t, -1, All().Len())
	assert.False(t, None().IsActive(MigrateConfigProgramToCoreBPF))
	assert.Equal(t, 0, None().Len())
}

func TestPredicate(t *testing.T) {
	p := NewSet(MigrateAddressLookupTableProgramToCoreBPF).Predicate()
	assert.True(t, p(MigrateAddressLookupTableProgramToCoreBPF))
	assert.False(t, p(MigrateConfigProgramToCoreBPF))
}

func TestLookup(t *testing.T) {
	id, err := Lookup("migrate_config_program_to_core_bpf")
	require.NoError(t, err)
	assert.Equal(t, MigrateConfigProgramToCoreBPF, id)

	id, err = Lookup(MigrateFeatureGateProgramToCoreBPF.String())
	require.NoError(t, err)
	assert.Equal(t, MigrateFeatureGateProgramToCoreBPF, id)

	_, err = Lookup("not_a_feature")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "known: migrate_address_lookup_table_program_to_core_bpf, migrate_config_program_to_core_bpf, migrate_feature_gate_program_to_core_bpf")
}

func TestKnown(t *testing.T) {
	known := Known()
	require.Len(t, known, 3)
	assert.Equal(t, MigrateAddressLookupTableProgramToCoreBPF, known[0])
	assert.Equal(t, MigrateConfigProgramToCoreBPF, known[1])
	assert.Equal(t, MigrateFeatureGateProgramToCoreBPF, known[2])

	assert.Equal(t, "migrate_config_program_to_core_bpf", Name(MigrateConfigProgramToCoreBPF))
	assert.Equal(t, types.TokenProgramAddr.String(), Name(types.TokenProgramAddr))
}
