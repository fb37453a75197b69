package pda

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fortiblox/x1-genesis/internal/types"
)

func TestFindProgramAddressKnownVectors(t *testing.T) {
	tests := []struct {
		name    string
		program types.Pubkey
		want    string
		bump    uint8
	}{
		{"token-2022", types.Token2022ProgramAddr, "DoU57AYuPFu2QU514RktNPG22QhApEjnKxnBcu4BHDTY", 255},
		{"address-lookup-table", types.AddressLookupTableProgramAddr, "4zSpbk5jGQyMmUrqCSjFZbRKwsrMXBPsyTzjhJEAsefG", 253},
		{"config", types.ConfigProgramAddr, "CHKQ74qcDUJbwc4snCEZXL8tV1WQvXqioArLGgUHPZq9", 254},
		{"feature-gate", types.FeatureGateProgramAddr, "H253PPA38ecQvnpSvfWgqBfMuVgZ656CEXLgTHwZQHfs", 255},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			addr, bump, err := FindProgramAddress([][]byte{tt.program[:]}, types.BPFLoaderUpgradeableAddr)
			require.NoError(t, err)
			assert.Equal(t, tt.want, addr.String())
			assert.Equal(t, tt.bump, bump)
		})
	}
}

func TestCreateProgramAddressOnCurve(t *testing.T) {
	// Bumps 255 and 254 for the lookup table program land on the curve.
	seed := types.AddressLookupTableProgramAddr[:]
	for _, bump := range []byte{255, 254} {
		_, err := CreateProgramAddress([][]byte{seed, {bump}}, types.BPFLoaderUpgradeableAddr)
		assert.ErrorIs(t, err, ErrOnCurve, "bump %d", bump)
	}

	addr, err := CreateProgramAddress([][]byte{seed, {253}}, types.BPFLoaderUpgradeableAddr)
	require.NoError(t, err)
	assert.Equal(t, "4zSpbk5jGQyMmUrqCSjFZbRKwsrMXBPsyTzjhJEAsefG", addr.String())
}

func TestSeedLimits(t *testing.T) {
	program := types.BPFLoaderUpgradeableAddr

	_, err := CreateProgramAddress([][]byte{bytes.Repeat([]byte{1}, MaxSeedLen+1)}, program)
	assert.ErrorIs(t, err, ErrMaxSeedLengthExceeded)

	tooMany := make([][]byte, MaxSeeds+1)
	_, err = CreateProgramAddress(tooMany, program)
	assert.ErrorIs(t, err, ErrMaxSeedsExceeded)

	// FindProgramAddress reserves one seed for the bump.
	_, _, err = FindProgramAddress(make([][]byte, MaxSeeds), program)
	assert.ErrorIs(t, err, ErrMaxSeedsExceeded)
}

func TestIsOnCurve(t *testing.T) {
	basePoint := append([]byte{0x58}, bytes.Repeat([]byte{0x66}, 31)...)
	assert.True(t, IsOnCurve(basePoint))
	assert.True(t, IsOnCurve(make([]byte, 32)))
	assert.False(t, IsOnCurve(make([]byte, 31)))
}

func TestFindProgramAddressDoesNotMutateSeeds(t *testing.T) {
	seeds := [][]byte{[]byte("vault")}
	_, _, err := FindProgramAddress(seeds, types.TokenProgramAddr)
	require.NoError(t, err)
	require.Len(t, seeds, 1)
	assert.Equal(t, []byte("vault"), seeds[0])
}
