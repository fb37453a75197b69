package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPubkeyBase58RoundTrip(t *testing.T) {
	tests := []string{
		"11111111111111111111111111111111",
		"TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA",
		"BPFLoaderUpgradeab1e11111111111111111111111",
	}

	for _, s := range tests {
		t.Run(s, func(t *testing.T) {
			p, err := PubkeyFromBase58(s)
			require.NoError(t, err)
			assert.Equal(t, s, p.String())
		})
	}
}

func TestPubkeyFromBase58Invalid(t *testing.T) {
	_, err := PubkeyFromBase58("1111")
	assert.ErrorIs(t, err, ErrInvalidPubkey)

	_, err = PubkeyFromBase58("0OIl")
	assert.Error(t, err)
}

func TestPubkeyZero(t *testing.T) {
	assert.True(t, Pubkey{}.IsZero())
	assert.True(t, MustPubkeyFromBase58("11111111111111111111111111111111").IsZero())
	assert.False(t, TokenProgramAddr.IsZero())
}

func TestPubkeyCompare(t *testing.T) {
	a := Pubkey{1}
	b := Pubkey{2}
	assert.Equal(t, -1, a.Compare(b))
	assert.Equal(t, 1, b.Compare(a))
	assert.Equal(t, 0, a.Compare(a))
}

func TestPubkeyText(t *testing.T) {
	text, err := Token2022ProgramAddr.MarshalText()
	require.NoError(t, err)

	var p Pubkey
	require.NoError(t, p.UnmarshalText(text))
	assert.Equal(t, Token2022ProgramAddr, p)
}

func TestLoaders(t *testing.T) {
	assert.NotEqual(t, BPFLoaderDeprecatedAddr, BPFLoaderAddr)
	assert.Equal(t, "bpf-loader", LoaderName(BPFLoaderAddr))
	assert.Equal(t, "bpf-loader-upgradeable", LoaderName(BPFLoaderUpgradeableAddr))
	assert.Equal(t, TokenProgramAddr.String(), LoaderName(TokenProgramAddr))
}

func TestHash(t *testing.T) {
	h := ComputeHash([]byte("genesis"))
	assert.False(t, h.IsZero())

	parsed, err := HashFromBase58(h.String())
	require.NoError(t, err)
	assert.Equal(t, h, parsed)

	_, err = HashFromBase58(TokenProgramAddr.String()[:20])
	assert.ErrorIs(t, err, ErrInvalidHash)
}
