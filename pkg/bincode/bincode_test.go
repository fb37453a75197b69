package bincode

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fortiblox/x1-genesis/internal/types"
)

func TestWriterLayout(t *testing.T) {
	w := NewWriter(0)
	w.WriteU32(3)
	w.WriteU64(0x0102030405060708)
	w.WriteU8(1)
	w.WriteU8(0xff)

	want := []byte{
		0x03, 0x00, 0x00, 0x00,
		0x08, 0x07, 0x06, 0x05, 0x04, 0x03, 0x02, 0x01,
		0x01,
		0xff,
	}
	assert.Equal(t, want, w.Bytes())
	assert.Equal(t, len(want), w.Len())
}

func TestOptionPubkey(t *testing.T) {
	key := types.TokenProgramAddr

	w := NewWriter(0)
	w.WriteOptionPubkey(nil)
	w.WriteOptionPubkey(&key)
	require.Equal(t, 1+1+32, w.Len())

	r := NewBytesReader(w.Bytes())
	none, err := r.ReadOptionPubkey()
	require.NoError(t, err)
	assert.Nil(t, none)

	some, err := r.ReadOptionPubkey()
	require.NoError(t, err)
	require.NotNil(t, some)
	assert.Equal(t, key, *some)
}

func TestInvalidOptionTag(t *testing.T) {
	r := NewBytesReader([]byte{2})
	_, err := r.ReadOptionPubkey()
	assert.ErrorIs(t, err, ErrInvalidOption)
}

func TestReaderShortInput(t *testing.T) {
	r := NewBytesReader([]byte{1, 2, 3})
	_, err := r.ReadU64()
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)

	r = NewBytesReader(nil)
	_, err = r.ReadU8()
	assert.ErrorIs(t, err, io.EOF)
}

func TestFloat(t *testing.T) {
	w := NewWriter(8)
	w.WriteF64(2.0)

	r := NewBytesReader(w.Bytes())
	v, err := r.ReadF64()
	require.NoError(t, err)
	assert.Equal(t, 2.0, v)
}
