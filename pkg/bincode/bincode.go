// Package bincode reads and writes the subset of bincode used for Solana
// account state.
//
// Bincode encodes integers as fixed-width little-endian values, Option tags
// as a single byte, and enum variants as a u32 discriminant
// followed by the variant's fields.
package bincode

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"math"

	"github.com/fortiblox/x1-genesis/internal/types"
)

// ErrInvalidOption is returned when an Option tag is neither 0 nor 1.
var ErrInvalidOption = errors.New("invalid option tag")

// Reader provides helpers for reading bincode-serialized data.
type Reader struct {
	reader io.Reader
	buf    []byte
}

// NewReader creates a new bincode reader.
func NewReader(r io.Reader) *Reader {
	return &Reader{
		reader: r,
		buf:    make([]byte, 8),
	}
}

// NewBytesReader creates a bincode reader over an in-memory buffer.
func NewBytesReader(data []byte) *Reader {
	return NewReader(bytes.NewReader(data))
}

// ReadU8 reads a uint8.
func (r *Reader) ReadU8() (uint8, error) {
	if _, err := io.ReadFull(r.reader, r.buf[:1]); err != nil {
		return 0, err
	}
	return r.buf[0], nil
}

// ReadU32 reads a little-endian uint32.
func (r *Reader) ReadU32() (uint32, error) {
	if _, err := io.ReadFull(r.reader, r.buf[:4]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(r.buf[:4]), nil
}

// ReadU64 reads a little-endian uint64.
func (r *Reader) ReadU64() (uint64, error) {
	if _, err := io.ReadFull(r.reader, r.buf[:8]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(r.buf[:8]), nil
}

// ReadF64 reads a little-endian float64.
func (r *Reader) ReadF64() (float64, error) {
	v, err := r.ReadU64()
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(v), nil
}

// ReadBytes reads exactly n bytes.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(r.reader, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// ReadPubkey reads a 32-byte pubkey.
func (r *Reader) ReadPubkey() (types.Pubkey, error) {
	var pubkey types.Pubkey
	if _, err := io.ReadFull(r.reader, pubkey[:]); err != nil {
		return pubkey, err
	}
	return pubkey, nil
}

// ReadOptionPubkey reads an Option<Pubkey>. A None value returns nil.
func (r *Reader) ReadOptionPubkey() (*types.Pubkey, error) {
	tag, err := r.ReadU8()
	if err != nil {
		return nil, err
	}
	switch tag {
	case 0:
		return nil, nil
	case 1:
		pubkey, err := r.ReadPubkey()
		if err != nil {
			return nil, err
		}
		return &pubkey, nil
	default:
		return nil, ErrInvalidOption
	}
}

// Writer accumulates bincode-serialized data in memory.
type Writer struct {
	buf bytes.Buffer
	tmp [8]byte
}

// NewWriter creates a writer with capacity for sizeHint bytes.
func NewWriter(sizeHint int) *Writer {
	w := &Writer{}
	w.buf.Grow(sizeHint)
	return w
}

// WriteU8 writes a uint8.
func (w *Writer) WriteU8(v uint8) {
	w.buf.WriteByte(v)
}

// WriteU32 writes a little-endian uint32.
func (w *Writer) WriteU32(v uint32) {
	binary.LittleEndian.PutUint32(w.tmp[:4], v)
	w.buf.Write(w.tmp[:4])
}

// WriteU64 writes a little-endian uint64.
func (w *Writer) WriteU64(v uint64) {
	binary.LittleEndian.PutUint64(w.tmp[:], v)
	w.buf.Write(w.tmp[:])
}

// WriteF64 writes a little-endian float64.
func (w *Writer) WriteF64(v float64) {
	w.WriteU64(math.Float64bits(v))
}

// WritePubkey writes a 32-byte pubkey.
func (w *Writer) WritePubkey(p types.Pubkey) {
	w.buf.Write(p[:])
}

// WriteOptionPubkey writes an Option<Pubkey>; nil encodes None.
func (w *Writer) WriteOptionPubkey(p *types.Pubkey) {
	if p == nil {
		w.WriteU8(0)
		return
	}
	w.WriteU8(1)
	w.WritePubkey(*p)
}

// WriteRaw appends bytes without a length prefix.
func (w *Writer) WriteRaw(b []byte) {
	w.buf.Write(b)
}

// Len returns the number of bytes written so far.
func (w *Writer) Len() int {
	return w.buf.Len()
}

// Bytes returns the serialized data. The slice aliases the writer's buffer.
func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}
