// Package types defines the core key and hash types used across x1-genesis.
//
// These types follow Solana conventions and are compatible with the X1 network.
// Both are fixed-size arrays, so they are comparable and usable as map keys.
package types

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"

	"github.com/mr-tron/base58"
)

// Size constants for core types.
const (
	PubkeySize = 32
	HashSize   = 32
)

var (
	// ErrInvalidPubkey is returned when a pubkey has invalid length.
	ErrInvalidPubkey = errors.New("invalid pubkey: must be 32 bytes")

	// ErrInvalidHash is returned when a hash has invalid length.
	ErrInvalidHash = errors.New("invalid hash: must be 32 bytes")
)

// Pubkey represents a 32-byte Ed25519 public key or program address.
type Pubkey [PubkeySize]byte

// PubkeyFromBase58 parses a base58-encoded public key.
func PubkeyFromBase58(s string) (Pubkey, error) {
	var p Pubkey
	data, err := base58.Decode(s)
	if err != nil {
		return p, fmt.Errorf("base58 decode: %w", err)
	}
	if len(data) != PubkeySize {
		return p, ErrInvalidPubkey
	}
	copy(p[:], data)
	return p, nil
}

// String returns the base58-encoded representation.
func (p Pubkey) String() string {
	return base58.Encode(p[:])
}

// IsZero returns true if the pubkey is all zeros.
func (p Pubkey) IsZero() bool {
	return p == Pubkey{}
}

// Bytes returns the pubkey as a byte slice.
func (p Pubkey) Bytes() []byte {
	return p[:]
}

// Compare orders pubkeys lexicographically by their raw bytes.
func (p Pubkey) Compare(other Pubkey) int {
	return bytes.Compare(p[:], other[:])
}

// MarshalText implements encoding.TextMarshaler.
func (p Pubkey) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Pubkey) UnmarshalText(text []byte) error {
	parsed, err := PubkeyFromBase58(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Hash represents a 32-byte digest.
type Hash [HashSize]byte

// HashFromBase58 parses a base58-encoded hash.
func HashFromBase58(s string) (Hash, error) {
	var h Hash
	data, err := base58.Decode(s)
	if err != nil {
		return h, fmt.Errorf("base58 decode: %w", err)
	}
	if len(data) != HashSize {
		return h, ErrInvalidHash
	}
	copy(h[:], data)
	return h, nil
}

// ComputeHash computes the SHA256 hash of data.
func ComputeHash(data []byte) Hash {
	return sha256.Sum256(data)
}

// String returns the base58-encoded representation.
func (h Hash) String() string {
	return base58.Encode(h[:])
}

// IsZero returns true if the hash is all zeros.
func (h Hash) IsZero() bool {
	return h == Hash{}
}

// Bytes returns the hash as a byte slice.
func (h Hash) Bytes() []byte {
	return h[:]
}

// MarshalText implements encoding.TextMarshaler.
func (h Hash) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (h *Hash) UnmarshalText(text []byte) error {
	parsed, err := HashFromBase58(string(text))
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}
