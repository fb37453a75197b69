// Package pda derives program addresses (PDAs).
//
// A program address is sha256(seeds || program_id || "ProgramDerivedAddress")
// and is only valid when the digest is not a point on the ed25519 curve, so no
// private key can exist for it.
package pda

import (
	"crypto/sha256"
	"errors"

	"filippo.io/edwards25519"

	"github.com/fortiblox/x1-genesis/internal/types"
)

// PDA constants.
const (
	MaxSeeds   = 16
	MaxSeedLen = 32
)

// PDA marker used in address derivation.
var pdaMarker = []byte("ProgramDerivedAddress")

// PDA errors.
var (
	ErrMaxSeedLengthExceeded = errors.New("max seed length exceeded")
	ErrMaxSeedsExceeded      = errors.New("max seeds exceeded")
	ErrOnCurve               = errors.New("invalid seeds: derived address is on curve")
	ErrNoViableBump          = errors.New("unable to find a viable program address bump seed")
)

// CreateProgramAddress derives a program address from seeds and a program ID.
// Returns ErrOnCurve if the derived address is on the ed25519 curve.
func CreateProgramAddress(seeds [][]byte, programID types.Pubkey) (types.Pubkey, error) {
	if len(seeds) > MaxSeeds {
		return types.Pubkey{}, ErrMaxSeedsExceeded
	}
	for _, seed := range seeds {
		if len(seed) > MaxSeedLen {
			return types.Pubkey{}, ErrMaxSeedLengthExceeded
		}
	}

	h := sha256.New()
	for _, seed := range seeds {
		h.Write(seed)
	}
	h.Write(programID[:])
	h.Write(pdaMarker)

	var addr types.Pubkey
	h.Sum(addr[:0])

	if IsOnCurve(addr[:]) {
		return types.Pubkey{}, ErrOnCurve
	}
	return addr, nil
}

// FindProgramAddress finds a valid PDA by iterating bump seeds from 255 to 0.
// The bump is appended as the final seed.
func FindProgramAddress(seeds [][]byte, programID types.Pubkey) (types.Pubkey, uint8, error) {
	if len(seeds) > MaxSeeds-1 {
		return types.Pubkey{}, 0, ErrMaxSeedsExceeded
	}

	seedsWithBump := make([][]byte, len(seeds)+1)
	copy(seedsWithBump, seeds)

	for bump := 255; bump >= 0; bump-- {
		seedsWithBump[len(seeds)] = []byte{uint8(bump)}

		addr, err := CreateProgramAddress(seedsWithBump, programID)
		if err == nil {
			return addr, uint8(bump), nil
		}
		if !errors.Is(err, ErrOnCurve) {
			return types.Pubkey{}, 0, err
		}
	}

	return types.Pubkey{}, 0, ErrNoViableBump
}

// IsOnCurve reports whether b decodes as an ed25519 point. Non-canonical y
// coordinates are accepted, matching the decompression used by validators.
func IsOnCurve(b []byte) bool {
	if len(b) != 32 {
		return false
	}
	_, err := new(edwards25519.Point).SetBytes(b)
	return err == nil
}
