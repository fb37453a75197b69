// Package rent computes rent-exempt minimum balances.
package rent

import (
	"errors"
	"fmt"

	"github.com/fortiblox/x1-genesis/pkg/bincode"
)

// AccountStorageOverhead is the number of bytes charged for every account
// on top of its data, covering the stored metadata.
const AccountStorageOverhead = 128

// SysvarSize is the serialized size of the rent sysvar.
const SysvarSize = 8 + 8 + 1

// Defaults match the Solana and X1 genesis configuration.
const (
	DefaultLamportsPerByteYear uint64  = 1_000_000_000 / 100 * 365 / (1024 * 1024)
	DefaultExemptionThreshold  float64 = 2.0
	DefaultBurnPercent         uint8   = 50
)

// ErrInvalidSysvar is returned when rent sysvar data is malformed.
var ErrInvalidSysvar = errors.New("invalid rent sysvar data")

// Schedule maps an account's data size to the minimum balance it must hold.
// Implementations must be pure.
type Schedule interface {
	MinimumBalance(dataLen uint64) uint64
}

// Rent contains rent configuration.
type Rent struct {
	// LamportsPerByteYear is the rent rate.
	LamportsPerByteYear uint64

	// ExemptionThreshold is the multiplier for rent exemption, in years.
	ExemptionThreshold float64

	// BurnPercent is the rent burn percentage.
	BurnPercent uint8
}

// Default returns the default rent configuration.
func Default() Rent {
	return Rent{
		LamportsPerByteYear: DefaultLamportsPerByteYear,
		ExemptionThreshold:  DefaultExemptionThreshold,
		BurnPercent:         DefaultBurnPercent,
	}
}

// Free returns a rent configuration under which every account is exempt
// with a zero balance.
func Free() Rent {
	return Rent{}
}

// MinimumBalance returns the lamports an account with dataLen bytes of data
// needs to be rent exempt.
func (r Rent) MinimumBalance(dataLen uint64) uint64 {
	bytes := AccountStorageOverhead + dataLen
	return uint64(float64(bytes*r.LamportsPerByteYear) * r.ExemptionThreshold)
}

// Serialize encodes the rent configuration in the rent sysvar layout.
func (r Rent) Serialize() []byte {
	w := bincode.NewWriter(SysvarSize)
	w.WriteU64(r.LamportsPerByteYear)
	w.WriteF64(r.ExemptionThreshold)
	w.WriteU8(r.BurnPercent)
	return w.Bytes()
}

// Deserialize decodes rent sysvar data.
func Deserialize(data []byte) (Rent, error) {
	if len(data) < SysvarSize {
		return Rent{}, ErrInvalidSysvar
	}
	br := bincode.NewBytesReader(data)

	var r Rent
	var err error
	if r.LamportsPerByteYear, err = br.ReadU64(); err != nil {
		return Rent{}, fmt.Errorf("%w: lamports_per_byte_year: %v", ErrInvalidSysvar, err)
	}
	if r.ExemptionThreshold, err = br.ReadF64(); err != nil {
		return Rent{}, fmt.Errorf("%w: exemption_threshold: %v", ErrInvalidSysvar, err)
	}
	if r.BurnPercent, err = br.ReadU8(); err != nil {
		return Rent{}, fmt.Errorf("%w: burn_percent: %v", ErrInvalidSysvar, err)
	}
	return r, nil
}

// Func adapts a plain function to the Schedule interface.
type Func func(dataLen uint64) uint64

// MinimumBalance calls f.
func (f Func) MinimumBalance(dataLen uint64) uint64 {
	return f(dataLen)
}
