// Package loader implements the account state of the upgradeable BPF loader
// (BPF loader v3).
//
// Upgradeable programs are split across two accounts:
//
//	program account       State{Program{ProgramDataAddress}}
//	program-data account  State{ProgramData{Slot, UpgradeAuthority}} || ELF
//
// The program account is executable and never changes address; the
// program-data account lives at a PDA of the program ID and carries the
// bytecode, so the code can be replaced in place.
package loader

import (
	"errors"
	"fmt"

	"github.com/fortiblox/x1-genesis/internal/types"
	"github.com/fortiblox/x1-genesis/pkg/bincode"
	"github.com/fortiblox/x1-genesis/pkg/pda"
)

// Kind is the bincode discriminant of an upgradeable loader state.
type Kind uint32

// State kinds, in declaration order of the on-chain enum.
const (
	KindUninitialized Kind = iota
	KindBuffer
	KindProgram
	KindProgramData
)

// String returns the variant name.
func (k Kind) String() string {
	switch k {
	case KindUninitialized:
		return "Uninitialized"
	case KindBuffer:
		return "Buffer"
	case KindProgram:
		return "Program"
	case KindProgramData:
		return "ProgramData"
	default:
		return fmt.Sprintf("Kind(%d)", uint32(k))
	}
}

// Serialized sizes of each state.
const (
	SizeOfUninitialized       = 4
	SizeOfBufferMetadata      = 4 + 1 + types.PubkeySize
	SizeOfProgram             = 4 + types.PubkeySize
	SizeOfProgramDataMetadata = 4 + 8 + 1 + types.PubkeySize
)

// State errors.
var (
	ErrInvalidState = errors.New("invalid upgradeable loader state")
	ErrUnknownKind  = errors.New("unknown upgradeable loader state kind")
)

// State is the metadata at the start of an account owned by the
// upgradeable loader. Only the fields of Kind are meaningful.
type State struct {
	Kind Kind

	// Authority is the buffer authority (Buffer).
	Authority *types.Pubkey

	// ProgramDataAddress points at the program-data account (Program).
	ProgramDataAddress types.Pubkey

	// Slot is the slot the program was last deployed at (ProgramData).
	Slot uint64

	// UpgradeAuthority may upgrade the program (ProgramData). Nil means
	// the program is immutable.
	UpgradeAuthority *types.Pubkey
}

// ProgramState returns a Program state pointing at programDataAddress.
func ProgramState(programDataAddress types.Pubkey) State {
	return State{Kind: KindProgram, ProgramDataAddress: programDataAddress}
}

// ProgramDataState returns a ProgramData state.
func ProgramDataState(slot uint64, upgradeAuthority *types.Pubkey) State {
	return State{Kind: KindProgramData, Slot: slot, UpgradeAuthority: upgradeAuthority}
}

// Size returns the serialized size of s, excluding any trailing bytecode.
func (s State) Size() (int, error) {
	switch s.Kind {
	case KindUninitialized:
		return SizeOfUninitialized, nil
	case KindBuffer:
		return SizeOfBufferMetadata, nil
	case KindProgram:
		return SizeOfProgram, nil
	case KindProgramData:
		return SizeOfProgramDataMetadata, nil
	default:
		return 0, ErrUnknownKind
	}
}

// Encode serializes s with bincode.
//
// Buffer and ProgramData always occupy their full metadata size even when
// the authority is None, since bytecode starts at a fixed offset.
func (s State) Encode() ([]byte, error) {
	size, err := s.Size()
	if err != nil {
		return nil, err
	}

	w := bincode.NewWriter(size)
	w.WriteU32(uint32(s.Kind))

	switch s.Kind {
	case KindBuffer:
		w.WriteOptionPubkey(s.Authority)
	case KindProgram:
		w.WritePubkey(s.ProgramDataAddress)
	case KindProgramData:
		w.WriteU64(s.Slot)
		w.WriteOptionPubkey(s.UpgradeAuthority)
	}

	// Pad None options out to the fixed metadata size.
	for w.Len() < size {
		w.WriteU8(0)
	}
	if w.Len() != size {
		return nil, fmt.Errorf("%w: %s encoded to %d bytes, want %d", ErrInvalidState, s.Kind, w.Len(), size)
	}
	return w.Bytes(), nil
}

// MustEncode serializes s and panics on failure. The state schema is fixed,
// so a failure here is a programming error.
func (s State) MustEncode() []byte {
	data, err := s.Encode()
	if err != nil {
		panic(fmt.Sprintf("loader: encode %s state: %v", s.Kind, err))
	}
	return data
}

// Decode parses the state at the start of data. Trailing bytes (such as the
// program bytecode after ProgramData metadata) are ignored.
func Decode(data []byte) (State, error) {
	br := bincode.NewBytesReader(data)

	tag, err := br.ReadU32()
	if err != nil {
		return State{}, fmt.Errorf("%w: read kind: %v", ErrInvalidState, err)
	}

	s := State{Kind: Kind(tag)}
	switch s.Kind {
	case KindUninitialized:
	case KindBuffer:
		if s.Authority, err = br.ReadOptionPubkey(); err != nil {
			return State{}, fmt.Errorf("%w: buffer authority: %v", ErrInvalidState, err)
		}
	case KindProgram:
		if s.ProgramDataAddress, err = br.ReadPubkey(); err != nil {
			return State{}, fmt.Errorf("%w: program data address: %v", ErrInvalidState, err)
		}
	case KindProgramData:
		if s.Slot, err = br.ReadU64(); err != nil {
			return State{}, fmt.Errorf("%w: slot: %v", ErrInvalidState, err)
		}
		if s.UpgradeAuthority, err = br.ReadOptionPubkey(); err != nil {
			return State{}, fmt.Errorf("%w: upgrade authority: %v", ErrInvalidState, err)
		}
	default:
		return State{}, fmt.Errorf("%w: %d", ErrUnknownKind, tag)
	}
	return s, nil
}

// ProgramDataAddress derives the program-data account address for an
// upgradeable program.
func ProgramDataAddress(programID types.Pubkey) types.Pubkey {
	addr, _, err := pda.FindProgramAddress([][]byte{programID[:]}, types.BPFLoaderUpgradeableAddr)
	if err != nil {
		// One 32-byte seed never hits the seed limits, and exhausting all
		// 256 bumps has negligible probability.
		panic(fmt.Sprintf("loader: derive program data address for %s: %v", programID, err))
	}
	return addr
}

// ProgramBytecode returns the bytecode stored after the ProgramData metadata.
func ProgramBytecode(programData []byte) ([]byte, error) {
	if len(programData) < SizeOfProgramDataMetadata {
		return nil, fmt.Errorf("%w: program data is %d bytes", ErrInvalidState, len(programData))
	}
	return programData[SizeOfProgramDataMetadata:], nil
}
