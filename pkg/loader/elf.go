package loader

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

// ELF errors.
var (
	ErrInvalidELF         = errors.New("invalid ELF file")
	ErrUnsupportedClass   = errors.New("unsupported ELF class (expected 64-bit)")
	ErrUnsupportedEndian  = errors.New("unsupported ELF endianness (expected little-endian)")
	ErrUnsupportedMachine = errors.New("unsupported ELF machine (expected BPF or SBPF)")
	ErrELFTooLarge        = errors.New("ELF file too large")
)

// MaxELFSize bounds the size of a program binary.
const MaxELFSize = 10 * 1024 * 1024

// ELFHeaderSize is the size of an ELF64 file header.
const ELFHeaderSize = 64

var elfMagic = []byte{0x7f, 'E', 'L', 'F'}

const (
	elfClass64     = 2
	elfDataLSB     = 1
	elfMachineBPF  = 247
	elfMachineSBPF = 263
	elfTypeExec    = 2
	elfTypeDyn     = 3
)

// ELFHeader is the subset of the ELF64 header checked before a binary is
// placed into a program account.
type ELFHeader struct {
	Class    uint8
	Data     uint8
	Type     uint16
	Machine  uint16
	Entry    uint64
	SHOff    uint64
	SHNum    uint16
	SHStrNdx uint16
}

// ParseELFHeader parses the header of an sBPF program binary and checks that
// it targets a BPF machine. Only the header is inspected.
func ParseELFHeader(data []byte) (ELFHeader, error) {
	var h ELFHeader
	if len(data) > MaxELFSize {
		return h, fmt.Errorf("%w: %d bytes", ErrELFTooLarge, len(data))
	}
	if len(data) < ELFHeaderSize || !bytes.Equal(data[0:4], elfMagic) {
		return h, ErrInvalidELF
	}

	h.Class = data[4]
	h.Data = data[5]
	h.Type = binary.LittleEndian.Uint16(data[16:18])
	h.Machine = binary.LittleEndian.Uint16(data[18:20])
	h.Entry = binary.LittleEndian.Uint64(data[24:32])
	h.SHOff = binary.LittleEndian.Uint64(data[40:48])
	h.SHNum = binary.LittleEndian.Uint16(data[60:62])
	h.SHStrNdx = binary.LittleEndian.Uint16(data[62:64])

	if h.Class != elfClass64 {
		return h, ErrUnsupportedClass
	}
	if h.Data != elfDataLSB {
		return h, ErrUnsupportedEndian
	}
	if h.Machine != elfMachineBPF && h.Machine != elfMachineSBPF {
		return h, ErrUnsupportedMachine
	}
	if h.Type != elfTypeExec && h.Type != elfTypeDyn {
		return h, fmt.Errorf("%w: unsupported ELF type %d", ErrInvalidELF, h.Type)
	}
	return h, nil
}

// MachineName returns a short name for the header's target machine.
func (h ELFHeader) MachineName() string {
	switch h.Machine {
	case elfMachineBPF:
		return "bpf"
	case elfMachineSBPF:
		return "sbpf"
	default:
		return fmt.Sprintf("machine(%d)", h.Machine)
	}
}
