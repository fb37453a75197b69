package loader

import (
	"encoding/binary"
	"errors"
	"testing"
)

func testELF(machine uint16) []byte {
	data := make([]byte, ELFHeaderSize+16)
	copy(data, elfMagic)
	data[4] = elfClass64
	data[5] = elfDataLSB
	data[6] = 1
	binary.LittleEndian.PutUint16(data[16:18], elfTypeDyn)
	binary.LittleEndian.PutUint16(data[18:20], machine)
	binary.LittleEndian.PutUint64(data[24:32], 0x120)
	return data
}

func TestParseELFHeader(t *testing.T) {
	for _, machine := range []uint16{elfMachineBPF, elfMachineSBPF} {
		h, err := ParseELFHeader(testELF(machine))
		if err != nil {
			t.Fatalf("machine %d: %v", machine, err)
		}
		if h.Machine != machine || h.Type != elfTypeDyn || h.Entry != 0x120 {
			t.Errorf("header mismatch: %+v", h)
		}
	}
}

func TestParseELFHeaderInvalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func([]byte) []byte
		want   error
	}{
		{"short", func(b []byte) []byte { return b[:10] }, ErrInvalidELF},
		{"magic", func(b []byte) []byte { b[1] = 'X'; return b }, ErrInvalidELF},
		{"class", func(b []byte) []byte { b[4] = 1; return b }, ErrUnsupportedClass},
		{"endian", func(b []byte) []byte { b[5] = 2; return b }, ErrUnsupportedEndian},
		{"machine", func(b []byte) []byte { binary.LittleEndian.PutUint16(b[18:20], 62); return b }, ErrUnsupportedMachine},
		{"type", func(b []byte) []byte { binary.LittleEndian.PutUint16(b[16:18], 1); return b }, ErrInvalidELF},
		{"too large", func(b []byte) []byte { return append(b, make([]byte, MaxELFSize)...) }, ErrELFTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseELFHeader(tt.mutate(testELF(elfMachineSBPF)))
			if !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}
