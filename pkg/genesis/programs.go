package genesis

import (
	"bytes"
	"embed"
	"fmt"

	"github.com/fortiblox/x1-genesis/internal/types"
	"github.com/fortiblox/x1-genesis/pkg/features"
)

//go:embed programs/*.so
var programFS embed.FS

// SPLProgram is an always-present program and the loader that owns it.
type SPLProgram struct {
	Name    string
	Version string
	ID      types.Pubkey
	Loader  types.Pubkey
	elf     []byte
}

// CoreBPFProgram is a former builtin whose BPF build is deployed once its
// migration feature is active. Core BPF programs are always owned by the
// upgradeable loader.
type CoreBPFProgram struct {
	Name    string
	Version string
	ID      types.Pubkey
	Feature types.Pubkey
	elf     []byte
}

// ELF returns a copy of the program binary.
func (p SPLProgram) ELF() []byte { return append([]byte(nil), p.elf...) }

// Size returns the length of the program binary.
func (p SPLProgram) Size() int { return len(p.elf) }

// Placeholder reports whether the embedded binary is a header-only stand-in
// rather than a deployable build.
func (p SPLProgram) Placeholder() bool { return isPlaceholder(p.elf) }

// ELF returns a copy of the program binary.
func (p CoreBPFProgram) ELF() []byte { return append([]byte(nil), p.elf...) }

// Size returns the length of the program binary.
func (p CoreBPFProgram) Size() int { return len(p.elf) }

// Placeholder reports whether the embedded binary is a header-only stand-in
// rather than a deployable build.
func (p CoreBPFProgram) Placeholder() bool { return isPlaceholder(p.elf) }

// Stand-in binaries are an ELF64 header followed by placeholderMarker.
const placeholderOffset = 64

var placeholderMarker = []byte("stand-in image for ")

func isPlaceholder(elf []byte) bool {
	return len(elf) >= placeholderOffset && bytes.HasPrefix(elf[placeholderOffset:], placeholderMarker)
}

var splPrograms = []SPLProgram{
	{
		Name:    "spl_token",
		Version: "3.5.0",
		ID:      types.TokenProgramAddr,
		Loader:  types.BPFLoaderAddr,
		elf:     mustReadProgram("spl_token-3.5.0.so"),
	},
	{
		Name:    "spl_token_2022",
		Version: "8.0.0",
		ID:      types.Token2022ProgramAddr,
		Loader:  types.BPFLoaderUpgradeableAddr,
		elf:     mustReadProgram("spl_token_2022-8.0.0.so"),
	},
	{
		Name:    "spl_memo",
		Version: "1.0.0",
		ID:      types.MemoV1ProgramAddr,
		Loader:  types.BPFLoaderAddr,
		elf:     mustReadProgram("spl_memo-1.0.0.so"),
	},
	{
		Name:    "spl_memo",
		Version: "3.0.0",
		ID:      types.MemoV3ProgramAddr,
		Loader:  types.BPFLoaderAddr,
		elf:     mustReadProgram("spl_memo-3.0.0.so"),
	},
	{
		Name:    "spl_associated_token_account",
		Version: "1.1.1",
		ID:      types.AssociatedTokenAccountProgramAddr,
		Loader:  types.BPFLoaderAddr,
		elf:     mustReadProgram("spl_associated_token_account-1.1.1.so"),
	},
}

var coreBPFPrograms = []CoreBPFProgram{
	{
		Name:    "core_bpf_address_lookup_table",
		Version: "3.0.0",
		ID:      types.AddressLookupTableProgramAddr,
		Feature: features.MigrateAddressLookupTableProgramToCoreBPF,
		elf:     mustReadProgram("core_bpf_address_lookup_table-3.0.0.so"),
	},
	{
		Name:    "core_bpf_config",
		Version: "3.0.0",
		ID:      types.ConfigProgramAddr,
		Feature: features.MigrateConfigProgramToCoreBPF,
		elf:     mustReadProgram("core_bpf_config-3.0.0.so"),
	},
	{
		Name:    "core_bpf_feature_gate",
		Version: "0.0.1",
		ID:      types.FeatureGateProgramAddr,
		Feature: features.MigrateFeatureGateProgramToCoreBPF,
		elf:     mustReadProgram("core_bpf_feature_gate-0.0.1.so"),
	},
}

// SPLPrograms returns the always-present programs in registry order.
func SPLPrograms() []SPLProgram {
	return append([]SPLProgram(nil), splPrograms...)
}

// CoreBPFPrograms returns the Core BPF migration programs in registry order.
func CoreBPFPrograms() []CoreBPFProgram {
	return append([]CoreBPFProgram(nil), coreBPFPrograms...)
}

func mustReadProgram(name string) []byte {
	data, err := programFS.ReadFile("programs/" + name)
	if err != nil {
		panic(fmt.Sprintf("genesis: embedded program %s: %v", name, err))
	}
	return data
}
