package types

import "fmt"

// Loader addresses.
// An account's owner loader decides how its data is interpreted at runtime.
var (
	// BPFLoaderDeprecatedAddr is the original, deprecated BPF loader.
	BPFLoaderDeprecatedAddr = MustPubkeyFromBase58("BPFLoader1111111111111111111111111111111111")

	// BPFLoaderAddr is BPF loader v2. Program accounts it owns hold the ELF
	// directly and are immutable.
	BPFLoaderAddr = MustPubkeyFromBase58("BPFLoader2111111111111111111111111111111111")

	// BPFLoaderUpgradeableAddr is BPF loader v3. Programs it owns are split
	// into a program account and a program-data account.
	BPFLoaderUpgradeableAddr = MustPubkeyFromBase58("BPFLoaderUpgradeab1e11111111111111111111111")

	// LoaderV4Addr is the Loader V4 address.
	LoaderV4Addr = MustPubkeyFromBase58("LoaderV411111111111111111111111111111111111")

	// NativeLoaderAddr is the Native Loader address.
	NativeLoaderAddr = MustPubkeyFromBase58("NativeLoader1111111111111111111111111111111")
)

// Native program addresses.
// These are the same across Solana mainnet and X1.
var (
	// ConfigProgramAddr is the Config Program address.
	ConfigProgramAddr = MustPubkeyFromBase58("Config1111111111111111111111111111111111111")

	// AddressLookupTableProgramAddr is the Address Lookup Table Program address.
	AddressLookupTableProgramAddr = MustPubkeyFromBase58("AddressLookupTab1e1111111111111111111111111")

	// FeatureGateProgramAddr is the Feature Gate Program address.
	FeatureGateProgramAddr = MustPubkeyFromBase58("Feature111111111111111111111111111111111111")
)

// SPL program addresses.
var (
	// TokenProgramAddr is the SPL Token program.
	TokenProgramAddr = MustPubkeyFromBase58("TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA")

	// Token2022ProgramAddr is the SPL Token-2022 program.
	Token2022ProgramAddr = MustPubkeyFromBase58("TokenzQdBNbLqP5VEhdkAS6EPFLC1PHnBqCXEpPxuEb")

	// MemoV1ProgramAddr is the SPL Memo 1.0 program.
	MemoV1ProgramAddr = MustPubkeyFromBase58("Memo1UhkJRfHyvLMcVucJwxXeuD728EqVDDwQDxFMNo")

	// MemoV3ProgramAddr is the SPL Memo 3.0 program.
	MemoV3ProgramAddr = MustPubkeyFromBase58("MemoSq4gqABAXKb96qnH8TysNcWxMyWCqXgDLGmfcHr")

	// AssociatedTokenAccountProgramAddr is the SPL Associated Token Account program.
	AssociatedTokenAccountProgramAddr = MustPubkeyFromBase58("ATokenGPvbdGVxr1b2hvZbsiqW5xWH25efTNsLJA8knL")
)

// Sysvar addresses.
var (
	// SysvarRentAddr is the Rent sysvar address.
	SysvarRentAddr = MustPubkeyFromBase58("SysvarRent111111111111111111111111111111111")

	// SysvarOwnerAddr owns every sysvar account.
	SysvarOwnerAddr = MustPubkeyFromBase58("Sysvar1111111111111111111111111111111111111")
)

// MustPubkeyFromBase58 parses a base58 pubkey or panics.
// Only use for compile-time constants.
func MustPubkeyFromBase58(s string) Pubkey {
	p, err := PubkeyFromBase58(s)
	if err != nil {
		panic(fmt.Sprintf("invalid pubkey constant %q: %v", s, err))
	}
	return p
}

// LoaderName returns a short human-readable name for a loader address,
// or the base58 address if it is not a known loader.
func LoaderName(p Pubkey) string {
	switch p {
	case BPFLoaderDeprecatedAddr:
		return "bpf-loader-deprecated"
	case BPFLoaderAddr:
		return "bpf-loader"
	case BPFLoaderUpgradeableAddr:
		return "bpf-loader-upgradeable"
	case LoaderV4Addr:
		return "loader-v4"
	case NativeLoaderAddr:
		return "native-loader"
	default:
		return p.String()
	}
}
