// Package genesis builds the program accounts seeded into a ledger's genesis
// state: the SPL programs every cluster starts with, and the Core BPF
// programs that replace native builtins once their migration feature is
// active.
//
// All functions here are pure. They return fresh accounts on every call and
// never touch a database; persisting the result is the caller's job.
package genesis

import (
	"github.com/fortiblox/x1-genesis/internal/types"
	"github.com/fortiblox/x1-genesis/pkg/accounts"
	"github.com/fortiblox/x1-genesis/pkg/features"
	"github.com/fortiblox/x1-genesis/pkg/loader"
	"github.com/fortiblox/x1-genesis/pkg/rent"
)

// BPFLoaderProgramAccount returns the account for a program owned by BPF
// loader v2: the ELF stored directly in an executable account.
func BPFLoaderProgramAccount(programID types.Pubkey, elf []byte, r rent.Schedule) accounts.AccountEntry {
	lamports := r.MinimumBalance(uint64(len(elf)))
	if lamports == 0 {
		lamports = 1
	}

	return accounts.AccountEntry{
		Pubkey: programID,
		Account: &accounts.Account{
			Lamports:   lamports,
			Data:       append([]byte(nil), elf...),
			Owner:      types.BPFLoaderAddr,
			Executable: true,
			RentEpoch:  0,
		},
	}
}

// BPFLoaderUpgradeableProgramAccounts returns the two accounts of a program
// owned by the upgradeable loader.
//
// The first is the program account, an executable pointer to the
// program-data address. The second is the program-data account at that
// address, holding ProgramData metadata followed by the ELF. Genesis programs
// are deployed at slot 0 with the zero pubkey as upgrade authority.
func BPFLoaderUpgradeableProgramAccounts(programID types.Pubkey, elf []byte, r rent.Schedule) [2]accounts.AccountEntry {
	programDataAddress := loader.ProgramDataAddress(programID)

	programAccount := &accounts.Account{
		Lamports:   r.MinimumBalance(loader.SizeOfProgram),
		Data:       loader.ProgramState(programDataAddress).MustEncode(),
		Owner:      types.BPFLoaderUpgradeableAddr,
		Executable: true,
		RentEpoch:  0,
	}

	var authority types.Pubkey
	data := make([]byte, 0, loader.SizeOfProgramDataMetadata+len(elf))
	data = append(data, loader.ProgramDataState(0, &authority).MustEncode()...)
	data = append(data, elf...)

	programDataAccount := &accounts.Account{
		Lamports:   r.MinimumBalance(uint64(loader.SizeOfProgramDataMetadata + len(elf))),
		Data:       data,
		Owner:      types.BPFLoaderUpgradeableAddr,
		Executable: false,
		RentEpoch:  0,
	}

	return [2]accounts.AccountEntry{
		{Pubkey: programID, Account: programAccount},
		{Pubkey: programDataAddress, Account: programDataAccount},
	}
}

// SPLProgramAccounts builds the accounts for every SPL program, in registry
// order. Upgradeable programs contribute two accounts, the rest one.
func SPLProgramAccounts(r rent.Schedule) []accounts.AccountEntry {
	var entries []accounts.AccountEntry
	for _, p := range splPrograms {
		if p.Loader == types.BPFLoaderUpgradeableAddr {
			pair := BPFLoaderUpgradeableProgramAccounts(p.ID, p.elf, r)
			entries = append(entries, pair[:]...)
		} else {
			entries = append(entries, BPFLoaderProgramAccount(p.ID, p.elf, r))
		}
	}
	return entries
}

// CoreBPFProgramAccounts builds the accounts for every Core BPF program whose
// migration feature is active, in registry order. isActive is called once
// per program.
func CoreBPFProgramAccounts(r rent.Schedule, isActive features.Predicate) []accounts.AccountEntry {
	var entries []accounts.AccountEntry
	for _, p := range coreBPFPrograms {
		if !isActive(p.Feature) {
			continue
		}
		pair := BPFLoaderUpgradeableProgramAccounts(p.ID, p.elf, r)
		entries = append(entries, pair[:]...)
	}
	return entries
}

// ProgramAccounts returns the SPL program accounts followed by the active
// Core BPF program accounts.
func ProgramAccounts(r rent.Schedule, isActive features.Predicate) []accounts.AccountEntry {
	entries := SPLProgramAccounts(r)
	return append(entries, CoreBPFProgramAccounts(r, isActive)...)
}
