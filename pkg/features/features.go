// Package features identifies the feature gates that control Core BPF
// program migrations and answers whether they are active.
package features

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fortiblox/x1-genesis/internal/types"
)

// Core BPF migration feature gates.
var (
	// MigrateAddressLookupTableProgramToCoreBPF replaces the native address
	// lookup table program with its BPF build.
	MigrateAddressLookupTableProgramToCoreBPF = types.MustPubkeyFromBase58("C97eKZygrkU4JxJsZdjgbUY7iQR7rKTr4NyDWo2E5pRm")

	// MigrateConfigProgramToCoreBPF replaces the native config program.
	MigrateConfigProgramToCoreBPF = types.MustPubkeyFromBase58("2Fr57nzzkLYXW695UdDxDeR5fhnZWSttZeZYemrnpGFV")

	// MigrateFeatureGateProgramToCoreBPF replaces the native feature gate program.
	MigrateFeatureGateProgramToCoreBPF = types.MustPubkeyFromBase58("4eohviozzEeivk1y9UbrnekbAFMDQyJz5JjA9Y6gyvky")
)

// names maps known feature IDs to their canonical names.
var names = map[types.Pubkey]string{
	MigrateAddressLookupTableProgramToCoreBPF: "migrate_address_lookup_table_program_to_core_bpf",
	MigrateConfigProgramToCoreBPF:             "migrate_config_program_to_core_bpf",
	MigrateFeatureGateProgramToCoreBPF:        "migrate_feature_gate_program_to_core_bpf",
}

// Predicate reports whether a feature is active. It must be pure.
type Predicate func(id types.Pubkey) bool

// Name returns the canonical name of a known feature, or its address.
func Name(id types.Pubkey) string {
	if name, ok := names[id]; ok {
		return name
	}
	return id.String()
}

// Known returns all known feature IDs sorted by name.
func Known() []types.Pubkey {
	ids := make([]types.Pubkey, 0, len(names))
	for id := range names {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return names[ids[i]] < names[ids[j]] })
	return ids
}

// Lookup resolves a feature by canonical name or base58 address.
func Lookup(s string) (types.Pubkey, error) {
	for id, name := range names {
		if name == s {
			return id, nil
		}
	}
	id, err := types.PubkeyFromBase58(s)
	if err != nil {
		known := make([]string, 0, len(names))
		for _, k := range Known() {
			known = append(known, names[k])
		}
		return types.Pubkey{}, fmt.Errorf("unknown feature %q (known: %s): %w", s, strings.Join(known, ", "), err)
	}
	return id, nil
}

// Set is an immutable set of active features.
type Set struct {
	all    bool
	active map[types.Pubkey]struct{}
}

// NewSet returns a set with the given features active.
func NewSet(ids ...types.Pubkey) Set {
	active := make(map[types.Pubkey]struct{}, len(ids))
	for _, id := range ids {
		active[id] = struct{}{}
	}
	return Set{active: active}
}

// All returns a set in which every feature is active.
func All() Set {
	return Set{all: true}
}

// None returns a set in which no feature is active.
func None() Set {
	return Set{}
}

// IsActive reports whether id is active.
func (s Set) IsActive(id types.Pubkey) bool {
	if s.all {
		return true
	}
	_, ok := s.active[id]
	return ok
}

// Predicate returns s.IsActive as a Predicate.
func (s Set) Predicate() Predicate {
	return s.IsActive
}

// Len returns the number of explicitly active features, or -1 if every
// feature is active.
func (s Set) Len() int {
	if s.all {
		return -1
	}
	return len(s.active)
}
