package accounts

import (
	"crypto/sha256"
	"encoding/binary"
	"sort"

	"github.com/zeebo/blake3"

	"github.com/fortiblox/x1-genesis/internal/types"
)

// MerkleFanout is the number of children per node in the accounts hash tree.
const MerkleFanout = 16

// ComputeAccountHash computes the hash of a single account:
// BLAKE3(lamports || rent_epoch || data || executable || owner || pubkey)
//
// Accounts with zero lamports hash to the zero hash.
func ComputeAccountHash(pubkey types.Pubkey, account *Account) types.Hash {
	if account.Lamports == 0 {
		return types.Hash{}
	}

	h := blake3.New()

	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], account.Lamports)
	h.Write(buf[:])
	binary.LittleEndian.PutUint64(buf[:], account.RentEpoch)
	h.Write(buf[:])

	h.Write(account.Data)

	if account.Executable {
		h.Write([]byte{1})
	} else {
		h.Write([]byte{0})
	}

	h.Write(account.Owner[:])
	h.Write(pubkey[:])

	var out types.Hash
	h.Sum(out[:0])
	return out
}

// ComputeMerkleRoot computes the root of a 16-ary Merkle tree over hashes.
// Each node is SHA256 of the concatenation of up to MerkleFanout children.
// An empty input hashes to SHA256 of nothing.
func ComputeMerkleRoot(hashes []types.Hash) types.Hash {
	if len(hashes) == 0 {
		return types.ComputeHash(nil)
	}

	level := hashes
	for {
		next := make([]types.Hash, (len(level)+MerkleFanout-1)/MerkleFanout)
		for i := range next {
			start := i * MerkleFanout
			end := start + MerkleFanout
			if end > len(level) {
				end = len(level)
			}

			h := sha256.New()
			for _, child := range level[start:end] {
				h.Write(child[:])
			}
			h.Sum(next[i][:0])
		}

		if len(next) == 1 {
			return next[0]
		}
		level = next
	}
}

// AccountsHashResult summarizes an account set.
type AccountsHashResult struct {
	Hash           types.Hash
	Capitalization uint64
	Count          uint64
}

// ComputeEntriesHash hashes an account set given as entries. Entries are
// sorted by pubkey; duplicate pubkeys resolve to the last entry.
func ComputeEntriesHash(entries []AccountEntry) AccountsHashResult {
	latest := make(map[types.Pubkey]*Account, len(entries))
	for _, e := range entries {
		latest[e.Pubkey] = e.Account
	}

	pubkeys := make([]types.Pubkey, 0, len(latest))
	for pubkey := range latest {
		pubkeys = append(pubkeys, pubkey)
	}
	SortPubkeys(pubkeys)

	result := AccountsHashResult{}
	hashes := make([]types.Hash, 0, len(pubkeys))
	for _, pubkey := range pubkeys {
		account := latest[pubkey]
		if account.Lamports == 0 {
			continue
		}
		hashes = append(hashes, ComputeAccountHash(pubkey, account))
		result.Capitalization += account.Lamports
		result.Count++
	}
	result.Hash = ComputeMerkleRoot(hashes)
	return result
}

// ComputeAccountsHash hashes every account in db.
func ComputeAccountsHash(db Iterable) (AccountsHashResult, error) {
	var entries []AccountEntry
	err := db.IterateAccounts(func(pubkey types.Pubkey, account *Account) error {
		entries = append(entries, AccountEntry{Pubkey: pubkey, Account: account})
		return nil
	})
	if err != nil {
		return AccountsHashResult{}, err
	}
	return ComputeEntriesHash(entries), nil
}

// SortPubkeys sorts a slice of pubkeys in ascending order.
func SortPubkeys(pubkeys []types.Pubkey) {
	sort.Slice(pubkeys, func(i, j int) bool {
		return pubkeys[i].Compare(pubkeys[j]) < 0
	})
}
